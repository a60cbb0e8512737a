package config

var defaults = map[string]any{
	"secret":           "",
	"token_ttl":        60 * 24 * 7, // 7 days
	"verification_ttl": 24,
	"log_level":        "info",

	"frontend_url": "http://localhost:5173",

	"upload.dir":             "uploads",
	"upload.max_size":        5 * 1024 * 1024,
	"upload.jpeg_quality":    85,
	"upload.allowed_formats": []string{"jpg", "jpeg", "png"},

	"email.host":      "host.docker.internal",
	"email.port":      25,
	"email.username":  "",
	"email.password":  "",
	"email.from":      "noreply@example.com",
	"email.start_tls": true,

	"storage.sqlite.path": "./data/storage.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
