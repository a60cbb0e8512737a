package config

type Storage struct {
	SQLite *SQLiteStorage `mapstructure:"sqlite,omitempty"`
	// PostgreSQL *StoragePostgreSQL `mapstructure:"postgresql,omitempty"`
}

type SQLiteStorage struct {
	Path string `mapstructure:"path,omitempty"`
}
