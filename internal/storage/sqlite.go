package storage

import "time-tracker/internal/config"

type SQLiteProvider struct {
	SQLProvider
}

func NewSQLiteProvider(config *config.Storage) (*SQLiteProvider, error) {
	// Foreign keys are off by default in sqlite.
	dsn := config.SQLite.Path + "?_foreign_keys=on"

	inner, err := NewSQLProvider(config, "sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	provider := &SQLiteProvider{SQLProvider: *inner}

	if config.SQLite.Path == ":memory:" {
		// Every pool connection would get its own empty in-memory database.
		provider.db.SetMaxOpenConns(1)
	}

	return provider, nil
}
