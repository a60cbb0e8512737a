// Package storage provides the relational store and a simple, embedded-file
// based schema migration system.
//
// Migration SQL files are embedded via embed.FS under the "migrations"
// directory, in a driver-specific subdirectory.
//
// Migration file naming and format
//   - Filenames must match the pattern: NNNN_name.up.sql or NNNN_name.down.sql
//   - Version is a four-digit integer (e.g. 0001, 0002).
//   - Direction is either "up" (apply) or "down" (rollback).
//
// Heavily influenced by Authelia's migration system https://github.com/authelia/authelia/blob/master/internal/storage/migrations.go
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

//go:embed migrations/**/*.sql
var migrationsFS embed.FS

var reMigrationFilename = regexp.MustCompile(`^(?P<Version>\d{4})\_(?P<Name>[^.]+)\.(?P<Direction>(up|down))\.sql$`)

var (
	ErrMigrateCurrentVersionSameAsTarget = errors.New("current version is the same as target version")
)

// SchemaMigration represents a single database migration
type SchemaMigration struct {
	Version int
	Name    string
	Up      bool
	SQL     string
}

func (m *SchemaMigration) After() int {
	if m.Up {
		return m.Version
	}
	return m.Version - 1
}

// MigrationRunner handles database migrations
type MigrationRunner struct {
	db         *sql.DB
	driver     string
	migrations []SchemaMigration
	logger     *slog.Logger
}

// NewMigrationRunner creates a new migration runner
func NewMigrationRunner(db *sql.DB, driver string) *MigrationRunner {
	logger := slog.With("component", "migrations", "driver", driver)

	return &MigrationRunner{
		db:         db,
		driver:     driver,
		migrations: []SchemaMigration{},
		logger:     logger,
	}
}

func (mr *MigrationRunner) migrationsDir() (string, error) {
	switch mr.driver {
	case "sqlite3":
		return "migrations/sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported driver: %s", mr.driver)
	}
}

// GetLatestMigrationVersion scans migration files and returns the highest version number
func (mr *MigrationRunner) GetLatestMigrationVersion() (int, error) {
	dirPath, err := mr.migrationsDir()
	if err != nil {
		return -1, err
	}

	entries, err := migrationsFS.ReadDir(dirPath)
	if err != nil {
		return -1, fmt.Errorf("failed to read migration directory: %w", err)
	}

	latestVersion := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		migration, err := mr.parseMigrationFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			continue
		}

		if !migration.Up {
			continue
		}

		if migration.Version > latestVersion {
			latestVersion = migration.Version
		}
	}

	return latestVersion, nil
}

// LoadMigrations loads migrations from the embedded filesystem.
// A target of -1 indicates the latest version, 0 the database zero state.
func (mr *MigrationRunner) LoadMigrations(prior int, target int) error {
	if target == -1 {
		latestVersion, err := mr.GetLatestMigrationVersion()
		if err != nil {
			return fmt.Errorf("failed to get latest migration version: %w", err)
		}
		target = latestVersion
		mr.logger.Debug("Target version set to latest", "version", target)
	}

	if prior == target {
		return ErrMigrateCurrentVersionSameAsTarget
	}

	dirPath, err := mr.migrationsDir()
	if err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		migration, err := mr.parseMigrationFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			mr.logger.Warn("Failed to parse migration file", "file", entry.Name(), "error", err)
			continue
		}

		if mr.skipMigration(migration, prior, target) {
			continue
		}

		mr.migrations = append(mr.migrations, migration)
	}

	if prior < target {
		sort.Slice(mr.migrations, func(i, j int) bool {
			return mr.migrations[i].Version < mr.migrations[j].Version
		})
	} else {
		sort.Slice(mr.migrations, func(i, j int) bool {
			return mr.migrations[i].Version > mr.migrations[j].Version
		})
	}

	mr.logger.Info("Loaded migrations", "count", len(mr.migrations), "from_version", prior, "to_version", target)
	return nil
}

func (mr *MigrationRunner) skipMigration(migration SchemaMigration, currentVersion int, targetVersion int) bool {
	doUp := targetVersion == -1 || targetVersion > currentVersion
	if doUp {
		if !migration.Up {
			return true
		}

		// Skip if the migration version is greater than the target or less than or equal to the previous version.
		if migration.Version > targetVersion || migration.Version <= currentVersion {
			return true
		}
	} else {
		if migration.Up {
			return true
		}

		// Skip the migration if we want to go down and the migration version is less than or equal to the target
		// or greater than the previous version.
		if migration.Version <= targetVersion || migration.Version > currentVersion {
			return true
		}
	}

	return false
}

// parseMigrationFile parses a migration filename and reads its content
// Expected format: NNNN_description.up.sql or NNNN_description.down.sql
func (mr *MigrationRunner) parseMigrationFile(path string) (SchemaMigration, error) {
	filename := filepath.Base(path)
	if !reMigrationFilename.MatchString(filename) {
		return SchemaMigration{}, fmt.Errorf("invalid migration filename: %s", filename)
	}

	filenameParts := reMigrationFilename.FindStringSubmatch(filename)
	if len(filenameParts) != 5 {
		return SchemaMigration{}, fmt.Errorf("invalid migration filename format: %s, parts: %v", filename, filenameParts)
	}

	content, err := migrationsFS.ReadFile(path)
	if err != nil {
		return SchemaMigration{}, fmt.Errorf("failed to read migration file: %w", err)
	}

	version, _ := strconv.Atoi(filenameParts[reMigrationFilename.SubexpIndex("Version")])
	migration := SchemaMigration{
		Version: version,
		Name:    filenameParts[reMigrationFilename.SubexpIndex("Name")],
		Up:      filenameParts[reMigrationFilename.SubexpIndex("Direction")] == "up",
		SQL:     string(content),
	}

	return migration, nil
}

// Run applies the loaded migrations, recording the schema version after each.
func (mr *MigrationRunner) Run(ctx context.Context) error {
	for _, migration := range mr.migrations {
		mr.logger.Info("Applying migration", "version", migration.Version, "name", migration.Name, "up", migration.Up)

		tx, err := mr.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %04d_%s failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE schema_migrations SET version = ?`, migration.After()); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record schema version: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

// GetSchemaVersion returns the current schema version, 0 for a fresh database.
func (p *SQLProvider) GetSchemaVersion(ctx context.Context) (int, error) {
	if _, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL)`); err != nil {
		return -1, err
	}

	var version int
	err := p.db.QueryRowxContext(ctx, `SELECT version FROM schema_migrations`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := p.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (0)`); err != nil {
			return -1, err
		}
		return 0, nil
	} else if err != nil {
		return -1, err
	}

	return version, nil
}

// Migrate brings the schema to the target version (-1 for latest).
func (p *SQLProvider) Migrate(driver string, target int) error {
	ctx := context.Background()

	current, err := p.GetSchemaVersion(ctx)
	if err != nil {
		return err
	}

	runner := NewMigrationRunner(p.db.DB, driver)
	if err := runner.LoadMigrations(current, target); err != nil {
		if errors.Is(err, ErrMigrateCurrentVersionSameAsTarget) {
			p.logger.Debug("Schema is up to date", "version", current)
			return nil
		}
		return err
	}

	return runner.Run(ctx)
}

func (p *SQLProvider) runMigrations(driver string) error {
	return p.Migrate(driver, -1)
}
