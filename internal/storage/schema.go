package storage

import (
	"database/sql"
	"fmt"
)

// Schema version tracking
const currentSchemaVersion = 1

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createCablesTable(tx); err != nil {
			return err
		}
		if err := createCircuitsTable(tx); err != nil {
			return err
		}
		if err := createSplicesTable(tx); err != nil {
			return err
		}
		if err := setSchemaVersion(tx, currentSchemaVersion); err != nil {
			return err
		}

		db.logger.Info("Database schema initialized", map[string]interface{}{
			"version": currentSchemaVersion,
		})
		return nil
	})
}

// runMigrations runs any pending schema migrations
func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		db.logger.Debug("Database schema is up to date", map[string]interface{}{
			"version": version,
		})
		return nil
	}

	db.logger.Info("Running database migrations", map[string]interface{}{
		"from_version": version,
		"to_version":   currentSchemaVersion,
	})

	// Add migration functions here as the schema evolves.
	return nil
}

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

func createCablesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS cables (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			pair_count  INTEGER NOT NULL,
			binder_size INTEGER NOT NULL DEFAULT 25,
			role        TEXT NOT NULL CHECK (role IN ('feed', 'distribution')),
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cables table: %w", err)
	}
	return nil
}

func createCircuitsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS circuits (
			id              TEXT PRIMARY KEY,
			cable_id        TEXT NOT NULL,
			identifier      TEXT NOT NULL,
			position        INTEGER NOT NULL,
			pair_start      INTEGER NOT NULL DEFAULT 0,
			pair_end        INTEGER NOT NULL DEFAULT 0,
			is_spliced      INTEGER NOT NULL DEFAULT 0,
			feed_cable_id   TEXT NOT NULL DEFAULT '',
			feed_pair_start INTEGER NOT NULL DEFAULT 0,
			feed_pair_end   INTEGER NOT NULL DEFAULT 0,
			created_at      TEXT NOT NULL,
			updated_at      TEXT NOT NULL,
			UNIQUE (cable_id, position)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create circuits table: %w", err)
	}
	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_circuits_cable ON circuits(cable_id, position)`)
	if err != nil {
		return fmt.Errorf("failed to create circuits index: %w", err)
	}
	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_circuits_feed ON circuits(feed_cable_id)`)
	if err != nil {
		return fmt.Errorf("failed to create circuits feed index: %w", err)
	}
	return nil
}

func createSplicesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS splices (
			id                TEXT PRIMARY KEY,
			source_cable_id   TEXT NOT NULL,
			source_pair_start INTEGER NOT NULL,
			source_pair_end   INTEGER NOT NULL,
			dest_cable_id     TEXT NOT NULL,
			dest_pair_start   INTEGER NOT NULL,
			dest_pair_end     INTEGER NOT NULL,
			pon_start         INTEGER NOT NULL DEFAULT 0,
			pon_end           INTEGER NOT NULL DEFAULT 0,
			completed         INTEGER NOT NULL DEFAULT 0,
			created_at        TEXT NOT NULL,
			updated_at        TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create splices table: %w", err)
	}
	return nil
}

func setSchemaVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return nil
}

func (db *DB) getSchemaVersion() (int, error) {
	var version int
	err := db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
