// Package sqlite stores detection results in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"sync"

	// registers the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// DB wraps the SQLite connection. Writes are serialized.
type DB struct {
	conn *sql.DB
	mu   sync.RWMutex
}

// New opens (creating if needed) the database at path and migrates its schema.
func New(ctx context.Context, path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open database %q", path)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	db := &DB{conn: conn}
	if err := db.migrate(ctx); err != nil {
		return nil, multierr.Combine(errors.Wrapf(err, "cannot migrate database %q", path), conn.Close())
	}
	return db, nil
}

func (db *DB) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		run_id TEXT NOT NULL DEFAULT '',
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		detected_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS detections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		image_id INTEGER NOT NULL,
		class_id INTEGER NOT NULL,
		label TEXT NOT NULL,
		score REAL NOT NULL,
		xmin REAL NOT NULL,
		ymin REAL NOT NULL,
		xmax REAL NOT NULL,
		ymax REAL NOT NULL,
		FOREIGN KEY (image_id) REFERENCES images(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_detections_image_id ON detections(image_id);
	CREATE INDEX IF NOT EXISTS idx_detections_label ON detections(label);
	CREATE INDEX IF NOT EXISTS idx_images_run_id ON images(run_id);
	`
	_, err := db.conn.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
