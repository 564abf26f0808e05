package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to the audit MySQL database and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// The audit log only sees consumer inserts and admin reads.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const activitySchema = `
CREATE TABLE IF NOT EXISTS activity_log (
  id          CHAR(36)      NOT NULL PRIMARY KEY,
  kind        VARCHAR(64)   NOT NULL,
  entity_type VARCHAR(32)   NOT NULL,
  entity_id   VARCHAR(64)   NOT NULL,
  actor_role  VARCHAR(32)   NOT NULL,
  actor_email VARCHAR(255)  NOT NULL,
  detail      VARCHAR(1024) NOT NULL DEFAULT '',
  occurred_at DATETIME(3)   NOT NULL,
  KEY idx_entity (entity_type, entity_id, occurred_at),
  KEY idx_occurred (occurred_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Migrate creates the audit tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, activitySchema); err != nil {
		return fmt.Errorf("create activity_log: %w", err)
	}
	return nil
}
