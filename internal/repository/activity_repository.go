package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/ticketing-gateway/internal/queue"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

// ActivityRepo persists workflow activity into the activity_log table:
//
//	CREATE TABLE activity_log (
//	  id          CHAR(36)     NOT NULL PRIMARY KEY,
//	  kind        VARCHAR(64)  NOT NULL,
//	  entity_type VARCHAR(32)  NOT NULL,
//	  entity_id   VARCHAR(64)  NOT NULL,
//	  actor_role  VARCHAR(32)  NOT NULL,
//	  actor_email VARCHAR(255) NOT NULL,
//	  detail      VARCHAR(1024) NOT NULL DEFAULT '',
//	  occurred_at DATETIME(3)  NOT NULL,
//	  KEY idx_entity (entity_type, entity_id, occurred_at)
//	);
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

// ActivityFilter narrows List.  Empty fields match everything.
type ActivityFilter struct {
	EntityType string
	EntityID   string
	Limit      int
}

// Insert stores one event.  A redelivered event returns ErrDuplicate.
func (r *ActivityRepo) Insert(ctx context.Context, ev queue.ActivityEvent) error {
	occurred := ev.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO activity_log (id, kind, entity_type, entity_id, actor_role, actor_email, detail, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Kind, ev.EntityType, ev.EntityID, ev.ActorRole, ev.ActorEmail, ev.Detail, occurred.UTC(),
	)
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return ErrDuplicate
	}
	return err
}

// List returns the newest events first.  Limit is clamped to
// [1, MaxActivityLimit] with DefaultActivityLimit for zero.
func (r *ActivityRepo) List(ctx context.Context, f ActivityFilter) ([]queue.ActivityEvent, error) {
	limit := f.Limit
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}

	var where []string
	var args []interface{}
	if f.EntityType != "" {
		where = append(where, "entity_type = ?")
		args = append(args, f.EntityType)
	}
	if f.EntityID != "" {
		where = append(where, "entity_id = ?")
		args = append(args, f.EntityID)
	}
	q := `SELECT id, kind, entity_type, entity_id, actor_role, actor_email, detail, occurred_at FROM activity_log`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY occurred_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]queue.ActivityEvent, 0, limit)
	for rows.Next() {
		var ev queue.ActivityEvent
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.EntityType, &ev.EntityID, &ev.ActorRole, &ev.ActorEmail, &ev.Detail, &ev.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Get returns one event by id.
func (r *ActivityRepo) Get(ctx context.Context, id string) (*queue.ActivityEvent, error) {
	var ev queue.ActivityEvent
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, kind, entity_type, entity_id, actor_role, actor_email, detail, occurred_at
		FROM activity_log WHERE id = ?`, id,
	).Scan(&ev.ID, &ev.Kind, &ev.EntityType, &ev.EntityID, &ev.ActorRole, &ev.ActorEmail, &ev.Detail, &ev.OccurredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}
