package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"wedding-layout/internal/layout/models"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrProjectNotFound = errors.New("repository: project not found")

const schema = `
CREATE TABLE IF NOT EXISTS projects (
    id          TEXT PRIMARY KEY,
    event_id    TEXT NOT NULL DEFAULT '',
    bounds      TEXT NOT NULL,
    canvas      TEXT NOT NULL,
    element_count INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_event ON projects(event_id);
`

// Project is one persisted layout.
type Project struct {
	ID        string            `json:"id"`
	EventID   string            `json:"eventId,omitempty"`
	Bounds    models.Bounds     `json:"bounds"`
	Canvas    models.CanvasData `json:"canvas"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Summary is a project row without its canvas.
type Summary struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId,omitempty"`
	ElementCount int       `json:"elementCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Init creates the schema if it does not exist yet.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Save inserts or replaces a project. created_at survives updates.
func (r *Repository) Save(ctx context.Context, p Project) error {
	bounds, err := json.Marshal(p.Bounds)
	if err != nil {
		return fmt.Errorf("encode bounds: %w", err)
	}
	canvas, err := json.Marshal(p.Canvas)
	if err != nil {
		return fmt.Errorf("encode canvas: %w", err)
	}
	now := r.now().Format(time.RFC3339Nano)

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO projects (id, event_id, bounds, canvas, element_count, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            event_id = excluded.event_id,
            bounds = excluded.bounds,
            canvas = excluded.canvas,
            element_count = excluded.element_count,
            updated_at = excluded.updated_at
    `, p.ID, p.EventID, string(bounds), string(canvas), len(p.Canvas.Shapes), now, now)
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	return nil
}

func (r *Repository) Load(ctx context.Context, id string) (Project, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, event_id, bounds, canvas, created_at, updated_at
        FROM projects
        WHERE id = ?
    `, id)

	var (
		p                    Project
		bounds, canvas       string
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.EventID, &bounds, &canvas, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrProjectNotFound
		}
		return Project{}, fmt.Errorf("load project %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(bounds), &p.Bounds); err != nil {
		return Project{}, fmt.Errorf("decode bounds: %w", err)
	}
	if err := json.Unmarshal([]byte(canvas), &p.Canvas); err != nil {
		return Project{}, fmt.Errorf("decode canvas: %w", err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return p, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// List returns summaries, most recently updated first.
func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, event_id, element_count, updated_at
        FROM projects
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		var updatedAt string
		if err := rows.Scan(&s.ID, &s.EventID, &s.ElementCount, &updatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// OpenSQLite opens (creating if needed) the database file at dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
