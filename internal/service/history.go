package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/joeblew999/plat-style/internal/style"
)

const historySchema = `
CREATE SEQUENCE IF NOT EXISTS generations_seq;
CREATE TABLE IF NOT EXISTS generations (
	id         BIGINT PRIMARY KEY DEFAULT nextval('generations_seq'),
	created_at TIMESTAMP NOT NULL,
	prompt     VARCHAR NOT NULL,
	overrides  VARCHAR NOT NULL,
	name       VARCHAR NOT NULL,
	water      VARCHAR NOT NULL,
	land       VARCHAR NOT NULL,
	roads      VARCHAR NOT NULL,
	buildings  VARCHAR NOT NULL,
	labels     VARCHAR NOT NULL
);`

// HistoryService stores generated styles in DuckDB.
type HistoryService struct {
	db *sql.DB
}

// NewHistoryService creates the history table if needed.
func NewHistoryService(ctx context.Context, db *sql.DB) (*HistoryService, error) {
	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		return nil, fmt.Errorf("creating history table: %w", err)
	}
	return &HistoryService{db: db}, nil
}

// Record appends a generation to the history.
func (h *HistoryService) Record(ctx context.Context, e HistoryEntry) error {
	overrides, err := json.Marshal(e.Overrides)
	if err != nil {
		return fmt.Errorf("encoding overrides: %w", err)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err = h.db.ExecContext(ctx,
		`INSERT INTO generations (created_at, prompt, overrides, name, water, land, roads, buildings, labels)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CreatedAt, e.Prompt, string(overrides), e.Style.Name,
		string(e.Style.Water), string(e.Style.Land), string(e.Style.Roads),
		string(e.Style.Buildings), string(e.Style.Labels))
	if err != nil {
		return fmt.Errorf("recording generation: %w", err)
	}
	return nil
}

// List returns entries newest first, plus the total number of entries.
func (h *HistoryService) List(ctx context.Context, offset, limit int) ([]HistoryEntry, int, error) {
	var total int
	if err := h.db.QueryRowContext(ctx, "SELECT count(*) FROM generations").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting history: %w", err)
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, created_at, prompt, overrides, name, water, land, roads, buildings, labels
		 FROM generations ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var (
			e         HistoryEntry
			overrides string
			water     string
			land      string
			roads     string
			buildings string
			labels    string
		)
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Prompt, &overrides, &e.Style.Name,
			&water, &land, &roads, &buildings, &labels); err != nil {
			return nil, 0, fmt.Errorf("scanning history: %w", err)
		}
		if err := json.Unmarshal([]byte(overrides), &e.Overrides); err != nil {
			return nil, 0, fmt.Errorf("decoding overrides of entry %d: %w", e.ID, err)
		}
		e.Style.Water = style.Color(water)
		e.Style.Land = style.Color(land)
		e.Style.Roads = style.Color(roads)
		e.Style.Buildings = style.Color(buildings)
		e.Style.Labels = style.Color(labels)
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
