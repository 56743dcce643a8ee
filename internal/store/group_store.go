package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vbonduro/groupr/internal/domain"
)

type GroupStore struct {
	db *sql.DB
}

func NewGroupStore(db *sql.DB) *GroupStore {
	return &GroupStore{db: db}
}

const groupColumns = `id, name, description, captain_id, co_captain_ids, item_categories,
	default_y_metric_id, default_x_metric_id, locked_y_metric_id, locked_x_metric_id,
	captain_control_enabled, is_public, is_open, is_featured,
	view_count, rating_count, share_count, created_at, updated_at, last_activity_at`

// Upsert writes the group document and replaces its metrics. Members are left
// untouched.
func (s *GroupStore) Upsert(ctx context.Context, g *domain.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO groups (`+groupColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			captain_id = excluded.captain_id,
			co_captain_ids = excluded.co_captain_ids,
			item_categories = excluded.item_categories,
			default_y_metric_id = excluded.default_y_metric_id,
			default_x_metric_id = excluded.default_x_metric_id,
			locked_y_metric_id = excluded.locked_y_metric_id,
			locked_x_metric_id = excluded.locked_x_metric_id,
			captain_control_enabled = excluded.captain_control_enabled,
			is_public = excluded.is_public,
			is_open = excluded.is_open,
			is_featured = excluded.is_featured,
			view_count = excluded.view_count,
			rating_count = excluded.rating_count,
			share_count = excluded.share_count,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			last_activity_at = excluded.last_activity_at
	`,
		g.ID, g.Name, g.Description, g.CaptainID, encodeStrings(g.CoCaptainIDs), encodeStrings(g.ItemCategories),
		g.DefaultYMetricID, g.DefaultXMetricID, g.LockedYMetricID, g.LockedXMetricID,
		g.CaptainControlEnabled, g.IsPublic, g.IsOpen, g.IsFeatured,
		g.ViewCount, g.RatingCount, g.ShareCount, g.CreatedAt, g.UpdatedAt, g.LastActivityAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert group: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM metrics WHERE group_id = ?`, g.ID); err != nil {
		return fmt.Errorf("failed to clear metrics: %w", err)
	}

	for _, m := range g.Metrics {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO metrics (group_id, id, name, description, sort_order, min_value, max_value, prefix, suffix, applicable_categories)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, g.ID, m.ID, m.Name, m.Description, m.Order, m.MinValue, m.MaxValue, m.Prefix, m.Suffix, encodeStrings(m.ApplicableCategories))
		if err != nil {
			return fmt.Errorf("failed to insert metric %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit group: %w", err)
	}
	return nil
}

func (s *GroupStore) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	g, err := scanGroup(s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if g.Metrics, err = s.listMetrics(ctx, g.ID); err != nil {
		return nil, err
	}
	return g, nil
}

// List returns featured groups first, then the rest, each alphabetically.
func (s *GroupStore) List(ctx context.Context) ([]*domain.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+groupColumns+` FROM groups ORDER BY is_featured DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			closeRows(rows)
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		closeRows(rows)
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}
	closeRows(rows)

	// Metrics are loaded after the group rows are released so a single
	// connection pool still works.
	for _, g := range groups {
		if g.Metrics, err = s.listMetrics(ctx, g.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (s *GroupStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrGroupNotFound
	}

	return nil
}

func (s *GroupStore) listMetrics(ctx context.Context, groupID string) ([]domain.Metric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, sort_order, min_value, max_value, prefix, suffix, applicable_categories
		FROM metrics WHERE group_id = ? ORDER BY sort_order ASC, id ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	defer closeRows(rows)

	metrics := make([]domain.Metric, 0)
	for rows.Next() {
		var m domain.Metric
		var categories string
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Order, &m.MinValue, &m.MaxValue, &m.Prefix, &m.Suffix, &categories); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		if m.ApplicableCategories, err = decodeStrings(categories); err != nil {
			return nil, fmt.Errorf("failed to decode categories of metric %s: %w", m.ID, err)
		}
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metrics: %w", err)
	}
	return metrics, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*domain.Group, error) {
	g := &domain.Group{}
	var coCaptains, categories string
	err := row.Scan(
		&g.ID, &g.Name, &g.Description, &g.CaptainID, &coCaptains, &categories,
		&g.DefaultYMetricID, &g.DefaultXMetricID, &g.LockedYMetricID, &g.LockedXMetricID,
		&g.CaptainControlEnabled, &g.IsPublic, &g.IsOpen, &g.IsFeatured,
		&g.ViewCount, &g.RatingCount, &g.ShareCount, &g.CreatedAt, &g.UpdatedAt, &g.LastActivityAt,
	)
	if err != nil {
		return nil, err
	}
	if g.CoCaptainIDs, err = decodeStrings(coCaptains); err != nil {
		return nil, fmt.Errorf("failed to decode co-captains: %w", err)
	}
	if g.ItemCategories, err = decodeStrings(categories); err != nil {
		return nil, fmt.Errorf("failed to decode item categories: %w", err)
	}
	return g, nil
}

func encodeStrings(ss []string) string {
	if len(ss) == 0 {
		return "[]"
	}
	b, err := json.Marshal(ss)
	if err != nil {
		// []string always marshals.
		panic(err)
	}
	return string(b)
}

func decodeStrings(s string) ([]string, error) {
	out := make([]string, 0)
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}
