package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vbonduro/groupr/internal/domain"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberColumns = `id, group_id, user_id, clerk_id, email, name, image_url, placeholder_image_url,
	description, status, visible_in_graph, is_captain, invited_at, responded_at, item_type, link_url,
	item_category, display_mode, custom_name, custom_image_url, rating_mode, created_at`

// Create inserts m, assigning a random id when m.ID is empty, and returns the
// stored record.
func (s *MemberStore) Create(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	id := m.ID
	if id == "" {
		id = uuid.NewString()
	}
	ratingMode := m.RatingMode
	if ratingMode == "" {
		ratingMode = domain.RatingModeGroup
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, group_id, user_id, clerk_id, email, name, image_url, placeholder_image_url,
			description, status, visible_in_graph, is_captain, invited_at, responded_at, item_type, link_url,
			item_category, display_mode, custom_name, custom_image_url, rating_mode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id, m.GroupID, m.UserID, m.ClerkID, m.Email, m.Name, m.ImageURL, m.PlaceholderImageURL,
		m.Description, string(m.Status), m.VisibleInGraph, m.IsCaptain, m.InvitedAt, m.RespondedAt, string(m.ItemType), m.LinkURL,
		m.ItemCategory, string(m.DisplayMode), m.CustomName, m.CustomImageURL, ratingMode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *MemberStore) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// ListByGroupID returns the captain first, then everyone else in insertion
// order.
func (s *MemberStore) ListByGroupID(ctx context.Context, groupID string) ([]*domain.Member, error) {
	return s.query(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE group_id = ? ORDER BY is_captain DESC, rowid ASC
	`, groupID)
}

// likeEscaper makes LIKE wildcards in a search query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns members whose name contains query, ignoring case.
func (s *MemberStore) Search(ctx context.Context, query string) ([]*domain.Member, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	return s.query(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE LOWER(name) LIKE ? ESCAPE '\' ORDER BY name ASC
	`, pattern)
}

func (s *MemberStore) CountByGroupID(ctx context.Context, groupID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members WHERE group_id = ?`, groupID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

func (s *MemberStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

// DeleteByGroupID removes every member of the group and reports how many were
// removed.
func (s *MemberStore) DeleteByGroupID(ctx context.Context, groupID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE group_id = ?`, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete members: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (s *MemberStore) query(ctx context.Context, q string, args ...any) ([]*domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer closeRows(rows)

	var members []*domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

func scanMember(row rowScanner) (*domain.Member, error) {
	m := &domain.Member{}
	err := row.Scan(
		&m.ID, &m.GroupID, &m.UserID, &m.ClerkID, &m.Email, &m.Name, &m.ImageURL, &m.PlaceholderImageURL,
		&m.Description, &m.Status, &m.VisibleInGraph, &m.IsCaptain, &m.InvitedAt, &m.RespondedAt, &m.ItemType, &m.LinkURL,
		&m.ItemCategory, &m.DisplayMode, &m.CustomName, &m.CustomImageURL, &m.RatingMode, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}
