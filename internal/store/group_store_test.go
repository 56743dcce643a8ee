package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/groupr/internal/db"
	"github.com/vbonduro/groupr/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func testGroup(id, name string) *domain.Group {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Group{
		ID:             id,
		Name:           name,
		Description:    "a test group",
		CaptainID:      "user_123",
		ItemCategories: []string{"Player", "Team"},
		Metrics: []domain.Metric{
			{ID: "defense", Name: "Defense", Order: 1, MinValue: 0, MaxValue: 100, ApplicableCategories: []string{"Player"}},
			{ID: "scoring", Name: "Scoring", Order: 0, MinValue: 0, MaxValue: 100, Suffix: "%"},
		},
		DefaultYMetricID:      "scoring",
		DefaultXMetricID:      "defense",
		CaptainControlEnabled: true,
		IsPublic:              true,
		ViewCount:             7,
		CreatedAt:             now,
		UpdatedAt:             now,
		LastActivityAt:        now.Add(-7 * 24 * time.Hour),
	}
}

func TestGroupStoreUpsertAndGet(t *testing.T) {
	d := openTestDB(t)
	groups := NewGroupStore(d)
	ctx := context.Background()

	require.NoError(t, groups.Upsert(ctx, testGroup("nba", "NBA")))

	got, err := groups.GetByID(ctx, "nba")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "NBA", got.Name)
	assert.Equal(t, []string{"Player", "Team"}, got.ItemCategories)
	assert.Empty(t, got.CoCaptainIDs)
	assert.Nil(t, got.LockedXMetricID)
	assert.True(t, got.CaptainControlEnabled)
	assert.True(t, got.IsPublic)
	assert.False(t, got.IsFeatured)
	assert.Equal(t, 7, got.ViewCount)
	assert.True(t, got.LastActivityAt.Before(got.CreatedAt))

	// Metrics come back in display order.
	require.Len(t, got.Metrics, 2)
	assert.Equal(t, "scoring", got.Metrics[0].ID)
	assert.Equal(t, "%", got.Metrics[0].Suffix)
	assert.Empty(t, got.Metrics[0].ApplicableCategories)
	assert.Equal(t, []string{"Player"}, got.Metrics[1].ApplicableCategories)
}

func TestGroupStoreUpsertReplacesMetrics(t *testing.T) {
	d := openTestDB(t)
	groups := NewGroupStore(d)
	ctx := context.Background()

	g := testGroup("nba", "NBA")
	require.NoError(t, groups.Upsert(ctx, g))

	g.Name = "NBA's Best"
	g.Metrics = g.Metrics[:1]
	require.NoError(t, groups.Upsert(ctx, g))

	got, err := groups.GetByID(ctx, "nba")
	require.NoError(t, err)
	assert.Equal(t, "NBA's Best", got.Name)
	assert.Len(t, got.Metrics, 1)
}

func TestGroupStoreUpsertKeepsMembers(t *testing.T) {
	d := openTestDB(t)
	groups := NewGroupStore(d)
	members := NewMemberStore(d)
	ctx := context.Background()

	g := testGroup("nba", "NBA")
	require.NoError(t, groups.Upsert(ctx, g))
	_, err := members.Create(ctx, testMember("nba", "LeBron James"))
	require.NoError(t, err)

	require.NoError(t, groups.Upsert(ctx, g))

	n, err := members.CountByGroupID(ctx, "nba")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGroupStoreGetByID_NotFound(t *testing.T) {
	groups := NewGroupStore(openTestDB(t))

	got, err := groups.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGroupStoreList(t *testing.T) {
	d := openTestDB(t)
	groups := NewGroupStore(d)
	ctx := context.Background()

	plain := testGroup("b", "Board Games")
	featured := testGroup("z", "Zebras")
	featured.IsFeatured = true
	other := testGroup("a", "Apples")

	for _, g := range []*domain.Group{plain, featured, other} {
		require.NoError(t, groups.Upsert(ctx, g))
	}

	list, err := groups.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Zebras", list[0].Name)
	assert.Equal(t, "Apples", list[1].Name)
	assert.Equal(t, "Board Games", list[2].Name)
	for _, g := range list {
		assert.Len(t, g.Metrics, 2)
	}
}

func TestGroupStoreDeleteCascades(t *testing.T) {
	d := openTestDB(t)
	groups := NewGroupStore(d)
	members := NewMemberStore(d)
	ctx := context.Background()

	require.NoError(t, groups.Upsert(ctx, testGroup("nba", "NBA")))
	_, err := members.Create(ctx, testMember("nba", "LeBron James"))
	require.NoError(t, err)

	require.NoError(t, groups.Delete(ctx, "nba"))

	n, err := members.CountByGroupID(ctx, "nba")
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, groups.Delete(ctx, "nba"), domain.ErrGroupNotFound)
}

func TestGroupStoreUpsertRollsBackOnMetricFailure(t *testing.T) {
	d, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer d.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO groups").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM metrics").WithArgs("nba").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO metrics").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = NewGroupStore(d).Upsert(context.Background(), testGroup("nba", "NBA"))
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}
