package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/groupr/internal/db"
	"github.com/vbonduro/groupr/internal/domain"
	"github.com/vbonduro/groupr/internal/store"
)

var fixedNow = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLoader(t *testing.T) (*Loader, *store.GroupStore, *store.MemberStore) {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	groups := store.NewGroupStore(d)
	members := store.NewMemberStore(d)
	l := NewLoader(groups, members, discardLogger())
	l.now = func() time.Time { return fixedNow }
	return l, groups, members
}

func TestSeed_CreatesCatalog(t *testing.T) {
	l, groups, members := newTestLoader(t)
	ctx := context.Background()

	results, err := l.Seed(ctx, "cap@example.com", "user_123", nil)
	require.NoError(t, err)

	want := []Result{
		{ID: "nba-best", Name: "NBA's Best", ObjectCount: 9, ExpectedObjects: 9},
		{ID: "nfl-best", ObjectCount: 9, ExpectedObjects: 9},
		{ID: "presidential-2028", ObjectCount: 6, ExpectedObjects: 6},
		{ID: "oscars-2026", ObjectCount: 10, ExpectedObjects: 10},
	}
	require.Len(t, results, len(want))
	for i, w := range want {
		assert.Equal(t, w.ID, results[i].ID)
		assert.Equal(t, w.ObjectCount, results[i].ObjectCount)
		assert.Equal(t, w.ExpectedObjects, results[i].ExpectedObjects)
		if w.Name != "" {
			assert.Equal(t, w.Name, results[i].Name)
		}

		count, err := members.CountByGroupID(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, w.ObjectCount+1, count, "group %s includes its captain", w.ID)
	}

	g, err := groups.GetByID(ctx, "nba-best")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "user_123", g.CaptainID)
	assert.True(t, g.CreatedAt.Equal(fixedNow))
	assert.True(t, g.UpdatedAt.Equal(fixedNow))
	assert.True(t, g.LastActivityAt.Equal(fixedNow.Add(-7*24*time.Hour)))
	assert.NotEmpty(t, g.Metrics)
}

func TestSeed_CaptainAndItemMembers(t *testing.T) {
	l, _, members := newTestLoader(t)
	ctx := context.Background()

	_, err := l.Seed(ctx, "cap@example.com", "user_123", nil)
	require.NoError(t, err)

	list, err := members.ListByGroupID(ctx, "nba-best")
	require.NoError(t, err)
	require.NotEmpty(t, list)

	captain := list[0]
	assert.True(t, captain.IsCaptain)
	assert.Equal(t, "Captain", captain.Name)
	assert.Equal(t, "user_123", captain.UserID)
	require.NotNil(t, captain.Email)
	assert.Equal(t, "cap@example.com", *captain.Email)
	assert.Equal(t, domain.StatusAccepted, captain.Status)
	assert.Equal(t, domain.ItemTypeUser, captain.ItemType)
	assert.Equal(t, domain.DisplayUser, captain.DisplayMode)
	require.NotNil(t, captain.RespondedAt)

	lebron := list[1]
	assert.Equal(t, "LeBron James", lebron.Name)
	assert.Equal(t, "item_lebron_james", lebron.UserID)
	assert.Equal(t, domain.StatusPlaceholder, lebron.Status)
	assert.Equal(t, domain.ItemTypeText, lebron.ItemType)
	assert.Equal(t, domain.DisplayCustom, lebron.DisplayMode)
	assert.False(t, lebron.IsCaptain)
	assert.Nil(t, lebron.Email)
	require.NotNil(t, lebron.ItemCategory)
	assert.Equal(t, "Player", *lebron.ItemCategory)
	require.NotNil(t, lebron.Description)
	assert.Equal(t, "Los Angeles Lakers forward", *lebron.Description)
}

func TestSeed_RerunReplacesMembers(t *testing.T) {
	l, _, members := newTestLoader(t)
	ctx := context.Background()

	_, err := l.Seed(ctx, "cap@example.com", "user_123", nil)
	require.NoError(t, err)
	_, err = l.Seed(ctx, "other@example.com", "user_456", nil)
	require.NoError(t, err)

	count, err := members.CountByGroupID(ctx, "oscars-2026")
	require.NoError(t, err)
	assert.Equal(t, 11, count)

	list, err := members.ListByGroupID(ctx, "oscars-2026")
	require.NoError(t, err)
	assert.Equal(t, "user_456", list[0].UserID)
}

func TestSeed_MissingCaptain(t *testing.T) {
	l, _, _ := newTestLoader(t)

	tests := []struct {
		name, email, clerkID string
	}{
		{"no email", "", "user_123"},
		{"no clerk id", "cap@example.com", ""},
		{"neither", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := l.Seed(context.Background(), tt.email, tt.clerkID, nil)
			assert.ErrorIs(t, err, ErrMissingCaptain)
			assert.Empty(t, results)
		})
	}
}

func TestSeed_ReportsProgress(t *testing.T) {
	l, _, _ := newTestLoader(t)

	var calls int
	last := map[string][2]int{}
	_, err := l.Seed(context.Background(), "cap@example.com", "user_123", func(id string, written, total int) {
		calls++
		last[id] = [2]int{written, total}
	})
	require.NoError(t, err)

	assert.Equal(t, 4+9+9+6+10, calls)
	assert.Equal(t, [2]int{10, 10}, last["nba-best"])
	assert.Equal(t, [2]int{7, 7}, last["presidential-2028"])
}

type failingMembers struct {
	created int
	failAt  int
}

func (f *failingMembers) DeleteByGroupID(context.Context, string) (int64, error) { return 0, nil }

func (f *failingMembers) Create(_ context.Context, m *domain.Member) (*domain.Member, error) {
	f.created++
	if f.created == f.failAt {
		return nil, errors.New("disk full")
	}
	return m, nil
}

type nopGroups struct{ upserted []string }

func (n *nopGroups) Upsert(_ context.Context, g *domain.Group) error {
	n.upserted = append(n.upserted, g.ID)
	return nil
}

func TestSeed_FailureReturnsPartialResults(t *testing.T) {
	groups := &nopGroups{}
	// nba-best writes 10 records; fail on the fourth record of nfl-best.
	members := &failingMembers{failAt: 14}
	l := NewLoader(groups, members, discardLogger())

	results, err := l.Seed(context.Background(), "cap@example.com", "user_123", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nfl-best")
	assert.Contains(t, err.Error(), "disk full")

	require.Len(t, results, 2)
	assert.Equal(t, 9, results[0].ObjectCount)
	assert.Equal(t, "nfl-best", results[1].ID)
	assert.Equal(t, 2, results[1].ObjectCount)
	assert.Equal(t, 9, results[1].ExpectedObjects)
	assert.Equal(t, []string{"nba-best", "nfl-best"}, groups.upserted)
}

func TestSeed_GroupWriteFailure(t *testing.T) {
	l := NewLoader(failingGroups{}, &failingMembers{}, discardLogger())

	results, err := l.Seed(context.Background(), "cap@example.com", "user_123", nil)
	require.Error(t, err)
	assert.Empty(t, results)
}

type failingGroups struct{}

func (failingGroups) Upsert(context.Context, *domain.Group) error { return errors.New("locked") }

func TestItemUserID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"LeBron James", "item_lebron_james"},
		{"San Francisco 49ers", "item_san_francisco_49ers"},
		{"Dune: Part Two", "item_dune:_part_two"},
		{"J.D.  Vance", "item_j.d._vance"},
		{"Timothée Chalamet", "item_timothée_chalamet"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ItemUserID(tt.in))
	}
}
