// Package seed loads the demo groups used in development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vbonduro/groupr/internal/domain"
)

// ErrMissingCaptain is returned when the captain email or identity is empty.
var ErrMissingCaptain = errors.New("captain email and clerkId are required")

// lastActivityAge backdates lastActivityAt so seeded groups rank as trending.
const lastActivityAge = 7 * 24 * time.Hour

type groupWriter interface {
	Upsert(ctx context.Context, g *domain.Group) error
}

type memberWriter interface {
	DeleteByGroupID(ctx context.Context, groupID string) (int64, error)
	Create(ctx context.Context, m *domain.Member) (*domain.Member, error)
}

// Result summarises one seeded group.
type Result struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ObjectCount     int    `json:"objectCount"`
	ExpectedObjects int    `json:"expectedObjects"`
}

// ProgressFunc is called after every record written for a group.
type ProgressFunc func(groupID string, written, total int)

type Loader struct {
	groups  groupWriter
	members memberWriter
	catalog func() []CatalogGroup
	now     func() time.Time
	logger  *slog.Logger
}

func NewLoader(groups groupWriter, members memberWriter, logger *slog.Logger) *Loader {
	return &Loader{
		groups:  groups,
		members: members,
		catalog: Catalog,
		now:     time.Now,
		logger:  logger,
	}
}

// Seed rewrites every catalog group for the given captain, one group and one
// record at a time. It is not transactional: on failure it stops and returns
// the results gathered so far, including the partial count of the group that
// failed.
func (l *Loader) Seed(ctx context.Context, captainEmail, captainClerkID string, progress ProgressFunc) ([]Result, error) {
	if captainEmail == "" || captainClerkID == "" {
		return nil, ErrMissingCaptain
	}

	now := l.now().UTC()
	var results []Result
	for _, cg := range l.catalog() {
		res, err := l.seedGroup(ctx, cg, captainEmail, captainClerkID, now, progress)
		if res != nil {
			results = append(results, *res)
		}
		if err != nil {
			return results, fmt.Errorf("seed group %s: %w", cg.Group.ID, err)
		}
	}

	l.logger.Info("seed complete", "groups", len(results), "captain", captainClerkID)
	return results, nil
}

func (l *Loader) seedGroup(ctx context.Context, cg CatalogGroup, email, clerkID string, now time.Time, progress ProgressFunc) (*Result, error) {
	g := cg.Group
	total := len(cg.Items) + 1

	removed, err := l.members.DeleteByGroupID(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear members: %w", err)
	}
	l.logger.Debug("cleared group members", "group_id", g.ID, "removed", removed)

	g.CaptainID = clerkID
	g.CreatedAt = now
	g.UpdatedAt = now
	g.LastActivityAt = now.Add(-lastActivityAge)
	if err := l.groups.Upsert(ctx, &g); err != nil {
		return nil, fmt.Errorf("failed to write group: %w", err)
	}

	res := &Result{ID: g.ID, Name: g.Name, ExpectedObjects: len(cg.Items)}

	if _, err := l.members.Create(ctx, captainMember(g.ID, email, clerkID, now)); err != nil {
		return res, fmt.Errorf("failed to write captain: %w", err)
	}
	report(progress, g.ID, 1, total)

	for i, item := range cg.Items {
		if _, err := l.members.Create(ctx, itemMember(g.ID, item, now)); err != nil {
			return res, fmt.Errorf("failed to write item %q: %w", item.Name, err)
		}
		res.ObjectCount++
		report(progress, g.ID, i+2, total)
	}

	l.logger.Info("seeded group", "group_id", g.ID, "objects", res.ObjectCount)
	return res, nil
}

func report(progress ProgressFunc, groupID string, written, total int) {
	if progress != nil {
		progress(groupID, written, total)
	}
}

func captainMember(groupID, email, clerkID string, now time.Time) *domain.Member {
	return &domain.Member{
		GroupID:        groupID,
		UserID:         clerkID,
		ClerkID:        &clerkID,
		Email:          &email,
		Name:           "Captain",
		Status:         domain.StatusAccepted,
		VisibleInGraph: true,
		IsCaptain:      true,
		InvitedAt:      now,
		RespondedAt:    &now,
		ItemType:       domain.ItemTypeUser,
		DisplayMode:    domain.DisplayUser,
		RatingMode:     domain.RatingModeGroup,
	}
}

func itemMember(groupID string, item Item, now time.Time) *domain.Member {
	return &domain.Member{
		GroupID:        groupID,
		UserID:         ItemUserID(item.Name),
		Name:           item.Name,
		Description:    domain.StringPtr(item.Description),
		Status:         domain.StatusPlaceholder,
		VisibleInGraph: true,
		InvitedAt:      now,
		ItemType:       domain.ItemTypeText,
		ItemCategory:   item.Category,
		DisplayMode:    domain.DisplayCustom,
		RatingMode:     domain.RatingModeGroup,
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// ItemUserID derives the placeholder user id of a demo object from its name,
// e.g. "LeBron James" -> "item_lebron_james".
func ItemUserID(name string) string {
	lower := cases.Lower(language.Und).String(name)
	return "item_" + whitespace.ReplaceAllString(lower, "_")
}

// Usage is returned by the seed endpoint on a plain GET.
const Usage = "POST to this endpoint with { captainEmail, captainClerkId } to seed mock groups"
