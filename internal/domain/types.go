package domain

import (
	"fmt"
	"time"
)

// ItemType controls how an object is rendered and how bulk input lines are read.
type ItemType string

const (
	ItemTypeText ItemType = "text"
	ItemTypeLink ItemType = "link"
	ItemTypeUser ItemType = "user"
)

// ParseItemType returns the ItemType named by s.
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(s); t {
	case ItemTypeText, ItemTypeLink, ItemTypeUser:
		return t, nil
	default:
		return "", fmt.Errorf("unknown item type %q", s)
	}
}

type MemberStatus string

const (
	StatusAccepted    MemberStatus = "accepted"
	StatusPending     MemberStatus = "pending"
	StatusPlaceholder MemberStatus = "placeholder"
)

type DisplayMode string

const (
	DisplayUser   DisplayMode = "user"
	DisplayCustom DisplayMode = "custom"
)

const RatingModeGroup = "group"

// Metric is a bounded scoring axis. An empty ApplicableCategories applies to
// every category.
type Metric struct {
	ID                   string
	Name                 string
	Description          string
	Order                int
	MinValue             float64
	MaxValue             float64
	Prefix               string
	Suffix               string
	ApplicableCategories []string
}

// AppliesTo reports whether the metric scores objects of the given category.
func (m Metric) AppliesTo(category *string) bool {
	if len(m.ApplicableCategories) == 0 || category == nil {
		return true
	}
	for _, c := range m.ApplicableCategories {
		if c == *category {
			return true
		}
	}
	return false
}

type Group struct {
	ID                    string
	Name                  string
	Description           string
	CaptainID             string
	CoCaptainIDs          []string
	ItemCategories        []string
	Metrics               []Metric
	DefaultYMetricID      string
	DefaultXMetricID      string
	LockedYMetricID       *string
	LockedXMetricID       *string
	CaptainControlEnabled bool
	IsPublic              bool
	IsOpen                bool
	IsFeatured            bool
	ViewCount             int
	RatingCount           int
	ShareCount            int
	CreatedAt             time.Time
	UpdatedAt             time.Time
	LastActivityAt        time.Time
}

// Member is either a person invited to the group or a rateable object in it.
type Member struct {
	ID                  string
	GroupID             string
	UserID              string
	ClerkID             *string
	Email               *string
	Name                string
	ImageURL            *string
	PlaceholderImageURL *string
	Description         *string
	Status              MemberStatus
	VisibleInGraph      bool
	IsCaptain           bool
	InvitedAt           time.Time
	RespondedAt         *time.Time
	ItemType            ItemType
	LinkURL             *string
	ItemCategory        *string
	DisplayMode         DisplayMode
	CustomName          *string
	CustomImageURL      *string
	RatingMode          string
	CreatedAt           time.Time
}

// StringPtr returns nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
