package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/groupr/internal/bulk"
	"github.com/vbonduro/groupr/internal/domain"
	"github.com/vbonduro/groupr/internal/imagestore"
	"github.com/vbonduro/groupr/internal/member"
	"github.com/vbonduro/groupr/internal/store"
	"github.com/vbonduro/groupr/internal/suggest"
)

// groupRepository is the subset of store.GroupStore that GroupService requires.
type groupRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	List(ctx context.Context) ([]*domain.Group, error)
	Delete(ctx context.Context, id string) error
}

// memberRepository is the subset of store.MemberStore that GroupService requires.
type memberRepository interface {
	Create(ctx context.Context, m *domain.Member) (*domain.Member, error)
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	Delete(ctx context.Context, id string) error
	ListByGroupID(ctx context.Context, groupID string) ([]*domain.Member, error)
	CountByGroupID(ctx context.Context, groupID string) (int, error)
	Search(ctx context.Context, query string) ([]*domain.Member, error)
}

// imageRepository is the subset of store.ImageStore that GroupService requires.
type imageRepository interface {
	Create(ctx context.Context, storageKey, mimeType string, size int64) (*store.Image, error)
	GetByKey(ctx context.Context, storageKey string) (*store.Image, error)
	Delete(ctx context.Context, storageKey string) error
}

// ImageURLPrefix is the path uploaded images are served under.
const ImageURLPrefix = "/images/"

// Suggestions run inside the bulk add request, so their number and total time
// are capped. Items past either limit are stored without a description.
const (
	defaultMaxSuggestions = 20
	defaultSuggestBudget  = 45 * time.Second
)

type GroupService struct {
	groups    groupRepository
	members   memberRepository
	images    imageRepository
	imageStg  imagestore.ImageStore
	suggester suggest.Suggester
	logger    *slog.Logger

	maxSuggestions int
	suggestBudget  time.Duration
}

// NewGroupService builds the service. suggester may be nil, in which case
// bulk-added objects keep whatever description they were submitted with.
func NewGroupService(
	groups groupRepository,
	members memberRepository,
	images imageRepository,
	imageStg imagestore.ImageStore,
	suggester suggest.Suggester,
	logger *slog.Logger,
) *GroupService {
	return &GroupService{
		groups:    groups,
		members:   members,
		images:    images,
		imageStg:  imageStg,
		suggester: suggester,
		logger:    logger,

		maxSuggestions: defaultMaxSuggestions,
		suggestBudget:  defaultSuggestBudget,
	}
}

// GroupSummary bundles a group with its member count for dashboard rendering.
type GroupSummary struct {
	*domain.Group
	MemberCount int
}

func (s *GroupService) ListGroups(ctx context.Context) ([]*GroupSummary, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	summaries := make([]*GroupSummary, 0, len(groups))
	for _, g := range groups {
		n, err := s.members.CountByGroupID(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count members for group %s: %w", g.ID, err)
		}
		summaries = append(summaries, &GroupSummary{Group: g, MemberCount: n})
	}
	return summaries, nil
}

func (s *GroupService) GetGroupWithMembers(ctx context.Context, groupID string) (*domain.Group, []*domain.Member, error) {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.members.ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members: %w", err)
	}
	return g, members, nil
}

func (s *GroupService) getGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if g == nil {
		return nil, domain.ErrGroupNotFound
	}
	return g, nil
}

// AddMember records an invitation. The member stays pending until the
// invitee signs in and responds.
func (s *GroupService) AddMember(ctx context.Context, groupID string, nm member.NewMember) (*domain.Member, error) {
	if _, err := s.getGroup(ctx, groupID); err != nil {
		return nil, err
	}

	email := nm.Email
	m, err := s.members.Create(ctx, &domain.Member{
		GroupID:             groupID,
		UserID:              "invite_" + email,
		Email:               &email,
		Name:                nm.Name,
		PlaceholderImageURL: domain.StringPtr(nm.PlaceholderImageURL),
		Status:              domain.StatusPending,
		VisibleInGraph:      true,
		InvitedAt:           time.Now().UTC(),
		ItemType:            domain.ItemTypeUser,
		DisplayMode:         domain.DisplayUser,
		RatingMode:          domain.RatingModeGroup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	s.logger.Info("member invited", "group_id", groupID, "member_id", m.ID)
	return m, nil
}

// BulkAdd stores each submission as a placeholder object. It stops at the
// first write failure and returns the members created before it. Missing
// descriptions are suggested for at most maxSuggestions items within
// suggestBudget.
func (s *GroupService) BulkAdd(ctx context.Context, groupID string, subs []bulk.Submission) ([]*domain.Member, error) {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("bulk add started", "group_id", groupID, "items", len(subs))

	suggestCtx, cancel := context.WithTimeout(ctx, s.suggestBudget)
	defer cancel()
	var suggested, unsuggested int

	now := time.Now().UTC()
	created := make([]*domain.Member, 0, len(subs))
	for _, sub := range subs {
		desc := sub.Description
		if desc == nil && s.suggester != nil {
			if suggested < s.maxSuggestions && suggestCtx.Err() == nil {
				desc = s.suggestDescription(suggestCtx, g, sub)
				suggested++
			} else {
				unsuggested++
			}
		}
		m, err := s.members.Create(ctx, &domain.Member{
			GroupID:             groupID,
			UserID:              "item_" + uuid.NewString(),
			Email:               sub.Email,
			Name:                sub.Name,
			PlaceholderImageURL: domain.StringPtr(sub.PlaceholderImageURL),
			Description:         desc,
			Status:              domain.StatusPlaceholder,
			VisibleInGraph:      true,
			InvitedAt:           now,
			ItemType:            sub.ItemType,
			LinkURL:             sub.LinkURL,
			ItemCategory:        sub.ItemCategory,
			DisplayMode:         domain.DisplayCustom,
			RatingMode:          domain.RatingModeGroup,
		})
		if err != nil {
			return created, fmt.Errorf("failed to add %q: %w", sub.Name, err)
		}
		created = append(created, m)
	}

	if unsuggested > 0 {
		s.logger.Warn("description suggestions capped", "group_id", groupID, "attempted", suggested, "left_empty", unsuggested)
	}
	s.logger.Info("bulk add complete", "group_id", groupID, "items_stored", len(created))
	return created, nil
}

func (s *GroupService) suggestDescription(ctx context.Context, g *domain.Group, sub bulk.Submission) *string {
	req := suggest.Request{GroupName: g.Name, Name: sub.Name, ItemType: sub.ItemType}
	if sub.ItemCategory != nil {
		req.Category = *sub.ItemCategory
	}
	if sub.LinkURL != nil {
		req.LinkURL = *sub.LinkURL
	}
	desc, err := s.suggester.Suggest(ctx, req)
	if err != nil {
		s.logger.Warn("description suggestion failed", "group_id", g.ID, "name", sub.Name, "error", err)
		return nil
	}
	return domain.StringPtr(desc)
}

// UploadImage stores an image and returns the URL it is served from.
func (s *GroupService) UploadImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	key, err := s.imageStg.Save(ctx, "member", mimeType, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	if _, err := s.images.Create(ctx, key, mimeType, int64(len(data))); err != nil {
		if stgErr := s.imageStg.Delete(ctx, key); stgErr != nil {
			s.logger.Error("failed to roll back image file", "storage_key", key, "error", stgErr)
		}
		return "", fmt.Errorf("failed to create image record: %w", err)
	}
	s.logger.Debug("image saved", "storage_key", key, "bytes", len(data))
	return ImageURLPrefix + key, nil
}

// OpenImage returns the stored image and its mime type. Unknown keys yield
// imagestore.ErrNotFound.
func (s *GroupService) OpenImage(ctx context.Context, key string) (io.ReadCloser, string, error) {
	img, err := s.images.GetByKey(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get image record: %w", err)
	}
	if img == nil {
		return nil, "", imagestore.ErrNotFound
	}
	rc, _, err := s.imageStg.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return rc, img.MimeType, nil
}

// RemoveMember deletes a member of the group along with the image uploaded
// for it. The captain cannot be removed.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, memberID string) error {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if m == nil || m.GroupID != groupID {
		return domain.ErrMemberNotFound
	}
	if m.IsCaptain {
		return domain.ErrCaptainRemoval
	}

	if err := s.members.Delete(ctx, memberID); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	s.releaseImage(ctx, m.PlaceholderImageURL)

	s.logger.Info("member removed", "group_id", groupID, "member_id", memberID)
	return nil
}

// DeleteGroup removes the group, its metrics and members, and the images
// uploaded for those members.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) error {
	if _, err := s.getGroup(ctx, groupID); err != nil {
		return err
	}
	members, err := s.members.ListByGroupID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	if err := s.groups.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	for _, m := range members {
		s.releaseImage(ctx, m.PlaceholderImageURL)
	}

	s.logger.Info("group deleted", "group_id", groupID, "members", len(members))
	return nil
}

// releaseImage drops the record and file behind an uploaded image URL. URLs
// that point elsewhere are left alone.
func (s *GroupService) releaseImage(ctx context.Context, imageURL *string) {
	if imageURL == nil || !strings.HasPrefix(*imageURL, ImageURLPrefix) {
		return
	}
	key := strings.TrimPrefix(*imageURL, ImageURLPrefix)

	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete image record", "storage_key", key, "error", err)
		return
	}
	if err := s.imageStg.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete image file", "storage_key", key, "error", err)
	}
}

func (s *GroupService) SearchMembers(ctx context.Context, query string) ([]*domain.Member, error) {
	return s.members.Search(ctx, query)
}
