package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vbonduro/groupr/internal/bulk"
	"github.com/vbonduro/groupr/internal/domain"
)

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.service.ListGroups(r.Context())
	if err != nil {
		http.Error(w, "failed to list groups", http.StatusInternalServerError)
		s.logger.Error("list groups failed", "error", err)
		return
	}

	if err := s.renderPage(w,
		map[string]any{"Groups": groups, "ActiveNav": "groups"},
		"base.html", "pages/groups.html", "partials/group_card.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// itemTypeOption is one choice in the item type selector.
type itemTypeOption struct {
	Value   domain.ItemType
	Label   string
	Example string
}

func itemTypeOptions() []itemTypeOption {
	return []itemTypeOption{
		{Value: domain.ItemTypeText, Label: "Text", Example: bulk.Examples[domain.ItemTypeText]},
		{Value: domain.ItemTypeLink, Label: "Link", Example: bulk.Examples[domain.ItemTypeLink]},
		{Value: domain.ItemTypeUser, Label: "Person", Example: bulk.Examples[domain.ItemTypeUser]},
	}
}

func (s *Server) handleGetGroupDetail(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	group, members, err := s.service.GetGroupWithMembers(r.Context(), groupID)
	if errors.Is(err, domain.ErrGroupNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "failed to get group", http.StatusInternalServerError)
		s.logger.Error("get group failed", "group_id", groupID, "error", err)
		return
	}

	if err := s.renderPage(w,
		map[string]any{
			"Group":     group,
			"List":      memberList{GroupID: group.ID, Members: members},
			"ItemTypes": itemTypeOptions(),
			"ActiveNav": "groups",
		},
		"base.html", "pages/group_detail.html", "partials/member_list.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	err := s.service.DeleteGroup(r.Context(), groupID)
	if errors.Is(err, domain.ErrGroupNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "failed to delete group", http.StatusInternalServerError)
		s.logger.Error("delete group failed", "group_id", groupID, "error", err)
		return
	}

	w.Header().Set("HX-Redirect", "/groups")
	w.WriteHeader(http.StatusOK)
}

// memberList is the data behind partials/member_list.html.
type memberList struct {
	GroupID string
	Members []*domain.Member
	Added   int
	Skipped []int
}

// renderMemberList re-reads the group's members and renders the list partial.
func (s *Server) renderMemberList(w http.ResponseWriter, r *http.Request, list memberList) {
	_, members, err := s.service.GetGroupWithMembers(r.Context(), list.GroupID)
	if err != nil {
		http.Error(w, "failed to list members", http.StatusInternalServerError)
		s.logger.Error("list members failed", "group_id", list.GroupID, "error", err)
		return
	}
	list.Members = members
	if err := s.renderPartial(w, "partials/member_list.html", list); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var members []*domain.Member
	if query != "" {
		var err error
		members, err = s.service.SearchMembers(r.Context(), query)
		if err != nil {
			http.Error(w, "search failed", http.StatusInternalServerError)
			s.logger.Error("search failed", "error", err)
			return
		}
	}

	// HTMX partial update: return only results fragment.
	if r.Header.Get("HX-Request") == "true" {
		if err := s.renderPartial(w, "partials/search_results.html", members); err != nil {
			s.logger.Error("render partial failed", "error", err)
		}
		return
	}

	if err := s.renderPage(w,
		map[string]any{"Results": members, "Query": query, "ActiveNav": "search"},
		"base.html", "pages/search.html", "partials/search_results.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
