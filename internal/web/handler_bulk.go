package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/vbonduro/groupr/internal/bulk"
	"github.com/vbonduro/groupr/internal/domain"
)

// formKind reads the itemType field. Unknown values are treated as unset so
// the form reports them as a missing selection.
func formKind(r *http.Request) domain.ItemType {
	kind, err := domain.ParseItemType(strings.TrimSpace(r.FormValue("itemType")))
	if err != nil {
		return ""
	}
	return kind
}

func (s *Server) handleBulkAdd(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	if err := parseForm(w, r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	kind := formKind(r)
	category := domain.StringPtr(strings.TrimSpace(r.FormValue("itemCategory")))

	var added int
	form := bulk.NewForm(func(ctx context.Context, items []bulk.Submission) error {
		created, err := s.service.BulkAdd(ctx, groupID, items)
		added = len(created)
		return err
	})

	var (
		skipped []int
		source  = "bulk_text"
		err     error
	)
	if r.MultipartForm != nil && len(r.MultipartForm.File["sheet"]) > 0 {
		source = "bulk_sheet"
		err = s.submitSheet(r, form, kind, category)
	} else {
		text := r.FormValue("items")
		_, err = form.Submit(r.Context(), bulk.Input{Text: text, Kind: kind, Category: category})
		if err == nil {
			_, skipped = bulk.ParseReport(text, kind)
		}
	}
	if added > 0 {
		s.metrics.membersAdded.WithLabelValues(source).Add(float64(added))
	}
	if err != nil {
		s.writeFormError(w, "bulk", err)
		return
	}

	s.logger.Info("bulk add", "group_id", groupID, "source", source, "added", added, "skipped", len(skipped))
	s.renderMemberList(w, r, memberList{GroupID: groupID, Added: added, Skipped: skipped})
}

func (s *Server) submitSheet(r *http.Request, form *bulk.Form, kind domain.ItemType, category *string) error {
	var parsed []bulk.ParsedItem
	if kind != "" {
		fh := r.MultipartForm.File["sheet"][0]
		f, err := fh.Open()
		if err != nil {
			return &domain.FormError{Message: "Could not read the spreadsheet"}
		}
		defer closeWithLog(f, "bulk sheet", s.logger)

		parsed, err = bulk.ParseSpreadsheet(f, kind)
		if err != nil {
			s.logger.Warn("spreadsheet rejected", "file", fh.Filename, "error", err)
			return &domain.FormError{Message: "Could not read the spreadsheet"}
		}
	}
	_, err := form.SubmitParsed(r.Context(), parsed, category, kind)
	return err
}

// bulkPreview is the data behind partials/bulk_preview.html.
type bulkPreview struct {
	Kind    domain.ItemType
	Items   []bulk.ParsedItem
	Skipped []int
}

func (s *Server) handleBulkPreview(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	kind := formKind(r)
	text := r.FormValue("items")
	form := bulk.NewForm(nil)
	preview := bulkPreview{Kind: kind, Items: form.Preview(text, kind)}
	if len(preview.Items) > 0 {
		_, preview.Skipped = bulk.ParseReport(text, kind)
	}

	if err := s.renderPartial(w, "partials/bulk_preview.html", preview); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}
