package web

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/vbonduro/groupr/internal/domain"
	"github.com/vbonduro/groupr/internal/member"
)

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	if err := parseForm(w, r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	in := member.Input{
		Email:       r.FormValue("email"),
		Name:        r.FormValue("name"),
		ImageSource: member.ImageSource(r.FormValue("imageSource")),
		ImageURL:    r.FormValue("imageUrl"),
	}
	if r.MultipartForm != nil {
		if headers := r.MultipartForm.File["image"]; len(headers) > 0 {
			fh := headers[0]
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "failed to read file", http.StatusBadRequest)
				return
			}
			defer closeWithLog(f, "member image", s.logger)

			data, err := io.ReadAll(f)
			if err != nil {
				http.Error(w, "failed to read file", http.StatusInternalServerError)
				s.logger.Error("read member image failed", "group_id", groupID, "error", err)
				return
			}
			mimeType, ok := allowedImageMIME(data)
			if !ok {
				mimeType = fh.Header.Get("Content-Type")
			}
			in.File = &member.File{
				Name:     fh.Filename,
				MimeType: mimeType,
				Size:     int64(len(data)),
				Content:  bytes.NewReader(data),
			}
		}
	}

	form := member.NewForm(func(ctx context.Context, nm member.NewMember) error {
		_, err := s.service.AddMember(ctx, groupID, nm)
		return err
	}, s.uploadMemberImage)

	if _, err := form.Submit(r.Context(), in); err != nil {
		s.writeFormError(w, "member", err)
		return
	}
	s.metrics.membersAdded.WithLabelValues("invite").Inc()

	s.renderMemberList(w, r, memberList{GroupID: groupID, Added: 1})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	memberID := r.PathValue("memberID")

	err := s.service.RemoveMember(r.Context(), groupID, memberID)
	switch {
	case errors.Is(err, domain.ErrMemberNotFound):
		http.Error(w, "member not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrCaptainRemoval):
		http.Error(w, "The captain cannot be removed", http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "failed to remove member", http.StatusInternalServerError)
		s.logger.Error("remove member failed", "group_id", groupID, "member_id", memberID, "error", err)
		return
	}
	s.metrics.membersRemoved.Inc()

	s.renderMemberList(w, r, memberList{GroupID: groupID})
}

// uploadMemberImage stores a picked file once the form has validated it.
func (s *Server) uploadMemberImage(ctx context.Context, f *member.File) (string, error) {
	data, err := io.ReadAll(f.Content)
	if err != nil {
		return "", err
	}
	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return "", &domain.FormError{Message: "Please select an image file"}
	}
	url, err := s.service.UploadImage(ctx, data, mimeType)
	if err != nil {
		return "", err
	}
	s.metrics.imagesUploaded.Inc()
	return url, nil
}
