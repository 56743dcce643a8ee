package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vbonduro/groupr/internal/domain"
	"github.com/vbonduro/groupr/internal/member"
)

// maxFormSize leaves room above the image limit so oversized images still
// reach validation and get a readable message.
const maxFormSize = 2 * member.MaxImageSize

// parseForm accepts both urlencoded and multipart bodies.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormSize)
	}
	return r.ParseForm()
}

// writeFormError reports a failed form submission. Validation messages are
// 400s; failures of the storage behind the form are 500s that still carry the
// form's message.
func (s *Server) writeFormError(w http.ResponseWriter, form string, err error) {
	if errors.Is(err, domain.ErrGroupNotFound) {
		http.Error(w, "group not found", http.StatusNotFound)
		return
	}

	var fe *domain.FormError
	if !errors.As(err, &fe) {
		http.Error(w, "internal error", http.StatusInternalServerError)
		s.logger.Error("form submit failed", "form", form, "error", err)
		return
	}

	var inner *domain.FormError
	if fe.Err != nil && !errors.As(fe.Err, &inner) {
		http.Error(w, fe.Message, http.StatusInternalServerError)
		s.logger.Error("form handler failed", "form", form, "error", fe.Err)
		return
	}

	s.metrics.formRejections.WithLabelValues(form).Inc()
	s.logger.Debug("form rejected", "form", form, "message", fe.Message)
	http.Error(w, fe.Message, http.StatusBadRequest)
}
