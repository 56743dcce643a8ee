package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/groupr/internal/imagestore"
	"github.com/vbonduro/groupr/internal/member"
)

// allowedImageTypes is the set of MIME types accepted for uploaded images.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// handleUploadImage stores a standalone image and answers {"url": "..."} so a
// client can fill the image URL field before submitting a member.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	imageData, err := io.ReadAll(io.LimitReader(file, member.MaxImageSize+1))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to read file")
		s.logger.Error("read upload failed", "error", err)
		return
	}
	if len(imageData) > member.MaxImageSize {
		writeJSONError(w, http.StatusBadRequest, "Image must be less than 5MB")
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Please select an image file")
		return
	}

	url, err := s.service.UploadImage(r.Context(), imageData, mimeType)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to store image")
		s.logger.Error("upload image failed", "error", err)
		return
	}
	s.metrics.imagesUploaded.Inc()

	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	reader, mimeType, err := s.service.OpenImage(r.Context(), key)
	if errors.Is(err, imagestore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "failed to get image", http.StatusInternalServerError)
		s.logger.Error("get image failed", "storage_key", key, "error", err)
		return
	}
	defer closeWithLog(reader, "image reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write image failed", "storage_key", key, "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
