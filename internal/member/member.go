// Package member validates the single-member invite form and hands the
// normalized record to the caller's handlers.
package member

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/vbonduro/groupr/internal/domain"
)

// MaxImageSize is the largest placeholder image accepted for upload.
const MaxImageSize = 5 * 1024 * 1024

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address. It is a syntax
// check only.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateImage checks a selected file before any upload is attempted.
func ValidateImage(mimeType string, size int64) error {
	if !strings.HasPrefix(mimeType, "image/") {
		return &domain.FormError{Message: "Please select an image file"}
	}
	if size > MaxImageSize {
		return &domain.FormError{Message: "Image must be less than 5MB"}
	}
	return nil
}

type ImageSource string

const (
	ImageFromURL    ImageSource = "url"
	ImageFromUpload ImageSource = "upload"
)

// File is an image picked for upload.
type File struct {
	Name     string
	MimeType string
	Size     int64
	Content  io.Reader
}

// NewMember is the normalized record produced by a successful submit.
type NewMember struct {
	Email               string `json:"email"`
	Name                string `json:"name"`
	PlaceholderImageURL string `json:"placeholderImageUrl"`
}

type Input struct {
	Email       string
	Name        string
	ImageSource ImageSource
	ImageURL    string
	File        *File
}

type (
	SubmitFunc func(ctx context.Context, m NewMember) error
	UploadFunc func(ctx context.Context, f *File) (string, error)
)

type Form struct {
	submit SubmitFunc
	upload UploadFunc
}

// NewForm builds a form. upload may be nil, in which case uploaded files are
// ignored and the member gets no placeholder image.
func NewForm(submit SubmitFunc, upload UploadFunc) *Form {
	return &Form{submit: submit, upload: upload}
}

// Submit validates in, resolves the placeholder image and calls the submit
// handler. Every returned error is a *domain.FormError.
func (f *Form) Submit(ctx context.Context, in Input) (*NewMember, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, &domain.FormError{Message: "Email is required"}
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, &domain.FormError{Message: "Name is required"}
	}
	if !ValidEmail(in.Email) {
		return nil, &domain.FormError{Message: "Please enter a valid email address"}
	}

	if in.ImageSource == ImageFromUpload && in.File != nil {
		if err := ValidateImage(in.File.MimeType, in.File.Size); err != nil {
			return nil, err
		}
	}

	imageURL, err := f.resolveImage(ctx, in)
	if err != nil {
		return nil, domain.NewFormError(err, "Failed to add member")
	}

	m := NewMember{
		Email:               strings.ToLower(strings.TrimSpace(in.Email)),
		Name:                strings.TrimSpace(in.Name),
		PlaceholderImageURL: imageURL,
	}
	if err := f.submit(ctx, m); err != nil {
		return nil, domain.NewFormError(err, "Failed to add member")
	}
	return &m, nil
}

func (f *Form) resolveImage(ctx context.Context, in Input) (string, error) {
	switch in.ImageSource {
	case ImageFromUpload:
		if in.File == nil || f.upload == nil {
			return "", nil
		}
		return f.upload(ctx, in.File)
	case ImageFromURL, "":
		return strings.TrimSpace(in.ImageURL), nil
	default:
		return "", nil
	}
}
