package bulk

import "github.com/vbonduro/groupr/internal/domain"

// Submission is one object handed to the persistence handler. Bulk-added
// objects never carry an email.
type Submission struct {
	Email               *string         `json:"email"`
	Name                string          `json:"name"`
	PlaceholderImageURL string          `json:"placeholderImageUrl"`
	Description         *string         `json:"description"`
	ItemType            domain.ItemType `json:"itemType"`
	LinkURL             *string         `json:"linkUrl"`
	ItemCategory        *string         `json:"itemCategory"`
}

// BuildSubmissions applies one category to the whole batch. Empty descriptions
// and link URLs become nil; an empty image stays "".
func BuildSubmissions(items []ParsedItem, category *string, kind domain.ItemType) []Submission {
	out := make([]Submission, 0, len(items))
	for _, it := range items {
		out = append(out, Submission{
			Name:                it.Name,
			PlaceholderImageURL: it.Image,
			Description:         domain.StringPtr(it.Description),
			ItemType:            kind,
			LinkURL:             domain.StringPtr(it.LinkURL),
			ItemCategory:        category,
		})
	}
	return out
}
