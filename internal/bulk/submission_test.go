package bulk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/groupr/internal/domain"
)

func TestBuildSubmissionsText(t *testing.T) {
	category := "Player"
	items := []ParsedItem{
		{Name: "LeBron James", Description: "Lakers forward", Image: "https://x/lbj.jpg"},
		{Name: "Stephen Curry"},
	}

	subs := BuildSubmissions(items, &category, domain.ItemTypeText)
	require.Len(t, subs, 2)

	assert.Nil(t, subs[0].Email)
	assert.Equal(t, "LeBron James", subs[0].Name)
	assert.Equal(t, "https://x/lbj.jpg", subs[0].PlaceholderImageURL)
	require.NotNil(t, subs[0].Description)
	assert.Equal(t, "Lakers forward", *subs[0].Description)
	assert.Nil(t, subs[0].LinkURL)
	assert.Equal(t, domain.ItemTypeText, subs[0].ItemType)

	assert.Nil(t, subs[1].Description, "empty description becomes nil")
	assert.Equal(t, "", subs[1].PlaceholderImageURL, "empty image is kept as empty string")

	for _, s := range subs {
		require.NotNil(t, s.ItemCategory)
		assert.Equal(t, "Player", *s.ItemCategory)
	}
}

func TestBuildSubmissionsLink(t *testing.T) {
	items := Parse("https://example.com/a, A", domain.ItemTypeLink)

	subs := BuildSubmissions(items, nil, domain.ItemTypeLink)
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].LinkURL)
	assert.Equal(t, "https://example.com/a", *subs[0].LinkURL)
	assert.Equal(t, "A", subs[0].Name)
	assert.Nil(t, subs[0].Description)
	assert.Nil(t, subs[0].ItemCategory)
}

func TestBuildSubmissionsEmpty(t *testing.T) {
	assert.Empty(t, BuildSubmissions(nil, nil, domain.ItemTypeUser))
}
