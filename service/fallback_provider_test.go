package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackProvider_Articles(t *testing.T) {
	p := NewFallbackProvider()

	first := p.Articles()
	require.Len(t, first, 3)

	for i, article := range first {
		assert.Equal(t, []string{"sample-1", "sample-2", "sample-3"}[i], article.ID)
		assert.NotEmpty(t, article.Title)
		assert.NotEmpty(t, article.OriginalContent)
		assert.NotEmpty(t, article.TranslatedContent)
		assert.NotEmpty(t, article.URL)
		assert.Empty(t, article.Summary)
	}

	t.Run("same records on every call", func(t *testing.T) {
		assert.Equal(t, first, p.Articles())
	})

	t.Run("callers cannot mutate the fixed batch", func(t *testing.T) {
		batch := p.Articles()
		batch[0].Title = "changed"

		assert.NotEqual(t, "changed", p.Articles()[0].Title)
	})
}
