package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeepArticle(t *testing.T) {
	tests := []struct {
		name    string
		article RawArticle
		keep    bool
	}{
		{
			name:    "valid article is kept",
			article: RawArticle{Title: "Chipmaker posts record earnings", URL: "https://example.com/a"},
			keep:    true,
		},
		{
			name:    "missing title is dropped",
			article: RawArticle{URL: "https://example.com/a"},
			keep:    false,
		},
		{
			name:    "missing url is dropped",
			article: RawArticle{Title: "Chipmaker posts record earnings"},
			keep:    false,
		},
		{
			name:    "removal placeholder is dropped",
			article: RawArticle{Title: "[Removed]", URL: "https://example.com/a"},
			keep:    false,
		},
		{
			name:    "removal placeholder embedded in title is dropped",
			article: RawArticle{Title: "Breaking: [Removed] by publisher", URL: "https://example.com/a", SourceName: "Wire"},
			keep:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keep, KeepArticle(tt.article))
		})
	}
}
