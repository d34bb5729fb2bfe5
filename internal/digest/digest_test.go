package digest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/Adda-Baaj/cron-report/internal/domain"
)

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "", Format([]domain.Article{}))
}

func TestFormatSingle(t *testing.T) {
	got := Format([]domain.Article{{Title: "Markets rally", Source: "Reuters", URL: "https://reuters.example/a"}})
	assert.Equal(t, "Markets rally (Reuters)\nhttps://reuters.example/a", got)
}

func TestFormatBlocksInOrder(t *testing.T) {
	const n = 5
	articles := make([]domain.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, domain.Article{
			Title:  fmt.Sprintf("Title %d", i),
			Source: fmt.Sprintf("Src %d", i),
			URL:    fmt.Sprintf("https://news.example/%d", i),
		})
	}

	blocks := strings.Split(Format(articles), "\n\n")

	assert.Equal(t, n, len(blocks))
	for i, b := range blocks {
		assert.Equal(t, fmt.Sprintf("Title %d (Src %d)\nhttps://news.example/%d", i, i, i), b)
	}
}

func TestBlockKeepsEmptyFields(t *testing.T) {
	assert.Equal(t, " ()\n", Block(domain.Article{}))
}
