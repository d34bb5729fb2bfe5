// Package digest renders fetched articles as plain text.
package digest

import (
	"strings"

	"github.com/Adda-Baaj/cron-report/internal/domain"
)

const blockSeparator = "\n\n"

// Block renders one article as "title (source)" followed by its URL.
func Block(a domain.Article) string {
	return a.Title + " (" + a.Source + ")\n" + a.URL
}

// Format joins the article blocks with a blank line, preserving order.
// No articles yields an empty string.
func Format(articles []domain.Article) string {
	if len(articles) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(articles))
	for _, a := range articles {
		blocks = append(blocks, Block(a))
	}
	return strings.Join(blocks, blockSeparator)
}
