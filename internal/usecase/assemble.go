package usecase

import (
	"strings"

	"docsqa/internal/domain"
)

// AssembleContext joins the matched chunk texts in retrieval order with a
// single space. No matches gives the empty string.
func AssembleContext(matches []domain.Match) string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	return strings.Join(texts, " ")
}
