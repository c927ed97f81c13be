package services

import (
	"strings"

	"github.com/dmitrijs2005/lanshare/internal/models"
)

// FilterTexts keeps the entries whose content contains q, ignoring case.
// An empty q returns list unchanged.
func FilterTexts(list []*models.TextEntry, q string) []*models.TextEntry {
	if q == "" {
		return list
	}
	q = strings.ToLower(q)

	out := make([]*models.TextEntry, 0, len(list))
	for _, e := range list {
		if strings.Contains(strings.ToLower(e.Content), q) {
			out = append(out, e)
		}
	}
	return out
}

// FilterFiles keeps the entries whose original name contains q, ignoring case.
func FilterFiles(list []*models.FileEntry, q string) []*models.FileEntry {
	if q == "" {
		return list
	}
	q = strings.ToLower(q)

	out := make([]*models.FileEntry, 0, len(list))
	for _, e := range list {
		if strings.Contains(strings.ToLower(e.OriginalName), q) {
			out = append(out, e)
		}
	}
	return out
}
