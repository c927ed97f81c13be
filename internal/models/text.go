// Package models defines the records persisted by the metadata store.
package models

import "time"

// TitleLength is the number of characters of content kept as a text title.
const TitleLength = 30

// TextEntry is a shared text snippet. Entries are immutable after creation.
type TextEntry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TitleFromContent returns the first TitleLength characters of content,
// followed by "..." when content is longer than that.
func TitleFromContent(content string) string {
	r := []rune(content)
	if len(r) <= TitleLength {
		return content
	}
	return string(r[:TitleLength]) + "..."
}
