package models

import "time"

// FileEntry describes an uploaded file. The bytes live in the blob store
// under StoredName; the row and the blob are created and removed together.
type FileEntry struct {
	ID int64 `json:"id"`
	// StoredName is the blob name, "<unix-seconds>_<OriginalName>".
	StoredName string `json:"stored_name"`
	// OriginalName is the client-supplied name, used for display and as the
	// suggested download filename.
	OriginalName string    `json:"original_name"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}
