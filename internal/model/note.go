package model

import (
	"strings"
	"time"
)

// Note represents a note record in the database.
type Note struct {
	ID        int64  // 0 until the note is stored
	Title     string
	Content   string
	Timestamp int64 // Milliseconds since epoch
	Color     Color
}

// IsNew reports whether the note has not been persisted yet.
func (n Note) IsNew() bool {
	return n.ID == 0
}

// Time returns the note timestamp as a time.Time.
func (n Note) Time() time.Time {
	return time.UnixMilli(n.Timestamp)
}

// IsBlank reports whether s is empty or contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// NowMillis returns the current time in milliseconds since epoch.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
