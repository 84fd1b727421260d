package models

import "time"

// Artifact describes what a HEAD request learned about the download URL.
type Artifact struct {
	URL          string
	StatusCode   int
	Status       string
	ContentType  string
	Size         int64
	LastModified time.Time
}

// HasLastModified reports whether the server sent a usable Last-Modified
// header.
func (a Artifact) HasLastModified() bool {
	return !a.LastModified.IsZero()
}
