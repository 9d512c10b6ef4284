package model

import "time"

// StoredFile describes a contract object persisted in the object store.
// The store is the source of truth: the application never keeps an
// authoritative copy, only listing metadata fetched on demand.
type StoredFile struct {
	Name           string    `json:"name"`
	ID             string    `json:"id"`
	Size           int64     `json:"size"`
	ContentType    string    `json:"content_type,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}
