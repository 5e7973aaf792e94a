// Package store holds rooms and their shared content. It is the single
// source of truth for the API; handlers receive a Store instance at
// startup rather than reaching for a package-level singleton.
package store

import (
	"context"
	"time"
)

// ContentType classifies a shared item.
type ContentType string

const (
	TypeText ContentType = "text"
	TypeLink ContentType = "link"
	TypeFile ContentType = "file"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case TypeText, TypeLink, TypeFile:
		return true
	}
	return false
}

// Room is a namespace identified by a short code. Anyone holding the code
// can read or write its content.
type Room struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
}

// Content is a single shared unit belonging to exactly one room. Data holds
// the text body for text items, the URL for links, and a storage reference
// for files (disk filename, object key, or inline base64 blob depending on
// the configured blob backend).
type Content struct {
	ID        string      `json:"id"`
	RoomID    string      `json:"roomId"`
	Type      ContentType `json:"type"`
	Title     *string     `json:"title"`
	Data      string      `json:"data"`
	FileName  *string     `json:"fileName"`
	FileSize  *int64      `json:"fileSize"`
	MimeType  *string     `json:"mimeType"`
	CreatedAt time.Time   `json:"createdAt"`
}

// InsertContent carries the caller-supplied fields of a new content item.
// The store allocates the id and timestamp.
type InsertContent struct {
	RoomID   string
	Type     ContentType
	Title    *string
	Data     string
	FileName *string
	FileSize *int64
	MimeType *string
}

// Store is the repository contract shared by the memory and Postgres
// backends.
type Store interface {
	// CreateRoom stores a new room under the given code. Uniqueness is
	// enforced atomically by the backend: if a live room already holds the
	// code, CreateRoom returns ErrCodeTaken and stores nothing.
	CreateRoom(ctx context.Context, code string) (*Room, error)

	// RoomByCode looks a room up by its code. Returns ErrRoomNotFound if no
	// live room holds the code.
	RoomByCode(ctx context.Context, code string) (*Room, error)

	// DeleteRoom removes a room and every content item it owns. The cascade
	// is all-or-nothing. Returns false if the room did not exist.
	DeleteRoom(ctx context.Context, roomID string) (bool, error)

	// CreateContent stores a new content item. The memory backend does not
	// verify that RoomID refers to a live room; the Postgres backend
	// enforces it through the schema and returns ErrRoomNotFound.
	CreateContent(ctx context.Context, in InsertContent) (*Content, error)

	// ContentByRoom returns the room's content newest-first.
	ContentByRoom(ctx context.Context, roomID string) ([]Content, error)

	// ContentByID returns a single content item or ErrContentNotFound.
	ContentByID(ctx context.Context, id string) (*Content, error)

	// ContentByFileRef resolves a download reference, which is either a
	// content id or the stored file reference in Data, to a file content
	// item. Returns ErrContentNotFound otherwise.
	ContentByFileRef(ctx context.Context, ref string) (*Content, error)

	// DeleteContent removes a content item only when it belongs to roomID.
	// Returns false for unknown ids and for cross-room attempts alike.
	DeleteContent(ctx context.Context, contentID, roomID string) (bool, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
