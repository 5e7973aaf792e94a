package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is the in-memory Store backend. Entities vanish on process
// restart. All operations take the lock for their full duration, so each
// mutation is atomic with respect to the others; in particular CreateRoom
// checks the code index and inserts under one write lock, so two
// concurrent creations can never end up sharing a code.
type Memory struct {
	mu      sync.RWMutex
	rooms   map[string]Room
	codes   map[string]string // code -> room id
	content map[string]memContent
	seq     uint64
}

// memContent pairs a content item with its insertion sequence so that
// listings stay totally ordered even when two items share a timestamp.
type memContent struct {
	Content
	seq uint64
}

func NewMemory() *Memory {
	return &Memory{
		rooms:   make(map[string]Room),
		codes:   make(map[string]string),
		content: make(map[string]memContent),
	}
}

func (m *Memory) CreateRoom(ctx context.Context, code string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.codes[code]; taken {
		return nil, ErrCodeTaken
	}

	room := Room{
		ID:        uuid.New().String(),
		Code:      code,
		CreatedAt: time.Now().UTC(),
	}
	m.rooms[room.ID] = room
	m.codes[code] = room.ID
	return &room, nil
}

func (m *Memory) RoomByCode(ctx context.Context, code string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.codes[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	room := m.rooms[id]
	return &room, nil
}

func (m *Memory) DeleteRoom(ctx context.Context, roomID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return false, nil
	}
	delete(m.rooms, roomID)
	delete(m.codes, room.Code)

	for id, c := range m.content {
		if c.RoomID == roomID {
			delete(m.content, id)
		}
	}
	return true, nil
}

func (m *Memory) CreateContent(ctx context.Context, in InsertContent) (*Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := Content{
		ID:        uuid.New().String(),
		RoomID:    in.RoomID,
		Type:      in.Type,
		Title:     in.Title,
		Data:      in.Data,
		FileName:  in.FileName,
		FileSize:  in.FileSize,
		MimeType:  in.MimeType,
		CreatedAt: time.Now().UTC(),
	}
	m.seq++
	m.content[c.ID] = memContent{Content: c, seq: m.seq}
	return &c, nil
}

func (m *Memory) ContentByRoom(ctx context.Context, roomID string) ([]Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]memContent, 0)
	for _, c := range m.content {
		if c.RoomID == roomID {
			items = append(items, c)
		}
	}

	// Newest first; insertion order breaks timestamp ties.
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].seq > items[j].seq
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	out := make([]Content, len(items))
	for i, c := range items {
		out[i] = c.Content
	}
	return out, nil
}

func (m *Memory) ContentByID(ctx context.Context, id string) (*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.content[id]
	if !ok {
		return nil, ErrContentNotFound
	}
	item := c.Content
	return &item, nil
}

func (m *Memory) ContentByFileRef(ctx context.Context, ref string) (*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if c, ok := m.content[ref]; ok && c.Type == TypeFile {
		item := c.Content
		return &item, nil
	}
	for _, c := range m.content {
		if c.Type == TypeFile && c.Data == ref {
			item := c.Content
			return &item, nil
		}
	}
	return nil, ErrContentNotFound
}

func (m *Memory) DeleteContent(ctx context.Context, contentID, roomID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.content[contentID]
	if !ok || c.RoomID != roomID {
		return false, nil
	}
	delete(m.content, contentID)
	return true, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
