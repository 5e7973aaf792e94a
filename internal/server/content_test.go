package server

import (
	"net/http"
	"testing"
	"time"

	"roomdrop/internal/store"
)

func TestCreateContentRejectsBadPayloads(t *testing.T) {
	h, _ := newTestHandler(t)
	room := createTestRoom(t, h)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"unknown type", map[string]string{"type": "video", "data": "x"}},
		{"missing data", map[string]string{"type": "text"}},
		{"empty data", map[string]string{"type": "text", "data": "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, h, http.MethodPost, "/api/rooms/"+room.ID+"/content", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", rr.Code)
			}
		})
	}
}

func TestCreateContentPromotesLinks(t *testing.T) {
	h, _ := newTestHandler(t)
	room := createTestRoom(t, h)

	rr := doJSON(t, h, http.MethodPost, "/api/rooms/"+room.ID+"/content",
		map[string]string{"type": "text", "data": "https://example.com/doc"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}

	var created store.Content
	decodeBody(t, rr, &created)
	if created.Type != store.TypeLink {
		t.Errorf("type = %q, want link", created.Type)
	}
}

func TestListContentNewestFirst(t *testing.T) {
	h, st := newTestHandler(t)
	room := createTestRoom(t, h)

	var ids []string
	for _, data := range []string{"one", "two", "three"} {
		c, err := st.CreateContent(t.Context(), store.InsertContent{
			RoomID: room.ID, Type: store.TypeText, Data: data,
		})
		if err != nil {
			t.Fatalf("CreateContent: %v", err)
		}
		ids = append(ids, c.ID)
		time.Sleep(2 * time.Millisecond)
	}

	rr := doJSON(t, h, http.MethodGet, "/api/rooms/"+room.ID+"/content", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}

	var items []store.Content
	decodeBody(t, rr, &items)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	want := []string{ids[2], ids[1], ids[0]}
	for i := range want {
		if items[i].ID != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, items[i].ID, want[i])
		}
	}
}

func TestDeleteContentScopedToRoom(t *testing.T) {
	h, _ := newTestHandler(t)
	roomA := createTestRoom(t, h)
	roomB := createTestRoom(t, h)

	rr := doJSON(t, h, http.MethodPost, "/api/rooms/"+roomA.ID+"/content",
		map[string]string{"type": "text", "data": "hello"})
	var created store.Content
	decodeBody(t, rr, &created)

	// Attacking through another room's id gets a 404, not a deletion.
	rr = doJSON(t, h, http.MethodDelete, "/api/rooms/"+roomB.ID+"/content/"+created.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("cross-room delete: status %d, want 404", rr.Code)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/rooms/"+roomA.ID+"/content", nil)
	var items []store.Content
	decodeBody(t, rr, &items)
	if len(items) != 1 {
		t.Fatalf("content count after refused delete = %d, want 1", len(items))
	}

	rr = doJSON(t, h, http.MethodDelete, "/api/rooms/"+roomA.ID+"/content/"+created.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("owned delete: status %d", rr.Code)
	}
}

func TestDeleteContentUnknownID(t *testing.T) {
	h, _ := newTestHandler(t)
	room := createTestRoom(t, h)

	rr := doJSON(t, h, http.MethodDelete, "/api/rooms/"+room.ID+"/content/does-not-exist", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rr.Code)
	}
}
