package server

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"roomdrop/internal/store"
)

func TestGenerateRoomCodeShape(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateRoomCode()
		if err != nil {
			t.Fatalf("generateRoomCode: %v", err)
		}
		if len(code) != codeLength {
			t.Fatalf("len(%q) = %d, want %d", code, len(code), codeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains %q outside A-Z0-9", code, c)
			}
		}
	}
}

func TestReadRoomCodeRejectsBiasedBytes(t *testing.T) {
	// 252-255 are above the largest multiple of 36 and must be discarded,
	// not mapped onto A-D.
	src := bytes.NewReader([]byte{252, 253, 254, 255, 0, 1, 2, 3, 4, 5})

	code, err := readRoomCode(src)
	if err != nil {
		t.Fatalf("readRoomCode: %v", err)
	}
	if code != "ABCDEF" {
		t.Errorf("code = %q, want ABCDEF (biased bytes kept?)", code)
	}
}

func TestCreateRoomWithFreshCodeUnique(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		room, err := createRoomWithFreshCode(ctx, st)
		if err != nil {
			t.Fatalf("createRoomWithFreshCode: %v", err)
		}
		if seen[room.Code] {
			t.Fatalf("code %q issued twice", room.Code)
		}
		seen[room.Code] = true
	}
}

// collidingStore rejects every code as taken, forcing the retry cap.
type collidingStore struct {
	store.Store
}

func (collidingStore) CreateRoom(ctx context.Context, code string) (*store.Room, error) {
	return nil, store.ErrCodeTaken
}

func TestCreateRoomWithFreshCodeExhaustion(t *testing.T) {
	_, err := createRoomWithFreshCode(context.Background(), collidingStore{})
	if err != errCodeSpaceExhausted {
		t.Fatalf("err = %v, want errCodeSpaceExhausted", err)
	}
}
