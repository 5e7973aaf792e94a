package server

import (
	"context"
	"crypto/rand"
	"errors"
	"io"

	"roomdrop/internal/store"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	// 36^6 codes exist, so collisions stay rare until the space is nearly
	// saturated. The cap keeps a saturated deployment from spinning
	// forever.
	maxCodeAttempts = 25
)

var errCodeSpaceExhausted = errors.New("room code space exhausted")

// generateRoomCode draws six characters uniformly from A-Z0-9.
func generateRoomCode() (string, error) {
	return readRoomCode(rand.Reader)
}

// readRoomCode builds a code from random bytes with rejection sampling:
// bytes at or above the largest multiple of the alphabet size are discarded,
// so every character is equally likely.
func readRoomCode(r io.Reader) (string, error) {
	const limit = 256 - 256%len(codeAlphabet)

	code := make([]byte, 0, codeLength)
	buf := make([]byte, codeLength)
	for len(code) < codeLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(code) == codeLength {
				break
			}
		}
	}
	return string(code), nil
}

// createRoomWithFreshCode draws codes until the store accepts one. The
// store's CreateRoom is the atomic check-then-insert, so two concurrent
// creations can never share a code; a collision simply costs a retry.
// Gives up with errCodeSpaceExhausted after maxCodeAttempts collisions.
func createRoomWithFreshCode(ctx context.Context, st store.Store) (*store.Room, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := generateRoomCode()
		if err != nil {
			return nil, err
		}

		room, err := st.CreateRoom(ctx, code)
		if errors.Is(err, store.ErrCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return room, nil
	}
	return nil, errCodeSpaceExhausted
}
