package blob

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
)

// Inline keeps no storage of its own: the reference it returns IS the
// base64-encoded payload, stored verbatim in the content record. Suited to
// deployments without a writable disk or object store. Downloads for this
// backend are addressed by content id, since the encoded blob itself never
// appears in a URL.
type Inline struct{}

func NewInline() *Inline { return &Inline{} }

func (Inline) Save(ctx context.Context, origName, contentType string, r io.Reader) (string, int64, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	return base64.StdEncoding.EncodeToString(raw), int64(len(raw)), nil
}

func (Inline) Open(ctx context.Context, ref string) (io.ReadCloser, int64, error) {
	raw, err := base64.StdEncoding.DecodeString(ref)
	if err != nil {
		return nil, 0, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(raw)), int64(len(raw)), nil
}

func (Inline) Remove(ctx context.Context, ref string) error { return nil }
