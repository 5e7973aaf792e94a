package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/sirupsen/logrus"

	"roomdrop/internal/blob"
	"roomdrop/internal/store"
)

// newTestHandler wires a full router over the in-memory store and a
// disk blob backend rooted in a test temp dir.
func newTestHandler(t *testing.T) (http.Handler, *store.Memory) {
	t.Helper()

	disk, err := blob.NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	st := store.NewMemory()
	srv := New(Config{
		Addr:           ":0",
		Store:          st,
		Blobs:          disk,
		MaxUploadBytes: 1 << 20,
		Log:            log,
	})
	return srv.Handler(), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createTestRoom(t *testing.T, h http.Handler) store.Room {
	t.Helper()

	rr := doJSON(t, h, http.MethodPost, "/api/rooms", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create room: status %d: %s", rr.Code, rr.Body.String())
	}
	var room store.Room
	decodeBody(t, rr, &room)
	return room
}

// multipartUpload posts the given bytes as the "file" form field.
func multipartUpload(t *testing.T, h http.Handler, path, fileName, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
