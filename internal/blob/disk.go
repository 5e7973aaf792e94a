package blob

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Disk stores uploads as files under a single directory. The reference is
// the generated filename: millisecond timestamp plus a random nine-digit
// suffix plus the original extension, which keeps names collision-resistant
// without leaking the original name.
type Disk struct {
	dir string
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) Save(ctx context.Context, origName, contentType string, r io.Reader) (string, int64, error) {
	name := diskFilename(origName)

	f, err := os.OpenFile(filepath.Join(d.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, err
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(d.dir, name))
		return "", 0, err
	}
	return name, size, nil
}

func (d *Disk) Open(ctx context.Context, ref string) (io.ReadCloser, int64, error) {
	if !validDiskRef(ref) {
		return nil, 0, ErrNotFound
	}

	path := filepath.Join(d.dir, ref)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func (d *Disk) Remove(ctx context.Context, ref string) error {
	if !validDiskRef(ref) {
		return nil
	}
	err := os.Remove(filepath.Join(d.dir, ref))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// validDiskRef rejects references that could escape the upload directory.
func validDiskRef(ref string) bool {
	if ref == "" || ref == "." || ref == ".." {
		return false
	}
	if strings.ContainsAny(ref, "/\\") {
		return false
	}
	return true
}

func diskFilename(origName string) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	suffix := binary.BigEndian.Uint32(b[:]) % 1_000_000_000

	ext := filepath.Ext(origName)
	return fmt.Sprintf("%d-%09d%s", time.Now().UnixMilli(), suffix, ext)
}
