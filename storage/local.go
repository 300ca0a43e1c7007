package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LocalStore writes media files to a directory on disk. The directory is
// served statically by the HTTP layer under urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore ensures dir exists and returns a store whose URLs are
// rooted at urlPrefix (e.g. "/uploads").
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Save writes the media object under a timestamped unique filename.
func (s *LocalStore) Save(_ context.Context, r io.Reader, name string) (string, error) {
	unique := strconv.FormatInt(time.Now().UnixNano(), 10) + "_" + sanitize(name)

	f, err := os.Create(filepath.Join(s.dir, unique))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	return s.urlPrefix + "/" + unique, nil
}

// sanitize keeps the stored name to its base and strips path separators so
// a crafted filename cannot escape the upload dir.
func sanitize(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
