// Package storage persists uploaded and generated media and hands back a
// URL reference for the photo row.
package storage

import (
	"context"
	"io"
)

// MediaStore saves a media object under a unique name derived from name
// and returns the URL the stored object is reachable at.
type MediaStore interface {
	Save(ctx context.Context, r io.Reader, name string) (string, error)
}
