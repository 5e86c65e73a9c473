package model

import (
	"context"
	"io"
)

// DocumentStore keeps static documents such as the terms of service.
type DocumentStore interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}
