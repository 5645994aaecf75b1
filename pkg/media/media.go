package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/theline-social/theline/config"
)

// Storage stores uploaded media and deletes it again by the URL it handed
// out. Selected once at startup and injected; services never look at
// environment flags.
type Storage interface {
	Save(ctx context.Context, folder, filename, contentType string, body io.Reader) (url string, err error)
	Delete(ctx context.Context, url string) error
}

// New builds the configured backend.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Media.Driver {
	case "disk", "":
		return NewDisk(cfg.Media.BasePath, cfg.Media.BaseURL), nil
	case "s3":
		return NewS3(ctx, cfg.Media.Bucket, cfg.Media.Region)
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Media.Driver)
	}
}

// objectKey produces a collision-free key, keeping the original extension so
// content type survives round trips.
func objectKey(folder, filename string) string {
	return folder + "/" + uuid.New().String() + filepath.Ext(filename)
}
