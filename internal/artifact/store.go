// Package artifact handles the lifecycle of rendered diagram files beyond
// the local output directory: optional mirroring to S3-compatible storage
// and retention-based pruning.
package artifact

import "context"

// Mirror receives a copy of every successfully rendered artifact.
// Implementations must be safe for concurrent use. A nil Mirror disables
// mirroring.
type Mirror interface {
	Put(ctx context.Context, filename string, content []byte, contentType string) error
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".svg":
		return "image/svg+xml"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
