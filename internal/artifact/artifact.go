// Package artifact persists rendered export files and hands back the durable
// location recorded on the job.
package artifact

import "context"

// Store saves one rendered artifact and returns its location URI.
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}
