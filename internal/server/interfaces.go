package server

import "context"

// Server is a transport server with a context-bound lifecycle.
type Server interface {
	// Run serves requests until ctx is done, then shuts down gracefully.
	Run(ctx context.Context) error
}
