package mock

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// Backend routes signed request URLs to an in-memory Service without a
// network hop. It satisfies the client's Backend interface, so the full
// pipeline (signing included) is exercised even in mock mode.
type Backend struct {
	handler *Handler
}

// NewBackend creates a Backend for svc. The game ID and private key must
// match the ones the client was built with, since signatures are verified.
func NewBackend(svc *Service, gameID, privateKey string) *Backend {
	return &Backend{handler: NewHandler(svc, gameID, privateKey)}
}

// Fetch executes a signed URL against the in-memory service.
func (b *Backend) Fetch(ctx context.Context, signedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return nil, err
	}
	rec := &recorder{header: make(http.Header), status: http.StatusOK}
	b.handler.ServeHTTP(rec, req)
	if rec.status < 200 || rec.status > 299 {
		return nil, fmt.Errorf("mock: unexpected status %d: %s", rec.status, rec.body.String())
	}
	return rec.body.Bytes(), nil
}

// recorder is a minimal in-memory http.ResponseWriter.
type recorder struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) Write(p []byte) (int, error) { return r.body.Write(p) }

func (r *recorder) WriteHeader(status int) { r.status = status }
