package trieve

import (
	"context"
	"net/http"
)

// HeaderProvider supplies the authentication headers sent with every request.
type HeaderProvider interface {
	Headers(ctx context.Context) (http.Header, error)
}

// StaticHeaders authenticates with a fixed API key and dataset.
type StaticHeaders struct {
	APIKey    string
	DatasetID string
}

// Headers returns the Authorization and TR-Dataset headers.
func (s StaticHeaders) Headers(_ context.Context) (http.Header, error) {
	h := make(http.Header)
	h.Set("Authorization", s.APIKey)
	h.Set("TR-Dataset", s.DatasetID)
	return h, nil
}
