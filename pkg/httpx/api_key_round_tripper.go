package httpx

import (
	"fmt"
	"net/http"
)

// APIKeyRoundTripper adds a static API key header to every outgoing request.
type APIKeyRoundTripper struct {
	next   http.RoundTripper
	header string
	key    string
}

func NewAPIKeyRoundTripper(next http.RoundTripper, header, key string) APIKeyRoundTripper {
	if header == "" {
		header = "Authorization"
	}

	return APIKeyRoundTripper{
		next:   next,
		header: header,
		key:    key,
	}
}

func (rt APIKeyRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.key != "" {
		req = req.Clone(req.Context())
		req.Header.Set(rt.header, rt.key)
	}

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}
