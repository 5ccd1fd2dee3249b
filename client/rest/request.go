package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// NewRequest builds a JSON request against the given endpoint. Query values
// already present on the endpoint survive; params are merged over them.
func NewRequest(ctx context.Context, verb string, endpoint *url.URL, body interface{}, params map[string]string, headers map[string]string) (*http.Request, error) {
	if len(params) > 0 {
		values := endpoint.Query()
		for key, value := range params {
			values.Set(key, value)
		}
		endpoint.RawQuery = values.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, verb, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// Decode drains and closes the body after unmarshalling so the underlying
// connection can be reused.
func Decode(body io.ReadCloser, v interface{}) error {
	defer func() {
		_, _ = io.Copy(io.Discard, body)
		_ = body.Close()
	}()
	return json.NewDecoder(body).Decode(v)
}
