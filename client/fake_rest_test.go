package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/awillows/win365-lab-builder/client/query"
)

type recordedCall struct {
	method string
	path   string
	params query.Params
	body   interface{}
}

// fakeRestClient serves canned JSON responses keyed by "METHOD path" and
// records every call for assertions. Unstubbed paths return an empty object.
type fakeRestClient struct {
	t         *testing.T
	responses map[string]interface{}
	calls     []recordedCall
}

func newFakeRestClient(t *testing.T) *fakeRestClient {
	t.Helper()
	return &fakeRestClient{t: t, responses: make(map[string]interface{})}
}

func (s *fakeRestClient) stub(method, path string, body interface{}) {
	s.responses[method+" "+path] = body
}

func (s *fakeRestClient) callsTo(method, path string) []recordedCall {
	var matched []recordedCall
	for _, call := range s.calls {
		if call.method == method && call.path == path {
			matched = append(matched, call)
		}
	}
	return matched
}

func (s *fakeRestClient) respond(method, path string) (*http.Response, error) {
	body, ok := s.responses[method+" "+path]
	if !ok {
		body = map[string]interface{}{}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		s.t.Fatalf("marshaling stub for %s %s: %v", method, path, err)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(raw)),
	}, nil
}

func (s *fakeRestClient) Get(ctx context.Context, path string, params query.Params, headers map[string]string) (*http.Response, error) {
	s.calls = append(s.calls, recordedCall{method: http.MethodGet, path: path, params: params})
	return s.respond(http.MethodGet, path)
}

func (s *fakeRestClient) Post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	s.calls = append(s.calls, recordedCall{method: http.MethodPost, path: path, body: body})
	return s.respond(http.MethodPost, path)
}

func (s *fakeRestClient) Patch(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	s.calls = append(s.calls, recordedCall{method: http.MethodPatch, path: path, body: body})
	return s.respond(http.MethodPatch, path)
}

func (s *fakeRestClient) Delete(ctx context.Context, path string, params query.Params, headers map[string]string) (*http.Response, error) {
	s.calls = append(s.calls, recordedCall{method: http.MethodDelete, path: path, params: params})
	return s.respond(http.MethodDelete, path)
}

func (s *fakeRestClient) Send(req *http.Request) (*http.Response, error) {
	s.calls = append(s.calls, recordedCall{method: req.Method, path: req.URL.Path})
	return s.respond(req.Method, req.URL.Path)
}

func (s *fakeRestClient) CloseIdleConnections() {}
