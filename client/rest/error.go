package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// GraphError is a non-2xx response from the Graph service, carrying the
// decoded odata error body when one was present.
type GraphError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *GraphError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("graph error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("graph error %d", e.StatusCode)
}

// NewGraphError consumes the response body and builds a GraphError.
func NewGraphError(res *http.Response) error {
	graphErr := &GraphError{StatusCode: res.StatusCode}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	defer res.Body.Close()
	if raw, err := io.ReadAll(res.Body); err == nil {
		if err := json.Unmarshal(raw, &body); err == nil {
			graphErr.Code = body.Error.Code
			graphErr.Message = body.Error.Message
		}
	}
	return graphErr
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var graphErr *GraphError
	return errors.As(err, &graphErr) && graphErr.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err indicates the resource already exists.
func IsConflict(err error) bool {
	var graphErr *GraphError
	return errors.As(err, &graphErr) &&
		(graphErr.StatusCode == http.StatusConflict || graphErr.Code == "Request_BadRequest" && graphErr.StatusCode == http.StatusBadRequest)
}
