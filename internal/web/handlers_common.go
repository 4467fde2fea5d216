package web

// handlers_common.go holds request parsing helpers shared by handlers.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/sheetclean/internal/core"
)

// MaxJSONBodySize caps JSON request bodies. Saved sessions carry whole
// tables, so the limit is generous.
const MaxJSONBodySize = 16 << 20

// decodeJSON decodes the request body into v. Malformed bodies yield
// core.ErrInvalidRequest.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var mb *http.MaxBytesError
		if errors.As(err, &mb) {
			return core.ErrFileTooLarge
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", core.ErrInvalidRequest)
		}
		return fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
	}
	return nil
}

// workspaceID parses the {id} path parameter. Malformed ids cannot name a
// workspace, so they are reported as not found.
func workspaceID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, core.ErrWorkspaceNotFound
	}
	return id, nil
}

// sessionID parses the {id} path parameter of session routes.
func sessionID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: session id %q must be a positive integer", core.ErrInvalidRequest, raw)
	}
	return id, nil
}

// intParam parses an integer path parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", core.ErrInvalidRequest, name)
	}
	return n, nil
}

// boolQuery reads a boolean query parameter. Missing or unparsable values
// are false.
func boolQuery(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(name)))
	return err == nil && v
}

// required reports a missing JSON field.
func required(field string) error {
	return fmt.Errorf("%w: %s is required", core.ErrInvalidRequest, field)
}

// clientIP returns the request's client address without the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
