package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nerrad567/graystore/internal/dispatch"
)

// envelope wraps every successful answer.
type envelope struct {
	Result json.RawMessage `json:"result"`
}

// handleDispatch routes the request path through the invoker.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	path, err := splitPath(r.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadPath, err.Error())
		s.record("", http.StatusBadRequest, start)
		return
	}
	params, err := dispatch.ParseBody(r.Body)
	if err != nil {
		s.fail(w, r, "", err, start)
		return
	}

	res, err := s.invoker.Invoke(r.Context(), path, params)
	if err != nil {
		s.fail(w, r, res.Action, err, start)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Result: res.Value})
	s.record(res.Action, http.StatusOK, start)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, action string, err error, start time.Time) {
	status, code, expose := classify(err)
	message := err.Error()
	if !expose {
		s.logger.Error("dispatch failed",
			"action", action,
			"error", err,
			"request_id", requestID(r.Context()),
		)
		message = "internal server error"
	}
	writeError(w, status, code, message)
	s.record(action, status, start)
}

func (s *Server) record(action string, status int, start time.Time) {
	if s.recorder != nil {
		s.recorder.RecordDispatch(action, status, time.Since(start))
	}
}

// splitPath splits the raw path so an escaped "/" stays inside its segment,
// then unescapes each segment.
func splitPath(u *url.URL) ([]string, error) {
	segments := dispatch.Split(u.EscapedPath())
	for i, seg := range segments {
		if !strings.Contains(seg, "%") {
			continue
		}
		unescaped, err := url.PathUnescape(seg)
		if err != nil {
			return nil, fmt.Errorf("invalid path segment %q: %w", seg, err)
		}
		segments[i] = unescaped
	}
	return segments, nil
}
