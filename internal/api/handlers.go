package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/stresslayout/pkg/buildinfo"
	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/graph"
	"github.com/matzehuels/stresslayout/pkg/httputil"
	"github.com/matzehuels/stresslayout/pkg/pipeline"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// CreateLayoutRequest is the body of POST /v1/layouts.
type CreateLayoutRequest struct {
	Problem graph.Problem    `json:"problem"`
	Options pipeline.Options `json:"options"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var req CreateLayoutRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	layout, err := s.runner.Solve(r.Context(), req.Problem, req.Options)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	layout.ID = uuid.NewString()
	if err := s.store.Save(r.Context(), &layout); err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Debug("layout created", "id", layout.ID, "nodes", len(layout.Nodes), "iterations", layout.Iterations)
	w.Header().Set("Location", "/v1/layouts/"+layout.ID)
	httputil.WriteJSON(w, http.StatusCreated, layout)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	layout, err := s.loadLayout(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, layout)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderLayout(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}

	query := r.URL.Query()
	download := query.Get("download")
	if download != "" {
		if err := errors.ValidateFilename(download); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	opts, err := renderOptions(query, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	layout, err := s.loadLayout(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// Concurrent requests for the same artifact share one render. The
	// render outlives a single client disconnecting.
	query.Del("download")
	key := fmt.Sprintf("%s/%s?%s", layout.ID, format, query.Encode())
	v, err, shared := s.renders.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), renderTimeout)
		defer cancel()
		artifacts, err := s.runner.Render(ctx, layout, opts)
		if err != nil {
			return nil, err
		}
		return artifacts[format], nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if shared {
		s.logger.Debug("render shared", "id", layout.ID, "format", format)
	}

	w.Header().Set("Content-Type", httputil.ContentType(format))
	if download != "" {
		httputil.Attachment(w, download)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(v.([]byte))
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) loadLayout(r *http.Request) (graph.Layout, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		return graph.Layout{}, err
	}
	return s.store.Get(r.Context(), id)
}

// fail writes err as a JSON error body. Internal errors are logged and
// reported to the HTTP hooks.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetReqID(r.Context())
	if errors.HTTPStatus(err) == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", reqID, "error", err)
		reportError(r, err)
	}
	httputil.WriteError(w, err, reqID)
}

// renderOptions reads frame options from the query string.
func renderOptions(q url.Values, format string) (pipeline.Options, error) {
	opts := pipeline.Options{Formats: []string{format}}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"padding", &opts.Padding},
	}
	for _, f := range floats {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidOption, "%s: %q is not a number", f.name, raw)
		}
		*f.dst = v
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"show_targets", &opts.ShowTargets},
		{"detailed", &opts.Detailed},
	}
	for _, b := range bools {
		raw := q.Get(b.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidOption, "%s: %q is not a boolean", b.name, raw)
		}
		*b.dst = v
	}

	return opts, nil
}
