package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/machviz/machina/pkg/cache"
	"github.com/machviz/machina/pkg/errors"
	"github.com/machviz/machina/pkg/layout"
	"github.com/machviz/machina/pkg/manifest"
	"github.com/machviz/machina/pkg/sink"
	"github.com/machviz/machina/pkg/store"
)

// cacheTTL bounds how long rendered artifacts stay cached.
const cacheTTL = 24 * time.Hour

// renderResponse carries rendered markup back to the client.
type renderResponse struct {
	Format string `json:"format"`
	Output string `json:"output"`
	Cached bool   `json:"cached"`
}

// saveRequest is the body for POST /diagrams.
type saveRequest struct {
	Name    string               `json:"name"`
	FSM     *manifest.FSMDef     `json:"fsm,omitempty"`
	Digraph *manifest.DigraphDef `json:"digraph,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "machina"})
}

func (s *Server) handleRenderFSM(w http.ResponseWriter, r *http.Request) {
	var def manifest.FSMDef
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode request body"))
		return
	}

	format := formatParam(r, sink.KindTeX)
	if format != sink.KindTeX {
		s.writeError(w, errors.New(errors.ErrCodeUnsupportedOutput, "an FSM has no %q serialization", format))
		return
	}

	built, err := def.Build("request")
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.renderAndReply(w, r, def, built, format)
}

func (s *Server) handleRenderDigraph(w http.ResponseWriter, r *http.Request) {
	var def manifest.DigraphDef
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode request body"))
		return
	}

	built, err := def.Build("request")
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.renderAndReply(w, r, def, built, formatParam(r, sink.KindDOT))
}

func (s *Server) handleSaveDiagram(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode request body"))
		return
	}

	rec, err := recordFromRequest(req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.cfg.Store.Put(r.Context(), rec); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store diagram"))
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// recordFromRequest validates a save request into a store record.
// The definition is built once here so invalid diagrams are rejected at
// save time, not at first render.
func recordFromRequest(req saveRequest) (*store.Record, error) {
	if (req.FSM == nil) == (req.Digraph == nil) {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "exactly one of fsm or digraph must be set")
	}

	rec := &store.Record{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if req.FSM != nil {
		if _, err := req.FSM.Build(req.Name); err != nil {
			return nil, err
		}
		rec.Kind = manifest.KindFSM
		rec.FSM = req.FSM
	} else {
		if _, err := req.Digraph.Build(req.Name); err != nil {
			return nil, err
		}
		rec.Kind = manifest.KindDigraph
		rec.Digraph = req.Digraph
	}
	return rec, nil
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	recs, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "list diagrams"))
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete diagram"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderSaved(w http.ResponseWriter, r *http.Request) {
	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var built *manifest.Built
	var format sink.Kind
	switch rec.Kind {
	case manifest.KindFSM:
		format = formatParam(r, sink.KindTeX)
		built, err = rec.FSM.Build(rec.Name)
	case manifest.KindDigraph:
		format = formatParam(r, sink.KindDOT)
		built, err = rec.Digraph.Build(rec.Name)
	default:
		err = errors.New(errors.ErrCodeInternal, "stored diagram %s has unknown kind %q", rec.ID, rec.Kind)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.renderAndReply(w, r, rec, built, format)
}

// renderAndReply renders a built diagram in the requested format, caching
// the produced markup. The cache key hashes the raw definition rather
// than the built diagram so that any change to the stored content misses.
func (s *Server) renderAndReply(w http.ResponseWriter, r *http.Request, def any, built *manifest.Built, format sink.Kind) {
	ctx := r.Context()

	key := cache.RenderKey(built.Kind, def, built.Shape, format)
	if data, ok, err := s.cfg.Cache.Get(ctx, key); err == nil && ok {
		writeJSON(w, http.StatusOK, renderResponse{Format: string(format), Output: string(data), Cached: true})
		return
	}

	shape := built.Shape
	if built.Kind == manifest.KindFSM && shape == nil {
		// Circular with derived radius when the definition picks nothing.
		shape = layout.Circle{}
	}

	out, err := sink.Render(ctx, built.Diagram, format, sink.Options{
		Shape:     shape,
		Converter: s.cfg.Converter,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.cfg.Cache.Set(ctx, key, []byte(out), cacheTTL); err != nil {
		s.cfg.Logger.Warn("cache write failed", "err", err)
	}
	writeJSON(w, http.StatusOK, renderResponse{Format: string(format), Output: out, Cached: false})
}

// formatParam reads the ?format= query parameter, falling back to def.
func formatParam(r *http.Request, def sink.Kind) sink.Kind {
	if f := r.URL.Query().Get("format"); f != "" {
		return sink.Kind(f)
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupportedShape),
		errors.Is(err, errors.ErrCodeIncompatibleRender),
		errors.Is(err, errors.ErrCodeUnsupportedOutput):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeRenderBackend):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]any{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
