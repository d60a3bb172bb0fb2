package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aretw0/flowboard/internal/lint"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/editor"
	"github.com/aretw0/flowboard/pkg/submit"
	"github.com/go-chi/chi/v5"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 4 << 20

type badRequest struct{ err error }

func (e badRequest) Error() string { return "invalid request body: " + e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

// decode reads a JSON body into v and runs its validate tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(v); err != nil {
		return badRequest{err}
	}
	return s.validate.Struct(v)
}

// session opens the session named in the URL and attaches it to the event stream.
func (s *Server) session(r *http.Request) (*editor.Session, string, error) {
	sid := chi.URLParam(r, "sid")
	sess, err := s.Sessions.Open(r.Context(), sid)
	if err != nil {
		return nil, sid, err
	}
	s.attach(sid, sess)
	return sess, sid, nil
}

// ListSessions handles GET /api/sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// DeleteSession handles DELETE /api/sessions/{sid}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := s.Sessions.Delete(r.Context(), sid); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.detach(sid)
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles GET /api/sessions/{sid}/graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Graph())
}

// ReplaceGraph handles PUT /api/sessions/{sid}/graph and answers with what changed.
func (s *Server) ReplaceGraph(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var g domain.Graph
	if err := s.decode(w, r, &g); err != nil {
		s.writeError(w, r, err)
		return
	}

	before := sess.Graph()
	if err := sess.Load(g); err != nil {
		s.writeError(w, r, err)
		return
	}
	after := sess.Graph()
	writeJSON(w, http.StatusOK, replaceResponse{Graph: after, Diff: domain.Diff(&before, &after)})
}

// LintGraph handles GET /api/sessions/{sid}/lint.
func (s *Server) LintGraph(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report := lint.Graph(sess.Graph(), sess.Registry())
	if report.Issues == nil {
		report.Issues = []lint.Issue{}
	}
	writeJSON(w, http.StatusOK, report)
}

// DropNode handles POST /api/sessions/{sid}/nodes.
func (s *Server) DropNode(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req dropRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rn, err := sess.Drop(req.DropPayload, req.Position)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rn)
}

// RenderNode handles GET /api/sessions/{sid}/nodes/{id}.
func (s *Server) RenderNode(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rn, err := sess.Render(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rn)
}

// SetField handles PUT /api/sessions/{sid}/nodes/{id}/fields/{key}.
func (s *Server) SetField(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req fieldRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := sess.SetField(id, chi.URLParam(r, "key"), req.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	rn, err := sess.Render(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rn)
}

// ApplyNodeChanges handles POST /api/sessions/{sid}/nodes/changes.
func (s *Server) ApplyNodeChanges(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req nodeChangesRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, changesResponse{Applied: sess.ApplyChanges(req.Changes)})
}

// Connect handles POST /api/sessions/{sid}/edges.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req domain.Connection
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := sess.Connect(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// ApplyEdgeChanges handles POST /api/sessions/{sid}/edges/changes.
func (s *Server) ApplyEdgeChanges(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req edgeChangesRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, changesResponse{Applied: sess.ApplyEdgeChanges(req.Changes)})
}

// Submit handles POST /api/sessions/{sid}/submit.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := sess.Submit(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{PipelineResult: res, Summary: submit.Summary(res)})
}

// Save handles POST /api/sessions/{sid}/save.
func (s *Server) Save(w http.ResponseWriter, r *http.Request) {
	_, sid, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Sessions.Save(r.Context(), sid); err != nil {
		s.writeError(w, r, fmt.Errorf("save session %q: %w", sid, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
