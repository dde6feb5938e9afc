package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/multiview/multiview/internal/app"
	"github.com/multiview/multiview/internal/httputil"
	"github.com/multiview/multiview/internal/urlstate"
	"github.com/multiview/multiview/internal/validate"
	"github.com/multiview/multiview/internal/wall"
)

const wallRequestTimeout = 5 * time.Second

type createWallRequest struct {
	Query string `json:"query"`
}

type createWallResponse struct {
	ID        string       `json:"id"`
	URL       string       `json:"url"`
	CreatedAt time.Time    `json:"createdAt"`
	State     app.Snapshot `json:"state"`
}

type wallStateResponse struct {
	app.Snapshot
	CreatedAt time.Time `json:"createdAt"`
	Clients   int       `json:"clients"`
}

type wallCommandsRequest struct {
	Commands []json.RawMessage `json:"commands"`
}

type wallPlayerRequest struct {
	Action string  `json:"action"`
	Slot   *int    `json:"slot,omitempty"`
	Offset float64 `json:"offset,omitempty"`
}

func (s *Server) wallURL(id string) string {
	return s.cfg.BaseURL + "/walls/" + id
}

// session resolves the {id} URL parameter, writing a 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*wall.Session, bool) {
	sess, err := s.walls.Get(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "wall not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, sess *wall.Session, cmds ...app.Command) (app.Snapshot, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), wallRequestTimeout)
	defer cancel()

	snap, err := sess.Submit(ctx, cmds...)
	switch {
	case err == nil:
		return snap, true
	case errors.Is(err, wall.ErrClosed):
		httputil.WriteError(w, http.StatusGone, "wall closed")
	case errors.Is(err, context.DeadlineExceeded):
		httputil.WriteError(w, http.StatusServiceUnavailable, "wall busy")
	default:
		slog.Error("wall: submit failed", "wall_id", sess.ID(), "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to apply commands")
	}
	return app.Snapshot{}, false
}

func (s *Server) handleCreateWall(w http.ResponseWriter, r *http.Request) {
	var req createWallRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validate.Query(req.Query); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	state, diags := urlstate.Decode(req.Query)
	if len(diags) > 0 {
		details := make([]string, 0, len(diags))
		for _, d := range diags {
			details = append(details, d.String())
		}
		httputil.WriteErrors(w, http.StatusBadRequest, "invalid query", details)
		return
	}

	sess := s.walls.Create(state)
	snap, ok := s.submit(w, r, sess)
	if !ok {
		return
	}
	w.Header().Set("Location", "/walls/"+sess.ID())
	httputil.WriteJSON(w, http.StatusCreated, createWallResponse{
		ID:        sess.ID(),
		URL:       s.wallURL(sess.ID()),
		CreatedAt: sess.Created(),
		State:     snap,
	})
}

func (s *Server) handleWallState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if snap, ok := s.submit(w, r, sess); ok {
		httputil.WriteJSON(w, http.StatusOK, wallStateResponse{
			Snapshot:  snap,
			CreatedAt: sess.Created(),
			Clients:   sess.Clients(),
		})
	}
}

func (s *Server) handleDeleteWall(w http.ResponseWriter, r *http.Request) {
	if !s.walls.Remove(chi.URLParam(r, "id")) {
		httputil.WriteError(w, http.StatusNotFound, "wall not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWallCommands(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req wallCommandsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cmds, ok := decodeCommands(w, req.Commands)
	if !ok {
		return
	}
	if snap, ok := s.submit(w, r, sess, cmds...); ok {
		httputil.WriteJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) handleWallPlayer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req wallPlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cmd, err := app.Wire{Op: "player", Action: req.Action, Slot: req.Slot, Offset: req.Offset}.Command()
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := s.submit(w, r, sess, cmd); ok {
		w.WriteHeader(http.StatusAccepted)
	}
}

func (s *Server) handleWallPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, ok := s.submit(w, r, sess)
	if !ok {
		return
	}
	s.renderPage(w, r, snap, "/walls/"+sess.ID()+"/commands", sess.ID())
}

func (s *Server) handleWallForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid form")
		return
	}
	cmd, err := app.CommandFromForm(r.PostForm)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, ok := s.submit(w, r, sess, cmd)
	if !ok {
		return
	}
	logDiagnostics(snap.Diagnostics)
	http.Redirect(w, r, "/walls/"+sess.ID(), http.StatusSeeOther)
}

func (s *Server) handleWallSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.ServeWS(w, r)
}
