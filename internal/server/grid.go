package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/multiview/multiview/internal/app"
	"github.com/multiview/multiview/internal/httputil"
	"github.com/multiview/multiview/internal/layout"
	"github.com/multiview/multiview/internal/page"
	"github.com/multiview/multiview/internal/urlstate"
	"github.com/multiview/multiview/internal/validate"
)

const (
	maxFormBytes = validate.MaxQueryLength + validate.MaxAddTextLength + 4096
	maxJSONBytes = 256 << 10
)

type commandsRequest struct {
	Query    string            `json:"query"`
	Commands []json.RawMessage `json:"commands"`
}

type sizeModeResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Fixed int    `json:"fixed,omitempty"`
}

// load builds a controller from a raw query. When hint is set and the query
// carries no viewport, one is guessed from the request's User-Agent.
func (s *Server) load(r *http.Request, rawQuery string, hint bool) (*app.Controller, []app.Diagnostic) {
	state, queryDiags := urlstate.Decode(rawQuery)
	if hint && (state.ViewportWidth == 0 || state.ViewportHeight == 0) {
		state.ViewportWidth, state.ViewportHeight = viewportHint(r.UserAgent())
	}

	c := app.NewController(app.Config{MaxVideos: s.cfg.MaxVideos})
	c.Load(state)

	diags := make([]app.Diagnostic, 0, len(queryDiags))
	for _, d := range queryDiags {
		diags = append(diags, app.Diagnostic{Op: "query", Message: d.String()})
	}
	return c, diags
}

func snapshotWith(c *app.Controller, diags []app.Diagnostic) app.Snapshot {
	snap := c.Snapshot()
	if len(diags) > 0 {
		snap.Diagnostics = append(diags, snap.Diagnostics...)
	}
	return snap
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, snap app.Snapshot, action, wallID string) {
	httputil.SetHTML(w)
	if err := page.Render(w, snap, page.Options{
		Nonce:         httputil.NonceFromContext(r.Context()),
		EmbedBase:     s.cfg.EmbedBaseURL,
		Action:        action,
		WallID:        wallID,
		SettingsDelay: s.cfg.SettingsDelay,
	}); err != nil {
		slog.Error("grid: failed to render page", "error", err)
	}
}

func (s *Server) handleGridPage(w http.ResponseWriter, r *http.Request) {
	if msg := validate.Query(r.URL.RawQuery); msg != "" {
		httputil.WriteError(w, http.StatusRequestURITooLong, msg)
		return
	}
	c, diags := s.load(r, r.URL.RawQuery, true)
	s.renderPage(w, r, snapshotWith(c, diags), "/grid/commands", "")
}

func (s *Server) handleGridForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid form")
		return
	}

	rawQuery := r.PostForm.Get("q")
	if msg := validate.Query(rawQuery); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	cmd, err := app.CommandFromForm(r.PostForm)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, _ := s.load(r, rawQuery, false)
	c.Dispatch(cmd)
	logDiagnostics(c.Diagnostics())

	http.Redirect(w, r, "/?"+c.Query(), http.StatusSeeOther)
}

func (s *Server) handleGridCommands(w http.ResponseWriter, r *http.Request) {
	var req commandsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validate.Query(req.Query); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	cmds, ok := decodeCommands(w, req.Commands)
	if !ok {
		return
	}

	c, diags := s.load(r, req.Query, false)
	c.Dispatch(cmds...)
	httputil.WriteJSON(w, http.StatusOK, snapshotWith(c, diags))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	n, err := queryInt(q.Get("n"), 0, s.cfg.MaxVideos)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "n: "+err.Error())
		return
	}
	vw, err := queryInt(q.Get("vw"), 0, urlstate.MaxDimension)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "vw: "+err.Error())
		return
	}
	vh, err := queryInt(q.Get("vh"), 0, urlstate.MaxDimension)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "vh: "+err.Error())
		return
	}

	mode := layout.DefaultSizeMode
	if raw := q.Get("size"); raw != "" {
		if mode, err = layout.ParseSizeMode(raw); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	httputil.WriteJSON(w, http.StatusOK, layout.Compute(n, mode, float64(vw), float64(vh)))
}

func (s *Server) handleSizeModes(w http.ResponseWriter, r *http.Request) {
	modes := layout.Modes()
	resp := make([]sizeModeResponse, 0, len(modes))
	for _, m := range modes {
		resp = append(resp, sizeModeResponse{Value: string(m), Label: m.Label(), Fixed: m.Fixed()})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLimits(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, validate.FieldLimits(s.cfg.MaxVideos))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(w, r, dst, maxJSONBytes); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		httputil.WriteError(w, status, err.Error())
		return false
	}
	return true
}

func decodeCommands(w http.ResponseWriter, raw []json.RawMessage) ([]app.Command, bool) {
	if msg := validate.Commands(len(raw)); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return nil, false
	}
	cmds := make([]app.Command, 0, len(raw))
	var details []string
	for i, data := range raw {
		cmd, err := app.DecodeCommand(data)
		if err != nil {
			details = append(details, fmt.Sprintf("command %d: %v", i, err))
			continue
		}
		cmds = append(cmds, cmd)
	}
	if len(details) > 0 {
		httputil.WriteErrors(w, http.StatusBadRequest, "invalid commands", details)
		return nil, false
	}
	return cmds, true
}

func queryInt(raw string, lo, hi int) (int, error) {
	if raw == "" {
		return lo, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("must be between %d and %d", lo, hi)
	}
	return n, nil
}

func logDiagnostics(diags []app.Diagnostic) {
	for _, d := range diags {
		slog.Debug("grid: command diagnostic", "op", d.Op, "message", d.Message)
	}
}
