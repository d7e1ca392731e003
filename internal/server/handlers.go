package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ppiankov/verinex/internal/app"
	"github.com/ppiankov/verinex/internal/logging"
	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/notify"
	"github.com/ppiankov/verinex/internal/pipeline"
	"github.com/ppiankov/verinex/internal/prefs"
	"github.com/ppiankov/verinex/internal/validate"
)

type verifyRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type verifyResponse struct {
	Report       *model.Report        `json:"report"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

type draftRequest struct {
	Text string `json:"text"`
}

type draftResponse struct {
	Text         string               `json:"text,omitempty"`
	Restored     bool                 `json:"restored"`
	LanguageHint string               `json:"language_hint,omitempty"`
	LimitReached bool                 `json:"limit_reached,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

type themeWire struct {
	Theme prefs.Theme `json:"theme"`
}

type shareResponse struct {
	Shared       bool                 `json:"shared"`
	Method       string               `json:"method,omitempty"`
	Text         string               `json:"text,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

type messageResponse struct {
	Notification *notify.Notification `json:"notification,omitempty"`
}

func (srv *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	srv.session(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(pageHTML)
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  srv.version,
		"sessions": srv.sessions.Len(),
	})
}

func (srv *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)
	ctx := logging.WithRequest(r.Context(), logging.RequestID(r.Context()), s.ID())

	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	report, err := srv.verify(ctx, s, req, nil)
	if err != nil {
		respondSessionError(w, s, statusFor(err), validate.Message(err))
		return
	}
	respondJSON(w, http.StatusOK, verifyResponse{Report: report, Notification: currentNotice(s)})
}

func (srv *Server) verify(ctx context.Context, s *app.Session, req verifyRequest, obs pipeline.Observer) (*model.Report, error) {
	if req.URL != "" {
		return s.VerifyURL(ctx, req.URL, obs)
	}
	return s.Verify(ctx, req.Text, obs)
}

// statusFor maps an analysis error to an HTTP status
func statusFor(err error) int {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, app.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusBadGateway
	}
}

func (srv *Server) handleNewCheck(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)
	if err := s.NewCheck(); err != nil {
		logging.C(r.Context()).Warn().Err(err).Msg("new check")
	}
	respondJSON(w, http.StatusOK, messageResponse{Notification: currentNotice(s)})
}

func (srv *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)
	out, ok := s.Share(r.Context())

	resp := shareResponse{Notification: currentNotice(s)}
	if ok && out.Err == nil {
		resp.Shared = true
		resp.Method = string(out.Method)
		resp.Text = out.Text
	}
	respondJSON(w, http.StatusOK, resp)
}

func (srv *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)
	respondJSON(w, http.StatusOK, themeWire{Theme: s.Theme()})
}

func (srv *Server) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)

	var req struct {
		Theme string `json:"theme"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	theme, err := prefs.ParseTheme(req.Theme)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.SetTheme(theme); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, themeWire{Theme: theme})
}

func (srv *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)
	theme, err := s.ToggleTheme()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, themeWire{Theme: theme})
}

func (srv *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, app.Examples())
}

func (srv *Server) handleLoadExample(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)

	idx, _ := strconv.Atoi(mux.Vars(r)["index"])
	ex, err := s.LoadExample(idx)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, struct {
		app.Example
		Notification *notify.Notification `json:"notification,omitempty"`
	}{ex, currentNotice(s)})
}

func (srv *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)

	var req draftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.SaveDraft(req.Text)

	resp := draftResponse{}
	if hint, ok := s.LanguageHint(req.Text); ok {
		resp.LanguageHint = hint
	}
	resp.LimitReached = s.LimitReached(req.Text)
	resp.Notification = currentNotice(s)
	respondJSON(w, http.StatusAccepted, resp)
}

func (srv *Server) handleRestoreDraft(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)

	text, ok := s.RestoreDraft()
	respondJSON(w, http.StatusOK, draftResponse{Text: text, Restored: ok, Notification: currentNotice(s)})
}

func (srv *Server) handleNotification(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)
	respondJSON(w, http.StatusOK, messageResponse{Notification: currentNotice(s)})
}
