package server

import (
	"encoding/json"
	"net/http"

	"github.com/ppiankov/verinex/internal/app"
	"github.com/ppiankov/verinex/internal/notify"
)

type errorWire struct {
	Error        string               `json:"error"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, errorWire{Error: message})
}

// respondSessionError includes the notification the session just raised
func respondSessionError(w http.ResponseWriter, s *app.Session, code int, message string) {
	respondJSON(w, code, errorWire{Error: message, Notification: currentNotice(s)})
}

func currentNotice(s *app.Session) *notify.Notification {
	n, ok := s.Notifications().Current()
	if !ok {
		return nil
	}
	return &n
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}
