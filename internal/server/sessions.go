package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/verinex/internal/app"
	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/prefs"
)

const sessionCookie = "verinex_session"

// Registry keeps one app.Session per browser, dropping idle ones
type Registry struct {
	sessions *gocache.Cache
	idle     time.Duration
	create   func(id string) *app.Session
	mu       sync.Mutex
}

// NewRegistry creates a registry; create builds a session for a new id
func NewRegistry(idle time.Duration, create func(id string) *app.Session) *Registry {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	c := gocache.New(idle, idle/2)
	c.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*app.Session); ok {
			s.Close()
		}
	})
	return &Registry{sessions: c, idle: idle, create: create}
}

// Lookup returns the session for id, creating it when unknown.
// Every lookup extends the idle expiry.
func (reg *Registry) Lookup(id string) *app.Session {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if id != "" {
		if v, ok := reg.sessions.Get(id); ok {
			s := v.(*app.Session)
			reg.sessions.Set(id, s, gocache.DefaultExpiration)
			return s
		}
	}

	s := reg.create(id)
	reg.sessions.Set(s.ID(), s, gocache.DefaultExpiration)
	return s
}

// Len returns the number of live sessions
func (reg *Registry) Len() int {
	return reg.sessions.ItemCount()
}

// Close flushes every session
func (reg *Registry) Close() {
	for _, item := range reg.sessions.Items() {
		if s, ok := item.Object.(*app.Session); ok {
			s.Close()
		}
	}
	reg.sessions.Flush()
}

// session resolves the caller's session from its cookie, setting one if missing
func (srv *Server) session(w http.ResponseWriter, r *http.Request) *app.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	s := srv.sessions.Lookup(id)
	if s.ID() != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    s.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

// newSessionFactory builds sessions whose preferences live under their id
func newSessionFactory(cfg *model.Config, store *prefs.CacheStore, deps app.Deps) func(string) *app.Session {
	return func(id string) *app.Session {
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		d := deps
		d.Store = store.WithPrefix("session:" + id + ":")
		return app.NewSessionWithID(id, cfg, d)
	}
}
