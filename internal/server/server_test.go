package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ppiankov/verinex/internal/app"
	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/pipeline"
	"github.com/ppiankov/verinex/internal/prefs"
	"github.com/ppiankov/verinex/internal/telemetry"
)

const newsText = "Segundo a universidade federal, o estudo sobre o consumo de água mostra que houve queda de dez por cento em todo o último ano nas cidades do interior."

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.HTTP.RespectRobots = false
	cfg.Analysis.DraftDebounce = 10 * time.Millisecond
	cfg.RateLimiting.RequestsPerSecond = 0
	return cfg
}

func newTestServer(t *testing.T, cfg *model.Config) *httptest.Server {
	t.Helper()
	srv := New(cfg, Options{
		Pipeline:  pipeline.NewPipeline(cfg, pipeline.WithScheduler(pipeline.NoDelay{})),
		Store:     prefs.NewMemoryStore(),
		Telemetry: telemetry.Nop{},
		Version:   "test",
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body interface{}, out interface{}) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

type noticeWire struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, testConfig())

	var body map[string]interface{}
	code := doJSON(t, newClient(t), http.MethodGet, ts.URL+"/healthz", nil, &body)
	if code != http.StatusOK || body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("Unexpected health response %d %v", code, body)
	}
}

func TestServer_Page(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, err := newClient(t).Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("Expected HTML, got %q", resp.Header.Get("Content-Type"))
	}
	if resp.Header.Get(headerRequestID) == "" {
		t.Error("Expected a request id header")
	}
	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("Expected a session cookie")
	}
}

func TestServer_Verify(t *testing.T) {
	ts := newTestServer(t, testConfig())
	c := newClient(t)

	var resp struct {
		Report       *model.Report `json:"report"`
		Notification *noticeWire   `json:"notification"`
	}
	code := doJSON(t, c, http.MethodPost, ts.URL+"/api/verify", verifyRequest{Text: newsText}, &resp)
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if resp.Report == nil || resp.Report.Analysis.FinalPercentage < 0 || resp.Report.Analysis.FinalPercentage > 100 {
		t.Fatalf("Unexpected report %+v", resp.Report)
	}
	if resp.Notification == nil || resp.Notification.Kind != "success" {
		t.Errorf("Expected success notification, got %+v", resp.Notification)
	}
}

func TestServer_VerifyTooShort(t *testing.T) {
	ts := newTestServer(t, testConfig())

	var resp struct {
		Error        string      `json:"error"`
		Notification *noticeWire `json:"notification"`
	}
	code := doJSON(t, newClient(t), http.MethodPost, ts.URL+"/api/verify", verifyRequest{Text: "curto"}, &resp)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", code)
	}
	if !strings.Contains(resp.Error, "pelo menos 50 caracteres") {
		t.Errorf("Unexpected error %q", resp.Error)
	}
	if resp.Notification == nil || resp.Notification.Kind != "error" {
		t.Errorf("Expected error notification, got %+v", resp.Notification)
	}
}

func TestServer_VerifyRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimiting.RequestsPerSecond = 0.001
	cfg.RateLimiting.BurstSize = 1
	ts := newTestServer(t, cfg)
	c := newClient(t)

	if code := doJSON(t, c, http.MethodPost, ts.URL+"/api/verify", verifyRequest{Text: newsText}, nil); code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", code)
	}
	if code := doJSON(t, c, http.MethodPost, ts.URL+"/api/verify", verifyRequest{Text: newsText}, nil); code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", code)
	}
	if code := doJSON(t, c, http.MethodGet, ts.URL+"/api/theme", nil, nil); code != http.StatusOK {
		t.Errorf("Expected other routes unaffected, got %d", code)
	}
}

func TestServer_ThemePerSession(t *testing.T) {
	ts := newTestServer(t, testConfig())
	a, b := newClient(t), newClient(t)

	var theme themeWire
	doJSON(t, a, http.MethodGet, ts.URL+"/api/theme", nil, &theme)
	if theme.Theme != prefs.ThemeLight {
		t.Fatalf("Expected light default, got %s", theme.Theme)
	}

	doJSON(t, a, http.MethodPost, ts.URL+"/api/theme/toggle", nil, &theme)
	if theme.Theme != prefs.ThemeDark {
		t.Fatalf("Expected dark after toggle, got %s", theme.Theme)
	}

	doJSON(t, a, http.MethodGet, ts.URL+"/api/theme", nil, &theme)
	if theme.Theme != prefs.ThemeDark {
		t.Errorf("Expected dark to persist for the session, got %s", theme.Theme)
	}

	doJSON(t, b, http.MethodGet, ts.URL+"/api/theme", nil, &theme)
	if theme.Theme != prefs.ThemeLight {
		t.Errorf("Expected other session to stay light, got %s", theme.Theme)
	}

	if code := doJSON(t, a, http.MethodPut, ts.URL+"/api/theme", map[string]string{"theme": "sepia"}, nil); code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for unknown theme, got %d", code)
	}
	doJSON(t, a, http.MethodPut, ts.URL+"/api/theme", map[string]string{"theme": "light"}, &theme)
	if theme.Theme != prefs.ThemeLight {
		t.Errorf("Expected light after PUT, got %s", theme.Theme)
	}
}

func TestServer_Examples(t *testing.T) {
	ts := newTestServer(t, testConfig())
	c := newClient(t)

	var list []map[string]interface{}
	doJSON(t, c, http.MethodGet, ts.URL+"/api/examples", nil, &list)
	if len(list) != 3 {
		t.Fatalf("Expected 3 examples, got %d", len(list))
	}

	var ex struct {
		Text         string      `json:"text"`
		Notification *noticeWire `json:"notification"`
	}
	if code := doJSON(t, c, http.MethodPost, ts.URL+"/api/examples/2", nil, &ex); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if !strings.HasPrefix(ex.Text, "ALERTA:") || ex.Notification == nil {
		t.Errorf("Unexpected example response %+v", ex)
	}

	if code := doJSON(t, c, http.MethodPost, ts.URL+"/api/examples/7", nil, nil); code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", code)
	}
}

func TestServer_Share(t *testing.T) {
	ts := newTestServer(t, testConfig())
	c := newClient(t)

	var resp struct {
		Shared       bool        `json:"shared"`
		Method       string      `json:"method"`
		Text         string      `json:"text"`
		Notification *noticeWire `json:"notification"`
	}
	doJSON(t, c, http.MethodPost, ts.URL+"/api/share", nil, &resp)
	if resp.Shared || resp.Notification == nil || resp.Notification.Kind != "warning" {
		t.Fatalf("Expected warning with nothing to share, got %+v", resp)
	}

	doJSON(t, c, http.MethodPost, ts.URL+"/api/verify", verifyRequest{Text: newsText}, nil)

	doJSON(t, c, http.MethodPost, ts.URL+"/api/share", nil, &resp)
	if !resp.Shared || resp.Method != "clipboard" {
		t.Fatalf("Expected clipboard share, got %+v", resp)
	}
	if !strings.HasPrefix(resp.Text, "Verifiquei uma notícia no VERINEX: ") {
		t.Errorf("Unexpected share text %q", resp.Text)
	}

	var cleared struct {
		Notification *noticeWire `json:"notification"`
	}
	doJSON(t, c, http.MethodPost, ts.URL+"/api/new-check", nil, &cleared)
	if cleared.Notification == nil || cleared.Notification.Message != "Pronto para nova análise!" {
		t.Errorf("Unexpected new-check notification %+v", cleared.Notification)
	}
}

func TestServer_Draft(t *testing.T) {
	ts := newTestServer(t, testConfig())
	c := newClient(t)

	draft := strings.Repeat("The draft is written in English for this case. ", 4)

	var saved struct {
		LanguageHint string `json:"language_hint"`
	}
	if code := doJSON(t, c, http.MethodPost, ts.URL+"/api/draft", draftRequest{Text: draft}, &saved); code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", code)
	}
	if saved.LanguageHint == "" {
		t.Error("Expected a language hint for English draft")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var restored struct {
			Text     string `json:"text"`
			Restored bool   `json:"restored"`
		}
		doJSON(t, c, http.MethodGet, ts.URL+"/api/draft", nil, &restored)
		if restored.Restored {
			if restored.Text != draft {
				t.Errorf("Expected saved draft, got %q", restored.Text)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Expected draft to be saved after the debounce")
}

func TestServer_VerifyStream(t *testing.T) {
	ts := newTestServer(t, testConfig())

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/verify/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.WriteJSON(verifyRequest{Text: newsText}); err != nil {
		t.Fatal(err)
	}

	var types []string
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		types = append(types, msg.Type)
		if msg.Type == msgDone || msg.Type == msgError {
			break
		}
	}

	if types[len(types)-1] != msgDone {
		t.Fatalf("Expected stream to end with done, got %v", types)
	}
	if types[0] != msgLog {
		t.Errorf("Expected log lines first, got %v", types)
	}
	// result is revealed right before the final log line
	if types[len(types)-3] != msgResult || types[len(types)-2] != msgLog {
		t.Errorf("Unexpected tail of stream %v", types[len(types)-3:])
	}

	// a second request on the same socket reports validation errors
	if err := conn.WriteJSON(verifyRequest{Text: "curto"}); err != nil {
		t.Fatal(err)
	}
	var msg struct {
		Type string `json:"type"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != msgError {
		t.Errorf("Expected error message, got %s", msg.Type)
	}
}

func TestRecoverJSON(t *testing.T) {
	h := requestID(recoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var body panicWire
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.RequestID == "" || body.RequestID != rec.Header().Get(headerRequestID) {
		t.Errorf("Expected request id echoed, got %+v", body)
	}
}

func TestAccessLog_CapturesStatus(t *testing.T) {
	var captured *captureWriter
	h := accessLog(time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = w.(*captureWriter)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("chá"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if captured.status != http.StatusTeapot || captured.bytes != len("chá") {
		t.Errorf("Unexpected capture %d/%d", captured.status, captured.bytes)
	}
}

func TestRegistry_ReplacesInvalidIDs(t *testing.T) {
	cfg := testConfig()
	reg := NewRegistry(time.Minute, newSessionFactory(cfg, prefs.NewMemoryStore(), appDepsForTest(cfg)))

	s := reg.Lookup("not-a-uuid")
	if s.ID() == "not-a-uuid" {
		t.Error("Expected invalid id to be replaced")
	}
	if again := reg.Lookup(s.ID()); again != s {
		t.Error("Expected the same session for a known id")
	}
	if reg.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", reg.Len())
	}
}

func appDepsForTest(cfg *model.Config) app.Deps {
	return app.Deps{Pipeline: pipeline.NewPipeline(cfg, pipeline.WithScheduler(pipeline.NoDelay{}))}
}
