package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"faction-hub/internal/adapters/storage/memory"
	"faction-hub/internal/config"
	"faction-hub/internal/core/domain"
	"faction-hub/internal/core/services/ledger"
	"faction-hub/internal/core/services/scoreboard"
	"faction-hub/internal/core/services/wars"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

var testNow = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

type testAPI struct {
	handler http.Handler
	store   *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	clock := func() time.Time { return testNow }
	cfg := &config.Config{
		JWTSecret:       testSecret,
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
		MemberWarPolicy: config.MemberWarPolicyCoerce,
		OwnerEditWindow: 24 * time.Hour,
	}

	store := memory.NewStore()
	store.AddMember(domain.Member{DiscordID: "admin-1", Username: "boss", Role: domain.RoleAdmin})
	store.AddMember(domain.Member{DiscordID: "member-1", Username: "grunt", Role: domain.RoleMember})

	warSvc := wars.NewService(wars.Dependencies{Config: cfg, Repository: store, Clock: clock})
	server := NewServer(Dependencies{
		Config:     cfg,
		Wars:       warSvc,
		Ledger:     ledger.NewService(ledger.Dependencies{Config: cfg, Repository: store, Wars: warSvc, Clock: clock}),
		Scoreboard: scoreboard.NewService(scoreboard.Dependencies{Repository: store, Wars: warSvc}),
		Members:    store,
		Clock:      clock,
	})
	return &testAPI{handler: server.Handler(), store: store}
}

func signToken(t *testing.T, subject string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "203.0.113.7:4000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestServer_Health(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestServer_WarLifecycle(t *testing.T) {
	api := newTestAPI(t)
	admin := signToken(t, "admin-1", testNow.Add(time.Hour))
	member := signToken(t, "member-1", testNow.Add(time.Hour))

	rec := api.do(t, http.MethodPost, "/api/wars", member, map[string]any{"enemyFaction": "Ballas", "warType": "uncontrolled"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	war := decode[domain.War](t, rec)
	if war.Status != domain.WarActive || war.Level != domain.NonLethal {
		t.Fatalf("unexpected war %+v", war)
	}

	rec = api.do(t, http.MethodGet, "/api/wars/"+war.Slug, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get by slug: expected 200, got %d", rec.Code)
	}

	rec = api.do(t, http.MethodGet, "/api/wars?status=active", "", nil)
	list := decode[struct{ Wars []domain.War }](t, rec)
	if len(list.Wars) != 1 {
		t.Fatalf("expected one active war, got %+v", list.Wars)
	}

	rec = api.do(t, http.MethodPost, "/api/wars/"+war.ID+"/logs", member, map[string]any{
		"type":          "attack",
		"occurredAt":    testNow.Add(time.Minute),
		"participants":  []string{"Carl Johnson"},
		"playersKilled": []string{"Big Smoke"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("append: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	appended := decode[ledger.AppendResult](t, rec)
	if !appended.FirstLog || !appended.WarLevelChangedToLethal || appended.War.Level != domain.Lethal {
		t.Errorf("expected first lethal log, got %+v", appended)
	}

	rec = api.do(t, http.MethodGet, "/api/wars/"+war.ID+"/has-kills", "", nil)
	if got := decode[map[string]bool](t, rec); !got["hasKills"] {
		t.Errorf("expected hasKills, got %s", rec.Body)
	}

	rec = api.do(t, http.MethodGet, "/api/wars/"+war.ID+"/scoreboard", "", nil)
	board := decode[scoreboard.Board](t, rec)
	if board.EnemyKills != 1 || len(board.Entries) != 1 {
		t.Errorf("unexpected scoreboard %+v", board)
	}

	rec = api.do(t, http.MethodPatch, "/api/wars/"+war.ID, admin, map[string]any{"warLevel": "non-lethal"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("downgrade with kills: expected 409, got %d: %s", rec.Code, rec.Body)
	}
	conflict := decode[errorBody](t, rec)
	if conflict.War == nil || conflict.War.Level != domain.Lethal {
		t.Errorf("expected current war in conflict body, got %+v", conflict)
	}

	rec = api.do(t, http.MethodDelete, "/api/logs/"+appended.Log.ID, admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = api.do(t, http.MethodPost, "/api/wars/"+war.ID+"/end", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("end: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if ended := decode[domain.War](t, rec); ended.Status != domain.WarEnded {
		t.Errorf("expected ENDED, got %s", ended.Status)
	}
}

func TestServer_ErrorMapping(t *testing.T) {
	api := newTestAPI(t)
	member := signToken(t, "member-1", testNow.Add(time.Hour))
	expired := signToken(t, "member-1", testNow.Add(-time.Hour))

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"anonymous create", http.MethodPost, "/api/wars", "", map[string]any{"enemyFaction": "Ballas"}, http.StatusUnauthorized},
		{"expired token", http.MethodGet, "/api/wars", expired, nil, http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/wars", "not-a-jwt", nil, http.StatusUnauthorized},
		{"member ends war", http.MethodPost, "/api/wars/missing/end", member, nil, http.StatusForbidden},
		{"unknown war", http.MethodGet, "/api/wars/missing", "", nil, http.StatusNotFound},
		{"bad status filter", http.MethodGet, "/api/wars?status=paused", "", nil, http.StatusUnprocessableEntity},
		{"invalid war type", http.MethodPost, "/api/wars", member, map[string]any{"enemyFaction": "Ballas", "warType": "total"}, http.StatusUnprocessableEntity},
		{"unknown field", http.MethodPost, "/api/wars", member, map[string]any{"faction": "Ballas"}, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/nothing", "", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, tt.token, tt.body)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body)
			}
		})
	}
}

func TestServer_ValidationProblemsListed(t *testing.T) {
	api := newTestAPI(t)
	member := signToken(t, "member-1", testNow.Add(time.Hour))

	rec := api.do(t, http.MethodPost, "/api/wars", member, map[string]any{"enemyFaction": "Ballas"})
	war := decode[domain.War](t, rec)

	rec = api.do(t, http.MethodPost, "/api/wars/"+war.ID+"/logs", member, map[string]any{
		"type":          "ambush",
		"participants":  []string{"carl"},
		"playersKilled": []string{"@x"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body)
	}
	body := decode[errorBody](t, rec)
	fields := map[string]bool{}
	for _, p := range body.Problems {
		fields[p.Field] = true
	}
	for _, want := range []string{"type", "occurredAt", "participants[0]", "playersKilled[0]"} {
		if !fields[want] {
			t.Errorf("expected problem for %s, got %+v", want, body.Problems)
		}
	}
}

func TestServer_Regulations(t *testing.T) {
	api := newTestAPI(t)
	admin := signToken(t, "admin-1", testNow.Add(time.Hour))
	member := signToken(t, "member-1", testNow.Add(time.Hour))
	regs := domain.Regulations{CooldownHours: 2, MaxParticipants: 6}

	if rec := api.do(t, http.MethodPut, "/api/regulations", member, regs); rec.Code != http.StatusForbidden {
		t.Errorf("member PUT: expected 403, got %d", rec.Code)
	}
	if rec := api.do(t, http.MethodPut, "/api/regulations", admin, regs); rec.Code != http.StatusOK {
		t.Fatalf("admin PUT: expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec := api.do(t, http.MethodGet, "/api/regulations", "", nil)
	if got := decode[domain.Regulations](t, rec); got.MaxParticipants != 6 || got.CooldownHours != 2 {
		t.Errorf("unexpected regulations %+v", got)
	}
}

func TestServer_CORS(t *testing.T) {
	cfg := &config.Config{CORSOrigins: []string{"https://hub.example.com"}}
	policy := corsPolicy(cfg.CORSOrigins)
	handler := policy.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://hub.example.com", true},
		{"https://evil.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/wars", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			got := rec.Header().Get("Access-Control-Allow-Origin") == tt.origin
			if got != tt.allowed {
				t.Errorf("allowed = %v, want %v", got, tt.allowed)
			}
		})
	}

	closed := corsPolicy(nil).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/api/wars", nil)
	req.Header.Set("Origin", "https://hub.example.com")
	rec := httptest.NewRecorder()
	closed.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("expected no CORS grant without configured origins")
	}
}

func TestServer_GuildMemberCanMutate(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret, RateLimitRPS: 1000, RateLimitBurst: 1000, MemberWarPolicy: config.MemberWarPolicyCoerce}
	store := memory.NewStore()
	dir := &mockDirectory{listFunc: func(ctx context.Context) ([]domain.Member, error) {
		return []domain.Member{{DiscordID: "guild-1", Username: "lead", Role: domain.RoleLeader}}, nil
	}}
	clock := func() time.Time { return testNow }
	warSvc := wars.NewService(wars.Dependencies{Config: cfg, Repository: store, Clock: clock})
	api := &testAPI{store: store, handler: NewServer(Dependencies{
		Config:     cfg,
		Wars:       warSvc,
		Ledger:     ledger.NewService(ledger.Dependencies{Config: cfg, Repository: store, Wars: warSvc, Clock: clock}),
		Scoreboard: scoreboard.NewService(scoreboard.Dependencies{Repository: store, Wars: warSvc}),
		Members:    store,
		Directory:  dir,
		Clock:      clock,
	}).Handler()}

	rec := api.do(t, http.MethodPost, "/api/wars", signToken(t, "guild-1", testNow.Add(time.Hour)), map[string]any{"enemyFaction": "Ballas", "warType": "uncontrolled", "warLevel": "lethal"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for a guild leader missing from the members table, got %d: %s", rec.Code, rec.Body)
	}
	if war := decode[domain.War](t, rec); war.Level != domain.Lethal {
		t.Errorf("expected privileged create to keep LETHAL, got %s", war.Level)
	}
}
