package handlers_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"promail/internal/account"
	"promail/internal/domain"
	"promail/internal/draft"
	"promail/internal/http/handlers"
	"promail/internal/http/httpapi"
	"promail/internal/infra"
	"promail/internal/store"
	"promail/internal/usage"
)

type scriptedDrafter struct {
	draft *domain.Draft
	err   error
}

func (s *scriptedDrafter) Draft(context.Context, domain.DraftRequest) (*domain.Draft, error) {
	return s.draft, s.err
}

type fixture struct {
	router  http.Handler
	store   *store.MemoryStore
	drafter *scriptedDrafter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ms := store.NewMemoryStore()
	logger := zerolog.Nop()
	accounts := account.NewManager(ms)
	recorder := usage.NewRecorder(ms, nil, logger, time.Millisecond)
	drafter := &scriptedDrafter{draft: &domain.Draft{Subject: "Hello", Body: "Dear [Name],"}}
	orchestrator := draft.NewOrchestrator(accounts, recorder, drafter, logger)
	app := handlers.NewApp(accounts, recorder, orchestrator, "test-secret", logger)
	cfg := &infra.Config{
		JWTSecret:       "test-secret",
		AllowedOrigins:  []string{"http://localhost:5173"},
		RateLimitPerMin: 10000,
	}
	return &fixture{
		router:  httpapi.NewRouter(app, cfg, logger),
		store:   ms,
		drafter: drafter,
	}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) signIn(t *testing.T, email string) (string, domain.User) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/v1/auth/signin", "", map[string]string{"email": email})
	if rec.Code != http.StatusOK {
		t.Fatalf("signin status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode signin response: %v", err)
	}
	return resp.Token, resp.User
}

func generateBody() map[string]string {
	return map[string]string{
		"description": "Follow up on last week's proposal",
		"language":    "English",
		"tone":        "Professional",
		"category":    "Follow-up",
	}
}

func TestSignInCreatesUserWithGrant(t *testing.T) {
	f := newFixture(t)
	_, user := f.signIn(t, "alice@example.com")
	if user.Points != 100 {
		t.Fatalf("Points = %d, want 100", user.Points)
	}
	if user.Email != "alice@example.com" || user.IsAdmin {
		t.Fatalf("user = %+v", user)
	}
}

func TestSignInRejectsMalformedEmail(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/auth/signin", "", map[string]string{"email": "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateDebitsAndBlocksWhenBroke(t *testing.T) {
	f := newFixture(t)
	token, _ := f.signIn(t, "alice@example.com")

	for i, want := range []int{70, 40, 10} {
		rec := f.do(t, http.MethodPost, "/v1/generate", token, generateBody())
		if rec.Code != http.StatusOK {
			t.Fatalf("generate #%d status = %d: %s", i+1, rec.Code, rec.Body.String())
		}
		var resp struct {
			Subject string      `json:"subject"`
			User    domain.User `json:"user"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode generate response: %v", err)
		}
		if resp.User.Points != want {
			t.Fatalf("generate #%d Points = %d, want %d", i+1, resp.User.Points, want)
		}
		if resp.Subject != "Hello" {
			t.Fatalf("Subject = %q", resp.Subject)
		}
	}

	rec := f.do(t, http.MethodPost, "/v1/generate", token, generateBody())
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("blocked generate status = %d, want 402: %s", rec.Code, rec.Body.String())
	}

	me := f.do(t, http.MethodGet, "/v1/me", token, nil)
	var user domain.User
	if err := json.Unmarshal(me.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if user.Points != 10 {
		t.Fatalf("Points after blocked request = %d, want 10", user.Points)
	}
}

func TestGenerateServiceFailureKeepsBalance(t *testing.T) {
	f := newFixture(t)
	token, _ := f.signIn(t, "alice@example.com")
	f.drafter.draft = nil
	f.drafter.err = errors.New("upstream exploded with secret details")

	rec := f.do(t, http.MethodPost, "/v1/generate", token, generateBody())
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("secret details")) {
		t.Fatalf("provider error leaked to the client: %s", rec.Body.String())
	}

	me := f.do(t, http.MethodGet, "/v1/me", token, nil)
	var user domain.User
	if err := json.Unmarshal(me.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if user.Points != 100 {
		t.Fatalf("Points = %d, want 100 (no charge on failure)", user.Points)
	}
}

func TestGenerateRequiresDescription(t *testing.T) {
	f := newFixture(t)
	token, _ := f.signIn(t, "alice@example.com")
	body := generateBody()
	body["description"] = "   "
	rec := f.do(t, http.MethodPost, "/v1/generate", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateRequiresToken(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/generate", "", generateBody())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestPurchaseCreditsExactPackPoints(t *testing.T) {
	f := newFixture(t)
	token, _ := f.signIn(t, "alice@example.com")

	rec := f.do(t, http.MethodPost, "/v1/purchase", token, map[string]string{"pack_id": "pro"})
	if rec.Code != http.StatusOK {
		t.Fatalf("purchase status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Pack domain.PointPack `json:"pack"`
		User domain.User      `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode purchase response: %v", err)
	}
	if resp.Pack.Points != 2000 {
		t.Fatalf("Pack.Points = %d, want 2000", resp.Pack.Points)
	}
	if resp.User.Points != 2100 {
		t.Fatalf("Points = %d, want 2100 (price must not affect the credit)", resp.User.Points)
	}
}

func TestPurchaseUnknownPack(t *testing.T) {
	f := newFixture(t)
	token, _ := f.signIn(t, "alice@example.com")
	rec := f.do(t, http.MethodPost, "/v1/purchase", token, map[string]string{"pack_id": "mega"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSignOutClearsUserButNotLogs(t *testing.T) {
	f := newFixture(t)
	token, _ := f.signIn(t, "alice@example.com")
	if rec := f.do(t, http.MethodPost, "/v1/generate", token, generateBody()); rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d", rec.Code)
	}

	if rec := f.do(t, http.MethodPost, "/v1/auth/signout", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("signout status = %d, want 204", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/v1/me", token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("me after signout status = %d, want 404", rec.Code)
	}
	if _, err := f.store.Get(context.Background(), store.UsageKey); err != nil {
		t.Fatalf("usage log must survive sign-out: %v", err)
	}

	// Signing back in starts a fresh grant.
	_, user := f.signIn(t, "alice@example.com")
	if user.Points != 100 {
		t.Fatalf("Points after re-signin = %d, want 100", user.Points)
	}
}

func TestVisitEndpointAppends(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 2; i++ {
		if rec := f.do(t, http.MethodPost, "/v1/visits", "", nil); rec.Code != http.StatusNoContent {
			t.Fatalf("visit status = %d, want 204", rec.Code)
		}
	}
	token, _ := f.signIn(t, domain.AdminEmail)
	rec := f.do(t, http.MethodGet, "/v1/admin/stats", token, nil)
	var stats struct {
		TotalVisits int `json:"total_visits"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalVisits != 2 {
		t.Fatalf("TotalVisits = %d, want 2", stats.TotalVisits)
	}
}

func TestAdminStatsAggregates(t *testing.T) {
	f := newFixture(t)

	aliceToken, _ := f.signIn(t, "alice@example.com")
	bobToken, _ := f.signIn(t, "bob@example.com")
	requests := []struct {
		token string
		lang  string
		tone  string
	}{
		{aliceToken, "Arabic", "Formal"},
		{bobToken, "English", "Professional"},
		{aliceToken, "Arabic", "Formal"},
	}
	for i, g := range requests {
		body := generateBody()
		body["language"] = g.lang
		body["tone"] = g.tone
		if rec := f.do(t, http.MethodPost, "/v1/generate", g.token, body); rec.Code != http.StatusOK {
			t.Fatalf("generate #%d status = %d", i+1, rec.Code)
		}
	}

	adminToken, _ := f.signIn(t, "admin@promail.ai")
	rec := f.do(t, http.MethodGet, "/v1/admin/stats", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d: %s", rec.Code, rec.Body.String())
	}
	var stats struct {
		TotalGenerations int `json:"total_generations"`
		UniqueUsers      int `json:"unique_users"`
		TopCombinations  []struct {
			Label string `json:"label"`
			Count int    `json:"count"`
		} `json:"top_combinations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalGenerations != 3 || stats.UniqueUsers != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(stats.TopCombinations) != 2 || stats.TopCombinations[0].Label != "Arabic - Formal" || stats.TopCombinations[0].Count != 2 {
		t.Fatalf("TopCombinations = %+v", stats.TopCombinations)
	}
}

func TestAdminStatsForbiddenForRegularUser(t *testing.T) {
	f := newFixture(t)
	token, _ := f.signIn(t, "alice@example.com")
	rec := f.do(t, http.MethodGet, "/v1/admin/stats", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestAdminSignInGetsAdminFlag(t *testing.T) {
	f := newFixture(t)
	_, user := f.signIn(t, "admin@promail.ai")
	if !user.IsAdmin {
		t.Fatalf("admin identity must get IsAdmin, got %+v", user)
	}
}

func TestAdminExportArchivesLogs(t *testing.T) {
	f := newFixture(t)
	token, _ := f.signIn(t, "alice@example.com")
	if rec := f.do(t, http.MethodPost, "/v1/generate", token, generateBody()); rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d", rec.Code)
	}

	adminToken, _ := f.signIn(t, domain.AdminEmail)
	rec := f.do(t, http.MethodGet, "/v1/admin/export", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("Content-Type = %q", ct)
	}

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	names := make(map[string]bool, len(zr.File))
	for _, file := range zr.File {
		names[file.Name] = true
	}
	if !names["usage.json"] || !names["visits.json"] {
		t.Fatalf("archive entries = %v", names)
	}

	if rec := f.do(t, http.MethodGet, "/v1/admin/export", token, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin export status = %d, want 403", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/v1/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDailyResetOnNextLoad(t *testing.T) {
	f := newFixture(t)
	token, _ := f.signIn(t, "alice@example.com")
	if rec := f.do(t, http.MethodPost, "/v1/generate", token, generateBody()); rec.Code != http.StatusOK {
		t.Fatalf("generate failed")
	}

	// Age the stored record by a day, then load through /v1/me.
	key := store.UserKey("alice@example.com")
	raw, err := f.store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	user.LastResetDate = domain.DayString(time.Now().AddDate(0, 0, -1))
	aged, _ := json.Marshal(user)
	if err := f.store.Put(context.Background(), key, aged); err != nil {
		t.Fatalf("write record: %v", err)
	}

	me := f.do(t, http.MethodGet, "/v1/me", token, nil)
	var reloaded domain.User
	if err := json.Unmarshal(me.Body.Bytes(), &reloaded); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if reloaded.Points != 100 {
		t.Fatalf("Points after reset = %d, want 100", reloaded.Points)
	}
	if reloaded.LastResetDate != domain.DayString(time.Now()) {
		t.Fatalf("LastResetDate = %q, want today", reloaded.LastResetDate)
	}
}
