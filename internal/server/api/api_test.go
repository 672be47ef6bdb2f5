package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/fitness-client/internal/server"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	t   *testing.T
	srv *server.Server
}

func newHarness(t *testing.T) *harness {
	return &harness{t: t, srv: server.New("test-secret", time.Hour)}
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			h.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.srv.Router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (h *harness) signup(name, email string) session {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		h.t.Fatalf("signup: %d %s", rec.Code, rec.Body.String())
	}
	return decode[session](h.t, rec)
}

func TestSignupLoginAndMe(t *testing.T) {
	h := newHarness(t)
	s := h.signup("Ann", "ann@example.com")
	if s.Token == "" || s.User.ID == "" {
		t.Fatalf("unexpected session %+v", s)
	}

	rec := h.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "secret123",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", rec.Code)
	}

	rec = h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ann@example.com", "password": "nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", rec.Code)
	}

	rec = h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ann@example.com", "password": "secret123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	login := decode[session](t, rec)

	rec = h.do(http.MethodGet, "/api/users/me", login.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d", rec.Code)
	}
	if me := decode[map[string]any](t, rec); me["email"] != "ann@example.com" {
		t.Fatalf("unexpected me %v", me)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newHarness(t)
	for _, tc := range []struct{ method, path, token string }{
		{http.MethodGet, "/api/groups", ""},
		{http.MethodGet, "/api/workouts", "not-a-jwt"},
		{http.MethodPost, "/api/training-contracts/hire", ""},
	} {
		rec := h.do(tc.method, tc.path, tc.token, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
		if body := decode[map[string]string](t, rec); body["error"] == "" {
			t.Errorf("%s %s: expected error message", tc.method, tc.path)
		}
	}
}

func TestRequestIDEchoed(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.srv.Router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	rec = h.do(http.MethodGet, "/ping", "", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected generated request id")
	}
}

func TestGroupDetailExpandsMembers(t *testing.T) {
	h := newHarness(t)
	org := h.signup("Org", "org@example.com")
	member := h.signup("Mem", "mem@example.com")

	rec := h.do(http.MethodPost, "/api/groups", org.Token, map[string]any{
		"name": "Runners", "sport": "running", "location": "Riverside",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	created := decode[map[string]any](t, rec)
	id := created["id"].(string)
	if created["organizer"] != org.User.ID {
		t.Fatalf("list shape should carry organizer id, got %v", created["organizer"])
	}

	if rec := h.do(http.MethodPost, "/api/groups/"+id+"/join", member.Token, nil); rec.Code != http.StatusOK {
		t.Fatalf("join: %d", rec.Code)
	}

	rec = h.do(http.MethodGet, "/api/groups/"+id, member.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}
	detail := decode[map[string]any](t, rec)
	members := detail["members"].([]any)
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %v", members)
	}
	first, ok := members[0].(map[string]any)
	if !ok || first["id"] != org.User.ID {
		t.Fatalf("expected expanded organizer first, got %v", members[0])
	}
	if detail["location"] != "Riverside" {
		t.Fatalf("location should round trip as text, got %v", detail["location"])
	}

	rec = h.do(http.MethodPost, "/api/groups/"+id+"/removeMember", member.Token, map[string]string{"memberId": org.User.ID})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member removing organizer: expected 403, got %d", rec.Code)
	}
	rec = h.do(http.MethodPost, "/api/groups/"+id+"/removeMember", org.Token, map[string]string{"memberId": org.User.ID})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("removing organizer: expected 400, got %d", rec.Code)
	}

	rec = h.do(http.MethodGet, "/api/groups/search?query=RUN", member.Token, nil)
	if found := decode[[]map[string]any](t, rec); len(found) != 1 {
		t.Fatalf("search: expected 1 group, got %d", len(found))
	}
}

func TestWorkoutUsesServerFieldNames(t *testing.T) {
	h := newHarness(t)
	s := h.signup("Ann", "ann@example.com")

	rec := h.do(http.MethodPost, "/api/workouts", s.Token, map[string]any{
		"title": "Leg Day", "duration": 45, "difficultyLevel": "Hard",
		"exercises": []any{"Squats", map[string]any{"name": "Lunges", "sets": 3}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	w := decode[map[string]any](t, rec)
	if w["title"] != "Leg Day" || w["difficultyLevel"] != "Hard" || w["creator"] != s.User.ID {
		t.Fatalf("unexpected workout %v", w)
	}
	if _, ok := w["name"]; ok {
		t.Fatal("server must not use client field names")
	}

	rec = h.do(http.MethodPost, "/api/workouts", s.Token, map[string]any{"title": "x", "duration": 10, "difficultyLevel": "Extreme"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad difficulty: expected 400, got %d", rec.Code)
	}

	other := h.signup("Bo", "bo@example.com")
	rec = h.do(http.MethodPatch, "/api/workouts/"+w["id"].(string), other.Token, map[string]any{
		"title": "Mine now", "duration": 10, "difficultyLevel": "Easy",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign edit: expected 403, got %d", rec.Code)
	}

	rec = h.do(http.MethodGet, "/api/workouts/my-workouts", other.Token, nil)
	if mine := decode[[]any](t, rec); len(mine) != 0 {
		t.Fatalf("expected no workouts for other user, got %d", len(mine))
	}
}

func TestTrainerProfileAndContracts(t *testing.T) {
	h := newHarness(t)
	coach := h.signup("Coach", "coach@example.com")
	client := h.signup("Client", "client@example.com")

	if rec := h.do(http.MethodGet, "/api/trainers/profile", coach.Token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("profile before become: expected 404, got %d", rec.Code)
	}
	rec := h.do(http.MethodPost, "/api/trainers/become-trainer", coach.Token, map[string]any{
		"bio": "Lifts", "experience": 5, "hourlyRate": 70, "specializations": []string{"strength"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("become: %d %s", rec.Code, rec.Body.String())
	}
	trainerID := decode[map[string]any](t, rec)["id"].(string)

	rec = h.do(http.MethodGet, "/api/trainers/"+trainerID, client.Token, nil)
	detail := decode[map[string]any](t, rec)
	if user, ok := detail["userId"].(map[string]any); !ok || user["id"] != coach.User.ID {
		t.Fatalf("expected expanded user, got %v", detail["userId"])
	}

	rec = h.do(http.MethodPost, "/api/trainers/"+trainerID+"/review", client.Token, map[string]any{"rating": 4})
	if rec.Code != http.StatusOK {
		t.Fatalf("review: %d %s", rec.Code, rec.Body.String())
	}
	if avg := decode[map[string]any](t, rec)["averageRating"]; avg != 4.0 {
		t.Fatalf("expected average 4, got %v", avg)
	}

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rec = h.do(http.MethodPost, "/api/training-contracts/hire", client.Token, map[string]any{
		"trainerId": trainerID, "startDate": start, "endDate": start.AddDate(0, 2, 0), "totalSessions": 10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("hire: %d %s", rec.Code, rec.Body.String())
	}
	contract := decode[map[string]any](t, rec)
	if contract["status"] != "pending" || contract["hourlyRate"] != 70.0 {
		t.Fatalf("unexpected contract %v", contract)
	}
	cid := contract["id"].(string)

	rec = h.do(http.MethodPatch, "/api/training-contracts/"+cid+"/status", coach.Token, map[string]string{"status": "completed"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("pending to completed: expected 409, got %d", rec.Code)
	}
	rec = h.do(http.MethodPatch, "/api/training-contracts/"+cid+"/status", coach.Token, map[string]string{"status": "accepted"})
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: %d %s", rec.Code, rec.Body.String())
	}

	rec = h.do(http.MethodGet, "/api/training-contracts/trainer", coach.Token, nil)
	if list := decode[[]any](t, rec); len(list) != 1 {
		t.Fatalf("expected 1 trainer contract, got %d", len(list))
	}
}

func TestLocationLookup(t *testing.T) {
	h := newHarness(t)
	s := h.signup("Ann", "ann@example.com")
	seeded, err := h.srv.SeedLocations(context.Background())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := h.do(http.MethodGet, "/api/locations/"+seeded[0].ID.Hex(), s.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}
	loc := decode[map[string]any](t, rec)
	if loc["name"] != "Central Park" || loc["coordinates"] == nil {
		t.Fatalf("unexpected location %v", loc)
	}

	if rec := h.do(http.MethodGet, "/api/locations/not-hex", s.Token, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: expected 400, got %d", rec.Code)
	}
	if rec := h.do(http.MethodGet, "/api/locations/000000000000000000000000", s.Token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", rec.Code)
	}
}
