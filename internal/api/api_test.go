package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ember-labs/ember/internal/api"
	"github.com/ember-labs/ember/internal/app/progression"
	"github.com/ember-labs/ember/internal/infra/sqlite"
)

// testServer spins up the full router over a temp database.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	engine := progression.NewEngine(db, nil)
	timer := progression.NewTimer(db)
	srv := api.NewServer(engine, timer, nil)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp, decodeBody(t, resp)
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func createHabit(t *testing.T, ts *httptest.Server, title string) string {
	t.Helper()
	resp, body := postJSON(t, ts.URL+"/api/habits", map[string]any{"title": title})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body %v", resp.StatusCode, body)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("no habit id in %v", body)
	}
	return id
}

func TestHealthEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, body := getJSON(t, ts.URL+"/health")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestCreateHabit(t *testing.T) {
	ts := testServer(t)
	id := createHabit(t, ts, "Read")

	resp, body := getJSON(t, ts.URL+"/api/habits/"+id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["title"] != "Read" {
		t.Errorf("title = %v", body["title"])
	}
}

func TestCreateHabit_EmptyTitle(t *testing.T) {
	ts := testServer(t)
	resp, _ := postJSON(t, ts.URL+"/api/habits", map[string]any{"title": "  "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetHabit_NotFound(t *testing.T) {
	ts := testServer(t)
	resp, _ := getJSON(t, ts.URL+"/api/habits/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestToggleAwardsXP(t *testing.T) {
	ts := testServer(t)
	id := createHabit(t, ts, "Run")

	resp, body := postJSON(t, ts.URL+"/api/habits/"+id+"/toggle",
		map[string]any{"date": "2025-07-15"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["completed"] != true {
		t.Errorf("completed = %v", body["completed"])
	}
	if xp, _ := body["xp_earned"].(float64); xp != 10 {
		t.Errorf("xp_earned = %v, want 10", body["xp_earned"])
	}

	// Second toggle on the same day revokes.
	resp, body = postJSON(t, ts.URL+"/api/habits/"+id+"/toggle",
		map[string]any{"date": "2025-07-15"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["completed"] != false {
		t.Errorf("completed = %v after second toggle", body["completed"])
	}
}

func TestToggle_BadDate(t *testing.T) {
	ts := testServer(t)
	id := createHabit(t, ts, "Run")

	resp, _ := postJSON(t, ts.URL+"/api/habits/"+id+"/toggle",
		map[string]any{"date": "15/07/2025"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStreakEndpoint(t *testing.T) {
	ts := testServer(t)
	id := createHabit(t, ts, "Run")

	for _, day := range []string{"2025-07-13", "2025-07-14", "2025-07-15"} {
		resp, _ := postJSON(t, ts.URL+"/api/habits/"+id+"/toggle", map[string]any{"date": day})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("toggle %s: %d", day, resp.StatusCode)
		}
	}

	resp, body := getJSON(t, ts.URL+"/api/habits/"+id+"/streak?date=2025-07-15")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if cur, _ := body["current"].(float64); cur != 3 {
		t.Errorf("current = %v, want 3", body["current"])
	}
	if lng, _ := body["longest"].(float64); lng != 3 {
		t.Errorf("longest = %v, want 3", body["longest"])
	}
}

func TestProgressEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, body := getJSON(t, ts.URL+"/api/progress")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if lvl, _ := body["level"].(float64); lvl != 1 {
		t.Errorf("level = %v, want 1", body["level"])
	}
}

func TestAchievementsEndpoint(t *testing.T) {
	ts := testServer(t)
	id := createHabit(t, ts, "Run")
	postJSON(t, ts.URL+"/api/habits/"+id+"/toggle", map[string]any{"date": "2025-07-15"})

	resp, body := getJSON(t, ts.URL+"/api/achievements")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if total, _ := body["total"].(float64); total < 20 {
		t.Errorf("total = %v, want full catalog", body["total"])
	}
	if unlocked, _ := body["unlocked"].(float64); unlocked < 1 {
		t.Errorf("unlocked = %v, want at least streak_start", body["unlocked"])
	}
}

func TestActivityEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, body := getJSON(t, ts.URL+"/api/activity?granularity=day&count=7")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	points, ok := body["points"].([]any)
	if !ok || len(points) != 7 {
		t.Errorf("points = %v, want 7 zero-filled buckets", body["points"])
	}
}

func TestActivityEndpoint_BadGranularity(t *testing.T) {
	ts := testServer(t)
	resp, _ := getJSON(t, ts.URL+"/api/activity?granularity=fortnight")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestArchiveFlow(t *testing.T) {
	ts := testServer(t)
	id := createHabit(t, ts, "Run")

	resp, _ := postJSON(t, ts.URL+"/api/habits/"+id+"/archive", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("archive status = %d", resp.StatusCode)
	}

	_, body := getJSON(t, ts.URL+"/api/habits")
	if habits, ok := body["habits"].([]any); !ok || len(habits) != 0 {
		t.Errorf("active habits = %v, want none", body["habits"])
	}

	_, body = getJSON(t, ts.URL+"/api/habits?archived=true")
	if habits, ok := body["habits"].([]any); !ok || len(habits) != 1 {
		t.Errorf("all habits = %v, want one", body["habits"])
	}

	resp, _ = postJSON(t, ts.URL+"/api/habits/"+id+"/revive", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("revive status = %d", resp.StatusCode)
	}
}

func TestTimerConflict(t *testing.T) {
	ts := testServer(t)
	id := createHabit(t, ts, "Focus")

	resp, _ := postJSON(t, ts.URL+"/api/habits/"+id+"/timer/start", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start status = %d", resp.StatusCode)
	}
	resp, _ = postJSON(t, ts.URL+"/api/habits/"+id+"/timer/start", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second start status = %d, want 409", resp.StatusCode)
	}
}

func TestShareEndpoint(t *testing.T) {
	ts := testServer(t)
	for i := 1; i <= 2; i++ {
		resp, body := postJSON(t, ts.URL+"/api/share", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if n, _ := body["shares"].(float64); int(n) != i {
			t.Errorf("shares = %v, want %d", body["shares"], i)
		}
	}
}

func TestVersionEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, body := getJSON(t, ts.URL+"/api/version")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["version"] == "" {
		t.Error("missing version")
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := testServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/habits", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q", got)
	}
}
