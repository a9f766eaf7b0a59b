package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	models "github.com/hopeworks/nonprofit-platform-go/models"
	testutil "github.com/hopeworks/nonprofit-platform-go/testutil"
)

// Scenario: join once, duplicate join rejected, admin removes, second removal
// is a no-op.
func TestJoinEventLifecycle(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@example.com")
	jane := f.CreateUser(ctx, "Jane", "jane@example.com", models.RoleMember)
	event := f.CreateEvent(ctx, "Community Fair")

	janeToken := testutil.Token(t, cfg, jane)
	adminToken := testutil.Token(t, cfg, admin)

	// first join succeeds
	rec := doJSON(t, r, "POST", "/events/"+event.ID.Hex()+"/participants", janeToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("join: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if got := f.GetEvent(ctx, event.ID); len(got.Participants) != 1 {
		t.Fatalf("participants after join: got %d, want 1", len(got.Participants))
	}

	// duplicate join rejected without mutation
	rec = doJSON(t, r, "POST", "/events/"+event.ID.Hex()+"/participants", janeToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate join: expected status %d, got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "already registered") {
		t.Errorf("duplicate join should say already registered, got %s", rec.Body.String())
	}
	if got := f.GetEvent(ctx, event.ID); len(got.Participants) != 1 {
		t.Fatalf("participants after duplicate join: got %d, want 1", len(got.Participants))
	}

	// admin removes Jane
	rec = doJSON(t, r, "DELETE", "/events/"+event.ID.Hex()+"/participants", adminToken,
		map[string]interface{}{"user_id": jane.ID.Hex()})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if got := f.GetEvent(ctx, event.ID); len(got.Participants) != 0 {
		t.Fatalf("participants after remove: got %d, want 0", len(got.Participants))
	}

	// removing a non-member is a silent no-op
	rec = doJSON(t, r, "DELETE", "/events/"+event.ID.Hex()+"/participants", adminToken,
		map[string]interface{}{"user_id": jane.ID.Hex()})
	if rec.Code != http.StatusOK {
		t.Fatalf("second remove: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if got := f.GetEvent(ctx, event.ID); len(got.Participants) != 0 {
		t.Fatalf("participants after second remove: got %d, want 0", len(got.Participants))
	}
}

// Concurrent joins for the same (event, user) pair: exactly one succeeds and
// the participant appears exactly once.
func TestJoinEventConcurrent(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	jane := f.CreateUser(ctx, "Jane", "jane@example.com", models.RoleMember)
	event := f.CreateEvent(ctx, "Community Fair")
	token := testutil.Token(t, cfg, jane)

	const n = 8
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest("POST", "/events/"+event.ID.Hex()+"/participants", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			successes++
		case http.StatusBadRequest:
			conflicts++
		default:
			t.Errorf("unexpected status %d", code)
		}
	}
	if successes != 1 {
		t.Errorf("successful joins: got %d, want 1", successes)
	}
	if conflicts != n-1 {
		t.Errorf("conflicting joins: got %d, want %d", conflicts, n-1)
	}

	seen := 0
	for _, p := range f.GetEvent(ctx, event.ID).Participants {
		if p == jane.ID {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("participant list contains user %d times, want 1", seen)
	}
}

func TestJoinEventNotFound(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	jane := f.CreateUser(ctx, "Jane", "jane@example.com", models.RoleMember)
	token := testutil.Token(t, cfg, jane)

	rec := doJSON(t, r, "POST", "/events/64b0c0ffee0c0ffee0c0ffee/participants", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d: %s", http.StatusNotFound, rec.Code, rec.Body.String())
	}
}

func TestListEventParticipants(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@example.com")
	jane := f.CreateUser(ctx, "Jane", "jane@example.com", models.RoleMember)
	omar := f.CreateUser(ctx, "Omar", "omar@example.com", models.RoleMember)
	event := f.CreateEvent(ctx, "Community Fair", jane.ID, omar.ID)
	token := testutil.Token(t, cfg, admin)

	rec := doJSON(t, r, "GET", "/events/"+event.ID.Hex()+"/getallparticipants", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if count, ok := body["count"].(float64); !ok || int(count) != 2 {
		t.Errorf("count: got %v, want 2", body["count"])
	}

	participants, ok := body["participants"].([]interface{})
	if !ok || len(participants) != 2 {
		t.Fatalf("participants: got %v", body["participants"])
	}
	first, ok := participants[0].(map[string]interface{})
	if !ok {
		t.Fatalf("participant entry has unexpected shape: %v", participants[0])
	}
	for _, field := range []string{"name", "email", "phone"} {
		if _, present := first[field]; !present {
			t.Errorf("participant summary missing %q", field)
		}
	}
}

func TestListEventParticipantsRequiresAdmin(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	jane := f.CreateUser(ctx, "Jane", "jane@example.com", models.RoleMember)
	event := f.CreateEvent(ctx, "Community Fair")
	token := testutil.Token(t, cfg, jane)

	rec := doJSON(t, r, "GET", "/events/"+event.ID.Hex()+"/getallparticipants", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestCreateEventRequiresAdmin(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	jane := f.CreateUser(ctx, "Jane", "jane@example.com", models.RoleMember)
	token := testutil.Token(t, cfg, jane)

	form := "title=Community+Fair"
	req := httptest.NewRequest("POST", "/events", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestListEventsETag(t *testing.T) {
	r, _, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateEvent(ctx, "Community Fair")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/events", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag header")
	}

	req := httptest.NewRequest("GET", "/events", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("conditional request: expected status %d, got %d", http.StatusNotModified, rec.Code)
	}
}
