package controllers_test

import (
	"net/http"
	"strings"
	"testing"

	models "github.com/hopeworks/nonprofit-platform-go/models"
	testutil "github.com/hopeworks/nonprofit-platform-go/testutil"
)

func TestJoinProgramDuplicate(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	omar := f.CreateUser(ctx, "Omar", "omar@example.com", models.RoleTrainee)
	program := f.CreateProgram(ctx, "Youth Mentorship")
	token := testutil.Token(t, cfg, omar)

	rec := doJSON(t, r, "POST", "/programs/add/"+program.ID.Hex()+"/participants", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("join: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, "POST", "/programs/add/"+program.ID.Hex()+"/participants", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate join: expected status %d, got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "already registered") {
		t.Errorf("duplicate join should say already registered, got %s", rec.Body.String())
	}

	if got := f.GetProgram(ctx, program.ID); len(got.Participants) != 1 {
		t.Fatalf("participants: got %d, want 1", len(got.Participants))
	}
}

func TestRemoveProgramParticipantNoOp(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@example.com")
	omar := f.CreateUser(ctx, "Omar", "omar@example.com", models.RoleTrainee)
	program := f.CreateProgram(ctx, "Youth Mentorship", omar.ID)
	token := testutil.Token(t, cfg, admin)

	rec := doJSON(t, r, "DELETE", "/programs/"+program.ID.Hex()+"/deleteparticipants", token,
		map[string]interface{}{"user_id": omar.ID.Hex()})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if got := f.GetProgram(ctx, program.ID); len(got.Participants) != 0 {
		t.Fatalf("participants after remove: got %d, want 0", len(got.Participants))
	}

	// member already gone, still 200
	rec = doJSON(t, r, "DELETE", "/programs/"+program.ID.Hex()+"/deleteparticipants", token,
		map[string]interface{}{"user_id": omar.ID.Hex()})
	if rec.Code != http.StatusOK {
		t.Fatalf("second remove: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestRemoveProgramParticipantMissingBody(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@example.com")
	program := f.CreateProgram(ctx, "Youth Mentorship")
	token := testutil.Token(t, cfg, admin)

	rec := doJSON(t, r, "DELETE", "/programs/"+program.ID.Hex()+"/deleteparticipants", token,
		map[string]interface{}{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestListProgramParticipants(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@example.com")
	omar := f.CreateUser(ctx, "Omar", "omar@example.com", models.RoleTrainee)
	program := f.CreateProgram(ctx, "Youth Mentorship", omar.ID)
	token := testutil.Token(t, cfg, admin)

	rec := doJSON(t, r, "GET", "/programs/"+program.ID.Hex()+"/getallparticipants", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if count, ok := body["count"].(float64); !ok || int(count) != 1 {
		t.Errorf("count: got %v, want 1", body["count"])
	}
}

func TestJoinProgramNotFound(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	omar := f.CreateUser(ctx, "Omar", "omar@example.com", models.RoleTrainee)
	token := testutil.Token(t, cfg, omar)

	rec := doJSON(t, r, "POST", "/programs/add/64b0c0ffee0c0ffee0c0ffee/participants", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d: %s", http.StatusNotFound, rec.Code, rec.Body.String())
	}
}
