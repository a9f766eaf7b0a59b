package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	config "github.com/hopeworks/nonprofit-platform-go/config"
	models "github.com/hopeworks/nonprofit-platform-go/models"
	routes "github.com/hopeworks/nonprofit-platform-go/routes"
	testutil "github.com/hopeworks/nonprofit-platform-go/testutil"
)

func newTestRouter(t *testing.T) (*gin.Engine, *config.Config, *testutil.Fixtures) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testutil.SetupTestConfig(t)
	r := gin.New()
	routes.SetupRoutes(r, cfg)
	return r, cfg, testutil.NewFixtures(t, cfg)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRegisterCompanyStartsPending(t *testing.T) {
	r, _, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := doJSON(t, r, "POST", "/users/register", "", map[string]interface{}{
		"name":     "Acme Co",
		"email":    "acme@example.com",
		"password": "password123",
		"role":     models.RoleCompany,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["approval_status"] != models.ApprovalPending {
		t.Errorf("approval_status: got %v, want %q", body["approval_status"], models.ApprovalPending)
	}

	user, err := f.UserByEmail(ctx, "acme@example.com")
	if err != nil {
		t.Fatalf("registered user not found: %v", err)
	}
	if user.IsApproved {
		t.Error("new company account should not be approved")
	}
	if user.ApprovalStatus != models.ApprovalPending {
		t.Errorf("stored approval_status: got %q, want %q", user.ApprovalStatus, models.ApprovalPending)
	}
}

func TestRegisterMemberNeedsNoApproval(t *testing.T) {
	r, _, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := doJSON(t, r, "POST", "/users/register", "", map[string]interface{}{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "password123",
		"role":     models.RoleMember,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	user, err := f.UserByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("registered user not found: %v", err)
	}
	if user.ApprovalStatus != "" {
		t.Errorf("member should have no approval status, got %q", user.ApprovalStatus)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/users/register", "", map[string]interface{}{
		"name":     "Sneaky",
		"email":    "sneaky@example.com",
		"password": "password123",
		"role":     models.RoleAdmin,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

// NGO registrations must attach at least one document.
func TestRegisterNGORequiresDocuments(t *testing.T) {
	r, _, _ := newTestRouter(t)

	form := "name=Helping+Hands&email=hands@example.com&password=password123&role=ngo"
	req := httptest.NewRequest("POST", "/users/register", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "documents") {
		t.Errorf("error should mention missing documents, got %s", rec.Body.String())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateUser(ctx, "Jane", "jane@example.com", models.RoleMember)

	rec := doJSON(t, r, "POST", "/users/register", "", map[string]interface{}{
		"name":     "Jane Again",
		"email":    "jane@example.com",
		"password": "password123",
		"role":     models.RoleMember,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

// Wrong credentials are a hard 401; correct credentials on an unapproved
// account authenticate but yield no token.
func TestLoginGate(t *testing.T) {
	r, _, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	company := f.CreateUser(ctx, "Acme Co", "acme@example.com", models.RoleCompany)

	// wrong password
	rec := doJSON(t, r, "POST", "/users/login", "", map[string]interface{}{
		"email":    company.Email,
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}

	// correct password, still pending
	rec = doJSON(t, r, "POST", "/users/login", "", map[string]interface{}{
		"email":    company.Email,
		"password": testutil.TestPassword,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("pending login: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if _, hasToken := body["token"]; hasToken {
		t.Error("pending account must not receive a token")
	}
	if body["approval_status"] != models.ApprovalPending {
		t.Errorf("approval_status: got %v, want %q", body["approval_status"], models.ApprovalPending)
	}
}

// Approving twice leaves the account approved and the second call succeeds.
func TestApproveIdempotent(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@example.com")
	company := f.CreateUser(ctx, "Acme Co", "acme@example.com", models.RoleCompany)
	token := testutil.Token(t, cfg, admin)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, r, "PUT", "/users/approve/"+company.ID.Hex(), token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("approve call %d: expected status %d, got %d: %s", i+1, http.StatusOK, rec.Code, rec.Body.String())
		}
	}

	got := f.GetUser(ctx, company.ID)
	if !got.IsApproved {
		t.Error("is_approved should be true")
	}
	if got.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("approval_status: got %q, want %q", got.ApprovalStatus, models.ApprovalApproved)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@example.com")
	company := f.CreateUser(ctx, "Acme Co", "acme@example.com", models.RoleCompany)
	token := testutil.Token(t, cfg, admin)

	for _, body := range []interface{}{nil, map[string]interface{}{"reason": ""}} {
		rec := doJSON(t, r, "PUT", "/users/reject/"+company.ID.Hex(), token, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
		}
	}

	got := f.GetUser(ctx, company.ID)
	if got.ApprovalStatus != models.ApprovalPending {
		t.Errorf("approval_status must be untouched, got %q", got.ApprovalStatus)
	}
}

// Reject with a reason, verify login surfaces it, then approve and verify the
// account becomes usable.
func TestRejectThenApproveLifecycle(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@example.com")
	company := f.CreateUser(ctx, "Acme Co", "acme@example.com", models.RoleCompany)
	token := testutil.Token(t, cfg, admin)

	rec := doJSON(t, r, "PUT", "/users/reject/"+company.ID.Hex(), token, map[string]interface{}{
		"reason": "Incomplete paperwork",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reject: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, "POST", "/users/login", "", map[string]interface{}{
		"email":    company.Email,
		"password": testutil.TestPassword,
	})
	body := decodeBody(t, rec)
	if body["approval_status"] != models.ApprovalRejected {
		t.Errorf("approval_status: got %v, want %q", body["approval_status"], models.ApprovalRejected)
	}
	if body["rejection_reason"] != "Incomplete paperwork" {
		t.Errorf("rejection_reason: got %v, want %q", body["rejection_reason"], "Incomplete paperwork")
	}

	// re-approval overturns the rejection
	rec = doJSON(t, r, "PUT", "/users/approve/"+company.ID.Hex(), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, "POST", "/users/login", "", map[string]interface{}{
		"email":    company.Email,
		"password": testutil.TestPassword,
	})
	body = decodeBody(t, rec)
	if _, hasToken := body["token"]; !hasToken {
		t.Fatalf("approved account should receive a token: %s", rec.Body.String())
	}
	if body["approval_status"] != models.ApprovalApproved {
		t.Errorf("approval_status: got %v, want %q", body["approval_status"], models.ApprovalApproved)
	}

	got := f.GetUser(ctx, company.ID)
	if got.RejectionReason != "" {
		t.Errorf("rejection_reason should be cleared on approval, got %q", got.RejectionReason)
	}
}

func TestApproveUnknownUser(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@example.com")
	token := testutil.Token(t, cfg, admin)

	rec := doJSON(t, r, "PUT", "/users/approve/64b0c0ffee0c0ffee0c0ffee", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestApproveRequiresAdmin(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := f.CreateUser(ctx, "Jane", "jane@example.com", models.RoleMember)
	company := f.CreateUser(ctx, "Acme Co", "acme@example.com", models.RoleCompany)
	token := testutil.Token(t, cfg, member)

	rec := doJSON(t, r, "PUT", "/users/approve/"+company.ID.Hex(), token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestPendingApprovals(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@example.com")
	f.CreateUser(ctx, "Acme Co", "acme@example.com", models.RoleCompany)
	f.CreateUser(ctx, "Helping Hands", "hands@example.com", models.RoleNGO)
	f.CreateUser(ctx, "Jane", "jane@example.com", models.RoleMember)
	token := testutil.Token(t, cfg, admin)

	rec := doJSON(t, r, "GET", "/users/pending-approvals", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if count, ok := body["count"].(float64); !ok || int(count) != 2 {
		t.Errorf("count: got %v, want 2", body["count"])
	}
}

// Deleting an account scrubs it from every event and program participant
// list while leaving the events and programs themselves intact.
func TestDeleteUserCascades(t *testing.T) {
	r, cfg, f := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@example.com")
	jane := f.CreateUser(ctx, "Jane", "jane@example.com", models.RoleMember)
	other := f.CreateUser(ctx, "Omar", "omar@example.com", models.RoleMember)

	event := f.CreateEvent(ctx, "Community Fair", jane.ID, other.ID)
	program := f.CreateProgram(ctx, "Literacy Drive", jane.ID)
	token := testutil.Token(t, cfg, admin)

	rec := doJSON(t, r, "DELETE", "/users/delete/"+jane.ID.Hex(), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	gotEvent := f.GetEvent(ctx, event.ID)
	for _, p := range gotEvent.Participants {
		if p == jane.ID {
			t.Error("deleted user still present in event participants")
		}
	}
	if len(gotEvent.Participants) != 1 {
		t.Errorf("event participants: got %d, want 1", len(gotEvent.Participants))
	}

	gotProgram := f.GetProgram(ctx, program.ID)
	if len(gotProgram.Participants) != 0 {
		t.Errorf("program participants: got %d, want 0", len(gotProgram.Participants))
	}
}
