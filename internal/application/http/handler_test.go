package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hirehub/backend/internal/application/domain"
	"github.com/hirehub/backend/internal/application/service"
	commonhttp "github.com/hirehub/backend/internal/common/http"
	"github.com/hirehub/backend/internal/common/jwtverify"
	"github.com/hirehub/backend/internal/common/logger"
	"github.com/hirehub/backend/internal/testutil"
	userdomain "github.com/hirehub/backend/internal/user/domain"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"

	recruiterID = "11111111-1111-4111-8111-111111111111"
	studentID   = "22222222-2222-4222-8222-222222222222"
	jobID       = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	appID       = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
)

func newRouter(t *testing.T) (http.Handler, *testutil.Store) {
	t.Helper()
	log := logger.NewDiscard()

	store := testutil.NewStore()
	store.AddUser(recruiterID, userdomain.RoleRecruiter)
	store.AddUser(studentID, userdomain.RoleStudent)
	store.AddJob(jobID, recruiterID)

	svc := service.NewApplicationService(service.ApplicationServiceDeps{
		Applications: store.Applications,
		Jobs:         store.Jobs,
		Users:        store.Users,
		Log:          log,
	})

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtverify.Middleware(testSecret, log))
		NewHandler(svc, log).Routes(r)
	})
	return r, store
}

func bearer(t *testing.T, userID string, role userdomain.Role) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func request(t *testing.T, h http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env commonhttp.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Code
}

func TestApply(t *testing.T) {
	h, _ := newRouter(t)

	rec := request(t, h, http.MethodPost, "/api/v1/application/apply/"+jobID, bearer(t, studentID, userdomain.RoleStudent), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp applicationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Application.Status != domain.StatusPending || resp.Application.JobID != jobID {
		t.Errorf("unexpected response: %+v", resp)
	}

	rec = request(t, h, http.MethodPost, "/api/v1/application/apply/"+jobID, bearer(t, studentID, userdomain.RoleStudent), "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %d", rec.Code)
	}
}

func TestApply_Errors(t *testing.T) {
	h, _ := newRouter(t)

	rec := request(t, h, http.MethodPost, "/api/v1/application/apply/"+jobID, bearer(t, recruiterID, userdomain.RoleRecruiter), "")
	if rec.Code != http.StatusForbidden || errorCode(t, rec) != "ONLY_STUDENTS_APPLY" {
		t.Errorf("recruiter apply: got %d %s", rec.Code, rec.Body.String())
	}

	rec = request(t, h, http.MethodPost, "/api/v1/application/apply/nope", bearer(t, studentID, userdomain.RoleStudent), "")
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "JOB_NOT_FOUND" {
		t.Errorf("malformed job id: got %d %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateStatus(t *testing.T) {
	h, store := newRouter(t)
	store.AddApplication(appID, jobID, studentID, domain.StatusPending)

	rec := request(t, h, http.MethodPatch, "/api/v1/application/status/"+appID+"/update",
		bearer(t, recruiterID, userdomain.RoleRecruiter), `{"status":"accepted"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp applicationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Application.Status != domain.StatusAccepted {
		t.Errorf("expected accepted, got %s", resp.Application.Status)
	}
}

func TestUpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		role   userdomain.Role
		body   string
		status int
		code   string
	}{
		{"invalid status", recruiterID, userdomain.RoleRecruiter, `{"status":"hired"}`, http.StatusBadRequest, "INVALID_APPLICATION_STATUS"},
		{"missing status", recruiterID, userdomain.RoleRecruiter, `{}`, http.StatusBadRequest, "INVALID_APPLICATION_STATUS"},
		{"malformed body", recruiterID, userdomain.RoleRecruiter, `{`, http.StatusBadRequest, "INVALID_PAYLOAD"},
		{"not the job owner", studentID, userdomain.RoleStudent, `{"status":"accepted"}`, http.StatusForbidden, "APPLICATION_FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newRouter(t)
			store.AddApplication(appID, jobID, studentID, domain.StatusPending)

			rec := request(t, h, http.MethodPatch, "/api/v1/application/status/"+appID+"/update", bearer(t, tt.userID, tt.role), tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if got := errorCode(t, rec); got != tt.code {
				t.Errorf("expected %s, got %s", tt.code, got)
			}
		})
	}
}
