package eligibility

import (
	"context"
	"errors"
	"testing"

	appdomain "github.com/hirehub/backend/internal/application/domain"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	"github.com/hirehub/backend/internal/common/logger"
	"github.com/hirehub/backend/internal/testutil"
	userdomain "github.com/hirehub/backend/internal/user/domain"
)

func setupGate(t *testing.T) (*Gate, *testutil.Store) {
	t.Helper()
	store := testutil.NewStore()
	store.AddUser("R", userdomain.RoleRecruiter)
	store.AddUser("R2", userdomain.RoleRecruiter)
	store.AddUser("A", userdomain.RoleStudent)
	store.AddUser("A2", userdomain.RoleStudent)
	store.AddUser("ADM", userdomain.RoleAdmin)
	store.AddJob("J", "R")
	return NewGate(store.Users, store.Jobs, store.Applications, logger.NewDiscard()), store
}

func mustCan(t *testing.T, g *Gate, a, b string) bool {
	t.Helper()
	ok, err := g.CanMessage(context.Background(), a, b)
	if err != nil {
		t.Fatalf("CanMessage(%s, %s): unexpected error %v", a, b, err)
	}
	return ok
}

func TestGate_AcceptedApplicationIsSymmetric(t *testing.T) {
	g, store := setupGate(t)
	store.AddApplication("P", "J", "A", appdomain.StatusAccepted)

	if !mustCan(t, g, "R", "A") {
		t.Error("recruiter should reach accepted applicant")
	}
	if !mustCan(t, g, "A", "R") {
		t.Error("accepted applicant should reach recruiter")
	}
}

func TestGate_NonAcceptedStatusesDeny(t *testing.T) {
	for _, status := range []appdomain.Status{appdomain.StatusPending, appdomain.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			g, store := setupGate(t)
			store.AddApplication("P", "J", "A", status)

			if mustCan(t, g, "R", "A") || mustCan(t, g, "A", "R") {
				t.Errorf("status %s must not allow messaging", status)
			}
		})
	}
}

func TestGate_OtherRecruitersPostingDoesNotCount(t *testing.T) {
	g, store := setupGate(t)
	store.AddApplication("P", "J", "A", appdomain.StatusAccepted)

	if mustCan(t, g, "R2", "A") {
		t.Error("R2 owns no posting A was accepted to")
	}
}

func TestGate_SameRoleAndAdminPairsDeny(t *testing.T) {
	g, store := setupGate(t)
	store.AddApplication("P", "J", "A", appdomain.StatusAccepted)

	pairs := [][2]string{
		{"R", "R2"},
		{"A", "A2"},
		{"ADM", "A"},
		{"A", "ADM"},
		{"ADM", "R"},
		{"R", "ADM"},
	}
	for _, p := range pairs {
		if mustCan(t, g, p[0], p[1]) {
			t.Errorf("CanMessage(%s, %s) should be false", p[0], p[1])
		}
	}
}

func TestGate_RecruiterWithoutPostings(t *testing.T) {
	g, _ := setupGate(t)
	if mustCan(t, g, "R2", "A") {
		t.Error("recruiter with zero postings must be denied")
	}
}

func TestGate_RevocationIsObservedImmediately(t *testing.T) {
	g, store := setupGate(t)
	store.AddApplication("P", "J", "A", appdomain.StatusAccepted)

	if !mustCan(t, g, "R", "A") {
		t.Fatal("expected eligibility before revocation")
	}

	store.SetStatus("P", appdomain.StatusRejected)

	if mustCan(t, g, "R", "A") {
		t.Error("gate must reflect the revoked application on the next call")
	}
}

func TestGate_UnknownUsers(t *testing.T) {
	g, _ := setupGate(t)

	_, err := g.CanMessage(context.Background(), "R", "ghost")
	if !errors.Is(err, commonerrors.ErrReceiverNotFound) {
		t.Errorf("expected ErrReceiverNotFound, got %v", err)
	}

	_, err = g.CanMessage(context.Background(), "ghost", "A")
	if !errors.Is(err, commonerrors.ErrSenderNotFound) {
		t.Errorf("expected ErrSenderNotFound, got %v", err)
	}

	_, err = g.ListEligiblePartners(context.Background(), "ghost")
	if !errors.Is(err, commonerrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGate_StoreFailureIsInternal(t *testing.T) {
	g, store := setupGate(t)
	store.Users.FindErr = errors.New("connection refused")

	_, err := g.CanMessage(context.Background(), "R", "A")
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != "ELIGIBILITY_CHECK_FAILED" {
		t.Fatalf("expected ELIGIBILITY_CHECK_FAILED, got %v", err)
	}
	if de.Category() != commonerrors.CategoryInternal {
		t.Errorf("expected internal category, got %s", de.Category())
	}
}

func TestGate_ListEligiblePartners(t *testing.T) {
	g, store := setupGate(t)
	store.AddApplication("P", "J", "A", appdomain.StatusAccepted)
	store.AddApplication("P2", "J", "A2", appdomain.StatusPending)

	partners, err := g.ListEligiblePartners(context.Background(), "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := partners["R"]; !ok || len(partners) != 1 {
		t.Errorf("expected {R}, got %v", partners)
	}

	partners, err = g.ListEligiblePartners(context.Background(), "R")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := partners["A"]; !ok || len(partners) != 1 {
		t.Errorf("expected {A}, got %v", partners)
	}

	store.SetStatus("P", appdomain.StatusPending)

	partners, err = g.ListEligiblePartners(context.Background(), "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(partners) != 0 {
		t.Errorf("expected empty set after revert, got %v", partners)
	}
}

func TestGate_ListEligiblePartners_AdminIsEmpty(t *testing.T) {
	g, store := setupGate(t)
	store.AddApplication("P", "J", "A", appdomain.StatusAccepted)

	partners, err := g.ListEligiblePartners(context.Background(), "ADM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(partners) != 0 {
		t.Errorf("admin should have no partners, got %v", partners)
	}
}

func TestGate_ListEligiblePartners_DeletedApplication(t *testing.T) {
	g, store := setupGate(t)
	store.AddApplication("P", "J", "A", appdomain.StatusAccepted)
	store.DeleteApplication("P")

	partners, err := g.ListEligiblePartners(context.Background(), "R")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(partners) != 0 {
		t.Errorf("deleted application must not grant eligibility, got %v", partners)
	}
}
