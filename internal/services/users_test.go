package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/yungbote/petlabel-backend/internal/data/repos"
	"github.com/yungbote/petlabel-backend/internal/data/repos/testutil"
	"github.com/yungbote/petlabel-backend/internal/platform/apierr"
	"github.com/yungbote/petlabel-backend/internal/platform/identity"
)

func newUsers(t *testing.T) UserService {
	t.Helper()
	log := testutil.Logger(t)
	return NewUserService(log, repos.NewUserRepo(testutil.DB(t), log))
}

func TestCreateUser(t *testing.T) {
	s := newUsers(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, nil, CreateUserInput{}); apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("missing id: want=400 got=%v", err)
	}

	p, err := s.Create(ctx, nil, CreateUserInput{UserID: "u1", CreatedAt: "2024-01-02T03:04:05Z"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Name != "New User" || p.Role != identity.RoleViewer || p.CreatedAt.Year() != 2024 {
		t.Fatalf("defaults: got=%+v", p)
	}

	if err := s.UpdateRole(ctx, admin(), "u1", identity.RoleLabeler); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	p, err = s.Create(ctx, nil, CreateUserInput{UserID: "u1", Name: "Una"})
	if err != nil {
		t.Fatalf("Create again: %v", err)
	}
	if p.Role != identity.RoleLabeler || p.Name != "Una" {
		t.Fatalf("re-create should keep role: got=%+v", p)
	}

	self := &identity.Identity{Sub: "u2", Groups: []string{identity.GroupAdmins}}
	p, err = s.Create(ctx, self, CreateUserInput{UserID: "u2"})
	if err != nil {
		t.Fatalf("Create self: %v", err)
	}
	if p.Role != identity.RoleAdmin {
		t.Fatalf("self role: want=Admin got=%s", p.Role)
	}
}

func TestGetUser(t *testing.T) {
	s := newUsers(t)
	ctx := context.Background()

	p, err := s.Get(ctx, "ghost")
	if err != nil || p != nil {
		t.Fatalf("Get unknown: p=%v err=%v", p, err)
	}
	if _, err := s.Create(ctx, nil, CreateUserInput{UserID: "u1", Name: "Una", Email: "una@example.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	p, err = s.Get(ctx, "u1")
	if err != nil || p == nil || p.Email != "una@example.com" {
		t.Fatalf("Get: p=%+v err=%v", p, err)
	}
}

func TestAdminOperations(t *testing.T) {
	s := newUsers(t)
	ctx := context.Background()
	if _, err := s.Create(ctx, nil, CreateUserInput{UserID: "u1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := s.List(ctx, labeler()); apierr.StatusOf(err) != http.StatusForbidden {
		t.Fatalf("List non-admin: want=403 got=%v", err)
	}
	if err := s.UpdateRole(ctx, viewer(), "u1", identity.RoleAdmin); apierr.StatusOf(err) != http.StatusForbidden {
		t.Fatalf("UpdateRole non-admin: want=403 got=%v", err)
	}
	if err := s.UpdateRole(ctx, admin(), "u1", "Owner"); apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("UpdateRole bad role: want=400 got=%v", err)
	}
	if err := s.UpdateRole(ctx, admin(), "ghost", identity.RoleAdmin); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("UpdateRole unknown: want=404 got=%v", err)
	}
	if err := s.UpdateRole(ctx, admin(), "u1", identity.RoleAdmin); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}

	users, err := s.List(ctx, admin())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 1 || users[0].Role != identity.RoleAdmin {
		t.Fatalf("List: got=%+v", users)
	}
}
