package user

import (
	"context"
	"testing"

	"github.com/yungbote/petlabel-backend/internal/data/repos/testutil"
	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	if err := repo.Upsert(dbc, &types.UserProfile{UserID: "u1", Name: "Uma", Email: "uma@example.com", Role: "Viewer"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(dbc, &types.UserProfile{UserID: "u2", Name: "Lee", Role: "Labeler"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetByID(dbc, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Name != "Uma" || got.Role != "Viewer" {
		t.Fatalf("GetByID: unexpected %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("GetByID: timestamps not set: %+v", got)
	}

	missing, err := repo.GetByID(dbc, "ghost")
	if err != nil || missing != nil {
		t.Fatalf("GetByID missing: got=%v err=%v", missing, err)
	}

	ok, err := repo.UpdateRole(dbc, "u1", "Admin")
	if err != nil || !ok {
		t.Fatalf("UpdateRole: ok=%v err=%v", ok, err)
	}
	ok, err = repo.UpdateRole(dbc, "ghost", "Admin")
	if err != nil || ok {
		t.Fatalf("UpdateRole missing: ok=%v err=%v", ok, err)
	}

	list, err := repo.List(dbc, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List: want=2 got=%d", len(list))
	}
	roles := map[string]string{}
	for _, p := range list {
		roles[p.UserID] = p.Role
	}
	if roles["u1"] != "Admin" || roles["u2"] != "Labeler" {
		t.Fatalf("List roles: got=%v", roles)
	}
}
