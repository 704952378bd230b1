package services

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/petlabel-backend/internal/data/repos"
	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/platform/apierr"
	"github.com/yungbote/petlabel-backend/internal/platform/ctxutil"
	"github.com/yungbote/petlabel-backend/internal/platform/dbctx"
	"github.com/yungbote/petlabel-backend/internal/platform/identity"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

const (
	MsgUserCreated      = "User created successfully"
	MsgRoleUpdated      = "User role updated successfully"
	MsgAdminRequired    = "Unauthorized. Admin access required."
	MsgInvalidRole      = "Invalid role. Must be Admin, Labeler, or Viewer."
	MsgUserNotFound     = "User not found"
	MsgMissingUserID    = "Missing required field: userId"
	MsgUserCreateFailed = "Error creating user"
	MsgUserFetchFailed  = "Failed to fetch user data"
	MsgUserListFailed   = "Failed to list users"
	MsgRoleUpdateFailed = "Failed to update user role"

	defaultNewUserName = "New User"
	userListLimit      = 500
)

type CreateUserInput struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type UserService interface {
	Create(ctx context.Context, caller *identity.Identity, in CreateUserInput) (*types.UserProfile, error)
	// Get returns nil without error when the user is unknown.
	Get(ctx context.Context, userID string) (*types.UserProfile, error)
	List(ctx context.Context, caller *identity.Identity) ([]*types.UserProfile, error)
	UpdateRole(ctx context.Context, caller *identity.Identity, userID, role string) error
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{log: log.With("service", "UserService"), userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, caller *identity.Identity, in CreateUserInput) (*types.UserProfile, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, apierr.Validation(MsgMissingUserID)
	}
	dbc := dbctx.Context{Ctx: ctx}

	existing, err := s.userRepo.GetByID(dbc, userID)
	if err != nil {
		s.log.Error("lookup user failed", append(ctxutil.LogFields(ctx), "user_id", userID, "error", err)...)
		return nil, apierr.Dependency(MsgUserCreateFailed, err)
	}

	p := &types.UserProfile{
		UserID: userID,
		Name:   orDefault(strings.TrimSpace(in.Name), defaultNewUserName),
		Email:  strings.TrimSpace(in.Email),
		Role:   identity.RoleViewer,
	}
	switch {
	case existing != nil:
		p.Role = existing.Role
		p.CreatedAt = existing.CreatedAt
	case caller != nil && caller.Sub == userID && identity.RoleOf(caller.Groups) != "":
		p.Role = identity.RoleOf(caller.Groups)
	}
	if existing == nil && in.CreatedAt != "" {
		if ts, perr := time.Parse(time.RFC3339, in.CreatedAt); perr == nil {
			p.CreatedAt = ts.UTC()
		}
	}

	if err := s.userRepo.Upsert(dbc, p); err != nil {
		s.log.Error("create user failed", append(ctxutil.LogFields(ctx), "user_id", userID, "error", err)...)
		return nil, apierr.Dependency(MsgUserCreateFailed, err)
	}
	return p, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*types.UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apierr.Validation("Missing required parameter: userId")
	}
	p, err := s.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		s.log.Error("get user failed", append(ctxutil.LogFields(ctx), "user_id", userID, "error", err)...)
		return nil, apierr.Dependency(MsgUserFetchFailed, err)
	}
	return p, nil
}

func (s *userService) List(ctx context.Context, caller *identity.Identity) ([]*types.UserProfile, error) {
	if !identity.IsAdmin(caller) {
		return nil, apierr.Forbidden(MsgAdminRequired)
	}
	out, err := s.userRepo.List(dbctx.Context{Ctx: ctx}, userListLimit)
	if err != nil {
		s.log.Error("list users failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, apierr.Dependency(MsgUserListFailed, err)
	}
	for _, p := range out {
		if p != nil && !identity.ValidRole(p.Role) {
			p.Role = identity.RoleViewer
		}
	}
	return out, nil
}

func (s *userService) UpdateRole(ctx context.Context, caller *identity.Identity, userID, role string) error {
	if !identity.IsAdmin(caller) {
		return apierr.Forbidden(MsgAdminRequired)
	}
	if !identity.ValidRole(role) {
		return apierr.Validation(MsgInvalidRole)
	}
	userID = strings.TrimSpace(userID)
	ok, err := s.userRepo.UpdateRole(dbctx.Context{Ctx: ctx}, userID, role)
	if err != nil {
		s.log.Error("update role failed", append(ctxutil.LogFields(ctx), "user_id", userID, "error", err)...)
		return apierr.Dependency(MsgRoleUpdateFailed, err)
	}
	if !ok {
		return apierr.NotFound(MsgUserNotFound)
	}
	s.log.Info("user role updated", append(ctxutil.LogFields(ctx), "user_id", userID, "role", role, "sub", caller.Sub)...)
	return nil
}
