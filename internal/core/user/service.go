// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/validate"
	"github.com/taibuivan/stager/pkg/uuid"
)

// MembershipResolver returns the group codes a user belongs to.
type MembershipResolver interface {
	MemberCodes(context context.Context, userID string) ([]string, error)
}

// # Service Layer

// Service orchestrates account administration.
type Service struct {
	repo   Repository
	groups MembershipResolver
	logger *slog.Logger
}

// NewService constructs a new user [Service].
func NewService(repo Repository, groups MembershipResolver, logger *slog.Logger) *Service {
	return &Service{repo: repo, groups: groups, logger: logger}
}

// ListUsers retrieves a paginated list of accounts.
func (service *Service) ListUsers(context context.Context, filter Filter, limit, offset int) ([]*User, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
GetUser retrieves an account with its group codes.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Account with Groups populated
  - error: NOT_FOUND if missing
*/
func (service *Service) GetUser(context context.Context, id string) (*User, error) {
	user, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	codes, err := service.groups.MemberCodes(context, id)
	if err != nil {
		return nil, err
	}
	user.Groups = codes

	return user, nil
}

/*
ActiveUser resolves the caller behind a token and refuses deactivated
accounts, so revoking access does not wait for token expiry.
*/
func (service *Service) ActiveUser(context context.Context, id string) (*User, error) {
	user, err := service.GetUser(context, id)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Forbidden("Account is not registered")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("Account is deactivated")
	}
	return user, nil
}

// CheckActive is [Service.ActiveUser] without the account, for middleware.
func (service *Service) CheckActive(context context.Context, id string) error {
	_, err := service.ActiveUser(context, id)
	return err
}

/*
CreateUser registers a new active account.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *User: The stored account
  - error: VALIDATION_ERROR or CONFLICT on duplicate username/email
*/
func (service *Service) CreateUser(context context.Context, input CreateInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, maxUsernameLength).
		Code(FieldUsername, input.Username)
	validator.Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, maxEmailLength).
		Email(FieldEmail, input.Email)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		IsAdmin:  input.IsAdmin,
		IsActive: true,
	}
	if err := service.repo.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_created",
		slog.String("user_id", user.ID),
		slog.Bool("is_admin", user.IsAdmin),
	)

	return user, nil
}

/*
DeactivateUser disables an account. Administrators cannot deactivate
themselves, which would leave the installation without a way back in.
*/
func (service *Service) DeactivateUser(context context.Context, id, actorID string) error {
	if id == actorID {
		return apperr.Unprocessable("You cannot deactivate your own account")
	}

	if err := service.repo.SetActive(context, id, false); err != nil {
		return err
	}

	service.logger.InfoContext(context, "user_deactivated",
		slog.String("user_id", id),
		slog.String("actor_id", actorID),
	)
	return nil
}

// ActivateUser re-enables a deactivated account.
func (service *Service) ActivateUser(context context.Context, id string) error {
	if err := service.repo.SetActive(context, id, true); err != nil {
		return err
	}
	service.logger.InfoContext(context, "user_activated", slog.String("user_id", id))
	return nil
}
