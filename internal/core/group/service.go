// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/ctxutil"
	"github.com/taibuivan/stager/internal/platform/validate"
	"github.com/taibuivan/stager/pkg/slice"
	"github.com/taibuivan/stager/pkg/slug"
	"github.com/taibuivan/stager/pkg/uuid"
)

// # Service Layer

// Service orchestrates business rules for permission groups.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new group [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Group Management

// ListGroups retrieves a paginated list of groups.
func (service *Service) ListGroups(context context.Context, filter Filter, limit, offset int) ([]*Group, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
GetGroup retrieves a group by its UUID or its code.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *Group: Hydrated group entity
  - error: NOT_FOUND if missing
*/
func (service *Service) GetGroup(context context.Context, identifier string) (*Group, error) {
	if uuidLike(identifier) {
		return service.repo.FindByID(context, identifier)
	}
	return service.repo.FindByCode(context, identifier)
}

/*
CreateGroup registers a new permission group.

Description: The code is taken from the input or derived from the name with
[slug.Code]; either way it must be a short identifier.

Returns:
  - *Group: The stored group
  - error: VALIDATION_ERROR or CONFLICT on duplicate code
*/
func (service *Service) CreateGroup(context context.Context, input CreateInput) (*Group, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = slug.Code(name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, maxNameLength)
	validator.Required(FieldCode, code).MaxLen(FieldCode, code, maxCodeLength)
	if code != "" {
		validator.Code(FieldCode, code)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	group := &Group{ID: uuid.New(), Code: code, Name: name}
	if err := service.repo.Create(context, group); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "group_created",
		slog.String("group_id", group.ID),
		slog.String("code", group.Code),
	)

	return group, nil
}

/*
ResolveCodes maps group codes to groups, failing with a VALIDATION_ERROR on
the "groups" field that names every unknown code.
*/
func (service *Service) ResolveCodes(context context.Context, codes []string) ([]*Group, error) {
	if len(codes) == 0 {
		return []*Group{}, nil
	}

	groups, err := service.repo.FindByCodes(context, codes)
	if err != nil {
		return nil, err
	}

	found := slice.Map(groups, func(group *Group) string { return group.Code })
	if missing := slice.Missing(codes, found); len(missing) > 0 {
		return nil, validate.RequiredError(FieldGroups, fmt.Sprintf("Unknown group codes: %s", strings.Join(missing, ", ")))
	}

	return groups, nil
}

// # Membership Controls

// ListMembers returns the roster of a group.
func (service *Service) ListMembers(context context.Context, groupID string) ([]*Member, error) {
	if _, err := service.repo.FindByID(context, groupID); err != nil {
		return nil, err
	}
	return service.repo.ListMembers(context, groupID)
}

// AddMember adds a user to a group. The user must exist.
func (service *Service) AddMember(context context.Context, groupID string, input MemberInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldUserID, input.UserID).UUID(FieldUserID, input.UserID)
	if err := validator.Err(); err != nil {
		return err
	}

	if _, err := service.repo.FindByID(context, groupID); err != nil {
		return err
	}

	if err := service.repo.AddMember(context, groupID, input.UserID); err != nil {
		// A foreign key violation means the user does not exist.
		if appErr := apperr.As(err); appErr != nil && appErr.Code == "UNPROCESSABLE" {
			return apperr.NotFound("User")
		}
		return err
	}

	service.logger.InfoContext(context, "group_member_added",
		slog.String("group_id", groupID),
		slog.String("user_id", input.UserID),
	)
	return nil
}

// RemoveMember removes a user from a group.
func (service *Service) RemoveMember(context context.Context, groupID, userID string) error {
	if err := service.repo.RemoveMember(context, groupID, userID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "group_member_removed",
		slog.String("group_id", groupID),
		slog.String("user_id", userID),
	)
	return nil
}

// MemberCodes returns the codes of the groups userID belongs to.
func (service *Service) MemberCodes(context context.Context, userID string) ([]string, error) {
	return service.repo.MemberCodes(context, userID)
}

// MyGroups returns the groups the caller belongs to. The entry grid offers
// these as submission targets.
func (service *Service) MyGroups(context context.Context) ([]*Group, error) {
	claims, err := ctxutil.RequireAuthUser(context)
	if err != nil {
		return nil, err
	}

	codes, err := service.repo.MemberCodes(context, claims.UserID)
	if err != nil || len(codes) == 0 {
		return []*Group{}, err
	}
	return service.repo.FindByCodes(context, codes)
}

func uuidLike(identifier string) bool {
	return len(identifier) == 36 && strings.Count(identifier, "-") == 4
}
