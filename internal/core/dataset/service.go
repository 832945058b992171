// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/taibuivan/stager/internal/core/group"
	"github.com/taibuivan/stager/internal/dataentry"
	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/ctxutil"
	"github.com/taibuivan/stager/internal/platform/metrics"
	"github.com/taibuivan/stager/internal/platform/validate"
	"github.com/taibuivan/stager/pkg/slice"
)

// GroupDirectory resolves group codes and the caller's memberships.
// [group.Service] satisfies it.
type GroupDirectory interface {
	ResolveCodes(ctx context.Context, codes []string) ([]*group.Group, error)
	MemberCodes(ctx context.Context, userID string) ([]string, error)
}

// storageRules are the checks every persisted row must pass whatever rule
// set the client edited with: the identifying fields are NOT NULL columns.
var storageRules = []dataentry.Rule{
	{Columns: dataentry.AlwaysRequiredFields, Action: dataentry.ActionRequired},
}

// # Service Layer

// Service orchestrates bulk creation and scoped reads.
type Service struct {
	repo    Repository
	groups  GroupDirectory
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService constructs a new dataset [Service].
func NewService(repo Repository, groups GroupDirectory, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		groups:  groups,
		metrics: m,
		logger:  logger,
	}
}

// # Bulk Creation

/*
BulkCreate validates and persists a batch of rows.

Description: Rows are checked against the storage rules, linked files must
be unique within the batch, and every group code must exist. Callers that
are not admins must belong to every group they share the batch with.

Parameters:
  - context: context.Context
  - rows: []dataentry.Row
  - groupCodes: []string

Returns:
  - []string: New dataset IDs, in row order
  - error: VALIDATION_ERROR, FORBIDDEN, CONFLICT (file already linked) or INTERNAL
*/
func (service *Service) BulkCreate(context context.Context, rows []dataentry.Row, groupCodes []string) ([]string, error) {
	claims, err := ctxutil.RequireAuthUser(context)
	if err != nil {
		return nil, err
	}

	// 1. Row validation
	if err := validateRows(rows, groupCodes); err != nil {
		return nil, err
	}

	// 2. Group resolution
	groups, err := service.groups.ResolveCodes(context, groupCodes)
	if err != nil {
		return nil, err
	}

	// 3. Sharing permission
	if !claims.IsAdmin() {
		memberCodes, err := service.groups.MemberCodes(context, claims.UserID)
		if err != nil {
			return nil, err
		}
		if foreign := slice.Missing(groupCodes, memberCodes); len(foreign) > 0 {
			return nil, apperr.Forbidden(fmt.Sprintf("Not a member of: %s", strings.Join(foreign, ", ")))
		}
	}

	// 4. Persistence
	groupIDs := slice.Map(groups, func(g *group.Group) string { return g.ID })
	ids, err := service.repo.BulkCreate(context, dataentry.SubmittableRows(dataentry.State{Rows: rows}), groupIDs, claims.UserID)
	if err != nil {
		return nil, err
	}

	service.metrics.BulkRows.Add(float64(len(ids)))
	service.logger.InfoContext(context, "datasets_bulk_created",
		slog.Int("rows", len(ids)),
		slog.Any("groups", groupCodes),
	)

	return ids, nil
}

// validateRows runs the storage checks plus the constraints the table model
// cannot express on its own.
func validateRows(rows []dataentry.Row, groupCodes []string) error {
	if len(rows) == 0 {
		return validate.RequiredError(FieldRows, "At least one row is required")
	}
	if len(rows) > maxBulkRows {
		return validate.RequiredError(FieldRows, fmt.Sprintf("At most %d rows per submission", maxBulkRows))
	}

	state := dataentry.NewState(rows, groupCodes, nil, storageRules)
	if err := dataentry.Validate(state, storageRules); err != nil {
		return err
	}

	validator := &validate.Validator{}
	seen := make(map[string]int)
	for i, row := range rows {
		if row.ReadLength != nil {
			validator.PositiveWhole(apperr.CellField(i, string(dataentry.FieldReadLength)), *row.ReadLength, math.MaxInt32)
		}
		for _, file := range row.LinkedFiles {
			if first, dup := seen[file.Path]; dup {
				validator.Custom(apperr.CellField(i, string(dataentry.FieldLinkedFiles)), true,
					fmt.Sprintf("File %s is already linked to row %d", file.Path, first))
				continue
			}
			seen[file.Path] = i
		}
	}
	return validator.Err()
}

// # Scoped Reads

// scope derives the caller's visibility. Admins see everything.
func (service *Service) scope(context context.Context) (Scope, error) {
	claims, err := ctxutil.RequireAuthUser(context)
	if err != nil {
		return Scope{}, err
	}
	if claims.IsAdmin() {
		return Scope{}, nil
	}

	codes, err := service.groups.MemberCodes(context, claims.UserID)
	if err != nil {
		return Scope{}, err
	}
	return Scope{Restricted: true, Groups: codes}, nil
}

// ListDatasets retrieves the datasets visible to the caller.
func (service *Service) ListDatasets(context context.Context, filter Filter, limit, offset int) ([]*Dataset, int, error) {
	scope, err := service.scope(context)
	if err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, scope, filter, limit, offset)
}

// GetDataset retrieves one dataset. Datasets outside the caller's groups are
// reported as missing.
func (service *Service) GetDataset(context context.Context, id string) (*Dataset, error) {
	scope, err := service.scope(context)
	if err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, scope, id)
}

// ListParticipants retrieves the participants with at least one visible dataset.
func (service *Service) ListParticipants(context context.Context, filter ParticipantFilter, limit, offset int) ([]*Participant, int, error) {
	scope, err := service.scope(context)
	if err != nil {
		return nil, 0, err
	}
	return service.repo.ListParticipants(context, scope, filter, limit, offset)
}

// GetParticipant retrieves one visible participant.
func (service *Service) GetParticipant(context context.Context, id string) (*Participant, error) {
	scope, err := service.scope(context)
	if err != nil {
		return nil, err
	}
	return service.repo.FindParticipant(context, scope, id)
}
