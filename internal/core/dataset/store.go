// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataset

import (
	"context"

	"github.com/taibuivan/stager/internal/dataentry"
)

// Repository defines the persistence contract for datasets and participants.
type Repository interface {
	// BulkCreate writes every row and its grants in one transaction and
	// returns the new dataset IDs in row order.
	BulkCreate(ctx context.Context, rows []dataentry.Row, groupIDs []string, createdBy string) ([]string, error)

	List(ctx context.Context, scope Scope, filter Filter, limit, offset int) ([]*Dataset, int, error)
	FindByID(ctx context.Context, scope Scope, id string) (*Dataset, error)

	ListParticipants(ctx context.Context, scope Scope, filter ParticipantFilter, limit, offset int) ([]*Participant, int, error)
	FindParticipant(ctx context.Context, scope Scope, id string) (*Participant, error)
}
