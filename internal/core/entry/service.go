// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package entry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/taibuivan/stager/internal/dataentry"
	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/ctxutil"
	"github.com/taibuivan/stager/internal/platform/metrics"
	"github.com/taibuivan/stager/internal/platform/validate"
	"github.com/taibuivan/stager/pkg/uuid"
)

// Submitter persists a validated batch. [dataset.Service] satisfies it.
type Submitter interface {
	BulkCreate(ctx context.Context, rows []dataentry.Row, groups []string) ([]string, error)
}

// # Service Layer

// Service runs the data entry state machine over stored sessions.
type Service struct {
	store     SessionStore
	submitter Submitter
	ruleSets  dataentry.RuleSets
	metrics   *metrics.Metrics
	ttl       time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a new entry [Service].
func NewService(store SessionStore, submitter Submitter, ruleSets dataentry.RuleSets, m *metrics.Metrics, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		submitter: submitter,
		ruleSets:  ruleSets,
		metrics:   m,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// RuleSetNames lists the selectable rule sets.
func (service *Service) RuleSetNames() []string {
	return service.ruleSets.Names()
}

// # Session Lifecycle

/*
Open starts a session for the caller.

Description: Empty input rows become the default blank rows. The rule set
defaults to "default".

Returns:
  - *View: The new session
  - error: VALIDATION_ERROR for an unknown rule set
*/
func (service *Service) Open(context context.Context, input OpenInput) (*View, error) {
	claims, err := ctxutil.RequireAuthUser(context)
	if err != nil {
		return nil, err
	}

	name, rules, err := service.rules(input.RuleSet)
	if err != nil {
		return nil, err
	}

	now := service.now().UTC()
	session := &Session{
		ID:        uuid.New(),
		OwnerID:   claims.UserID,
		RuleSet:   name,
		State:     dataentry.NewState(input.Rows, input.Groups, nil, rules),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.store.Save(context, session, service.ttl); err != nil {
		return nil, apperr.Internal(err)
	}

	service.metrics.EntrySessions.WithLabelValues(metrics.SessionOpened).Inc()
	service.logger.InfoContext(context, "entry_session_opened",
		slog.String("session_id", session.ID),
		slog.String("rule_set", name),
		slog.Int("rows", len(session.Rows)),
	)

	return service.view(session, rules), nil
}

// Get returns the session with its derived locks and issues.
func (service *Service) Get(context context.Context, id string) (*View, error) {
	session, rules, err := service.load(context, id)
	if err != nil {
		return nil, err
	}
	return service.view(session, rules), nil
}

/*
Dispatch reduces one action against the session.

Description: An out-of-range index leaves the table untouched and is not
a failure: the unchanged view comes back together with an error matching
[dataentry.ErrInvalidIndex] so the handler can attach a warning. Unknown
fields and uncoercible values are rejected with VALIDATION_ERROR.

Returns:
  - *View: The session after the action (or unchanged)
  - error: see above
*/
func (service *Service) Dispatch(context context.Context, id string, action dataentry.Action) (*View, error) {
	session, rules, err := service.load(context, id)
	if err != nil {
		return nil, err
	}

	machine := dataentry.ResumeMachine(session.State, rules, ctxutil.GetLogger(context))
	if err := machine.Dispatch(action); err != nil {
		if errors.Is(err, dataentry.ErrInvalidIndex) {
			service.metrics.EntryActions.WithLabelValues(action.Name(), metrics.OutcomeIgnored).Inc()
			return service.view(session, rules), err
		}
		service.metrics.EntryActions.WithLabelValues(action.Name(), metrics.OutcomeRejected).Inc()
		return nil, apperr.ValidationError("Action rejected", apperr.FieldError{Field: FieldAction, Message: err.Error()})
	}

	session.State = machine.State()
	if err := service.save(context, session); err != nil {
		return nil, err
	}

	service.metrics.EntryActions.WithLabelValues(action.Name(), metrics.OutcomeApplied).Inc()
	return service.view(session, rules), nil
}

// ToggleColumn flips the hidden flag of one column.
func (service *Service) ToggleColumn(context context.Context, id, rawField string) (*View, error) {
	field, err := dataentry.ParseField(rawField)
	if err != nil {
		return nil, validate.RequiredError("field", fmt.Sprintf("Unknown field %q", rawField))
	}
	return service.Dispatch(context, id, dataentry.ToggleColumnHidden{Field: field})
}

// ChangeRuleSet switches the session to another rule set and re-derives
// every column flag.
func (service *Service) ChangeRuleSet(context context.Context, id, name string) (*View, error) {
	name, rules, err := service.rules(name)
	if err != nil {
		return nil, err
	}

	session, _, err := service.load(context, id)
	if err != nil {
		return nil, err
	}

	// Flags the new rules never touch must not keep the old set's values.
	state := session.State
	state.Columns = dataentry.DefaultColumns()

	machine := dataentry.ResumeMachine(state, nil, ctxutil.GetLogger(context))
	machine.SetRules(rules)
	session.State = machine.State()
	session.RuleSet = name

	if err := service.save(context, session); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "entry_rule_set_changed",
		slog.String("session_id", id),
		slog.String("rule_set", name),
	)
	return service.view(session, rules), nil
}

/*
Import parses a CSV document and appends or replaces rows.

Returns:
  - *View: The session after the import
  - error: VALIDATION_ERROR on "csv" for unparseable input or on "mode"
*/
func (service *Service) Import(context context.Context, id string, body io.Reader, mode dataentry.ImportMode) (*View, error) {
	switch mode {
	case dataentry.ImportAppend, dataentry.ImportReplace:
	case "":
		mode = dataentry.ImportAppend
	default:
		return nil, validate.RequiredError(FieldMode, "Must be one of: append, replace")
	}

	rows, err := dataentry.ParseCSV(body)
	if err != nil {
		return nil, validate.RequiredError(FieldCSV, err.Error())
	}

	return service.Dispatch(context, id, dataentry.ImportRows{Rows: rows, Mode: mode})
}

// Export writes the session rows as CSV.
func (service *Service) Export(context context.Context, id string, writer io.Writer) error {
	session, _, err := service.load(context, id)
	if err != nil {
		return err
	}
	return dataentry.WriteCSV(writer, session.Rows)
}

/*
Submit validates the table, hands the rows to the bulk endpoint and closes
the session.

Returns:
  - *SubmitResult: The created dataset IDs
  - error: VALIDATION_ERROR with per-cell details, or the submitter's error
*/
func (service *Service) Submit(context context.Context, id string) (*SubmitResult, error) {
	session, rules, err := service.load(context, id)
	if err != nil {
		return nil, err
	}

	if err := dataentry.Validate(session.State, rules); err != nil {
		return nil, err
	}

	ids, err := service.submitter.BulkCreate(context, dataentry.SubmittableRows(session.State), session.Groups)
	if err != nil {
		return nil, err
	}

	// The batch is stored; a stale session only costs memory until its TTL.
	if err := service.store.Delete(context, id); err != nil {
		service.logger.WarnContext(context, "entry_session_delete_failed",
			slog.String("session_id", id),
			slog.Any("error", err),
		)
	}

	service.metrics.EntrySessions.WithLabelValues(metrics.SessionSubmitted).Inc()
	service.logger.InfoContext(context, "entry_session_submitted",
		slog.String("session_id", id),
		slog.Int("datasets", len(ids)),
	)

	return &SubmitResult{SessionID: id, DatasetIDs: ids, Count: len(ids)}, nil
}

// BulkRequest validates the table and returns it in the bulk endpoint's wire
// form without submitting. The session stays open.
func (service *Service) BulkRequest(context context.Context, id string) (*BulkRequest, error) {
	session, rules, err := service.load(context, id)
	if err != nil {
		return nil, err
	}

	if err := dataentry.Validate(session.State, rules); err != nil {
		return nil, err
	}

	return &BulkRequest{
		Query: dataentry.GroupsQuery(session.State).Encode(),
		Rows:  dataentry.Payload(session.State),
	}, nil
}

// Discard deletes the session without submitting.
func (service *Service) Discard(context context.Context, id string) error {
	if _, _, err := service.load(context, id); err != nil {
		return err
	}

	if err := service.store.Delete(context, id); err != nil {
		return apperr.Internal(err)
	}

	service.metrics.EntrySessions.WithLabelValues(metrics.SessionDiscarded).Inc()
	service.logger.InfoContext(context, "entry_session_discarded", slog.String("session_id", id))
	return nil
}

// # Helpers

func (service *Service) rules(name string) (string, []dataentry.Rule, error) {
	if name == "" {
		name = dataentry.DefaultRuleSet
	}
	rules, ok := service.ruleSets.Get(name)
	if !ok {
		return "", nil, validate.RequiredError(FieldRuleSet, fmt.Sprintf("Unknown rule set %q", name))
	}
	return name, rules, nil
}

// load fetches a session the caller may access. Sessions belong to their
// owner; admins may open any.
func (service *Service) load(context context.Context, id string) (*Session, []dataentry.Rule, error) {
	claims, err := ctxutil.RequireAuthUser(context)
	if err != nil {
		return nil, nil, err
	}

	session, err := service.store.Get(context, id)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, nil, err
		}
		return nil, nil, apperr.Internal(err)
	}

	if session.OwnerID != claims.UserID && !claims.IsAdmin() {
		return nil, nil, apperr.Forbidden("Entry session belongs to another user")
	}

	rules, ok := service.ruleSets.Get(session.RuleSet)
	if !ok {
		// The rule file changed since the session was opened.
		service.logger.WarnContext(context, "entry_rule_set_missing",
			slog.String("session_id", id),
			slog.String("rule_set", session.RuleSet),
		)
		session.RuleSet = dataentry.DefaultRuleSet
		rules, _ = service.ruleSets.Get(dataentry.DefaultRuleSet)
		session.Columns = dataentry.DefaultColumns()
		session.State = dataentry.ApplyRequirements(session.State, rules)
	}

	return session, rules, nil
}

func (service *Service) save(context context.Context, session *Session) error {
	session.UpdatedAt = service.now().UTC()
	if err := service.store.Save(context, session, service.ttl); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (service *Service) view(session *Session, rules []dataentry.Rule) *View {
	issues := []apperr.FieldError{}
	if appErr := apperr.As(dataentry.Validate(session.State, rules)); appErr != nil {
		issues = appErr.Details
	}

	return &View{
		Session:     *session,
		LockedCells: dataentry.LockedCells(session.State, rules),
		Issues:      issues,
	}
}
