// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

import (
	"errors"
	"log/slog"
	"slices"
)

// Machine owns one table for the duration of an editing session.
//
// # Concurrency
//
// Machine is not safe for concurrent use. Each editing session owns its own
// instance and dispatches from a single goroutine.
type Machine struct {
	state  State
	rules  []Rule
	logger *slog.Logger
}

// NewMachine wraps initial and re-derives its column flags from rules.
func NewMachine(initial State, rules []Rule, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		state:  ApplyRequirements(initial, rules),
		rules:  slices.Clone(rules),
		logger: logger,
	}
}

// ResumeMachine wraps a table reduced earlier, e.g. one loaded from a session
// store. Column flags are taken as stored so a hidden toggle survives until
// the next structural action.
func ResumeMachine(state State, rules []Rule, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		state:  state.Clone(),
		rules:  slices.Clone(rules),
		logger: logger,
	}
}

// State returns a copy of the current table.
func (m *Machine) State() State {
	return m.state.Clone()
}

// Rules returns the active rule list.
func (m *Machine) Rules() []Rule {
	return slices.Clone(m.rules)
}

/*
Dispatch reduces action against the current table.

Invalid indexes, unknown fields and uncoercible values leave the table
untouched. They are logged and returned so callers may ignore them, which
keeps in-progress edits alive when the UI sends a stray action.
*/
func (m *Machine) Dispatch(action Action) error {
	next, err := Reduce(m.state, action, m.rules)
	if err != nil {
		if errors.Is(err, ErrInvalidIndex) {
			m.logger.Error("dataentry_invalid_index",
				slog.String("action", action.Name()),
				slog.Int("rows", len(m.state.Rows)),
				slog.Any("error", err),
			)
		} else {
			m.logger.Warn("dataentry_action_rejected",
				slog.String("action", action.Name()),
				slog.Any("error", err),
			)
		}
		return err
	}
	m.state = next
	return nil
}

// SetRules swaps the rule list and re-derives every column flag.
func (m *Machine) SetRules(rules []Rule) {
	m.rules = slices.Clone(rules)
	m.state = ApplyRequirements(m.state, m.rules)
}
