// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dataentry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultRuleSet is the name of the rule set used when none is requested.
const DefaultRuleSet = "default"

// LegacyRuleSet names [LegacyRules].
const LegacyRuleSet = "legacy"

// RuleSets maps a rule set name to its ordered rules.
type RuleSets map[string][]Rule

// BuiltinRuleSets returns the rule sets compiled into the binary.
func BuiltinRuleSets() RuleSets {
	return RuleSets{
		DefaultRuleSet: DefaultRules(),
		LegacyRuleSet:  LegacyRules(),
	}
}

// Get returns the named rule set.
func (s RuleSets) Get(name string) ([]Rule, bool) {
	if name == "" {
		name = DefaultRuleSet
	}
	rules, ok := s[name]
	return rules, ok
}

// Names returns the rule set names in lexical order.
func (s RuleSets) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a new registry where sets from other replace same-named sets.
func (s RuleSets) Merge(other RuleSets) RuleSets {
	out := make(RuleSets, len(s)+len(other))
	for name, rules := range s {
		out[name] = rules
	}
	for name, rules := range other {
		out[name] = rules
	}
	return out
}

// # YAML Documents

// ruleFile is the YAML document shape:
//
//	rule_sets:
//	  clinical:
//	    - columns: [RIN, DV200]
//	      action: required
//	      when:
//	        any_row: {field: dataset_type, equals: RRS}
type ruleFile struct {
	RuleSets map[string][]ruleSpec `yaml:"rule_sets"`
}

type ruleSpec struct {
	Columns        []string     `yaml:"columns"`
	Action         string       `yaml:"action"`
	When           *whenSpec    `yaml:"when"`
	LocksRowsWhere *rowCondSpec `yaml:"locks_rows_where"`
}

type whenSpec struct {
	AnyRow        *matchSpec `yaml:"any_row"`
	NoRow         *matchSpec `yaml:"no_row"`
	GroupsInclude string     `yaml:"groups_include"`
}

type matchSpec struct {
	Field  string `yaml:"field"`
	Equals string `yaml:"equals"`
}

type rowCondSpec struct {
	Field     string `yaml:"field"`
	NotEquals string `yaml:"not_equals"`
}

// LoadRuleSets parses a YAML rule file. Unknown keys, fields, actions and
// ambiguous conditions are rejected.
func LoadRuleSets(reader io.Reader) (RuleSets, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var document ruleFile
	if err := decoder.Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return RuleSets{}, nil
		}
		return nil, fmt.Errorf("dataentry: rules: %w", err)
	}

	sets := make(RuleSets, len(document.RuleSets))
	for name, specs := range document.RuleSets {
		rules := make([]Rule, 0, len(specs))
		for i, spec := range specs {
			rule, err := spec.compile()
			if err != nil {
				return nil, fmt.Errorf("dataentry: rules: %s[%d]: %w", name, i, err)
			}
			rules = append(rules, rule)
		}
		sets[name] = rules
	}
	return sets, nil
}

// LoadRuleSetsFile reads [LoadRuleSets] input from path.
func LoadRuleSetsFile(path string) (RuleSets, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataentry: rules: %w", err)
	}
	defer file.Close()
	return LoadRuleSets(file)
}

func (spec ruleSpec) compile() (Rule, error) {
	action, err := ParseRuleAction(spec.Action)
	if err != nil {
		return Rule{}, err
	}
	if len(spec.Columns) == 0 {
		return Rule{}, errors.New("rule has no columns")
	}

	rule := Rule{Action: action, Columns: make([]Field, 0, len(spec.Columns))}
	for _, name := range spec.Columns {
		field, err := ParseField(name)
		if err != nil {
			return Rule{}, err
		}
		rule.Columns = append(rule.Columns, field)
	}

	if spec.When != nil {
		if rule.Predicate, err = spec.When.compile(); err != nil {
			return Rule{}, err
		}
	}

	if spec.LocksRowsWhere != nil {
		if action != ActionDisabled {
			return Rule{}, errors.New("locks_rows_where requires action disabled")
		}
		field, err := ParseField(spec.LocksRowsWhere.Field)
		if err != nil {
			return Rule{}, err
		}
		rule.RowPredicate = RowNotEquals(field, spec.LocksRowsWhere.NotEquals)
	}

	return rule, nil
}

func (spec whenSpec) compile() (Predicate, error) {
	set := 0
	var predicate Predicate

	if spec.AnyRow != nil {
		set++
		field, err := ParseField(spec.AnyRow.Field)
		if err != nil {
			return nil, err
		}
		predicate = AnyRow(field, spec.AnyRow.Equals)
	}
	if spec.NoRow != nil {
		set++
		field, err := ParseField(spec.NoRow.Field)
		if err != nil {
			return nil, err
		}
		predicate = NoRow(field, spec.NoRow.Equals)
	}
	if spec.GroupsInclude != "" {
		set++
		predicate = GroupsInclude(spec.GroupsInclude)
	}

	if set != 1 {
		return nil, fmt.Errorf("when must set exactly one condition, got %d", set)
	}
	return predicate, nil
}
