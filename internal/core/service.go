// Package core implements the task-board domain: normalization, validation
// and transactional persistence of users, boards, lists, cards and their
// associations.
//
// Every create path runs the same pipeline: normalize the raw body plus any
// path-derived ids onto canonical field names, validate against the entity's
// rule table, then execute parameterized SQL. Single-table writes run
// directly on the pool; board creation opens a transaction scope so the
// board and its admin association commit or roll back as a unit.
package core

import (
	sq "github.com/Masterminds/squirrel"

	"taskboard/internal/store"
	"taskboard/internal/validate"
)

// psql builds statements with Postgres positional placeholders. Parameters
// always travel out-of-band from the statement text.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DB is the store surface the service needs: pooled statements plus
// transaction scopes for multi-table writes.
type DB interface {
	store.DBTX
	store.Beginner
}

// Service carries the domain operations behind the HTTP handlers.
type Service struct {
	db DB
}

// NewService creates a Service over the given database handle.
func NewService(db DB) *Service {
	return &Service{db: db}
}

// checkRules validates rec and converts any violations into a
// ValidationFailure.
func checkRules(rules validate.RuleSet, rec validate.Record) error {
	if violations := rules.Validate(rec); len(violations) > 0 {
		return &ValidationFailure{Violations: violations}
	}
	return nil
}

// pathValues builds the path-derived override map for a normalizer,
// skipping empty values.
func pathValues(pairs ...string) map[string]any {
	vals := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			vals[pairs[i]] = pairs[i+1]
		}
	}
	return vals
}
