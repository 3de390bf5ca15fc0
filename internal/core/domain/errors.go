package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("authentication required")
)

// FieldProblem is one rejected field or list entry.
type FieldProblem struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in a submission.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Value != "" {
			parts = append(parts, fmt.Sprintf("%s %q: %s", p.Field, p.Value, p.Message))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", p.Field, p.Message))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError returns nil when problems is empty.
func NewValidationError(problems []FieldProblem) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

func sortProblems(p []FieldProblem) []FieldProblem {
	sort.SliceStable(p, func(i, j int) bool {
		if p[i].Field != p[j].Field {
			return p[i].Field < p[j].Field
		}
		return p[i].Value < p[j].Value
	})
	return p
}

// ForbiddenError is returned when the actor's role does not allow an action.
type ForbiddenError struct {
	Action string
	Role   Role
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %s may not %s", e.Role, e.Action)
}

// ConflictError rejects a mutation that contradicts the current war state.
// War holds the state the decision was made against.
type ConflictError struct {
	Reason string
	War    *War
}

func (e *ConflictError) Error() string {
	if e.War == nil {
		return "conflict: " + e.Reason
	}
	return fmt.Sprintf("conflict on war %s (%s, %s): %s", e.War.Slug, e.War.Status, e.War.Level, e.Reason)
}

type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Ref)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NotFound(entity, ref string) error {
	return &NotFoundError{Entity: entity, Ref: ref}
}
