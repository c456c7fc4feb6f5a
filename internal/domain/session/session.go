// Package session defines the lifecycle state machine that drives one
// request from intake to completion. A session is owned by exactly one
// orchestrator instance; transitions either succeed or return an error,
// never silently mutating out of sequence.
package session

import (
	"fmt"
	"time"

	"github.com/Strob0t/Concierge/internal/domain/intent"
	"github.com/Strob0t/Concierge/internal/domain/plan"
)

// Stage is the explicit lifecycle state embedded in a session.
type Stage string

const (
	StageIntake        Stage = "intake"
	StageValidate      Stage = "validate"
	StageDraft         Stage = "draft"
	StageCheck         Stage = "check"
	StageAwaitApproval Stage = "await_approval"
	StageExecuting     Stage = "executing"
	StageReported      Stage = "reported"
	StageFailed        Stage = "failed"
)

// IsTerminal reports whether the stage is final.
func (s Stage) IsTerminal() bool {
	return s == StageReported || s == StageFailed
}

// transitions holds the legal forward edges of the lifecycle. Failed is
// reachable from any non-terminal stage and is handled separately.
var transitions = map[Stage]Stage{
	StageIntake:        StageValidate,
	StageValidate:      StageDraft,
	StageDraft:         StageCheck,
	StageCheck:         StageAwaitApproval,
	StageAwaitApproval: StageExecuting,
	StageExecuting:     StageReported,
}

// StepResult is the recorded outcome of one execution step.
type StepResult struct {
	StepID string `json:"step_id"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool { return r.Error == "" }

// State holds everything a session owns: the intent, the plan set produced
// at Draft (order-stable, never regenerated), the chosen plan, per-step
// results, and any terminal error. Callers must serialize access per
// session id.
type State struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Stage     Stage            `json:"stage"`
	Intent    *intent.Intent   `json:"intent,omitempty"`
	Plans     []plan.Candidate `json:"plans,omitempty"`
	Chosen    *plan.Candidate  `json:"chosen,omitempty"`
	Conflicts []string         `json:"conflicts,omitempty"`
	Results   []StepResult     `json:"results,omitempty"`
	Err       string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`

	// OutcomeRecorded is set once execution finishes and reports whether
	// the outcome record reached the preference learner.
	OutcomeRecorded bool `json:"outcome_recorded"`
}

// New creates a session at Intake.
func New(id, userID string, createdAt time.Time, ttl time.Duration) *State {
	return &State{
		ID:        id,
		UserID:    userID,
		Stage:     StageIntake,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(ttl),
	}
}

// Advance moves the session to the next stage, rejecting illegal moves.
func (s *State) Advance(to Stage) error {
	if next, ok := transitions[s.Stage]; !ok || next != to {
		return fmt.Errorf("illegal transition %s -> %s", s.Stage, to)
	}
	s.Stage = to
	return nil
}

// Fail moves the session to the absorbing Failed stage with a terminal
// error. Failing a terminal session is itself illegal.
func (s *State) Fail(err error) error {
	if s.Stage.IsTerminal() {
		return fmt.Errorf("cannot fail terminal session in stage %s", s.Stage)
	}
	s.Stage = StageFailed
	s.Err = err.Error()
	return nil
}

// Expired reports whether a session awaiting approval has outlived its
// window at the given instant.
func (s *State) Expired(now time.Time) bool {
	return s.Stage == StageAwaitApproval && now.After(s.ExpiresAt)
}

// ProposedPlan is the output of a successful submit: the intent, the
// generated alternatives in archetype order, and advisory conflicts.
type ProposedPlan struct {
	SessionID string           `json:"session_id"`
	Intent    *intent.Intent   `json:"intent"`
	Plans     []plan.Candidate `json:"plans"`
	Conflicts []string         `json:"conflicts"`
	Timestamp time.Time        `json:"timestamp"`
}

// ExecutionSummary is the output of approve: per-step results and whether
// an outcome record was handed to the preference learner.
type ExecutionSummary struct {
	SessionID       string       `json:"session_id"`
	Results         []StepResult `json:"results"`
	OutcomeRecorded bool         `json:"outcome_recorded"`
}
