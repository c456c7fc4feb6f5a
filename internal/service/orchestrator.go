package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Strob0t/Concierge/internal/adapter/otel"
	"github.com/Strob0t/Concierge/internal/adapter/ws"
	"github.com/Strob0t/Concierge/internal/config"
	"github.com/Strob0t/Concierge/internal/domain"
	"github.com/Strob0t/Concierge/internal/domain/plan"
	"github.com/Strob0t/Concierge/internal/domain/profile"
	"github.com/Strob0t/Concierge/internal/domain/session"
	"github.com/Strob0t/Concierge/internal/port/approval"
	"github.com/Strob0t/Concierge/internal/port/capability"
	"github.com/Strob0t/Concierge/internal/port/conflict"
	"github.com/Strob0t/Concierge/internal/port/database"
	"github.com/Strob0t/Concierge/internal/port/executor"
	"github.com/Strob0t/Concierge/internal/port/extractor"
	"github.com/Strob0t/Concierge/internal/port/messagequeue"
)

// sessionEntry pairs a session with its own mutex. All access to the
// state goes through the mutex, so concurrent submit/approve/report calls
// for one session serialize while distinct sessions run fully in parallel.
type sessionEntry struct {
	mu    sync.Mutex
	state *session.State
}

// OrchestratorDeps bundles the collaborator ports the orchestrator drives.
type OrchestratorDeps struct {
	Extractor extractor.Extractor
	Directory capability.Directory
	Conflicts conflict.Checker
	Issuer    approval.Issuer
	Validator approval.Validator
	Executor  executor.StepExecutor
	Profiles  *ProfileService
	Store     database.Store
	Queue     messagequeue.Queue
	Hub       *ws.Hub
	Metrics   *otel.Metrics
}

// Orchestrator drives sessions through the intake-to-report lifecycle.
// Submit runs Intake through AwaitApproval synchronously; the gap until
// Approve holds no goroutine, only the in-memory session entry. A janitor
// sweeps sessions whose approval window elapsed.
type Orchestrator struct {
	cfg  config.Orchestrator
	deps OrchestratorDeps

	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	now   func() time.Time
	newID func() string
}

// NewOrchestrator creates an Orchestrator. Queue, Hub and Metrics may be
// nil in tests; everything else is required.
func NewOrchestrator(cfg config.Orchestrator, deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		deps:     deps,
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// SubmitResult is what the caller gets back from a successful submit: the
// proposed plan set plus the single-use token that must accompany approve.
type SubmitResult struct {
	Proposal      *session.ProposedPlan `json:"proposal"`
	ApprovalToken string                `json:"approval_token"`
	ExpiresAt     time.Time             `json:"expires_at"`
}

// ApproveRequest carries one human decision on a proposed plan.
type ApproveRequest struct {
	SessionID   string `json:"session_id"`
	Token       string `json:"token"`
	ChosenIndex int    `json:"chosen_index"`
	Accepted    bool   `json:"accepted"`
	Reason      string `json:"reason,omitempty"`
}

// Submit runs a raw request through Intake, Validate, Draft and Check and
// leaves the session awaiting approval. Validate fails fast when a
// capability required by the intent's category is down; Draft fails when
// no archetype yields a candidate. Conflict findings are advisory and
// attached to the proposal, never fatal.
func (s *Orchestrator) Submit(ctx context.Context, userID, rawInput string) (*SubmitResult, error) {
	id := s.newID()
	now := s.now()
	st := session.New(id, userID, now, s.cfg.SessionTTL)

	ctx, span := otel.StartSessionSpan(ctx, id, userID, "submit")
	defer span.End()

	if s.deps.Metrics != nil {
		s.deps.Metrics.SessionsStarted.Add(ctx, 1)
	}
	s.publish(ctx, messagequeue.SubjectSessionCreated, messagequeue.SessionCreatedPayload{
		SessionID: id,
		UserID:    userID,
	})

	// Validate: extract the intent and confirm every required capability
	// is up before any planning happens.
	if err := st.Advance(session.StageValidate); err != nil {
		return nil, err
	}
	in, err := s.deps.Extractor.Extract(ctx, rawInput)
	if err != nil {
		return nil, s.failSession(ctx, st, fmt.Errorf("%w: extract intent: %w", domain.ErrValidation, err))
	}
	if err := in.Validate(); err != nil {
		return nil, s.failSession(ctx, st, fmt.Errorf("%w: %w", domain.ErrValidation, err))
	}
	st.Intent = in

	for _, name := range s.deps.Directory.RequiredCapabilities(ctx, in.ActivityCategory()) {
		if !s.deps.Directory.IsAvailable(ctx, name) {
			return nil, s.failSession(ctx, st, &domain.CapabilityUnavailableError{Name: name})
		}
	}
	s.publish(ctx, messagequeue.SubjectSessionValidated, messagequeue.SessionCreatedPayload{
		SessionID: id,
		UserID:    userID,
		Category:  string(in.Category),
	})

	// Draft against a pinned availability snapshot so the plan set cannot
	// shift under the caller between draft and approve.
	if err := st.Advance(session.StageDraft); err != nil {
		return nil, err
	}
	avail := s.deps.Directory.Snapshot(ctx)

	prof, err := s.deps.Profiles.Get(ctx, userID)
	if err != nil {
		slog.Warn("profile load failed, planning without bias", "user_id", userID, "error", err)
		prof = profile.New(userID)
	}

	plans, err := plan.Generate(in, avail, prof)
	if err != nil {
		return nil, s.failSession(ctx, st, err)
	}
	st.Plans = plans
	if s.deps.Metrics != nil {
		for _, c := range plans {
			s.deps.Metrics.PlanConfidence.Record(ctx, c.Confidence)
		}
	}

	// Check: advisory only.
	if err := st.Advance(session.StageCheck); err != nil {
		return nil, err
	}
	st.Conflicts = s.deps.Conflicts.CheckConflicts(ctx, in, prof)

	if err := st.Advance(session.StageAwaitApproval); err != nil {
		return nil, err
	}
	token, err := s.deps.Issuer.Issue(ctx, id, s.cfg.SessionTTL)
	if err != nil {
		return nil, s.failSession(ctx, st, fmt.Errorf("issue approval token: %w", err))
	}

	s.mu.Lock()
	s.sessions[id] = &sessionEntry{state: st}
	s.mu.Unlock()

	s.publish(ctx, messagequeue.SubjectSessionProposed, messagequeue.SessionProposedPayload{
		SessionID: id,
		UserID:    userID,
		PlanCount: len(plans),
		Conflicts: st.Conflicts,
	})
	s.broadcast(ctx, ws.EventApprovalPending, ws.ApprovalPendingEvent{
		SessionID: id,
		UserID:    userID,
		PlanCount: len(plans),
		Conflicts: st.Conflicts,
		ExpiresAt: st.ExpiresAt,
	})

	slog.Info("session awaiting approval",
		"session_id", id,
		"user_id", userID,
		"category", in.Category,
		"plans", len(plans),
		"conflicts", len(st.Conflicts),
	)

	return &SubmitResult{
		Proposal: &session.ProposedPlan{
			SessionID: id,
			Intent:    in,
			Plans:     plans,
			Conflicts: st.Conflicts,
			Timestamp: now,
		},
		ApprovalToken: token,
		ExpiresAt:     st.ExpiresAt,
	}, nil
}

// Approve resolves the human decision on a proposed plan. Index and token
// errors leave the session untouched so the caller can retry with
// corrected input; the index is checked first because a successful token
// validation consumes the token. A rejection fails the session without
// executing anything. An acceptance executes the chosen plan's steps
// independently, records per-step results, and folds the outcome into the
// user's profile.
func (s *Orchestrator) Approve(ctx context.Context, req ApproveRequest) (*session.ExecutionSummary, error) {
	entry, ok := s.entry(req.SessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", req.SessionID, domain.ErrNotFound)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	st := entry.state

	ctx, span := otel.StartSessionSpan(ctx, st.ID, st.UserID, "approve")
	defer span.End()

	if st.Expired(s.now()) {
		s.expireLocked(ctx, entry)
		return nil, domain.ErrApprovalExpired
	}
	if st.Stage != session.StageAwaitApproval {
		return nil, fmt.Errorf("session %s in stage %s: %w", st.ID, st.Stage, domain.ErrConflict)
	}

	if req.Accepted && (req.ChosenIndex < 0 || req.ChosenIndex >= len(st.Plans)) {
		return nil, fmt.Errorf("index %d of %d plans: %w", req.ChosenIndex, len(st.Plans), domain.ErrInvalidPathIndex)
	}
	if !s.deps.Validator.Validate(ctx, req.Token, st.ID) {
		return nil, domain.ErrInvalidApprovalToken
	}

	s.audit(ctx, database.ApprovalAudit{
		SessionID:   st.ID,
		UserID:      st.UserID,
		ChosenIndex: req.ChosenIndex,
		Accepted:    req.Accepted,
		Reason:      req.Reason,
	})

	if !req.Accepted {
		return s.rejectLocked(ctx, entry, req.Reason)
	}

	if err := st.Advance(session.StageExecuting); err != nil {
		return nil, err
	}
	chosen := st.Plans[req.ChosenIndex]
	st.Chosen = &chosen

	if s.deps.Metrics != nil {
		s.deps.Metrics.SessionsApproved.Add(ctx, 1)
	}
	s.publish(ctx, messagequeue.SubjectSessionApproved, messagequeue.SessionApprovedPayload{
		SessionID:   st.ID,
		UserID:      st.UserID,
		ChosenIndex: req.ChosenIndex,
		Accepted:    true,
		Reason:      req.Reason,
	})

	st.Results = s.executeSteps(ctx, st, chosen.Steps)
	if err := st.Advance(session.StageReported); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range st.Results {
		if !r.OK() {
			failed++
		}
	}
	status := profile.OutcomeSuccess
	if failed > 0 {
		status = profile.OutcomePartialSuccess
	}

	rec := profile.OutcomeRecord{
		ID:        s.newID(),
		Category:  st.Intent.ActivityCategory(),
		Intent:    *st.Intent,
		Archetype: chosen.Archetype,
		Status:    status,
		Cost:      chosen.EstimatedCost,
		Duration:  chosen.EstimatedDuration,
		Timestamp: s.now(),
	}
	recorded := true
	if err := s.deps.Profiles.RecordOutcome(ctx, st.UserID, rec); err != nil {
		slog.Warn("outcome not recorded", "session_id", st.ID, "user_id", st.UserID, "error", err)
		recorded = false
	}
	st.OutcomeRecorded = recorded

	if s.deps.Metrics != nil {
		s.deps.Metrics.SessionDuration.Record(ctx, s.now().Sub(st.CreatedAt).Seconds())
	}
	s.publish(ctx, messagequeue.SubjectSessionCompleted, messagequeue.SessionCompletedPayload{
		SessionID: st.ID,
		UserID:    st.UserID,
		Status:    string(status),
		StepCount: len(st.Results),
		Failed:    failed,
	})
	s.broadcast(ctx, ws.EventSessionCompleted, ws.SessionCompletedEvent{
		SessionID: st.ID,
		UserID:    st.UserID,
		Status:    string(status),
		StepCount: len(st.Results),
		Failed:    failed,
	})

	slog.Info("session reported",
		"session_id", st.ID,
		"user_id", st.UserID,
		"archetype", chosen.Archetype,
		"steps", len(st.Results),
		"failed", failed,
	)

	return &session.ExecutionSummary{
		SessionID:       st.ID,
		Results:         st.Results,
		OutcomeRecorded: recorded,
	}, nil
}

// Report returns the per-step results of a completed session. Calling it
// before the session reaches Reported is an error.
func (s *Orchestrator) Report(ctx context.Context, sessionID string) (*session.ExecutionSummary, error) {
	entry, ok := s.entry(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.state.Stage != session.StageReported {
		return nil, fmt.Errorf("session %s in stage %s: %w", sessionID, entry.state.Stage, domain.ErrSessionNotReady)
	}
	return &session.ExecutionSummary{
		SessionID:       sessionID,
		Results:         entry.state.Results,
		OutcomeRecorded: entry.state.OutcomeRecorded,
	}, nil
}

// Status returns a snapshot of the session's current state.
func (s *Orchestrator) Status(_ context.Context, sessionID string) (*session.State, error) {
	entry, ok := s.entry(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	snapshot := *entry.state
	return &snapshot, nil
}

// SessionCount returns the number of sessions currently held in memory.
func (s *Orchestrator) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor launches the background sweep that expires sessions stuck
// in AwaitApproval and drops terminal sessions past their deadline. It
// stops when ctx is cancelled.
func (s *Orchestrator) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cfg.JanitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()
}

// Sweep walks all sessions once, expiring overdue approvals and releasing
// terminal sessions whose deadline passed.
func (s *Orchestrator) Sweep(ctx context.Context) {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	now := s.now()
	for _, e := range entries {
		e.mu.Lock()
		switch {
		case e.state.Expired(now):
			s.expireLocked(ctx, e)
		case e.state.Stage.IsTerminal() && now.After(e.state.ExpiresAt):
			s.remove(e.state.ID)
		}
		e.mu.Unlock()
	}
}

// executeSteps runs the chosen plan's steps with bounded parallelism.
// Steps are independent: a failure is recorded in its slot and never
// aborts siblings.
func (s *Orchestrator) executeSteps(ctx context.Context, st *session.State, steps []plan.Step) []session.StepResult {
	results := make([]session.StepResult, len(steps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxParallel)
	for i, step := range steps {
		g.Go(func() error {
			stepCtx, span := otel.StartStepSpan(ctx, st.ID, step.Action, step.Capability)
			defer span.End()

			res, err := s.deps.Executor.ExecuteStep(stepCtx, step)
			if s.deps.Metrics != nil {
				s.deps.Metrics.StepsExecuted.Add(stepCtx, 1)
			}
			if err != nil {
				if s.deps.Metrics != nil {
					s.deps.Metrics.StepsFailed.Add(stepCtx, 1)
				}
				results[i] = session.StepResult{StepID: step.Action, Error: err.Error()}
				slog.Warn("step failed",
					"session_id", st.ID,
					"action", step.Action,
					"capability", step.Capability,
					"error", err,
				)
				return nil
			}
			results[i] = session.StepResult{StepID: step.Action, Result: res}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// rejectLocked fails a session on an explicit human rejection. The caller
// holds the entry lock.
func (s *Orchestrator) rejectLocked(ctx context.Context, e *sessionEntry, reason string) (*session.ExecutionSummary, error) {
	st := e.state
	if reason == "" {
		reason = "rejected"
	}
	_ = st.Fail(fmt.Errorf("rejected: %s", reason))

	if s.deps.Metrics != nil {
		s.deps.Metrics.SessionsRejected.Add(ctx, 1)
	}
	s.publish(ctx, messagequeue.SubjectSessionRejected, messagequeue.SessionApprovedPayload{
		SessionID: st.ID,
		UserID:    st.UserID,
		Accepted:  false,
		Reason:    reason,
	})
	s.broadcast(ctx, ws.EventSessionStatus, ws.SessionStatusEvent{
		SessionID: st.ID,
		UserID:    st.UserID,
		Stage:     string(st.Stage),
		Error:     st.Err,
	})
	s.forgetTokens(st.ID)

	slog.Info("session rejected", "session_id", st.ID, "user_id", st.UserID, "reason", reason)

	return &session.ExecutionSummary{SessionID: st.ID}, nil
}

// expireLocked fails a session whose approval window elapsed and releases
// its state. The caller holds the entry lock.
func (s *Orchestrator) expireLocked(ctx context.Context, e *sessionEntry) {
	st := e.state
	_ = st.Fail(domain.ErrApprovalExpired)

	if s.deps.Metrics != nil {
		s.deps.Metrics.SessionsExpired.Add(ctx, 1)
	}
	s.publish(ctx, messagequeue.SubjectSessionExpired, messagequeue.SessionFailedPayload{
		SessionID: st.ID,
		UserID:    st.UserID,
		Stage:     string(session.StageAwaitApproval),
		Error:     st.Err,
	})
	s.broadcast(ctx, ws.EventSessionStatus, ws.SessionStatusEvent{
		SessionID: st.ID,
		UserID:    st.UserID,
		Stage:     string(st.Stage),
		Error:     st.Err,
	})
	s.remove(st.ID)

	slog.Info("session expired", "session_id", st.ID, "user_id", st.UserID)
}

// failSession moves a pre-approval session to Failed, emits the failure
// event, and returns the causing error for the caller.
func (s *Orchestrator) failSession(ctx context.Context, st *session.State, cause error) error {
	stage := string(st.Stage)
	_ = st.Fail(cause)

	if s.deps.Metrics != nil {
		s.deps.Metrics.SessionsFailed.Add(ctx, 1)
	}
	s.publish(ctx, messagequeue.SubjectSessionFailed, messagequeue.SessionFailedPayload{
		SessionID: st.ID,
		UserID:    st.UserID,
		Stage:     stage,
		Error:     cause.Error(),
	})
	s.broadcast(ctx, ws.EventSessionStatus, ws.SessionStatusEvent{
		SessionID: st.ID,
		UserID:    st.UserID,
		Stage:     string(st.Stage),
		Error:     st.Err,
	})

	slog.Warn("session failed", "session_id", st.ID, "user_id", st.UserID, "stage", stage, "error", cause)
	return cause
}

func (s *Orchestrator) entry(sessionID string) (*sessionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[sessionID]
	return e, ok
}

func (s *Orchestrator) remove(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	s.forgetTokens(sessionID)
}

// forgetTokens releases any validator bookkeeping for a finished session.
func (s *Orchestrator) forgetTokens(sessionID string) {
	if f, ok := s.deps.Validator.(interface{ Forget(sessionID string) }); ok {
		f.Forget(sessionID)
	}
}

func (s *Orchestrator) publish(ctx context.Context, subject string, payload any) {
	if s.deps.Queue == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.deps.Queue.Publish(ctx, subject, data); err != nil {
		slog.Warn("session event publish failed", "subject", subject, "error", err)
	}
}

func (s *Orchestrator) broadcast(ctx context.Context, eventType string, payload any) {
	if s.deps.Hub == nil {
		return
	}
	s.deps.Hub.BroadcastEvent(ctx, eventType, payload)
}

func (s *Orchestrator) audit(ctx context.Context, a database.ApprovalAudit) {
	if s.deps.Store == nil {
		return
	}
	if err := s.deps.Store.RecordApproval(ctx, a); err != nil {
		slog.Warn("approval audit write failed", "session_id", a.SessionID, "error", err)
	}
}
