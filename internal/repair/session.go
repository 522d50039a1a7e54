// Package repair drives the interactive fix/skip/abort loop over detected
// issues.
//
// A session works on a clone of the caller's document. Issues are presented
// in ascending line order and never re-detected while the session runs. When
// the user aborts, the clone is discarded and the caller's document is left
// exactly as it was.
package repair

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"csvmend/internal/diag"
	"csvmend/internal/fix"
	"csvmend/internal/prompt"
	"csvmend/internal/source"
)

// ErrInvalidIssue is returned when an issue does not address a data line of
// the document.
var ErrInvalidIssue = errors.New("issue does not address a data line")

// Asker is the part of *prompt.Prompter a session needs.
type Asker interface {
	ShowIssue(is diag.Issue)
	Confirm(question string, def bool) (bool, error)
	EditLine(n int, content string) (string, error)
	ResolveIssue(is diag.Issue, allowEdit bool) (prompt.Resolution, error)
}

// Session is a single-use repair conversation.
type Session struct {
	asker    Asker
	log      *zap.Logger
	strategy Strategy
	state    State
	newID    func() string
	onState  func(State)
}

// Option configures a Session.
type Option func(*Session)

// WithStrategy picks how each issue is decided.
func WithStrategy(st Strategy) Option {
	return func(s *Session) {
		if st != "" {
			s.strategy = st
		}
	}
}

// WithStateHook is called on every state transition.
func WithStateHook(fn func(State)) Option {
	return func(s *Session) { s.onState = fn }
}

// WithRunID overrides run id generation.
func WithRunID(fn func() string) Option {
	return func(s *Session) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewSession returns a session asking through asker. A nil logger is
// replaced by a no-op logger.
func NewSession(asker Asker, log *zap.Logger, opts ...Option) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		asker:    asker,
		log:      log.Named("repair"),
		strategy: StrategyConfirm,
		state:    StateIdle,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

func (s *Session) enter(st State) {
	s.state = st
	if s.onState != nil {
		s.onState(st)
	}
}

// Run walks issues in line order and returns the outcome. doc is never
// modified.
func (s *Session) Run(doc *source.Document, issues []diag.Issue) Outcome {
	out := Outcome{RunID: s.newID()}
	log := s.log.With(zap.String("run_id", out.RunID))

	if doc == nil {
		out.Status = StatusFailed
		out.Err = errors.New("repair: document is nil")
		return out
	}
	ordered, err := orderIssues(doc, issues)
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		s.enter(StateDone)
		return out
	}

	work := doc.Clone()
	log.Info("session started",
		zap.String("path", doc.Path()),
		zap.String("strategy", string(s.strategy)),
		zap.Int("issues", len(ordered)),
	)

	out.Decisions = make([]Decision, 0, len(ordered))
	for _, is := range ordered {
		s.enter(StatePresenting)
		dec, err := s.decide(work, is)
		if err != nil {
			log.Warn("session failed", zap.Int("line", is.Line), zap.Error(err))
			out.Status = StatusFailed
			out.Err = fmt.Errorf("line %d: %w", is.Line, err)
			s.enter(StateDone)
			return out
		}
		out.Decisions = append(out.Decisions, dec)
		log.Info("decision",
			zap.Int("line", dec.Line),
			zap.Stringer("decision", dec.Kind),
			zap.String("fix", dec.Fix),
		)
		if dec.Kind == DecisionAborted {
			out.Status = StatusCancelled
			log.Info("session aborted", zap.Int("decided", len(out.Decisions)-1))
			s.enter(StateDone)
			return out
		}
	}

	s.enter(StateDone)
	out.Document = work
	out.Status = StatusRepaired
	if len(ordered) == 0 {
		out.Status = StatusClean
	}
	log.Info("session finished",
		zap.Stringer("status", out.Status),
		zap.Int("fixed", out.Fixed()),
		zap.Int("skipped", out.Skipped()),
	)
	return out
}

func orderIssues(doc *source.Document, issues []diag.Issue) ([]diag.Issue, error) {
	ordered := make([]diag.Issue, len(issues))
	copy(ordered, issues)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Line < ordered[j].Line })
	for _, is := range ordered {
		if is.Line < 2 || is.Line > doc.Len() {
			return nil, fmt.Errorf("line %d of %d: %w", is.Line, doc.Len(), ErrInvalidIssue)
		}
	}
	return ordered, nil
}

func (s *Session) decide(work *source.Document, is diag.Issue) (Decision, error) {
	if s.strategy == StrategyMenu {
		return s.decideMenu(work, is)
	}
	return s.decideConfirm(work, is)
}

func (s *Session) decideConfirm(work *source.Document, is diag.Issue) (Decision, error) {
	s.asker.ShowIssue(is)

	s.enter(StateDeciding)
	yes, err := s.asker.Confirm(fmt.Sprintf("Fix line %d?", is.Line), true)
	if err != nil {
		return Decision{}, err
	}
	if !yes {
		s.enter(StateSkipping)
		return Skipped(is.Line), nil
	}

	text, err := s.asker.EditLine(is.Line, is.Content)
	switch {
	case errors.Is(err, prompt.ErrCancelled):
		return s.confirmAbort(is)
	case err != nil:
		return Decision{}, err
	}
	return s.apply(work, is, text)
}

func (s *Session) decideMenu(work *source.Document, is diag.Issue) (Decision, error) {
	s.enter(StateDeciding)
	res, err := s.asker.ResolveIssue(is, true)
	if err != nil {
		return Decision{}, err
	}
	switch res.Action {
	case prompt.ActionApplyFix:
		s.enter(StateApplying)
		applied, err := fix.Apply(work, is, res.FixIndex)
		if err != nil {
			return Decision{}, err
		}
		dec := Fixed(is.Line, applied.After)
		dec.Fix = applied.Title
		return dec, nil
	case prompt.ActionEdit:
		return s.apply(work, is, res.Content)
	case prompt.ActionCancel:
		return s.confirmAbort(is)
	}
	s.enter(StateSkipping)
	return Skipped(is.Line), nil
}

// confirmAbort follows an editor or menu cancel: abort the whole run, or
// just skip this issue.
func (s *Session) confirmAbort(is diag.Issue) (Decision, error) {
	abort, err := s.asker.Confirm("Abort the entire repair?", false)
	if err != nil {
		return Decision{}, err
	}
	if abort {
		s.enter(StateAborting)
		return Aborted(is.Line), nil
	}
	s.enter(StateSkipping)
	return Skipped(is.Line), nil
}

// apply overwrites the line. Text identical to the detected content changes
// nothing and counts as a skip.
func (s *Session) apply(work *source.Document, is diag.Issue, text string) (Decision, error) {
	if text == is.Content {
		s.enter(StateSkipping)
		return Skipped(is.Line), nil
	}
	s.enter(StateApplying)
	if err := work.Replace(is.Line, text); err != nil {
		return Decision{}, err
	}
	return Fixed(is.Line, text), nil
}
