// Package session holds the per-visitor form state as an immutable record.
// Every change goes through a named Action; Apply never mutates its receiver.
package session

import (
	"errors"

	"github.com/emandor/mocktest_service/internal/model"
)

type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseAwaitingInput Phase = "awaiting_input"
	PhaseGenerating    Phase = "generating"
	PhaseDisplaying    Phase = "displaying"
)

var (
	ErrBusy          = errors.New("generation already in progress")
	ErrNotGenerating = errors.New("no generation in progress")
)

// State is the full session record. It never carries the completion credential.
type State struct {
	Phase  Phase                `json:"phase"`
	Params model.Params         `json:"params"`
	Busy   bool                 `json:"busy"`
	Test   *model.GeneratedTest `json:"test,omitempty"`
}

// Action is one named transition of the session.
type Action interface {
	apply(State) (State, error)
}

// Apply runs the actions in order and returns the resulting state. On error
// the original state is returned untouched.
func (s State) Apply(actions ...Action) (State, error) {
	next := s.clone()
	for _, a := range actions {
		var err error
		next, err = a.apply(next)
		if err != nil {
			return s, err
		}
	}
	next.Phase = next.derivePhase()
	return next, nil
}

func (s State) derivePhase() Phase {
	switch {
	case s.Busy:
		return PhaseGenerating
	case s.Test != nil:
		return PhaseDisplaying
	case s.Params.IsEmpty():
		return PhaseIdle
	default:
		return PhaseAwaitingInput
	}
}

func (s State) clone() State {
	c := s
	if s.Params.Predefined != nil {
		c.Params.Predefined = append([]string(nil), s.Params.Predefined...)
	}
	return c
}

type SelectPaper struct{ Code string }

func (a SelectPaper) apply(s State) (State, error) {
	s.Params.PaperCode = a.Code
	return s, nil
}

type SetCustomQuestions struct{ Raw string }

func (a SetCustomQuestions) apply(s State) (State, error) {
	s.Params.CustomQuestionsRaw = a.Raw
	return s, nil
}

type SetArticleLinks struct{ Raw string }

func (a SetArticleLinks) apply(s State) (State, error) {
	s.Params.ArticleLinksRaw = a.Raw
	return s, nil
}

type SetTopics struct{ Raw string }

func (a SetTopics) apply(s State) (State, error) {
	s.Params.TopicsRaw = a.Raw
	return s, nil
}

// ToggleLatest flips one previous-year question in or out of the selection.
type ToggleLatest struct{ ID string }

func (a ToggleLatest) apply(s State) (State, error) {
	if s.Params.HasPredefined(a.ID) {
		kept := s.Params.Predefined[:0]
		for _, id := range s.Params.Predefined {
			if id != a.ID {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			kept = nil
		}
		s.Params.Predefined = kept
		return s, nil
	}
	s.Params.Predefined = append(s.Params.Predefined, a.ID)
	return s, nil
}

// SelectLatest replaces the whole selection, dropping duplicates.
type SelectLatest struct{ IDs []string }

func (a SelectLatest) apply(s State) (State, error) {
	var ids []string
	seen := map[string]struct{}{}
	for _, id := range a.IDs {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	s.Params.Predefined = ids
	return s, nil
}

type StartGeneration struct{}

func (StartGeneration) apply(s State) (State, error) {
	if s.Busy {
		return s, ErrBusy
	}
	s.Busy = true
	return s, nil
}

type CompleteGeneration struct{ Test model.GeneratedTest }

func (a CompleteGeneration) apply(s State) (State, error) {
	if !s.Busy {
		return s, ErrNotGenerating
	}
	t := a.Test
	t.Questions = append([]string(nil), a.Test.Questions...)
	s.Busy = false
	s.Test = &t
	return s, nil
}

// FailGeneration clears the busy flag and keeps any earlier test.
type FailGeneration struct{}

func (FailGeneration) apply(s State) (State, error) {
	if !s.Busy {
		return s, ErrNotGenerating
	}
	s.Busy = false
	return s, nil
}

// Reset discards the inputs and the displayed test.
type Reset struct{}

func (Reset) apply(s State) (State, error) {
	if s.Busy {
		return s, ErrBusy
	}
	return State{}, nil
}
