package mocktest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emandor/mocktest_service/internal/model"
	"github.com/emandor/mocktest_service/internal/providers"
	"github.com/emandor/mocktest_service/internal/session"
	"github.com/emandor/mocktest_service/internal/telemetry"
	"github.com/emandor/mocktest_service/internal/ws"
)

// Notifier receives generation lifecycle events for a session.
type Notifier interface {
	Notify(sessionID string, event ws.Event, data any)
}

const (
	lockRetries    = 5
	lockRetryDelay = 20 * time.Millisecond
)

type nopNotifier struct{}

func (nopNotifier) Notify(string, ws.Event, any) {}

type Service struct {
	client  providers.Client
	store   session.Store
	notify  Notifier
	timeout time.Duration
	now     func() time.Time
}

// NewService wires the generation flow. A nil notifier disables events and a
// zero timeout leaves the call bounded only by ctx.
func NewService(client providers.Client, store session.Store, notify Notifier, timeout time.Duration) *Service {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &Service{client: client, store: store, notify: notify, timeout: timeout, now: time.Now}
}

func (s *Service) State(ctx context.Context, sessionID string) (session.State, error) {
	return s.store.Load(ctx, sessionID)
}

// Apply runs form actions against the stored session and saves the result.
// Inputs are frozen while a generation is in flight.
func (s *Service) Apply(ctx context.Context, sessionID string, actions ...session.Action) (session.State, error) {
	if err := s.lock(ctx, sessionID); err != nil {
		return session.State{}, err
	}
	defer s.unlock(sessionID)

	st, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return session.State{}, err
	}
	next, err := st.Apply(actions...)
	if err != nil {
		return st, err
	}
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		return st, err
	}
	return next, nil
}

// Validate checks the preconditions of a generation without any I/O.
func Validate(p model.Params, credential string) (model.Paper, error) {
	if strings.TrimSpace(p.PaperCode) == "" {
		return model.Paper{}, ErrMissingPaperSelection
	}
	paper, ok := FindPaper(p.PaperCode)
	if !ok {
		return model.Paper{}, fmt.Errorf("%w: %s", ErrUnknownPaper, p.PaperCode)
	}
	if strings.TrimSpace(credential) == "" {
		return model.Paper{}, ErrMissingCredential
	}
	return paper, nil
}

// Generate runs one generation for the session's current inputs. The
// credential is used for this single call only. On failure the session keeps
// whatever test it displayed before.
func (s *Service) Generate(ctx context.Context, sessionID, credential string) (model.GeneratedTest, error) {
	log := telemetry.L().With().Str("session_id", sessionID).Logger()

	if err := s.lock(ctx, sessionID); err != nil {
		return model.GeneratedTest{}, err
	}
	defer s.unlock(sessionID)

	st, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return model.GeneratedTest{}, err
	}
	paper, err := Validate(st.Params, credential)
	if err != nil {
		log.Info().Err(err).Msg("generation_rejected")
		return model.GeneratedTest{}, err
	}
	busy, err := st.Apply(session.StartGeneration{})
	if err != nil {
		return model.GeneratedTest{}, ErrGenerationInProgress
	}
	if err := s.store.Save(ctx, sessionID, busy); err != nil {
		return model.GeneratedTest{}, err
	}

	done := false
	defer func() {
		if done {
			return
		}
		if _, ferr := s.finish(sessionID, busy, session.FailGeneration{}); ferr != nil {
			log.Error().Err(ferr).Msg("session_fail_save_failed")
		}
		s.notify.Notify(sessionID, ws.EventGenerationFailed, map[string]any{"error": ErrGenerationFailure.Error()})
	}()

	in := InputsOf(st.Params)
	prompt := BuildPrompt(paper, in)
	s.notify.Notify(sessionID, ws.EventGenerationStarted, map[string]any{"paper": paper.Code, "remaining": in.Remaining()})
	log.Info().
		Str("paper", paper.Code).
		Int("custom", len(in.Custom)).
		Int("articles", len(in.Articles)).
		Int("topics", len(in.Topics)).
		Int("predefined", len(in.Predefined)).
		Int("remaining", in.Remaining()).
		Str("provider", string(s.client.Name())).
		Msg("generation_started")
	log.Debug().Str("prompt", prompt).Msg("prompt_full")

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	out, err := s.client.Complete(callCtx, credential, CompletionRequest(prompt))
	if err != nil {
		log.Error().Err(err).Msg("generation_failed")
		return model.GeneratedTest{}, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}

	generated := providers.ParseNumberedList(out.Text)
	test := Assemble(paper, in, generated, s.now())
	if _, err := s.finish(sessionID, busy, session.CompleteGeneration{Test: test}); err != nil {
		return model.GeneratedTest{}, err
	}
	done = true

	log.Info().
		Str("test_id", test.ID).
		Int("parsed", len(generated)).
		Int("questions", len(test.Questions)).
		Int("latency_ms", out.LatencyMs).
		Msg("generation_completed")
	s.notify.Notify(sessionID, ws.EventGenerationCompleted, test)
	return test, nil
}

// Reset discards the session's inputs and test. It is refused while a
// generation is in flight.
func (s *Service) Reset(ctx context.Context, sessionID string) (session.State, error) {
	if err := s.lock(ctx, sessionID); err != nil {
		return session.State{}, err
	}
	defer s.unlock(sessionID)

	st, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return session.State{}, err
	}
	next, err := st.Apply(session.Reset{})
	if err != nil {
		return st, err
	}
	return next, s.store.Save(ctx, sessionID, next)
}

// lock takes the session lock. A short wait covers another quick edit holding
// it; a held lock on a busy session means a generation is running.
func (s *Service) lock(ctx context.Context, sessionID string) error {
	for attempt := 0; ; attempt++ {
		ok, err := s.store.Lock(ctx, sessionID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		st, err := s.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if st.Busy || attempt >= lockRetries {
			return ErrGenerationInProgress
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
}

// unlock uses a background ctx: it must run even when the client went away.
func (s *Service) unlock(sessionID string) {
	if err := s.store.Unlock(context.Background(), sessionID); err != nil {
		log := telemetry.L().With().Str("session_id", sessionID).Logger()
		log.Error().Err(err).Msg("session_unlock_failed")
	}
}

// loadLocked loads the session while the caller holds its lock. A busy flag
// seen under the lock was left by a generation that died, so it is cleared
// and the cleared state saved.
func (s *Service) loadLocked(ctx context.Context, sessionID string) (session.State, error) {
	st, err := s.store.Load(ctx, sessionID)
	if err != nil || !st.Busy {
		return st, err
	}
	log := telemetry.L().With().Str("session_id", sessionID).Logger()
	log.Warn().Msg("stale_busy_cleared")
	cleared, err := st.Apply(session.FailGeneration{})
	if err != nil {
		return st, err
	}
	return cleared, s.store.Save(ctx, sessionID, cleared)
}

// finish applies the closing action to the busy state and saves it. The lock
// is still held, so nothing else wrote the session meanwhile.
func (s *Service) finish(sessionID string, busy session.State, a session.Action) (session.State, error) {
	next, err := busy.Apply(a)
	if err != nil {
		return busy, err
	}
	return next, s.store.Save(context.Background(), sessionID, next)
}

// CurrentTest returns the test the session is displaying.
func (s *Service) CurrentTest(ctx context.Context, sessionID string) (model.GeneratedTest, error) {
	st, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return model.GeneratedTest{}, err
	}
	if st.Test == nil {
		return model.GeneratedTest{}, ErrNoTest
	}
	return *st.Test, nil
}

// IsValidation reports whether err is a user input problem rather than a
// failure of the service or the completion endpoint.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingPaperSelection) ||
		errors.Is(err, ErrUnknownPaper) ||
		errors.Is(err, ErrUnknownQuestion) ||
		errors.Is(err, ErrMissingCredential)
}
