package modclient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ivankudzin/worklance/backend/internal/domain/enums"
	"github.com/ivankudzin/worklance/backend/internal/domain/model"
)

const defaultDebounce = 100 * time.Millisecond

// Checker issues one moderation check against the gateway.
type Checker interface {
	Check(ctx context.Context, contentType, content string) (model.Verdict, error)
}

// State is a snapshot of the session visible to the caller. Verdict is
// nil until a check has resolved.
type State struct {
	Checking bool
	Verdict  *model.Verdict
	Err      error
}

func (s State) Blocked() bool {
	return s.Verdict != nil && s.Verdict.Flagged && s.Verdict.Action == enums.ActionBlocked
}

type Options struct {
	ContentType string
	Debounce    time.Duration
	CacheSize   int
	// OnUpdate is invoked outside the session lock after every state
	// change. May be nil.
	OnUpdate func(State)
}

// Session watches one input field: it debounces keystrokes, caches
// verdicts per exact text, and drops responses that arrive after a newer
// check has superseded them.
type Session struct {
	checker     Checker
	contentType string
	debounce    time.Duration
	onUpdate    func(State)

	mu      sync.Mutex
	cache   *verdictCache
	timer   *time.Timer
	seq     uint64
	applied uint64
	state   State
}

func NewSession(checker Checker, opts Options) *Session {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = string(enums.ContentTypeMessage)
	}

	return &Session{
		checker:     checker,
		contentType: contentType,
		debounce:    debounce,
		onUpdate:    opts.OnUpdate,
		cache:       newVerdictCache(opts.CacheSize),
	}
}

// SubmitChange feeds the current input value to the session. Empty or
// whitespace-only input clears all state immediately, skipping debounce
// and cache. Non-empty input arms the debounce timer, superseding any
// pending check.
func (s *Session) SubmitChange(text string) {
	trimmed := strings.TrimSpace(text)

	s.mu.Lock()
	s.stopTimerLocked()

	if trimmed == "" {
		s.seq++
		s.applied = s.seq
		s.state = State{}
		notify := s.notifyLocked()
		s.mu.Unlock()
		notify()
		return
	}

	s.timer = time.AfterFunc(s.debounce, func() {
		s.startCheck(trimmed)
	})
	s.mu.Unlock()
}

// CheckNow bypasses the debounce timer and resolves the text right away,
// for explicit submit-style actions. The returned verdict mirrors what
// the session state was updated with.
func (s *Session) CheckNow(ctx context.Context, text string) (model.Verdict, error) {
	trimmed := strings.TrimSpace(text)

	s.mu.Lock()
	s.stopTimerLocked()

	if trimmed == "" {
		s.seq++
		s.applied = s.seq
		s.state = State{}
		notify := s.notifyLocked()
		s.mu.Unlock()
		notify()
		return model.Verdict{}, nil
	}

	key := cacheKey{contentType: s.contentType, text: trimmed}
	if verdict, ok := s.cache.Get(key); ok {
		s.seq++
		s.applied = s.seq
		s.state = State{Verdict: &verdict}
		notify := s.notifyLocked()
		s.mu.Unlock()
		notify()
		return verdict, nil
	}

	s.seq++
	mySeq := s.seq
	s.state.Checking = true
	s.state.Err = nil
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()

	verdict, err := s.checker.Check(ctx, s.contentType, trimmed)
	s.applyResult(mySeq, key, verdict, err)
	return verdict, err
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close cancels any pending debounce timer.
func (s *Session) Close() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
}

// startCheck runs when the debounce window elapses without a newer
// keystroke. Cache hits resolve synchronously, misses go to the network.
func (s *Session) startCheck(trimmed string) {
	key := cacheKey{contentType: s.contentType, text: trimmed}

	s.mu.Lock()
	if verdict, ok := s.cache.Get(key); ok {
		s.seq++
		s.applied = s.seq
		s.state = State{Verdict: &verdict}
		notify := s.notifyLocked()
		s.mu.Unlock()
		notify()
		return
	}

	s.seq++
	mySeq := s.seq
	s.state.Checking = true
	s.state.Err = nil
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()

	go func() {
		verdict, err := s.checker.Check(context.Background(), s.contentType, trimmed)
		s.applyResult(mySeq, key, verdict, err)
	}()
}

// applyResult commits a finished check. A response older than the last
// applied one, or one superseded by a newer in-flight check, only feeds
// the cache and never touches the visible state.
func (s *Session) applyResult(mySeq uint64, key cacheKey, verdict model.Verdict, err error) {
	s.mu.Lock()

	if err == nil {
		s.cache.Put(key, verdict)
	}

	if mySeq <= s.applied || mySeq != s.seq {
		s.mu.Unlock()
		return
	}

	s.applied = mySeq
	if err != nil {
		// A failed call resolves with the error but keeps the previous
		// verdict, so an existing block is not lifted by a flaky network.
		s.state = State{Verdict: s.state.Verdict, Err: err}
	} else {
		s.state = State{Verdict: &verdict}
	}
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) notifyLocked() func() {
	if s.onUpdate == nil {
		return func() {}
	}
	snapshot := s.state
	callback := s.onUpdate
	return func() { callback(snapshot) }
}
