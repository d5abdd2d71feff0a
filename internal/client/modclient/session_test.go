package modclient

import (
	"context"
	"reflect"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/ivankudzin/worklance/backend/internal/domain/enums"
	"github.com/ivankudzin/worklance/backend/internal/domain/model"
)

type countingChecker struct {
	mu      sync.Mutex
	calls   []string
	got     chan string
	verdict model.Verdict
	err     error
}

func newCountingChecker(verdict model.Verdict) *countingChecker {
	return &countingChecker{got: make(chan string, 16), verdict: verdict}
}

func (c *countingChecker) Check(_ context.Context, _ string, content string) (model.Verdict, error) {
	c.mu.Lock()
	c.calls = append(c.calls, content)
	c.mu.Unlock()
	select {
	case c.got <- content:
	default:
	}
	return c.verdict, c.err
}

func (c *countingChecker) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

type checkReply struct {
	verdict model.Verdict
	err     error
}

type pendingCall struct {
	content string
	reply   chan checkReply
}

// scriptedChecker blocks every call until the test releases it, so the
// test controls response ordering.
type scriptedChecker struct {
	calls chan pendingCall
}

func newScriptedChecker() *scriptedChecker {
	return &scriptedChecker{calls: make(chan pendingCall, 16)}
}

func (c *scriptedChecker) Check(_ context.Context, _ string, content string) (model.Verdict, error) {
	reply := make(chan checkReply)
	c.calls <- pendingCall{content: content, reply: reply}
	res := <-reply
	return res.verdict, res.err
}

func waitForState(t *testing.T, session *Session, ok func(State) bool) State {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state := session.State()
		if ok(state) {
			return state
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state condition not reached, last state: %+v", session.State())
	return State{}
}

func flaggedVerdict() model.Verdict {
	return model.Verdict{
		Flagged:    true,
		Reasons:    []enums.Category{enums.CategoryExternalPlatform},
		Confidence: 0.95,
		Action:     enums.ActionBlocked,
		Message:    "Контакты и ссылки на мессенджеры запрещены.",
	}
}

func TestSessionDebounceCollapsesKeystrokes(t *testing.T) {
	checker := newCountingChecker(model.Verdict{Action: enums.ActionNone})
	session := NewSession(checker, Options{ContentType: "message", Debounce: 30 * time.Millisecond})
	defer session.Close()

	session.SubmitChange("п")
	session.SubmitChange("при")
	session.SubmitChange("привет")

	select {
	case content := <-checker.got:
		if content != "привет" {
			t.Fatalf("expected the latest text, got %q", content)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced check never fired")
	}

	select {
	case content := <-checker.got:
		t.Fatalf("unexpected extra check for %q", content)
	case <-time.After(100 * time.Millisecond):
	}

	if checker.callCount() != 1 {
		t.Fatalf("expected exactly one network call, got %d", checker.callCount())
	}

	waitForState(t, session, func(s State) bool { return s.Verdict != nil && !s.Checking })
}

func TestSessionEmptyInputClearsStateWithoutNetwork(t *testing.T) {
	checker := newCountingChecker(flaggedVerdict())
	session := NewSession(checker, Options{ContentType: "message", Debounce: 10 * time.Millisecond})
	defer session.Close()

	if _, err := session.CheckNow(context.Background(), "пиши в telegram"); err != nil {
		t.Fatalf("check now: %v", err)
	}
	if !session.State().Blocked() {
		t.Fatalf("expected blocked state before clearing")
	}
	calls := checker.callCount()

	session.SubmitChange("   \t  ")

	state := session.State()
	if state.Blocked() || state.Checking || state.Err != nil || state.Verdict != nil {
		t.Fatalf("expected cleared state, got %+v", state)
	}
	if checker.callCount() != calls {
		t.Fatalf("whitespace input must not hit the network")
	}

	// No debounced check may fire later either.
	time.Sleep(50 * time.Millisecond)
	if checker.callCount() != calls {
		t.Fatalf("whitespace input armed a check, calls %d -> %d", calls, checker.callCount())
	}
}

func TestSessionCacheHitSkipsNetwork(t *testing.T) {
	checker := newCountingChecker(flaggedVerdict())
	session := NewSession(checker, Options{ContentType: "message"})
	defer session.Close()

	first, err := session.CheckNow(context.Background(), "пиши в telegram")
	if err != nil {
		t.Fatalf("first check: %v", err)
	}

	second, err := session.CheckNow(context.Background(), "пиши в telegram")
	if err != nil {
		t.Fatalf("second check: %v", err)
	}

	if checker.callCount() != 1 {
		t.Fatalf("cache hit must not call the network, got %d calls", checker.callCount())
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached verdict differs: %+v vs %+v", first, second)
	}
	if !session.State().Blocked() {
		t.Fatalf("cache hit must apply the same downstream effects")
	}
}

func TestSessionStaleResponseDoesNotOverwrite(t *testing.T) {
	checker := newScriptedChecker()
	session := NewSession(checker, Options{ContentType: "message"})
	defer session.Close()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		session.CheckNow(context.Background(), "старый текст с telegram")
	}()
	callA := <-checker.calls

	go func() {
		defer wg.Done()
		session.CheckNow(context.Background(), "новый чистый текст")
	}()
	callB := <-checker.calls

	// B resolves first with a clean verdict.
	callB.reply <- checkReply{verdict: model.Verdict{Action: enums.ActionNone}}
	waitForState(t, session, func(s State) bool { return s.Verdict != nil && !s.Checking })

	// A's flagged response arrives late and must be discarded.
	callA.reply <- checkReply{verdict: flaggedVerdict()}
	wg.Wait()

	state := session.State()
	if state.Blocked() {
		t.Fatalf("stale response overwrote the newer resolved state: %+v", state)
	}
	if state.Verdict == nil || state.Verdict.Flagged {
		t.Fatalf("expected the clean verdict to stand, got %+v", state)
	}
}

func TestSessionCheckErrorIsSurfaced(t *testing.T) {
	checker := newCountingChecker(model.Verdict{})
	checker.err = context.DeadlineExceeded
	session := NewSession(checker, Options{ContentType: "message"})
	defer session.Close()

	if _, err := session.CheckNow(context.Background(), "какой-то текст"); err == nil {
		t.Fatalf("expected error from checker")
	}

	state := session.State()
	if state.Err == nil {
		t.Fatalf("expected error in session state, got %+v", state)
	}
	if state.Checking {
		t.Fatalf("checking flag must drop after a failed call")
	}

	// Errors are not cached, a retry goes back to the network.
	checker.err = nil
	if _, err := session.CheckNow(context.Background(), "какой-то текст"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if checker.callCount() != 2 {
		t.Fatalf("expected retry to hit the network, got %d calls", checker.callCount())
	}
}

func TestSessionNotifiesSubscriber(t *testing.T) {
	checker := newCountingChecker(model.Verdict{Action: enums.ActionNone})

	var mu sync.Mutex
	var states []State
	session := NewSession(checker, Options{
		ContentType: "message",
		OnUpdate: func(s State) {
			mu.Lock()
			states = append(states, s)
			mu.Unlock()
		},
	})
	defer session.Close()

	if _, err := session.CheckNow(context.Background(), "привет"); err != nil {
		t.Fatalf("check now: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(states) < 2 {
		t.Fatalf("expected checking and resolved notifications, got %d", len(states))
	}
	if !states[0].Checking {
		t.Fatalf("first notification should mark checking, got %+v", states[0])
	}
	last := states[len(states)-1]
	if last.Checking || last.Verdict == nil {
		t.Fatalf("last notification should be resolved, got %+v", last)
	}
}

func TestSessionCacheStaysBounded(t *testing.T) {
	checker := newCountingChecker(model.Verdict{Action: enums.ActionNone})
	session := NewSession(checker, Options{ContentType: "message"})
	defer session.Close()

	for i := 0; i < 101; i++ {
		if _, err := session.CheckNow(context.Background(), "вариант "+strconv.Itoa(i)); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}

	if session.cache.Len() != 100 {
		t.Fatalf("expected cache capped at 100, got %d", session.cache.Len())
	}

	// The first-inserted entry is gone, so checking it again hits the
	// network.
	calls := checker.callCount()
	if _, err := session.CheckNow(context.Background(), "вариант 0"); err != nil {
		t.Fatalf("recheck: %v", err)
	}
	if checker.callCount() != calls+1 {
		t.Fatalf("evicted entry must miss the cache")
	}
}
