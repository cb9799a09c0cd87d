// Package guard decides whether a protected view renders, waits, or
// redirects to sign-in. An evaluation is a tiny state machine: it starts in
// Loading, resolves synchronously to Authenticated or Unauthenticated by
// reading the session store, and stays there until the guarded location
// changes.
package guard

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/nhatpm-sg/medical/internal/session"
)

// State is the guard's position for one evaluation.
type State int

const (
	// Loading renders a neutral placeholder; no redirect yet.
	Loading State = iota
	// Authenticated renders the protected content unchanged.
	Authenticated
	// Unauthenticated redirects to sign-in.
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Notifier shows a short message to the user, the toast of the web portal.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(string)

func (f NotifierFunc) Notify(message string) { f(message) }

const (
	noticeSessionInvalid = "Your session is invalid, please sign in again"
	noticePleaseSignIn   = "Please sign in to access this page"

	defaultSignInPath = "/signin"
)

// Decision is the outcome of one guard evaluation.
type Decision struct {
	State    State
	Location string
	// User is set only when State is Authenticated.
	User *session.User
	// RedirectTo is set only when State is Unauthenticated. It points at
	// the sign-in screen and carries the originally requested location so
	// sign-in can return there afterwards.
	RedirectTo string
	// Notice is the single message shown for this evaluation, if any.
	Notice string
}

// Guard evaluates access to protected locations against the session store.
type Guard struct {
	store      session.Store
	notifier   Notifier
	signInPath string
}

type Option func(*Guard)

// WithNotifier sets where evaluation notices go. Without one they are only
// logged.
func WithNotifier(n Notifier) Option {
	return func(g *Guard) { g.notifier = n }
}

// WithSignInPath overrides the sign-in location redirects point at.
func WithSignInPath(path string) Option {
	return func(g *Guard) { g.signInPath = path }
}

func New(store session.Store, opts ...Option) *Guard {
	g := &Guard{store: store, signInPath: defaultSignInPath}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate resolves access to location. It reads only the local session
// store and never performs network I/O, so it cannot block a render.
//
// A token without a user record is an inconsistent session: it is cleared
// on the spot and treated as signed out. At most one notice is emitted per
// evaluation, the most specific one that applies.
func (g *Guard) Evaluate(ctx context.Context, location string) Decision {
	hasToken := g.store.HasToken(ctx)
	user, hasUser := g.store.CurrentUser(ctx)

	if hasToken && hasUser {
		return Decision{State: Authenticated, Location: location, User: user}
	}

	notice := noticePleaseSignIn
	if hasToken {
		// Inconsistent session: repair by clearing, so the stale token
		// cannot shadow the next sign-in.
		if err := g.store.Clear(ctx); err != nil {
			slog.ErrorContext(ctx, "Failed to clear inconsistent session", "error", err)
		}
		slog.WarnContext(ctx, "Cleared inconsistent session", "location", location)
		notice = noticeSessionInvalid
	}

	g.notify(notice)
	return Decision{
		State:      Unauthenticated,
		Location:   location,
		RedirectTo: g.redirectTarget(location),
		Notice:     notice,
	}
}

func (g *Guard) notify(message string) {
	if g.notifier != nil {
		g.notifier.Notify(message)
	}
}

func (g *Guard) redirectTarget(location string) string {
	if location == "" {
		return g.signInPath
	}
	return g.signInPath + "?from=" + url.QueryEscape(location)
}

// Watcher caches the decision for the current location, re-evaluating only
// when the location changes. This is what keeps a re-render of the same
// protected view from emitting the sign-in notice twice.
type Watcher struct {
	guard *Guard

	mu       sync.Mutex
	location string
	resolved bool
	decision Decision
}

func NewWatcher(guard *Guard) *Watcher {
	return &Watcher{guard: guard}
}

// Current returns the last decision, or a Loading decision before the first
// At call.
func (w *Watcher) Current() Decision {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.resolved {
		return Decision{State: Loading, Location: w.location}
	}
	return w.decision
}

// At returns the decision for location, evaluating only if the location
// differs from the last one seen.
func (w *Watcher) At(ctx context.Context, location string) Decision {
	w.mu.Lock()
	if w.resolved && w.location == location {
		d := w.decision
		w.mu.Unlock()
		return d
	}
	// Reset to Loading for the new location before resolving.
	w.location = location
	w.resolved = false
	w.mu.Unlock()

	decision := w.guard.Evaluate(ctx, location)

	w.mu.Lock()
	w.decision = decision
	w.resolved = true
	w.mu.Unlock()
	return decision
}
