// Package roddom drives a live Chromium page through go-rod and exposes
// it through the dom capabilities.
//
// Element handles are remote objects; every call is a DevTools round trip.
// The dom interfaces have no error returns, so a Session records the first
// failure (see Err) and later calls on a broken session return zero
// values.
//
// Page callbacks (event listeners and animation frames) arrive on rod's
// event goroutine and are handed to a frame.Poster, normally a
// frame.Loop, so they run on the display goroutine.
package roddom

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/vango-dev/qcss/internal/errors"
	"github.com/vango-dev/qcss/pkg/frame"
)

const bindingName = "__qcssCall"

// DefaultNavigationTimeout bounds Open.
const DefaultNavigationTimeout = 30 * time.Second

// LaunchOptions configures Launch.
type LaunchOptions struct {
	// ControlURL connects to a running browser instead of launching one.
	ControlURL string

	// Bin is the browser binary. Empty means rod's lookup.
	Bin string

	// Headless hides the browser window.
	Headless bool
}

// Launch starts (or connects to) a browser.
func Launch(ctx context.Context, opts LaunchOptions) (*rod.Browser, error) {
	controlURL := opts.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(opts.Headless)
		if opts.Bin != "" {
			l = l.Bin(opts.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, errors.New("E400").Wrap(err).
				WithSuggestion("Install Chromium or pass --browser-url to connect to a running one.")
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, errors.New("E400").WithDetail(controlURL).Wrap(err)
	}
	return browser, nil
}

// Session is one page under control.
type Session struct {
	page   *rod.Page
	poster frame.Poster
	logger *slog.Logger

	mu        sync.Mutex
	err       error
	callbacks map[int]callback
	nextID    int
	stop      func() error
}

type callback struct {
	fn      func()
	oneShot bool
}

// Option configures a Session.
type Option func(*Session)

// WithPoster routes page callbacks through p. Without one they run on
// rod's event goroutine.
func WithPoster(p frame.Poster) Option {
	return func(s *Session) { s.poster = p }
}

// WithLogger sets the logger for recorded failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open navigates a new page to url and waits for it to load.
func Open(ctx context.Context, browser *rod.Browser, url string, opts ...Option) (*Session, error) {
	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, errors.New("E401").WithDetail(url).Wrap(err)
	}
	s, err := Attach(ctx, page, opts...)
	if err != nil {
		return nil, err
	}
	if err := page.Context(ctx).Timeout(DefaultNavigationTimeout).Navigate(url); err != nil {
		return nil, errors.New("E401").WithDetail(url).Wrap(err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		return nil, errors.New("E401").WithDetail(url).Wrap(err)
	}
	return s, nil
}

// Attach wraps an existing page and installs the callback binding.
func Attach(ctx context.Context, page *rod.Page, opts ...Option) (*Session, error) {
	s := &Session{
		page:      page.Context(ctx),
		logger:    slog.Default(),
		callbacks: make(map[int]callback),
	}
	for _, opt := range opts {
		opt(s)
	}

	stop, err := s.page.Expose(bindingName, func(arg gson.JSON) (interface{}, error) {
		s.invoke(arg.Int())
		return nil, nil
	})
	if err != nil {
		return nil, errors.New("E402").WithDetail("expose callback binding").Wrap(err)
	}
	s.stop = stop
	return s, nil
}

// Page returns the underlying rod page.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Document returns the dom view of the page.
func (s *Session) Document() *Document {
	return &Document{s: s}
}

// Err returns the first failure recorded by a dom call.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close removes the callback binding and closes the page.
func (s *Session) Close() error {
	if s.stop != nil {
		_ = s.stop()
	}
	return s.page.Close()
}

func (s *Session) fail(op string, err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	first := s.err == nil
	if first {
		s.err = errors.New("E402").WithDetail(op).Wrap(err)
	}
	s.mu.Unlock()
	if first {
		s.logger.Warn("roddom: browser call failed", "op", op, "error", err)
	}
}

func (s *Session) broken() bool {
	return s.Err() != nil
}

// register stores fn and returns the id the page calls it by.
func (s *Session) register(fn func(), oneShot bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.callbacks[s.nextID] = callback{fn: fn, oneShot: oneShot}
	return s.nextID
}

func (s *Session) invoke(id int) {
	s.mu.Lock()
	cb, ok := s.callbacks[id]
	if ok && cb.oneShot {
		delete(s.callbacks, id)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	if s.poster != nil {
		s.poster.Post(cb.fn)
		return
	}
	cb.fn()
}

// RequestFrame implements frame.Scheduler with the page's
// requestAnimationFrame.
func (s *Session) RequestFrame(fn func()) {
	if fn == nil || s.broken() {
		return
	}
	id := s.register(fn, true)
	_, err := s.page.Eval(fmt.Sprintf(`(id) => requestAnimationFrame(() => window.%s(id))`, bindingName), id)
	s.fail("requestAnimationFrame", err)
}

var _ frame.Scheduler = (*Session)(nil)
