package persister

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/draftdesk/internal/ui"
)

// DefaultDelay is the idle interval after the last edit before a save is sent.
const DefaultDelay = 1000 * time.Millisecond

// Saver pushes one section's content to the backend.
type Saver interface {
	UpdateSection(ctx context.Context, section, content string) error
}

// ContentSource returns the latest content of a section.
type ContentSource interface {
	Get(title string) (string, error)
}

// Persister coalesces rapid edits into one save per section. Each section
// has its own debounce timer, so edits to one section never delay or cancel
// another section's pending save.
type Persister struct {
	saver    Saver
	source   ContentSource
	delay    time.Duration
	notifier ui.Notifier
	logger   zerolog.Logger
	ctx      context.Context

	afterSave func(ctx context.Context, title string)

	mu         sync.Mutex
	debouncers map[string]func(func())
	pending    map[string]bool
	// inflight counts timer saves running now; idle is signalled when it
	// drops to zero. Both are guarded by mu.
	inflight int
	idle     *sync.Cond
}

// Option configures a Persister.
type Option func(*Persister)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(p *Persister) { p.delay = d }
}

// WithNotifier surfaces save failures to the user.
func WithNotifier(n ui.Notifier) Option {
	return func(p *Persister) { p.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Persister) { p.logger = l }
}

// WithContext sets the context timer-triggered saves run under.
func WithContext(ctx context.Context) Option {
	return func(p *Persister) { p.ctx = ctx }
}

// WithAfterSave runs fn after every successful save.
func WithAfterSave(fn func(ctx context.Context, title string)) Option {
	return func(p *Persister) { p.afterSave = fn }
}

// New creates a Persister reading content from source and writing through saver.
func New(saver Saver, source ContentSource, opts ...Option) *Persister {
	p := &Persister{
		saver:      saver,
		source:     source,
		delay:      DefaultDelay,
		notifier:   &ui.Recorder{},
		logger:     zerolog.Nop(),
		ctx:        context.Background(),
		debouncers: make(map[string]func(func())),
		pending:    make(map[string]bool),
	}
	p.idle = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Schedule (re)starts the debounce timer for title. Only the content
// present when the timer fires is sent.
func (p *Persister) Schedule(title string) {
	p.mu.Lock()
	d, ok := p.debouncers[title]
	if !ok {
		d = debounce.New(p.delay)
		p.debouncers[title] = d
	}
	p.pending[title] = true
	p.mu.Unlock()

	d(func() { p.fire(title) })
}

func (p *Persister) fire(title string) {
	p.mu.Lock()
	if !p.pending[title] {
		// Already flushed.
		p.mu.Unlock()
		return
	}
	delete(p.pending, title)
	p.inflight++
	p.mu.Unlock()

	_ = p.save(p.ctx, title)

	p.mu.Lock()
	p.inflight--
	if p.inflight == 0 {
		p.idle.Broadcast()
	}
	p.mu.Unlock()
}

// save sends the current content of title. Failures are logged and
// surfaced, never propagated to the editor.
func (p *Persister) save(ctx context.Context, title string) error {
	content, err := p.source.Get(title)
	if err != nil {
		p.logger.Error().Err(err).Str("section", title).Msg("reading section for save")
		ui.Error(p.notifier, "Error saving section %s: %v", title, err)
		return err
	}

	start := time.Now()
	if err := p.saver.UpdateSection(ctx, title, content); err != nil {
		p.logger.Error().Err(err).Str("section", title).Msg("saving section")
		ui.Error(p.notifier, "Error saving section %s: %v", title, err)
		return fmt.Errorf("saving %s: %w", title, err)
	}
	p.logger.Debug().
		Str("section", title).
		Int("bytes", len(content)).
		Dur("elapsed", time.Since(start)).
		Msg("section saved")

	if p.afterSave != nil {
		p.afterSave(ctx, title)
	}
	return nil
}

// Flush immediately saves every section with a pending timer and waits
// for saves already in flight. The superseded timers fire as no-ops.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	titles := make([]string, 0, len(p.pending))
	for title := range p.pending {
		titles = append(titles, title)
	}
	clear(p.pending)
	p.mu.Unlock()
	sort.Strings(titles)

	var errs []error
	for _, title := range titles {
		if err := p.save(ctx, title); err != nil {
			errs = append(errs, err)
		}
	}
	p.mu.Lock()
	for p.inflight > 0 {
		p.idle.Wait()
	}
	p.mu.Unlock()
	return errors.Join(errs...)
}

// Pending returns the sections whose timer has not fired yet, sorted.
func (p *Persister) Pending() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	titles := make([]string, 0, len(p.pending))
	for title := range p.pending {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// Delay returns the debounce interval.
func (p *Persister) Delay() time.Duration { return p.delay }

// Discard drops every pending save. Their timers fire as no-ops.
func (p *Persister) Discard() {
	p.mu.Lock()
	clear(p.pending)
	p.mu.Unlock()
}
