// Package versions saves, lists, loads and deletes named snapshots of the
// draft held by the backend.
package versions

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/draftdesk/internal/api"
	"github.com/ziadkadry99/draftdesk/internal/apperr"
	"github.com/ziadkadry99/draftdesk/internal/document"
	"github.com/ziadkadry99/draftdesk/internal/ui"
)

const (
	// Suffix is appended to version names that lack it.
	Suffix = ".json"
	// NamePrefix starts every generated version name.
	NamePrefix = "AS-"

	nameLayout = "20060102-150405"
)

var (
	// ErrBusy is returned when an operation starts while another is in flight.
	ErrBusy = errors.New("a version operation is already in progress")
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled")
)

// Backend is the subset of the API client the manager needs.
type Backend interface {
	ListVersions(ctx context.Context) ([]string, error)
	SaveVersion(ctx context.Context, name string, sections []document.Section) (string, error)
	LoadVersion(ctx context.Context, name string) (*api.VersionData, error)
	DeleteVersion(ctx context.Context, name string) error
}

// VersionInfo is one element of a listing. Timestamp is zero when the name
// does not carry one.
type VersionInfo struct {
	Name      string
	Timestamp time.Time
}

// LoadReport describes what a Load changed.
type LoadReport struct {
	Name      string
	Applied   []string
	Skipped   []string
	Untouched []string
}

// Manager coordinates version operations against a Backend and a Store.
// Only one operation runs at a time.
type Manager struct {
	backend  Backend
	store    *document.Store
	notifier ui.Notifier
	logger   zerolog.Logger
	onState  func(State)

	mu     sync.Mutex
	state  State
	listed []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier surfaces load warnings to the user.
func WithNotifier(n ui.Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithStateHook is called on every state transition.
func WithStateHook(fn func(State)) Option {
	return func(m *Manager) { m.onState = fn }
}

// New creates an idle manager.
func New(backend Backend, store *document.Store, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		store:   store,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultName returns the generated name for a version saved at now.
func DefaultName(now time.Time) string {
	return NamePrefix + now.UTC().Format(nameLayout)
}

// Normalize trims name and adds Suffix when missing.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasSuffix(name, Suffix) {
		return name
	}
	return name + Suffix
}

// ParseInfo extracts the timestamp embedded in generated names.
func ParseInfo(name string) VersionInfo {
	info := VersionInfo{Name: name}
	stem := strings.TrimSuffix(name, Suffix)
	if ts, ok := strings.CutPrefix(stem, NamePrefix); ok {
		if t, err := time.Parse(nameLayout, ts); err == nil {
			info.Timestamp = t
		}
	}
	return info
}

// Save snapshots the store under name. The returned name is the one the
// backend recorded.
func (m *Manager) Save(ctx context.Context, name string) (string, error) {
	name = Normalize(name)
	if name == "" {
		return "", apperr.Validation("version", "Please enter a version name")
	}
	if slices.Contains(m.Listed(), name) {
		return "", apperr.Validation("version", fmt.Sprintf("Version %q already exists", name))
	}

	snap := m.store.GetAll()
	var saved string
	err := m.run(func() error {
		var err error
		saved, err = m.backend.SaveVersion(ctx, name, snap.Sections)
		return err
	})
	if err != nil {
		if apperr.IsStatus(err, http.StatusConflict) {
			m.remember(name)
		}
		return "", fmt.Errorf("saving version %s: %w", name, err)
	}

	m.remember(saved)
	m.logger.Info().Str("version", saved).Int("sections", len(snap.Sections)).Msg("version saved")
	return saved, nil
}

// List returns a lazy sequence of saved versions. Nothing is fetched until
// the sequence is ranged over, and every range fetches again. A fetch
// failure is yielded once as the error.
func (m *Manager) List(ctx context.Context) iter.Seq2[VersionInfo, error] {
	return func(yield func(VersionInfo, error) bool) {
		var names []string
		err := m.run(func() error {
			var err error
			names, err = m.backend.ListVersions(ctx)
			return err
		})
		if err != nil {
			yield(VersionInfo{}, fmt.Errorf("loading versions list: %w", err))
			return
		}

		m.mu.Lock()
		m.listed = slices.Clone(names)
		m.mu.Unlock()

		for _, name := range names {
			if !yield(ParseInfo(name), nil) {
				return
			}
		}
	}
}

// Listed returns the names from the most recent listing, adjusted for
// saves and deletes made since.
func (m *Manager) Listed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.listed)
}

// Load writes the sections of a saved version into the store. Sections the
// template does not know are skipped; template sections missing from the
// version keep their content.
func (m *Manager) Load(ctx context.Context, name string) (*LoadReport, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("version", "Please select a version")
	}

	var data *api.VersionData
	err := m.run(func() error {
		var err error
		data, err = m.backend.LoadVersion(ctx, name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading version %s: %w", name, err)
	}

	report := &LoadReport{Name: name}
	seen := make(map[string]bool, len(data.Sections))
	for _, sec := range data.Sections {
		if !m.store.Has(sec.Title) {
			report.Skipped = append(report.Skipped, sec.Title)
			m.logger.Warn().Str("version", name).Str("section", sec.Title).Msg("skipping section not in template")
			if m.notifier != nil {
				ui.Warn(m.notifier, "Section %q from version %s is not in the current template", sec.Title, name)
			}
			continue
		}
		if err := m.store.SetContent(sec.Title, sec.Content); err != nil {
			return report, err
		}
		seen[sec.Title] = true
		report.Applied = append(report.Applied, sec.Title)
	}
	for _, title := range m.store.Template().Titles() {
		if !seen[title] {
			report.Untouched = append(report.Untouched, title)
		}
	}

	m.logger.Info().Str("version", name).Int("applied", len(report.Applied)).Int("skipped", len(report.Skipped)).Msg("version loaded")
	return report, nil
}

// Delete removes a saved version after the user confirms. Declining returns
// ErrCancelled without contacting the backend.
func (m *Manager) Delete(ctx context.Context, name string, confirm ui.Confirmer) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("version", "Please select a version")
	}
	if confirm == nil {
		return errors.New("deleting a version requires a confirmer")
	}
	ok, err := confirm.Confirm(fmt.Sprintf("Are you sure you want to delete version %q", name))
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	err = m.run(func() error { return m.backend.DeleteVersion(ctx, name) })
	if err == nil || apperr.IsStatus(err, http.StatusNotFound) {
		m.forget(name)
	}
	if err != nil {
		return fmt.Errorf("deleting version %s: %w", name, err)
	}
	m.logger.Info().Str("version", name).Msg("version deleted")
	return nil
}

// remember adds name to the cached listing.
func (m *Manager) remember(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.listed, name) {
		m.listed = append([]string{name}, m.listed...)
	}
}

func (m *Manager) forget(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listed = slices.DeleteFunc(m.listed, func(n string) bool { return n == name || n == Normalize(name) })
}
