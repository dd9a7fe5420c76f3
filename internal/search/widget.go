package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadFailed:
		return "load_failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// LoadError is returned when the catalog endpoint answers with a non-2xx status.
type LoadError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("fetch catalog %s: %s", e.URL, e.Status)
}

func (e *LoadError) Unwrap() error { return ErrCatalogLoadFailed }

// Widget owns the loaded catalog and the current query. Queries are answered
// against whatever catalog is present, which is empty until a load succeeds.
type Widget struct {
	client     *http.Client
	catalogURL string
	logger     *slog.Logger

	mu      sync.RWMutex
	state   State
	catalog []Entry
	query   string
}

func NewWidget(client *http.Client, catalogURL string, logger *slog.Logger) *Widget {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Widget{
		client:     client,
		catalogURL: catalogURL,
		logger:     logger,
		catalog:    []Entry{},
	}
}

// Load fetches the catalog once. Later calls are no-ops. Failures are logged,
// leave the catalog empty and are not retried.
func (w *Widget) Load(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateIdle {
		w.mu.Unlock()
		return nil
	}
	w.state = StateLoading
	w.mu.Unlock()

	entries, err := w.fetch(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = StateLoadFailed
		w.logger.Error("search catalog load failed", "url", w.catalogURL, "error", err)
		return err
	}
	w.catalog = entries
	w.state = StateReady
	w.logger.Debug("search catalog loaded", "url", w.catalogURL, "entries", len(entries))
	return nil
}

func (w *Widget) fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.catalogURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrCatalogLoadFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogLoadFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{URL: w.catalogURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return ReadCatalog(resp.Body)
}

// SetQuery records the query and returns the freshly filtered results.
func (w *Widget) SetQuery(query string) []Entry {
	w.mu.Lock()
	w.query = query
	catalog := w.catalog
	w.mu.Unlock()
	return Filter(catalog, query)
}

// Results recomputes the result set for the current query and catalog.
func (w *Widget) Results() []Entry {
	w.mu.RLock()
	catalog, query := w.catalog, w.query
	w.mu.RUnlock()
	return Filter(catalog, query)
}

func (w *Widget) Query() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.query
}

func (w *Widget) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Len reports the number of loaded catalog entries.
func (w *Widget) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.catalog)
}
