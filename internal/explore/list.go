// Package explore implements the explore-data list: a paginated, filterable
// view over metadata records fetched from a dexplore.MetadataService.
//
// A List copies a snapshot of the shared selection state at initialization,
// builds typed query parameters from it, loads one page at a time and exposes
// pure formatters for rendering rows. Outward notifications (item activated,
// reset requests) are delivered through Events callbacks.
package explore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vvka-141/dexplore/internal/logging"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// LoadState is the loader's position in idle → loading → {populated | error-reported} → idle.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StatePopulated
	StateErrorReported
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateErrorReported:
		return "error-reported"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// Events are the list's outward notifications. Nil callbacks are skipped.
type Events struct {
	OnMetadataClicked func(dexplore.Metadata)
	OnResetCatalog    func()
	OnResetTag        func()
}

// Deps are the collaborators a List consumes.
type Deps struct {
	Service    dexplore.MetadataService
	Translator dexplore.Translator
	Indicator  dexplore.LoadingIndicator
	Reporter   dexplore.ExceptionReporter
	Logger     dexplore.Logger
}

// Option configures a List.
type Option func(*List)

// WithPageSize sets the page size used when the list is (re)initialized.
func WithPageSize(size int) Option {
	return func(l *List) {
		if size > 0 {
			l.pageSize = size
		}
	}
}

// WithHighlighter sets the marker wrapped around search matches.
func WithHighlighter(h Highlighter) Option {
	return func(l *List) {
		if h != nil {
			l.highlight = h
		}
	}
}

// WithEvents sets the outward notification callbacks.
func WithEvents(ev Events) Option {
	return func(l *List) {
		l.events = ev
	}
}

// List is the explore-data list view-model.
// Safe for concurrent use; loads may overlap and only the latest issued load
// is applied.
type List struct {
	deps      Deps
	events    Events
	highlight Highlighter
	pageSize  int

	mu sync.Mutex

	// selection snapshot, local copy
	tab         dexplore.LnbTab
	searchRange dexplore.SearchRange
	keyword     string
	catalog     *dexplore.CatalogNode
	tag         *dexplore.TagNode

	cursor     dexplore.PageCursor
	pageResult dexplore.PageInfo
	records    []dexplore.Metadata

	state   LoadState
	seq     uint64
	lastErr error
}

// New creates a List. Service is required; missing collaborators are replaced
// with no-op implementations.
func New(deps Deps, opts ...Option) (*List, error) {
	if deps.Service == nil {
		return nil, fmt.Errorf("metadata service is required: %w", dexplore.ErrInvalidConfig)
	}
	if deps.Translator == nil {
		deps.Translator = keyTranslator{}
	}
	if deps.Indicator == nil {
		deps.Indicator = noopIndicator{}
	}
	if deps.Reporter == nil {
		deps.Reporter = noopReporter{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNullLogger()
	}

	l := &List{
		deps:        deps,
		highlight:   HTMLHighlighter,
		pageSize:    dexplore.DefaultPageSize,
		searchRange: dexplore.SearchRangeAll,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.cursor = dexplore.PageCursor{Page: 0, Size: l.pageSize}
	return l, nil
}

// InitializeList copies the selection from store, resets the cursor to the
// first page and loads it.
func (l *List) InitializeList(ctx context.Context, store dexplore.SelectionStore) error {
	return l.InitializeListAt(ctx, store, dexplore.PageCursor{})
}

// InitializeListAt is InitializeList starting at cursor. A non-positive size
// uses the list's page size and a negative page starts at the first page.
func (l *List) InitializeListAt(ctx context.Context, store dexplore.SelectionStore, cursor dexplore.PageCursor) error {
	if cursor.Size <= 0 {
		cursor.Size = l.pageSize
	}
	if cursor.Page < 0 {
		cursor.Page = 0
	}
	sel := store.Snapshot()

	l.mu.Lock()
	l.tab = sel.Tab
	l.searchRange = sel.SearchRange
	if !l.searchRange.IsValid() {
		l.searchRange = dexplore.SearchRangeAll
	}
	l.keyword = sel.Keyword
	l.catalog = cloneCatalog(sel.Catalog)
	l.tag = cloneTag(sel.Tag)
	l.cursor = cursor
	params := l.buildParamsLocked()
	l.mu.Unlock()

	return l.Load(ctx, params)
}

// ChangePage moves the cursor and reloads. A nil cursor is a no-op.
func (l *List) ChangePage(ctx context.Context, cursor *dexplore.PageCursor) error {
	if cursor == nil {
		return nil
	}

	l.mu.Lock()
	l.cursor = *cursor
	params := l.buildParamsLocked()
	l.mu.Unlock()

	return l.Load(ctx, params)
}

// BuildParams derives the query for the current state.
func (l *List) BuildParams() dexplore.ListParams {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buildParamsLocked()
}

func (l *List) buildParamsLocked() dexplore.ListParams {
	params := dexplore.ListParams{
		Page: l.cursor.Page,
		Size: l.cursor.Size,
	}
	if kw := strings.TrimSpace(l.keyword); kw != "" {
		params.Search = &dexplore.SearchParam{Range: l.searchRange, Keyword: kw}
	}
	if l.isSelectedCatalogLocked() {
		params.CatalogID = l.catalog.ID
	} else if l.isSelectedTagLocked() {
		params.TagName = l.tag.Name
	}
	return params
}

// Load fetches the page described by params and applies it.
//
// On failure the error goes to the exception reporter, displayed state is
// kept and the error is returned. When a newer load was issued while this one
// was in flight, the result is dropped and ErrStaleResult is returned.
func (l *List) Load(ctx context.Context, params dexplore.ListParams) error {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.state = StateLoading
	l.mu.Unlock()

	l.deps.Indicator.Show()
	result, err := l.deps.Service.GetMetadataList(ctx, params)
	l.deps.Indicator.Hide()

	l.mu.Lock()
	if seq != l.seq {
		l.mu.Unlock()
		l.deps.Logger.Verbose("discarding stale metadata page %d (request %d superseded)", params.Page, seq)
		return dexplore.ErrStaleResult
	}

	if err != nil {
		l.state = StateErrorReported
		l.lastErr = err
		l.mu.Unlock()
		l.deps.Reporter.Report(err)
		return err
	}

	l.pageResult = result.Page
	l.records = result.Records()
	l.lastErr = nil
	l.state = StatePopulated
	l.mu.Unlock()

	l.deps.Logger.Verbose("loaded %d of %d metadata (page %d)", len(result.Records()), result.Page.TotalElements, params.Page)
	return nil
}

// State returns the loader state. Populated and error-reported are the
// idle states following a finished load.
func (l *List) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error of the last applied load, if it failed.
func (l *List) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Records returns a copy of the displayed records. Nil before the first
// successful load.
func (l *List) Records() []dexplore.Metadata {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.records == nil {
		return nil
	}
	out := make([]dexplore.Metadata, len(l.records))
	copy(out, l.records)
	return out
}

// PageResult returns the page summary of the last successful load.
func (l *List) PageResult() dexplore.PageInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pageResult
}

// Cursor returns the current page cursor.
func (l *List) Cursor() dexplore.PageCursor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor
}

// Selection returns the list's local copy of the selection state.
func (l *List) Selection() dexplore.Selection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return dexplore.Selection{
		Tab:         l.tab,
		SearchRange: l.searchRange,
		Keyword:     l.keyword,
		Catalog:     cloneCatalog(l.catalog),
		Tag:         cloneTag(l.tag),
	}
}

// ClickMetadata emits the item-activated event.
func (l *List) ClickMetadata(m dexplore.Metadata) {
	if l.events.OnMetadataClicked != nil {
		l.events.OnMetadataClicked(m)
	}
}

// ResetSelectedCatalog asks the selection owner to clear the catalog filter.
func (l *List) ResetSelectedCatalog() {
	if l.events.OnResetCatalog != nil {
		l.events.OnResetCatalog()
	}
}

// ResetSelectedTag asks the selection owner to clear the tag filter.
func (l *List) ResetSelectedTag() {
	if l.events.OnResetTag != nil {
		l.events.OnResetTag()
	}
}

// IsStale reports whether err marks a superseded load.
func IsStale(err error) bool {
	return errors.Is(err, dexplore.ErrStaleResult)
}

func cloneCatalog(c *dexplore.CatalogNode) *dexplore.CatalogNode {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func cloneTag(t *dexplore.TagNode) *dexplore.TagNode {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

type noopIndicator struct{}

func (noopIndicator) Show() {}
func (noopIndicator) Hide() {}

type noopReporter struct{}

func (noopReporter) Report(error) {}

// keyTranslator returns message keys untranslated.
type keyTranslator struct{}

func (keyTranslator) Instant(key string, _ map[string]string) string { return key }
func (keyTranslator) FormatNumber(n int64) string                    { return fmt.Sprint(n) }
