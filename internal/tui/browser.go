package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/vvka-141/dexplore/internal/explore"
	"github.com/vvka-141/dexplore/internal/i18n"
	"github.com/vvka-141/dexplore/internal/tui/components"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// BrowserOptions configure a Browser.
type BrowserOptions struct {
	Service    dexplore.MetadataService
	Store      *explore.MemoryStore
	Translator dexplore.Translator
	Logger     dexplore.Logger
	PageSize   int

	// StagingEnabled offers the staging store in the data type filter.
	StagingEnabled bool
	// TypeFilter is the initially selected data type; empty shows all.
	TypeFilter dexplore.SourceType
	// Title is shown above the list.
	Title string
}

type browserView int

const (
	viewList browserView = iota
	viewSearch
	viewDetail
)

// loadedMsg reports a finished list load.
type loadedMsg struct {
	err error
}

// openedSink receives the item-activated event of the list.
type openedSink struct {
	last *dexplore.Metadata
}

func (s *openedSink) take() (dexplore.Metadata, bool) {
	if s.last == nil {
		return dexplore.Metadata{}, false
	}
	m := *s.last
	s.last = nil
	return m, true
}

// logReporter sends load failures to the verbose log; the browser shows
// them in its status line.
type logReporter struct {
	logger dexplore.Logger
}

func (r logReporter) Report(err error) {
	if r.logger != nil {
		r.logger.Verbose("metadata list load failed: %v", err)
	}
}

// Browser is the interactive explore-data list.
type Browser struct {
	ctx      context.Context
	list     *explore.List
	store    *explore.MemoryStore
	spinner  components.LoadSpinner
	input    textinput.Model
	viewport viewport.Model
	help     help.Model
	keys     KeyMap
	opened   *openedSink
	tr       dexplore.Translator

	types   []dexplore.SourceType
	typeIdx int // -1 shows all types

	title  string
	view   browserView
	cursor int
	width  int
	height int
	err    error
	detail dexplore.Metadata
}

// NewBrowser creates a Browser. Loads run with ctx.
func NewBrowser(ctx context.Context, opts BrowserOptions) (Browser, error) {
	if opts.Store == nil {
		opts.Store = explore.NewMemoryStore(dexplore.Selection{})
	}
	if opts.Translator == nil {
		opts.Translator = i18n.MustNew(dexplore.DefaultLocale)
	}
	store := opts.Store
	sp := components.NewLoadSpinner(opts.Translator.Instant(dexplore.MsgLoading, nil))
	opened := &openedSink{}

	list, err := explore.New(explore.Deps{
		Service:    opts.Service,
		Translator: opts.Translator,
		Indicator:  sp,
		Reporter:   logReporter{logger: opts.Logger},
		Logger:     opts.Logger,
	},
		explore.WithPageSize(opts.PageSize),
		explore.WithHighlighter(Highlight),
		explore.WithEvents(explore.Events{
			OnMetadataClicked: func(m dexplore.Metadata) { opened.last = &m },
			OnResetCatalog:    store.ClearCatalog,
			OnResetTag:        store.ClearTag,
		}),
	)
	if err != nil {
		return Browser{}, err
	}

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "keyword"
	input.CharLimit = 200
	input.Cursor.SetMode(cursor.CursorStatic)

	title := opts.Title
	if title == "" {
		title = "Explore Data"
	}

	b := Browser{
		ctx:      ctx,
		list:     list,
		store:    store,
		spinner:  sp,
		input:    input,
		viewport: viewport.New(80, 20),
		help:     help.New(),
		keys:     DefaultKeyMap(),
		opened:   opened,
		tr:       opts.Translator,
		types:    explore.DataTypeFilters(opts.StagingEnabled),
		typeIdx:  -1,
		title:    title,
	}
	for i, t := range b.types {
		if t == opts.TypeFilter {
			b.typeIdx = i
		}
	}
	return b, nil
}

// Init implements tea.Model.
func (b Browser) Init() tea.Cmd {
	return tea.Batch(b.spinner.Tick, b.reloadCmd())
}

// reloadCmd re-reads the selection and loads its first page.
func (b Browser) reloadCmd() tea.Cmd {
	ctx, list, store := b.ctx, b.list, b.store
	return func() tea.Msg {
		return loadedMsg{err: list.InitializeList(ctx, store)}
	}
}

func (b Browser) pageCmd(page int) tea.Cmd {
	ctx, list := b.ctx, b.list
	cursor := dexplore.PageCursor{Page: page, Size: list.Cursor().Size}
	return func() tea.Msg {
		return loadedMsg{err: list.ChangePage(ctx, &cursor)}
	}
}

func (b Browser) typeFilter() dexplore.SourceType {
	if b.typeIdx < 0 || b.typeIdx >= len(b.types) {
		return ""
	}
	return b.types[b.typeIdx]
}

func (b Browser) rows() []dexplore.Metadata {
	return explore.FilterBySourceType(b.list.Records(), b.typeFilter())
}

// Update implements tea.Model.
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if explore.IsStale(msg.err) {
			return b, nil
		}
		b.err = msg.err
		if msg.err == nil {
			b.cursor = 0
		}
		b.clampCursor()
		return b, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.help.Width = msg.Width
		b.viewport.Width = max(msg.Width-4, 20)
		b.viewport.Height = max(msg.Height-6, 5)
		if b.view == viewDetail {
			b.viewport.SetContent(b.renderDetail())
		}
		return b, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return b, tea.Quit
		}
		switch b.view {
		case viewSearch:
			return b.updateSearch(msg)
		case viewDetail:
			return b.updateDetail(msg)
		}
		return b.updateList(msg)
	}
	return b, nil
}

func (b Browser) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		b.store.SetKeyword(b.input.Value())
		b.input.Blur()
		b.view = viewList
		return b, b.reloadCmd()
	case tea.KeyEsc:
		b.input.Blur()
		b.view = viewList
		return b, nil
	}
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd
}

func (b Browser) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Back):
		b.view = viewList
		return b, nil
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	}
	var cmd tea.Cmd
	b.viewport, cmd = b.viewport.Update(msg)
	return b, cmd
}

func (b Browser) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit

	case key.Matches(msg, b.keys.Help):
		b.help.ShowAll = !b.help.ShowAll

	case key.Matches(msg, b.keys.Up):
		if b.cursor > 0 {
			b.cursor--
		}

	case key.Matches(msg, b.keys.Down):
		if b.cursor < len(b.rows())-1 {
			b.cursor++
		}

	case key.Matches(msg, b.keys.PrevPage):
		if page := b.list.Cursor().Page; page > 0 {
			return b, b.pageCmd(page - 1)
		}

	case key.Matches(msg, b.keys.NextPage):
		if page := b.list.Cursor().Page; page+1 < b.list.PageResult().TotalPages {
			return b, b.pageCmd(page + 1)
		}

	case key.Matches(msg, b.keys.Search):
		b.view = viewSearch
		b.input.SetValue(b.store.Snapshot().Keyword)
		b.input.CursorEnd()
		return b, b.input.Focus()

	case key.Matches(msg, b.keys.Scope):
		b.store.NextSearchRange()
		return b, b.reloadCmd()

	case key.Matches(msg, b.keys.TypeFilter):
		b.typeIdx++
		if b.typeIdx >= len(b.types) {
			b.typeIdx = -1
		}
		b.clampCursor()

	case key.Matches(msg, b.keys.ResetCatalog):
		if b.list.IsSelectedCatalog() {
			b.list.ResetSelectedCatalog()
			return b, b.reloadCmd()
		}

	case key.Matches(msg, b.keys.ResetTag):
		if b.list.IsSelectedTag() {
			b.list.ResetSelectedTag()
			return b, b.reloadCmd()
		}

	case key.Matches(msg, b.keys.Open):
		rows := b.rows()
		if b.cursor >= len(rows) {
			return b, nil
		}
		b.list.ClickMetadata(rows[b.cursor])
		if m, ok := b.opened.take(); ok {
			b.detail = m
			b.view = viewDetail
			b.viewport.SetContent(b.renderDetail())
			b.viewport.GotoTop()
		}
	}
	return b, nil
}

func (b *Browser) clampCursor() {
	n := len(b.rows())
	if b.cursor >= n {
		b.cursor = n - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

// View implements tea.Model.
func (b Browser) View() string {
	var sections []string
	sections = append(sections, TitleStyle.Render(b.title), SubtitleStyle.Render(b.filterSummary()))

	if b.view == viewDetail {
		sections = append(sections, DetailBoxStyle.Render(b.viewport.View()), b.help.View(b.keys))
		return strings.Join(sections, "\n")
	}

	if b.view == viewSearch {
		sections = append(sections, b.input.View())
	}
	if s := b.spinner.View(); s != "" {
		sections = append(sections, s)
	}
	if b.err != nil {
		sections = append(sections, ErrorStyle.Render(SymbolCross+" "+b.err.Error()))
	}

	if b.list.State() != explore.StateLoading || b.list.Records() != nil {
		sections = append(sections, b.list.TotalElementsGuide(), "")
		sections = append(sections, b.renderRows())
		sections = append(sections, StatusStyle.Render(b.pageSummary()))
	}
	sections = append(sections, b.help.View(b.keys))
	return strings.Join(sections, "\n")
}

func (b Browser) filterSummary() string {
	sel := b.list.Selection()
	parts := []string{b.tr.Instant(sel.SearchRange.MessageKey(), nil)}
	if kw := strings.TrimSpace(sel.Keyword); kw != "" {
		parts = append(parts, fmt.Sprintf("%q", kw))
	}
	if b.list.IsSelectedCatalog() {
		parts = append(parts, b.tr.Instant(dexplore.MsgCatalog, nil)+": "+sel.Catalog.Name)
	}
	if b.list.IsSelectedTag() {
		parts = append(parts, b.tr.Instant(dexplore.MsgTag, nil)+": "+sel.Tag.Name)
	}
	if t := b.typeFilter(); t != "" {
		parts = append(parts, b.list.ConvertedMetadataType(t))
	}
	return strings.Join(parts, " "+SymbolBullet+" ")
}

func (b Browser) pageSummary() string {
	page := b.list.PageResult()
	return b.tr.Instant(dexplore.MsgPage, map[string]string{
		"page":       strconv.Itoa(b.list.Cursor().Page + 1),
		"totalPages": strconv.Itoa(max(page.TotalPages, 1)),
	})
}

func (b Browser) renderRows() string {
	rows := b.rows()
	if len(rows) == 0 {
		return StatusStyle.Render("  " + b.tr.Instant(dexplore.MsgEmpty, nil))
	}

	var sb strings.Builder
	for i, m := range rows {
		prefix := "  "
		name := NameStyle.Render(b.list.MetadataName(m.Name))
		if i == b.cursor {
			prefix = SelectedStyle.Render(SymbolCursor + " ")
		}
		sb.WriteString(prefix + name)
		if label := b.list.ConvertedMetadataType(m.SourceType); label != "" {
			sb.WriteString(" " + TypeLabelStyle.Render(label))
		}
		sb.WriteString(" " + b.list.MetadataCreator(m.Creator) + "\n")

		if b.list.IsEnableDescription(m) {
			sb.WriteString(DescriptionStyle.Render(b.list.MetadataDescription(m.Description)) + "\n")
		}
		if b.list.IsEnableTag(m) {
			sb.WriteString(TagStyle.Render(tagLine(m.Tags)) + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func tagLine(tags []dexplore.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = "#" + t.Name
	}
	return strings.Join(names, " ")
}

func (b Browser) renderDetail() string {
	m := b.detail
	var sb strings.Builder
	sb.WriteString(NameStyle.Render(m.Name) + "\n\n")
	fmt.Fprintf(&sb, "Type     %s\n", b.list.ConvertedMetadataType(m.SourceType))
	fmt.Fprintf(&sb, "Creator  %s\n", m.Creator)
	fmt.Fprintf(&sb, "ID       %s\n", m.ID)
	if m.HasTags() {
		fmt.Fprintf(&sb, "Tags     %s\n", tagLine(m.Tags))
	}
	if m.Description != "" {
		sb.WriteString("\n" + wordwrap.String(m.Description, max(b.viewport.Width-2, 10)) + "\n")
	}
	return sb.String()
}
