package explore

import (
	"strings"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// Highlighter wraps a matched keyword for display.
type Highlighter func(match string) string

// HTMLHighlighter marks matches the way the catalog web UI does.
func HTMLHighlighter(match string) string {
	return `<span class="ddp-txt-search type-search">` + match + `</span>`
}

// AsteriskHighlighter marks matches for plain-text output.
func AsteriskHighlighter(match string) string {
	return "**" + match + "**"
}

// HighlightFirst wraps the first literal occurrence of keyword in text.
// An empty keyword or a keyword absent from text leaves text unchanged.
func HighlightFirst(text, keyword string, h Highlighter) string {
	if keyword == "" {
		return text
	}
	i := strings.Index(text, keyword)
	if i < 0 {
		return text
	}
	return text[:i] + h(keyword) + text[i+len(keyword):]
}

// IsEmptyMetadataList reports whether no records are displayed.
func (l *List) IsEmptyMetadataList() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records) == 0
}

// IsEnableTag reports whether m has tags to show.
func (l *List) IsEnableTag(m dexplore.Metadata) bool {
	return m.HasTags()
}

// IsEnableDescription reports whether m has a description to show.
func (l *List) IsEnableDescription(m dexplore.Metadata) bool {
	return m.Description != ""
}

// IsNotEmptySearchKeyword reports whether a keyword search is active.
func (l *List) IsNotEmptySearchKeyword() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeKeywordLocked() != ""
}

// IsSelectedCatalog reports whether the catalog filter applies.
func (l *List) IsSelectedCatalog() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isSelectedCatalogLocked()
}

// IsSelectedTag reports whether the tag filter applies.
func (l *List) IsSelectedTag() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isSelectedTagLocked()
}

func (l *List) isSelectedCatalogLocked() bool {
	return l.tab == dexplore.LnbTabCatalog && l.catalog != nil
}

func (l *List) isSelectedTagLocked() bool {
	return l.tab == dexplore.LnbTabTag && l.tag != nil
}

func (l *List) activeKeywordLocked() string {
	return strings.TrimSpace(l.keyword)
}

// TotalElements returns the total count with grouping separators.
func (l *List) TotalElements() string {
	l.mu.Lock()
	total := l.pageResult.TotalElements
	l.mu.Unlock()
	return l.deps.Translator.FormatNumber(total)
}

// TotalElementsGuide returns the localized result-count line.
func (l *List) TotalElementsGuide() string {
	total := l.TotalElements()

	l.mu.Lock()
	kw := l.activeKeywordLocked()
	l.mu.Unlock()

	if kw != "" {
		return l.deps.Translator.Instant(dexplore.MsgTotalSearched, map[string]string{
			"totalElements":   total,
			"searchedKeyword": kw,
		})
	}
	return l.deps.Translator.Instant(dexplore.MsgTotal, map[string]string{
		"totalElements": total,
	})
}

// MetadataName highlights the keyword in a record name.
func (l *List) MetadataName(name string) string {
	return l.highlightField(name, dexplore.SearchRangeDataName)
}

// MetadataDescription highlights the keyword in a description and prefixes it with a dash.
func (l *List) MetadataDescription(description string) string {
	return "-" + l.highlightField(description, dexplore.SearchRangeDescription)
}

// MetadataCreator highlights the keyword in a creator name.
func (l *List) MetadataCreator(creator string) string {
	return l.highlightField(creator, dexplore.SearchRangeCreator)
}

func (l *List) highlightField(text string, field dexplore.SearchRange) string {
	l.mu.Lock()
	kw := l.activeKeywordLocked()
	covers := l.searchRange.Covers(field)
	l.mu.Unlock()

	if kw == "" || !covers {
		return text
	}
	return HighlightFirst(text, kw, l.highlight)
}

// ConvertedMetadataType returns the localized label of a source type.
// Unknown source types render as an empty string.
func (l *List) ConvertedMetadataType(t dexplore.SourceType) string {
	switch t {
	case dexplore.SourceTypeEngine:
		return l.deps.Translator.Instant(dexplore.MsgTypeEngine, nil)
	case dexplore.SourceTypeJDBC:
		return l.deps.Translator.Instant(dexplore.MsgTypeJDBC, nil)
	case dexplore.SourceTypeStageDB:
		return l.deps.Translator.Instant(dexplore.MsgTypeStageDB, nil)
	}
	l.deps.Logger.Verbose("no label for source type %q", t)
	return ""
}

// DataTypeFilters returns the source types offered as list filters.
// The staging store is only offered when it is enabled.
func DataTypeFilters(stagingEnabled bool) []dexplore.SourceType {
	if stagingEnabled {
		return dexplore.SourceTypes()
	}
	return []dexplore.SourceType{dexplore.SourceTypeEngine, dexplore.SourceTypeJDBC}
}

// FilterBySourceType keeps the records of type t. An empty t keeps everything.
func FilterBySourceType(records []dexplore.Metadata, t dexplore.SourceType) []dexplore.Metadata {
	if t == "" {
		return records
	}
	out := make([]dexplore.Metadata, 0, len(records))
	for _, m := range records {
		if m.SourceType == t {
			out = append(out, m)
		}
	}
	return out
}
