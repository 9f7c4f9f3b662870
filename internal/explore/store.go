package explore

import (
	"sync"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// MemoryStore is the shared explore view-model held by a front end.
// Lists read it through Snapshot; reset events are applied to it by the owner.
// Safe for concurrent use.
type MemoryStore struct {
	mu  sync.RWMutex
	sel dexplore.Selection
}

// NewMemoryStore creates a store seeded with sel. A missing search range is
// defaulted to ALL.
func NewMemoryStore(sel dexplore.Selection) *MemoryStore {
	if !sel.SearchRange.IsValid() {
		sel.SearchRange = dexplore.SearchRangeAll
	}
	sel.Catalog = cloneCatalog(sel.Catalog)
	sel.Tag = cloneTag(sel.Tag)
	return &MemoryStore{sel: sel}
}

// Snapshot returns a copy of the current selection.
func (s *MemoryStore) Snapshot() dexplore.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sel := s.sel
	sel.Catalog = cloneCatalog(s.sel.Catalog)
	sel.Tag = cloneTag(s.sel.Tag)
	return sel
}

func (s *MemoryStore) SetTab(tab dexplore.LnbTab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Tab = tab
}

func (s *MemoryStore) SetSearchRange(r dexplore.SearchRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.SearchRange = r
}

func (s *MemoryStore) SetKeyword(keyword string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Keyword = keyword
}

// SelectCatalog switches to the catalog tab with node selected.
func (s *MemoryStore) SelectCatalog(node dexplore.CatalogNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Tab = dexplore.LnbTabCatalog
	s.sel.Catalog = &node
}

// SelectTag switches to the tag tab with tag selected.
func (s *MemoryStore) SelectTag(tag dexplore.TagNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Tab = dexplore.LnbTabTag
	s.sel.Tag = &tag
}

func (s *MemoryStore) ClearCatalog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Catalog = nil
}

func (s *MemoryStore) ClearTag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Tag = nil
}

// NextSearchRange advances the search range in display order and returns it.
func (s *MemoryStore) NextSearchRange() dexplore.SearchRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	ranges := dexplore.SearchRanges()
	next := ranges[0]
	for i, r := range ranges {
		if r == s.sel.SearchRange {
			next = ranges[(i+1)%len(ranges)]
			break
		}
	}
	s.sel.SearchRange = next
	return next
}

var _ dexplore.SelectionStore = (*MemoryStore)(nil)
