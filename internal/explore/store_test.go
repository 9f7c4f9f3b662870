package explore_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/dexplore/internal/explore"
	"github.com/vvka-141/dexplore/internal/explore/exploretest"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewMemoryStore_DefaultsSearchRange(t *testing.T) {
	s := explore.NewMemoryStore(dexplore.Selection{})
	assert.Equal(t, dexplore.SearchRangeAll, s.Snapshot().SearchRange)

	s = explore.NewMemoryStore(dexplore.Selection{SearchRange: "BOGUS"})
	assert.Equal(t, dexplore.SearchRangeAll, s.Snapshot().SearchRange)
}

func TestMemoryStore_SnapshotIsDeepCopy(t *testing.T) {
	s := explore.NewMemoryStore(dexplore.Selection{})
	s.SelectCatalog(dexplore.CatalogNode{ID: "c1", Name: "Sales"})

	snap := s.Snapshot()
	snap.Catalog.Name = "changed"

	assert.Equal(t, "Sales", s.Snapshot().Catalog.Name)
}

func TestMemoryStore_SelectAndClear(t *testing.T) {
	s := explore.NewMemoryStore(dexplore.Selection{})

	s.SelectCatalog(dexplore.CatalogNode{ID: "c1"})
	assert.Equal(t, dexplore.LnbTabCatalog, s.Snapshot().Tab)

	s.SelectTag(dexplore.TagNode{Name: "daily"})
	snap := s.Snapshot()
	assert.Equal(t, dexplore.LnbTabTag, snap.Tab)
	require.NotNil(t, snap.Catalog)
	require.NotNil(t, snap.Tag)

	s.ClearCatalog()
	assert.Nil(t, s.Snapshot().Catalog)
	s.ClearTag()
	assert.Nil(t, s.Snapshot().Tag)
	assert.Equal(t, dexplore.LnbTabTag, s.Snapshot().Tab, "clearing keeps the tab")

	s.SetTab(dexplore.LnbTabNone)
	s.SetKeyword("k")
	s.SetSearchRange(dexplore.SearchRangeCreator)
	snap = s.Snapshot()
	assert.Equal(t, dexplore.LnbTabNone, snap.Tab)
	assert.Equal(t, "k", snap.Keyword)
	assert.Equal(t, dexplore.SearchRangeCreator, snap.SearchRange)
}

func TestMemoryStore_NextSearchRangeCycles(t *testing.T) {
	s := explore.NewMemoryStore(dexplore.Selection{})

	var seen []dexplore.SearchRange
	for range dexplore.SearchRanges() {
		seen = append(seen, s.NextSearchRange())
	}
	assert.Equal(t, []dexplore.SearchRange{
		dexplore.SearchRangeDataName,
		dexplore.SearchRangeDescription,
		dexplore.SearchRangeCreator,
		dexplore.SearchRangeAll,
	}, seen)
}

func TestMemoryStore_ResetEventsClearSelection(t *testing.T) {
	s := explore.NewMemoryStore(dexplore.Selection{})
	s.SelectCatalog(dexplore.CatalogNode{ID: "c1"})

	l, err := explore.New(explore.Deps{Service: exploretest.Returning(exploretest.Page(0, 20, 0))}, explore.WithEvents(explore.Events{
		OnResetCatalog: s.ClearCatalog,
		OnResetTag:     s.ClearTag,
	}))
	require.NoError(t, err)

	l.ResetSelectedCatalog()
	assert.Nil(t, s.Snapshot().Catalog)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := explore.NewMemoryStore(dexplore.Selection{})
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetKeyword("x")
			s.NextSearchRange()
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, "x", s.Snapshot().Keyword)
}
