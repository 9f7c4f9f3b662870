package explore_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/dexplore/internal/explore"
	"github.com/vvka-141/dexplore/internal/explore/exploretest"
	"github.com/vvka-141/dexplore/internal/i18n"
	"github.com/vvka-141/dexplore/internal/logging"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

func initialized(t *testing.T, sel dexplore.Selection, result *dexplore.MetadataListResult, opts ...explore.Option) *explore.List {
	t.Helper()
	f := newFixture(t, exploretest.Returning(result), opts...)
	require.NoError(t, f.list.InitializeList(context.Background(), exploretest.StaticStore(sel)))
	return f.list
}

func TestHighlightFirst(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    string
	}{
		{"first occurrence only", "sales_sales", "sales", "**sales**_sales"},
		{"absent keyword", "orders", "sales", "orders"},
		{"empty keyword", "orders", "", "orders"},
		{"case sensitive", "Sales", "sales", "Sales"},
		{"regex metacharacters are literal", "a.*b and ab", ".*", "a**.***b and ab"},
		{"dollar-ampersand is literal", "cost $& more", "$&", "cost **$&** more"},
		{"dollar-digit is literal", "x$1y", "$1", "x**$1**y"},
		{"multibyte", "매출_일별", "일별", "매출_**일별**"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, explore.HighlightFirst(tt.text, tt.keyword, explore.AsteriskHighlighter))
		})
	}
}

func TestMetadataName_DefaultHTMLMarker(t *testing.T) {
	l := initialized(t, dexplore.Selection{SearchRange: dexplore.SearchRangeAll, Keyword: "sales"}, exploretest.Page(0, 20, 0))
	assert.Equal(t,
		`daily_<span class="ddp-txt-search type-search">sales</span>_report`,
		l.MetadataName("daily_sales_report"))
}

func TestFieldHighlightingFollowsSearchRange(t *testing.T) {
	tests := []struct {
		rng         dexplore.SearchRange
		name        string
		description string
		creator     string
	}{
		{dexplore.SearchRangeAll, "**ab**c", "-x**ab**", "**ab**"},
		{dexplore.SearchRangeDataName, "**ab**c", "-xab", "ab"},
		{dexplore.SearchRangeDescription, "abc", "-x**ab**", "ab"},
		{dexplore.SearchRangeCreator, "abc", "-xab", "**ab**"},
	}
	for _, tt := range tests {
		t.Run(string(tt.rng), func(t *testing.T) {
			l := initialized(t,
				dexplore.Selection{SearchRange: tt.rng, Keyword: " ab "},
				exploretest.Page(0, 20, 0),
				explore.WithHighlighter(explore.AsteriskHighlighter))

			assert.Equal(t, tt.name, l.MetadataName("abc"))
			assert.Equal(t, tt.description, l.MetadataDescription("xab"))
			assert.Equal(t, tt.creator, l.MetadataCreator("ab"))
		})
	}
}

func TestFormatters_NoKeyword(t *testing.T) {
	l := initialized(t, dexplore.Selection{}, exploretest.Page(0, 20, 0))
	assert.Equal(t, "abc", l.MetadataName("abc"))
	assert.Equal(t, "-", l.MetadataDescription(""))
	assert.Equal(t, "-text", l.MetadataDescription("text"))
	assert.Equal(t, "polaris", l.MetadataCreator("polaris"))
	assert.False(t, l.IsNotEmptySearchKeyword())
}

func TestIsEmptyMetadataList(t *testing.T) {
	svc := exploretest.Returning(exploretest.Page(0, 20, 0))
	l, err := explore.New(explore.Deps{Service: svc})
	require.NoError(t, err)
	assert.True(t, l.IsEmptyMetadataList(), "nil before the first load")

	empty := initialized(t, dexplore.Selection{}, exploretest.Page(0, 20, 0))
	assert.True(t, empty.IsEmptyMetadataList())

	one := initialized(t, dexplore.Selection{}, exploretest.Page(0, 20, 1, salesDaily))
	assert.False(t, one.IsEmptyMetadataList())
}

func TestTotalElements_Grouping(t *testing.T) {
	l := initialized(t, dexplore.Selection{}, exploretest.Page(0, 20, 1234, salesDaily))
	assert.Equal(t, "1,234", l.TotalElements())
}

func TestTotalElementsGuide(t *testing.T) {
	plain := initialized(t, dexplore.Selection{}, exploretest.Page(0, 20, 1234))
	assert.Equal(t, "1,234 results", plain.TotalElementsGuide())

	searched := initialized(t, dexplore.Selection{Keyword: "  sales "}, exploretest.Page(0, 20, 3))
	assert.Equal(t, "3 results for 'sales'", searched.TotalElementsGuide())
	assert.True(t, searched.IsNotEmptySearchKeyword())
}

func TestTotalElementsGuide_Korean(t *testing.T) {
	svc := exploretest.Returning(exploretest.Page(0, 20, 5))
	l, err := explore.New(explore.Deps{Service: svc, Translator: i18n.MustNew("ko")})
	require.NoError(t, err)
	require.NoError(t, l.InitializeList(context.Background(), exploretest.StaticStore{}))

	guide := l.TotalElementsGuide()
	assert.Contains(t, guide, "5")
	assert.NotEqual(t, dexplore.MsgTotal, guide)
}

func TestPredicates(t *testing.T) {
	l := initialized(t, dexplore.Selection{}, exploretest.Page(0, 20, 0))

	assert.True(t, l.IsEnableTag(dexplore.Metadata{Tags: []dexplore.Tag{{Name: "a"}}}))
	assert.False(t, l.IsEnableTag(dexplore.Metadata{}))
	assert.False(t, l.IsEnableTag(dexplore.Metadata{Tags: []dexplore.Tag{}}))

	assert.True(t, l.IsEnableDescription(dexplore.Metadata{Description: "d"}))
	assert.False(t, l.IsEnableDescription(dexplore.Metadata{}))
}

func TestIsSelectedCatalogAndTag(t *testing.T) {
	catalog := &dexplore.CatalogNode{ID: "c1"}
	tag := &dexplore.TagNode{Name: "daily"}

	tests := []struct {
		name        string
		sel         dexplore.Selection
		wantCatalog bool
		wantTag     bool
	}{
		{"catalog tab", dexplore.Selection{Tab: dexplore.LnbTabCatalog, Catalog: catalog, Tag: tag}, true, false},
		{"tag tab", dexplore.Selection{Tab: dexplore.LnbTabTag, Catalog: catalog, Tag: tag}, false, true},
		{"catalog tab nothing selected", dexplore.Selection{Tab: dexplore.LnbTabCatalog}, false, false},
		{"no tab", dexplore.Selection{Catalog: catalog, Tag: tag}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := initialized(t, tt.sel, exploretest.Page(0, 20, 0))
			assert.Equal(t, tt.wantCatalog, l.IsSelectedCatalog())
			assert.Equal(t, tt.wantTag, l.IsSelectedTag())
		})
	}
}

func TestConvertedMetadataType(t *testing.T) {
	var buf syncBuffer
	l, err := explore.New(explore.Deps{
		Service:    exploretest.Returning(exploretest.Page(0, 20, 0)),
		Translator: i18n.MustNew("en"),
		Logger:     logging.NewConsoleLoggerTo(&buf, true),
	})
	require.NoError(t, err)

	assert.Equal(t, "Datasource", l.ConvertedMetadataType(dexplore.SourceTypeEngine))
	assert.Equal(t, "Database", l.ConvertedMetadataType(dexplore.SourceTypeJDBC))
	assert.Equal(t, "Staging DB", l.ConvertedMetadataType(dexplore.SourceTypeStageDB))
	assert.Equal(t, "", l.ConvertedMetadataType("PARQUET"))
	assert.Equal(t, "", l.ConvertedMetadataType(""))
	assert.Contains(t, buf.String(), `"PARQUET"`)
}

func TestDataTypeFilters(t *testing.T) {
	assert.Equal(t,
		[]dexplore.SourceType{dexplore.SourceTypeEngine, dexplore.SourceTypeJDBC, dexplore.SourceTypeStageDB},
		explore.DataTypeFilters(true))
	assert.Equal(t,
		[]dexplore.SourceType{dexplore.SourceTypeEngine, dexplore.SourceTypeJDBC},
		explore.DataTypeFilters(false))
}

func TestFilterBySourceType(t *testing.T) {
	records := []dexplore.Metadata{salesDaily, shipments}
	assert.Equal(t, records, explore.FilterBySourceType(records, ""))
	assert.Equal(t, []dexplore.Metadata{shipments}, explore.FilterBySourceType(records, dexplore.SourceTypeJDBC))
	assert.Empty(t, explore.FilterBySourceType(records, dexplore.SourceTypeStageDB))
}

func ExampleHighlightFirst() {
	fmt.Println(explore.HighlightFirst("weekly sales and sales", "sales", explore.AsteriskHighlighter))
	// Output: weekly **sales** and sales
}
