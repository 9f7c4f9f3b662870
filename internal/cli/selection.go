package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/dexplore/internal/config"
	"github.com/vvka-141/dexplore/internal/explore"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// selectionFlagValues seed the explore view-model.
type selectionFlagValues struct {
	keyword  string
	scope    string
	tab      string
	catalog  string
	tag      string
	dataType string
}

func addSelectionFlags(cmd *cobra.Command, f *selectionFlagValues) {
	cmd.Flags().StringVarP(&f.keyword, "keyword", "k", "",
		"Search keyword; matched literally and case-sensitively")
	cmd.Flags().StringVar(&f.scope, "scope", "all",
		"Fields the keyword searches: all|name|description|creator")
	cmd.Flags().StringVar(&f.tab, "tab", "",
		"Navigation tab whose selection narrows the list: catalog|tag\n"+
			"(default: implied by --catalog or --tag)")
	cmd.Flags().StringVar(&f.catalog, "catalog", "",
		"Catalog id; lists the records of the catalog and its descendants")
	cmd.Flags().StringVar(&f.tag, "tag", "",
		"Tag name; lists the records carrying the tag")
	cmd.Flags().StringVar(&f.dataType, "type", "",
		"Show only one data type: engine|jdbc|stagedb\n"+
			"stagedb requires staging_enabled in the config")
}

var scopeNames = map[string]dexplore.SearchRange{
	"all":         dexplore.SearchRangeAll,
	"name":        dexplore.SearchRangeDataName,
	"description": dexplore.SearchRangeDescription,
	"creator":     dexplore.SearchRangeCreator,
}

// parseScope maps a --scope value to a search range.
func parseScope(s string) (dexplore.SearchRange, error) {
	if s == "" {
		return dexplore.SearchRangeAll, nil
	}
	r, ok := scopeNames[strings.ToLower(s)]
	if !ok {
		return "", fmt.Errorf("--scope %q: want all, name, description or creator: %w", s, dexplore.ErrInvalidConfig)
	}
	return r, nil
}

// parseTab maps --tab, defaulting to the tab implied by --catalog or --tag.
func parseTab(f *selectionFlagValues) (dexplore.LnbTab, error) {
	switch strings.ToLower(f.tab) {
	case "catalog":
		return dexplore.LnbTabCatalog, nil
	case "tag":
		return dexplore.LnbTabTag, nil
	case "":
	default:
		return "", fmt.Errorf("--tab %q: want catalog or tag: %w", f.tab, dexplore.ErrInvalidConfig)
	}
	switch {
	case f.catalog != "":
		return dexplore.LnbTabCatalog, nil
	case f.tag != "":
		return dexplore.LnbTabTag, nil
	}
	return dexplore.LnbTabNone, nil
}

// parseDataType validates --type against the filters offered for the
// current staging setting.
func parseDataType(s string, stagingEnabled bool) (dexplore.SourceType, error) {
	if s == "" {
		return "", nil
	}
	want := dexplore.SourceType(strings.ToUpper(s))
	for _, t := range explore.DataTypeFilters(stagingEnabled) {
		if t == want {
			return t, nil
		}
	}
	if want == dexplore.SourceTypeStageDB {
		return "", fmt.Errorf("--type stagedb needs staging_enabled: true in %s: %w", config.FileName, dexplore.ErrInvalidConfig)
	}
	return "", fmt.Errorf("--type %q: want engine or jdbc: %w", s, dexplore.ErrInvalidConfig)
}

// newSelectionStore builds the view-model the flags describe.
// Both a catalog and a tag may be selected; the tab decides which applies.
func newSelectionStore(f *selectionFlagValues) (*explore.MemoryStore, error) {
	scope, err := parseScope(f.scope)
	if err != nil {
		return nil, err
	}
	tab, err := parseTab(f)
	if err != nil {
		return nil, err
	}

	sel := dexplore.Selection{
		Tab:         tab,
		SearchRange: scope,
		Keyword:     f.keyword,
	}
	if f.catalog != "" {
		sel.Catalog = &dexplore.CatalogNode{ID: f.catalog, Name: f.catalog}
	}
	if f.tag != "" {
		sel.Tag = &dexplore.TagNode{Name: f.tag}
	}
	return explore.NewMemoryStore(sel), nil
}
