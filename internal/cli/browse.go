package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/dexplore/internal/tui"
)

type browseFlagValues struct {
	backend   backendFlagValues
	selection selectionFlagValues
	title     string
}

var browseFlags browseFlagValues

// runBrowser is replaced in tests.
var runBrowser = tui.Browse

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse metadata records interactively",
	Long: `Open a full-screen browser over the metadata records.

Keys:
  ↑/↓ k/j     move between records
  ←/→ h/l     previous or next page
  /           search; enter applies, esc cancels
  s           cycle the search scope (all, name, description, creator)
  f           cycle the data type filter
  c / t       clear the selected catalog or tag
  enter       open the record details
  ?           toggle the full help
  q           quit

The selection flags set the initial search and filters.

Examples:
  dexplore browse --demo
  dexplore browse --server https://discovery.example.com --keyword sales`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	addBackendFlags(browseCmd, &browseFlags.backend)
	addSelectionFlags(browseCmd, &browseFlags.selection)
	browseCmd.Flags().StringVar(&browseFlags.title, "title", "", "Title shown above the list")
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	f := &browseFlags
	store, err := newSelectionStore(&f.selection)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := openSession(ctx, cmd, &f.backend)
	if err != nil {
		return err
	}
	defer s.Close()

	dataType, err := parseDataType(f.selection.dataType, s.cfg.StagingEnabled)
	if err != nil {
		return err
	}

	return runBrowser(ctx, tui.BrowserOptions{
		Service:        s.service,
		Store:          store,
		Translator:     s.tr,
		Logger:         s.logger,
		PageSize:       s.cfg.EffectivePageSize(),
		StagingEnabled: s.cfg.StagingEnabled,
		TypeFilter:     dataType,
		Title:          f.title,
	})
}
