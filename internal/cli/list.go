package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/vvka-141/dexplore/internal/explore"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

type listFlagValues struct {
	backend   backendFlagValues
	selection selectionFlagValues
	page      int
	size      int
	output    string
}

var listFlags listFlagValues

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of metadata records",
	Long: `Print one page of metadata records, newest first.

The summary line reports the total number of matching records. Keyword
matches are marked with **asterisks** in the name, description and creator
columns the keyword was searched in.

Examples:
  # First page of the bundled sample catalog
  dexplore list --demo

  # Records whose creator contains "polaris", second page of 10
  dexplore list --demo --keyword polaris --scope creator --page 2 --size 10

  # Records of a catalog subtree from a discovery server
  dexplore list --server https://discovery.example.com --catalog 6f1c8a52-1d3e-4b8f-9a61-2f0c3b7d9e10

  # JSON for scripts
  dexplore list -h localhost -d dexplore --tag daily --output json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	addBackendFlags(listCmd, &listFlags.backend)
	addSelectionFlags(listCmd, &listFlags.selection)
	listCmd.Flags().IntVar(&listFlags.page, "page", 1, "Page number, starting at 1")
	listCmd.Flags().IntVar(&listFlags.size, "size", 0,
		"Page size (default: page_size from the config, or 20)")
	listCmd.Flags().StringVarP(&listFlags.output, "output", "o", "table", "Output format: table|json")
}

// listOutput is the JSON shape of one page.
type listOutput struct {
	Guide   string              `json:"guide"`
	Page    dexplore.PageInfo   `json:"page"`
	Records []dexplore.Metadata `json:"records"`
}

func runList(cmd *cobra.Command, _ []string) error {
	f := &listFlags
	if f.page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d: %w", f.page, dexplore.ErrInvalidConfig)
	}
	if f.size < 0 {
		return fmt.Errorf("--size must not be negative, got %d: %w", f.size, dexplore.ErrInvalidConfig)
	}
	output := strings.ToLower(f.output)
	if output != "table" && output != "json" {
		return fmt.Errorf("--output %q: want table or json: %w", f.output, dexplore.ErrInvalidConfig)
	}
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
	size := f.size
	if size == 0 {
		size = s.cfg.EffectivePageSize()
	}

	list, err := explore.New(explore.Deps{
		Service:    s.service,
		Translator: s.tr,
		Indicator:  logIndicator{logger: s.logger},
		Reporter:   logReporter{logger: s.logger},
		Logger:     s.logger,
	}, explore.WithPageSize(size), explore.WithHighlighter(explore.AsteriskHighlighter))
	if err != nil {
		return err
	}

	if err := list.InitializeListAt(ctx, store, dexplore.PageCursor{Page: f.page - 1, Size: size}); err != nil {
		return err
	}
	records := explore.FilterBySourceType(list.Records(), dataType)

	out := cmd.OutOrStdout()
	if output == "json" {
		return writeListJSON(out, listOutput{
			Guide:   list.TotalElementsGuide(),
			Page:    list.PageResult(),
			Records: records,
		})
	}
	return writeListTable(out, list, records, s.tr)
}

func writeListJSON(w io.Writer, v listOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeListTable(w io.Writer, list *explore.List, records []dexplore.Metadata, tr dexplore.Translator) error {
	fmt.Fprintln(w, list.TotalElementsGuide())

	if len(records) == 0 {
		fmt.Fprintln(w, tr.Instant(dexplore.MsgEmpty, nil))
	} else {
		table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		}))
		table.Header("Name", "Type", "Creator", "Description", "Tags")
		for _, m := range records {
			var description string
			if list.IsEnableDescription(m) {
				description = list.MetadataDescription(m.Description)
			}
			if err := table.Append(
				list.MetadataName(m.Name),
				list.ConvertedMetadataType(m.SourceType),
				list.MetadataCreator(m.Creator),
				description,
				tagNames(m),
			); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, tr.Instant(dexplore.MsgPage, map[string]string{
		"page":       tr.FormatNumber(int64(list.Cursor().Page + 1)),
		"totalPages": tr.FormatNumber(int64(max(list.PageResult().TotalPages, 1))),
	}))
	return nil
}

func tagNames(m dexplore.Metadata) string {
	names := make([]string, len(m.Tags))
	for i, t := range m.Tags {
		names[i] = "#" + t.Name
	}
	return strings.Join(names, " ")
}

// logIndicator reports load progress in the verbose log.
type logIndicator struct {
	logger dexplore.Logger
}

func (i logIndicator) Show() { i.logger.Verbose("loading metadata page") }
func (i logIndicator) Hide() { i.logger.Verbose("metadata page loaded") }

// logReporter logs load failures; the command returns the error itself.
type logReporter struct {
	logger dexplore.Logger
}

func (r logReporter) Report(err error) { r.logger.Verbose("metadata load failed: %v", err) }
