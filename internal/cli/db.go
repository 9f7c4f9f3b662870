package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/dexplore/internal/catalogs/memory"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

type dbInitFlagValues struct {
	backend backendFlagValues
	sample  bool
	from    string
}

var dbInitFlags dbInitFlagValues

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the catalog database",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the catalog tables and optionally load records",
	Long: `Create the catalog tables if they are missing.

--sample loads the bundled sample catalog; --from loads a catalog YAML file
in the same format. Loading is repeatable: records and catalogs with the
same id are updated in place.

Examples:
  dexplore db init -h localhost -d dexplore --sample
  dexplore db init --connection postgresql://admin@db:5432/dexplore --from catalog.yaml`,
	Args: cobra.NoArgs,
	RunE: runDBInit,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbInitCmd)
	addDatabaseFlags(dbInitCmd, &dbInitFlags.backend)
	dbInitCmd.Flags().BoolVar(&dbInitFlags.sample, "sample", false, "Load the bundled sample catalog")
	dbInitCmd.Flags().StringVar(&dbInitFlags.from, "from", "", "Load catalogs and records from a YAML file")
	dbInitCmd.MarkFlagsMutuallyExclusive("sample", "from")
}

// seedCatalog returns the records to import, or nil when none were asked for.
func seedCatalog(f *dbInitFlagValues) (*memory.Catalog, error) {
	switch {
	case f.sample:
		return memory.NewSampleCatalog()
	case f.from != "":
		data, err := os.ReadFile(f.from)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.from, err)
		}
		c := memory.NewCatalog()
		if err := c.LoadYAML(data); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", f.from, dexplore.ErrInvalidConfig, err)
		}
		return c, nil
	}
	return nil, nil
}

func runDBInit(cmd *cobra.Command, _ []string) error {
	f := &dbInitFlags
	seed, err := seedCatalog(f)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd)
	ctx := cmd.Context()

	store, closeStore, err := openStore(ctx, &f.backend, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	logger.Info("catalog schema is ready")

	if seed == nil {
		return nil
	}
	n, err := store.Import(ctx, seed)
	if err != nil {
		return err
	}
	logger.Info("loaded %d metadata records in %d catalogs", n, len(seed.Catalogs()))
	return nil
}
