package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/dexplore/internal/config"
	"github.com/vvka-141/dexplore/internal/logging"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

var rootCmd = &cobra.Command{
	Use:   "dexplore",
	Short: "Browse the metadata of a data catalog",
	Long: `dexplore lists the datasets of a data catalog one page at a time.

Records come from a discovery server (--server), straight from a catalog
database (--connection or -h/-p/-U/-d), or from the bundled sample catalog
(--demo). Keyword searches can target every field or only the name,
description or creator, and the list can be narrowed to a catalog subtree or
a tag.

Configuration is read from dexplore.yaml in the working directory; .env and
.env.local are loaded into the environment first.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Catalog database connection failed
  12 - Metadata service failed or unreachable
  13 - Metadata service rejected the credentials`,
	SilenceUsage: true,
}

type globalFlagValues struct {
	verbose    bool
	configPath string
	locale     string
}

var globalFlags globalFlagValues

// Execute loads .env files and runs the root command. Loads and the
// browser stop when ctx is cancelled.
func Execute(ctx context.Context) error {
	loadEnvFiles()
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr())
		return nil
	}
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// -h is the host flag, as in psql.
	rootCmd.PersistentFlags().Bool("help", false, "Help for dexplore")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.verbose, "verbose", "v", false,
		"Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringVar(&globalFlags.configPath, "config", "",
		"Path to the config file (default: ./"+config.FileName+" if present)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.locale, "locale", "",
		"Message locale, e.g. en or ko\n"+
			"Precedence: --locale > config locale > $LANG > "+dexplore.DefaultLocale)
}

// loadEnvFiles loads .env.local then .env. godotenv never overrides a
// variable that is already set, so the environment wins over both files and
// .env.local wins over .env.
func loadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(name)
	}
}

func newLogger(cmd *cobra.Command) dexplore.Logger {
	return logging.NewConsoleLoggerTo(cmd.ErrOrStderr(), globalFlags.verbose)
}
