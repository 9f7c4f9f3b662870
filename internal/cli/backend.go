package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/dexplore/internal/catalogs/memory"
	"github.com/vvka-141/dexplore/internal/client"
	"github.com/vvka-141/dexplore/internal/config"
	"github.com/vvka-141/dexplore/internal/db"
	"github.com/vvka-141/dexplore/internal/i18n"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// Environment variables naming a discovery server.
const (
	ServerEnv = "DEXPLORE_SERVER"
	TokenEnv  = "DEXPLORE_TOKEN"
)

// backendFlagValues select where metadata records come from.
type backendFlagValues struct {
	demo          bool
	server, token string

	connection, host, username, database, sslMode string
	port                                          int

	aws                          bool
	awsRegion                    string
	azure                        bool
	azureTenantID, azureClientID string
	google                       bool
	googleInstance               string
}

// addDatabaseFlags registers the catalog database connection flags.
func addDatabaseFlags(cmd *cobra.Command, f *backendFlagValues) {
	cmd.Flags().StringVar(&f.connection, "connection", "",
		"Catalog database connection string (URI or ADO.NET format).\n"+
			"Mutually exclusive with granular flags (--host, --port, --username, --database).\n"+
			"Alternative: DATABASE_URL environment variable.\n"+
			"Example: postgresql://reader@localhost:5432/dexplore")

	// Precedence: flag > environment variable > config file > default
	cmd.Flags().StringVarP(&f.host, "host", "h", "",
		"Catalog database host\n"+
			"Precedence: --host > $PGHOST > config > localhost")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0,
		"Catalog database port\n"+
			"Precedence: --port > $PGPORT > config > 5432")
	cmd.Flags().StringVarP(&f.username, "username", "U", "",
		"Catalog database user (default: $PGUSER or current OS user)")
	cmd.Flags().StringVarP(&f.database, "database", "d", "",
		"Catalog database name (default: $PGDATABASE or "+db.DefaultDatabase+")")
	cmd.Flags().StringVar(&f.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer, or $PGSSLMODE)")

	cmd.Flags().BoolVar(&f.aws, "aws", false,
		"Use AWS RDS IAM authentication (default AWS credential chain)")
	cmd.Flags().StringVar(&f.awsRegion, "aws-region", "",
		"AWS region of the RDS instance (overrides $AWS_REGION)")
	cmd.Flags().BoolVar(&f.azure, "azure", false,
		"Use Azure Entra ID authentication\n"+
			"Uses DefaultAzureCredential chain (Managed Identity, Azure CLI, etc.)")
	cmd.Flags().StringVar(&f.azureTenantID, "azure-tenant-id", "",
		"Azure AD tenant/directory ID (overrides $AZURE_TENANT_ID)")
	cmd.Flags().StringVar(&f.azureClientID, "azure-client-id", "",
		"Azure AD application/client ID (overrides $AZURE_CLIENT_ID)")
	cmd.Flags().BoolVar(&f.google, "google", false,
		"Use Google Cloud SQL IAM authentication")
	cmd.Flags().StringVar(&f.googleInstance, "google-instance", "",
		"Cloud SQL instance connection name (project:region:instance)")
}

// addBackendFlags registers every backend flag.
func addBackendFlags(cmd *cobra.Command, f *backendFlagValues) {
	cmd.Flags().BoolVar(&f.demo, "demo", false,
		"Use the bundled sample catalog instead of a server or database")
	cmd.Flags().StringVar(&f.server, "server", "",
		"Discovery server base URL (overrides $"+ServerEnv+" and service.url)\n"+
			"Example: https://discovery.example.com")
	cmd.Flags().StringVar(&f.token, "token", "",
		"Bearer token for the discovery server (overrides $"+TokenEnv+" and service.token)")
	addDatabaseFlags(cmd, f)
}

func (f *backendFlagValues) granular() db.GranularFlags {
	return db.GranularFlags{
		Host:     f.host,
		Port:     f.port,
		Username: f.username,
		Database: f.database,
		SSLMode:  f.sslMode,
	}
}

func (f *backendFlagValues) cloud() db.CloudFlags {
	return db.CloudFlags{
		AWS:            f.aws,
		AWSRegion:      f.awsRegion,
		Azure:          f.azure,
		AzureTenantID:  f.azureTenantID,
		AzureClientID:  f.azureClientID,
		Google:         f.google,
		GoogleInstance: f.googleInstance,
	}
}

func (f *backendFlagValues) usesDatabase() bool {
	return f.connection != "" || !f.granular().IsEmpty() || f.aws || f.azure || f.google
}

// loadConfig reads --config, or dexplore.yaml from the working directory
// when present.
func loadConfig() (*config.Config, error) {
	if path := globalFlags.configPath; path != "" {
		cfg, err := config.LoadFile(path)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%s: %w: %w", path, config.ErrConfigNotFound, dexplore.ErrInvalidConfig)
		}
		return cfg, err
	}
	cfg, err := config.Load(".")
	if errors.Is(err, config.ErrConfigNotFound) {
		return &config.Config{}, nil
	}
	return cfg, err
}

// newTranslator picks the locale from --locale, the config file, then $LANG.
func newTranslator(cfg *config.Config) (*i18n.Bundle, error) {
	return i18n.New(globalFlags.locale, cfg.Locale, os.Getenv("LC_ALL"), os.Getenv("LANG"))
}

// session is the runtime shared by the list and browse commands.
type session struct {
	cfg     *config.Config
	tr      *i18n.Bundle
	logger  dexplore.Logger
	service dexplore.MetadataService
	closers []func()
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// openSession loads configuration and opens the metadata service chosen by
// the backend flags: --demo, then a database when any connection flag is
// given, then a discovery server from flags, environment or config, and
// finally the catalog database resolved from environment and config.
func openSession(ctx context.Context, cmd *cobra.Command, f *backendFlagValues) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	tr, err := newTranslator(cfg)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, tr: tr, logger: newLogger(cmd)}

	if f.demo && (f.server != "" || f.usesDatabase()) {
		return nil, fmt.Errorf("--demo cannot be combined with --server or connection flags: %w", dexplore.ErrInvalidConfig)
	}
	if f.server != "" && f.usesDatabase() {
		return nil, fmt.Errorf("use either --server or connection flags, not both: %w", dexplore.ErrInvalidConfig)
	}

	switch server := firstNonEmpty(f.server, os.Getenv(ServerEnv), cfg.Service.URL); {
	case f.demo:
		catalog, err := memory.NewSampleCatalog()
		if err != nil {
			return nil, err
		}
		s.logger.Verbose("using the bundled sample catalog")
		s.service = catalog

	case !f.usesDatabase() && server != "":
		timeout, err := cfg.ServiceTimeout()
		if err != nil {
			return nil, err
		}
		token := firstNonEmpty(f.token, os.Getenv(TokenEnv), cfg.Service.Token)
		c, err := client.New(server,
			client.WithAuthenticator(client.AuthFor(token)),
			client.WithTimeout(timeout),
			client.WithLogger(s.logger),
		)
		if err != nil {
			return nil, err
		}
		s.logger.Verbose("using discovery server %s", server)
		s.service = c

	default:
		store, closeStore, err := openStore(ctx, f, cfg, s.logger)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, closeStore)
		s.service = store
	}
	return s, nil
}

// openStore connects to the catalog database.
func openStore(ctx context.Context, f *backendFlagValues, cfg *config.Config, logger dexplore.Logger) (*db.Store, func(), error) {
	connCfg, err := db.Resolve(f.connection, f.granular(), f.cloud(), db.EnvFromOS(), &cfg.Connection)
	if err != nil {
		return nil, nil, err
	}
	connector, err := db.NewConnector(connCfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Verbose("connecting to catalog database %s:%d/%s (%s)", connCfg.Host, connCfg.Port, connCfg.Database, connCfg.AuthMethod)

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		pool.Close()
		if c, ok := connector.(io.Closer); ok {
			_ = c.Close()
		}
	}
	return db.NewStore(pool, logger), closeFn, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
