package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/dexplore/internal/config"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// GranularFlags are the libpq-style -h -p -U -d flags.
// There is no password flag; use $PGPASSWORD or a connection string.
type GranularFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty reports whether no granular flag was given.
func (g GranularFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.Database == "" && g.SSLMode == ""
}

// CloudFlags select a cloud IAM authentication method.
type CloudFlags struct {
	AWS            bool
	AWSRegion      string
	Azure          bool
	AzureTenantID  string
	AzureClientID  string
	Google         bool
	GoogleInstance string
}

func (c CloudFlags) count() int {
	n := 0
	for _, set := range []bool{c.AWS, c.Azure, c.Google} {
		if set {
			n++
		}
	}
	return n
}

// Env is the subset of the process environment the resolver reads.
type Env struct {
	PGHost, PGPort, PGUser, PGPassword, PGDatabase, PGSSLMode string
	DatabaseURL                                               string
	AWSRegion                                                 string
	AzureTenantID, AzureClientID, AzureClientSecret           string
}

// EnvFromOS reads Env from the process environment.
func EnvFromOS() Env {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	return Env{
		PGHost:            os.Getenv("PGHOST"),
		PGPort:            os.Getenv("PGPORT"),
		PGUser:            os.Getenv("PGUSER"),
		PGPassword:        os.Getenv("PGPASSWORD"),
		PGDatabase:        os.Getenv("PGDATABASE"),
		PGSSLMode:         os.Getenv("PGSSLMODE"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AWSRegion:         region,
		AzureTenantID:     os.Getenv("AZURE_TENANT_ID"),
		AzureClientID:     os.Getenv("AZURE_CLIENT_ID"),
		AzureClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// Resolve picks the catalog connection with this precedence:
// --connection, granular flags, PG* environment, DATABASE_URL, config file,
// defaults. Granular values fall back field by field to the environment, then
// to the config file. Combining --connection with granular flags is an error.
func Resolve(connFlag string, flags GranularFlags, cloud CloudFlags, env Env, file *config.ConnectionConfig) (*dexplore.ConnectionConfig, error) {
	if connFlag != "" && !flags.IsEmpty() {
		return nil, fmt.Errorf("use either --connection or -h/-p/-U/-d, not both: %w", dexplore.ErrInvalidConfig)
	}
	if cloud.count() > 1 {
		return nil, fmt.Errorf("choose at most one of --aws, --azure, --google: %w", dexplore.ErrInvalidConfig)
	}
	if file == nil {
		file = &config.ConnectionConfig{}
	}

	var (
		cfg *dexplore.ConnectionConfig
		err error
	)
	switch {
	case connFlag != "":
		cfg, err = ParseConnectionString(connFlag)
	case flags.IsEmpty() && !env.hasGranular() && env.DatabaseURL != "":
		cfg, err = ParseConnectionString(env.DatabaseURL)
	default:
		cfg, err = fromGranular(flags, env, file)
	}
	if err != nil {
		return nil, err
	}

	if err := applyAuth(cfg, cloud, env, file); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e Env) hasGranular() bool {
	return e.PGHost != "" || e.PGPort != "" || e.PGUser != "" || e.PGDatabase != ""
}

func fromGranular(flags GranularFlags, env Env, file *config.ConnectionConfig) (*dexplore.ConnectionConfig, error) {
	cfg := newDefaultConfig()
	cfg.Host = firstNonEmpty(flags.Host, env.PGHost, file.Host, defaultHost)
	cfg.Username = firstNonEmpty(flags.Username, env.PGUser, file.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = env.PGPassword
	cfg.Database = firstNonEmpty(flags.Database, env.PGDatabase, file.Database, DefaultDatabase)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, env.PGSSLMode, file.SSLMode, defaultSSLMode)
	cfg.SSLCert = file.SSLCert
	cfg.SSLKey = file.SSLKey
	cfg.SSLRootCert = file.SSLRootCert

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPort != "":
		port, err := strconv.Atoi(env.PGPort)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT %q: %w", env.PGPort, dexplore.ErrInvalidConfig)
		}
		cfg.Port = port
	case file.Port != 0:
		cfg.Port = file.Port
	}
	return cfg, nil
}

func applyAuth(cfg *dexplore.ConnectionConfig, cloud CloudFlags, env Env, file *config.ConnectionConfig) error {
	method, err := config.ParseAuthMethod(file.AuthMethod)
	if err != nil {
		return err
	}
	switch {
	case cloud.AWS:
		method = dexplore.AuthMethodAWSIAM
	case cloud.Azure:
		method = dexplore.AuthMethodAzureEntraID
	case cloud.Google:
		method = dexplore.AuthMethodGoogleIAM
	}
	cfg.AuthMethod = method

	switch method {
	case dexplore.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(cloud.AWSRegion, env.AWSRegion, file.AWSRegion)
	case dexplore.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(cloud.AzureTenantID, env.AzureTenantID, file.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(cloud.AzureClientID, env.AzureClientID, file.AzureClientID)
		cfg.AzureClientSecret = env.AzureClientSecret
	case dexplore.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(cloud.GoogleInstance, file.GoogleInstance)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
