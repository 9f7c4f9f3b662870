package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/dexplore/internal/config"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

func TestResolve_Precedence(t *testing.T) {
	file := &config.ConnectionConfig{Host: "file-host", Port: 7000, Username: "file-user", Database: "file-db", SSLMode: "require"}

	tests := []struct {
		name     string
		conn     string
		flags    GranularFlags
		env      Env
		wantHost string
		wantPort int
		wantDB   string
	}{
		{
			name:     "connection flag wins",
			conn:     "postgresql://u@conn-host:6000/conn-db",
			env:      Env{PGHost: "env-host", DatabaseURL: "postgresql://url-host/url-db"},
			wantHost: "conn-host", wantPort: 6000, wantDB: "conn-db",
		},
		{
			name:     "granular flags beat environment",
			flags:    GranularFlags{Host: "flag-host", Database: "flag-db"},
			env:      Env{PGHost: "env-host", PGPort: "6100", DatabaseURL: "postgresql://url-host/url-db"},
			wantHost: "flag-host", wantPort: 6100, wantDB: "flag-db",
		},
		{
			name:     "PG environment beats DATABASE_URL",
			env:      Env{PGHost: "env-host", DatabaseURL: "postgresql://url-host/url-db"},
			wantHost: "env-host", wantPort: 7000, wantDB: "file-db",
		},
		{
			name:     "DATABASE_URL beats config file",
			env:      Env{DatabaseURL: "postgresql://url-host:6200/url-db"},
			wantHost: "url-host", wantPort: 6200, wantDB: "url-db",
		},
		{
			name:     "config file",
			wantHost: "file-host", wantPort: 7000, wantDB: "file-db",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(tt.conn, tt.flags, CloudFlags{}, tt.env, file)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, cfg.Host)
			assert.Equal(t, tt.wantPort, cfg.Port)
			assert.Equal(t, tt.wantDB, cfg.Database)
		})
	}
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve("", GranularFlags{}, CloudFlags{}, Env{PGUser: "me"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, "prefer", cfg.SSLMode)
	assert.Equal(t, "me", cfg.Username)
	assert.Equal(t, dexplore.AuthMethodStandard, cfg.AuthMethod)
}

func TestResolve_PasswordFromEnvironment(t *testing.T) {
	cfg, err := Resolve("", GranularFlags{Host: "h"}, CloudFlags{}, Env{PGPassword: "pw"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "pw", cfg.Password)
}

func TestResolve_Conflicts(t *testing.T) {
	_, err := Resolve("postgresql://h/db", GranularFlags{Host: "x"}, CloudFlags{}, Env{}, nil)
	assert.ErrorIs(t, err, dexplore.ErrInvalidConfig)

	_, err = Resolve("", GranularFlags{}, CloudFlags{AWS: true, Google: true}, Env{}, nil)
	assert.ErrorIs(t, err, dexplore.ErrInvalidConfig)

	_, err = Resolve("", GranularFlags{}, CloudFlags{}, Env{PGPort: "abc"}, nil)
	assert.ErrorIs(t, err, dexplore.ErrInvalidConfig)
}

func TestResolve_CloudAuth(t *testing.T) {
	env := Env{AWSRegion: "env-region", AzureTenantID: "tenant", AzureClientID: "client", AzureClientSecret: "secret"}

	cfg, err := Resolve("", GranularFlags{Host: "rds"}, CloudFlags{AWS: true}, env, nil)
	require.NoError(t, err)
	assert.Equal(t, dexplore.AuthMethodAWSIAM, cfg.AuthMethod)
	assert.Equal(t, "env-region", cfg.AWSRegion)

	cfg, err = Resolve("", GranularFlags{}, CloudFlags{AWS: true, AWSRegion: "flag-region"}, env, nil)
	require.NoError(t, err)
	assert.Equal(t, "flag-region", cfg.AWSRegion)

	cfg, err = Resolve("", GranularFlags{}, CloudFlags{Azure: true, AzureClientID: "flag-client"}, env, nil)
	require.NoError(t, err)
	assert.Equal(t, dexplore.AuthMethodAzureEntraID, cfg.AuthMethod)
	assert.Equal(t, "tenant", cfg.AzureTenantID)
	assert.Equal(t, "flag-client", cfg.AzureClientID)
	assert.Equal(t, "secret", cfg.AzureClientSecret)

	cfg, err = Resolve("", GranularFlags{}, CloudFlags{Google: true, GoogleInstance: "p:r:i"}, env, nil)
	require.NoError(t, err)
	assert.Equal(t, dexplore.AuthMethodGoogleIAM, cfg.AuthMethod)
	assert.Equal(t, "p:r:i", cfg.GoogleInstance)
}

func TestResolve_AuthMethodFromConfigFile(t *testing.T) {
	file := &config.ConnectionConfig{AuthMethod: "google", GoogleInstance: "proj:eu:cat"}
	cfg, err := Resolve("", GranularFlags{}, CloudFlags{}, Env{}, file)
	require.NoError(t, err)
	assert.Equal(t, dexplore.AuthMethodGoogleIAM, cfg.AuthMethod)
	assert.Equal(t, "proj:eu:cat", cfg.GoogleInstance)

	_, err = Resolve("", GranularFlags{}, CloudFlags{}, Env{}, &config.ConnectionConfig{AuthMethod: "ldap"})
	assert.ErrorIs(t, err, dexplore.ErrUnsupportedAuthMethod)
}
