// Package config loads dexplore.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// ErrConfigNotFound is returned when the config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// FileName is the config file looked up in the working directory.
const FileName = "dexplore.yaml"

// ServiceConfig points at a discovery server.
type ServiceConfig struct {
	URL     string `yaml:"url"`
	Token   string `yaml:"token,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// ConnectionConfig points at a catalog database.
type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	SSLCert        string `yaml:"sslcert,omitempty"`
	SSLKey         string `yaml:"sslkey,omitempty"`
	SSLRootCert    string `yaml:"sslrootcert,omitempty"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// Config is the content of dexplore.yaml.
type Config struct {
	Service        ServiceConfig    `yaml:"service"`
	Connection     ConnectionConfig `yaml:"connection"`
	Locale         string           `yaml:"locale,omitempty"`
	PageSize       int              `yaml:"page_size,omitempty"`
	StagingEnabled bool             `yaml:"staging_enabled"`
}

// Load reads FileName from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads and validates the config at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, dexplore.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks field values that YAML decoding cannot.
func (c *Config) Validate() error {
	if c.PageSize < 0 {
		return fmt.Errorf("page_size must not be negative, got %d: %w", c.PageSize, dexplore.ErrInvalidConfig)
	}
	if _, err := c.ServiceTimeout(); err != nil {
		return err
	}
	if _, err := ParseAuthMethod(c.Connection.AuthMethod); err != nil {
		return err
	}
	return nil
}

// ServiceTimeout returns the configured request timeout, or the default.
func (c *Config) ServiceTimeout() (time.Duration, error) {
	if c.Service.Timeout == "" {
		return dexplore.DefaultHTTPTimeout, nil
	}
	d, err := time.ParseDuration(c.Service.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("service.timeout %q is not a positive duration: %w", c.Service.Timeout, dexplore.ErrInvalidConfig)
	}
	return d, nil
}

// EffectivePageSize returns the configured page size, or the default.
func (c *Config) EffectivePageSize() int {
	if c == nil || c.PageSize <= 0 {
		return dexplore.DefaultPageSize
	}
	return c.PageSize
}

// ParseAuthMethod maps the auth_method value to an AuthMethod.
// An empty value means standard authentication.
func ParseAuthMethod(s string) (dexplore.AuthMethod, error) {
	switch s {
	case "", "standard":
		return dexplore.AuthMethodStandard, nil
	case "aws", "aws-iam":
		return dexplore.AuthMethodAWSIAM, nil
	case "google", "google-iam":
		return dexplore.AuthMethodGoogleIAM, nil
	case "azure", "azure-entra-id":
		return dexplore.AuthMethodAzureEntraID, nil
	}
	return dexplore.AuthMethodStandard, fmt.Errorf("auth_method %q: %w", s, dexplore.ErrUnsupportedAuthMethod)
}
