package dexplore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector establishes connection pools to a catalog database.
// Different implementations handle various authentication methods
// (standard credentials, cloud IAM tokens).
type Connector interface {
	// Connect establishes a connection pool to the database.
	// The returned pool should be closed by the caller when done.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// AuthMethod selects how a Connector authenticates.
type AuthMethod int

const (
	AuthMethodStandard AuthMethod = iota
	AuthMethodAWSIAM
	AuthMethodGoogleIAM
	AuthMethodAzureEntraID
)

func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "standard"
	case AuthMethodAWSIAM:
		return "aws-iam"
	case AuthMethodGoogleIAM:
		return "google-iam"
	case AuthMethodAzureEntraID:
		return "azure-entra-id"
	default:
		return "unknown"
	}
}

// ConnectionConfig describes how to reach the catalog database.
type ConnectionConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	Database    string
	SSLMode     string
	SSLCert     string
	SSLKey      string
	SSLRootCert string

	AuthMethod AuthMethod

	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
	AWSRegion         string
	GoogleInstance    string

	// AppName is reported to the server as application_name.
	AppName        string
	ConnectTimeout time.Duration

	// Params holds connection parameters dexplore does not interpret.
	Params map[string]string
}
