package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

func TestWrapConnectionError(t *testing.T) {
	cfg := &dexplore.ConnectionConfig{Host: "db.local", Port: 5432, Username: "reader", Database: "catalog"}

	tests := []struct {
		raw  string
		hint string
	}{
		{"dial tcp 127.0.0.1:5432: connect: connection refused", "connection refused by db.local:5432"},
		{"lookup db.local: no such host", `cannot resolve host "db.local"`},
		{`FATAL: password authentication failed for user "reader"`, `authentication failed for user "reader"`},
		{`FATAL: database "catalog" does not exist`, `catalog database "catalog" does not exist`},
		{"dial tcp: i/o timeout", "timed out"},
		{"server refused TLS connection", "SSL/TLS"},
		{"something odd", "cannot connect to catalog database at db.local:5432"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			raw := errors.New(tt.raw)
			err := wrapConnectionError(raw, cfg)
			assert.Contains(t, err.Error(), tt.hint)
			assert.ErrorIs(t, err, raw)
			assert.ErrorIs(t, err, dexplore.ErrConnectionFailed)
		})
	}
}

func TestNewConnector(t *testing.T) {
	std, err := NewConnector(&dexplore.ConnectionConfig{AuthMethod: dexplore.AuthMethodStandard}, nil)
	require.NoError(t, err)
	assert.IsType(t, &StandardConnector{}, std)

	aws, err := NewConnector(&dexplore.ConnectionConfig{
		AuthMethod: dexplore.AuthMethodAWSIAM, Host: "rds", Port: 5432, Username: "iam_user", AWSRegion: "us-east-1",
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &TokenConnector{}, aws)

	google, err := NewConnector(&dexplore.ConnectionConfig{
		AuthMethod: dexplore.AuthMethodGoogleIAM, Username: "sa@proj.iam", GoogleInstance: "proj:region:inst",
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &GoogleConnector{}, google)

	_, err = NewConnector(&dexplore.ConnectionConfig{AuthMethod: dexplore.AuthMethod(42)}, nil)
	assert.ErrorIs(t, err, dexplore.ErrUnsupportedAuthMethod)
}

func TestNewConnector_CloudValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  dexplore.ConnectionConfig
	}{
		{"aws without region", dexplore.ConnectionConfig{AuthMethod: dexplore.AuthMethodAWSIAM, Username: "u"}},
		{"aws without user", dexplore.ConnectionConfig{AuthMethod: dexplore.AuthMethodAWSIAM, AWSRegion: "r"}},
		{"google without instance", dexplore.ConnectionConfig{AuthMethod: dexplore.AuthMethodGoogleIAM, Username: "u"}},
		{"google without user", dexplore.ConnectionConfig{AuthMethod: dexplore.AuthMethodGoogleIAM, GoogleInstance: "p:r:i"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			_, err := NewConnector(&cfg, nil)
			assert.ErrorIs(t, err, dexplore.ErrInvalidConfig)
		})
	}
}

type stubProvider struct {
	calls int
	err   error
}

func (p *stubProvider) GetToken(context.Context) (string, time.Time, error) {
	p.calls++
	return "", time.Time{}, p.err
}

func (p *stubProvider) String() string { return "stub" }

func TestTokenConnector_TokenFailureIsPermanent(t *testing.T) {
	provider := &stubProvider{err: errors.New("credentials expired")}
	c := NewTokenConnector(&dexplore.ConnectionConfig{Host: "h", Port: 5432}, provider, nil)

	_, err := c.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dexplore.ErrConnectionFailed)
	assert.Contains(t, err.Error(), "stub")
	assert.Equal(t, 1, provider.calls)
}

type fakeCredential struct {
	token azcore.AccessToken
	err   error
	scope []string
}

func (f *fakeCredential) GetToken(_ context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	f.scope = opts.Scopes
	return f.token, f.err
}

func TestAzureTokenProvider(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	cred := &fakeCredential{token: azcore.AccessToken{Token: "tok", ExpiresOn: expires}}
	p := NewAzureTokenProvider(cred, "azure-test")

	token, exp, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, expires, exp)
	assert.Equal(t, []string{AzurePostgreSQLScope}, cred.scope)
	assert.Equal(t, "azure-test", p.String())

	cred.err = errors.New("denied")
	_, _, err = p.GetToken(context.Background())
	assert.ErrorContains(t, err, "denied")
}

func TestAWSTokenProvider_String(t *testing.T) {
	p, err := NewAWSTokenProvider("rds:5432", "us-east-1", "iam_user")
	require.NoError(t, err)
	assert.Equal(t, "aws-iam(iam_user@rds:5432, us-east-1)", p.String())
}

func TestGoogleConnector_CloseWithoutConnect(t *testing.T) {
	c, err := NewGoogleConnector(&dexplore.ConnectionConfig{Username: "u", GoogleInstance: "p:r:i"})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}
