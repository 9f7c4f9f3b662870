package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// rdsTokenLifetime is how long an RDS IAM token stays valid.
const rdsTokenLifetime = 15 * time.Minute

// AWSTokenProvider builds RDS IAM tokens from the default AWS credential chain.
type AWSTokenProvider struct {
	endpoint string
	region   string
	username string
}

func NewAWSTokenProvider(endpoint, region, username string) (*AWSTokenProvider, error) {
	switch {
	case region == "":
		return nil, fmt.Errorf("AWS IAM auth needs a region (--aws-region or $AWS_REGION): %w", dexplore.ErrInvalidConfig)
	case username == "":
		return nil, fmt.Errorf("AWS IAM auth needs a database user (-U): %w", dexplore.ErrInvalidConfig)
	}
	return &AWSTokenProvider{endpoint: endpoint, region: region, username: username}, nil
}

func (p *AWSTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(p.region))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("load AWS config: %w", err)
	}
	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, cfg.Credentials)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build RDS auth token: %w", err)
	}
	return token, time.Now().Add(rdsTokenLifetime), nil
}

func (p *AWSTokenProvider) String() string {
	return fmt.Sprintf("aws-iam(%s@%s, %s)", p.username, p.endpoint, p.region)
}
