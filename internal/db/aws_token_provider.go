package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
)

// rdsTokenLifetime is fixed by RDS; the token doubles as the password of a
// user created WITH AWSAuthenticationPlugin.
const rdsTokenLifetime = 15 * time.Minute

// AWSIAMTokenProvider signs RDS/Aurora MySQL auth tokens with the default
// AWS credential chain.
type AWSIAMTokenProvider struct {
	endpoint string // host:port, e.g. "mydb.cluster.us-west-2.rds.amazonaws.com:3306"
	region   string
	username string
}

// NewAWSIAMTokenProvider validates the three inputs RDS token signing needs;
// the credential chain itself is resolved lazily on each GetToken call.
func NewAWSIAMTokenProvider(endpoint, region, username string) (*AWSIAMTokenProvider, error) {
	switch {
	case endpoint == "":
		return nil, fmt.Errorf("AWS IAM auth requires the server endpoint (host:port)")
	case region == "":
		return nil, fmt.Errorf("AWS IAM auth requires a region (use --aws-region or $AWS_REGION)")
	case username == "":
		return nil, fmt.Errorf("AWS IAM auth requires a database username")
	}
	return &AWSIAMTokenProvider{endpoint: endpoint, region: region, username: username}, nil
}

func (p *AWSIAMTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(p.region))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, cfg.Credentials)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build RDS auth token: %w", err)
	}

	return token, time.Now().Add(rdsTokenLifetime), nil
}

func (p *AWSIAMTokenProvider) String() string {
	return fmt.Sprintf("AWSIAM(endpoint=%s, region=%s, user=%s)", p.endpoint, p.region, p.username)
}

var _ TokenProvider = (*AWSIAMTokenProvider)(nil)
