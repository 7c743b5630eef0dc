// internal/orchestrator/aws.go
package orchestrator

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// AWSCredentials is the immutable decrypted-credential value handed from the
// identity layer into every orchestration call. Constructed once per request.
type AWSCredentials struct {
	AccessKey string
	SecretKey string
	Region    string
}

// WithRegion returns a copy bound to a different region. The zero region
// keeps the tenant default.
func (c AWSCredentials) WithRegion(region string) AWSCredentials {
	if region != "" {
		c.Region = region
	}
	return c
}

// EC2API is the narrow slice of the EC2 client the orchestrator drives.
// Method signatures match the generated client so *ec2.Client satisfies it
// directly and fakes can stand in for tests. DescribeInstances doubles as
// the waiter client.
type EC2API interface {
	RunInstances(ctx context.Context, in *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
	StartInstances(ctx context.Context, in *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, in *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
	TerminateInstances(ctx context.Context, in *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
	DescribeInstances(ctx context.Context, in *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeImages(ctx context.Context, in *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
	DescribeVpcs(ctx context.Context, in *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
	DescribeKeyPairs(ctx context.Context, in *ec2.DescribeKeyPairsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeKeyPairsOutput, error)
	DescribeSecurityGroups(ctx context.Context, in *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
	DescribeSecurityGroupRules(ctx context.Context, in *ec2.DescribeSecurityGroupRulesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupRulesOutput, error)
	CreateKeyPair(ctx context.Context, in *ec2.CreateKeyPairInput, optFns ...func(*ec2.Options)) (*ec2.CreateKeyPairOutput, error)
	DeleteKeyPair(ctx context.Context, in *ec2.DeleteKeyPairInput, optFns ...func(*ec2.Options)) (*ec2.DeleteKeyPairOutput, error)
	CreateSecurityGroup(ctx context.Context, in *ec2.CreateSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error)
	AuthorizeSecurityGroupIngress(ctx context.Context, in *ec2.AuthorizeSecurityGroupIngressInput, optFns ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
	DeleteSecurityGroup(ctx context.Context, in *ec2.DeleteSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSecurityGroupOutput, error)
}

// STSAPI backs the credential health check.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ClientFactory builds provider clients from a decrypted credential value,
// one per request. No client state is shared across requests.
type ClientFactory interface {
	EC2(ctx context.Context, creds AWSCredentials) (EC2API, error)
	STS(ctx context.Context, creds AWSCredentials) (STSAPI, error)
}

type awsClientFactory struct{}

// NewAWSClientFactory returns the production factory over aws-sdk-go-v2.
func NewAWSClientFactory() ClientFactory {
	return awsClientFactory{}
}

func (awsClientFactory) EC2(ctx context.Context, creds AWSCredentials) (EC2API, error) {
	cfg, err := loadAWSConfig(ctx, creds)
	if err != nil {
		return nil, err
	}
	return ec2.NewFromConfig(cfg), nil
}

func (awsClientFactory) STS(ctx context.Context, creds AWSCredentials) (STSAPI, error) {
	cfg, err := loadAWSConfig(ctx, creds)
	if err != nil {
		return nil, err
	}
	return sts.NewFromConfig(cfg), nil
}

func loadAWSConfig(ctx context.Context, creds AWSCredentials) (aws.Config, error) {
	provider := credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, "")
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(creds.Region),
		config.WithCredentialsProvider(provider),
	)
	if err != nil {
		return aws.Config{}, err
	}
	return cfg, nil
}
