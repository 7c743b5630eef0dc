// internal/orchestrator/service.go
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"
)

// Service turns multi-step, eventually consistent EC2 operations into single
// synchronous calls with a uniform success/failure contract. Every mutating
// operation issues the provider-side change, blocks until the resource
// reaches its terminal state, then reports a normalized payload. No resource
// state is held between calls; status is always re-queried from the provider.
//
// Concurrent calls against the same instance id race exactly as the provider
// allows. The service does not serialize per-resource operations.
type Service struct {
	clients    ClientFactory
	log        *zap.SugaredLogger
	waitBudget time.Duration
}

func NewService(clients ClientFactory, log *zap.SugaredLogger) *Service {
	return &Service{clients: clients, log: log, waitBudget: 10 * time.Minute}
}

// WithWaitBudget overrides the terminal-state wait budget. Test hook.
func (s *Service) WithWaitBudget(d time.Duration) *Service {
	s.waitBudget = d
	return s
}

// Identify round-trips the caller identity to validate that the decrypted
// credentials are usable at all, independent of any resource mutation.
func (s *Service) Identify(ctx context.Context, creds AWSCredentials) Result {
	client, err := s.clients.STS(ctx, creds)
	if err != nil {
		return failFrom(err, "Could not build a provider session.")
	}
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Fail(CredentialError, err, "Invalid credentials or failed session.")
	}
	return OK(aws.ToString(out.Arn))
}

// ListImages relays the Amazon Linux 2 AMI catalog for the tenant's region.
func (s *Service) ListImages(ctx context.Context, creds AWSCredentials) Result {
	client, err := s.clients.EC2(ctx, creds)
	if err != nil {
		return failFrom(err, "Couldn't fetch image catalog.")
	}
	out, err := client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Owners: []string{"amazon"},
		Filters: []types.Filter{
			{Name: aws.String("architecture"), Values: []string{"x86_64"}},
			{Name: aws.String("root-device-type"), Values: []string{"ebs"}},
			{Name: aws.String("virtualization-type"), Values: []string{"hvm"}},
			{Name: aws.String("name"), Values: []string{"amzn2-ami-hvm-*-x86_64-gp2"}},
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	})
	if err != nil {
		return failFrom(err, "Couldn't fetch image catalog.")
	}
	return OK(out)
}

// ListInstances relays the provider's instance list unmodified.
func (s *Service) ListInstances(ctx context.Context, creds AWSCredentials) Result {
	client, err := s.clients.EC2(ctx, creds)
	if err != nil {
		return failFrom(err, "Couldn't fetch instances.")
	}
	out, err := client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{})
	if err != nil {
		return failFrom(err, "Couldn't fetch instances.")
	}
	return OK(out)
}

// Launch creates one instance and blocks until it is running.
func (s *Service) Launch(ctx context.Context, creds AWSCredentials, spec LaunchSpec) Result {
	const failMsg = "Failed to launch instance. Check credentials, parameters, and limits."
	client, err := s.clients.EC2(ctx, creds.WithRegion(spec.Region))
	if err != nil {
		return failFrom(err, failMsg)
	}
	out, err := client.RunInstances(ctx, &ec2.RunInstancesInput{
		ImageId:          aws.String(spec.ImageID),
		InstanceType:     types.InstanceType(spec.InstanceType),
		KeyName:          aws.String(spec.KeyName),
		SecurityGroupIds: []string{spec.SecurityGroupID},
		MinCount:         aws.Int32(1),
		MaxCount:         aws.Int32(1),
	})
	if err != nil {
		return failFrom(err, failMsg)
	}
	if len(out.Instances) == 0 {
		return Fail(ProviderError, fmt.Errorf("provider returned no instances"), failMsg)
	}
	id := aws.ToString(out.Instances[0].InstanceId)

	waiter := ec2.NewInstanceRunningWaiter(client)
	if err := waiter.Wait(ctx, describeByID(id), s.waitBudget); err != nil {
		return failFrom(err, failMsg)
	}
	desc, err := client.DescribeInstances(ctx, describeByID(id))
	if err != nil {
		return failFrom(err, failMsg)
	}
	status := InstanceStatus{InstanceID: id, State: string(types.InstanceStateNameRunning)}
	if len(desc.Reservations) > 0 && len(desc.Reservations[0].Instances) > 0 {
		inst := desc.Reservations[0].Instances[0]
		if inst.State != nil {
			status.State = string(inst.State.Name)
		}
		status.PublicIP = aws.ToString(inst.PublicIpAddress)
	}
	s.log.Infow("instance launched", "id", id, "state", status.State)
	return OK(status)
}

// Start boots a stopped instance and blocks until it is running.
func (s *Service) Start(ctx context.Context, creds AWSCredentials, instanceID string) Result {
	failMsg := fmt.Sprintf("Couldn't start instance: %s", instanceID)
	client, err := s.clients.EC2(ctx, creds)
	if err != nil {
		return failFrom(err, failMsg)
	}
	if _, err := client.StartInstances(ctx, &ec2.StartInstancesInput{InstanceIds: []string{instanceID}}); err != nil {
		return failFrom(err, failMsg)
	}
	waiter := ec2.NewInstanceRunningWaiter(client)
	if err := waiter.Wait(ctx, describeByID(instanceID), s.waitBudget); err != nil {
		return failFrom(err, failMsg)
	}
	return OK(InstanceStatus{InstanceID: instanceID, State: "running"})
}

// Stop halts a running instance and blocks until it is stopped.
func (s *Service) Stop(ctx context.Context, creds AWSCredentials, instanceID string) Result {
	failMsg := fmt.Sprintf("Couldn't stop instance: %s", instanceID)
	client, err := s.clients.EC2(ctx, creds)
	if err != nil {
		return failFrom(err, failMsg)
	}
	if _, err := client.StopInstances(ctx, &ec2.StopInstancesInput{InstanceIds: []string{instanceID}}); err != nil {
		return failFrom(err, failMsg)
	}
	waiter := ec2.NewInstanceStoppedWaiter(client)
	if err := waiter.Wait(ctx, describeByID(instanceID), s.waitBudget); err != nil {
		return failFrom(err, failMsg)
	}
	return OK(InstanceStatus{InstanceID: instanceID, State: "stopped"})
}

// Terminate destroys an instance and blocks until it is terminated.
func (s *Service) Terminate(ctx context.Context, creds AWSCredentials, instanceID string) Result {
	failMsg := fmt.Sprintf("Couldn't terminate instance: %s", instanceID)
	client, err := s.clients.EC2(ctx, creds)
	if err != nil {
		return failFrom(err, failMsg)
	}
	if _, err := client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{InstanceIds: []string{instanceID}}); err != nil {
		return failFrom(err, failMsg)
	}
	waiter := ec2.NewInstanceTerminatedWaiter(client)
	if err := waiter.Wait(ctx, describeByID(instanceID), s.waitBudget); err != nil {
		return failFrom(err, failMsg)
	}
	return OK(InstanceStatus{InstanceID: instanceID, State: "terminated"})
}

// ListKeyPairs relays the provider's key-pair list unmodified.
func (s *Service) ListKeyPairs(ctx context.Context, creds AWSCredentials) Result {
	client, err := s.clients.EC2(ctx, creds)
	if err != nil {
		return failFrom(err, "Couldn't fetch key pairs.")
	}
	out, err := client.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{})
	if err != nil {
		return failFrom(err, "Couldn't fetch key pairs.")
	}
	return OK(out)
}

// CreateKeyPair creates a named key pair. The private key material is
// returned exactly once and is never persisted here; the tenant is solely
// responsible for capturing it.
func (s *Service) CreateKeyPair(ctx context.Context, creds AWSCredentials, keyName string) Result {
	client, err := s.clients.EC2(ctx, creds)
	if err != nil {
		return failFrom(err, "Couldn't create key pair.")
	}
	out, err := client.CreateKeyPair(ctx, &ec2.CreateKeyPairInput{KeyName: aws.String(keyName)})
	if err != nil {
		return failFrom(err, "Couldn't create key pair.")
	}
	return OK(KeyMaterial{KeyName: keyName, PEM: aws.ToString(out.KeyMaterial)})
}

// DeleteKeyPair removes a named key pair. Single call, no wait.
func (s *Service) DeleteKeyPair(ctx context.Context, creds AWSCredentials, keyName string) Result {
	client, err := s.clients.EC2(ctx, creds)
	if err != nil {
		return failFrom(err, "Couldn't delete key pair.")
	}
	out, err := client.DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{KeyName: aws.String(keyName)})
	if err != nil {
		return failFrom(err, "Couldn't delete key pair.")
	}
	return OK(out)
}

// ListSecurityGroups relays the provider's security-group list unmodified.
func (s *Service) ListSecurityGroups(ctx context.Context, creds AWSCredentials) Result {
	client, err := s.clients.EC2(ctx, creds)
	if err != nil {
		return failFrom(err, "Couldn't fetch security group(s).")
	}
	out, err := client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{})
	if err != nil {
		return failFrom(err, "Couldn't fetch security group(s).")
	}
	return OK(out)
}

// ListSecurityGroupRules relays the rules of one group unmodified.
func (s *Service) ListSecurityGroupRules(ctx context.Context, creds AWSCredentials, groupID string) Result {
	client, err := s.clients.EC2(ctx, creds)
	if err != nil {
		return failFrom(err, "Couldn't fetch security group rule(s).")
	}
	out, err := client.DescribeSecurityGroupRules(ctx, &ec2.DescribeSecurityGroupRulesInput{
		Filters: []types.Filter{{Name: aws.String("group-id"), Values: []string{groupID}}},
	})
	if err != nil {
		return failFrom(err, "Couldn't fetch security group rule(s).")
	}
	return OK(out)
}

// CreateSecurityGroup creates a group, resolving the account default VPC when
// none was given, then applies each requested ingress rule sequentially.
// If rule application fails partway, already-applied rules stay in place —
// partial application is possible and reported, not rolled back.
func (s *Service) CreateSecurityGroup(ctx context.Context, creds AWSCredentials, spec SecurityGroupSpec) Result {
	const failMsg = "Could not create security group"
	client, err := s.clients.EC2(ctx, creds.WithRegion(spec.Region))
	if err != nil {
		return failFrom(err, failMsg)
	}

	vpcID := spec.VpcID
	if vpcID == "" {
		vpcs, err := client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{})
		if err != nil {
			return failFrom(err, failMsg)
		}
		if len(vpcs.Vpcs) == 0 {
			return Fail(NotFound, fmt.Errorf("no VPC available in region"), failMsg)
		}
		vpcID = aws.ToString(vpcs.Vpcs[0].VpcId)
	}

	created, err := client.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:   aws.String(spec.GroupName),
		Description: aws.String(spec.Description),
		VpcId:       aws.String(vpcID),
	})
	if err != nil {
		return failFrom(err, failMsg)
	}
	groupID := aws.ToString(created.GroupId)

	for i, rule := range spec.Rules {
		_, err := client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:    aws.String(groupID),
			IpProtocol: aws.String(rule.Protocol),
			FromPort:   aws.Int32(rule.Port),
			ToPort:     aws.Int32(rule.Port),
			CidrIp:     aws.String(rule.CIDR),
		})
		if err != nil {
			// Rules applied so far are not rolled back.
			return failFrom(err, fmt.Sprintf("Security group %s was created but only %d of %d rules were applied", groupID, i, len(spec.Rules)))
		}
	}
	s.log.Infow("security group created", "id", groupID, "rules", len(spec.Rules))
	return OK(map[string]any{
		"group_id": groupID,
		"message":  "Security group created successfully",
	})
}

// DeleteSecurityGroup removes a group by id. Single call, no wait.
func (s *Service) DeleteSecurityGroup(ctx context.Context, creds AWSCredentials, groupID string) Result {
	client, err := s.clients.EC2(ctx, creds)
	if err != nil {
		return failFrom(err, "Couldn't delete security group(s).")
	}
	out, err := client.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{GroupId: aws.String(groupID)})
	if err != nil {
		return failFrom(err, "Couldn't delete security group(s).")
	}
	return OK(out)
}

func describeByID(id string) *ec2.DescribeInstancesInput {
	return &ec2.DescribeInstancesInput{InstanceIds: []string{id}}
}
