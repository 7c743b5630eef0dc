package orchestrator

// LaunchSpec carries everything needed to launch one instance. Region, when
// set, overrides the tenant's default region for this call only.
type LaunchSpec struct {
	InstanceType    string
	ImageID         string
	KeyName         string
	SecurityGroupID string
	Region          string
}

// IngressRule is one requested security-group ingress rule. FromPort and
// ToPort collapse to the single Port value.
type IngressRule struct {
	Protocol string
	Port     int32
	CIDR     string
}

// SecurityGroupSpec describes a group to create plus its ingress rules.
// VpcID may be empty, in which case the account's default VPC is resolved.
type SecurityGroupSpec struct {
	GroupName   string
	Description string
	VpcID       string
	Region      string
	Rules       []IngressRule
}

// KeyMaterial is the one-time private key artifact from key-pair creation.
// It is relayed to the caller and never persisted.
type KeyMaterial struct {
	KeyName string
	PEM     string
}

// InstanceStatus is the normalized payload of every instance mutation.
type InstanceStatus struct {
	InstanceID string `json:"instance_id"`
	State      string `json:"state"`
	PublicIP   string `json:"public_ip,omitempty"`
}
