package azure

import "time"

// CloudPC represents a provisioned Cloud PC instance
// (beta /deviceManagement/virtualEndpoint/cloudPCs).
type CloudPC struct {
	Entity
	DisplayName            string    `json:"displayName,omitempty"`
	ManagedDeviceName      string    `json:"managedDeviceName,omitempty"`
	UserPrincipalName      string    `json:"userPrincipalName,omitempty"`
	ImageDisplayName       string    `json:"imageDisplayName,omitempty"`
	ProvisioningPolicyID   string    `json:"provisioningPolicyId,omitempty"`
	ProvisioningPolicyName string    `json:"provisioningPolicyName,omitempty"`
	ServicePlanName        string    `json:"servicePlanName,omitempty"`
	Status                 string    `json:"status,omitempty"`
	GracePeriodEndDateTime time.Time `json:"gracePeriodEndDateTime,omitempty"`
	LastModifiedDateTime   time.Time `json:"lastModifiedDateTime,omitempty"`
}

// InGracePeriod reports whether the instance is in its post-deprovisioning
// retention window.
func (s CloudPC) InGracePeriod() bool {
	return s.Status == "inGracePeriod"
}
