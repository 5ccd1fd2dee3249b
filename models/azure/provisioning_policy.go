package azure

// ProvisioningPolicy represents a Cloud PC provisioning policy
// (beta /deviceManagement/virtualEndpoint/provisioningPolicies).
type ProvisioningPolicy struct {
	Entity
	DisplayName              string                    `json:"displayName,omitempty"`
	Description              string                    `json:"description,omitempty"`
	ProvisioningType         string                    `json:"provisioningType,omitempty"`
	ImageID                  string                    `json:"imageId,omitempty"`
	ImageType                string                    `json:"imageType,omitempty"`
	ImageDisplayName         string                    `json:"imageDisplayName,omitempty"`
	EnableSingleSignOn       bool                      `json:"enableSingleSignOn"`
	DomainJoinConfigurations []DomainJoinConfiguration `json:"domainJoinConfigurations,omitempty"`
	WindowsSetting           *WindowsSetting           `json:"windowsSetting,omitempty"`
	Assignments              []PolicyAssignment        `json:"assignments,omitempty"`
}

// NewProvisioningPolicy is the create request body. Assignments are managed
// through the /assign action, never at create time.
type NewProvisioningPolicy struct {
	DisplayName              string                    `json:"displayName"`
	Description              string                    `json:"description,omitempty"`
	ProvisioningType         string                    `json:"provisioningType"`
	ImageID                  string                    `json:"imageId"`
	ImageType                string                    `json:"imageType"`
	ImageDisplayName         string                    `json:"imageDisplayName,omitempty"`
	EnableSingleSignOn       bool                      `json:"enableSingleSignOn"`
	DomainJoinConfigurations []DomainJoinConfiguration `json:"domainJoinConfigurations"`
	WindowsSetting           *WindowsSetting           `json:"windowsSetting,omitempty"`
}

// DomainJoinConfiguration selects how provisioned Cloud PCs join a network:
// either a customer Azure network connection or a Microsoft-hosted network in
// a named region. Exactly one of OnPremisesConnectionID/RegionName is set.
type DomainJoinConfiguration struct {
	DomainJoinType         string `json:"domainJoinType"`
	OnPremisesConnectionID string `json:"onPremisesConnectionId,omitempty"`
	RegionName             string `json:"regionName,omitempty"`
}

type WindowsSetting struct {
	Locale string `json:"locale"`
}

// PolicyAssignment is one entry of a policy or user-setting assignment list.
type PolicyAssignment struct {
	ID     string           `json:"id,omitempty"`
	Target AssignmentTarget `json:"target"`
}

// AssignmentTarget points an assignment at a security group.
type AssignmentTarget struct {
	ODataType string `json:"@odata.type,omitempty"`
	GroupID   string `json:"groupId"`
}

const (
	ODataTypeGroupAssignmentTarget = "#microsoft.graph.cloudPcManagementGroupAssignmentTarget"

	DomainJoinTypeAzureADJoin = "azureADJoin"

	ProvisioningTypeDedicated = "dedicated"

	ImageTypeGallery = "gallery"
	ImageTypeCustom  = "custom"
)

// GroupAssignment builds the canonical assignment entry for a group target.
func GroupAssignment(groupID string) PolicyAssignment {
	return PolicyAssignment{
		Target: AssignmentTarget{
			ODataType: ODataTypeGroupAssignmentTarget,
			GroupID:   groupID,
		},
	}
}

// AssignmentRequest is the body for the /assign action on provisioning
// policies and user settings.
type AssignmentRequest struct {
	Assignments []PolicyAssignment `json:"assignments"`
}
