package azure

// CloudPcUserSetting represents a Cloud PC user-settings policy
// (beta /deviceManagement/virtualEndpoint/userSettings).
type CloudPcUserSetting struct {
	Entity
	DisplayName         string               `json:"displayName,omitempty"`
	Description         string               `json:"description,omitempty"`
	LocalAdminEnabled   bool                 `json:"localAdminEnabled"`
	SelfServiceEnabled  bool                 `json:"selfServiceEnabled"`
	RestorePointSetting *RestorePointSetting `json:"restorePointSetting,omitempty"`
	Assignments         []PolicyAssignment   `json:"assignments,omitempty"`
}

// NewCloudPcUserSetting is the create request body.
type NewCloudPcUserSetting struct {
	DisplayName         string               `json:"displayName"`
	Description         string               `json:"description,omitempty"`
	LocalAdminEnabled   bool                 `json:"localAdminEnabled"`
	SelfServiceEnabled  bool                 `json:"selfServiceEnabled"`
	RestorePointSetting *RestorePointSetting `json:"restorePointSetting,omitempty"`
}

// RestorePointSetting controls automatic restore points. The service accepts
// frequencies between 4 and 24 hours.
type RestorePointSetting struct {
	FrequencyInHours   int  `json:"frequencyInHours"`
	UserRestoreEnabled bool `json:"userRestoreEnabled"`
}

const (
	RestorePointFrequencyMin     = 4
	RestorePointFrequencyMax     = 24
	RestorePointFrequencyDefault = 12
)
