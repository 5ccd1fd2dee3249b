package azure

import "github.com/google/uuid"

// SubscribedSku represents one entry of the tenant license catalog
// (GET /subscribedSkus).
type SubscribedSku struct {
	Entity
	SkuID            uuid.UUID         `json:"skuId"`
	SkuPartNumber    string            `json:"skuPartNumber"`
	CapabilityStatus string            `json:"capabilityStatus,omitempty"`
	AppliesTo        string            `json:"appliesTo,omitempty"`
	ConsumedUnits    int               `json:"consumedUnits"`
	PrepaidUnits     LicenseUnitDetail `json:"prepaidUnits"`
	ServicePlans     []ServicePlanInfo `json:"servicePlans,omitempty"`
}

type LicenseUnitDetail struct {
	Enabled   int `json:"enabled"`
	LockedOut int `json:"lockedOut"`
	Suspended int `json:"suspended"`
	Warning   int `json:"warning"`
}

type ServicePlanInfo struct {
	ServicePlanID      uuid.UUID `json:"servicePlanId"`
	ServicePlanName    string    `json:"servicePlanName"`
	ProvisioningStatus string    `json:"provisioningStatus,omitempty"`
	AppliesTo          string    `json:"appliesTo,omitempty"`
}

// AvailableUnits is the number of seats still assignable: units in the
// enabled and warning (grace) states minus those already consumed.
func (s SubscribedSku) AvailableUnits() int {
	return s.PrepaidUnits.Enabled + s.PrepaidUnits.Warning - s.ConsumedUnits
}

// AssignedLicense is one license attached to a group or user.
type AssignedLicense struct {
	SkuID         uuid.UUID   `json:"skuId"`
	DisabledPlans []uuid.UUID `json:"disabledPlans"`
}

// LicenseAssignmentRequest is the body for POST /groups/{id}/assignLicense.
// Adds and removes are applied in one call; untouched licenses stay as-is.
type LicenseAssignmentRequest struct {
	AddLicenses    []AssignedLicense `json:"addLicenses"`
	RemoveLicenses []uuid.UUID       `json:"removeLicenses"`
}
