package azure

// Organization represents the tenant organization object.
type Organization struct {
	Entity
	DisplayName     string           `json:"displayName,omitempty"`
	VerifiedDomains []VerifiedDomain `json:"verifiedDomains,omitempty"`
}

type VerifiedDomain struct {
	Capabilities string `json:"capabilities,omitempty"`
	IsDefault    bool   `json:"isDefault"`
	IsInitial    bool   `json:"isInitial"`
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
}

// DefaultDomain returns the tenant default verified domain, falling back to
// the initial *.onmicrosoft.com domain when no default is flagged.
func (s Organization) DefaultDomain() string {
	for _, d := range s.VerifiedDomains {
		if d.IsDefault {
			return d.Name
		}
	}
	for _, d := range s.VerifiedDomains {
		if d.IsInitial {
			return d.Name
		}
	}
	return ""
}
