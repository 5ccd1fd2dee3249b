package azure

// Group represents an Azure AD security group.
type Group struct {
	Entity
	DisplayName     string   `json:"displayName,omitempty"`
	Description     string   `json:"description,omitempty"`
	MailEnabled     bool     `json:"mailEnabled"`
	MailNickname    string   `json:"mailNickname,omitempty"`
	SecurityEnabled bool     `json:"securityEnabled"`
	GroupTypes      []string `json:"groupTypes,omitempty"`
}

// NewGroup is the request body for POST /groups. Lab groups are plain
// security groups, never mail-enabled.
type NewGroup struct {
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description,omitempty"`
	MailEnabled     bool     `json:"mailEnabled"`
	MailNickname    string   `json:"mailNickname"`
	SecurityEnabled bool     `json:"securityEnabled"`
	GroupTypes      []string `json:"groupTypes"`
}
