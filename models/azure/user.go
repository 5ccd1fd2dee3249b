package azure

// User represents an Azure AD user object.
type User struct {
	Entity
	AccountEnabled    bool   `json:"accountEnabled"`
	DisplayName       string `json:"displayName,omitempty"`
	MailNickname      string `json:"mailNickname,omitempty"`
	UserPrincipalName string `json:"userPrincipalName,omitempty"`
	UsageLocation     string `json:"usageLocation,omitempty"`
	JobTitle          string `json:"jobTitle,omitempty"`
	Department        string `json:"department,omitempty"`
}

// NewUser is the request body for POST /users.
type NewUser struct {
	AccountEnabled    bool            `json:"accountEnabled"`
	DisplayName       string          `json:"displayName"`
	MailNickname      string          `json:"mailNickname"`
	UserPrincipalName string          `json:"userPrincipalName"`
	UsageLocation     string          `json:"usageLocation,omitempty"`
	PasswordProfile   PasswordProfile `json:"passwordProfile"`
}

// PasswordProfile carries the write-once initial password. Graph never
// returns it on reads.
type PasswordProfile struct {
	Password                      string `json:"password"`
	ForceChangePasswordNextSignIn bool   `json:"forceChangePasswordNextSignIn"`
}
