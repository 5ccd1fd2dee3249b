package azure

// DirectoryObject is the minimal shape returned by membership and $ref
// endpoints. ODataType distinguishes users from groups and roles.
type DirectoryObject struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	ODataType   string `json:"@odata.type"`
}
