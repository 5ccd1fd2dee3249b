package azure

// Entity is the base shape shared by Graph directory and device management
// resources.
type Entity struct {
	ID string `json:"id,omitempty"`
}
