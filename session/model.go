package session

// Record is the durable form of an authenticated user identity.
type Record struct {
	ID         string            `json:"id"`
	Username   string            `json:"username"`
	Attributes map[string]string `json:"attributes,omitempty"`
}
