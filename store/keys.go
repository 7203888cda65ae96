package store

const (
	globalTicketPrefix = "ticket:global:"
	tempTicketPrefix   = "ticket:temp:"
	sessionPrefix      = "session:"
)

// Keyspace builds store keys. The zero value yields the bare layout that
// external tooling expects; Namespace is prepended with a ':' separator when set.
type Keyspace struct {
	Namespace string
}

func (k Keyspace) join(prefix, id string) string {
	if k.Namespace == "" {
		return prefix + id
	}
	return k.Namespace + ":" + prefix + id
}

// GlobalTicket returns the key mapping a global ticket to its user id.
func (k Keyspace) GlobalTicket(token string) string {
	return k.join(globalTicketPrefix, token)
}

// TemporaryTicket returns the key holding a temporary ticket marker.
func (k Keyspace) TemporaryTicket(token string) string {
	return k.join(tempTicketPrefix, token)
}

// Session returns the key holding the session record of userID.
func (k Keyspace) Session(userID string) string {
	return k.join(sessionPrefix, userID)
}
