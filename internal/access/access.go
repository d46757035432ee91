// Package access implements the static allow-list gating the activation command.
package access

// Policy is an immutable set of user ids allowed to run the activation command.
type Policy struct {
	allowed map[int64]struct{}
}

// NewPolicy builds a policy from the owner and any extra allowed users.
// The owner is always allowed.
func NewPolicy(ownerID int64, allowedUserIDs []int64) Policy {
	allowed := make(map[int64]struct{}, len(allowedUserIDs)+1)
	allowed[ownerID] = struct{}{}
	for _, id := range allowedUserIDs {
		allowed[id] = struct{}{}
	}
	return Policy{allowed: allowed}
}

// IsAllowed reports whether userID is on the allow-list.
func (p Policy) IsAllowed(userID int64) bool {
	_, ok := p.allowed[userID]
	return ok
}

// Size returns the number of distinct allowed users.
func (p Policy) Size() int {
	return len(p.allowed)
}
