// Package types defines the domain records shared by the ztctl packages.
//
// Records are value types constructed fresh from every API response. None of
// them is mutated after construction: an update produces a new record that
// reflects the controller's post-update state.
package types

import "time"

// NetworkMember is a device attached to a virtual network.
type NetworkMember struct {
	// Authorized reports whether the member may join and route traffic.
	Authorized bool

	// MemberID is the node's network identity, unique within a network.
	MemberID string

	// Name is a short human readable label. May be empty.
	Name string

	// ManagedIPs are the addresses assigned by the controller, in server order.
	ManagedIPs []string

	// PhysicalIP is the last observed public address. Empty when unknown.
	PhysicalIP string

	// LastOnline is derived from the controller's millisecond timestamp.
	LastOnline time.Time

	// Online is the liveness flag as reported by the controller.
	Online bool

	// Description is free text.
	Description string
}

// NetworkPermissions is the current user's capability snapshot on one network.
type NetworkPermissions struct {
	Read      bool
	Authorize bool
	Modify    bool
	Delete    bool
}

// Network is a virtual network together with the caller's permissions on it.
type Network struct {
	ID          string
	Permissions NetworkPermissions
}

// User is the authenticated API caller.
type User struct {
	ID    string
	Email string
}

// Status describes the API server and the authenticated caller.
type Status struct {
	CurrentUser User
	Version     string
	APIVersion  int
}

// MemberUpdate is a partial set of requested member changes.
// Unset fields are left untouched on the server.
type MemberUpdate struct {
	Authorized  Optional[bool]
	Name        Optional[string]
	Description Optional[string]
}

// IsEmpty returns true if no field was requested.
func (u MemberUpdate) IsEmpty() bool {
	return !u.Authorized.IsSet() && !u.Name.IsSet() && !u.Description.IsSet()
}
