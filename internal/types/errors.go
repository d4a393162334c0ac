package types

import "errors"

// Error taxonomy. Callers match with errors.Is; wrapped errors carry detail.
var (
	// ErrAuthentication means the API token was rejected or the initial
	// status call failed.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNetworkNotFound means the controller reported the network as absent.
	ErrNetworkNotFound = errors.New("network not found")

	// ErrMemberNotFound means the controller reported the member as absent.
	ErrMemberNotFound = errors.New("member not found")

	// ErrMalformedResponse means a response had an unexpected type
	// discriminator or lacked a required field.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrPermissionDataMissing means the network's permission map has no
	// entry for the current user.
	ErrPermissionDataMissing = errors.New("permission data missing for current user")
)
