// Package mapper converts raw controller JSON objects into domain records and
// requested member changes back into the JSON patch the controller expects.
//
// Nothing in this package performs I/O. Objects are the generic
// map[string]interface{} form produced by JSON decoding.
package mapper

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/nsfzt/ztctl/internal/types"
)

// Type discriminators used by the controller API.
const (
	TypeMember        = "Member"
	TypeNetwork       = "Network"
	TypeCentralStatus = "CentralStatus"
	TypeUser          = "User"
)

// Mapper converts controller objects into domain records.
//
// Timestamps are interpreted in Location. The controller sends milliseconds
// since the Unix epoch without a zone, so the choice of Location only affects
// how the resulting instant is presented.
type Mapper struct {
	location *time.Location
}

// New creates a Mapper presenting timestamps in loc. A nil loc means
// time.Local.
func New(loc *time.Location) *Mapper {
	if loc == nil {
		loc = time.Local
	}
	return &Mapper{location: loc}
}

// Location returns the zone timestamps are presented in.
func (m *Mapper) Location() *time.Location {
	return m.location
}

// Timestamp converts a millisecond epoch timestamp into a point in time.
func (m *Mapper) Timestamp(msecSinceEpoch int64) time.Time {
	return time.UnixMilli(msecSinceEpoch).In(m.location)
}

// Member maps a controller member object.
func (m *Mapper) Member(raw map[string]interface{}) (types.NetworkMember, error) {
	if err := requireType(raw, TypeMember); err != nil {
		return types.NetworkMember{}, err
	}

	authorized, err := requiredBool(raw, TypeMember, "config", "authorized")
	if err != nil {
		return types.NetworkMember{}, err
	}
	managedIPs, err := nullableStringSlice(raw, TypeMember, "config", "ipAssignments")
	if err != nil {
		return types.NetworkMember{}, err
	}
	nodeID, err := requiredString(raw, TypeMember, "nodeId")
	if err != nil {
		return types.NetworkMember{}, err
	}
	name, err := nullableString(raw, TypeMember, "name")
	if err != nil {
		return types.NetworkMember{}, err
	}
	physicalIP, err := nullableString(raw, TypeMember, "physicalAddress")
	if err != nil {
		return types.NetworkMember{}, err
	}
	online, err := requiredBool(raw, TypeMember, "online")
	if err != nil {
		return types.NetworkMember{}, err
	}
	description, err := nullableString(raw, TypeMember, "description")
	if err != nil {
		return types.NetworkMember{}, err
	}
	lastOnline, err := requiredInt64(raw, TypeMember, "lastOnline")
	if err != nil {
		return types.NetworkMember{}, err
	}

	return types.NetworkMember{
		Authorized:  authorized,
		MemberID:    nodeID,
		Name:        name,
		ManagedIPs:  managedIPs,
		PhysicalIP:  physicalIP,
		LastOnline:  m.Timestamp(lastOnline),
		Online:      online,
		Description: description,
	}, nil
}

// Members maps every element of a member list, preserving order.
func (m *Mapper) Members(raw []interface{}) ([]types.NetworkMember, error) {
	result := make([]types.NetworkMember, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: member list element %d is %T, expected object",
				types.ErrMalformedResponse, i, item)
		}
		member, err := m.Member(obj)
		if err != nil {
			return nil, fmt.Errorf("member list element %d: %w", i, err)
		}
		result = append(result, member)
	}
	return result, nil
}

// Status maps a controller status object and its nested user.
func Status(raw map[string]interface{}) (types.Status, error) {
	if err := requireType(raw, TypeCentralStatus); err != nil {
		return types.Status{}, err
	}

	userObj, found, err := unstructured.NestedFieldNoCopy(raw, "user")
	if err != nil || !found {
		return types.Status{}, missingField(TypeCentralStatus, "user")
	}
	user, ok := userObj.(map[string]interface{})
	if !ok {
		return types.Status{}, fmt.Errorf("%w: %s.user is %T, expected object",
			types.ErrMalformedResponse, TypeCentralStatus, userObj)
	}
	if err := requireType(user, TypeUser); err != nil {
		return types.Status{}, err
	}

	userID, err := requiredString(user, TypeUser, "id")
	if err != nil {
		return types.Status{}, err
	}
	email, err := requiredString(user, TypeUser, "email")
	if err != nil {
		return types.Status{}, err
	}
	version, err := requiredString(raw, TypeCentralStatus, "version")
	if err != nil {
		return types.Status{}, err
	}
	apiVersion, err := requiredInt64(raw, TypeCentralStatus, "apiVersion")
	if err != nil {
		return types.Status{}, err
	}

	return types.Status{
		CurrentUser: types.User{ID: userID, Email: email},
		Version:     version,
		APIVersion:  int(apiVersion),
	}, nil
}

// Network maps a controller network object, keeping only the permissions of
// currentUserID.
func Network(raw map[string]interface{}, currentUserID string) (types.Network, error) {
	if err := requireType(raw, TypeNetwork); err != nil {
		return types.Network{}, err
	}

	id, err := requiredString(raw, TypeNetwork, "id")
	if err != nil {
		return types.Network{}, err
	}

	all, found, _ := unstructured.NestedFieldNoCopy(raw, "permissions")
	if !found || all == nil {
		return types.Network{}, fmt.Errorf("%w: network %q has no permissions", types.ErrPermissionDataMissing, id)
	}
	permsObj, found, err := unstructured.NestedFieldNoCopy(raw, "permissions", currentUserID)
	if err != nil {
		return types.Network{}, fmt.Errorf("%w: %s.permissions: %v", types.ErrMalformedResponse, TypeNetwork, err)
	}
	if !found || permsObj == nil {
		return types.Network{}, fmt.Errorf("%w: user %q on network %q", types.ErrPermissionDataMissing, currentUserID, id)
	}
	perms, ok := permsObj.(map[string]interface{})
	if !ok {
		return types.Network{}, fmt.Errorf("%w: %s.permissions[%s] is %T, expected object",
			types.ErrMalformedResponse, TypeNetwork, currentUserID, permsObj)
	}

	flags := make(map[string]bool, 4)
	for _, key := range []string{"r", "a", "m", "d"} {
		v, err := requiredBool(perms, TypeNetwork, key)
		if err != nil {
			return types.Network{}, err
		}
		flags[key] = v
	}

	return types.Network{
		ID: id,
		Permissions: types.NetworkPermissions{
			Read:      flags["r"],
			Authorize: flags["a"],
			Modify:    flags["m"],
			Delete:    flags["d"],
		},
	}, nil
}

// requireType checks the "type" discriminator.
func requireType(raw map[string]interface{}, want string) error {
	if raw == nil {
		return fmt.Errorf("%w: expected %s object, got null", types.ErrMalformedResponse, want)
	}
	got, found, err := unstructured.NestedString(raw, "type")
	if err != nil || !found {
		return fmt.Errorf("%w: expected %s object, type discriminator missing", types.ErrMalformedResponse, want)
	}
	if got != want {
		return fmt.Errorf("%w: expected %s object, got %q", types.ErrMalformedResponse, want, got)
	}
	return nil
}

func missingField(kind string, fields ...string) error {
	return fmt.Errorf("%w: %s is missing required field %q", types.ErrMalformedResponse, kind, joinPath(fields))
}

func wrongType(kind string, err error) error {
	return fmt.Errorf("%w: %s: %v", types.ErrMalformedResponse, kind, err)
}

func requiredString(raw map[string]interface{}, kind string, fields ...string) (string, error) {
	v, found, err := unstructured.NestedString(raw, fields...)
	if err != nil {
		return "", wrongType(kind, err)
	}
	if !found {
		return "", missingField(kind, fields...)
	}
	return v, nil
}

// nullableString requires the key to be present but accepts null as "".
func nullableString(raw map[string]interface{}, kind string, fields ...string) (string, error) {
	v, found, err := unstructured.NestedFieldNoCopy(raw, fields...)
	if err != nil {
		return "", wrongType(kind, err)
	}
	if !found {
		return "", missingField(kind, fields...)
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %s.%s is %T, expected string", types.ErrMalformedResponse, kind, joinPath(fields), v)
	}
}

func requiredBool(raw map[string]interface{}, kind string, fields ...string) (bool, error) {
	v, found, err := unstructured.NestedBool(raw, fields...)
	if err != nil {
		return false, wrongType(kind, err)
	}
	if !found {
		return false, missingField(kind, fields...)
	}
	return v, nil
}

// nullableStringSlice requires the key to be present but accepts null as an
// empty list.
func nullableStringSlice(raw map[string]interface{}, kind string, fields ...string) ([]string, error) {
	v, found, err := unstructured.NestedFieldNoCopy(raw, fields...)
	if err != nil {
		return nil, wrongType(kind, err)
	}
	if !found {
		return nil, missingField(kind, fields...)
	}
	if v == nil {
		return []string{}, nil
	}
	list, _, err := unstructured.NestedStringSlice(raw, fields...)
	if err != nil {
		return nil, wrongType(kind, err)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// requiredInt64 accepts the numeric forms produced by the JSON decoders in use:
// int64 from apimachinery's decoder, float64 from encoding/json and json.Number.
func requiredInt64(raw map[string]interface{}, kind string, fields ...string) (int64, error) {
	v, found, err := unstructured.NestedFieldNoCopy(raw, fields...)
	if err != nil {
		return 0, wrongType(kind, err)
	}
	if !found {
		return 0, missingField(kind, fields...)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s.%s: %v", types.ErrMalformedResponse, kind, joinPath(fields), err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: %s.%s is %T, expected number", types.ErrMalformedResponse, kind, joinPath(fields), v)
	}
}

func joinPath(fields []string) string {
	return strings.Join(fields, ".")
}
