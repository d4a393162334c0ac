package output

import (
	"time"

	"github.com/nsfzt/ztctl/internal/members"
	"github.com/nsfzt/ztctl/internal/types"
)

// --- Command: network member ls|get|authorize|deauthorize|modify ---

type MemberResult struct {
	MemberID    string   `json:"member_id"`
	Authorized  bool     `json:"authorized"`
	Name        string   `json:"name"`
	ManagedIPs  []string `json:"managed_ips"`
	PhysicalIP  string   `json:"physical_ip,omitempty"`
	Online      bool     `json:"online"`
	LastOnline  string   `json:"last_online"` // RFC3339 in the configured zone
	LastSeen    string   `json:"last_seen"`   // "ONLINE" or "1d 2h 3m 4s"
	Description string   `json:"description"`
}

type MemberListResult struct {
	NetworkID string         `json:"network_id"`
	Members   []MemberResult `json:"members"`
	Total     int            `json:"total"`
}

// --- Command: network show ---

type NetworkResult struct {
	NetworkID   string            `json:"network_id"`
	Permissions PermissionsResult `json:"permissions"`
}

type PermissionsResult struct {
	Read      bool `json:"read"`
	Authorize bool `json:"authorize"`
	Modify    bool `json:"modify"`
	Delete    bool `json:"delete"`
}

// --- Command: status ---

type StatusResult struct {
	User       UserResult `json:"user"`
	Version    string     `json:"version"`
	APIVersion int        `json:"api_version"`
}

type UserResult struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ToMemberResult converts a member, rendering last-seen relative to now.
func ToMemberResult(m types.NetworkMember, now time.Time) MemberResult {
	ips := m.ManagedIPs
	if ips == nil {
		ips = []string{}
	}
	return MemberResult{
		MemberID:    m.MemberID,
		Authorized:  m.Authorized,
		Name:        m.Name,
		ManagedIPs:  ips,
		PhysicalIP:  m.PhysicalIP,
		Online:      m.Online,
		LastOnline:  m.LastOnline.Format(time.RFC3339),
		LastSeen:    members.HumanReadableLastSeen(m.LastOnline, m.Online, now),
		Description: m.Description,
	}
}

// ToMemberListResult converts a member list, keeping its order.
func ToMemberListResult(networkID string, list []types.NetworkMember, now time.Time) MemberListResult {
	results := make([]MemberResult, 0, len(list))
	for _, m := range list {
		results = append(results, ToMemberResult(m, now))
	}
	return MemberListResult{
		NetworkID: networkID,
		Members:   results,
		Total:     len(results),
	}
}

func ToNetworkResult(n types.Network) NetworkResult {
	return NetworkResult{
		NetworkID: n.ID,
		Permissions: PermissionsResult{
			Read:      n.Permissions.Read,
			Authorize: n.Permissions.Authorize,
			Modify:    n.Permissions.Modify,
			Delete:    n.Permissions.Delete,
		},
	}
}

func ToStatusResult(s types.Status) StatusResult {
	return StatusResult{
		User:       UserResult{ID: s.CurrentUser.ID, Email: s.CurrentUser.Email},
		Version:    s.Version,
		APIVersion: s.APIVersion,
	}
}
