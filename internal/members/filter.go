// Package members filters, orders and describes member lists on the client
// side. The controller returns members in an order of its choosing.
package members

import (
	"strings"

	"github.com/nsfzt/ztctl/internal/types"
)

// Filter selects members. Unset criteria match everything.
type Filter struct {
	// Name matches members whose name contains the substring.
	Name types.Optional[string]

	// Description matches members whose description contains the substring.
	Description types.Optional[string]

	Authorized types.Optional[bool]
	Online     types.Optional[bool]
}

// Match reports whether m satisfies every set criterion.
func (f Filter) Match(m types.NetworkMember) bool {
	if name, ok := f.Name.Get(); ok && !strings.Contains(m.Name, name) {
		return false
	}
	if desc, ok := f.Description.Get(); ok && !strings.Contains(m.Description, desc) {
		return false
	}
	if authorized, ok := f.Authorized.Get(); ok && authorized != m.Authorized {
		return false
	}
	if online, ok := f.Online.Get(); ok && online != m.Online {
		return false
	}
	return true
}

// Apply returns the matching members in their original order.
func (f Filter) Apply(in []types.NetworkMember) []types.NetworkMember {
	out := make([]types.NetworkMember, 0, len(in))
	for _, m := range in {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}
