package members

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nsfzt/ztctl/internal/types"
)

// SortKey selects a member ordering.
type SortKey string

const (
	// SortNone keeps server order.
	SortNone SortKey = "none"
	// SortLastSeen puts online members first, then the most recently seen.
	SortLastSeen SortKey = "last-seen"
	SortName     SortKey = "name"
	SortID       SortKey = "id"
)

// SortKeys lists the accepted keys in help-text order.
var SortKeys = []SortKey{SortNone, SortLastSeen, SortName, SortID}

// ParseSortKey validates a user supplied key. Empty means SortNone.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortNone, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, len(SortKeys))
	for i, k := range SortKeys {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown sort key %q (want one of: %s)", s, strings.Join(names, ", "))
}

// Sort orders members in place. The sort is stable so ties keep server order.
func Sort(list []types.NetworkMember, key SortKey) {
	var less func(a, b types.NetworkMember) bool
	switch key {
	case SortLastSeen:
		less = func(a, b types.NetworkMember) bool {
			if a.Online != b.Online {
				return a.Online
			}
			return a.LastOnline.After(b.LastOnline)
		}
	case SortName:
		less = func(a, b types.NetworkMember) bool { return a.Name < b.Name }
	case SortID:
		less = func(a, b types.NetworkMember) bool { return a.MemberID < b.MemberID }
	default:
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}
