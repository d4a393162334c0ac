package netsvc

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/nsfzt/ztctl/internal/mapper"
	"github.com/nsfzt/ztctl/internal/types"
)

// DropFieldsLackingPermission removes the member fields perms does not allow
// the caller to change and returns one warning per removed field.
//
// Renaming and describing a member require modify. Authorization requires only
// authorize, so config.authorized is always kept: a caller without modify can
// still authorize or deauthorize. The input patch is not mutated.
func DropFieldsLackingPermission(patch map[string]interface{}, perms types.NetworkPermissions) (map[string]interface{}, []string) {
	out := make(map[string]interface{}, len(patch))
	for k, v := range patch {
		out[k] = v
	}
	if perms.Modify {
		return out, nil
	}

	var warnings []string
	for _, field := range []string{mapper.PatchKeyName, mapper.PatchKeyDescription} {
		if _, found, _ := unstructured.NestedFieldNoCopy(out, field); !found {
			continue
		}
		unstructured.RemoveNestedField(out, field)
		warnings = append(warnings, fmt.Sprintf(
			"Insufficient privileges to 'modify' network member '%s' field. Proceeding without it.", field))
	}
	return out, warnings
}
