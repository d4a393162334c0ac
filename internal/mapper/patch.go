package mapper

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/nsfzt/ztctl/internal/types"
)

// Patch keys understood by the member update endpoint.
const (
	PatchKeyConfig      = "config"
	PatchKeyAuthorized  = "authorized"
	PatchKeyName        = "name"
	PatchKeyDescription = "description"
)

// BuildUpdatePatch builds the sparse member patch for update.
//
// Only fields set in update appear in the result. The controller merges the
// fragment into the stored member, so an omitted key leaves the server value
// untouched while a present key, even false or "", is applied. The config
// object is created only when authorized is set.
func BuildUpdatePatch(update types.MemberUpdate) map[string]interface{} {
	patch := map[string]interface{}{}

	if authorized, ok := update.Authorized.Get(); ok {
		// Cannot fail: patch is a fresh map and bool is a JSON value.
		_ = unstructured.SetNestedField(patch, authorized, PatchKeyConfig, PatchKeyAuthorized)
	}
	if name, ok := update.Name.Get(); ok {
		patch[PatchKeyName] = name
	}
	if description, ok := update.Description.Get(); ok {
		patch[PatchKeyDescription] = description
	}
	return patch
}
