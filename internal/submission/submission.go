// Package submission models the raw material of a host form submission: the
// submission type, the flat field map, and the actor behind it. It also
// carries the blank predicate and alternate-key resolution that the
// validation engine applies uniformly to every field.
package submission

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type identifies which host form produced the submission.
type Type string

const (
	TypeRegistration  Type = "registration"
	TypeProfileUpdate Type = "profile_update"
	TypeListingCreate Type = "listing_create"
	TypeListingEdit   Type = "listing_edit"
)

// FormSlot returns the per-session repopulation slot this submission type
// snapshots into on failure. Registration and profile forms share the user
// slot; both listing forms share the item slot.
func (t Type) FormSlot() string {
	switch t {
	case TypeRegistration, TypeProfileUpdate:
		return "user"
	default:
		return "item"
	}
}

// IsListing reports whether the submission creates or edits a listing.
func (t Type) IsListing() bool {
	return t == TypeListingCreate || t == TypeListingEdit
}

// Value is one submitted form value: either a single string or an ordered
// list of strings (multi-select inputs).
type Value struct {
	Scalar string
	List   []string
	Multi  bool
}

// String builds a scalar value.
func String(s string) Value { return Value{Scalar: s} }

// Strings builds a multi-valued value.
func Strings(items ...string) Value { return Value{List: items, Multi: true} }

// Blank reports whether the value counts as empty. A scalar is blank iff it
// trims to the empty string; a list is blank iff every element is, and an
// empty list is blank.
func (v Value) Blank() bool {
	if v.Multi {
		for _, item := range v.List {
			if strings.TrimSpace(item) != "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(v.Scalar) == ""
}

// First returns the scalar form of the value: the scalar itself, or the
// first non-blank element of a list.
func (v Value) First() string {
	if !v.Multi {
		return v.Scalar
	}
	for _, item := range v.List {
		if strings.TrimSpace(item) != "" {
			return item
		}
	}
	return ""
}

// UnmarshalJSON accepts either a JSON string or an array of strings, which is
// how the host serializes scalar and multi-select parameters.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Value{Scalar: s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = Value{List: list, Multi: true}
		return nil
	}
	return fmt.Errorf("field value must be a string or an array of strings")
}

// MarshalJSON mirrors UnmarshalJSON for snapshot round-trips.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Multi {
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Scalar)
}

// Fields is the flat map of submitted parameters.
type Fields map[string]Value

// Get returns the value under key; a missing key reads as a blank scalar.
func (f Fields) Get(key string) Value {
	return f[key]
}

// Resolve looks up primary; if that is absent or blank and alternate is
// non-empty and non-blank, returns the alternate instead. Different
// front-ends submit the same logical field under different key names, and
// this keeps policy checks front-end-agnostic. When both are blank the
// primary's value is returned.
func (f Fields) Resolve(primary, alternate string) Value {
	v := f.Get(primary)
	if !v.Blank() || alternate == "" {
		return v
	}
	if alt := f.Get(alternate); !alt.Blank() {
		return alt
	}
	return v
}

// Context is one submission event: its type, raw fields, and the actor.
// UserID zero means the submitter is anonymous.
type Context struct {
	Type      Type
	Fields    Fields
	SessionID string
	UserID    int64
}

// Authenticated reports whether a concrete user identity accompanies the
// submission.
func (c Context) Authenticated() bool {
	return c.UserID > 0
}
