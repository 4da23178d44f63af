package validation

import (
	"github.com/nootkan/required-fields-manager/internal/policy"
	"github.com/nootkan/required-fields-manager/internal/submission"
)

// FieldCheckSpec is one required-field check: the policy flag gating it, the
// user-facing label for failure messages, and the submission key(s) to
// resolve the value from. Built from policy at evaluation time, never
// persisted.
type FieldCheckSpec struct {
	Policy policy.Key
	Label  string
	Key    string
	// AltKey handles front-ends that submit the same logical field under a
	// different name (raw id vs. free-text name).
	AltKey string
}

// registrationChecks returns the enabled checks for a registration or
// profile-update submission, in the canonical order: identity scalars first,
// then location fields. The order decides which single violation gets
// reported. Address appears twice: the scalar pass requires `s_address`
// itself, the location pass also accepts the `address` alternate. The strict
// check runs first, so enabling the flag rejects a blank `s_address` even
// when the alternate carries a value.
func registrationChecks(s policy.Settings) []FieldCheckSpec {
	all := []FieldCheckSpec{
		{Policy: policy.RegName, Label: "Name", Key: "s_name"},
		{Policy: policy.RegUsername, Label: "Username", Key: "s_username"},
		{Policy: policy.RegEmail, Label: "Email", Key: "s_email"},
		{Policy: policy.RegPhone, Label: "Phone", Key: "s_phone_mobile"},
		{Policy: policy.RegAddress, Label: "Address", Key: "s_address"},
		{Policy: policy.RegCountry, Label: "Country", Key: "countryId", AltKey: "country"},
		{Policy: policy.RegRegion, Label: "Region", Key: "regionId", AltKey: "region"},
		{Policy: policy.RegCity, Label: "City", Key: "cityId", AltKey: "city"},
		{Policy: policy.RegCityArea, Label: "City area", Key: "cityArea"},
		{Policy: policy.RegZip, Label: "Zip code", Key: "zip"},
		{Policy: policy.RegAddress, Label: "Address", Key: "s_address", AltKey: "address"},
	}
	return enabled(s, all)
}

// listingChecks returns the enabled checks for a listing create/edit
// submission. Region and city only appear for anonymous submitters; for
// authenticated actors those live in the persisted profile and are enforced
// by the completeness check instead. The seller-type spec marks presence
// only; its canonical-value rule is applied separately per actor kind.
func listingChecks(s policy.Settings, authenticated bool) []FieldCheckSpec {
	all := []FieldCheckSpec{
		{Policy: policy.ItemTitle, Label: "Title", Key: "title"},
		{Policy: policy.ItemDescription, Label: "Description", Key: "description"},
		{Policy: policy.ItemPrice, Label: "Price", Key: "price"},
		{Policy: policy.ItemCategory, Label: "Category", Key: "catId"},
	}
	if !authenticated {
		all = append(all,
			FieldCheckSpec{Policy: policy.ItemRegion, Label: "Region", Key: "regionId", AltKey: "region"},
			FieldCheckSpec{Policy: policy.ItemCity, Label: "City", Key: "cityId", AltKey: "city"},
		)
	}
	all = append(all,
		FieldCheckSpec{Policy: policy.ItemSellerType, Label: "Seller type", Key: "sellerType"},
		FieldCheckSpec{Policy: policy.ItemContact, Label: "Contact name", Key: "contactName", AltKey: "yourName"},
		FieldCheckSpec{Policy: policy.ItemContact, Label: "Contact email", Key: "contactEmail", AltKey: "yourEmail"},
	)
	return enabled(s, all)
}

func enabled(s policy.Settings, all []FieldCheckSpec) []FieldCheckSpec {
	out := make([]FieldCheckSpec, 0, len(all))
	for _, spec := range all {
		if s.Required(spec.Policy) {
			out = append(out, spec)
		}
	}
	return out
}

// stashKeys is the fixed set of ancillary registration fields captured for
// deferred apply. Each entry maps the stash name to the submitted key it is
// read from. Captured unconditionally, even when blank; the apply step
// re-checks blankness.
var stashKeys = []struct {
	Name string
	Key  string
}{
	{Name: "countryId", Key: "countryId"},
	{Name: "region", Key: "region"},
	{Name: "regionId", Key: "regionId"},
	{Name: "city", Key: "city"},
	{Name: "cityId", Key: "cityId"},
	{Name: "cityArea", Key: "cityArea"},
	{Name: "zip", Key: "zip"},
	{Name: "address", Key: "s_address"},
	{Name: "sellerType", Key: "sellerType"},
	{Name: "phone", Key: "s_phone_mobile"},
}

// resolve applies alternate-key resolution for one spec.
func (c FieldCheckSpec) resolve(fields submission.Fields) submission.Value {
	return fields.Resolve(c.Key, c.AltKey)
}
