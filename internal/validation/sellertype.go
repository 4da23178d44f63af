package validation

// Seller-type canonical value sets. Guests classify themselves with a
// two-value text enumeration; authenticated accounts carry the classifier in
// the boolean-like form their attribute store persists. The two sets are
// deliberately not unified: rewriting values the host already stored is not
// this service's call. See DESIGN.md.
var (
	// guestSellerTypes is accepted from anonymous submitters: registrations
	// and guest listing posts.
	guestSellerTypes = [...]string{"private", "company"}

	// accountSellerTypes is accepted from authenticated listing submitters
	// and is the form persisted into the attribute store.
	accountSellerTypes = [...]string{"0", "1"}
)

// canonicalGuestSellerType reports whether v is exactly one of the guest
// values.
func canonicalGuestSellerType(v string) bool {
	return v == guestSellerTypes[0] || v == guestSellerTypes[1]
}

// canonicalAccountSellerType reports whether v is exactly one of the
// account values.
func canonicalAccountSellerType(v string) bool {
	return v == accountSellerTypes[0] || v == accountSellerTypes[1]
}
