// Package profile reads and writes attributes of the host's user record
// without assuming which host capability is available. Core fields live in
// the user table; the seller-type classifier lives in an auxiliary
// key-value attribute store.
package profile

// Column names a user-table attribute this service is allowed to touch.
// Writes are sparse partial updates; unlisted columns are never touched.
type Column string

const (
	ColAddress  Column = "s_address"
	ColCity     Column = "s_city"
	ColCityArea Column = "s_city_area"
	ColCountry  Column = "s_country"
	ColPhone    Column = "s_phone_mobile"
	ColRegion   Column = "s_region"
	ColZip      Column = "s_zip"
)

// MetaSellerType is the auxiliary-store attribute holding the seller-type
// classifier.
const MetaSellerType = "seller_type"

// allowedColumns is the closed set a partial update may name.
var allowedColumns = map[Column]bool{
	ColAddress:  true,
	ColCity:     true,
	ColCityArea: true,
	ColCountry:  true,
	ColPhone:    true,
	ColRegion:   true,
	ColZip:      true,
}

// AllowedColumn reports whether c may appear in a partial update.
func AllowedColumn(c Column) bool {
	return allowedColumns[c]
}

// sellerTypeFalseSentinel is what backends that conflate boolean false with
// the literal 0 hand back on a read.
const sellerTypeFalseSentinel = "false"

// NormalizeSellerType maps the backend false sentinel to "0". The sentinel
// means a stored zero, not an absent value, so it must survive as a concrete
// answer.
func NormalizeSellerType(raw string) string {
	if raw == sellerTypeFalseSentinel {
		return "0"
	}
	return raw
}
