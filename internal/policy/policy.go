// Package policy holds the required-field flags: one boolean per field per
// submission type. Every key has a statically known default, and a key absent
// from the backing store always resolves to that default.
package policy

// Key identifies one required-field flag.
type Key string

// The versioned key enumeration. reg_* keys gate registration fields,
// item_* keys gate listing fields.
const (
	RegName       Key = "reg_name"
	RegUsername   Key = "reg_username"
	RegEmail      Key = "reg_email"
	RegPhone      Key = "reg_phone"
	RegCountry    Key = "reg_country"
	RegRegion     Key = "reg_region"
	RegCity       Key = "reg_city"
	RegCityArea   Key = "reg_city_area"
	RegZip        Key = "reg_zip"
	RegAddress    Key = "reg_address"
	RegSellerType Key = "reg_seller_type"

	ItemTitle       Key = "item_title"
	ItemDescription Key = "item_description"
	ItemPrice       Key = "item_price"
	ItemCategory    Key = "item_category"
	ItemRegion      Key = "item_region"
	ItemCity        Key = "item_city"
	ItemContact     Key = "item_contact"
	ItemSellerType  Key = "item_seller_type"
)

// keys lists every known key in a stable order. Settings maps are unordered;
// this order only matters for deterministic iteration (admin responses,
// EnsureDefaults writes).
var keys = []Key{
	RegName, RegUsername, RegEmail, RegPhone, RegCountry, RegRegion,
	RegCity, RegCityArea, RegZip, RegAddress, RegSellerType,
	ItemTitle, ItemDescription, ItemPrice, ItemCategory, ItemRegion,
	ItemCity, ItemContact, ItemSellerType,
}

var defaults = map[Key]bool{
	RegName:       false,
	RegUsername:   false,
	RegEmail:      true,
	RegPhone:      false,
	RegCountry:    false,
	RegRegion:     false,
	RegCity:       false,
	RegCityArea:   false,
	RegZip:        false,
	RegAddress:    false,
	RegSellerType: false,

	ItemTitle:       true,
	ItemDescription: true,
	ItemPrice:       false,
	ItemCategory:    true,
	ItemRegion:      false,
	ItemCity:        false,
	ItemContact:     false,
	ItemSellerType:  true,
}

// Keys returns the known keys in their stable order.
func Keys() []Key {
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}

// Default returns the built-in default for a key. Unknown keys report false
// alongside ok=false.
func Default(k Key) (value, ok bool) {
	value, ok = defaults[k]
	return value, ok
}

// Known reports whether k is part of the enumeration.
func Known(k Key) bool {
	_, ok := defaults[k]
	return ok
}

// Settings is the effective policy: every known key mapped to its flag.
type Settings map[Key]bool

// Required reports the flag for a key, reading absent entries as the
// built-in default so a partially-populated Settings still behaves.
func (s Settings) Required(k Key) bool {
	if v, ok := s[k]; ok {
		return v
	}
	return defaults[k]
}
