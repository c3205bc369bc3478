package models

// Address defines the 'Address' table
type Address struct {
	ID     int64  `json:"addressId" db:"address_id"`
	Street string `json:"street" db:"street"`
	City   string `json:"city" db:"city"`
}

// AddressLine is the display row for an address lookup
type AddressLine struct {
	Street string
	City   string
}

// String renders "street, city"
func (a AddressLine) String() string {
	return a.Street + ", " + a.City
}
