package models

// Location represents a single point-in-time geolocation observation.
// Values are stored as submitted; no range checks are applied.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Date      uint64  `json:"date"`
}

// StoredRecord is the persisted unit kept under its ID in the locations table.
type StoredRecord struct {
	// ID is the public identifier and the store key of the record.
	ID string `json:"id"`

	// Secret proves the right to mutate the record. It is only disclosed in the create response.
	Secret string `json:"secret"`

	// Location is the current location value, replaced wholesale on update.
	Location Location `json:"location"`
}

// LocationList maps record IDs to their current location, without secrets.
type LocationList map[string]Location
