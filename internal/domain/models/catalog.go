package models

// Product is a catalog entry keyed by name. The unit is a loose text
// reference into the units collection, not an enforced join.
type Product struct {
	Name string `bson:"name" json:"name"`
	Unit string `bson:"unit" json:"unit"`
}

// DefaultUnits seeds the units collection the first time it is read empty.
var DefaultUnits = []string{"kg", "ltr", "nos"}
