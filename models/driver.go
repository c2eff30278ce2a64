package models

// Driver list groups as keyed in the driver list file, one per manufacturer question.
const (
	GroupChevrolet = "chevrolet_drivers"
	GroupFord      = "ford_drivers"
	GroupToyota    = "toyota_drivers"
)

// Driver is one selectable entry in a dropdown.
type Driver struct {
	Name string `json:"driver" csv:"driver"`
	Rank int    `json:"rank" csv:"rank"`
}

// Pick converts the driver to the pick it represents.
func (d Driver) Pick() Pick {
	return Pick{Rank: d.Rank, Name: d.Name}
}

// DriverList maps a group name to its drivers.
type DriverList map[string][]Driver
