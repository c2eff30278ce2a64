package survey

import "github.com/padraicbc/cupsurvey/models"

// Question describes one of the driver picks on the form.
type Question struct {
	Field string
	Group string
	Label string
}

// DriverQuestions are the three driver picks in form order.
var DriverQuestions = []Question{
	{Field: "q1", Group: models.GroupChevrolet, Label: "Chevrolet Driver"},
	{Field: "q2", Group: models.GroupFord, Label: "Ford Driver"},
	{Field: "q3", Group: models.GroupToyota, Label: "Toyota Driver"},
}

const (
	EntryNameLabel    = "Entry Name"
	EmailLabel        = "Email Address"
	ManufacturerLabel = "Manufacturer Winner"
	LeadLapLabel      = "Cars on Lead Lap"
)

// Manufacturers are the choices offered for the manufacturer winner pick.
var Manufacturers = []string{"Chevrolet", "Ford", "Toyota"}

// Lead lap bounds, inclusive.
const (
	MinLeadLap = 1
	MaxLeadLap = 37
)

// Length caps, in characters. They keep a row and the summary cookie small.
const (
	MaxTextLength  = 100
	MaxEmailLength = 254
)
