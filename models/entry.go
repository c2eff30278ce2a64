package models

import (
	"fmt"
	"strconv"
)

// Pick is a driver selection. Rank is zero for free-text picks.
type Pick struct {
	Rank int    `json:"rank,omitempty"`
	Name string `json:"name"`
}

// String returns the display form of the pick: the bare name for free-text
// picks, "#<rank> <name>" for picks made from the driver list.
func (p Pick) String() string {
	if p.Rank == 0 {
		return p.Name
	}
	return fmt.Sprintf("#%d %s", p.Rank, p.Name)
}

// Entry is one validated contest submission.
type Entry struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Chevrolet    Pick   `json:"q1"`
	Ford         Pick   `json:"q2"`
	Toyota       Pick   `json:"q3"`
	Manufacturer string `json:"q4"`
	LeadLap      int    `json:"leadLap"`
}

// Summary returns the display fields shown once on the confirmation page.
func (e Entry) Summary() Summary {
	return Summary{
		Name:    e.Name,
		Email:   e.Email,
		Q1:      e.Chevrolet.String(),
		Q2:      e.Ford.String(),
		Q3:      e.Toyota.String(),
		Q4:      e.Manufacturer,
		LeadLap: strconv.Itoa(e.LeadLap),
	}
}

// Summary holds the display copy of an Entry kept in the session until the
// confirmation page has been rendered.
type Summary struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Q1      string `json:"q1"`
	Q2      string `json:"q2"`
	Q3      string `json:"q3"`
	Q4      string `json:"q4"`
	LeadLap string `json:"lead_lap"`
}
