package survey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/padraicbc/cupsurvey/models"
)

// emailPattern is intentionally loose: anything@anything.anything, anchored
// at the start only. Tightening it is a product decision.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

// PickMode selects how driver picks arrive on the form.
type PickMode string

const (
	FreeText   PickMode = "free-text"
	Structured PickMode = "structured"
)

// Form carries the raw submitted values.
type Form struct {
	EntryName string `form:"entry_name"`
	Email     string `form:"email"`
	Q1        string `form:"q1"`
	Q1Name    string `form:"q1_name"`
	Q1Rank    string `form:"q1_rank"`
	Q2        string `form:"q2"`
	Q2Name    string `form:"q2_name"`
	Q2Rank    string `form:"q2_rank"`
	Q3        string `form:"q3"`
	Q3Name    string `form:"q3_name"`
	Q3Rank    string `form:"q3_rank"`
	Q4        string `form:"q4"`
	LeadLap   string `form:"lead_lap"`
}

type rawPick struct {
	composite, name, rank string
}

func (f Form) picks() [3]rawPick {
	return [3]rawPick{
		{f.Q1, f.Q1Name, f.Q1Rank},
		{f.Q2, f.Q2Name, f.Q2Rank},
		{f.Q3, f.Q3Name, f.Q3Rank},
	}
}

// Validator turns a Form into an Entry.
type Validator struct {
	mode    PickMode
	drivers models.DriverList
}

// NewValidator returns a validator for the given pick mode. drivers may be
// nil; when set, structured picks must name a driver of the matching group.
func NewValidator(mode PickMode, drivers models.DriverList) *Validator {
	if mode == "" {
		mode = FreeText
	}
	return &Validator{mode: mode, drivers: drivers}
}

// Mode returns the pick mode the validator was built with.
func (v *Validator) Mode() PickMode { return v.mode }

// Validate checks every rule independently and returns either the normalized
// entry or ValidationErrors listing all failures in rule order.
func (v *Validator) Validate(f Form) (models.Entry, error) {
	var errs ValidationErrors

	name := strings.TrimSpace(f.EntryName)
	switch {
	case name == "":
		errs = append(errs, ValidationError{Kind: MissingField, Field: "entry_name", Message: "Entry Name is required."})
	case tooLong(name, MaxTextLength):
		errs = append(errs, lengthError("entry_name", EntryNameLabel, MaxTextLength))
	}

	email := strings.TrimSpace(f.Email)
	switch {
	case !ValidEmail(email):
		errs = append(errs, ValidationError{Kind: InvalidEmail, Field: "email", Message: "A valid Email Address is required."})
	case tooLong(email, MaxEmailLength):
		errs = append(errs, lengthError("email", EmailLabel, MaxEmailLength))
	}

	leadLap, ok := ParseLeadLap(f.LeadLap)
	if !ok {
		errs = append(errs, ValidationError{
			Kind:    OutOfRange,
			Field:   "lead_lap",
			Message: fmt.Sprintf("Enter a number between %d and %d for cars finishing on the lead lap.", MinLeadLap, MaxLeadLap),
		})
	}

	var picks [3]models.Pick
	for i, raw := range f.picks() {
		q := DriverQuestions[i]
		if tooLong(strings.TrimSpace(raw.composite), MaxTextLength) || tooLong(strings.TrimSpace(raw.name), MaxTextLength) {
			errs = append(errs, lengthError(q.Field, q.Label, MaxTextLength))
			continue
		}
		if v.mode != Structured {
			picks[i] = models.Pick{Name: strings.TrimSpace(raw.composite)}
			continue
		}
		p, err := ParsePick(raw.composite, raw.name, raw.rank)
		if err == nil {
			p, err = v.listed(q.Group, p)
		}
		if err != nil {
			errs = append(errs, ValidationError{Kind: InvalidPick, Field: q.Field, Message: fmt.Sprintf("Select a %s from the list.", q.Label)})
			continue
		}
		picks[i] = p
	}

	manufacturer := strings.TrimSpace(f.Q4)
	if tooLong(manufacturer, MaxTextLength) {
		errs = append(errs, lengthError("q4", ManufacturerLabel, MaxTextLength))
	}

	if len(errs) > 0 {
		return models.Entry{}, errs
	}
	return models.Entry{
		Name:         name,
		Email:        email,
		Chevrolet:    picks[0],
		Ford:         picks[1],
		Toyota:       picks[2],
		Manufacturer: manufacturer,
		LeadLap:      leadLap,
	}, nil
}

// listed returns the driver-list spelling of p. Without a list for the
// group any decodable pick is accepted as submitted.
func (v *Validator) listed(group string, p models.Pick) (models.Pick, error) {
	drivers := v.drivers[group]
	if len(drivers) == 0 {
		return p, nil
	}
	d, ok := lo.Find(drivers, func(d models.Driver) bool {
		return d.Rank == p.Rank && strings.EqualFold(strings.TrimSpace(d.Name), p.Name)
	})
	if !ok {
		return models.Pick{}, fmt.Errorf("pick %s is not a %s entry", p, group)
	}
	return d.Pick(), nil
}

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

func lengthError(field, label string, limit int) ValidationError {
	return ValidationError{Kind: TooLong, Field: field, Message: fmt.Sprintf("%s must be at most %d characters.", label, limit)}
}

// ValidEmail applies the loose address check.
func ValidEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

// ParseLeadLap accepts only plain decimal digits whose value lies in
// [MinLeadLap, MaxLeadLap].
func ParseLeadLap(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < MinLeadLap || n > MaxLeadLap {
		return 0, false
	}
	return n, true
}
