package survey

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/cupsurvey/models"
)

func validForm() Form {
	return Form{
		EntryName: "Jane Doe",
		Email:     "jane@example.com",
		Q1:        "Kyle Larson",
		Q2:        "Joey Logano",
		Q3:        "Christopher Bell",
		Q4:        "Chevrolet",
		LeadLap:   "24",
	}
}

func TestParseLeadLap(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, false},
		{"38", 0, false},
		{"1", 1, true},
		{"37", 37, true},
		{"abc", 0, false},
		{"", 0, false},
		{" 24 ", 24, true},
		{"-5", 0, false},
		{"2.5", 0, false},
		{"007", 7, true},
		{"99999999999999999999999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLeadLap(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.c", true},
		{"jane@example.com", true},
		{"a@b", false},
		{"@b.c", false},
		{"abc", false},
		{"", false},
		// loose on purpose
		{"a@b.c.", true},
		{"a@b..", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.in))
		})
	}
}

func TestValidateFreeText(t *testing.T) {
	v := NewValidator(FreeText, nil)

	entry, err := v.Validate(validForm())
	require.NoError(t, err)
	assert.Equal(t, models.Entry{
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		Chevrolet:    models.Pick{Name: "Kyle Larson"},
		Ford:         models.Pick{Name: "Joey Logano"},
		Toyota:       models.Pick{Name: "Christopher Bell"},
		Manufacturer: "Chevrolet",
		LeadLap:      24,
	}, entry)
}

func TestValidateAccumulatesErrors(t *testing.T) {
	v := NewValidator(FreeText, nil)

	_, err := v.Validate(Form{EntryName: "   ", Email: "nope", LeadLap: "40"})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 3)
	assert.Equal(t, MissingField, verrs[0].Kind)
	assert.Equal(t, InvalidEmail, verrs[1].Kind)
	assert.Equal(t, OutOfRange, verrs[2].Kind)
	assert.Contains(t, verrs[2].Message, "between 1 and 37")
}

func TestValidateLeadLapOnly(t *testing.T) {
	v := NewValidator(FreeText, nil)
	f := validForm()
	f.LeadLap = "40"

	entry, err := v.Validate(f)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"Enter a number between 1 and 37 for cars finishing on the lead lap."}, verrs.Messages())
	assert.Equal(t, models.Entry{}, entry)
}

func TestValidateStructured(t *testing.T) {
	drivers := models.DriverList{
		models.GroupChevrolet: {{Name: "Kyle Larson", Rank: 5}},
		models.GroupFord:      {{Name: "Joey Logano", Rank: 22}},
		models.GroupToyota:    {{Name: "Christopher Bell", Rank: 20}},
	}
	v := NewValidator(Structured, drivers)

	f := validForm()
	f.Q1 = "Kyle Larson|5"
	f.Q2 = "22|Joey Logano"
	f.Q3 = ""
	f.Q3Name = "Christopher Bell"
	f.Q3Rank = "20"

	entry, err := v.Validate(f)
	require.NoError(t, err)
	assert.Equal(t, models.Pick{Rank: 5, Name: "Kyle Larson"}, entry.Chevrolet)
	assert.Equal(t, models.Pick{Rank: 22, Name: "Joey Logano"}, entry.Ford)
	assert.Equal(t, models.Pick{Rank: 20, Name: "Christopher Bell"}, entry.Toyota)
	assert.Equal(t, "#5 Kyle Larson", entry.Summary().Q1)

	t.Run("unlisted driver", func(t *testing.T) {
		f := f
		f.Q1 = "Kyle Larson|9"
		_, err := v.Validate(f)
		var verrs ValidationErrors
		require.True(t, errors.As(err, &verrs))
		require.Len(t, verrs, 1)
		assert.Equal(t, InvalidPick, verrs[0].Kind)
		assert.Equal(t, "q1", verrs[0].Field)
	})

	t.Run("malformed composite", func(t *testing.T) {
		f := f
		f.Q2 = "Joey Logano"
		_, err := v.Validate(f)
		var verrs ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.True(t, verrs.Has(InvalidPick))
	})

	t.Run("listed spelling wins", func(t *testing.T) {
		f := f
		f.Q1 = "kyle LARSON|5"
		entry, err := v.Validate(f)
		require.NoError(t, err)
		assert.Equal(t, models.Pick{Rank: 5, Name: "Kyle Larson"}, entry.Chevrolet)
		assert.Equal(t, "#5 Kyle Larson", entry.Summary().Q1)
	})
}

func TestValidateLengthCaps(t *testing.T) {
	long := strings.Repeat("x", MaxTextLength+1)
	tests := []struct {
		name  string
		edit  func(*Form)
		field string
	}{
		{"entry name", func(f *Form) { f.EntryName = long }, "entry_name"},
		{"email", func(f *Form) { f.Email = strings.Repeat("a", MaxEmailLength) + "@example.com" }, "email"},
		{"free-text pick", func(f *Form) { f.Q2 = long }, "q2"},
		{"manufacturer", func(f *Form) { f.Q4 = long }, "q4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.edit(&f)
			_, err := NewValidator(FreeText, nil).Validate(f)
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, TooLong, verrs[0].Kind)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}

	t.Run("at the cap", func(t *testing.T) {
		f := validForm()
		f.EntryName = strings.Repeat("é", MaxTextLength)
		_, err := NewValidator(FreeText, nil).Validate(f)
		assert.NoError(t, err)
	})
}

func TestParsePick(t *testing.T) {
	tests := []struct {
		name                  string
		composite, pick, rank string
		want                  models.Pick
		wantErr               bool
	}{
		{name: "name|rank", composite: "Kyle Larson|5", want: models.Pick{Rank: 5, Name: "Kyle Larson"}},
		{name: "rank|name", composite: "5|Kyle Larson", want: models.Pick{Rank: 5, Name: "Kyle Larson"}},
		{name: "separate fields", pick: " Kyle Larson ", rank: "5", want: models.Pick{Rank: 5, Name: "Kyle Larson"}},
		{name: "empty", wantErr: true},
		{name: "no separator", composite: "Kyle Larson", wantErr: true},
		{name: "two numbers", composite: "5|5", wantErr: true},
		{name: "extra separator", composite: "a|5|b", wantErr: true},
		{name: "bad rank field", pick: "Kyle Larson", rank: "x", wantErr: true},
		{name: "zero rank", composite: "Kyle Larson|0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePick(tt.composite, tt.pick, tt.rank)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodePickRoundTrip(t *testing.T) {
	p := models.Pick{Rank: 12, Name: "Ryan Blaney"}
	got, err := ParsePick(EncodePick(p), "", "")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
