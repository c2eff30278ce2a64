package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Notification states of a Submission.
const (
	NotifyPending = "pending"
	NotifySent    = "sent"
	NotifyFailed  = "failed"
)

// Submission is the ledger copy of an entry that was written to the sheet.
type Submission struct {
	bun.BaseModel `bun:"table:submissions,alias:s"`

	ID           string     `bun:"id,pk" json:"id"`
	CreatedAt    time.Time  `bun:"created_at,notnull" json:"createdAt"`
	Worksheet    string     `bun:"worksheet,notnull" json:"worksheet"`
	Email        string     `bun:"email,notnull" json:"email"`
	EntryName    string     `bun:"entry_name,notnull" json:"entryName"`
	Q1Name       string     `bun:"q1_name,notnull" json:"q1Name"`
	Q1Rank       int        `bun:"q1_rank,notnull,default:0" json:"q1Rank"`
	Q2Name       string     `bun:"q2_name,notnull" json:"q2Name"`
	Q2Rank       int        `bun:"q2_rank,notnull,default:0" json:"q2Rank"`
	Q3Name       string     `bun:"q3_name,notnull" json:"q3Name"`
	Q3Rank       int        `bun:"q3_rank,notnull,default:0" json:"q3Rank"`
	Manufacturer string     `bun:"manufacturer,notnull" json:"manufacturer"`
	LeadLap      int        `bun:"lead_lap,notnull" json:"leadLap"`
	NotifyStatus string     `bun:"notify_status,notnull" json:"notifyStatus"`
	NotifyError  *string    `bun:"notify_error" json:"notifyError,omitempty"`
	NotifiedAt   *time.Time `bun:"notified_at" json:"notifiedAt,omitempty"`
	Attempts     int        `bun:"attempts,notnull,default:0" json:"attempts"`
}

// NewSubmission copies an entry into a pending ledger row.
func NewSubmission(id, worksheet string, e Entry, at time.Time) *Submission {
	return &Submission{
		ID:           id,
		CreatedAt:    at,
		Worksheet:    worksheet,
		Email:        e.Email,
		EntryName:    e.Name,
		Q1Name:       e.Chevrolet.Name,
		Q1Rank:       e.Chevrolet.Rank,
		Q2Name:       e.Ford.Name,
		Q2Rank:       e.Ford.Rank,
		Q3Name:       e.Toyota.Name,
		Q3Rank:       e.Toyota.Rank,
		Manufacturer: e.Manufacturer,
		LeadLap:      e.LeadLap,
		NotifyStatus: NotifyPending,
	}
}

// Entry rebuilds the entry recorded by the submission.
func (s *Submission) Entry() Entry {
	return Entry{
		Name:         s.EntryName,
		Email:        s.Email,
		Chevrolet:    Pick{Rank: s.Q1Rank, Name: s.Q1Name},
		Ford:         Pick{Rank: s.Q2Rank, Name: s.Q2Name},
		Toyota:       Pick{Rank: s.Q3Rank, Name: s.Q3Name},
		Manufacturer: s.Manufacturer,
		LeadLap:      s.LeadLap,
	}
}
