package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"

	"github.com/padraicbc/cupsurvey/models"
	"github.com/padraicbc/cupsurvey/survey"
)

// Format selects the body of the confirmation email.
type Format string

const (
	Plain Format = "plain"
	Rich  Format = "rich"
)

// NotificationError reports that a confirmation could not be sent. It is
// never fatal to a submission.
type NotificationError struct {
	To  string
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.To, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

var plainBody = template.Must(template.New("plain").Parse(`Hi {{.Name}},

Thanks for participating in the {{.Contest}}!

Your picks:
{{range .Lines}}- {{.Label}}: {{.Value}}
{{end}}
🏁 Good luck and may the best team win!
`))

var richBody = template.Must(template.New("rich").Funcs(template.FuncMap{"md": escapeMarkdown}).Parse(`Hi {{md .Name}},

Thanks for participating in the {{md .Contest}}!

{{range .Lines}}- **{{.Label}}:** {{md .Value}}
{{end}}
🏁 Good luck to you and your crew!
`))

type line struct {
	Label string
	Value string
}

type bodyData struct {
	Name    string
	Contest string
	Lines   []line
}

// Notifier composes and sends confirmation emails.
type Notifier struct {
	sender  Sender
	format  Format
	contest string
	from    string
	replyTo string
}

// NewNotifier returns a notifier that sends through sender. from and replyTo
// may be empty to use the sender's defaults.
func NewNotifier(sender Sender, format Format, contest, from, replyTo string) *Notifier {
	if format == "" {
		format = Plain
	}
	return &Notifier{sender: sender, format: format, contest: contest, from: from, replyTo: replyTo}
}

// Subject returns the subject line of every confirmation.
func (n *Notifier) Subject() string {
	return fmt.Sprintf("✅ %s – Confirmation", n.contest)
}

// Compose builds the confirmation email for an entry without sending it.
func (n *Notifier) Compose(e models.Entry) (SendRequest, error) {
	s := e.Summary()
	data := bodyData{
		Name:    s.Name,
		Contest: n.contest,
		Lines: []line{
			{survey.DriverQuestions[0].Label, s.Q1},
			{survey.DriverQuestions[1].Label, s.Q2},
			{survey.DriverQuestions[2].Label, s.Q3},
			{survey.ManufacturerLabel, s.Q4},
			{survey.LeadLapLabel, s.LeadLap},
		},
	}

	req := SendRequest{
		To:      []string{e.Email},
		From:    n.from,
		ReplyTo: n.replyTo,
		Subject: n.Subject(),
	}

	var text bytes.Buffer
	if err := plainBody.Execute(&text, data); err != nil {
		return SendRequest{}, fmt.Errorf("plain body: %w", err)
	}
	req.Text = text.String()

	if n.format == Rich {
		var md, html bytes.Buffer
		if err := richBody.Execute(&md, data); err != nil {
			return SendRequest{}, fmt.Errorf("rich body: %w", err)
		}
		if err := goldmark.Convert(md.Bytes(), &html); err != nil {
			return SendRequest{}, fmt.Errorf("rendering rich body: %w", err)
		}
		req.HTML = "<html><body>\n" + html.String() + "</body></html>\n"
	}
	return req, nil
}

// Notify sends the confirmation for an entry.
func (n *Notifier) Notify(ctx context.Context, e models.Entry) (SendResult, error) {
	req, err := n.Compose(e)
	if err != nil {
		return SendResult{}, &NotificationError{To: e.Email, Err: err}
	}
	res, err := n.sender.Send(ctx, req)
	if err != nil {
		return SendResult{}, &NotificationError{To: e.Email, Err: err}
	}
	return res, nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
	`<`, `\<`, `>`, `\>`, `#`, `\#`, `!`, `\!`, `|`, `\|`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
