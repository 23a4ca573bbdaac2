package workflow

import (
	"fmt"
	"regexp"
	"strings"
)

// Notification is one outbound alert message plus its report attachment.
// Construction is side-effect free; dispatch belongs to the mail sink.
type Notification struct {
	From           string
	To             []string
	Cc             []string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Recipients returns To followed by Cc, the full delivery list.
func (n *Notification) Recipients() []string {
	out := make([]string, 0, len(n.To)+len(n.Cc))
	out = append(out, n.To...)
	out = append(out, n.Cc...)
	return out
}

type ComposeConfig struct {
	Label      string
	CostCenter string
	SlaDays    int
	From       string
	To         []string
	Cc         []string
}

var crlfPattern = regexp.MustCompile(`[\r\n]+`)

// sanitizeSubject folds line breaks out of the subject; a header with CR/LF
// in it is either broken or an injection attempt.
func sanitizeSubject(text string) string {
	return strings.TrimSpace(crlfPattern.ReplaceAllString(text, " "))
}

// ComposeNotification turns a report into zero or one message. An empty
// report is suppressed: nobody needs a mail that says there is nothing to
// do. Otherwise exactly one message is produced, with the workbook attached.
func ComposeNotification(report Report, attachment []byte, cfg ComposeConfig) *Notification {
	if report.Empty() {
		return nil
	}

	subject := sanitizeSubject(fmt.Sprintf(
		"[%s] Action required — %d documents pending > %d days — Cost center %s",
		cfg.Label, len(report.Rows), cfg.SlaDays, cfg.CostCenter,
	))

	var body strings.Builder
	fmt.Fprintf(&body, "Hello,\n\n")
	fmt.Fprintf(&body,
		"We identified %d operational documents pending processing for more than %d days, assigned to cost center %s.\n",
		len(report.Rows), cfg.SlaDays, cfg.CostCenter)
	fmt.Fprintf(&body, "To avoid impact on deadlines and reconciliation routines, please prioritize their handling.\n\n")
	body.WriteString("Guidance:\n")
	body.WriteString("- Check for dependencies blocking the processing;\n")
	body.WriteString("- Reroute to the correct area, if applicable;\n")
	body.WriteString("- Update item status once regularized.\n\n")
	if report.Truncated {
		fmt.Fprintf(&body, "Note: the attached report was capped at %d rows; the full backlog is larger.\n\n", len(report.Rows))
	}
	body.WriteString("The consolidated evidence report is attached.\n\n")
	fmt.Fprintf(&body, "Regards,\n%s — Operations\n", cfg.Label)

	return &Notification{
		From:           cfg.From,
		To:             cfg.To,
		Cc:             cfg.Cc,
		Subject:        subject,
		Body:           body.String(),
		AttachmentName: fmt.Sprintf("operational_alerts_%s_%s.xlsx", cfg.CostCenter, report.GeneratedAt.Format("2006-01-02")),
		Attachment:     attachment,
	}
}
