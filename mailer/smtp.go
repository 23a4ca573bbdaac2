// Package mailer delivers composed notifications over SMTP. It is the only
// place that talks to the mail transport; the pipeline hands it a finished
// message and treats any error as a failed send attempt.
package mailer

import (
	"bytes"
	"context"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/acmeops/backlog-alerts/workflow"
)

const defaultSendTimeout = 30 * time.Second

// SMTPDispatcher sends through an authenticated STARTTLS session. The
// sender identity is the authenticated user; relays reject anything else.
type SMTPDispatcher struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

func (d *SMTPDispatcher) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return defaultSendTimeout
}

func (d *SMTPDispatcher) Send(ctx context.Context, n *workflow.Notification) error {
	msg := mail.NewMsg()
	if err := msg.From(n.From); err != nil {
		return err
	}
	if err := msg.To(n.To...); err != nil {
		return err
	}
	if len(n.Cc) > 0 {
		if err := msg.Cc(n.Cc...); err != nil {
			return err
		}
	}
	msg.Subject(n.Subject)
	msg.SetBodyString(mail.TypeTextPlain, n.Body)
	if len(n.Attachment) > 0 {
		if err := msg.AttachReader(n.AttachmentName, bytes.NewReader(n.Attachment)); err != nil {
			return err
		}
	}

	client, err := mail.NewClient(d.Host,
		mail.WithPort(d.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(d.Username),
		mail.WithPassword(d.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(d.timeout()),
	)
	if err != nil {
		return err
	}

	return client.DialAndSendWithContext(ctx, msg)
}
