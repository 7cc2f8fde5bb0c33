// Package mailer sends the application mail to harvested addresses that
// have not been contacted before.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go-hiring-harvester/internal/dedup"

	"github.com/wneessen/go-mail"
)

// Transport is the part of *mail.Client the mailer uses.
type Transport interface {
	DialWithContext(ctx context.Context) error
	Send(msgs ...*mail.Msg) error
	Close() error
}

// NewSMTPClient returns a client for server that authenticates with
// username and password. Port 465 uses implicit TLS, anything else STARTTLS.
func NewSMTPClient(server string, port int, username, password string) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
		mail.WithTimeout(30 * time.Second),
	}
	if port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	client, err := mail.NewClient(server, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client, nil
}

// Campaign is one mailing for a position.
type Campaign struct {
	Position   string
	From       string
	Subject    string
	Body       string
	ResumePath string
}

type Report struct {
	Position        string
	Found           int
	Skipped         int
	Attempted       int
	Sent            int
	Failed          int
	Historical      int
	FailedAddresses []string
}

func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Email Campaign Report ===\n")
	fmt.Fprintf(&sb, "Job Position: %s\n", r.Position)
	fmt.Fprintf(&sb, "Total unique emails found: %d\n", r.Found)
	fmt.Fprintf(&sb, "Emails skipped (already sent): %d\n", r.Skipped)
	fmt.Fprintf(&sb, "Attempted to send to: %d\n", r.Attempted)
	fmt.Fprintf(&sb, "Successfully sent in this run: %d\n", r.Sent)
	fmt.Fprintf(&sb, "Failed attempts in this run: %d\n", r.Failed)
	fmt.Fprintf(&sb, "Total emails sent historically: %d", r.Historical)
	for _, addr := range r.FailedAddresses {
		fmt.Fprintf(&sb, "\n - failed: %s", addr)
	}
	return sb.String()
}

type Mailer struct {
	transport Transport
	register  *dedup.SentRegister
}

func New(transport Transport, register *dedup.SentRegister) *Mailer {
	return &Mailer{transport: transport, register: register}
}

// Send mails every address in recipients that the register does not hold
// yet. A failed recipient is recorded in the report and the campaign moves
// on. The register is saved whenever a send was attempted, also when the
// connection fails or ctx is cancelled half way.
func (m *Mailer) Send(ctx context.Context, c Campaign, recipients []string) (*Report, error) {
	fresh, skipped := m.register.Filter(recipients)
	report := &Report{
		Position:  c.Position,
		Found:     len(recipients),
		Skipped:   skipped,
		Attempted: len(fresh),
	}
	defer func() { report.Historical = m.register.Len() }()

	if len(fresh) == 0 {
		log.Printf("📭 No new email addresses to send to for %q (%d already contacted)", c.Position, skipped)
		return report, nil
	}
	log.Printf("📬 Found %d unique addresses, skipping %d already contacted, sending to %d", len(recipients), skipped, len(fresh))

	attachment := c.ResumePath
	if attachment != "" {
		if _, err := os.Stat(attachment); err != nil {
			log.Printf("⚠️ Attachment file not found: %s", attachment)
			attachment = ""
		}
	}

	log.Println("🔌 Connecting to SMTP server...")
	if err := m.transport.DialWithContext(ctx); err != nil {
		return report, errors.Join(fmt.Errorf("fatal smtp error: %w", err), m.save())
	}
	log.Println("✅ Authenticated with SMTP server")

	var sendErr error
	for i, rcpt := range fresh {
		if err := ctx.Err(); err != nil {
			sendErr = err
			break
		}
		msg, err := buildMessage(c, rcpt, attachment)
		if err == nil {
			err = m.transport.Send(msg)
		}
		if err != nil {
			report.Failed++
			report.FailedAddresses = append(report.FailedAddresses, rcpt)
			log.Printf("  ❌ (%d/%d) %s: %v", i+1, len(fresh), rcpt, err)
			continue
		}
		report.Sent++
		m.register.Add(rcpt)
		log.Printf("  ✅ (%d/%d) Sent to %s", i+1, len(fresh), rcpt)
	}

	if err := m.transport.Close(); err != nil {
		log.Printf("⚠️ Failed to close SMTP connection: %v", err)
	}
	return report, errors.Join(sendErr, m.save())
}

func (m *Mailer) save() error {
	if err := m.register.Save(); err != nil {
		return fmt.Errorf("failed to save sent register: %w", err)
	}
	return nil
}

func buildMessage(c Campaign, rcpt, attachment string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(c.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", c.From, err)
	}
	if err := msg.To(rcpt); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(c.Subject)
	msg.SetBodyString(mail.TypeTextPlain, c.Body)
	if attachment != "" {
		msg.AttachFile(attachment)
	}
	return msg, nil
}
