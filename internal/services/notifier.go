package services

import (
	"crypto/tls"
	"fmt"
	"html"

	"github.com/princeprakhar/hostelwise-backend/internal/config"
	"github.com/princeprakhar/hostelwise-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Notifier sends moderation related mail. Delivery is best effort and never
// fails the request that triggered it.
type Notifier interface {
	SubmissionReceived(kind, name string)
	ReviewDecision(email, hostelName string, approved bool)
}

type EmailNotifier struct {
	from       string
	adminEmail string
	send       func(m *gomail.Message) error
}

// NewEmailNotifier returns nil when SMTP is not configured; a nil
// *EmailNotifier drops every message.
func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	if cfg.SMTPHost == "" {
		return nil
	}

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost}

	return &EmailNotifier{
		from:       cfg.FromEmail,
		adminEmail: cfg.AdminNotifyEmail,
		send:       func(m *gomail.Message) error { return d.DialAndSend(m) },
	}
}

func (n *EmailNotifier) SubmissionReceived(kind, name string) {
	if n == nil || n.adminEmail == "" {
		return
	}
	subject := fmt.Sprintf("New %s awaiting review", kind)
	body := fmt.Sprintf(`<h2>New %s submitted</h2>
<p><strong>%s</strong> is waiting in the pending queue.</p>`, html.EscapeString(kind), html.EscapeString(name))
	n.deliver(n.adminEmail, subject, body)
}

func (n *EmailNotifier) ReviewDecision(email, hostelName string, approved bool) {
	if n == nil || email == "" {
		return
	}
	subject := "Your review was published"
	body := fmt.Sprintf(`<p>Your review of <strong>%s</strong> is now live.</p>`, html.EscapeString(hostelName))
	if !approved {
		subject = "Your review was not published"
		body = fmt.Sprintf(`<p>Your review of <strong>%s</strong> did not pass moderation and has been removed.</p>`, html.EscapeString(hostelName))
	}
	n.deliver(email, subject, body)
}

func (n *EmailNotifier) deliver(to, subject, body string) {
	m := n.message(to, subject, body)
	go func() {
		if err := n.send(m); err != nil {
			logger.WithFields(logger.Fields{"to": to, "subject": subject}).Error("failed to send email: ", err)
		}
	}()
}

func (n *EmailNotifier) message(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

type nopNotifier struct{}

func (nopNotifier) SubmissionReceived(string, string) {}

func (nopNotifier) ReviewDecision(string, string, bool) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	if en, ok := n.(*EmailNotifier); ok && en == nil {
		return nopNotifier{}
	}
	return n
}
