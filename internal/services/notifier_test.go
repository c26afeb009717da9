package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/princeprakhar/hostelwise-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func capturingNotifier(adminEmail string) (*EmailNotifier, chan *gomail.Message) {
	sent := make(chan *gomail.Message, 4)
	return &EmailNotifier{
		from:       "noreply@hostelwise.app",
		adminEmail: adminEmail,
		send: func(m *gomail.Message) error {
			sent <- m
			return nil
		},
	}, sent
}

func receive(t *testing.T, sent chan *gomail.Message) *gomail.Message {
	t.Helper()
	select {
	case m := <-sent:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no message sent")
		return nil
	}
}

func TestNewEmailNotifierNeedsSMTPHost(t *testing.T) {
	assert.Nil(t, NewEmailNotifier(&config.Config{}))
	assert.NotNil(t, NewEmailNotifier(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587}))
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *EmailNotifier
	assert.NotPanics(t, func() {
		n.SubmissionReceived("college", "X University")
		n.ReviewDecision("a@example.com", "Hostel", true)
	})

	assert.IsType(t, nopNotifier{}, orNop(nil))
	assert.IsType(t, nopNotifier{}, orNop(n))

	en, _ := capturingNotifier("")
	assert.Same(t, en, orNop(en))
}

func TestSubmissionReceivedMailsAdmin(t *testing.T) {
	n, sent := capturingNotifier("moderators@example.com")
	n.SubmissionReceived("hostel", "<b>Sunrise</b>")

	m := receive(t, sent)
	assert.Equal(t, []string{"moderators@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"New hostel awaiting review"}, m.GetHeader("Subject"))

	var body bytes.Buffer
	_, err := m.WriteTo(&body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "&lt;b&gt;Sunrise&lt;/b&gt;")
}

func TestSubmissionReceivedWithoutAdminAddress(t *testing.T) {
	n, sent := capturingNotifier("")
	n.SubmissionReceived("college", "X University")

	select {
	case <-sent:
		t.Fatal("unexpected message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReviewDecisionSubjects(t *testing.T) {
	n, sent := capturingNotifier("")

	n.ReviewDecision("alice@example.com", "Sunrise", true)
	m := receive(t, sent)
	assert.Equal(t, []string{"alice@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Your review was published"}, m.GetHeader("Subject"))

	n.ReviewDecision("alice@example.com", "Sunrise", false)
	m = receive(t, sent)
	assert.Equal(t, []string{"Your review was not published"}, m.GetHeader("Subject"))
}
