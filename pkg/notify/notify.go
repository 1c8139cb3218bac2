package notify

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"
)

// TurnNotification is queued whenever a player becomes an active
// actor. Delivery is best-effort and never blocks the rules engine.
type TurnNotification struct {
	Email  string
	Name   string
	GameID string
}

// Notifier delivers turn-start notifications.
type Notifier interface {
	Notify(n TurnNotification) error
}

// SMTPNotifier sends turn-start emails through a plain SMTP relay.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPNotifierOptions contains options for creating an
// SMTPNotifier.
type NewSMTPNotifierOptions struct {
	Addr     string
	From     string
	Username string
	Password string
	Host     string
}

// NewSMTPNotifier creates a new SMTPNotifier.
func NewSMTPNotifier(opts NewSMTPNotifierOptions) *SMTPNotifier {
	var auth smtp.Auth
	if opts.Username != "" {
		auth = smtp.PlainAuth("", opts.Username, opts.Password, opts.Host)
	}
	return &SMTPNotifier{
		addr: opts.Addr,
		from: opts.From,
		auth: auth,
	}
}

func (s *SMTPNotifier) Notify(n TurnNotification) error {
	body := fmt.Sprintf(
		"To: %s\r\nSubject: It is your turn\r\n\r\nHi %s,\r\n\r\nIt is your turn in game %s.\r\n",
		n.Email, n.Name, n.GameID,
	)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{n.Email}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", n.Email, err)
	}
	return nil
}

// NoopNotifier logs instead of sending, for local development.
type NoopNotifier struct{}

func (NoopNotifier) Notify(n TurnNotification) error {
	logrus.WithFields(logrus.Fields{"player": n.Name, "game": n.GameID}).Info("turn notification (noop)")
	return nil
}
