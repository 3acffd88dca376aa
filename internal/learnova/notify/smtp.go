package notify

import (
	"context"
	"crypto/tls"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/learnova/learnova/pkg/slogx"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether enough is configured to attempt delivery.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port > 0
}

// dialer is the part of *gomail.Dialer the notifier needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier delivers messages over SMTP with STARTTLS when offered.
type SMTPNotifier struct {
	from   string
	dialer dialer
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPNotifier{from: from, dialer: d}
}

func (n *SMTPNotifier) buildMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	return m
}

// Send dials the server and delivers msg. The dial runs in its own
// goroutine so a cancelled context returns promptly.
func (n *SMTPNotifier) Send(ctx context.Context, msg Message) Result {
	log := slogx.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return Failed(err.Error())
	}

	done := make(chan error, 1)
	go func() { done <- n.dialer.DialAndSend(n.buildMessage(msg)) }()

	select {
	case err := <-done:
		if err != nil {
			log.Warn("email delivery failed",
				slog.String("kind", string(msg.Kind)),
				slog.String("to", msg.To),
				slog.Any("error", err),
			)
			return Failed(err.Error())
		}
		log.Debug("email delivered",
			slog.String("kind", string(msg.Kind)),
			slog.String("to", msg.To),
		)
		return Delivered()
	case <-ctx.Done():
		return Failed(ctx.Err().Error())
	}
}
