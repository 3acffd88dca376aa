package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/learnova/learnova/internal/learnova/notify"
	"github.com/learnova/learnova/pkg/slogx"
)

// Clock returns the current time. A nil Clock reads the wall clock.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// Links builds the URLs embedded in outgoing email.
type Links struct {
	APIBaseURL      string
	FrontendBaseURL string
}

func (l Links) VerifyEmail(token string) string {
	return strings.TrimRight(l.APIBaseURL, "/") + "/v1/auth/verify-email?token=" + url.QueryEscape(token)
}

func (l Links) ResetPassword(token string) string {
	return strings.TrimRight(l.FrontendBaseURL, "/") + "/#/reset-password?token=" + url.QueryEscape(token)
}

func (l Links) CourseInvite(token string) string {
	return strings.TrimRight(l.FrontendBaseURL, "/") + "/#/course-invite?token=" + url.QueryEscape(token)
}

// Mailer renders and delivers notifications after a transaction commits.
// Every failure is folded into the returned notify.Result.
type Mailer struct {
	Notifier notify.Notifier
	Renderer *notify.Renderer
	Links    Links
}

func (m *Mailer) deliver(ctx context.Context, build func(r *notify.Renderer) (notify.Message, error)) notify.Result {
	l := slogx.FromContext(ctx)

	if m == nil || m.Renderer == nil {
		return notify.Failed("mailer not configured")
	}

	msg, err := build(m.Renderer)
	if err != nil {
		l.Error("failed to render email", slog.Any("error", err))
		return notify.Failed("render: " + err.Error())
	}

	n := m.Notifier
	if n == nil {
		n = notify.LogNotifier{}
	}

	res := n.Send(ctx, msg)
	if res.Delivered {
		l.Debug("email delivered", slog.String("kind", string(msg.Kind)), slog.String("to", msg.To))
	} else {
		l.Warn("email not delivered",
			slog.String("kind", string(msg.Kind)),
			slog.String("to", msg.To),
			slog.String("reason", res.Reason),
		)
	}
	return res
}
