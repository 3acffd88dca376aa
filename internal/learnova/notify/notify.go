// Package notify delivers transactional email. Delivery is best effort:
// senders report a Result and never fail the operation that triggered them.
package notify

import (
	"context"
	"log/slog"

	"github.com/learnova/learnova/pkg/slogx"
)

// Kind names the template a message was rendered from.
type Kind string

const (
	KindVerifyEmail      Kind = "verify_email"
	KindResetPassword    Kind = "reset_password"
	KindPasswordChanged  Kind = "password_changed"
	KindDeleteAccountOTP Kind = "delete_account_otp"
	KindMembershipUpdate Kind = "membership_update"
	KindCourseInvite     Kind = "course_invite"
)

type Message struct {
	Kind    Kind
	To      string
	Subject string
	Text    string
	HTML    string // optional alternative body
}

// Result is the outcome of one delivery attempt.
type Result struct {
	Delivered bool
	Reason    string
}

func Delivered() Result { return Result{Delivered: true} }

func Failed(reason string) Result { return Result{Reason: reason} }

func (r Result) String() string {
	if r.Delivered {
		return "delivered"
	}
	return "failed: " + r.Reason
}

// Notifier sends a message and reports what happened.
type Notifier interface {
	Send(ctx context.Context, msg Message) Result
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg Message) Result

func (f NotifierFunc) Send(ctx context.Context, msg Message) Result { return f(ctx, msg) }

// LogNotifier writes message metadata to the request logger instead of
// sending. Bodies carry live tokens and are only logged at debug level when
// ShowBody is set.
type LogNotifier struct {
	ShowBody bool
}

func (n LogNotifier) Send(ctx context.Context, msg Message) Result {
	l := slogx.FromContext(ctx)
	l.Info("email not sent: smtp disabled",
		slog.String("kind", string(msg.Kind)),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	if n.ShowBody {
		l.Debug("unsent email body", slog.String("to", msg.To), slog.String("body", msg.Text))
	}
	return Failed("smtp disabled")
}
