package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/learnova/learnova/pkg/slogx"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestRendererBuildsEveryKind(t *testing.T) {
	r, err := NewRenderer(Branding{LogoURL: "https://cdn.example/logo.png", SupportEmail: "help@example.com", Year: "2026"})
	require.NoError(t, err)

	link := "https://app.example/#/course-invite?token=abc"
	msg, err := r.CourseInvite("s@example.com", "Algebra", link)
	require.NoError(t, err)
	require.Equal(t, KindCourseInvite, msg.Kind)
	require.Equal(t, "Learnova – You're invited to Algebra", msg.Subject)
	require.Contains(t, msg.Text, link)
	require.Contains(t, msg.HTML, "Accept Invitation")
	require.Contains(t, msg.HTML, "help@example.com")
	require.Contains(t, msg.HTML, "2026")

	msg, err = r.DeleteAccountOTP("a@example.com", "Alice", "a1b2c3")
	require.NoError(t, err)
	require.Contains(t, msg.Text, "a1b2c3")
	require.Contains(t, msg.HTML, "a1b2c3")

	msg, err = r.MembershipUpdate("a@example.com", "Alice", "Acme", "pending", "accepted")
	require.NoError(t, err)
	require.Equal(t, "Learnova – Membership update", msg.Subject)
	require.Contains(t, msg.Text, "from pending to accepted")

	for _, build := range []func() (Message, error){
		func() (Message, error) { return r.VerifyEmail("a@example.com", "https://api.example/v") },
		func() (Message, error) { return r.ResetPassword("a@example.com", "https://app.example/r") },
		func() (Message, error) { return r.PasswordChanged("a@example.com", "Alice", "https://app.example/r") },
	} {
		msg, err := build()
		require.NoError(t, err)
		require.NotEmpty(t, msg.Text)
		require.NotEmpty(t, msg.HTML)
	}
}

func TestRendererEscapesHTML(t *testing.T) {
	r, err := NewRenderer(Branding{})
	require.NoError(t, err)

	msg, err := r.CourseInvite("s@example.com", "<script>x</script>", "https://app.example")
	require.NoError(t, err)
	require.NotContains(t, msg.HTML, "<script>")
}

func TestSMTPNotifier(t *testing.T) {
	d := &fakeDialer{}
	n := &SMTPNotifier{from: "noreply@example.com", dialer: d}

	res := n.Send(context.Background(), Message{Kind: KindVerifyEmail, To: "a@example.com", Subject: "hi", Text: "body", HTML: "<p>body</p>"})
	require.True(t, res.Delivered)
	require.Len(t, d.sent, 1)
	require.Equal(t, []string{"a@example.com"}, d.sent[0].GetHeader("To"))
	require.Equal(t, []string{"noreply@example.com"}, d.sent[0].GetHeader("From"))

	d.err = errors.New("connection refused")
	res = n.Send(context.Background(), Message{To: "a@example.com"})
	require.False(t, res.Delivered)
	require.Equal(t, "connection refused", res.Reason)
	require.Equal(t, "failed: connection refused", res.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res = n.Send(ctx, Message{To: "a@example.com"})
	require.False(t, res.Delivered)
}

func TestSMTPConfigEnabled(t *testing.T) {
	require.False(t, SMTPConfig{}.Enabled())
	require.True(t, SMTPConfig{Host: "smtp.example.com", Port: 587}.Enabled())

	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "user@example.com"})
	require.Equal(t, "user@example.com", n.from)
}

func TestLogNotifierNeverDelivers(t *testing.T) {
	res := LogNotifier{}.Send(context.Background(), Message{To: "a@example.com"})
	require.False(t, res.Delivered)
	require.Equal(t, "smtp disabled", res.Reason)
}

func TestLogNotifierKeepsTokensOutOfLog(t *testing.T) {
	const link = "https://app.example/#/course-invite?token=m-MCOR1FbKREyDp9N61GcScKie7myw-S12o8FTypeLE"
	msg := Message{Kind: KindCourseInvite, To: "s@example.com", Subject: "invite", Text: "Join: " + link}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := slogx.WithContext(context.Background(), logger)

	LogNotifier{}.Send(ctx, msg)
	require.Contains(t, buf.String(), "course_invite")
	require.Contains(t, buf.String(), "s@example.com")
	require.NotContains(t, buf.String(), "m-MCOR1FbKREyDp9N61GcScKie7myw-S12o8FTypeLE")

	// Dev mode still hides the body unless debug logging is on
	buf.Reset()
	LogNotifier{ShowBody: true}.Send(ctx, msg)
	require.NotContains(t, buf.String(), "token=")

	debug := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	buf.Reset()
	LogNotifier{ShowBody: true}.Send(slogx.WithContext(context.Background(), debug), msg)
	require.Contains(t, buf.String(), "unsent email body")
}
