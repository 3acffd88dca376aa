package service

import (
	"context"
	"net/url"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/metrics"
	"github.com/learnova/learnova/internal/learnova/notify"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/learnova/learnova/internal/learnova/store/drivers/sqldb"
	"github.com/learnova/learnova/pkg/cryptox"
	"github.com/learnova/learnova/pkg/idx"
	"github.com/learnova/learnova/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret    = "0123456789abcdef0123456789abcdef"
	testInviteSecret = "invite-secret"
	testPassword     = "correct horse"
)

// outbox is a Notifier that records every message.
type outbox struct {
	mu   sync.Mutex
	msgs []notify.Message
	fail bool
}

func (o *outbox) Send(_ context.Context, msg notify.Message) notify.Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, msg)
	if o.fail {
		return notify.Failed("smtp down")
	}
	return notify.Delivered()
}

func (o *outbox) count(kind notify.Kind) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, m := range o.msgs {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// last returns the newest message of kind sent to to.
func (o *outbox) last(t *testing.T, kind notify.Kind, to string) notify.Message {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.msgs) - 1; i >= 0; i-- {
		if o.msgs[i].Kind == kind && o.msgs[i].To == to {
			return o.msgs[i]
		}
	}
	t.Fatalf("no %s message to %s", kind, to)
	return notify.Message{}
}

var (
	linkTokenRe = regexp.MustCompile(`token=([^\s"&]+)`)
	otpRe       = regexp.MustCompile(`Your OTP code is:\n([0-9a-f]{6})`)
)

func tokenFromLink(t *testing.T, msg notify.Message) string {
	t.Helper()
	m := linkTokenRe.FindStringSubmatch(msg.Text)
	require.Len(t, m, 2, "no token link in %q", msg.Text)
	tok, err := url.QueryUnescape(m[1])
	require.NoError(t, err)
	return tok
}

func otpFromMessage(t *testing.T, msg notify.Message) string {
	t.Helper()
	m := otpRe.FindStringSubmatch(msg.Text)
	require.Len(t, m, 2, "no OTP in %q", msg.Text)
	return m[1]
}

// fixture wires every service against a migrated in-memory store and a
// controllable clock.
type fixture struct {
	ctx     context.Context
	store   *sqldb.Store
	now     time.Time
	outbox  *outbox
	metrics *metrics.Metrics

	tokens   *TokenService
	auth     *AuthService
	settings *SettingsService
	orgs     *OrganizationService
	courses  *CourseService
	invites  *InvitationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqldb.NewStore("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	renderer, err := notify.NewRenderer(notify.Branding{SupportEmail: "help@example.com"})
	require.NoError(t, err)

	signer, err := jwtx.NewSignerHS256(testJWTSecret)
	require.NoError(t, err)

	f := &fixture{
		ctx:     context.Background(),
		store:   s,
		now:     time.Now().UTC().Truncate(time.Second),
		outbox:  &outbox{},
		metrics: metrics.New(),
	}
	clock := Clock(func() time.Time { return f.now })
	mailer := &Mailer{
		Notifier: f.outbox,
		Renderer: renderer,
		Links:    Links{APIBaseURL: "https://api.example", FrontendBaseURL: "https://app.example/"},
	}

	f.tokens = &TokenService{Store: s, Metrics: f.metrics, Clock: clock}
	f.auth = &AuthService{
		Store:     s,
		Tokens:    f.tokens,
		Mailer:    mailer,
		Signer:    signer,
		Verifier:  jwtx.NewVerifierHS256(testJWTSecret, jwtx.VerifyOptions{Issuer: "learnova-test"}),
		Issuer:    "learnova-test",
		AccessTTL: time.Hour,
		Clock:     clock,
	}
	f.settings = &SettingsService{Store: s, Tokens: f.tokens, Mailer: mailer, Clock: clock}
	f.orgs = &OrganizationService{Store: s, Mailer: mailer, Clock: clock}
	f.courses = &CourseService{Store: s, Clock: clock}
	f.invites = &InvitationService{
		Store:   s,
		Mailer:  mailer,
		Metrics: f.metrics,
		Secret:  testInviteSecret,
		Clock:   clock,
	}
	return f
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

// user inserts a verified user directly. Only users created with a real
// password can log in.
func (f *fixture) user(t *testing.T, email string, role domain.SystemRole, withPassword bool) domain.Identity {
	t.Helper()
	hash := "1$c2FsdA==$aGFzaA=="
	if withPassword {
		var err error
		hash, err = cryptox.HashPassword(testPassword)
		require.NoError(t, err)
	}
	u := domain.User{
		ID:              idx.New().String(),
		Email:           email,
		FullName:        "User " + email,
		PasswordHash:    hash,
		Role:            role,
		IsEmailVerified: true,
		CreatedAt:       f.now,
		UpdatedAt:       f.now,
	}
	require.NoError(t, f.store.Users().CreateUser(f.ctx, u))
	return domain.IdentityOf(u)
}

func (f *fixture) issue(t *testing.T, userID string, typ domain.TokenType) string {
	t.Helper()
	var raw string
	require.NoError(t, f.store.WithTx(f.ctx, func(tx store.Tx) error {
		var err error
		raw, err = f.tokens.Issue(f.ctx, tx, userID, typ)
		return err
	}))
	return raw
}

// privateCourse creates a private individual course owned by the instructor.
func (f *fixture) privateCourse(t *testing.T, instructor domain.Identity, title string) domain.Course {
	t.Helper()
	c, err := f.courses.CreateCourse(f.ctx, instructor, CreateCourseInput{
		CourseType: domain.CourseIndividual,
		Title:      title,
		Visibility: domain.VisibilityPrivate,
	})
	require.NoError(t, err)
	return c
}
