package learnova_test

import (
	"context"
	"flag"
	"fmt"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/learnova/learnova/internal/learnova/app"
	"github.com/learnova/learnova/internal/learnova/notify"
	"github.com/learnova/learnova/pkg/learnovasdk"
)

/*
 * Common constants and helpers for the platform end-to-end tests.
 * Each test gets its own Postgres, Redis and MinIO containers and an
 * in-process server wired exactly like cmd/learnova.
 */

const (
	bootstrapToken = "test-bootstrap-token-12345"
	adminEmail     = "admin@learnova.test"
	adminName      = "Administrator"
	adminPassword  = "Admin123!"

	jwtSecret    = "e2e-jwt-secret-0123456789abcdef0123"
	inviteSecret = "e2e-invite-secret"

	minioUser     = "learnova"
	minioPassword = "learnova-secret"
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stdout, "skipping end-to-end tests in short mode")
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// outbox captures every email the platform sends.
type outbox struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (o *outbox) Send(_ context.Context, msg notify.Message) notify.Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, msg)
	return notify.Delivered()
}

// last returns the newest message of a kind sent to an address.
func (o *outbox) last(t *testing.T, to string, kind notify.Kind) notify.Message {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.msgs) - 1; i >= 0; i-- {
		if o.msgs[i].To == to && o.msgs[i].Kind == kind {
			return o.msgs[i]
		}
	}
	t.Fatalf("no %s email sent to %s", kind, to)
	return notify.Message{}
}

var (
	linkTokenRe = regexp.MustCompile(`token=([^\s"&<]+)`)
	otpRe       = regexp.MustCompile(`Your OTP code is:\n([0-9a-f]{6})`)
)

// linkToken extracts the raw token from the link in a message.
func linkToken(t *testing.T, msg notify.Message) string {
	t.Helper()
	m := linkTokenRe.FindStringSubmatch(msg.Text)
	require.NotNil(t, m, "message has no token link: %s", msg.Text)
	token, err := url.QueryUnescape(m[1])
	require.NoError(t, err)
	return token
}

func otpCode(t *testing.T, msg notify.Message) string {
	t.Helper()
	m := otpRe.FindStringSubmatch(msg.Text)
	require.NotNil(t, m, "message has no OTP: %s", msg.Text)
	return m[1]
}

// platform is one running deployment under test.
type platform struct {
	client *learnovasdk.Client
	mail   *outbox
}

// startContainer runs a container and returns host:port of its first exposed port.
func startContainer(t *testing.T, req testcontainers.ContainerRequest) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nat.Port(req.ExposedPorts[0]))
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

// setupPlatform starts the backing services and an in-process server.
func setupPlatform(t *testing.T) *platform {
	t.Helper()

	pgAddr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "learnova",
			"POSTGRES_PASSWORD": "learnova",
			"POSTGRES_DB":       "learnova",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	})
	redisAddr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	})
	minioAddr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Cmd:          []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     minioUser,
			"MINIO_ROOT_PASSWORD": minioPassword,
		},
		WaitingFor: wait.ForHTTP("/minio/health/live").
			WithPort("9000/tcp").
			WithStartupTimeout(60 * time.Second),
	})

	cfg := app.Config{
		Env:                  "test",
		LogLevel:             "warn",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  5 * time.Second,
		HousekeepingInterval: time.Hour,

		DatabaseDriver: "postgres",
		DatabaseURL:    fmt.Sprintf("postgres://learnova:learnova@%s/learnova?sslmode=disable", pgAddr),

		APIBaseURL:      "http://api.learnova.test",
		FrontendBaseURL: "http://app.learnova.test",

		JWTSecret:    jwtSecret,
		JWTIssuer:    "learnova",
		JWTAccessTTL: time.Hour,

		InviteTokenSecret: inviteSecret,
		BootstrapToken:    bootstrapToken,

		RedisURL: fmt.Sprintf("redis://%s/0", redisAddr),

		RosterS3Endpoint:  minioAddr,
		RosterS3AccessKey: minioUser,
		RosterS3SecretKey: minioPassword,
		RosterBucket:      "learnova-rosters",
	}

	mail := &outbox{}
	application, err := app.New(cfg, app.WithNotifier(mail))
	require.NoError(t, err)
	application.StartBackground()

	server := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		server.Close()
		if err := application.Shutdown(); err != nil {
			t.Logf("failed to shut down application: %v", err)
		}
	})

	return &platform{client: learnovasdk.NewClient(server.URL), mail: mail}
}

// bootstrapAdmin creates the first administrator and logs in.
func (p *platform) bootstrapAdmin(t *testing.T) *learnovasdk.Session {
	t.Helper()
	ctx := t.Context()

	resp, err := p.client.Bootstrap(ctx, bootstrapToken, learnovasdk.BootstrapRequest{
		AdminEmail:    adminEmail,
		AdminFullName: adminName,
		AdminPassword: adminPassword,
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.NotEmpty(t, resp.AdminUserID)

	session, err := p.client.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	return session
}

// registerVerified registers a user, follows the verification link and logs in.
func (p *platform) registerVerified(t *testing.T, email, name, password, inviteCode string) *learnovasdk.Session {
	t.Helper()
	ctx := t.Context()

	_, err := p.client.Register(ctx, learnovasdk.RegisterRequest{
		FullName:   name,
		Email:      email,
		Password:   password,
		InviteCode: inviteCode,
	})
	require.NoError(t, err)

	token := linkToken(t, p.mail.last(t, email, notify.KindVerifyEmail))
	require.NoError(t, p.client.VerifyEmail(ctx, token))

	session, err := p.client.Login(ctx, email, password)
	require.NoError(t, err)
	return session
}

// promote assigns a system role and returns a fresh session carrying it.
func (p *platform) promote(t *testing.T, admin, user *learnovasdk.Session, role, password string) *learnovasdk.Session {
	t.Helper()
	ctx := t.Context()

	updated, err := admin.AssignRole(ctx, user.User.ID, role)
	require.NoError(t, err)
	require.Equal(t, role, updated.SystemRole)

	session, err := p.client.Login(ctx, user.User.Email, password)
	require.NoError(t, err)
	require.Equal(t, role, session.User.SystemRole)
	return session
}

// requireCode asserts err is an API error with the given status and code.
func requireCode(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *learnovasdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Error())
	require.Equal(t, code, apiErr.Code)
}
