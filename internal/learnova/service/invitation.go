package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/metrics"
	"github.com/learnova/learnova/internal/learnova/notify"
	"github.com/learnova/learnova/internal/learnova/roster"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/learnova/learnova/pkg/cryptox"
	"github.com/learnova/learnova/pkg/idx"
	"github.com/learnova/learnova/pkg/slogx"
)

// maxSamples caps every email sample returned to the caller.
const maxSamples = roster.MaxSamples

// InvitationService runs course invitations: roster upload, (re)send,
// acceptance and revocation. Only HMAC digests of invite tokens are stored;
// the raw token exists in memory until the email is handed off.
type InvitationService struct {
	Store    store.Store
	Mailer   *Mailer
	Metrics  *metrics.Metrics
	Archiver roster.Archiver // optional

	// Secret keys the invite token digest. Without it every token
	// operation fails closed.
	Secret string

	// TokenAtCreation attaches tokens while inserting uploaded invitations
	// instead of deferring to the send step.
	TokenAtCreation bool

	Clock Clock
}

// RosterFile is an uploaded class list.
type RosterFile struct {
	Name        string
	Data        []byte
	SheetName   string
	EmailColumn string
}

type UploadResult struct {
	CourseID             string
	TotalRows            int
	ExtractedEmails      int
	Inserted             int
	SkippedExisting      int
	InvalidEmails        int
	SampleInvalidEmails  []string
	SampleExistingEmails []string
	ArchiveKey           string      // set when the roster was archived
	Send                 *SendResult // nil when nothing was sent
}

type SendRequest struct {
	Email          string // empty sends to every eligible invitation
	IncludeExpired bool
}

type SendResult struct {
	CourseID            string
	TargetEmail         string
	Attempted           int
	Sent                int
	Failed              int
	SkippedNotEligible  int
	LastSentAt          *time.Time
	SampleFailedEmails  []string
	SampleSkippedEmails []string
}

type AcceptResult struct {
	CourseID        string
	EnrollmentID    string
	AlreadyAccepted bool
	AcceptedAt      *time.Time
}

// outbound is a raw token waiting for delivery after commit.
type outbound struct {
	email string
	token string
}

func appendSample(samples []string, v string) []string {
	if len(samples) >= maxSamples {
		return samples
	}
	return append(samples, v)
}

func (s *InvitationService) hash(raw string) (string, error) {
	if s.Secret == "" {
		return "", describe(ErrInviteSecretMissing, "Server misconfigured: INVITE_TOKEN_SECRET is missing")
	}
	return cryptox.HMACHex(s.Secret, raw)
}

// newToken returns a raw invite token and its stored digest.
func (s *InvitationService) newToken() (string, string, error) {
	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", "", err
	}
	digest, err := s.hash(raw)
	if err != nil {
		return "", "", err
	}
	return raw, digest, nil
}

// requireOwnedCourse loads a course the calling instructor owns. Invitation
// writes additionally require a private course.
func requireOwnedCourse(ctx context.Context, st store.Store, id domain.Identity, courseID string, forWrite bool) (domain.Course, error) {
	if id.Role != domain.RoleInstructor {
		return domain.Course{}, describe(ErrForbidden, "Only instructors can manage course invitations")
	}
	course, err := st.Courses().GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Course{}, describe(ErrNotFound, "Course not found")
		}
		return domain.Course{}, err
	}
	if course.CreatedBy != id.UserID {
		return domain.Course{}, describe(ErrForbidden, "You can only manage invitations for your own course")
	}
	if forWrite && course.IsPublic {
		return domain.Course{}, describe(ErrConflict, "This course is public and does not require invitations")
	}
	return course, nil
}

func extract(file *RosterFile, emails []string) (roster.Result, error) {
	var (
		res roster.Result
		err error
	)
	if file != nil {
		res, err = roster.Parse(file.Name, bytes.NewReader(file.Data), file.SheetName, file.EmailColumn)
	} else {
		res, err = roster.ExtractList(emails)
	}
	if errors.Is(err, roster.ErrInvalidRoster) {
		return roster.Result{}, describe(ErrValidation, strings.TrimPrefix(err.Error(), roster.ErrInvalidRoster.Error()+": "))
	}
	return res, err
}

// Upload adds invitations for every new email in a roster file or list.
// Emails already invited to the course are counted as skipped, including
// rows lost to a concurrent upload. The new invitations are then sent.
func (s *InvitationService) Upload(ctx context.Context, id domain.Identity, courseID string, file *RosterFile, emails []string) (UploadResult, error) {
	l := slogx.FromContext(ctx)

	// 1. Course checks
	course, err := requireOwnedCourse(ctx, s.Store, id, courseID, true)
	if err != nil {
		return UploadResult{}, err
	}
	if s.TokenAtCreation && s.Secret == "" {
		return UploadResult{}, describe(ErrInviteSecretMissing, "Server misconfigured: INVITE_TOKEN_SECRET is missing")
	}

	// 2. Extract candidate emails
	extracted, err := extract(file, emails)
	if err != nil {
		return UploadResult{}, err
	}

	result := UploadResult{
		CourseID:             course.ID,
		TotalRows:            extracted.TotalRows,
		ExtractedEmails:      extracted.Extracted,
		InvalidEmails:        extracted.InvalidCount,
		SampleInvalidEmails:  extracted.SampleInvalid,
		SampleExistingEmails: []string{},
	}

	// 3. Keep the raw file when an object store is configured
	if file != nil && s.Archiver != nil {
		key, err := s.Archiver.Archive(ctx, course.ID, file.Name, file.Data)
		if err != nil {
			l.Warn("failed to archive roster", slog.String("course_id", course.ID), slog.Any("error", err))
		} else {
			result.ArchiveKey = key
		}
	}

	// 4. Insert what is new
	now := s.Clock.now()
	var pending []outbound
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		invited, err := tx.Invitations().ListInvitedEmails(ctx, course.ID)
		if err != nil {
			return err
		}
		existing := make(map[string]struct{}, len(invited))
		for _, e := range invited {
			existing[domain.NormalizeEmail(e)] = struct{}{}
		}

		for _, email := range extracted.Emails {
			if _, ok := existing[email]; ok {
				result.SkippedExisting++
				result.SampleExistingEmails = appendSample(result.SampleExistingEmails, email)
				continue
			}

			inv := domain.Invitation{
				ID:           idx.NewAt(now).String(),
				CourseID:     course.ID,
				CreatedBy:    id.UserID,
				InvitedEmail: email,
				Status:       domain.InvitationPending,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if u, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
				inv.InvitedUserID = &u.ID
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			var raw string
			if s.TokenAtCreation {
				var digest string
				raw, digest, err = s.newToken()
				if err != nil {
					return err
				}
				expires := now.Add(domain.CourseInviteTTL)
				inv.TokenHash = &digest
				inv.TokenExpiresAt = &expires
				inv.SentAt = &now
				inv.LastSentAt = &now
				inv.SendCount = 1
			}

			inserted, err := tx.Invitations().Create(ctx, inv)
			if err != nil {
				return err
			}
			if !inserted {
				result.SkippedExisting++
				result.SampleExistingEmails = appendSample(result.SampleExistingEmails, email)
				continue
			}
			existing[email] = struct{}{}
			result.Inserted++
			if raw != "" {
				pending = append(pending, outbound{email: email, token: raw})
			}
		}
		return nil
	})
	if err != nil {
		l.Error("failed to create invitations", slog.String("course_id", course.ID), slog.Any("error", err))
		return UploadResult{}, err
	}

	s.Metrics.RecordInvitations("created", result.Inserted)
	s.Metrics.RecordInvitations("skipped_existing", result.SkippedExisting)
	l.Info("invitations uploaded",
		slog.String("course_id", course.ID),
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped_existing", result.SkippedExisting),
		slog.Int("invalid", result.InvalidEmails),
	)

	// 5. Deliver
	if s.TokenAtCreation {
		send := &SendResult{
			CourseID:            course.ID,
			Attempted:           len(pending),
			SampleFailedEmails:  []string{},
			SampleSkippedEmails: []string{},
		}
		s.deliver(ctx, course, pending, send)
		result.Send = send
		return result, nil
	}

	if s.Secret == "" {
		l.Warn("invitations stored but not sent: INVITE_TOKEN_SECRET is missing", slog.String("course_id", course.ID))
		return result, nil
	}
	send, err := s.Send(ctx, id, course.ID, SendRequest{IncludeExpired: true})
	if err != nil {
		return UploadResult{}, err
	}
	result.Send = &send
	return result, nil
}

// Send rotates the token of every eligible invitation, or of the one
// addressed to req.Email, and mails the new links after commit. Delivery
// failures are tallied and never roll the rotation back.
func (s *InvitationService) Send(ctx context.Context, id domain.Identity, courseID string, req SendRequest) (SendResult, error) {
	l := slogx.FromContext(ctx)

	// 1. Course and configuration checks
	course, err := requireOwnedCourse(ctx, s.Store, id, courseID, true)
	if err != nil {
		return SendResult{}, err
	}
	if s.Secret == "" {
		return SendResult{}, describe(ErrInviteSecretMissing, "Server misconfigured: INVITE_TOKEN_SECRET is missing")
	}

	target := domain.NormalizeEmail(req.Email)
	result := SendResult{
		CourseID:            course.ID,
		TargetEmail:         target,
		SampleFailedEmails:  []string{},
		SampleSkippedEmails: []string{},
	}

	now := s.Clock.now()
	expires := now.Add(domain.CourseInviteTTL)
	var pending []outbound

	// 2. Select and rotate in one transaction
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var invitations []domain.Invitation
		if target != "" {
			inv, err := tx.Invitations().GetByEmail(ctx, course.ID, target)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return describe(ErrNotFound, "Invitation not found for this email")
				}
				return err
			}
			if !inv.Status.Sendable(true) {
				return describe(ErrNotEligible, "Invitation is not eligible to be sent (accepted/revoked)")
			}
			invitations = []domain.Invitation{inv}
		} else {
			all, err := tx.Invitations().List(ctx, course.ID, nil)
			if err != nil {
				return err
			}
			for _, inv := range all {
				switch {
				case inv.Status.Sendable(req.IncludeExpired):
					invitations = append(invitations, inv)
				case inv.Status == domain.InvitationAccepted || inv.Status == domain.InvitationRevoked:
					result.SkippedNotEligible++
					result.SampleSkippedEmails = appendSample(result.SampleSkippedEmails, inv.InvitedEmail)
				}
			}
		}
		result.Attempted = len(invitations) + result.SkippedNotEligible

		for _, inv := range invitations {
			if inv.Status != domain.InvitationPending {
				if err := inv.Status.Transition(domain.InvitationPending); err != nil {
					return err
				}
			}
			raw, digest, err := s.newToken()
			if err != nil {
				return err
			}
			if err := tx.Invitations().RotateToken(ctx, inv.ID, digest, expires, now); err != nil {
				return err
			}
			pending = append(pending, outbound{email: inv.InvitedEmail, token: raw})
		}
		return nil
	})
	if err != nil {
		return SendResult{}, err
	}

	s.Metrics.RecordInvitations("skipped_not_eligible", result.SkippedNotEligible)

	// 3. Deliver after commit
	s.deliver(ctx, course, pending, &result)

	l.Info("invitations sent",
		slog.String("course_id", course.ID),
		slog.Int("attempted", result.Attempted),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed),
		slog.Int("skipped_not_eligible", result.SkippedNotEligible),
	)
	return result, nil
}

func (s *InvitationService) deliver(ctx context.Context, course domain.Course, pending []outbound, result *SendResult) {
	title := course.Title
	if title == "" {
		title = "your course"
	}
	for _, p := range pending {
		res := s.Mailer.deliver(ctx, func(r *notify.Renderer) (notify.Message, error) {
			return r.CourseInvite(p.email, title, s.Mailer.Links.CourseInvite(p.token))
		})
		if res.Delivered {
			result.Sent++
			at := s.Clock.now()
			result.LastSentAt = &at
			continue
		}
		result.Failed++
		result.SampleFailedEmails = appendSample(result.SampleFailedEmails, p.email)
	}
	s.Metrics.RecordInvitations("sent", result.Sent)
	s.Metrics.RecordInvitations("failed", result.Failed)
}

// Accept enrolls the calling student through a raw invite token. The
// invitation must be addressed to the caller. Accepting twice is a no-op;
// an expired token flips the invitation to expired and commits that before
// ErrGone is returned.
func (s *InvitationService) Accept(ctx context.Context, id domain.Identity, raw string) (AcceptResult, error) {
	l := slogx.FromContext(ctx)

	// 1. Caller and input
	if id.Role != domain.RoleStudent {
		return AcceptResult{}, describe(ErrForbidden, "Only students can accept course invitations")
	}
	if !id.Verified {
		return AcceptResult{}, describe(ErrNotVerified, "Email not verified")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return AcceptResult{}, invalidf("Token is required")
	}
	digest, err := s.hash(raw)
	if err != nil {
		return AcceptResult{}, err
	}

	now := s.Clock.now()
	tx, err := s.Store.Tx(ctx)
	if err != nil {
		return AcceptResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// 2. Find the invitation by digest
	inv, err := tx.Invitations().GetByTokenHash(ctx, digest)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("invite accept with unknown token", slog.String("user_id", id.UserID))
			s.Metrics.RecordRedemption("course_invite", "invalid")
			return AcceptResult{}, describe(ErrTokenInvalid, "Invalid invitation token")
		}
		return AcceptResult{}, err
	}

	// 3. State checks, email first so nothing leaks to other accounts
	if inv.InvitedEmail != domain.NormalizeEmail(id.Email) {
		l.Warn("invite accept by wrong account",
			slog.String("invitation_id", inv.ID),
			slog.String("user_id", id.UserID),
		)
		return AcceptResult{}, describe(ErrForbidden, "This invitation is not for your account")
	}

	switch inv.Status {
	case domain.InvitationRevoked:
		return AcceptResult{}, describe(ErrInvitationRevoked, "Invitation has been revoked")
	case domain.InvitationAccepted:
		res := AcceptResult{CourseID: inv.CourseID, AlreadyAccepted: true, AcceptedAt: inv.AcceptedAt}
		if e, err := tx.Enrollments().GetEnrollment(ctx, inv.CourseID, id.UserID); err == nil {
			res.EnrollmentID = e.ID
		}
		return res, nil
	}

	if inv.TokenExpired(now) {
		if inv.Status != domain.InvitationExpired {
			if err := tx.Invitations().MarkExpired(ctx, inv.ID, now); err != nil {
				return AcceptResult{}, err
			}
			if err := tx.Commit(); err != nil {
				return AcceptResult{}, err
			}
		}
		s.Metrics.RecordRedemption("course_invite", "expired")
		return AcceptResult{}, describe(ErrGone, "Invitation token expired. Please request a new invitation.")
	}

	if err := inv.Status.Transition(domain.InvitationAccepted); err != nil {
		return AcceptResult{}, err
	}

	// 4. Enroll and accept
	if _, err := tx.Courses().GetByID(ctx, inv.CourseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AcceptResult{}, describe(ErrNotFound, "Course not found")
		}
		return AcceptResult{}, err
	}

	enrollmentID, created, err := tx.Enrollments().Enroll(ctx, domain.Enrollment{
		ID:             idx.NewAt(now).String(),
		CourseID:       inv.CourseID,
		StudentID:      id.UserID,
		Status:         domain.EnrollmentActive,
		EnrollmentType: domain.EnrollmentInvited,
		EnrolledAt:     now,
	})
	if err != nil {
		return AcceptResult{}, err
	}
	if created {
		if err := tx.Courses().IncrementEnrollmentCount(ctx, inv.CourseID, now); err != nil {
			return AcceptResult{}, err
		}
	}
	if err := tx.Invitations().MarkAccepted(ctx, inv.ID, id.UserID, now); err != nil {
		return AcceptResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return AcceptResult{}, err
	}

	s.Metrics.RecordRedemption("course_invite", "redeemed")
	s.Metrics.RecordInvitations("accepted", 1)
	l.Info("invitation accepted",
		slog.String("invitation_id", inv.ID),
		slog.String("course_id", inv.CourseID),
		slog.String("user_id", id.UserID),
	)
	return AcceptResult{CourseID: inv.CourseID, EnrollmentID: enrollmentID, AcceptedAt: &now}, nil
}

// Revoke withdraws a pending invitation and destroys its token.
func (s *InvitationService) Revoke(ctx context.Context, id domain.Identity, courseID, invitationID string) (domain.Invitation, error) {
	now := s.Clock.now()
	var inv domain.Invitation
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := requireOwnedCourse(ctx, tx, id, courseID, false); err != nil {
			return err
		}
		var err error
		inv, err = tx.Invitations().GetByID(ctx, invitationID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && inv.CourseID != courseID) {
			return describe(ErrNotFound, "Invitation not found")
		}
		if err != nil {
			return err
		}
		if err := inv.Status.Transition(domain.InvitationRevoked); err != nil {
			return err
		}
		if err := tx.Invitations().Revoke(ctx, inv.ID, now); err != nil {
			return err
		}
		inv.Status = domain.InvitationRevoked
		inv.RevokedAt = &now
		inv.TokenHash = nil
		inv.TokenExpiresAt = nil
		inv.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Invitation{}, err
	}

	s.Metrics.RecordInvitations("revoked", 1)
	slogx.FromContext(ctx).Info("invitation revoked",
		slog.String("invitation_id", inv.ID),
		slog.String("course_id", courseID),
	)
	return inv, nil
}

// List returns the course's invitations, newest first, optionally filtered
// by status.
func (s *InvitationService) List(ctx context.Context, id domain.Identity, courseID, status string) ([]domain.Invitation, error) {
	if _, err := requireOwnedCourse(ctx, s.Store, id, courseID, false); err != nil {
		return nil, err
	}
	var statuses []domain.InvitationStatus
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
		st, ok := domain.ParseInvitationStatus(status)
		if !ok {
			return nil, invalidf("Invalid status")
		}
		statuses = []domain.InvitationStatus{st}
	}
	return s.Store.Invitations().List(ctx, courseID, statuses)
}
