package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Branding is the static chrome around every HTML email.
type Branding struct {
	LogoURL      string
	SupportEmail string
	Year         string
}

type view struct {
	Brand   Branding
	Tagline string
	Data    any
}

var htmlFuncs = htmltemplate.FuncMap{
	"button": func(link, label string) map[string]string {
		return map[string]string{"Link": link, "Label": label}
	},
}

// Renderer turns message data into text and HTML bodies.
type Renderer struct {
	brand Branding
	html  map[Kind]*htmltemplate.Template
	text  *texttemplate.Template
}

var allKinds = []Kind{
	KindVerifyEmail,
	KindResetPassword,
	KindPasswordChanged,
	KindDeleteAccountOTP,
	KindMembershipUpdate,
	KindCourseInvite,
}

func NewRenderer(brand Branding) (*Renderer, error) {
	if brand.Year == "" {
		brand.Year = strconv.Itoa(time.Now().Year())
	}

	base, err := htmltemplate.New("layout").Funcs(htmlFuncs).ParseFS(templateFS, "templates/layout.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{brand: brand, html: make(map[Kind]*htmltemplate.Template, len(allKinds))}
	for _, kind := range allKinds {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+string(kind)+".html.tmpl"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", kind, err)
		}
		r.html[kind] = t
	}

	r.text, err = texttemplate.ParseFS(templateFS, "templates/text.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return r, nil
}

func (r *Renderer) render(kind Kind, to, subject, tagline string, data any) (Message, error) {
	v := view{Brand: r.brand, Tagline: tagline, Data: data}

	var text bytes.Buffer
	if err := r.text.ExecuteTemplate(&text, string(kind), v); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", kind, err)
	}

	var html bytes.Buffer
	if err := r.html[kind].ExecuteTemplate(&html, "layout", v); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", kind, err)
	}

	return Message{
		Kind:    kind,
		To:      to,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

func (r *Renderer) VerifyEmail(to, link string) (Message, error) {
	return r.render(KindVerifyEmail, to, "Learnova - Verify your email", "Email verification",
		struct{ Link string }{link})
}

func (r *Renderer) ResetPassword(to, link string) (Message, error) {
	return r.render(KindResetPassword, to, "Learnova – Reset your password", "Password reset",
		struct{ Link string }{link})
}

func (r *Renderer) PasswordChanged(to, fullName, link string) (Message, error) {
	return r.render(KindPasswordChanged, to, "Learnova – Password changed", "Security notice",
		struct{ FullName, Link string }{fullName, link})
}

func (r *Renderer) DeleteAccountOTP(to, fullName, code string) (Message, error) {
	return r.render(KindDeleteAccountOTP, to, "Learnova – Confirm account deletion (OTP)", "Account deletion",
		struct{ FullName, Code string }{fullName, code})
}

func (r *Renderer) MembershipUpdate(to, fullName, orgName, oldStatus, newStatus string) (Message, error) {
	return r.render(KindMembershipUpdate, to, "Learnova – Membership update", "Organization membership",
		struct{ FullName, OrganizationName, OldStatus, Status string }{fullName, orgName, oldStatus, newStatus})
}

func (r *Renderer) CourseInvite(to, courseTitle, link string) (Message, error) {
	return r.render(KindCourseInvite, to, "Learnova – You're invited to "+courseTitle, "Course invitation",
		struct{ CourseTitle, Link string }{courseTitle, link})
}
