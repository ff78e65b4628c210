// Package mail renders and sends transactional email: one-time token mails and
// contact form submissions.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("SMTP configuration missing")

// TokenType selects the wording and link of a token mail.
type TokenType string

const (
	TokenVerification TokenType = "verification"
	TokenReset        TokenType = "reset"
	TokenInvitation   TokenType = "invitation"
)

// Message is a single outgoing HTML mail.
type Message struct {
	FromName string
	To       string
	ReplyTo  string
	Subject  string
	HTML     string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ContactForm is a submission from the public contact page.
type ContactForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Interest  string `json:"interest"`
	Message   string `json:"message"   validate:"required"`
}

// Options configures a Mailer.
type Options struct {
	AppName          string
	BaseURL          string // prefix of links in token mails
	ContactRecipient string // receives contact form notifications
}

// Mailer renders templates and hands messages to a Sender.
type Mailer struct {
	sender Sender
	opts   Options
}

// NewMailer returns a Mailer sending through s.
func NewMailer(s Sender, opts Options) *Mailer {
	if opts.AppName == "" {
		opts.AppName = "Inkwell"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:3000"
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	return &Mailer{sender: s, opts: opts}
}

type tokenCopy struct {
	path   string
	action string
	title  string
	body   string
}

var tokenCopies = map[TokenType]tokenCopy{
	TokenVerification: {
		path:   "/auth/verify-email",
		action: "Verify Email",
		title:  "Verify Your Email Address",
		body:   "Please click the button below to verify your email address:",
	},
	TokenReset: {
		path:   "/auth/reset-password",
		action: "Reset Password",
		title:  "Reset Your Password",
		body:   "You requested a password reset. Click the button below to reset your password:",
	},
	TokenInvitation: {
		path:   "/auth/accept-invitation",
		action: "Accept Invitation",
		title:  "You've Been Invited",
		body:   "You've been invited to join our platform. Click the button below to get started:",
	},
}

// SendToken renders the token mail for kind and sends it to one recipient.
func (m *Mailer) SendToken(ctx context.Context, to, name, subject, token string, kind TokenType) error {
	if m.sender == nil {
		return ErrNotConfigured
	}
	c, ok := tokenCopies[kind]
	if !ok {
		return fmt.Errorf("mail: unknown token type %q", kind)
	}

	html, err := render(tokenTemplate, map[string]interface{}{
		"Name":    name,
		"Token":   token,
		"Title":   c.title,
		"Body":    c.body,
		"Action":  c.action,
		"URL":     m.opts.BaseURL + c.path + "?token=" + url.QueryEscape(token),
		"AppName": m.opts.AppName,
	})
	if err != nil {
		return err
	}

	if err := m.sender.Send(ctx, Message{FromName: m.opts.AppName, To: to, Subject: subject, HTML: html}); err != nil {
		return fmt.Errorf("mail: send %s token: %w", kind, err)
	}
	return nil
}

// SendVerification mails an email verification token.
func (m *Mailer) SendVerification(ctx context.Context, to, name, token string) error {
	return m.SendToken(ctx, to, name, "Verify Your Email Address", token, TokenVerification)
}

// SendPasswordReset mails a password reset token.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return m.SendToken(ctx, to, name, "Reset Your Password", token, TokenReset)
}

// SendInvitation mails an invitation token.
func (m *Mailer) SendInvitation(ctx context.Context, to, name, token string) error {
	return m.SendToken(ctx, to, name, "You've Been Invited!", token, TokenInvitation)
}

// SendContactForm notifies the configured recipient, with replies going to the
// submitter, then sends the submitter a confirmation.
func (m *Mailer) SendContactForm(ctx context.Context, f ContactForm) error {
	if m.sender == nil || m.opts.ContactRecipient == "" {
		return ErrNotConfigured
	}

	html, err := render(contactTemplate, f)
	if err != nil {
		return err
	}

	notify := Message{
		FromName: "Contact Form",
		To:       m.opts.ContactRecipient,
		ReplyTo:  f.Email,
		Subject:  fmt.Sprintf("New Contact Form Submission: %s %s", f.FirstName, f.LastName),
		HTML:     html,
	}
	if err := m.sender.Send(ctx, notify); err != nil {
		return fmt.Errorf("mail: contact notification: %w", err)
	}

	confirm := Message{
		FromName: m.opts.AppName,
		To:       f.Email,
		Subject:  "We've received your message!",
		HTML:     html,
	}
	if err := m.sender.Send(ctx, confirm); err != nil {
		return fmt.Errorf("mail: contact confirmation: %w", err)
	}
	return nil
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
