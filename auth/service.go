// Package auth maps credentials to users, issues sessions and one-time tokens,
// and carries the authenticated principal through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned by SignIn for an unknown email, an account
// without a password or a wrong password.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// UserStore is the account storage the service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User, password string) (bson.ObjectID, error)
	EnsureRole(ctx context.Context, id bson.ObjectID) (models.Role, error)
	MarkEmailVerified(ctx context.Context, id bson.ObjectID) error
	SetPassword(ctx context.Context, id bson.ObjectID, hash string) error
}

// Notifier delivers one-time tokens by email.
type Notifier interface {
	SendVerification(ctx context.Context, to, name, token string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
	SendInvitation(ctx context.Context, to, name, token string) error
}

// SignUpInput is a registration request.
type SignUpInput struct {
	FirstName   string `json:"first_name"   validate:"required"`
	LastName    string `json:"last_name"    validate:"required"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=6,max=72"`
}

// Service implements the account flows.
type Service struct {
	users    UserStore
	notifier Notifier
	signer   *Signer
	log      *zap.Logger
}

// NewService wires the account flows. notifier may be nil, in which case no
// mail is sent and tokens are only logged at debug level.
func NewService(users UserStore, notifier Notifier, signer *Signer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, notifier: notifier, signer: signer, log: log}
}

// Signer exposes the token signer for session verification middleware.
func (s *Service) Signer() *Signer { return s.signer }

// SignIn checks credentials and returns a session. Accounts without a role are
// given the User role, which is persisted.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if user == nil || user.Password == "" {
		return Session{}, ErrInvalidCredentials
	}

	ok, err := CheckPassword(user.Password, password)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	role := user.Role
	if role == "" {
		role, err = s.users.EnsureRole(ctx, user.ID)
		if err != nil {
			return Session{}, err
		}
	}

	return s.signer.IssueSession(Principal{UserID: user.ID, Email: user.Email, Role: role})
}

// Register creates an account with the User role and mails a verification token.
// A mail failure is logged; the account is kept.
func (s *Service) Register(ctx context.Context, in SignUpInput) (bson.ObjectID, error) {
	in.Email = normalizeEmail(in.Email)
	if err := inkwell.CheckInput(in); err != nil {
		return bson.NilObjectID, err
	}

	user := &models.User{
		Email:       in.Email,
		Role:        models.RoleUser,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
	}
	id, err := s.users.CreateUser(ctx, user, in.Password)
	if err != nil {
		return bson.NilObjectID, err
	}

	s.deliver(ctx, PurposeVerification, user.Email, user.FullName(), "")
	return id, nil
}

// VerifyEmail marks the token's account as verified.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	user, _, err := s.userForToken(ctx, token, PurposeVerification)
	if err != nil {
		return err
	}
	return s.users.MarkEmailVerified(ctx, user.ID)
}

// RequestPasswordReset mails a reset token. Unknown addresses succeed silently.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		s.log.Debug("password reset for unknown email")
		return nil
	}
	s.deliver(ctx, PurposeReset, user.Email, user.FullName(), CredentialBinding(user.Password))
	return nil
}

// ResetPassword replaces the password of the token's account. A token only
// works while the password it was issued against is still in place.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if err := checkPasswordLength(password); err != nil {
		return err
	}
	user, binding, err := s.userForToken(ctx, token, PurposeReset)
	if err != nil {
		return err
	}
	if binding != CredentialBinding(user.Password) {
		return ErrInvalidToken
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, user.ID, hash)
}

// Invite mails an invitation token to email.
func (s *Service) Invite(ctx context.Context, email, name string) error {
	email = normalizeEmail(email)
	if err := inkwell.CheckVar(email, "required,email", "A valid email is required"); err != nil {
		return err
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return inkwell.NewError(inkwell.KindConflict, "A user with this email already exists")
	}
	if name == "" {
		name = email
	}
	return s.send(ctx, PurposeInvitation, email, name, "")
}

// AcceptInvitation registers the invited address. The account starts verified
// since the token proves the address.
func (s *Service) AcceptInvitation(ctx context.Context, token string, in SignUpInput) (bson.ObjectID, error) {
	email, _, err := s.signer.ParseToken(token, PurposeInvitation)
	if err != nil {
		return bson.NilObjectID, err
	}
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" {
		in.Email = email
	}
	if in.Email != email {
		return bson.NilObjectID, ErrInvalidToken
	}
	if err := inkwell.CheckInput(in); err != nil {
		return bson.NilObjectID, err
	}

	verified := time.Now().UTC()
	return s.users.CreateUser(ctx, &models.User{
		Email:         in.Email,
		Role:          models.RoleUser,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		PhoneNumber:   in.PhoneNumber,
		EmailVerified: &verified,
	}, in.Password)
}

func (s *Service) userForToken(ctx context.Context, token string, purpose Purpose) (*models.User, string, error) {
	email, binding, err := s.signer.ParseToken(token, purpose)
	if err != nil {
		return nil, "", err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", inkwell.NotFound("User not found")
	}
	return user, binding, nil
}

func (s *Service) deliver(ctx context.Context, purpose Purpose, email, name, binding string) {
	if err := s.send(ctx, purpose, email, name, binding); err != nil {
		s.log.Warn("token mail not sent",
			zap.String("purpose", string(purpose)),
			zap.String("email", email),
			zap.Error(err))
	}
}

func (s *Service) send(ctx context.Context, purpose Purpose, email, name, binding string) error {
	token, err := s.signer.IssueToken(purpose, email, binding)
	if err != nil {
		return err
	}
	if s.notifier == nil {
		s.log.Debug("no notifier configured", zap.String("purpose", string(purpose)), zap.String("email", email))
		return nil
	}

	switch purpose {
	case PurposeVerification:
		return s.notifier.SendVerification(ctx, email, name, token)
	case PurposeReset:
		return s.notifier.SendPasswordReset(ctx, email, name, token)
	case PurposeInvitation:
		return s.notifier.SendInvitation(ctx, email, name, token)
	}
	return fmt.Errorf("auth: unknown token purpose %q", purpose)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
