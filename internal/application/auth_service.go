package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/internal/domain/repository"
	"github.com/ocmafia/server/pkg/helpers"
	"github.com/ocmafia/server/pkg/mailer"
	"github.com/ocmafia/server/pkg/validation"
)

const (
	maxSecurityQuestionLen = 100
	maxSecurityAnswerLen   = 25
)

// AuthService orchestrates login, signup and security-question password
// reset. Every request is stateless; the only thing that survives a request
// is the session issued on success.
type AuthService struct {
	Users         repository.UserRepository
	Hasher        *helpers.PasswordHasher
	Sessions      *SessionIssuer
	UsernameRules validation.UsernamePolicy
	PasswordRules validation.PasswordPolicy
	Pub           *helpers.RabbitPublisher
	Search        *SearchIndex
	Logger        *logrus.Logger
}

func NewAuthService(users repository.UserRepository, hasher *helpers.PasswordHasher,
	sessions *SessionIssuer, uname validation.UsernamePolicy, pwd validation.PasswordPolicy,
	pub *helpers.RabbitPublisher, search *SearchIndex, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:         users,
		Hasher:        hasher,
		Sessions:      sessions,
		UsernameRules: uname,
		PasswordRules: pwd,
		Pub:           pub,
		Search:        search,
		Logger:        logger,
	}
}

// AuthResult is what a successful login/signup/reset hands back to the HTTP
// layer: the user, the session, the cookie token pair and where to send the
// browser next.
type AuthResult struct {
	User       *entity.User
	Session    *Session
	Tokens     TokenPair
	RedirectTo string
}

// Login authenticates username/password. Unknown username and wrong
// password are indistinguishable to the caller; store failures propagate
// unchanged and must never be read as bad credentials.
func (s *AuthService) Login(ctx context.Context, username, password, redirectTo string) (*AuthResult, error) {
	u, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.Hasher.Verify(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, u, redirectTo)
}

type SignupInput struct {
	Username         string
	Email            string
	Password         string
	ConfirmPassword  string
	SecurityQuestion string
	SecurityAnswer   string
	RedirectTo       string
}

// Signup creates an account. The password confirmation and the
// question/answer pairing are checked first; then both field validators run
// without short-circuiting so the form gets every message at once.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if (in.SecurityQuestion == "") != (in.SecurityAnswer == "") {
		return nil, ErrSecurityPairIncomplete
	}

	fieldErrs := FieldErrors{}
	if msg := s.UsernameRules.ValidateUsername(in.Username); msg != "" {
		fieldErrs["username"] = msg
	}
	if msg := s.PasswordRules.ValidatePassword(in.Password); msg != "" {
		fieldErrs["password"] = msg
	}
	if len(in.SecurityQuestion) > maxSecurityQuestionLen {
		fieldErrs["securityQuestion"] = "Security question cannot be longer than 100 characters"
	}
	if len(in.SecurityAnswer) > maxSecurityAnswerLen {
		fieldErrs["securityAnswer"] = "Security answer cannot be longer than 25 characters"
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	_, err := s.Users.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return nil, FieldErrors{"username": "Username is already taken"}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Username:         in.Username,
		Email:            in.Email,
		PasswordHash:     hash,
		SecurityQuestion: in.SecurityQuestion,
		SecurityAnswer:   in.SecurityAnswer,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.publishEmail(ctx, u, mailer.TemplateWelcome)
	if s.Search.Enabled() {
		s.Search.IndexUser(ctx, u)
	}

	return s.issue(ctx, u, in.RedirectTo)
}

// SecurityQuestionFor returns the user and the question shown on the reset
// form. This endpoint intentionally reveals account existence: the form
// displays the stored question before an answer can be attempted, so an
// opaque error here would protect nothing.
func (s *AuthService) SecurityQuestionFor(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ResetPassword recovers an account via its security answer. Users without
// a configured answer fail closed for any input. On success the new
// credentials go through the normal login path, so a reset implicitly logs
// the user in.
func (s *AuthService) ResetPassword(ctx context.Context, username, securityAnswer, newPassword string) (*AuthResult, error) {
	u, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !u.HasSecurityAnswer() {
		return nil, ErrNoSecurityAnswer
	}
	if !u.AnswerMatches(securityAnswer) {
		return nil, ErrWrongAnswer
	}
	if msg := s.PasswordRules.ValidatePassword(newPassword); msg != "" {
		return nil, FieldErrors{"newPassword": msg}
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	// A failed update must not issue a session.
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, err
	}

	s.publishEmail(ctx, u, mailer.TemplatePasswordChanged)

	return s.Login(ctx, u.Username, newPassword, "/")
}

// Logout drops the user's session.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.Sessions.Invalidate(ctx, userID)
}

func (s *AuthService) issue(ctx context.Context, u *entity.User, redirectTo string) (*AuthResult, error) {
	sess, pair, err := s.Sessions.Issue(ctx, u, redirectTo)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Session: sess, Tokens: pair, RedirectTo: sess.RedirectTo}, nil
}

func (s *AuthService) publishEmail(ctx context.Context, u *entity.User, template string) {
	if s.Pub == nil || u.Email == "" {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data:     map[string]any{"Username": u.Username},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"user_id":  u.ID,
			"template": template,
		}).Warn("email job publish failed")
	}
}

// normalizeRedirect keeps redirect targets on-site.
func normalizeRedirect(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/"
	}
	return raw
}
