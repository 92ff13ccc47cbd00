package service

import (
	"automarket/internal/apperror"
	"automarket/internal/model"
	"automarket/internal/repository"
	"automarket/pkg/security"
	"automarket/validators"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	msgUsernameTaken = "A user with that username already exists."
	msgEmailTaken    = "user with this email already exists."
	msgBadLogin      = "No active account found with the given credentials"
	msgNotVerified   = "Your account is not verified."
	msgInvalidCode   = "Invalid verification code."
	msgExpiredCode   = "Verification code has expired."
)

type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// ProfilePatch is a partial profile update. Nil fields are left alone
type ProfilePatch struct {
	Username    *string `json:"username" validate:"omitnil,username"`
	FirstName   *string `json:"first_name" validate:"omitnil,max=150"`
	LastName    *string `json:"last_name" validate:"omitnil,max=150"`
	PhoneNumber *string `json:"phone_number" validate:"omitnil,phone"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// UserService covers registration, email verification, login and the
// profile of the signed in user
type UserService struct {
	store           *repository.Store
	argon           *security.ArgonHash
	tokens          *security.TokenManager
	notifier        Notifier
	verificationTTL time.Duration
	resendCooldown  time.Duration
	resendLimit     int
	now             func() time.Time
}

func NewUserService(store *repository.Store, argon *security.ArgonHash, tokens *security.TokenManager, n Notifier, verificationTTL time.Duration) *UserService {
	return &UserService{
		store:           store,
		argon:           argon,
		tokens:          tokens,
		notifier:        n,
		verificationTTL: verificationTTL,
		resendCooldown:  time.Minute,
		resendLimit:     5,
		now:             time.Now,
	}
}

// WithResendLimit sets the minimum gap between two verification resends of
// a user and how many of them a user gets per day
func (s *UserService) WithResendLimit(cooldown time.Duration, perDay int) *UserService {
	s.resendCooldown = cooldown
	s.resendLimit = perDay

	return s
}

func validateRegister(in *RegisterInput) map[string]string {
	fields := map[string]string{}

	if err := validators.UsernameValidator(in.Username); err != nil {
		fields["username"] = err.Error()
	}

	if err := validators.EmailValidator(in.Email); err != nil {
		fields["email"] = err.Error()
	}

	if err := validators.PasswordValidator(in.Password); err != nil {
		fields["password"] = err.Error()
	}

	if err := validators.PhoneValidator(in.PhoneNumber); err != nil {
		fields["phone_number"] = err.Error()
	}

	if len([]rune(in.FirstName)) > 150 {
		fields["first_name"] = "Ensure this field has no more than 150 characters."
	}

	if len([]rune(in.LastName)) > 150 {
		fields["last_name"] = "Ensure this field has no more than 150 characters."
	}

	if len(fields) == 0 {
		return nil
	}

	return fields
}

// Register creates an inactive, unverified user and queues exactly one
// verification email for them
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = strings.TrimSpace(in.Email)

	if fields := validateRegister(&in); fields != nil {
		return nil, apperror.ValidationFields(fields)
	}

	fields, err := s.takenFields(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}

	hash, err := s.argon.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
	}

	var code *model.EmailVerification

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}

		code, err = s.issueCode(ctx, tx, user.ID)
		return err
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race against a concurrent registration
		fields, err := s.takenFields(ctx, in.Username, in.Email)
		if err != nil {
			return nil, err
		}

		if len(fields) == 0 {
			fields = map[string]string{"username": msgUsernameTaken}
		}

		return nil, apperror.ValidationFields(fields)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create user, %w", err)
	}

	s.notify(ctx, user, code)

	return user, nil
}

// takenFields reports which of username and email already belong to someone
func (s *UserService) takenFields(ctx context.Context, username, email string) (map[string]string, error) {
	fields := map[string]string{}

	taken, err := s.store.Users.UsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check username, %w", err)
	}

	if taken {
		fields["username"] = msgUsernameTaken
	}

	taken, err = s.store.Users.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email, %w", err)
	}

	if taken {
		fields["email"] = msgEmailTaken
	}

	return fields, nil
}

// issueCode replaces every earlier code of the user with a fresh one
func (s *UserService) issueCode(ctx context.Context, tx *repository.Store, userID uint) (*model.EmailVerification, error) {
	if err := tx.Verifications.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}

	code, err := security.NewVerificationCode(&security.VerificationCodeOpts{
		UserID: userID,
		Now:    s.now(),
		TTL:    s.verificationTTL,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Verifications.Create(ctx, code); err != nil {
		return nil, err
	}

	return code, nil
}

// notify is best effort. A failed enqueue never fails the request
func (s *UserService) notify(ctx context.Context, u *model.User, code *model.EmailVerification) {
	err := s.notifier.Enqueue(ctx, VerificationEmailJob{
		UserID:   u.ID,
		Code:     code.Code,
		Email:    u.Email,
		Username: u.Username,
	})
	if err != nil {
		zap.L().Error("Failed to queue verification email", zap.Uint("user_id", u.ID), zap.Error(err))
	}
}

// Verify consumes code. The bound user becomes active and verified and the
// code can't be used again
func (s *UserService) Verify(ctx context.Context, code string) error {
	if !security.IsVerificationCode(code) {
		return apperror.ValidationFailed("code", "Must be a valid UUID.")
	}

	rec, err := s.store.Verifications.FindByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to look up verification code, %w", err)
	}

	if rec == nil {
		return apperror.ValidationFailed("code", msgInvalidCode)
	}

	if rec.IsExpired(s.now()) {
		return apperror.ValidationFailed("code", msgExpiredCode)
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		deleted, err := tx.Verifications.Delete(ctx, rec.ID)
		if err != nil {
			return err
		}

		if !deleted {
			return apperror.ValidationFailed("code", msgInvalidCode)
		}

		return tx.Users.Activate(ctx, rec.UserID)
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}

		return fmt.Errorf("failed to verify user, %w", err)
	}

	return nil
}

// ResendVerification mails a new code to an unverified account. Unknown
// and verified emails as well as throttled resends succeed silently so the
// caller can't enumerate accounts
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validators.EmailValidator(email); err != nil {
		return apperror.ValidationFailed("email", err.Error())
	}

	user, err := s.store.Users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up user, %w", err)
	}

	if user == nil || user.IsVerified {
		return nil
	}

	var code *model.EmailVerification

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		req, err := tx.Resends.FindByUser(ctx, user.ID)
		if err != nil {
			return err
		}

		if req == nil {
			req = &model.ResendRequest{UserID: user.ID, WindowStart: s.now()}
		}

		if !req.Allow(s.now(), s.resendCooldown, s.resendLimit) {
			return nil
		}

		if err := tx.Resends.Save(ctx, req); err != nil {
			return err
		}

		code, err = s.issueCode(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to issue verification code, %w", err)
	}

	if code == nil {
		zap.L().Debug("Verification resend throttled", zap.Uint("user_id", user.ID))
		return nil
	}

	s.notify(ctx, user, code)

	return nil
}

// Login checks credentials and refuses to issue tokens to unverified users
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "This field is required."
	}

	if password == "" {
		fields["password"] = "This field is required."
	}

	if len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}

	user, err := s.store.Users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	if user == nil {
		return nil, apperror.InvalidCredentials(msgBadLogin)
	}

	ok, err := s.argon.Verify(password, user.PasswordHash)
	if err != nil && !errors.Is(err, security.ErrInvalidHash) {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, apperror.InvalidCredentials(msgBadLogin)
	}

	if !user.IsVerified {
		return nil, apperror.NotVerified(msgNotVerified)
	}

	access, err := s.tokens.Issue(user.ID, security.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token, %w", err)
	}

	refresh, err := s.tokens.Issue(user.ID, security.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token, %w", err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token
func (s *UserService) Refresh(ctx context.Context, refresh string) (string, error) {
	if refresh == "" {
		return "", apperror.ValidationFailed("refresh", "This field is required.")
	}

	user, err := s.userFromToken(ctx, refresh, security.RefreshToken)
	if err != nil {
		return "", err
	}

	access, err := s.tokens.Issue(user.ID, security.AccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token, %w", err)
	}

	return access, nil
}

// Authenticate resolves an access token to a verified user
func (s *UserService) Authenticate(ctx context.Context, access string) (*model.User, error) {
	return s.userFromToken(ctx, access, security.AccessToken)
}

func (s *UserService) userFromToken(ctx context.Context, token string, t security.TokenType) (*model.User, error) {
	userID, err := s.tokens.Parse(token, t)
	if err != nil {
		return nil, apperror.Unauthorized("Token is invalid or expired")
	}

	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	if user == nil {
		return nil, apperror.Unauthorized("User not found")
	}

	if !user.IsVerified {
		return nil, apperror.NotVerified(msgNotVerified)
	}

	return user, nil
}

func (s *UserService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	return user, nil
}

// UpdateProfile applies p. Email and the verified flag can't be changed
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, p ProfilePatch) (*model.User, error) {
	if fields := validators.Struct(p); fields != nil {
		return nil, apperror.ValidationFields(fields)
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if p.Username != nil && *p.Username != user.Username {
		taken, err := s.store.Users.UsernameTaken(ctx, *p.Username, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check username, %w", err)
		}

		if taken {
			return nil, apperror.ValidationFailed("username", msgUsernameTaken)
		}

		user.Username = *p.Username
	}

	if p.FirstName != nil {
		user.FirstName = *p.FirstName
	}

	if p.LastName != nil {
		user.LastName = *p.LastName
	}

	if p.PhoneNumber != nil {
		user.PhoneNumber = *p.PhoneNumber
	}

	err = s.store.Users.UpdateProfile(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperror.ValidationFailed("username", msgUsernameTaken)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update profile, %w", err)
	}

	return user, nil
}

// DeleteAccount removes the user and everything they own. confirm has to
// be true
func (s *UserService) DeleteAccount(ctx context.Context, userID uint, confirm bool) error {
	if !confirm {
		return apperror.ValidationFailed("confirm", "You must confirm the deletion.")
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Users.Delete(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete user, %w", err)
	}

	return nil
}
