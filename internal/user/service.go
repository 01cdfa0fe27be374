package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/saulo-duarte/cyberaware-lambda/internal/apperr"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/saulo-duarte/cyberaware-lambda/internal/database"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost is lowered by tests.
var BcryptCost = bcrypt.DefaultCost

var (
	ErrUserNotFound       = apperr.NotFound("User not found.")
	ErrUserNotVerified    = apperr.Validation("User is not verified.", nil)
	ErrInvalidCredentials = apperr.Auth("No active account found with the given credentials")
	ErrOldPassword        = apperr.Validation("Old password is incorrect.", nil)
)

// CodeService issues and consumes one-time codes on behalf of users.
type CodeService interface {
	Send(ctx context.Context, u *User, purpose Purpose) (bool, error)
	Consume(ctx context.Context, email, code string, purpose Purpose, requireVerified bool) (*User, error)
}

type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*VerifyOTPResponse, error)
	ResendOTP(ctx context.Context, email string) (*ResendOTPResponse, error)
	ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) error
	Session(ctx context.Context, userID uint) (*SessionResponse, error)
}

type userService struct {
	db    *gorm.DB
	repo  UserRepository
	codes CodeService
}

func NewService(db *gorm.DB, repo UserRepository, codes CodeService) UserService {
	return &userService{db: db, repo: repo, codes: codes}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	log := config.WithContext(ctx)
	email := NormalizeEmail(req.Email)
	duplicate := apperr.Validation("Registration failed", map[string]string{
		"email": "User with this email already exists",
	})

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("failed to check email", err)
	}
	if exists {
		return nil, duplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), BcryptCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	u := &User{
		Email:    email,
		Password: string(hash),
		Role:     auth.RoleUser,
		Profile: &Profile{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			FirstLogin: true,
		},
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, u)
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, duplicate
		}
		return nil, apperr.Internal("failed to create user", err)
	}
	log.WithField("user_id", u.ID).Info("User registered")

	sent, err := s.codes.Send(ctx, u, PurposeVerifyEmail)
	if err != nil {
		log.WithError(err).Warn("Failed to issue verification code")
		sent = false
	}

	return &RegisterResponse{
		Email:     u.Email,
		FirstName: u.Profile.FirstName,
		LastName:  u.Profile.LastName,
		OTPSent:   sent,
	}, nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.GetByEmail(ctx, nil, req.Email)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsVerified() {
		return nil, &apperr.Error{
			Kind:    apperr.KindAuth,
			Message: "Login failed",
			Fields:  map[string]string{"email": "User is not verified."},
		}
	}

	tokens, err := auth.GenerateTokenPair(u.ID, u.Role)
	if err != nil {
		return nil, apperr.Internal("failed to sign tokens", err)
	}

	firstLogin := u.Profile.FirstLogin
	if firstLogin {
		if err := s.repo.UpdateProfile(ctx, nil, u.ID, map[string]interface{}{"first_login": false}); err != nil {
			config.WithContext(ctx).WithError(err).Warn("Failed to clear first login flag")
		}
	}

	return &LoginResponse{
		Access:     tokens.Access,
		Refresh:    tokens.Refresh,
		Email:      u.Email,
		FirstLogin: firstLogin,
	}, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := auth.ValidateTokenOfType(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAuth, "Token is invalid or expired", err)
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, apperr.Auth("Token is invalid or expired")
	}

	access, err := auth.GenerateJWT(u.ID, u.Role, auth.TokenTypeAccess, auth.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal("failed to sign token", err)
	}
	return &RefreshResponse{Access: access}, nil
}

func (s *userService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*VerifyOTPResponse, error) {
	u, err := s.codes.Consume(ctx, req.Email, req.Code, PurposeVerifyEmail, false)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.Validation(ErrUserNotFound.Message, nil)
		}
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, nil, u.ID, map[string]interface{}{"is_verified": true}); err != nil {
		return nil, apperr.Internal("failed to verify user", err)
	}

	tokens, err := auth.GenerateTokenPair(u.ID, u.Role)
	if err != nil {
		return nil, apperr.Internal("failed to sign tokens", err)
	}
	config.WithContext(ctx).WithField("user_id", u.ID).Info("Email verified")

	resp := &VerifyOTPResponse{
		Email:    u.Email,
		Verified: true,
		Access:   tokens.Access,
		Refresh:  tokens.Refresh,
	}
	if u.Profile != nil {
		resp.FirstName = u.Profile.FirstName
		resp.FirstLogin = u.Profile.FirstLogin
	}
	return resp, nil
}

func (s *userService) ResendOTP(ctx context.Context, email string) (*ResendOTPResponse, error) {
	u, err := s.repo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	sent, err := s.codes.Send(ctx, u, PurposeVerifyEmail)
	if err != nil {
		return nil, err
	}
	return &ResendOTPResponse{Email: u.Email, OTPResent: sent}, nil
}

func (s *userService) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResponse, error) {
	u, err := s.repo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if !u.IsVerified() {
		return nil, ErrUserNotVerified
	}

	sent, err := s.codes.Send(ctx, u, PurposeResetPassword)
	if err != nil {
		return nil, err
	}
	return &ForgotPasswordResponse{Email: u.Email, OTPSent: sent}, nil
}

func (s *userService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	u, err := s.codes.Consume(ctx, req.Email, req.Code, PurposeResetPassword, true)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperr.Validation(ErrUserNotFound.Message, nil)
		}
		return err
	}
	if err := s.setPassword(ctx, u.ID, req.NewPassword); err != nil {
		return err
	}
	config.WithContext(ctx).WithField("user_id", u.ID).Info("Password reset")
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return apperr.Internal("failed to load user", err)
	}
	if u == nil {
		return apperr.Auth("User not found.")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.OldPassword)) != nil {
		return ErrOldPassword
	}
	return s.setPassword(ctx, u.ID, req.NewPassword)
}

func (s *userService) Session(ctx context.Context, userID uint) (*SessionResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, apperr.Auth("User not found.")
	}
	resp := ToSessionResponse(u)
	return &resp, nil
}

func (s *userService) setPassword(ctx context.Context, userID uint, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, nil, userID, string(hash)); err != nil {
		return apperr.Internal(fmt.Sprintf("failed to update password for user %d", userID), err)
	}
	return nil
}
