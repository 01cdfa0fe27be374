package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/saulo-duarte/cyberaware-lambda/internal/apperr"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/saulo-duarte/cyberaware-lambda/internal/notification"
	"github.com/saulo-duarte/cyberaware-lambda/internal/ratelimit"
	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
)

const CodeTTL = 10 * time.Minute

var (
	ErrInvalidCode  = apperr.Validation("Invalid, expired, or already used OTP.", nil)
	ErrTooManySends = apperr.RateLimited("Too many OTP requests. Please try again later.")
	ErrTooManyTries = apperr.RateLimited("Too many verification attempts. Please try again later.")
)

// Sealer encrypts codes at rest.
type Sealer interface {
	Encrypt(plain string) (string, error)
	Decrypt(encoded string) (string, error)
}

type Limits struct {
	Send   ratelimit.Limiter
	Verify ratelimit.Limiter
}

type Service struct {
	repo   Repository
	users  user.UserRepository
	sealer Sealer
	sender notification.Sender
	limits Limits
}

func NewService(repo Repository, users user.UserRepository, sealer Sealer, sender notification.Sender, limits Limits) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		sealer: sealer,
		sender: sender,
		limits: limits,
	}
}

// Issue stores a new code for u and emails it. A delivery failure is
// reported through the bool, the stored record is returned either way.
func (s *Service) Issue(ctx context.Context, u *user.User, purpose user.Purpose) (bool, *OneTimeCode, error) {
	log := config.WithContext(ctx).WithField("purpose", purpose)

	if err := s.allow(ctx, s.limits.Send, string(purpose)+":"+u.Email); err != nil {
		if errors.Is(err, ratelimit.ErrRateLimited) {
			return false, nil, ErrTooManySends
		}
		return false, nil, err
	}

	plain, err := generateCode()
	if err != nil {
		return false, nil, apperr.Internal("failed to generate code", err)
	}
	sealed, err := s.sealer.Encrypt(plain)
	if err != nil {
		return false, nil, apperr.Internal("failed to encrypt code", err)
	}

	code := &OneTimeCode{
		UserID:     u.ID,
		Purpose:    purpose,
		CodeCipher: sealed,
		ExpiresAt:  time.Now().Add(CodeTTL),
	}
	if err := s.repo.Create(ctx, nil, code); err != nil {
		return false, nil, apperr.Internal("failed to store code", err)
	}

	msg, err := buildMessage(u.Email, plain, purpose)
	if err != nil {
		log.WithError(err).Error("Failed to build code email")
		return false, code, nil
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		log.WithError(err).Warn("Failed to deliver code email")
		return false, code, nil
	}

	log.WithField("user_id", u.ID).Info("One-time code sent")
	return true, code, nil
}

// Send satisfies user.CodeService.
func (s *Service) Send(ctx context.Context, u *user.User, purpose user.Purpose) (bool, error) {
	delivered, _, err := s.Issue(ctx, u, purpose)
	return delivered, err
}

// Validate finds the most recent unused code of email that matches code.
// It does not consume it.
func (s *Service) Validate(ctx context.Context, email, code string, purpose user.Purpose, requireVerified bool) (*user.User, *OneTimeCode, error) {
	email = user.NormalizeEmail(email)
	if err := s.allow(ctx, s.limits.Verify, email); err != nil {
		if errors.Is(err, ratelimit.ErrRateLimited) {
			return nil, nil, ErrTooManyTries
		}
		return nil, nil, err
	}

	u, err := s.users.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, nil, apperr.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, nil, user.ErrUserNotFound
	}
	if requireVerified && !u.IsVerified() {
		return u, nil, user.ErrUserNotVerified
	}

	codes, err := s.repo.ListUnused(ctx, nil, u.ID, purpose)
	if err != nil {
		return u, nil, apperr.Internal("failed to load codes", err)
	}
	now := time.Now()
	for i := range codes {
		plain, err := s.sealer.Decrypt(codes[i].CodeCipher)
		if err != nil {
			config.WithContext(ctx).WithError(err).WithField("code_id", codes[i].ID).Warn("Undecryptable one-time code")
			continue
		}
		if subtle.ConstantTimeCompare([]byte(plain), []byte(code)) != 1 {
			continue
		}
		if !codes[i].IsValid(now) {
			return u, nil, ErrInvalidCode
		}
		return u, &codes[i], nil
	}
	return u, nil, ErrInvalidCode
}

func (s *Service) MarkUsed(ctx context.Context, code *OneTimeCode) error {
	changed, err := s.repo.MarkUsed(ctx, nil, code.ID)
	if err != nil {
		return apperr.Internal("failed to mark code used", err)
	}
	if !changed {
		return ErrInvalidCode
	}
	code.Used = true
	return nil
}

// Consume validates the code and marks it used. Two concurrent calls with
// the same code cannot both succeed.
func (s *Service) Consume(ctx context.Context, email, code string, purpose user.Purpose, requireVerified bool) (*user.User, error) {
	u, record, err := s.Validate(ctx, email, code, purpose, requireVerified)
	if err != nil {
		return nil, err
	}
	if err := s.MarkUsed(ctx, record); err != nil {
		return nil, err
	}
	if s.limits.Verify != nil {
		if err := s.limits.Verify.Reset(ctx, u.Email); err != nil {
			config.WithContext(ctx).WithError(err).Warn("Failed to reset verification budget")
		}
	}
	return u, nil
}

// allow fails open when the limiter backend is down.
func (s *Service) allow(ctx context.Context, l ratelimit.Limiter, key string) error {
	if l == nil {
		return nil
	}
	err := l.Allow(ctx, key)
	if errors.Is(err, ratelimit.ErrRedisUnavailable) {
		config.WithContext(ctx).WithError(err).Warn("Rate limiter unavailable, allowing request")
		return nil
	}
	return err
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func buildMessage(to, code string, purpose user.Purpose) (notification.Message, error) {
	switch purpose {
	case user.PurposeResetPassword:
		return notification.ResetPasswordEmail(to, code)
	default:
		return notification.VerificationEmail(to, code)
	}
}
