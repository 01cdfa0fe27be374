package user_test

import (
	"context"
	"errors"
	"os"
	"regexp"
	"sync"
	"testing"

	"github.com/saulo-duarte/cyberaware-lambda/internal/apperr"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/saulo-duarte/cyberaware-lambda/internal/notification"
	"github.com/saulo-duarte/cyberaware-lambda/internal/otp"
	"github.com/saulo-duarte/cyberaware-lambda/internal/testutil"
	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
	"golang.org/x/crypto/bcrypt"
)

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

type inbox struct {
	mu   sync.Mutex
	last map[string]string
	fail bool
}

func (b *inbox) Send(_ context.Context, m notification.Message) error {
	if b.fail {
		return errors.New("mail down")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last[m.To] = codePattern.FindString(m.PlainText)
	return nil
}

func (b *inbox) code(to string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last[to]
}

func newService(t *testing.T) (user.UserService, *inbox) {
	t.Helper()
	user.BcryptCost = bcrypt.MinCost
	os.Setenv("JWT_SECRET", "user-service-test-secret")
	auth.Init()

	db := testutil.NewDB(t)
	repo := user.NewRepository(db)
	cipher, err := config.NewCipher([]byte("01234567890123456789012345678901"))
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	box := &inbox{last: map[string]string{}}
	codes := otp.NewService(otp.NewRepository(db), repo, cipher, box, otp.Limits{})
	return user.NewService(db, repo, codes), box
}

var ana = user.RegisterRequest{
	Email:     "Ana@Example.com",
	Password:  "correct-horse",
	FirstName: "Ana",
	LastName:  "Lima",
}

func registerAndVerify(t *testing.T, svc user.UserService, box *inbox) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Register(ctx, ana); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.VerifyOTP(ctx, user.VerifyOTPRequest{Email: ana.Email, Code: box.code("ana@example.com")}); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("SendsCode", func(t *testing.T) {
		svc, box := newService(t)
		resp, err := svc.Register(ctx, ana)
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if resp.Email != "ana@example.com" || !resp.OTPSent {
			t.Errorf("unexpected response %+v", resp)
		}
		if box.code("ana@example.com") == "" {
			t.Error("verification code not delivered")
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc, _ := newService(t)
		svc.Register(ctx, ana)

		_, err := svc.Register(ctx, ana)
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation || appErr.Fields["email"] == "" {
			t.Fatalf("expected email validation error, got %v", err)
		}
	})

	t.Run("MailDown", func(t *testing.T) {
		svc, box := newService(t)
		box.fail = true
		resp, err := svc.Register(ctx, ana)
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if resp.OTPSent {
			t.Error("otp_sent should be false when delivery fails")
		}
	})
}

func TestLoginFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("UnverifiedRejected", func(t *testing.T) {
		svc, _ := newService(t)
		svc.Register(ctx, ana)

		_, err := svc.Login(ctx, user.LoginRequest{Email: ana.Email, Password: ana.Password})
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindAuth || appErr.Fields["email"] != "User is not verified." {
			t.Fatalf("expected unverified auth error, got %v", err)
		}
	})

	t.Run("BadPassword", func(t *testing.T) {
		svc, box := newService(t)
		registerAndVerify(t, svc, box)

		_, err := svc.Login(ctx, user.LoginRequest{Email: ana.Email, Password: "wrong-password"})
		if !errors.Is(err, user.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("FirstLoginClearedAfterFirstSuccess", func(t *testing.T) {
		svc, box := newService(t)
		registerAndVerify(t, svc, box)

		first, err := svc.Login(ctx, user.LoginRequest{Email: ana.Email, Password: ana.Password})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if !first.FirstLogin || first.Access == "" || first.Refresh == "" {
			t.Errorf("unexpected first login response %+v", first)
		}

		second, err := svc.Login(ctx, user.LoginRequest{Email: ana.Email, Password: ana.Password})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if second.FirstLogin {
			t.Error("first_login should be false on the second login")
		}
	})

	t.Run("Refresh", func(t *testing.T) {
		svc, box := newService(t)
		registerAndVerify(t, svc, box)
		tokens, _ := svc.Login(ctx, user.LoginRequest{Email: ana.Email, Password: ana.Password})

		resp, err := svc.Refresh(ctx, tokens.Refresh)
		if err != nil || resp.Access == "" {
			t.Fatalf("Refresh failed: %v", err)
		}
		if _, err := svc.Refresh(ctx, tokens.Access); apperr.KindOf(err) != apperr.KindAuth {
			t.Fatalf("access token must not refresh, got %v", err)
		}
	})
}

func TestVerifyOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsTokens", func(t *testing.T) {
		svc, box := newService(t)
		svc.Register(ctx, ana)

		resp, err := svc.VerifyOTP(ctx, user.VerifyOTPRequest{Email: ana.Email, Code: box.code("ana@example.com")})
		if err != nil {
			t.Fatalf("VerifyOTP failed: %v", err)
		}
		if !resp.Verified || !resp.FirstLogin || resp.Access == "" || resp.FirstName != "Ana" {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("UnknownUserIsBadRequest", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.VerifyOTP(ctx, user.VerifyOTPRequest{Email: "ghost@example.com", Code: "123456"})
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation || appErr.Message != "User not found." {
			t.Fatalf("expected 400 user not found, got %v", err)
		}
	})

	t.Run("ResendUnknownUser", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.ResendOTP(ctx, "ghost@example.com")
		if apperr.KindOf(err) != apperr.KindNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestPasswords(t *testing.T) {
	ctx := context.Background()

	t.Run("ForgotRequiresVerified", func(t *testing.T) {
		svc, _ := newService(t)
		svc.Register(ctx, ana)
		if _, err := svc.ForgotPassword(ctx, ana.Email); !errors.Is(err, user.ErrUserNotVerified) {
			t.Fatalf("expected ErrUserNotVerified, got %v", err)
		}
	})

	t.Run("ResetWithCode", func(t *testing.T) {
		svc, box := newService(t)
		registerAndVerify(t, svc, box)

		resp, err := svc.ForgotPassword(ctx, ana.Email)
		if err != nil || !resp.OTPSent {
			t.Fatalf("ForgotPassword: %+v %v", resp, err)
		}
		err = svc.ResetPassword(ctx, user.ResetPasswordRequest{
			Email:       ana.Email,
			Code:        box.code("ana@example.com"),
			NewPassword: "battery-staple",
		})
		if err != nil {
			t.Fatalf("ResetPassword failed: %v", err)
		}
		if _, err := svc.Login(ctx, user.LoginRequest{Email: ana.Email, Password: "battery-staple"}); err != nil {
			t.Fatalf("login with new password failed: %v", err)
		}
	})

	t.Run("ChangePassword", func(t *testing.T) {
		svc, box := newService(t)
		registerAndVerify(t, svc, box)
		sess, _ := svc.Login(ctx, user.LoginRequest{Email: ana.Email, Password: ana.Password})
		claims, _ := auth.ValidateJWT(sess.Access)

		err := svc.ChangePassword(ctx, claims.UserID, user.ChangePasswordRequest{OldPassword: "nope", NewPassword: "another-pass"})
		if !errors.Is(err, user.ErrOldPassword) {
			t.Fatalf("expected ErrOldPassword, got %v", err)
		}
		if err := svc.ChangePassword(ctx, claims.UserID, user.ChangePasswordRequest{OldPassword: ana.Password, NewPassword: "another-pass"}); err != nil {
			t.Fatalf("ChangePassword failed: %v", err)
		}

		info, err := svc.Session(ctx, claims.UserID)
		if err != nil || info.Email != "ana@example.com" || !info.IsVerified {
			t.Errorf("unexpected session %+v %v", info, err)
		}
	})
}
