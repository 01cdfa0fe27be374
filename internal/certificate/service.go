package certificate

import (
	"context"
	"fmt"
	"time"

	"github.com/saulo-duarte/cyberaware-lambda/internal/apperr"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/saulo-duarte/cyberaware-lambda/internal/database"
	"github.com/saulo-duarte/cyberaware-lambda/internal/lock"
	"github.com/saulo-duarte/cyberaware-lambda/internal/pdf"
	util "github.com/saulo-duarte/cyberaware-lambda/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrCertificateNotFound    = apperr.NotFound("certificate not found")
	ErrCertificateInvalidated = apperr.NotFound("certificate has been invalidated")
)

type CertificateService interface {
	// IssueIfPassed returns the user's valid certificate, creating it on the
	// first call. Callers invoke it only for passing attempts.
	IssueIfPassed(ctx context.Context, userID, sessionID uint, score float64) (*Certificate, error)
	Fetch(ctx context.Context, userID uint) (*Certificate, error)
	Render(ctx context.Context, c *Certificate) ([]byte, error)
	Download(ctx context.Context, userID uint, certificateID string) (*Certificate, []byte, error)
	Invalidate(ctx context.Context, certificateID string) error
}

type certificateService struct {
	repo     CertificateRepository
	locker   lock.Locker
	renderer pdf.Renderer
	now      func() time.Time
}

func NewService(repo CertificateRepository, locker lock.Locker, renderer pdf.Renderer) CertificateService {
	return &certificateService{
		repo:     repo,
		locker:   locker,
		renderer: renderer,
		now:      util.Now,
	}
}

func lockKey(userID uint) string {
	return fmt.Sprintf("cert:%d", userID)
}

func (s *certificateService) IssueIfPassed(ctx context.Context, userID, sessionID uint, score float64) (*Certificate, error) {
	release, err := s.locker.Acquire(ctx, lockKey(userID))
	if err != nil {
		return nil, apperr.Internal("failed to lock certificate issuance", err)
	}
	defer release()

	existing, err := s.repo.GetValidByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to load certificate", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := s.now()
	c := &Certificate{
		CertificateID: FormatID(now, userID),
		UserID:        userID,
		QuizSessionID: sessionID,
		IssuedDate:    now,
		Score:         decimal.NewFromFloat(score).Round(2),
		Valid:         true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if !database.IsUniqueViolation(err) {
			return nil, apperr.Internal("failed to create certificate", err)
		}
		// another writer won the insert; hand back its row.
		winner, ferr := s.repo.GetValidByUser(ctx, userID)
		if ferr != nil {
			return nil, apperr.Internal("failed to load certificate", ferr)
		}
		if winner == nil {
			config.WithContext(ctx).WithFields(logrus.Fields{
				"certificate_id": c.CertificateID,
				"user_id":        userID,
			}).Warn("Certificate id taken by an invalidated certificate; re-issue blocked until tomorrow")
			return nil, apperr.Conflict("certificate issuance conflict", err)
		}
		return winner, nil
	}

	config.WithContext(ctx).WithFields(logrus.Fields{
		"certificate_id": c.CertificateID,
		"session_id":     sessionID,
	}).Info("Certificate issued")

	issued, err := s.repo.GetByCertificateID(ctx, c.CertificateID)
	if err != nil || issued == nil {
		config.WithContext(ctx).WithError(err).
			WithField("certificate_id", c.CertificateID).
			Warn("Failed to reload issued certificate; returning it without owner")
		return c, nil
	}
	return issued, nil
}

func (s *certificateService) Fetch(ctx context.Context, userID uint) (*Certificate, error) {
	c, err := s.repo.GetValidByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to load certificate", err)
	}
	if c != nil {
		return c, nil
	}

	latest, err := s.repo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to load certificate", err)
	}
	if latest != nil {
		return nil, ErrCertificateInvalidated
	}
	return nil, ErrCertificateNotFound
}

func (s *certificateService) Render(ctx context.Context, c *Certificate) ([]byte, error) {
	data := pdf.CertificateData{
		Score:         c.Score.StringFixed(2),
		IssuedDate:    util.FormatDate(c.IssuedDate),
		CertificateID: c.CertificateID,
	}
	if c.User != nil {
		data.UserName = c.User.FullName()
		data.UserEmail = c.User.Email
	}

	out, err := s.renderer.Render(ctx, data)
	if err != nil {
		return nil, apperr.RenderFailure("failed to render certificate", err)
	}
	return out, nil
}

func (s *certificateService) Download(ctx context.Context, userID uint, certificateID string) (*Certificate, []byte, error) {
	c, err := s.repo.GetByCertificateID(ctx, certificateID)
	if err != nil {
		return nil, nil, apperr.Internal("failed to load certificate", err)
	}
	if c == nil || c.UserID != userID {
		return nil, nil, ErrCertificateNotFound
	}
	if !c.Valid {
		return nil, nil, ErrCertificateInvalidated
	}

	out, err := s.Render(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return c, out, nil
}

func (s *certificateService) Invalidate(ctx context.Context, certificateID string) error {
	now := s.now()
	ok, err := s.repo.Invalidate(ctx, certificateID, now)
	if err != nil {
		return apperr.Internal("failed to invalidate certificate", err)
	}
	if !ok {
		return ErrCertificateNotFound
	}
	log := config.WithContext(ctx).WithField("certificate_id", certificateID)
	log.Info("Certificate invalidated")

	// ids are per user and day, so a certificate issued today blocks
	// re-issue until tomorrow.
	c, err := s.repo.GetByCertificateID(ctx, certificateID)
	if err != nil {
		log.WithError(err).Warn("Failed to reload invalidated certificate")
		return nil
	}
	if c != nil && FormatID(now, c.UserID) == certificateID {
		log.WithField("user_id", c.UserID).Warn("Certificate issued today was invalidated; re-issue blocked until tomorrow")
	}
	return nil
}
