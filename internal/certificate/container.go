package certificate

import (
	"github.com/saulo-duarte/cyberaware-lambda/internal/lock"
	"github.com/saulo-duarte/cyberaware-lambda/internal/pdf"
	"gorm.io/gorm"
)

type CertificateContainer struct {
	Repo    CertificateRepository
	Service CertificateService
	Handler *Handler
}

func NewCertificateContainer(db *gorm.DB, locker lock.Locker, renderer pdf.Renderer) *CertificateContainer {
	repo := NewRepository(db)
	service := NewService(repo, locker, renderer)
	handler := NewHandler(service)

	return &CertificateContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
