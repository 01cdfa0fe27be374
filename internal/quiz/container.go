package quiz

import (
	"github.com/saulo-duarte/cyberaware-lambda/internal/lock"
	"gorm.io/gorm"
)

type QuizContainer struct {
	Repo    QuizRepository
	Service QuizService
	Handler *Handler
}

func NewQuizContainer(db *gorm.DB, locker lock.Locker, issuer Issuer) *QuizContainer {
	repo := NewRepository(db)
	service := NewService(db, repo, locker, issuer)
	handler := NewHandler(service)

	return &QuizContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
