package user

import "gorm.io/gorm"

type UserContainer struct {
	Repo    UserRepository
	Service UserService
	Handler *Handler
}

func NewUserContainer(db *gorm.DB, repo UserRepository, codes CodeService) *UserContainer {
	service := NewService(db, repo, codes)
	handler := NewHandler(service)

	return &UserContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
