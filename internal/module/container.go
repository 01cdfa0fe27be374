package module

import "gorm.io/gorm"

type ModuleContainer struct {
	Repo    ModuleRepository
	Service ModuleService
	Handler *Handler
}

func NewModuleContainer(db *gorm.DB) *ModuleContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service)

	return &ModuleContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
