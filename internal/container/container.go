package container

import (
	"log/slog"

	app "waste-sorter/internal/application"
	"waste-sorter/internal/domain/port"
)

type Container struct {
	UserService           *app.UserService
	ClassificationService *app.ClassificationService
}

func New(userRepo port.UserRepository, model port.VisionModel, logger *slog.Logger) *Container {
	userService := app.NewUserService(userRepo)
	classificationService := app.NewClassificationService(model, logger)

	return &Container{
		UserService:           userService,
		ClassificationService: classificationService,
	}
}
