package app

import (
	"context"
	"errors"

	"waste-sorter/internal/domain/entity"
	"waste-sorter/internal/domain/port"
)

// ErrUserBusy классификация для пользователя уже запущена
var ErrUserBusy = errors.New("classification already in progress")

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	return s.repo.UpdateState(ctx, userID, chatID, func(u *entity.User) error {
		u.SetState(state)
		return nil
	})
}

// BeginCheck не даёт сбросить идущую обработку
func (s *UserService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.UpdateState(ctx, userID, chatID, func(u *entity.User) error {
		if u.Busy() {
			return ErrUserBusy
		}
		u.SetState(entity.StateAwaitingPhoto)
		return nil
	})
}

// StartProcessing переводит пользователя в обработку, если он ещё не занят.
// Проверка и переход выполняются одной операцией репозитория.
func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.UpdateState(ctx, userID, chatID, func(u *entity.User) error {
		if u.Busy() {
			return ErrUserBusy
		}
		u.SetState(entity.StateProcessing)
		u.Checks++
		return nil
	})
}

// Finish возвращает пользователя в главное меню после классификации
func (s *UserService) Finish(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// Cancel сбрасывает ожидание фото; идущую классификацию отменить нельзя
func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.UpdateState(ctx, userID, chatID, func(u *entity.User) error {
		if u.Busy() {
			return ErrUserBusy
		}
		u.SetState(entity.StateMainMenu)
		return nil
	})
}
