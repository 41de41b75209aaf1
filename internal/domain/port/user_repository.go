package port

import (
	"context"

	"waste-sorter/internal/domain/entity"
)

// UserRepository хранит состояние диалога с пользователем бота
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// UpdateState атомарно применяет fn к пользователю (создаёт нового если не найден).
	// Если fn вернула ошибку, изменения не сохраняются, возвращается текущее состояние и ошибка.
	UpdateState(ctx context.Context, userID, chatID int64, fn func(*entity.User) error) (*entity.User, error)
}
