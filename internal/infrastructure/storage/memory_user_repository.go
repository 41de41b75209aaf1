package storage

import (
	"context"
	"sync"

	"waste-sorter/internal/domain/entity"
	"waste-sorter/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище сессий бота
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[int64]*entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get возвращает копию пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *r.lookup(userID, chatID)
	return &cp, nil
}

// UpdateState меняет пользователя под блокировкой: проверка и запись не разделены
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID, chatID int64, fn func(*entity.User) error) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.lookup(userID, chatID)
	cp := *user
	if err := fn(&cp); err != nil {
		current := *user
		return &current, err
	}

	r.users[userID] = &cp
	out := cp
	return &out, nil
}

// lookup вызывается под r.mu
func (r *MemoryUserRepository) lookup(userID, chatID int64) *entity.User {
	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}
	return user
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
