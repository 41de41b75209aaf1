package port

import "context"

// VisionRequest один запрос к мультимодальной модели
type VisionRequest struct {
	Credential  string  // API-ключ пользователя, только на время вызова
	Prompt      string  // текстовая инструкция
	Image       string  // base64 без data:-префикса
	Temperature float32 // чем ниже, тем стабильнее ответ
}

// VisionModel интерфейс внешней модели, которая умеет смотреть на картинки
type VisionModel interface {
	// Describe отправляет промпт с картинкой и возвращает текст ответа как есть
	Describe(ctx context.Context, req VisionRequest) (string, error)
}
