package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"waste-sorter/internal/domain/entity"
	"waste-sorter/internal/domain/port"
)

// ClassificationService определяет категорию мусора по фото через внешнюю модель.
// Состояния между вызовами нет, сервис можно вызывать из нескольких горутин.
type ClassificationService struct {
	model  port.VisionModel
	logger *slog.Logger
	pick   func(n int) int
}

// NewClassificationService создаёт сервис классификации
func NewClassificationService(model port.VisionModel, logger *slog.Logger) *ClassificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassificationService{
		model:  model,
		logger: logger,
		pick:   rand.IntN,
	}
}

// Classify проверяет ввод, один раз вызывает модель и приводит ответ к категории.
// Ошибки никогда не выходят наружу: всё превращается в ClassificationResult.
func (s *ClassificationService) Classify(ctx context.Context, image, credential string) (res entity.ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("classification panicked", "panic", r)
			res = internalFailure(fmt.Sprint(r))
		}
	}()

	payload, err := ValidateRequest(image, credential)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.logger.Debug("request rejected", "reason", verr.Kind, "image_len", len(image))
			return entity.Failed(verr.Kind, verr.Message)
		}
		return internalFailure(err.Error())
	}

	if s.model == nil {
		return internalFailure("vision model is not configured")
	}

	s.logger.Debug("sending image to vision model", "payload_len", len(payload))

	answer, err := s.model.Describe(ctx, port.VisionRequest{
		Credential:  credential,
		Prompt:      classificationPrompt,
		Image:       payload,
		Temperature: classificationTemperature,
	})
	if err != nil {
		failure := TranslateServiceError(err)
		s.logger.Warn("vision model call failed", "reason", failure.Reason, "error", err)
		return failure
	}

	s.logger.Debug("raw model answer", "answer", answer)

	category, recognized := NormalizeAnswer(answer)
	if !recognized {
		s.logger.Warn("unexpected category returned, using default", "answer", answer, "default", category)
	}
	return entity.Succeeded(category)
}

// Simulate выбирает случайную категорию без обращения к модели (демо-режим для UI)
func (s *ClassificationService) Simulate() entity.ClassificationResult {
	all := entity.Categories()
	return entity.Succeeded(all[s.pick(len(all))].Category)
}

// NormalizeAnswer обрезает пробелы и ищет точное совпадение с категорией.
// Нераспознанный ответ не ошибка: возвращается категория по умолчанию и false.
func NormalizeAnswer(answer string) (entity.WasteCategory, bool) {
	if c, ok := entity.ParseCategory(strings.TrimSpace(answer)); ok {
		return c, true
	}
	return entity.DefaultCategory, false
}
