package app

import (
	"strings"

	"waste-sorter/internal/domain/entity"
)

const (
	// CredentialPrefix обязательный префикс ключей OpenAI
	CredentialPrefix = "sk-"
	// MinImagePayload короче этого base64 не может быть картинкой
	MinImagePayload = 100

	dataURIMarker = "base64,"
)

// ValidationError ошибка проверки запроса до обращения к модели
type ValidationError struct {
	Kind    entity.ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// ValidateRequest проверяет ключ и картинку и возвращает base64 без data:-префикса.
func ValidateRequest(image, credential string) (string, error) {
	if credential == "" {
		return "", &ValidationError{
			Kind:    entity.ErrMissingCredential,
			Message: "Kein API-Schlüssel angegeben",
		}
	}

	if !strings.HasPrefix(credential, CredentialPrefix) {
		return "", &ValidationError{
			Kind:    entity.ErrMalformedCredential,
			Message: "Ungültiges API-Schlüssel-Format. Der Schlüssel sollte mit 'sk-' beginnen.",
		}
	}

	payload := StripDataURI(image)
	if len(payload) < MinImagePayload {
		return "", &ValidationError{
			Kind:    entity.ErrMalformedImage,
			Message: "Ungültiges Bildformat oder leeres Bild",
		}
	}

	return payload, nil
}

// StripDataURI оставляет только часть после "base64,", если маркер есть.
// При повторном маркере берётся кусок между первым и вторым вхождением.
func StripDataURI(image string) string {
	if _, after, found := strings.Cut(image, dataURIMarker); found {
		payload, _, _ := strings.Cut(after, dataURIMarker)
		return payload
	}
	return image
}
