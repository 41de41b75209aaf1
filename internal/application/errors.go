package app

import (
	"strings"

	"waste-sorter/internal/domain/entity"
)

// Сообщения апстрима не являются контрактом: это разбор текста ошибки по ключевым словам.
// Порядок правил важен, срабатывает первое совпадение.
var serviceErrorRules = []struct {
	keywords []string
	kind     entity.ErrorKind
	message  string
}{
	{
		keywords: []string{"API key"},
		kind:     entity.ErrInvalidCredential,
		message:  "Ungültiger API-Schlüssel oder keine Berechtigung",
	},
	{
		keywords: []string{"vision", "image"},
		kind:     entity.ErrNoVisionAccess,
		message:  "Ihr API-Schlüssel hat keinen Zugriff auf Vision-Funktionen oder es gibt ein Problem mit dem Bildformat",
	},
	{
		keywords: []string{"rate limit"},
		kind:     entity.ErrRateLimited,
		message:  "API-Ratenlimit erreicht. Bitte versuchen Sie es später erneut.",
	},
	{
		keywords: []string{"billing"},
		kind:     entity.ErrBillingIssue,
		message:  "Abrechnungsproblem mit dem API-Schlüssel. Bitte überprüfen Sie Ihr OpenAI-Konto.",
	},
	{
		keywords: []string{"model"},
		kind:     entity.ErrModelAccessDenied,
		message:  "Ihr API-Schlüssel hat keinen Zugriff auf das Vision-Modell. Bitte verwenden Sie einen Schlüssel mit GPT-4o-Zugriff.",
	},
}

// TranslateServiceError сопоставляет ошибку вызова модели с причиной для пользователя
func TranslateServiceError(err error) entity.ClassificationResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	for _, rule := range serviceErrorRules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return entity.Failed(rule.kind, rule.message)
			}
		}
	}

	if msg == "" {
		msg = "Unbekannter Fehler"
	}
	return entity.Failed(entity.ErrUnknownServiceError, "API-Fehler: "+msg)
}

func internalFailure(detail string) entity.ClassificationResult {
	if detail == "" {
		detail = "Unbekannter Fehler"
	}
	return entity.Failed(entity.ErrInternal, "Fehler bei der Klassifizierung: "+detail)
}
