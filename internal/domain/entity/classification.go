package entity

// ErrorKind причина неудачной классификации
type ErrorKind string

const (
	// Проверки до обращения к модели
	ErrMissingCredential   ErrorKind = "MissingCredential"
	ErrMalformedCredential ErrorKind = "MalformedCredential"
	ErrMalformedImage      ErrorKind = "MalformedImage"

	// Ошибки внешнего сервиса
	ErrInvalidCredential   ErrorKind = "InvalidCredential"
	ErrNoVisionAccess      ErrorKind = "NoVisionAccess"
	ErrRateLimited         ErrorKind = "RateLimited"
	ErrBillingIssue        ErrorKind = "BillingIssue"
	ErrModelAccessDenied   ErrorKind = "ModelAccessDenied"
	ErrUnknownServiceError ErrorKind = "UnknownServiceError"

	ErrInternal ErrorKind = "InternalError"
)

// ClassificationResult итог одной классификации: либо категория, либо причина ошибки.
type ClassificationResult struct {
	Success  bool          `json:"success"`
	Category WasteCategory `json:"category,omitempty"`
	Reason   ErrorKind     `json:"reason,omitempty"`
	Message  string        `json:"error,omitempty"`
}

// Succeeded создаёт успешный результат
func Succeeded(category WasteCategory) ClassificationResult {
	return ClassificationResult{Success: true, Category: category}
}

// Failed создаёт результат с ошибкой
func Failed(reason ErrorKind, message string) ClassificationResult {
	return ClassificationResult{Reason: reason, Message: message}
}
