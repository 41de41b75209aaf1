package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"waste-sorter/internal/domain/port"
)

const (
	DefaultModel = openai.GPT4o

	fallbackMIME = "image/jpeg"
	sniffChars   = 64
)

// OpenAIModel ходит в Chat Completions с картинкой в сообщении.
// Клиент создаётся на каждый вызов: ключ приходит от пользователя вместе с запросом.
type OpenAIModel struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIModel создаёт адаптер. Пустой baseURL означает api.openai.com.
func NewOpenAIModel(baseURL, model string, timeout time.Duration) *OpenAIModel {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIModel{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Model возвращает имя модели, в которую уходят запросы
func (m *OpenAIModel) Model() string {
	return m.model
}

// Describe отправляет один запрос без повторов. Ошибки апстрима возвращаются как есть,
// чтобы вызывающий видел исходный текст сообщения.
func (m *OpenAIModel) Describe(ctx context.Context, req port.VisionRequest) (string, error) {
	cfg := openai.DefaultConfig(req.Credential)
	if m.baseURL != "" {
		cfg.BaseURL = m.baseURL
	}
	cfg.HTTPClient = m.httpClient
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: req.Prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: DataURL(req.Image),
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// DataURL собирает data:-ссылку, угадывая MIME по первым байтам
func DataURL(payload string) string {
	return "data:" + SniffMIME(payload) + ";base64," + payload
}

// SniffMIME декодирует начало base64 и определяет тип картинки.
func SniffMIME(payload string) string {
	head := payload
	if len(head) > sniffChars {
		head = head[:sniffChars]
	}
	head = head[:len(head)-len(head)%4]

	raw, err := base64.StdEncoding.DecodeString(head)
	if err != nil || len(raw) == 0 {
		return fallbackMIME
	}

	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		return fallbackMIME
	}
	return mime
}

// Проверка реализации интерфейса
var _ port.VisionModel = (*OpenAIModel)(nil)
