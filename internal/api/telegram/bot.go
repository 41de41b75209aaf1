package telegram

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "waste-sorter/internal/application"
	"waste-sorter/internal/domain/entity"
)

// MaxImageSize фото больше этого размера не скачиваем
const MaxImageSize = 4 << 20

const (
	msgStart = `👋 Hallo! Ich sage dir, in welche Tonne dein Abfall gehört.

📸 Schicke mir ein Foto des Abfalls und schreibe deinen OpenAI API-Schlüssel (sk-...) in die Bildunterschrift.
Der Schlüssel wird nur für diese eine Anfrage verwendet und nicht gespeichert.

📋 Befehle:
/check — Anleitung anzeigen (optional, ein Foto genügt)
/demo — zufällige Kategorie (ohne API)
/help — Hilfe
/cancel — abbrechen`

	msgHelp = `ℹ️ So funktioniert es:

1️⃣ Foto des Abfalls aufnehmen
2️⃣ API-Schlüssel als Bildunterschrift eintragen
3️⃣ Du bekommst die Kategorie und die passende Tonne

💡 Tipps:
• Nur einen Gegenstand pro Foto
• Gute Beleuchtung
• Maximal 4MB

📋 Befehle:
/check — Anleitung (optional)
/demo — Demo-Modus
/cancel — abbrechen`

	msgAwaitingPhoto   = "📸 Schicke ein Foto des Abfalls mit deinem API-Schlüssel als Bildunterschrift."
	msgCancelled       = "❌ Abgebrochen. Sende /check für eine neue Prüfung."
	msgSendPhoto       = "📸 Bitte schicke ein Foto des Abfalls."
	msgUnknownCommand  = "❓ Unbekannter Befehl. Siehe /help."
	msgProcessing      = "⏳ Bild wird analysiert..."
	msgBusy            = "⏳ Das vorherige Bild wird noch analysiert, bitte warten."
	msgCancelBusy      = "⏳ Die laufende Analyse kann nicht abgebrochen werden, das Ergebnis kommt gleich."
	msgTooLarge        = "⚠️ Bild ist zu groß. Maximale Größe ist 4MB."
	msgProcessingError = "⚠️ Fehler beim Lesen der Datei. Bitte versuchen Sie es mit einem anderen Bild."
)

// Bot представляет Telegram-бота
type Bot struct {
	api        *tgbotapi.BotAPI
	users      *app.UserService
	classifier *app.ClassificationService
	logger     *slog.Logger
	timeout    time.Duration
	httpc      *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, classifier *app.ClassificationService, logger *slog.Logger, timeout time.Duration) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	logger.Info("authorized on telegram", "account", api.Self.UserName)

	return &Bot{
		api:        api,
		users:      users,
		classifier: classifier,
		logger:     logger,
		timeout:    timeout,
		httpc:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	dispatch(ctx, updates, b.handleMessage)
	return nil
}

// dispatch запускает обработчик на каждое сообщение в своей горутине,
// медленная модель не блокирует остальных. Возвращается после отмены ctx
// или закрытия канала, дождавшись всех запущенных обработчиков.
func dispatch(ctx context.Context, updates tgbotapi.UpdatesChannel, handle func(context.Context, *tgbotapi.Message)) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer wg.Done()
				handle(ctx, msg)
			}(update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleImage(ctx, msg, photo.FileID, photo.FileSize, "image/jpeg")
		return
	}

	// Картинка, отправленная файлом
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		b.handleImage(ctx, msg, msg.Document.FileID, msg.Document.FileSize, msg.Document.MimeType)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.users.Cancel(ctx, userID, chatID); err != nil && !errors.Is(err, app.ErrUserBusy) {
			b.logger.Error("reset user state", "user_id", userID, "error", err)
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		if _, err := b.users.BeginCheck(ctx, userID, chatID); err != nil {
			if errors.Is(err, app.ErrUserBusy) {
				b.sendMessage(chatID, msgBusy)
				return
			}
			b.logger.Error("begin check", "user_id", userID, "error", err)
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "demo":
		b.sendMessage(chatID, FormatResult(b.classifier.Simulate()))

	case "cancel":
		if _, err := b.users.Cancel(ctx, userID, chatID); err != nil {
			if errors.Is(err, app.ErrUserBusy) {
				b.sendMessage(chatID, msgCancelBusy)
				return
			}
			b.logger.Error("cancel", "user_id", userID, "error", err)
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleImage скачивает картинку и классифицирует её с ключом из подписи
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, fileID string, fileSize int, mime string) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	credential := strings.TrimSpace(msg.Caption)

	// подпись с ключом не должна оставаться в чате
	if credential != "" {
		b.deleteMessage(chatID, msg.MessageID)
	}

	if fileSize > MaxImageSize {
		b.sendMessage(chatID, msgTooLarge)
		return
	}

	if _, err := b.users.StartProcessing(ctx, userID, chatID); err != nil {
		if errors.Is(err, app.ErrUserBusy) {
			b.sendMessage(chatID, msgBusy)
			return
		}
		b.logger.Error("start processing", "user_id", userID, "error", err)
		return
	}
	defer func() {
		if _, err := b.users.Finish(ctx, userID, chatID); err != nil {
			b.logger.Error("finish processing", "user_id", userID, "error", err)
		}
	}()

	b.sendMessage(chatID, msgProcessing)

	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.Warn("download photo", "user_id", userID, "error", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	b.logger.Debug("received image", "user_id", userID, "bytes", len(data))

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	res := b.classifier.Classify(callCtx, EncodeDataURI(mime, data), credential)
	if res.Success {
		b.logger.Info("classified", "user_id", userID, "category", res.Category)
	} else {
		b.logger.Info("classification failed", "user_id", userID, "reason", res.Reason)
	}

	b.sendMessage(chatID, FormatResult(res))
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("file exceeds %d bytes", MaxImageSize)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.logger.Warn("delete caption message", "chat_id", chatID, "error", err)
	}
}

// EncodeDataURI кодирует байты картинки так же, как браузерная форма
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// FormatResult текст ответа пользователю
func FormatResult(res entity.ClassificationResult) string {
	if !res.Success {
		return "⚠️ " + res.Message
	}

	info, ok := res.Category.Info()
	if !ok {
		return string(res.Category)
	}

	return fmt.Sprintf("%s %s\n\n🗑 %s\n%s", info.Icon, info.Category, info.Bin, info.Description)
}
