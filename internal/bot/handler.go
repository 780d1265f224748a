package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"postreach/internal/config"
	"postreach/internal/domain"
	"postreach/internal/export"
	"postreach/internal/posturl"
	"postreach/internal/storage"
)

const (
	welcomeMessage = "Welcome to PostReach! Send me a LinkedIn post link and I'll list everyone who reacted to or commented on it."
	helpMessage    = "Send a LinkedIn post URL to extract its engagement.\n\n" +
		"/csv - download the latest result as CSV\n" +
		"/xlsx - download the latest result as Excel\n" +
		"/history - list stored results\n" +
		"/clear - delete stored results\n" +
		"/help - show this message"
	noURLMessage     = "I couldn't find a LinkedIn link in that message. Send a post URL or use /help."
	noResultsMessage = "No results yet. Send me a LinkedIn post URL first."
	emptyExport      = "The latest result has no profiles to export."
	failureMessage   = "Something went wrong, please try again later."
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Extractor runs one extraction for a post URL.
type Extractor interface {
	Extract(ctx context.Context, postURL string) (*domain.ExtractionResult, error)
}

// messenger is the part of *tgbot.Bot the handlers use.
type messenger interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *tgbot.SendDocumentParams) (*models.Message, error)
}

// Handler holds dependencies for the Telegram bot handlers.
type Handler struct {
	bot       *tgbot.Bot
	sender    messenger
	extractor Extractor
	store     storage.SessionStore
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewHandler creates the bot and registers all handlers.
func NewHandler(cfg config.Config, extractor Extractor, store storage.SessionStore, logger logrus.FieldLogger) (*Handler, error) {
	h := newHandler(nil, extractor, store, logger)

	b, err := tgbot.New(cfg.TelegramBotToken, tgbot.WithDefaultHandler(h.defaultHandler))
	if err != nil {
		h.log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b
	h.sender = b

	h.registerHandlers()

	h.log.Info("Telegram bot handler initialized")
	return h, nil
}

func newHandler(sender messenger, extractor Extractor, store storage.SessionStore, logger logrus.FieldLogger) *Handler {
	return &Handler{
		sender:    sender,
		extractor: extractor,
		store:     store,
		log:       logger.WithField("component", "bot_handler"),
		now:       time.Now,
	}
}

// registerHandlers sets up the command handlers. Everything else goes to
// the default handler.
func (h *Handler) registerHandlers() {
	commands := map[string]func(ctx context.Context, msg *models.Message){
		"/start":   h.handleStart,
		"/help":    h.handleHelp,
		"/csv":     func(ctx context.Context, msg *models.Message) { h.handleExport(ctx, msg, export.FormatCSV) },
		"/xlsx":    func(ctx context.Context, msg *models.Message) { h.handleExport(ctx, msg, export.FormatXLSX) },
		"/history": h.handleHistory,
		"/clear":   h.handleClear,
	}
	for cmd, fn := range commands {
		h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, cmd, tgbot.MatchTypeExact, h.wrap(cmd, fn))
		h.log.WithField("command", cmd).Debug("Registered command handler")
	}
}

func (h *Handler) wrap(cmd string, fn func(ctx context.Context, msg *models.Message)) tgbot.HandlerFunc {
	return func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		h.messageLog(update.Message).WithField("command", cmd).Info("Received command")
		fn(ctx, update.Message)
	}
}

// Start begins polling for updates from Telegram.
// This function blocks until the context is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

func (h *Handler) defaultHandler(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	h.handleText(ctx, update.Message)
}

func (h *Handler) messageLog(msg *models.Message) logrus.FieldLogger {
	fields := logrus.Fields{"chat_id": msg.Chat.ID}
	if msg.From != nil {
		fields["user_id"] = msg.From.ID
	}
	return h.log.WithFields(fields)
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	_, err := h.sender.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *models.Message) {
	h.reply(ctx, msg.Chat.ID, welcomeMessage)
}

func (h *Handler) handleHelp(ctx context.Context, msg *models.Message) {
	h.reply(ctx, msg.Chat.ID, helpMessage)
}

// handleText extracts engagement for the first LinkedIn URL in the message.
func (h *Handler) handleText(ctx context.Context, msg *models.Message) {
	log := h.messageLog(msg)

	postURL := findPostURL(msg.Text)
	if postURL == "" {
		log.Debug("Message without post URL")
		h.reply(ctx, msg.Chat.ID, noURLMessage)
		return
	}
	log = log.WithField("post_url", postURL)
	log.Info("Extracting engagement")

	res, err := h.extractor.Extract(ctx, postURL)
	if err != nil {
		var invalid *posturl.InvalidURLError
		if errors.As(err, &invalid) {
			h.reply(ctx, msg.Chat.ID, invalid.Reason)
			return
		}
		log.WithError(err).Error("Extraction failed")
		h.reply(ctx, msg.Chat.ID, failureMessage)
		return
	}

	if err := h.store.SaveResult(ctx, msg.Chat.ID, *res); err != nil {
		log.WithError(err).Warn("Failed to store result")
	}

	h.reply(ctx, msg.Chat.ID, formatSummary(res))
}

func (h *Handler) handleExport(ctx context.Context, msg *models.Message, format string) {
	log := h.messageLog(msg).WithField("format", format)

	res, err := h.store.LatestResult(ctx, msg.Chat.ID)
	if errors.Is(err, storage.ErrNoResults) {
		h.reply(ctx, msg.Chat.ID, noResultsMessage)
		return
	}
	if err != nil {
		log.WithError(err).Error("Failed to load latest result")
		h.reply(ctx, msg.Chat.ID, failureMessage)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, res.Profiles); err != nil {
		if errors.Is(err, export.ErrNoProfiles) {
			h.reply(ctx, msg.Chat.ID, emptyExport)
			return
		}
		log.WithError(err).Error("Export failed")
		h.reply(ctx, msg.Chat.ID, failureMessage)
		return
	}

	_, err = h.sender.SendDocument(ctx, &tgbot.SendDocumentParams{
		ChatID: msg.Chat.ID,
		Document: &models.InputFileUpload{
			Filename: export.Filename(format, h.now()),
			Data:     &buf,
		},
		Caption: fmt.Sprintf("%d profiles from %s", len(res.Profiles), res.PostURL),
	})
	if err != nil {
		log.WithError(err).Error("Failed to send document")
	}
}

func (h *Handler) handleHistory(ctx context.Context, msg *models.Message) {
	results, err := h.store.ResultsByChat(ctx, msg.Chat.ID)
	if err != nil {
		h.messageLog(msg).WithError(err).Error("Failed to load history")
		h.reply(ctx, msg.Chat.ID, failureMessage)
		return
	}
	if len(results) == 0 {
		h.reply(ctx, msg.Chat.ID, noResultsMessage)
		return
	}
	h.reply(ctx, msg.Chat.ID, formatHistory(results))
}

func (h *Handler) handleClear(ctx context.Context, msg *models.Message) {
	n, err := h.store.DeleteResults(ctx, msg.Chat.ID)
	if err != nil {
		h.messageLog(msg).WithError(err).Error("Failed to clear history")
		h.reply(ctx, msg.Chat.ID, failureMessage)
		return
	}
	h.reply(ctx, msg.Chat.ID, fmt.Sprintf("Cleared %d stored result(s).", n))
}

// findPostURL returns the first linkedin.com URL in text.
func findPostURL(text string) string {
	for _, candidate := range urlPattern.FindAllString(text, -1) {
		candidate = strings.TrimRight(candidate, ".,;:!?)]>\"'")
		if strings.Contains(strings.ToLower(candidate), "linkedin.com/") {
			return candidate
		}
	}
	return ""
}
