package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"techno-mart-ai/internal/aicontent"
	"techno-mart-ai/internal/prompt"
	"techno-mart-ai/internal/session"
	"techno-mart-ai/internal/telegram"
)

const (
	msgNameRequired = "Please enter a product name first to generate a description."
	msgIdeaRequired = "Please describe your dream gadget first."
	msgTopicMissing = "Please tell me which tech topic to search for."
	msgInvention    = "Behold! Your amazing invention, brought to life!"
)

// Messenger is the part of the Telegram client the handler talks to.
type Messenger interface {
	SendTyping(chatID int64)
	SendUploadPhoto(chatID int64)
	SendText(chatID int64, text string) error
	SendPhotoDataURL(chatID int64, dataURL string, caption string) error
}

type Options struct {
	Telegram Messenger
	AI       *aicontent.Client
	Sessions *session.Store
	Logger   *slog.Logger
}

type Handler struct {
	tg       Messenger
	ai       *aicontent.Client
	sessions *session.Store
	logger   *slog.Logger
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewStore(session.Options{})
	}

	return &Handler{
		tg:       opts.Telegram,
		ai:       opts.AI,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.Message == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	username := ""
	if msg.From != nil {
		username = msg.From.UserName
	}

	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, username, msg)
	}

	if msg.Text != "" {
		return h.handleText(ctx, chatID, msg.Text)
	}

	return nil
}

func (h *Handler) handleCommand(ctx context.Context, chatID int64, username string, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		h.sessions.Clear(chatID)
		return h.tg.SendText(chatID,
			"Techno Mart AI\n\n"+
				"I write product descriptions, look up tech news and sketch the gadget of your dreams.\n\n"+
				helpText,
		)
	case "help":
		return h.tg.SendText(chatID, helpText)
	case "cancel":
		h.sessions.Clear(chatID)
		return h.tg.SendText(chatID, "Cancelled.")
	case "describe":
		if args == "" {
			h.sessions.SetPending(chatID, username, session.ActionDescribe)
			return h.tg.SendText(chatID, "Send the product name, optionally followed by | and keywords.\nExample: Smart Toaster X9000 | smart, kitchen")
		}
		return h.describe(ctx, chatID, args)
	case "news":
		if args == "" {
			h.sessions.SetPending(chatID, username, session.ActionNews)
			return h.tg.SendText(chatID, "What tech topic should I search for?")
		}
		return h.news(ctx, chatID, args)
	case "dream":
		if args == "" {
			h.sessions.SetPending(chatID, username, session.ActionDream)
			return h.tg.SendText(chatID, "Describe the gadget you dream about.")
		}
		return h.dream(ctx, chatID, args)
	default:
		return h.tg.SendText(chatID, "Unknown command. Use /help.")
	}
}

const helpText = "Commands:\n" +
	"/describe <name> | <keywords> - product description\n" +
	"/news <topic> - recent tech events with sources\n" +
	"/dream <idea> - concept image of your dream gadget\n" +
	"/cancel - forget the pending command\n" +
	"/help - this message"

func (h *Handler) handleText(ctx context.Context, chatID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	switch h.sessions.TakePending(chatID) {
	case session.ActionDescribe:
		return h.describe(ctx, chatID, text)
	case session.ActionNews:
		return h.news(ctx, chatID, text)
	case session.ActionDream:
		return h.dream(ctx, chatID, text)
	default:
		return h.tg.SendText(chatID, "Send /help to see what I can do.")
	}
}

func (h *Handler) describe(ctx context.Context, chatID int64, args string) error {
	name, keywords := parseDescribeArgs(args)
	if name == "" {
		return h.tg.SendText(chatID, msgNameRequired)
	}

	h.tg.SendTyping(chatID)
	res := h.ai.GenerateDescription(ctx, name, keywords)
	return h.tg.SendText(chatID, res.Text)
}

func (h *Handler) news(ctx context.Context, chatID int64, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return h.tg.SendText(chatID, msgTopicMissing)
	}

	h.tg.SendTyping(chatID)
	res := h.ai.SearchRecentEvents(ctx, query)
	return h.tg.SendText(chatID, formatSearch(res))
}

func (h *Handler) dream(ctx context.Context, chatID int64, idea string) error {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return h.tg.SendText(chatID, msgIdeaRequired)
	}

	h.tg.SendUploadPhoto(chatID)
	_ = h.tg.SendText(chatID, "Inventing your gadget, this can take a moment...")

	img, err := h.ai.GenerateDreamGadgetImage(ctx, prompt.DreamGadget(idea))
	if err != nil {
		h.logger.Error("dream gadget failed", "chat_id", chatID, "err", err)
		return h.tg.SendText(chatID, fmt.Sprintf("Invention error: %s. Please try a different idea.", err))
	}

	return h.tg.SendPhotoDataURL(chatID, img.DataURI, msgInvention)
}

// parseDescribeArgs splits "name | kw1, kw2" into its parts.
func parseDescribeArgs(args string) (string, []string) {
	name, rest, _ := strings.Cut(args, "|")
	return strings.TrimSpace(name), prompt.ParseKeywords(rest)
}

func formatSearch(res aicontent.SearchResult) string {
	if len(res.Sources) == 0 {
		return res.Text
	}

	var b strings.Builder
	b.WriteString(res.Text)
	b.WriteString("\n\nSources:")
	for _, s := range res.Sources {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = s.URI
		}
		fmt.Fprintf(&b, "\n- %s: %s", title, s.URI)
	}
	return b.String()
}
