package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techno-mart-ai/internal/aicontent"
	"techno-mart-ai/internal/gemini"
	"techno-mart-ai/internal/session"
	"techno-mart-ai/internal/telegram"
)

type sentPhoto struct {
	dataURL string
	caption string
}

type fakeMessenger struct {
	mu     sync.Mutex
	texts  []string
	photos []sentPhoto
}

func (m *fakeMessenger) SendTyping(int64)      {}
func (m *fakeMessenger) SendUploadPhoto(int64) {}

func (m *fakeMessenger) SendText(_ int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return nil
}

func (m *fakeMessenger) SendPhotoDataURL(_ int64, dataURL string, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.photos = append(m.photos, sentPhoto{dataURL: dataURL, caption: caption})
	return nil
}

func (m *fakeMessenger) lastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.texts) == 0 {
		return ""
	}
	return m.texts[len(m.texts)-1]
}

type fakeProvider struct {
	mu        sync.Mutex
	text      *gemini.TextResponse
	textErr   error
	images    *gemini.ImagesResponse
	imagesErr error

	textRequests  []gemini.TextRequest
	imageRequests []gemini.ImagesRequest
}

func (p *fakeProvider) GenerateText(_ context.Context, req gemini.TextRequest) (*gemini.TextResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.textRequests = append(p.textRequests, req)
	return p.text, p.textErr
}

func (p *fakeProvider) GenerateImages(_ context.Context, req gemini.ImagesRequest) (*gemini.ImagesResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.imageRequests = append(p.imageRequests, req)
	return p.images, p.imagesErr
}

func newTestHandler(p *fakeProvider) (*Handler, *fakeMessenger) {
	tg := &fakeMessenger{}
	ai := aicontent.New(aicontent.Options{
		APIKey:       "test-key",
		Provider:     p,
		ImageRetries: -1,
	})
	return New(Options{Telegram: tg, AI: ai, Sessions: session.NewStore(session.Options{})}), tg
}

func command(chatID int64, text string) telegram.Update {
	cmd := text
	for i, r := range text {
		if r == ' ' {
			cmd = text[:i]
			break
		}
	}
	return telegram.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: chatID, UserName: "shopper"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func plain(chatID int64, text string) telegram.Update {
	return telegram.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: chatID, UserName: "shopper"},
	}}
}

func TestParseDescribeArgs(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		keywords []string
	}{
		{in: "Smart Toaster", name: "Smart Toaster", keywords: []string{}},
		{in: "Smart Toaster | smart, kitchen", name: "Smart Toaster", keywords: []string{"smart", "kitchen"}},
		{in: " | smart", name: "", keywords: []string{"smart"}},
		{in: "Lamp|", name: "Lamp", keywords: []string{}},
	}

	for _, tt := range tests {
		name, keywords := parseDescribeArgs(tt.in)
		assert.Equal(t, tt.name, name, "input %q", tt.in)
		assert.Equal(t, tt.keywords, keywords, "input %q", tt.in)
	}
}

func TestDescribeCommand(t *testing.T) {
	p := &fakeProvider{text: &gemini.TextResponse{Text: "A toaster that thinks."}}
	h, tg := newTestHandler(p)

	require.NoError(t, h.HandleUpdate(context.Background(), command(1, "/describe Smart Toaster | smart, kitchen")))

	assert.Equal(t, "A toaster that thinks.", tg.lastText())
	require.Len(t, p.textRequests, 1)
	assert.Contains(t, p.textRequests[0].Prompt, `"Smart Toaster"`)
	assert.Contains(t, p.textRequests[0].Prompt, "smart, kitchen.")
}

func TestDescribeRequiresName(t *testing.T) {
	p := &fakeProvider{}
	h, tg := newTestHandler(p)

	require.NoError(t, h.HandleUpdate(context.Background(), command(1, "/describe | smart")))

	assert.Equal(t, msgNameRequired, tg.lastText())
	assert.Empty(t, p.textRequests)
}

func TestPendingCommandCompletedByText(t *testing.T) {
	p := &fakeProvider{text: &gemini.TextResponse{
		Text: "Chips got faster.",
		Candidates: []gemini.Candidate{{Grounding: &gemini.GroundingMetadata{Chunks: []gemini.GroundingChunk{
			{Web: &gemini.WebSource{URI: "https://news.example/chips", Title: "Chip news"}},
			{Web: &gemini.WebSource{URI: "https://news.example/untitled"}},
		}}}},
	}}
	h, tg := newTestHandler(p)
	ctx := context.Background()

	require.NoError(t, h.HandleUpdate(ctx, command(7, "/news")))
	assert.Equal(t, "What tech topic should I search for?", tg.lastText())

	require.NoError(t, h.HandleUpdate(ctx, plain(7, "semiconductors")))
	assert.Equal(t,
		"Chips got faster.\n\nSources:\n- Chip news: https://news.example/chips\n- https://news.example/untitled: https://news.example/untitled",
		tg.lastText(),
	)
	require.Len(t, p.textRequests, 1)
	assert.True(t, p.textRequests[0].GoogleSearch)

	require.NoError(t, h.HandleUpdate(ctx, plain(7, "again")))
	assert.Equal(t, "Send /help to see what I can do.", tg.lastText())
}

func TestCancelDropsPending(t *testing.T) {
	p := &fakeProvider{}
	h, tg := newTestHandler(p)
	ctx := context.Background()

	require.NoError(t, h.HandleUpdate(ctx, command(3, "/dream")))
	require.NoError(t, h.HandleUpdate(ctx, command(3, "/cancel")))
	require.NoError(t, h.HandleUpdate(ctx, plain(3, "a flying teapot")))

	assert.Equal(t, "Send /help to see what I can do.", tg.lastText())
	assert.Empty(t, p.imageRequests)
}

func TestDreamCommand(t *testing.T) {
	p := &fakeProvider{images: &gemini.ImagesResponse{Images: []gemini.Image{{Bytes: []byte{0xFF, 0xD8}}}}}
	h, tg := newTestHandler(p)

	require.NoError(t, h.HandleUpdate(context.Background(), command(5, "/dream a self-folding umbrella")))

	require.Len(t, tg.photos, 1)
	assert.Equal(t, "data:image/jpeg;base64,/9g=", tg.photos[0].dataURL)
	assert.Equal(t, msgInvention, tg.photos[0].caption)
	require.Len(t, p.imageRequests, 1)
	assert.Contains(t, p.imageRequests[0].Prompt, "A concept image of a futuristic gadget: a self-folding umbrella.")
}

func TestDreamCommandFailure(t *testing.T) {
	p := &fakeProvider{imagesErr: errors.New("quota exceeded")}
	h, tg := newTestHandler(p)

	require.NoError(t, h.HandleUpdate(context.Background(), command(5, "/dream robot butler")))

	assert.Empty(t, tg.photos)
	assert.Equal(t,
		"Invention error: Failed to generate dream gadget image after 1 attempt(s). Last error: quota exceeded. Please try a different idea.",
		tg.lastText(),
	)
}

func TestDisabledAI(t *testing.T) {
	tg := &fakeMessenger{}
	h := New(Options{Telegram: tg, AI: aicontent.New(aicontent.Options{})})

	require.NoError(t, h.HandleUpdate(context.Background(), command(1, "/dream robot butler")))
	assert.Equal(t, "Invention error: AI service is not initialized for image generation.. Please try a different idea.", tg.lastText())

	require.NoError(t, h.HandleUpdate(context.Background(), command(1, "/describe Lamp")))
	assert.Equal(t, "AI service is not initialized. Please check API Key configuration.", tg.lastText())
}

func TestUnknownCommand(t *testing.T) {
	h, tg := newTestHandler(&fakeProvider{})

	require.NoError(t, h.HandleUpdate(context.Background(), command(1, "/teleport")))
	assert.Equal(t, "Unknown command. Use /help.", tg.lastText())

	require.NoError(t, h.HandleUpdate(context.Background(), telegram.Update{}))
}
