package bot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postreach/internal/domain"
	"postreach/internal/posturl"
	"postreach/internal/storage"
)

type sentDocument struct {
	filename string
	data     []byte
	caption  string
}

type fakeMessenger struct {
	messages  []string
	documents []sentDocument
}

func (f *fakeMessenger) SendMessage(_ context.Context, p *tgbot.SendMessageParams) (*models.Message, error) {
	f.messages = append(f.messages, p.Text)
	return &models.Message{}, nil
}

func (f *fakeMessenger) SendDocument(_ context.Context, p *tgbot.SendDocumentParams) (*models.Message, error) {
	upload, ok := p.Document.(*models.InputFileUpload)
	if !ok {
		return nil, errors.New("unexpected document type")
	}
	data, err := io.ReadAll(upload.Data)
	if err != nil {
		return nil, err
	}
	f.documents = append(f.documents, sentDocument{filename: upload.Filename, data: data, caption: p.Caption})
	return &models.Message{}, nil
}

func (f *fakeMessenger) last() string {
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

type fakeExtractor struct {
	result *domain.ExtractionResult
	err    error
	urls   []string
}

func (f *fakeExtractor) Extract(_ context.Context, postURL string) (*domain.ExtractionResult, error) {
	f.urls = append(f.urls, postURL)
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	res.PostURL = postURL
	return &res, nil
}

func setupHandler(t *testing.T, ex Extractor) (*Handler, *fakeMessenger) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := storage.NewBadgerStore(t.TempDir(), time.Hour, logger)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	sender := &fakeMessenger{}
	return newHandler(sender, ex, store, logger), sender
}

func message(chatID int64, text string) *models.Message {
	return &models.Message{
		Chat: models.Chat{ID: chatID},
		From: &models.User{ID: 42},
		Text: text,
	}
}

var extracted = &domain.ExtractionResult{
	ActivityID: "7123456789012345678",
	Profiles: []domain.Profile{
		{ProfileURL: "https://www.linkedin.com/in/ada", Name: "Ada", Headline: "Engineer", EngagementType: domain.EngagementReaction, ReactionType: "PRAISE"},
		{ProfileURL: "https://www.linkedin.com/in/bob", Name: "Bob", EngagementType: domain.EngagementComment, CommentText: "Nice"},
	},
	TotalCount:    2,
	ReactionCount: 1,
	CommentCount:  1,
}

const postLink = "https://www.linkedin.com/feed/update/urn:li:activity:7123456789012345678/"

func TestHandleText_ExtractsAndStores(t *testing.T) {
	ex := &fakeExtractor{result: extracted}
	h, sender := setupHandler(t, ex)
	ctx := context.Background()

	h.handleText(ctx, message(1, "look at this: "+postLink+" thoughts?"))

	require.Equal(t, []string{postLink}, ex.urls)
	summary := sender.last()
	assert.Contains(t, summary, "Profiles: 2 (reactions: 1, comments: 1)")
	assert.Contains(t, summary, "1. Ada (praise) - Engineer")
	assert.Contains(t, summary, "2. Bob (comment)")
	assert.Contains(t, summary, "/csv")

	stored, err := h.store.LatestResult(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, postLink, stored.PostURL)
}

func TestHandleText_NoURL(t *testing.T) {
	ex := &fakeExtractor{result: extracted}
	h, sender := setupHandler(t, ex)

	h.handleText(context.Background(), message(1, "hello https://example.com/x"))

	assert.Empty(t, ex.urls)
	assert.Equal(t, noURLMessage, sender.last())
}

func TestHandleText_InvalidURL(t *testing.T) {
	ex := &fakeExtractor{err: &posturl.InvalidURLError{URL: "x", Reason: "Invalid LinkedIn post URL."}}
	h, sender := setupHandler(t, ex)

	h.handleText(context.Background(), message(1, "https://www.linkedin.com/in/someone"))

	assert.Equal(t, "Invalid LinkedIn post URL.", sender.last())
	_, err := h.store.LatestResult(context.Background(), 1)
	assert.ErrorIs(t, err, storage.ErrNoResults)
}

func TestHandleText_UnexpectedError(t *testing.T) {
	h, sender := setupHandler(t, &fakeExtractor{err: errors.New("boom")})

	h.handleText(context.Background(), message(1, postLink))

	assert.Equal(t, failureMessage, sender.last())
}

func TestHandleExport(t *testing.T) {
	h, sender := setupHandler(t, &fakeExtractor{result: extracted})
	ctx := context.Background()

	h.handleExport(ctx, message(3, "/csv"), "csv")
	assert.Equal(t, noResultsMessage, sender.last())
	assert.Empty(t, sender.documents)

	h.handleText(ctx, message(3, postLink))
	h.handleExport(ctx, message(3, "/csv"), "csv")
	h.handleExport(ctx, message(3, "/xlsx"), "xlsx")

	require.Len(t, sender.documents, 2)
	csvDoc := sender.documents[0]
	assert.True(t, strings.HasPrefix(csvDoc.filename, "linkedin_engagement_"))
	assert.True(t, strings.HasSuffix(csvDoc.filename, ".csv"))
	assert.Contains(t, string(csvDoc.data), "https://www.linkedin.com/in/ada,Ada,Engineer,reaction,PRAISE,")
	assert.Equal(t, "2 profiles from "+postLink, csvDoc.caption)

	xlsxDoc := sender.documents[1]
	assert.True(t, strings.HasSuffix(xlsxDoc.filename, ".xlsx"))
	assert.True(t, bytes.HasPrefix(xlsxDoc.data, []byte("PK")))
}

func TestHandleExport_EmptyResult(t *testing.T) {
	h, sender := setupHandler(t, &fakeExtractor{result: &domain.ExtractionResult{Profiles: []domain.Profile{}}})
	ctx := context.Background()

	h.handleText(ctx, message(4, postLink))
	h.handleExport(ctx, message(4, "/csv"), "csv")

	assert.Equal(t, emptyExport, sender.last())
	assert.Empty(t, sender.documents)
}

func TestHandleHistoryAndClear(t *testing.T) {
	h, sender := setupHandler(t, &fakeExtractor{result: extracted})
	ctx := context.Background()

	h.handleHistory(ctx, message(5, "/history"))
	assert.Equal(t, noResultsMessage, sender.last())

	h.handleText(ctx, message(5, postLink))
	h.handleHistory(ctx, message(5, "/history"))
	assert.Contains(t, sender.last(), "1. "+postLink+" - 2 profiles")

	h.handleClear(ctx, message(5, "/clear"))
	assert.Equal(t, "Cleared 1 stored result(s).", sender.last())

	h.handleHistory(ctx, message(5, "/history"))
	assert.Equal(t, noResultsMessage, sender.last())
}

func TestStartAndHelp(t *testing.T) {
	h, sender := setupHandler(t, &fakeExtractor{result: extracted})

	h.handleStart(context.Background(), message(1, "/start"))
	assert.Equal(t, welcomeMessage, sender.last())

	h.handleHelp(context.Background(), message(1, "/help"))
	assert.Equal(t, helpMessage, sender.last())
}

func TestFindPostURL(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", ""},
		{"no links here", ""},
		{"https://example.com then https://www.linkedin.com/posts/x_activity-1-a", "https://www.linkedin.com/posts/x_activity-1-a"},
		{"(https://www.linkedin.com/feed/update/urn:li:activity:9).", "https://www.linkedin.com/feed/update/urn:li:activity:9"},
		{"HTTPS://WWW.LINKEDIN.COM/posts/x", ""},
		{"https://WWW.LinkedIn.com/posts/x", "https://WWW.LinkedIn.com/posts/x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, findPostURL(tt.text), tt.text)
	}
}

func TestFormatSummary(t *testing.T) {
	res := &domain.ExtractionResult{
		PostURL: "u",
		Errors:  []string{"Error fetching comments: timeout"},
		Message: "No engagement data found.",
	}
	out := formatSummary(res)
	assert.Contains(t, out, "Profiles: 0 (reactions: 0, comments: 0)")
	assert.Contains(t, out, "No engagement data found.")
	assert.Contains(t, out, "- Error fetching comments: timeout")
	assert.NotContains(t, out, "/csv")

	many := &domain.ExtractionResult{PostURL: "u"}
	for i := 0; i < previewLimit+3; i++ {
		many.Profiles = append(many.Profiles, domain.Profile{Name: "P", EngagementType: domain.EngagementReaction})
	}
	many.TotalCount = len(many.Profiles)
	out = formatSummary(many)
	assert.Contains(t, out, "...and 3 more")
	assert.Contains(t, out, "10. P (reaction)")
	assert.NotContains(t, out, "11. P")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}
