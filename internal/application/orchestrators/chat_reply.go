package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"emerald/internal/adapters/chatbot"
	"emerald/internal/domain/chat"
)

// ChatReplyInput carries input for the chat-reply orchestrator.
type ChatReplyInput struct {
	Text   string
	SentAt time.Time // client timestamp; zero means "now"
}

// ChatReplyDeps holds dependencies for ChatReply.
type ChatReplyDeps struct {
	Client     chatbot.Client
	Transcript *chat.Transcript
}

// ChatReplyResult carries both sides of the exchange.
type ChatReplyResult struct {
	UserMessage chat.Message
	BotMessage  chat.Message
}

var ErrEmptyMessage = errors.New("message cannot be empty")

// ExecuteChatReply appends the resident's message to the transcript,
// relays it to the automation webhook, and appends the reply. Webhook
// failures degrade to a fixed fallback message instead of an error page:
// a webhook that answered but unusably (bad status, empty reply) gets the
// human-escalation string, anything that kept the exchange from happening
// at all (transport failure, undecodable body, no webhook configured)
// gets the offline string.
// PRE: Transcript is non-nil
// POST: Exactly two messages appended; the bot message is the webhook
// reply or a fallback string
func ExecuteChatReply(ctx context.Context, input ChatReplyInput, deps ChatReplyDeps) (ChatReplyResult, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return ChatReplyResult{}, ErrEmptyMessage
	}

	sentAt := input.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	userMsg := deps.Transcript.Append(text, true, sentAt)

	reply, err := deps.Client.Send(ctx, text, sentAt)
	if err != nil {
		if errors.Is(err, chatbot.ErrBadStatus) || errors.Is(err, chatbot.ErrEmptyReply) {
			reply = chat.FallbackUnavailable
		} else {
			reply = chat.FallbackOffline
		}
		slog.Warn("chat_fallback", "error", err)
	}

	botMsg := deps.Transcript.Append(reply, false, time.Now())
	return ChatReplyResult{UserMessage: userMsg, BotMessage: botMsg}, nil
}
