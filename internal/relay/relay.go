// Package relay orchestrates a support exchange: try the canned FAQ table
// first, fall back to the hosted completion model with bounded per-session
// history, and post-validate whatever the model says before it reaches the
// customer.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/santoshk66/maizic-chatbot/internal/chatlog"
	"github.com/santoshk66/maizic-chatbot/internal/faq"
	"github.com/santoshk66/maizic-chatbot/internal/llm"
	"github.com/santoshk66/maizic-chatbot/internal/models"
	"github.com/santoshk66/maizic-chatbot/internal/session"
)

// SystemPrompt is the persona instruction sent as the first turn of every
// session.
const SystemPrompt = `You are a helpful, polite, and knowledgeable customer care executive for Maizic Smarthome, a leading smart electronics brand in India. You assist customers with accurate product information, installation help, and post-purchase support.

You are trained on these Maizic product categories: smart security cameras (WiFi, 4G, PTZ, IP66 outdoor), dashcams for cars, projectors (CineCast Pro, mini projectors), kids cameras and digital toys, smart fans, microphones, and routers.

For security cameras, guide customers to use the V380 Pro or Tuya Smart app. Mention camera features like 360 degree view, 2-way talk, color night vision, human detection, SD card support up to 128GB, and IP66 waterproof rating for outdoor models.

For warranty questions, direct customers to https://www.maizic.com/warranty.

Always respond clearly, briefly, and in a friendly tone. Use bullet points when helpful. Never make up answers. If unsure, say: "I'm forwarding this to our technical team and they'll get back to you shortly."`

const (
	// BrandPrefix opens every reply the service sends.
	BrandPrefix = "Maizic Smarthome: "

	// DefaultSessionID backs requests that don't carry a session id.
	DefaultSessionID = "default"

	maxMessageChars = 1000
	maxReplyChars   = 600

	escalationReply   = "I'm forwarding this to our technical team and they'll get back to you shortly."
	clearConfirmation = "Your conversation has been reset. How can I help you today?"
)

// hedgePhrases mark a model reply as non-answers; any of these triggers the
// escalation substitute.
var hedgePhrases = []string{
	"i'm forwarding this to our technical team",
	"i don't know",
	"i am not sure",
	"i'm not sure",
	"as an ai",
}

// ErrInvalidInput rejects an empty or over-length message before any
// external work happens.
var ErrInvalidInput = errors.New("message too long or empty")

// Relay wires the matcher, session store, completion client, and transcript
// recorder into the request lifecycle.
type Relay struct {
	matcher  faq.Matcher
	sessions session.Store
	llm      llm.Completer
	record   chatlog.Recorder
	logger   *zap.Logger
	now      func() time.Time
}

func New(matcher faq.Matcher, sessions session.Store, completer llm.Completer, recorder chatlog.Recorder, logger *zap.Logger) *Relay {
	return &Relay{
		matcher:  matcher,
		sessions: sessions,
		llm:      completer,
		record:   recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle processes one user message and returns the reply to send. All
// failures come back as wrapped errors; the HTTP layer maps them to
// user-safe apology bodies.
//
// An FAQ hit deliberately does not touch the session: canned answers never
// enter history, so the model has no memory of them on a later miss. Canned
// traffic stays free of session state.
func (r *Relay) Handle(ctx context.Context, message, sessionID string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" || utf8.RuneCountInString(message) > maxMessageChars {
		return "", ErrInvalidInput
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	// Lazy eviction before any session work.
	if err := r.sessions.Sweep(ctx, r.now()); err != nil {
		r.logger.Warn("session sweep failed", zap.Error(err))
	}

	log := r.logger.With(zap.String("session_id", sessionID))

	normalized := strings.ToLower(trimmed)
	if answer, ok := r.matcher.Match(normalized); ok {
		reply := BrandPrefix + answer
		log.Info("faq hit", zap.String("message", trimmed))
		r.record.Record(sessionID, trimmed, reply)
		return reply, nil
	}

	sess, err := r.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		r.record.Record(sessionID, trimmed, "session store error: "+err.Error())
		return "", fmt.Errorf("load session: %w", err)
	}

	userTurn := models.Turn{Role: models.RoleUser, Content: trimmed}
	history := append(sess.Turns, userTurn)

	// No per-session lock is held across this call: two in-flight requests
	// for the same session can both read the pre-call history and append
	// afterwards. Known limitation.
	raw, err := r.llm.Complete(ctx, history)
	if err != nil {
		log.Error("completion failed", zap.Error(err))
		r.record.Record(sessionID, trimmed, "completion error: "+err.Error())
		return "", fmt.Errorf("complete: %w", err)
	}

	reply := BrandPrefix + vetReply(raw)

	if err := r.sessions.AppendAndTrim(ctx, sessionID, userTurn,
		models.Turn{Role: models.RoleAssistant, Content: reply}); err != nil {
		// The reply is already in hand; losing the history update is worth a
		// warning, not a failed response.
		log.Warn("failed to persist session turns", zap.Error(err))
	}

	log.Info("model reply sent", zap.Int("reply_chars", utf8.RuneCountInString(reply)))
	r.record.Record(sessionID, trimmed, reply)
	return reply, nil
}

// ClearSession drops the session's history on explicit client request.
func (r *Relay) ClearSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	if err := r.sessions.Clear(ctx, sessionID); err != nil {
		return "", fmt.Errorf("clear session: %w", err)
	}
	r.logger.Info("session cleared", zap.String("session_id", sessionID))
	return clearConfirmation, nil
}

// vetReply substitutes the escalation message when the model hedges or
// rambles past the reply cap.
func vetReply(raw string) string {
	lower := strings.ToLower(raw)
	for _, phrase := range hedgePhrases {
		if strings.Contains(lower, phrase) {
			return escalationReply
		}
	}
	if utf8.RuneCountInString(raw) > maxReplyChars {
		return escalationReply
	}
	return raw
}
