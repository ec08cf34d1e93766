package relay_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/santoshk66/maizic-chatbot/internal/chatlog"
	"github.com/santoshk66/maizic-chatbot/internal/faq"
	"github.com/santoshk66/maizic-chatbot/internal/llm"
	"github.com/santoshk66/maizic-chatbot/internal/models"
	"github.com/santoshk66/maizic-chatbot/internal/relay"
	"github.com/santoshk66/maizic-chatbot/internal/session"
)

// fakeCompleter scripts replies and records every history it was handed.
type fakeCompleter struct {
	replies []string
	err     error
	calls   [][]models.Turn
}

func (f *fakeCompleter) Complete(ctx context.Context, turns []models.Turn) (string, error) {
	f.calls = append(f.calls, turns)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "ok", nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func newTestRelay(completer llm.Completer) (*relay.Relay, session.Store) {
	matcher := faq.NewOverlapMatcher([]faq.Entry{
		{Question: "camera is not working", Answer: "restart the camera"},
	})
	store := session.NewMemoryStore(relay.SystemPrompt, time.Hour)
	return relay.New(matcher, store, completer, chatlog.Nop{}, zap.NewNop()), store
}

func TestHandleRejectsEmptyMessage(t *testing.T) {
	r, _ := newTestRelay(&fakeCompleter{})

	_, err := r.Handle(context.Background(), "", "s1")
	assert.ErrorIs(t, err, relay.ErrInvalidInput)

	_, err = r.Handle(context.Background(), "   ", "s1")
	assert.ErrorIs(t, err, relay.ErrInvalidInput)
}

func TestHandleMessageLengthBoundary(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"fine"}}
	r, _ := newTestRelay(fc)

	_, err := r.Handle(context.Background(), strings.Repeat("a", 1000), "s1")
	assert.NoError(t, err, "exactly 1000 characters must be accepted")

	_, err = r.Handle(context.Background(), strings.Repeat("a", 1001), "s1")
	assert.ErrorIs(t, err, relay.ErrInvalidInput, "1001 characters must be rejected")
}

func TestHandleFAQHit(t *testing.T) {
	fc := &fakeCompleter{}
	r, store := newTestRelay(fc)

	reply, err := r.Handle(context.Background(), "My camera is NOT working", "s1")
	require.NoError(t, err)

	assert.Equal(t, relay.BrandPrefix+"restart the camera", reply)
	assert.Empty(t, fc.calls, "FAQ hit must not reach the model")

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "FAQ hit must not create or mutate a session")
}

func TestHandleMissCallsModelWithHistory(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"The projector supports HDMI."}}
	r, _ := newTestRelay(fc)

	reply, err := r.Handle(context.Background(), "does the projector have hdmi", "s1")
	require.NoError(t, err)
	assert.Equal(t, relay.BrandPrefix+"The projector supports HDMI.", reply)

	require.Len(t, fc.calls, 1)
	sent := fc.calls[0]
	require.Len(t, sent, 2)
	assert.Equal(t, models.RoleSystem, sent[0].Role)
	assert.Equal(t, relay.SystemPrompt, sent[0].Content)
	assert.Equal(t, models.RoleUser, sent[1].Role)
	assert.Equal(t, "does the projector have hdmi", sent[1].Content)
}

func TestHandleSessionContinuity(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"first answer", "second answer"}}
	r, _ := newTestRelay(fc)
	ctx := context.Background()

	_, err := r.Handle(ctx, "first question", "s1")
	require.NoError(t, err)
	_, err = r.Handle(ctx, "second question", "s1")
	require.NoError(t, err)

	require.Len(t, fc.calls, 2)
	second := fc.calls[1]
	require.Len(t, second, 4, "second call must carry system, prior user, prior assistant, new user")
	assert.Equal(t, models.RoleSystem, second[0].Role)
	assert.Equal(t, "first question", second[1].Content)
	assert.Equal(t, models.RoleAssistant, second[2].Role)
	assert.Equal(t, relay.BrandPrefix+"first answer", second[2].Content)
	assert.Equal(t, "second question", second[3].Content)
}

func TestHandleTrimsLongSessions(t *testing.T) {
	fc := &fakeCompleter{}
	r, _ := newTestRelay(fc)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := r.Handle(ctx, fmt.Sprintf("question number %d", i), "s1")
		require.NoError(t, err)
	}

	last := fc.calls[len(fc.calls)-1]
	// Stored history is capped at 10; the outbound prompt adds the new user
	// turn on top.
	assert.LessOrEqual(t, len(last), session.MaxTurns+1)
	assert.Equal(t, models.RoleSystem, last[0].Role)
}

func TestHandleSubstitutesHedgedReply(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"I don't know anything about that product."}}
	r, _ := newTestRelay(fc)

	reply, err := r.Handle(context.Background(), "tell me about the moon", "s1")
	require.NoError(t, err)
	assert.Equal(t,
		relay.BrandPrefix+"I'm forwarding this to our technical team and they'll get back to you shortly.",
		reply)
}

func TestHandleSubstitutesOverlongReply(t *testing.T) {
	fc := &fakeCompleter{replies: []string{strings.Repeat("x", 601)}}
	r, _ := newTestRelay(fc)

	reply, err := r.Handle(context.Background(), "explain everything", "s1")
	require.NoError(t, err)
	assert.Equal(t,
		relay.BrandPrefix+"I'm forwarding this to our technical team and they'll get back to you shortly.",
		reply)
}

func TestHandleUpstreamFailure(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("connection refused")}
	r, _ := newTestRelay(fc)

	_, err := r.Handle(context.Background(), "any question", "s1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, relay.ErrInvalidInput)
}

func TestHandleQuotaFailure(t *testing.T) {
	fc := &fakeCompleter{err: fmt.Errorf("%w: 429 from provider", llm.ErrQuotaExceeded)}
	r, _ := newTestRelay(fc)

	_, err := r.Handle(context.Background(), "any question", "s1")
	assert.ErrorIs(t, err, llm.ErrQuotaExceeded)
}

func TestHandleDefaultsSessionID(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"hello", "again"}}
	r, _ := newTestRelay(fc)
	ctx := context.Background()

	_, err := r.Handle(ctx, "first", "")
	require.NoError(t, err)
	_, err = r.Handle(ctx, "second", relay.DefaultSessionID)
	require.NoError(t, err)

	require.Len(t, fc.calls, 2)
	assert.Len(t, fc.calls[1], 4, "empty session id must share the default session")
}

func TestClearSession(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"one", "two"}}
	r, _ := newTestRelay(fc)
	ctx := context.Background()

	_, err := r.Handle(ctx, "first question", "s1")
	require.NoError(t, err)

	confirmation, err := r.ClearSession(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, confirmation)

	_, err = r.Handle(ctx, "second question", "s1")
	require.NoError(t, err)

	second := fc.calls[1]
	require.Len(t, second, 2, "cleared session must start over with system turn plus new user turn")
	assert.Equal(t, models.RoleSystem, second[0].Role)
	assert.Equal(t, "second question", second[1].Content)
}
