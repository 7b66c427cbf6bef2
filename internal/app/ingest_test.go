package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
)

type fakeFeedbackStore struct {
	created []*domain.Feedback
	err     error
}

func (f *fakeFeedbackStore) Create(ctx context.Context, fb *domain.Feedback) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, fb)
	return nil
}

func (f *fakeFeedbackStore) ListBySession(ctx context.Context, session domain.SessionID, page, pageSize int) ([]domain.Feedback, int, error) {
	return nil, 0, nil
}

func (f *fakeFeedbackStore) CountBySession(ctx context.Context, session domain.SessionID) (int, error) {
	return len(f.created), nil
}

func staticScore(v int) ScoreFunc {
	return func(string) int { return v }
}

func joinedIngest(t *testing.T, store *fakeFeedbackStore) (*Ingest, *Hub, *fakeConn, *fakeConn) {
	t.Helper()
	hub := NewHub()
	sender := newFakeConn("sender")
	other := newFakeConn("other")
	hub.Connect(sender)
	hub.Connect(other)
	hub.Join(sender.ID(), roomA, "s1", "CODE")
	hub.Join(other.ID(), roomA, "s1", "CODE")
	sender.take()
	other.take()
	return NewIngest(hub, store, staticScore(2)), hub, sender, other
}

func TestSubmitRequiresJoin(t *testing.T) {
	store := &fakeFeedbackStore{}
	hub := NewHub()
	conn := newFakeConn("a")
	hub.Connect(conn)
	in := NewIngest(hub, store, staticScore(2))

	in.Submit(context.Background(), conn, SubmitFeedback{Type: "emoji", Emoji: "👍"})

	assert.Equal(t, []string{MsgJoinFirst}, errorMessages(conn.take()))
	assert.Empty(t, store.created, "no persistence call for unjoined connection")
}

func TestSubmitRequiresType(t *testing.T) {
	store := &fakeFeedbackStore{}
	in, _, sender, other := joinedIngest(t, store)

	in.Submit(context.Background(), sender, SubmitFeedback{Message: "nice"})

	assert.Equal(t, []string{MsgTypeRequired}, errorMessages(sender.take()))
	assert.Empty(t, other.take())
	assert.Empty(t, store.created)
}

func TestSubmitWithMessageScoresAndBroadcasts(t *testing.T) {
	store := &fakeFeedbackStore{}
	in, _, sender, other := joinedIngest(t, store)

	in.Submit(context.Background(), sender, SubmitFeedback{Type: "text", Message: "great talk"})

	require.Len(t, store.created, 1)
	fb := store.created[0]
	assert.Equal(t, domain.SessionID("s1"), fb.SessionID)
	require.NotNil(t, fb.SentimentScore)
	assert.Equal(t, 2, *fb.SentimentScore)
	require.NotNil(t, fb.Message)
	assert.Equal(t, "great talk", *fb.Message)

	// The room (sender included) gets new-feedback; only the sender gets
	// the ack, strictly after the broadcast.
	senderEvents := sender.take()
	require.Len(t, senderEvents, 2)
	assert.Equal(t, core.EventNewFeedback, senderEvents[0].Name)
	assert.Equal(t, core.EventFeedbackSubmitted, senderEvents[1].Name)
	ack := senderEvents[1].Data.(core.FeedbackAckPayload)
	assert.True(t, ack.Success)
	assert.Equal(t, fb.ID, ack.FeedbackID)

	otherEvents := other.take()
	require.Len(t, otherEvents, 1)
	assert.Equal(t, core.EventNewFeedback, otherEvents[0].Name)
}

func TestSubmitEmojiOnlyHasNilScore(t *testing.T) {
	store := &fakeFeedbackStore{}
	in, _, sender, _ := joinedIngest(t, store)

	in.Submit(context.Background(), sender, SubmitFeedback{Type: "emoji", Emoji: "👍"})

	require.Len(t, store.created, 1)
	fb := store.created[0]
	assert.Nil(t, fb.SentimentScore)
	assert.Nil(t, fb.Message)
	require.NotNil(t, fb.Emoji)
	assert.Equal(t, "👍", *fb.Emoji)
}

func TestSubmitPersistenceFailureSkipsBroadcast(t *testing.T) {
	store := &fakeFeedbackStore{err: errors.New("db down")}
	in, _, sender, other := joinedIngest(t, store)

	in.Submit(context.Background(), sender, SubmitFeedback{Type: "emoji", Emoji: "👍"})

	assert.Equal(t, []string{MsgFeedbackFailed}, errorMessages(sender.take()))
	assert.Empty(t, other.take(), "broadcast skipped when persistence fails")
}

func TestScoreOptional(t *testing.T) {
	score := func(string) int { return -3 }
	assert.Nil(t, ScoreOptional(score, ""))
	got := ScoreOptional(score, "bad")
	require.NotNil(t, got)
	assert.Equal(t, -3, *got)
}
