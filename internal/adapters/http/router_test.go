package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxm-1x/formiqa/internal/adapters/ws"
	"github.com/mxm-1x/formiqa/internal/app"
	"github.com/mxm-1x/formiqa/internal/config"
	"github.com/mxm-1x/formiqa/internal/core"
	"github.com/mxm-1x/formiqa/internal/domain"
	"github.com/mxm-1x/formiqa/internal/realtime"
	"github.com/mxm-1x/formiqa/internal/sentiment"
	"github.com/mxm-1x/formiqa/internal/storage/sqlite"
)

type recordedEvent struct {
	Room  domain.RoomID
	Event core.Event
}

// recorder captures broadcasts instead of fanning them out.
type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) Broadcast(room domain.RoomID, e core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Room: room, Event: e})
}

func (r *recorder) take() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

func setupTest(t *testing.T) (*gin.Engine, *recorder, *sqlite.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rec := &recorder{}
	realtime.Reset()
	realtime.Init(rec)
	t.Cleanup(realtime.Reset)

	cfg := &config.Config{
		Mode:                  "test",
		JWTSecret:             "test-secret",
		CookieSecret:          "test-cookie-secret",
		FeedbackRateLimit:     3,
		FeedbackRateWindowSec: 60,
	}

	hub := app.NewHub()
	wsCtl := ws.NewController(hub,
		app.NewGateway(hub, store.Sessions()),
		app.NewIngest(hub, store.Feedback(), sentiment.Score), 0)

	stores := Stores{
		Sessions:  store.Sessions(),
		Questions: store.Questions(),
		Responses: store.Responses(),
		Feedback:  store.Feedback(),
		Users:     store.Users(),
		Activity:  store.Activity(),
	}
	return SetupRouter(context.Background(), cfg, stores, wsCtl, sentiment.Score), rec, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func signupToken(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    email,
		"name":     "Presenter",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createSession(t *testing.T, r *gin.Engine, token, title string) (id, code string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/sessions", token, gin.H{"title": title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	session := decodeBody(t, w)["session"].(map[string]any)
	return session["id"].(string), session["code"].(string)
}

func eventNames(events []recordedEvent) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Event.Name)
	}
	return names
}

func TestSignupAndLogin(t *testing.T) {
	r, _, _ := setupTest(t)

	token := signupToken(t, r, "alice@example.com")
	assert.NotEmpty(t, token)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    "alice@example.com",
		"name":     "Alice Again",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["token"])
}

func TestSessionLifecycle(t *testing.T) {
	r, _, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/api/sessions", "", gin.H{"title": "No auth"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := signupToken(t, r, "bob@example.com")
	id, code := createSession(t, r, token, "Town hall")
	assert.Len(t, code, domain.SessionCodeLen)

	w = doJSON(t, r, http.MethodGet, "/api/sessions/code/"+code, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := decodeBody(t, w)["session"].(map[string]any)
	assert.Equal(t, id, session["id"])
	assert.Equal(t, "Town hall", session["title"])
	assert.Equal(t, true, session["isActive"])

	w = doJSON(t, r, http.MethodGet, "/api/sessions/code/MISSING1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/sessions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	meta := decodeBody(t, w)["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["total"])

	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/end", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	session = decodeBody(t, w)["session"].(map[string]any)
	assert.Equal(t, false, session["isActive"])
	assert.NotEmpty(t, session["endedAt"])
}

func TestSessionOwnershipEnforced(t *testing.T) {
	r, _, _ := setupTest(t)

	owner := signupToken(t, r, "owner@example.com")
	intruder := signupToken(t, r, "intruder@example.com")
	id, _ := createSession(t, r, owner, "Private standup")

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/end", intruder, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/feedbacks", intruder, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestQuestionLifecycleBroadcasts(t *testing.T) {
	r, rec, _ := setupTest(t)

	token := signupToken(t, r, "carol@example.com")
	id, _ := createSession(t, r, token, "Quiz night")
	room := domain.SessionRoom(domain.SessionID(id))

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/questions", token, gin.H{
		"type":    "mcq",
		"title":   "Favorite color?",
		"options": []string{"red"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, rec.take(), "no broadcast on validation failure")

	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/questions", token, gin.H{
		"type":    "mcq",
		"title":   "Favorite color?",
		"options": []string{"red", "blue"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	qid := decodeBody(t, w)["question"].(map[string]any)["id"].(string)

	events := rec.take()
	require.Equal(t, []string{core.EventNewQuestion}, eventNames(events))
	assert.Equal(t, room, events[0].Room)

	w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/activate", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	events = rec.take()
	require.Equal(t, []string{core.EventQuestionActivated}, eventNames(events))
	assert.Equal(t, room, events[0].Room)
	payload := events[0].Event.Data.(core.QuestionPayload)
	require.NotNil(t, payload.IsActive)
	assert.True(t, *payload.IsActive)

	w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/end", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	events = rec.take()
	require.Equal(t, []string{core.EventQuestionEnded}, eventNames(events))
	assert.Equal(t, domain.QuestionID(qid), events[0].Event.Data.(core.QuestionEndedPayload).QuestionID)
}

func TestResponseSubmitText(t *testing.T) {
	r, rec, _ := setupTest(t)

	token := signupToken(t, r, "dave@example.com")
	id, _ := createSession(t, r, token, "Retro")

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/questions", token, gin.H{
		"type":  "text",
		"title": "How did it go?",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	qid := decodeBody(t, w)["question"].(map[string]any)["id"].(string)
	rec.take()

	// Closed question rejects answers.
	w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/responses", "", gin.H{
		"textAnswer": "great session",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/activate", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec.take()

	w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/responses", "", gin.H{
		"textAnswer": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/responses", "", gin.H{
		"textAnswer": "great session",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	events := rec.take()
	require.Equal(t, []string{core.EventNewResponse}, eventNames(events))
	payload := events[0].Event.Data.(core.ResponsePayload)
	require.NotNil(t, payload.TextAnswer)
	assert.Equal(t, "great session", *payload.TextAnswer)
	require.NotNil(t, payload.SentimentScore)
	assert.Equal(t, sentiment.Score("great session"), *payload.SentimentScore)

	w = doJSON(t, r, http.MethodGet, "/api/questions/"+qid+"/responses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["responses"], 1)
	assert.Nil(t, body["aggregates"], "no aggregates for text questions")
}

func TestResponseSubmitMCQ(t *testing.T) {
	r, rec, _ := setupTest(t)

	token := signupToken(t, r, "erin@example.com")
	id, _ := createSession(t, r, token, "Poll")

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/questions", token, gin.H{
		"type":    "mcq",
		"title":   "Lunch?",
		"options": []string{"pizza", "sushi"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	qid := decodeBody(t, w)["question"].(map[string]any)["id"].(string)

	w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/activate", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec.take()

	w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/responses", "", gin.H{
		"selectedOpt": "ramen",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Options can be picked by label or by index.
	w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/responses", "", gin.H{
		"selectedOpt": "pizza",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/responses", "", gin.H{
		"selectedOpt": "1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	rec.take()

	w = doJSON(t, r, http.MethodGet, "/api/questions/"+qid+"/responses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	aggregates := decodeBody(t, w)["aggregates"].(map[string]any)
	assert.Equal(t, float64(1), aggregates["pizza"])
	assert.Equal(t, float64(1), aggregates["1"])
}

func TestFeedbackSubmit(t *testing.T) {
	r, rec, store := setupTest(t)

	token := signupToken(t, r, "frank@example.com")
	id, code := createSession(t, r, token, "AMA")
	room := domain.SessionRoom(domain.SessionID(id))

	w := doJSON(t, r, http.MethodPost, "/api/feedback/"+code, "", gin.H{"emoji": "👍"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "type is required")

	w = doJSON(t, r, http.MethodPost, "/api/feedback/MISSING1", "", gin.H{"type": "emoji", "emoji": "👍"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/feedback/"+code, "", gin.H{
		"type":    "text",
		"message": "great talk",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	events := rec.take()
	require.Equal(t, []string{core.EventNewFeedback}, eventNames(events))
	assert.Equal(t, room, events[0].Room)
	payload := events[0].Event.Data.(core.FeedbackPayload)
	require.NotNil(t, payload.SentimentScore)
	assert.Equal(t, sentiment.Score("great talk"), *payload.SentimentScore)

	logs, err := store.Activity().ListBySession(context.Background(), domain.SessionID(id))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ActivityFeedback, logs[0].Type)

	// Ended sessions stop accepting feedback.
	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/end", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/feedback/"+code, "", gin.H{"type": "emoji", "emoji": "👍"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalytics(t *testing.T) {
	r, rec, _ := setupTest(t)

	token := signupToken(t, r, "ivan@example.com")
	id, code := createSession(t, r, token, "All hands")

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/questions", token, gin.H{
		"type":    "mcq",
		"title":   "Remote or office?",
		"options": []string{"remote", "office"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	qid := decodeBody(t, w)["question"].(map[string]any)["id"].(string)

	w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/activate", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, opt := range []string{"remote", "remote", "1"} {
		w = doJSON(t, r, http.MethodPost, "/api/questions/"+qid+"/responses", "", gin.H{
			"selectedOpt": opt,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/api/feedback/"+code, "", gin.H{"type": "emoji", "emoji": "🎉"})
	require.Equal(t, http.StatusCreated, w.Code)
	rec.take()

	w = doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/analytics", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)

	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["totalQuestions"])
	assert.Equal(t, float64(3), stats["totalResponses"])
	assert.Equal(t, float64(1), stats["totalFeedbacks"])
	assert.Equal(t, float64(4), stats["totalActivity"])

	questions := body["questions"].([]any)
	require.Len(t, questions, 1)
	breakdown := questions[0].(map[string]any)["optionBreakdown"].([]any)
	require.Len(t, breakdown, 2)
	remote := breakdown[0].(map[string]any)
	assert.Equal(t, "remote", remote["option"])
	assert.Equal(t, float64(2), remote["count"])
	assert.Equal(t, float64(66), remote["percentage"])
	office := breakdown[1].(map[string]any)
	assert.Equal(t, float64(1), office["count"])

	timeline := body["timeline"].([]any)
	require.NotEmpty(t, timeline)
	total := 0.0
	for _, point := range timeline {
		total += point.(map[string]any)["count"].(float64)
	}
	assert.Equal(t, 4.0, total)
}

func TestFeedbackRateLimited(t *testing.T) {
	r, _, _ := setupTest(t)

	token := signupToken(t, r, "grace@example.com")
	_, code := createSession(t, r, token, "Busy session")

	send := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(gin.H{"type": "emoji", "emoji": "👍"})
		req := httptest.NewRequest(http.MethodPost, "/api/feedback/"+code, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: "ct", Value: "same-client"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, send().Code, fmt.Sprintf("request %d inside the window", i+1))
	}
	assert.Equal(t, http.StatusTooManyRequests, send().Code)
}

func TestFeedbackPersistsWhenHubUnavailable(t *testing.T) {
	r, _, store := setupTest(t)

	token := signupToken(t, r, "heidi@example.com")
	id, code := createSession(t, r, token, "Quiet session")

	// Tear the hub down; the write path must still land.
	realtime.Reset()

	w := doJSON(t, r, http.MethodPost, "/api/feedback/"+code, "", gin.H{"type": "emoji", "emoji": "🎉"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	count, err := store.Feedback().CountBySession(context.Background(), domain.SessionID(id))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
