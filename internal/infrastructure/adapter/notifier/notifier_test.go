package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/logger"
	timeadapter "github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/time"
	coremocks "github.com/amirhossein-jamali/marketplace-ledger/mocks/port/core"
	gatewaymocks "github.com/amirhossein-jamali/marketplace-ledger/mocks/port/gateway"
	persistencemocks "github.com/amirhossein-jamali/marketplace-ledger/mocks/port/persistence"
)

func TestInbox_NotifyUser(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := coremocks.NewMockTimeProvider(t)
	clock.On("Now").Return(now)

	repo := persistencemocks.NewMockNotificationRepository(t)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.UserID == "u1" && n.Title == "Deposit berhasil" && n.Severity == entity.SeveritySuccess &&
			n.ID != "" && n.CreatedAt.Equal(now) && !n.IsRead
	})).Return(nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(errs.ErrDatabase).Once()

	inbox := NewInbox(repo, clock, logger.NewNoopLogger())
	inbox.NotifyUser(context.Background(), "u1", "Deposit berhasil", "Saldo Rp 50.000 masuk", entity.SeveritySuccess)
	// storage failures are logged, not returned
	inbox.NotifyUser(context.Background(), "u1", "again", "again", entity.SeverityInfo)
	inbox.NotifyOperator(context.Background(), "ignored")
}

func TestMulti(t *testing.T) {
	a := gatewaymocks.NewMockNotifier(t)
	b := gatewaymocks.NewMockNotifier(t)
	for _, n := range []*gatewaymocks.MockNotifier{a, b} {
		n.On("NotifyUser", mock.Anything, "u1", "t", "m", entity.SeverityWarning).Once()
		n.On("NotifyOperator", mock.Anything, "op").Once()
	}

	multi := Multi{a, b}
	multi.NotifyUser(context.Background(), "u1", "t", "m", entity.SeverityWarning)
	multi.NotifyOperator(context.Background(), "op")
}

type recorder struct {
	mu    sync.Mutex
	delay time.Duration
	user  map[string][]string
	ops   []string
}

func newRecorder(delay time.Duration) *recorder {
	return &recorder{delay: delay, user: map[string][]string{}}
}

func (r *recorder) NotifyUser(_ context.Context, userID, _, message string, _ entity.Severity) {
	time.Sleep(r.delay)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user[userID] = append(r.user[userID], message)
}

func (r *recorder) NotifyOperator(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, message)
}

func TestDispatcher_KeepsPerRecipientOrderAndDrains(t *testing.T) {
	rec := newRecorder(time.Millisecond)
	d := NewDispatcher(rec, 4, 64, logger.NewNoopLogger())

	for i := 0; i < 20; i++ {
		for _, u := range []string{"u1", "u2", "u3"} {
			d.NotifyUser(context.Background(), u, "t", fmt.Sprintf("%s-%02d", u, i), entity.SeverityInfo)
		}
	}
	d.NotifyOperator(context.Background(), "op-1")

	require.NoError(t, d.Shutdown(context.Background()))

	for _, u := range []string{"u1", "u2", "u3"} {
		got := rec.user[u]
		require.Len(t, got, 20, u)
		for i, msg := range got {
			assert.Equal(t, fmt.Sprintf("%s-%02d", u, i), msg)
		}
	}
	assert.Equal(t, []string{"op-1"}, rec.ops)
}

func TestDispatcher_DeliveryOutlivesRequestContext(t *testing.T) {
	rec := newRecorder(0)
	d := NewDispatcher(rec, 1, 8, logger.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	d.NotifyOperator(ctx, "after cancel")
	cancel()

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, []string{"after cancel"}, rec.ops)
}

func TestDispatcher_DropsAfterShutdown(t *testing.T) {
	rec := newRecorder(0)
	d := NewDispatcher(rec, 2, 8, logger.NewNoopLogger())
	require.NoError(t, d.Shutdown(context.Background()))
	require.NoError(t, d.Shutdown(context.Background()))

	d.NotifyUser(context.Background(), "u1", "t", "late", entity.SeverityInfo)
	assert.Empty(t, rec.user["u1"])
}

func TestDispatcher_ShutdownTimeout(t *testing.T) {
	rec := newRecorder(200 * time.Millisecond)
	d := NewDispatcher(rec, 1, 8, logger.NewNoopLogger())
	d.NotifyUser(context.Background(), "u1", "t", "slow", entity.SeverityInfo)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Shutdown(ctx), context.DeadlineExceeded)
	require.NoError(t, d.Shutdown(context.Background()))
}

type stubLedger struct{}

func (stubLedger) GetBalance(_ context.Context, userID string) (int64, error) {
	if userID == "ghost" {
		return 0, errs.ErrUserNotFound
	}
	return 28500, nil
}

func (stubLedger) Audit(_ context.Context, userID string) (*entity.LedgerAudit, error) {
	return &entity.LedgerAudit{UserID: userID, Balance: 1000, LedgerSum: 900, Consistent: false}, nil
}

type telegramStub struct {
	mu   sync.Mutex
	sent []map[string]string
	fail bool
}

func (s *telegramStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	switch r.URL.Path {
	case "/bottoken/getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Ledger","username":"ledger_bot"}}`))
	case "/bottoken/sendMessage":
		if s.fail {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
			return
		}
		s.mu.Lock()
		s.sent = append(s.sent, map[string]string{
			"chat_id":    r.PostForm.Get("chat_id"),
			"text":       r.PostForm.Get("text"),
			"parse_mode": r.PostForm.Get("parse_mode"),
		})
		s.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":99,"type":"private"}}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestTelegram(t *testing.T) (*Telegram, *telegramStub) {
	t.Helper()
	stub := &telegramStub{}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	bot, err := tgbotapi.NewBotAPIWithClient("token", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	return NewTelegramWithBot(bot, 99, stubLedger{}, timeadapter.NewRealTimeProvider(), logger.NewNoopLogger()), stub
}

func TestTelegram_NotifyOperator(t *testing.T) {
	tg, stub := newTestTelegram(t)

	tg.NotifyOperator(context.Background(), "<b>Deposit</b> Rp 50.000")
	require.Len(t, stub.sent, 1)
	assert.Equal(t, "99", stub.sent[0]["chat_id"])
	assert.Equal(t, "<b>Deposit</b> Rp 50.000", stub.sent[0]["text"])
	assert.Equal(t, "HTML", stub.sent[0]["parse_mode"])

	stub.fail = true
	tg.NotifyOperator(context.Background(), "dropped")
	assert.Len(t, stub.sent, 1)
}

func command(chatID int64, text string) *tgbotapi.Message {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

func TestTelegram_Reply(t *testing.T) {
	tg, _ := newTestTelegram(t)
	ctx := context.Background()

	text, ok := tg.reply(ctx, command(5, "/start"))
	assert.True(t, ok)
	assert.Contains(t, text, "/status")

	_, ok = tg.reply(ctx, command(5, "/status"))
	assert.False(t, ok, "status is admin only")

	text, ok = tg.reply(ctx, command(99, "/status"))
	assert.True(t, ok)
	assert.Contains(t, text, "Goroutines")

	text, ok = tg.reply(ctx, command(99, "/balance u1"))
	assert.True(t, ok)
	assert.Equal(t, "💰 Saldo u1: Rp 28.500", text)

	text, _ = tg.reply(ctx, command(99, "/balance ghost"))
	assert.Contains(t, text, errs.ErrUserNotFound.Error())

	text, _ = tg.reply(ctx, command(99, "/balance"))
	assert.Contains(t, text, "Format")

	text, ok = tg.reply(ctx, command(99, "/audit u1"))
	assert.True(t, ok)
	assert.Contains(t, text, "⚠️")
	assert.Contains(t, text, "Rp 900")

	_, ok = tg.reply(ctx, command(99, "/unknown"))
	assert.False(t, ok)
}
