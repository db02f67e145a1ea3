package notifier

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
)

// LedgerReader answers the operator's /balance and /audit commands
type LedgerReader interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	Audit(ctx context.Context, userID string) (*entity.LedgerAudit, error)
}

// Telegram sends operator notifications to an admin chat and answers bot commands
type Telegram struct {
	bot          *tgbotapi.BotAPI
	adminChatID  int64
	ledger       LedgerReader
	timeProvider core.TimeProvider
	logger       core.Logger

	startedAt time.Time
	wg        sync.WaitGroup
	stopOnce  sync.Once
	stop      chan struct{}
}

// NewTelegram connects the bot (one getMe call) and returns the notifier
func NewTelegram(token string, adminChatID int64, ledger LedgerReader, timeProvider core.TimeProvider, logger core.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init failed: %w", err)
	}
	return NewTelegramWithBot(bot, adminChatID, ledger, timeProvider, logger), nil
}

// NewTelegramWithBot wraps an existing bot client
func NewTelegramWithBot(bot *tgbotapi.BotAPI, adminChatID int64, ledger LedgerReader, timeProvider core.TimeProvider, logger core.Logger) *Telegram {
	return &Telegram{
		bot:          bot,
		adminChatID:  adminChatID,
		ledger:       ledger,
		timeProvider: timeProvider,
		logger:       logger,
		startedAt:    timeProvider.Now(),
		stop:         make(chan struct{}),
	}
}

// NotifyUser is a no-op: users have no linked chat
func (t *Telegram) NotifyUser(context.Context, string, string, string, entity.Severity) {}

// NotifyOperator sends an HTML message to the admin chat
func (t *Telegram) NotifyOperator(_ context.Context, message string) {
	msg := tgbotapi.NewMessage(t.adminChatID, message)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error("Error sending Telegram notification", map[string]any{
			"chatId": t.adminChatID,
			"error":  err.Error(),
		})
	}
}

// Start polls for bot commands until Stop is called or ctx ends
func (t *Telegram) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.bot.GetUpdatesChan(u)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.stop:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message == nil || !update.Message.IsCommand() {
					continue
				}
				if text, ok := t.reply(ctx, update.Message); ok {
					resp := tgbotapi.NewMessage(update.Message.Chat.ID, text)
					resp.ParseMode = tgbotapi.ModeHTML
					if _, err := t.bot.Send(resp); err != nil {
						t.logger.Warn("Error answering Telegram command", map[string]any{"error": err.Error()})
					}
				}
			}
		}
	}()
	t.logger.Info("Telegram bot started", map[string]any{"bot": t.bot.Self.UserName})
}

// Stop ends polling and waits for the command loop to exit
func (t *Telegram) Stop() {
	t.stopOnce.Do(func() {
		t.bot.StopReceivingUpdates()
		close(t.stop)
	})
	t.wg.Wait()
}

// reply builds the answer to a command. Admin commands from other chats are ignored.
func (t *Telegram) reply(ctx context.Context, msg *tgbotapi.Message) (string, bool) {
	isAdmin := msg.Chat != nil && msg.Chat.ID == t.adminChatID

	switch msg.Command() {
	case "start", "help":
		return "Marketplace ledger bot.\n/status - server condition\n/balance &lt;userId&gt;\n/audit &lt;userId&gt;", true
	case "status":
		if !isAdmin {
			return "", false
		}
		return t.systemStats(), true
	case "balance":
		if !isAdmin {
			return "", false
		}
		userID := strings.TrimSpace(msg.CommandArguments())
		if userID == "" {
			return "Format: /balance &lt;userId&gt;", true
		}
		balance, err := t.ledger.GetBalance(ctx, userID)
		if err != nil {
			return "❌ " + err.Error(), true
		}
		return fmt.Sprintf("💰 Saldo %s: %s", userID, entity.FormatRupiah(balance)), true
	case "audit":
		if !isAdmin {
			return "", false
		}
		userID := strings.TrimSpace(msg.CommandArguments())
		if userID == "" {
			return "Format: /audit &lt;userId&gt;", true
		}
		audit, err := t.ledger.Audit(ctx, userID)
		if err != nil {
			return "❌ " + err.Error(), true
		}
		mark := "✅"
		if !audit.Consistent {
			mark = "⚠️"
		}
		return fmt.Sprintf("%s <b>Audit %s</b>\nSaldo: %s\nLedger: %s",
			mark, userID, entity.FormatRupiah(audit.Balance), entity.FormatRupiah(audit.LedgerSum)), true
	default:
		return "", false
	}
}

func (t *Telegram) systemStats() string {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	uptime := t.timeProvider.Since(t.startedAt).Std()

	return fmt.Sprintf("<b>📊 System Status</b>\n🖥 CPU Cores: %d\n🧵 Goroutines: %d\n💾 Heap: %dMB / %dMB\n⏱ Uptime: %dh %dm",
		runtime.NumCPU(),
		runtime.NumGoroutine(),
		mem.HeapAlloc/1024/1024,
		mem.Sys/1024/1024,
		int(uptime.Hours()),
		int(uptime.Minutes())%60,
	)
}

var _ gateway.Notifier = (*Telegram)(nil)
