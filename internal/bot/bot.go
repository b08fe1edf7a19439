// Package bot runs the Telegram command interface: operators query the
// current opportunity set, switch cycle profiles, and pause data capture from
// chat.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mathiasanobre/bot-telegram/internal/analyzer"
	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

// maxListedOpportunities caps how many entries a single chat message lists.
const maxListedOpportunities = 10

// Engine is the slice of the analyzer the bot drives.
type Engine interface {
	Status() analyzer.Status
	Opportunities() []domain.Opportunity
	ActiveOpportunities(now time.Time, cycleOnly bool) []domain.Opportunity
	CycleOpportunities() []domain.Opportunity
	FindByTeam(terms []string) []domain.Opportunity
	SetProfile(name string) error
	SetCustomProfile(greenTarget, maxRed float64, riskRewardRatio int)
	ActiveProfile() (string, domain.CycleProfile)
	Profiles() map[string]domain.CycleProfile
}

// Capture is the collector surface the bot toggles.
type Capture interface {
	SetCapture(active bool)
	CaptureActive() bool
	UsedToday(ctx context.Context) (int, error)
}

// Bot is the long-polling Telegram command loop. Only updates from the
// configured chat are honored.
type Bot struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	engine  Engine
	capture Capture
	logger  *slog.Logger
}

// Config configures the Bot.
type Config struct {
	Token  string
	ChatID string
}

// New creates a Bot connected to the Telegram API.
func New(cfg Config, engine Engine, capture Capture, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("bot: connect: %w", err)
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bot: invalid chat id %q: %w", cfg.ChatID, err)
	}

	return &Bot{
		api:     api,
		chatID:  chatID,
		engine:  engine,
		capture: capture,
		logger:  logger.With(slog.String("component", "bot")),
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.logger.Info("bot started", slog.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if update.Message.Chat.ID != b.chatID {
				b.logger.Warn("command from unauthorized chat",
					slog.Int64("chat_id", update.Message.Chat.ID),
				)
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.Fields(msg.CommandArguments())

	b.logger.Debug("command received",
		slog.String("command", cmd),
		slog.Int("args", len(args)),
	)

	var reply string
	switch cmd {
	case "start", "help":
		reply = helpText
	case "status":
		reply = b.statusText(ctx)
	case "opportunities":
		reply = b.listText(b.engine.ActiveOpportunities(time.Now().UTC(), false), "No active opportunities.")
	case "cycle":
		reply = b.listText(b.engine.CycleOpportunities(), "No cycle-ready opportunities.")
	case "search":
		if len(args) == 0 {
			reply = "Usage: /search <team>"
		} else {
			reply = b.listText(b.engine.FindByTeam(args), "No opportunities match that team.")
		}
	case "profile":
		reply = b.profileText(args)
	case "custom":
		reply = b.customText(args)
	case "capture":
		reply = b.captureText(args)
	default:
		reply = "Unknown command. Send /help for the command list."
	}

	b.send(reply)
}

func (b *Bot) send(text string) {
	msg := tgbotapi.NewMessage(b.chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send failed", slog.String("error", err.Error()))
	}
}

const helpText = `Commands:
/status - detection summary and request budget
/opportunities - active opportunities
/cycle - cycle-ready opportunities
/search <team> - find opportunities by team name
/profile [name] - show or switch cycle profile
/custom <green> <max_red> [ratio] - set the custom profile
/capture <on|off> - toggle live data capture`

func (b *Bot) statusText(ctx context.Context) string {
	st := b.engine.Status()

	var sb strings.Builder
	sb.WriteString("📊 Status\n")
	fmt.Fprintf(&sb, "Opportunities: %d (%d active, %d cycle, %d arbitrage)\n",
		st.OpportunityCount, st.ActiveCount, st.CycleCount, st.ArbitrageCount)
	fmt.Fprintf(&sb, "Profile: %s\n", st.ActiveProfile)

	if st.LastRun.IsZero() {
		sb.WriteString("Last run: never\n")
	} else {
		fmt.Fprintf(&sb, "Last run: %s\n", st.LastRun.UTC().Format("02/01 15:04:05 UTC"))
	}

	if b.capture.CaptureActive() {
		sb.WriteString("Capture: on")
	} else {
		sb.WriteString("Capture: off")
	}

	if used, err := b.capture.UsedToday(ctx); err == nil {
		fmt.Fprintf(&sb, "\nRequests today: %d", used)
	}
	return sb.String()
}

func (b *Bot) listText(opps []domain.Opportunity, empty string) string {
	if len(opps) == 0 {
		return empty
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d:\n", len(opps))
	for i, opp := range opps {
		if i == maxListedOpportunities {
			fmt.Fprintf(&sb, "... and %d more", len(opps)-maxListedOpportunities)
			break
		}
		fmt.Fprintf(&sb, "\n%d. %s x %s — %s\n", i+1, opp.HomeTeam, opp.AwayTeam, opp.Outcome)
		fmt.Fprintf(&sb, "   Back %.2f / Lay %.2f | diff %.2f%% | %s",
			opp.Back.Price, opp.Lay.Price, opp.DiffPercent, opp.Recommendation.Action)
		if opp.IsArbitrage {
			fmt.Fprintf(&sb, " | 🔥 %.2f%%", opp.ArbitrageMargin)
		}
		if opp.CycleInfo != nil {
			fmt.Fprintf(&sb, " | ♻️ %s stake %.2f", opp.CycleInfo.Side, opp.CycleInfo.Stake)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *Bot) profileText(args []string) string {
	if len(args) == 0 {
		name, profile := b.engine.ActiveProfile()
		var sb strings.Builder
		fmt.Fprintf(&sb, "Active profile: %s (green %.0f%%, max red %.0f%%, ratio 1:%d)\n\nAvailable:",
			name, profile.GreenTarget*100, profile.MaxRed*100, profile.RiskRewardRatio)
		for pname, p := range b.engine.Profiles() {
			fmt.Fprintf(&sb, "\n• %s: green %.0f%%, max red %.0f%%", pname, p.GreenTarget*100, p.MaxRed*100)
		}
		return sb.String()
	}

	name := strings.ToLower(args[0])
	if err := b.engine.SetProfile(name); err != nil {
		return fmt.Sprintf("Unknown profile %q. Send /profile to list the options.", name)
	}
	return fmt.Sprintf("Profile switched to %s. It applies from the next detection run.", name)
}

func (b *Bot) customText(args []string) string {
	if len(args) < 2 {
		return "Usage: /custom <green> <max_red> [ratio], e.g. /custom 0.05 0.15 3"
	}

	green, err1 := strconv.ParseFloat(args[0], 64)
	maxRed, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil || green <= 0 || maxRed <= 0 {
		return "Green and max red must be positive numbers, e.g. /custom 0.05 0.15"
	}

	ratio := 3
	if len(args) >= 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			return "Ratio must be a positive integer."
		}
		ratio = n
	}

	b.engine.SetCustomProfile(green, maxRed, ratio)
	if err := b.engine.SetProfile(domain.ProfileCustom); err != nil {
		return fmt.Sprintf("Custom profile saved but activation failed: %v", err)
	}
	return fmt.Sprintf("Custom profile active: green %.2f%%, max red %.2f%%, ratio 1:%d.",
		green*100, maxRed*100, ratio)
}

func (b *Bot) captureText(args []string) string {
	if len(args) == 0 {
		if b.capture.CaptureActive() {
			return "Capture is on. Send /capture off to pause."
		}
		return "Capture is off. Send /capture on to resume."
	}

	switch strings.ToLower(args[0]) {
	case "on":
		b.capture.SetCapture(true)
		return "Capture resumed."
	case "off":
		b.capture.SetCapture(false)
		return "Capture paused. Cached data keeps serving detection runs."
	default:
		return "Usage: /capture <on|off>"
	}
}
