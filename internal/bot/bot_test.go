package bot

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mathiasanobre/bot-telegram/internal/analyzer"
	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

type fakeEngine struct {
	status        analyzer.Status
	opportunities []domain.Opportunity
	activeProfile string
	profiles      map[string]domain.CycleProfile
	setProfileErr error

	customGreen float64
	customRed   float64
	customRatio int
}

func (f *fakeEngine) Status() analyzer.Status                  { return f.status }
func (f *fakeEngine) Opportunities() []domain.Opportunity      { return f.opportunities }
func (f *fakeEngine) CycleOpportunities() []domain.Opportunity { return f.opportunities }
func (f *fakeEngine) ActiveOpportunities(time.Time, bool) []domain.Opportunity {
	return f.opportunities
}
func (f *fakeEngine) FindByTeam([]string) []domain.Opportunity { return f.opportunities }
func (f *fakeEngine) SetProfile(name string) error {
	if f.setProfileErr != nil {
		return f.setProfileErr
	}
	f.activeProfile = name
	return nil
}
func (f *fakeEngine) SetCustomProfile(green, maxRed float64, ratio int) {
	f.customGreen, f.customRed, f.customRatio = green, maxRed, ratio
}
func (f *fakeEngine) ActiveProfile() (string, domain.CycleProfile) {
	return f.activeProfile, f.profiles[f.activeProfile]
}
func (f *fakeEngine) Profiles() map[string]domain.CycleProfile { return f.profiles }

type fakeCapture struct {
	active bool
	used   int
}

func (f *fakeCapture) SetCapture(active bool) { f.active = active }
func (f *fakeCapture) CaptureActive() bool    { return f.active }
func (f *fakeCapture) UsedToday(context.Context) (int, error) {
	return f.used, nil
}

func newTestBot(engine Engine, capture Capture) *Bot {
	return &Bot{
		engine:  engine,
		capture: capture,
		logger:  slog.New(slog.DiscardHandler),
	}
}

func TestStatusText(t *testing.T) {
	engine := &fakeEngine{status: analyzer.Status{
		OpportunityCount: 4,
		ActiveCount:      3,
		CycleCount:       2,
		ArbitrageCount:   1,
		ActiveProfile:    domain.ProfileDefault,
		LastRun:          time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}}
	capture := &fakeCapture{active: true, used: 7}
	b := newTestBot(engine, capture)

	text := b.statusText(context.Background())

	assert.Contains(t, text, "Opportunities: 4 (3 active, 2 cycle, 1 arbitrage)")
	assert.Contains(t, text, "Profile: default")
	assert.Contains(t, text, "Last run: 30/08 12:00:00 UTC")
	assert.Contains(t, text, "Capture: on")
	assert.Contains(t, text, "Requests today: 7")
}

func TestListTextEmptyAndTruncated(t *testing.T) {
	b := newTestBot(&fakeEngine{}, &fakeCapture{})

	assert.Equal(t, "nothing here", b.listText(nil, "nothing here"))

	opps := make([]domain.Opportunity, maxListedOpportunities+5)
	for i := range opps {
		opps[i] = domain.Opportunity{HomeTeam: "A", AwayTeam: "B", Outcome: "A"}
	}
	text := b.listText(opps, "")
	assert.Contains(t, text, "Found 15:")
	assert.Contains(t, text, "... and 5 more")
}

// DiffPercent arrives percentage-scaled from the analyzer and is printed
// without rescaling.
func TestListTextRendersStoredDifference(t *testing.T) {
	b := newTestBot(&fakeEngine{}, &fakeCapture{})

	opps := []domain.Opportunity{{
		HomeTeam:    "Flamengo",
		AwayTeam:    "Vasco",
		Outcome:     "Flamengo",
		Back:        domain.PricePoint{Provider: "pinnacle", Price: 2.20},
		Lay:         domain.PricePoint{Provider: "betfair", Price: 2.50},
		DiffPercent: 13.64,
		Recommendation: domain.Recommendation{
			Action: domain.ActionBackAndLay,
		},
	}}

	text := b.listText(opps, "")
	assert.Contains(t, text, "Back 2.20 / Lay 2.50 | diff 13.64%")
	assert.NotContains(t, text, "1364.00%")
}

func TestProfileTextSwitch(t *testing.T) {
	engine := &fakeEngine{
		activeProfile: domain.ProfileDefault,
		profiles:      domain.BuiltinProfiles(),
	}
	b := newTestBot(engine, &fakeCapture{})

	text := b.profileText([]string{"aggressive"})
	assert.Contains(t, text, "switched to aggressive")
	assert.Equal(t, "aggressive", engine.activeProfile)

	engine.setProfileErr = domain.ErrUnknownProfile
	text = b.profileText([]string{"bogus"})
	assert.Contains(t, text, `Unknown profile "bogus"`)
}

func TestCustomTextValidation(t *testing.T) {
	engine := &fakeEngine{profiles: domain.BuiltinProfiles()}
	b := newTestBot(engine, &fakeCapture{})

	assert.Contains(t, b.customText(nil), "Usage:")
	assert.Contains(t, b.customText([]string{"-1", "0.15"}), "positive")

	text := b.customText([]string{"0.05", "0.15", "4"})
	assert.Contains(t, text, "Custom profile active")
	assert.Equal(t, 0.05, engine.customGreen)
	assert.Equal(t, 0.15, engine.customRed)
	assert.Equal(t, 4, engine.customRatio)
	assert.Equal(t, domain.ProfileCustom, engine.activeProfile)
}

func TestCaptureText(t *testing.T) {
	capture := &fakeCapture{active: true}
	b := newTestBot(&fakeEngine{}, capture)

	assert.Contains(t, b.captureText([]string{"off"}), "paused")
	assert.False(t, capture.active)

	assert.Contains(t, b.captureText([]string{"on"}), "resumed")
	assert.True(t, capture.active)

	assert.Contains(t, b.captureText(nil), "Capture is on")
	assert.Contains(t, b.captureText([]string{"maybe"}), "Usage:")
}
