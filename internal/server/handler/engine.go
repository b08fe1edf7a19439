package handler

import (
	"time"

	"github.com/mathiasanobre/bot-telegram/internal/analyzer"
	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

// Engine is the analyzer surface the HTTP handlers read from and configure.
type Engine interface {
	Status() analyzer.Status
	Opportunities() []domain.Opportunity
	ActiveOpportunities(now time.Time, cycleOnly bool) []domain.Opportunity
	CycleOpportunities() []domain.Opportunity
	FindByTeam(terms []string) []domain.Opportunity
	GetByEvent(eventID string) (domain.Opportunity, error)
	SetProfile(name string) error
	SetCustomProfile(greenTarget, maxRed float64, riskRewardRatio int)
	ActiveProfile() (string, domain.CycleProfile)
	Profiles() map[string]domain.CycleProfile
}
