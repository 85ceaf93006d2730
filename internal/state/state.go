package state

import (
	"championship-be/internal/config"
	"championship-be/internal/service"
)

type AppState struct {
	Cfg      *config.AppConfig
	ChampSvc *service.ChampionshipService
}

func NewAppState(
	cfg *config.AppConfig,
	champSvc *service.ChampionshipService,
) *AppState {
	return &AppState{
		Cfg:      cfg,
		ChampSvc: champSvc,
	}
}
