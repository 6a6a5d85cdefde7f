package state

import (
	"impostor-party-be/internal/config"
	"impostor-party-be/internal/service"
)

type AppState struct {
	Cfg     *config.AppConfig
	RoomSvc *service.RoomService
}

func NewAppState(
	cfg *config.AppConfig,
	roomSvc *service.RoomService,
) *AppState {
	return &AppState{
		Cfg:     cfg,
		RoomSvc: roomSvc,
	}
}
