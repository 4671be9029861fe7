package main

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"

	"github.com/granbuda/bingo/go/internal/game/broadcast"
	"github.com/granbuda/bingo/go/internal/game/cards"
	"github.com/granbuda/bingo/go/internal/game/draw"
	"github.com/granbuda/bingo/go/internal/game/gateway"
	"github.com/granbuda/bingo/go/internal/game/orchestrator"
	"github.com/granbuda/bingo/go/internal/game/session"
	"github.com/granbuda/bingo/go/internal/game/timer"
)

type Services struct {
	Registry     *session.Registry
	Orchestrator *orchestrator.Orchestrator
	Drawer       *draw.Scheduler
	Timers       *timer.Coordinator
	Gateway      *gateway.Service
}

func setupServices(config *Config, nc *nats.Conn) *Services {
	clock := clockwork.NewRealClock()
	registry := session.NewRegistry()
	broadcaster := broadcast.NewNATS(nc, config.NATS.SubjectPrefix)
	generator := cards.NewGenerator()

	drawer := draw.NewScheduler(registry, broadcaster, clock,
		time.Duration(config.Game.DrawIntervalSec)*time.Second)
	timers := timer.NewCoordinator(registry, broadcaster, clock,
		config.Game.CountdownSec, config.Game.MinPlayers)
	orch := orchestrator.New(registry, generator, drawer, timers, broadcaster,
		config.Game.MinPlayers)

	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.SubjectPrefix = config.NATS.SubjectPrefix
	gatewayConfig.AuthSecret = config.Auth.Secret
	gw := gateway.NewService(gatewayConfig, nc, orch)

	return &Services{
		Registry:     registry,
		Orchestrator: orch,
		Drawer:       drawer,
		Timers:       timers,
		Gateway:      gw,
	}
}
