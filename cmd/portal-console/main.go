// The portal console runs the client-side orchestration stack: it watches
// the shared session slot in Redis, resolves the signed-in identity and its
// role against the portal API, and keeps the six operational collections
// refreshed until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/orchestrator"
	"github.com/hospitalops/portal-system/internal/infrastructure/auth"
	"github.com/hospitalops/portal-system/internal/infrastructure/client"
	"github.com/hospitalops/portal-system/internal/infrastructure/db/redis"
	"github.com/hospitalops/portal-system/internal/pkg/config"
	"github.com/hospitalops/portal-system/pkg/logger"
)

const refreshInterval = 30 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close error")
		}
	}()

	sessions := redis.NewSessionStore(rdb, cfg.Profile)
	provider := auth.NewProvider(sessions, func(ctx context.Context, email, password string) (string, *domain.User, error) {
		return client.Login(ctx, cfg.PortalURL, email, password)
	}, 24*time.Hour, log)

	portal := client.New(cfg.PortalURL, provider)
	allowlist := orchestrator.ParseAllowlist(cfg.AdminEmails)

	o := orchestrator.New(portal, provider, allowlist, log)
	if err := o.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("orchestrator start failed")
	}
	defer o.Close()

	log.Info().
		Str("portal", cfg.PortalURL).
		Str("profile", cfg.Profile).
		Int("allowlisted", len(allowlist)).
		Msg("portal console running")

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case <-ticker.C:
			snap := o.Snapshot()
			if !snap.SessionPresent() {
				continue
			}
			if err := o.Refresh(ctx); err != nil {
				log.Warn().Err(err).Msg("periodic refresh failed")
				continue
			}
			snap = o.Snapshot()
			log.Debug().
				Str("view", string(snap.View())).
				Int("alerts", len(snap.Alerts)).
				Int("inpatients", len(snap.Inpatients)).
				Msg("collections refreshed")
		}
	}
}
