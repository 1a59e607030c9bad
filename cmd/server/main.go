package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/quorumgate/quorumgate/internal/api/http"
	appAudit "github.com/quorumgate/quorumgate/internal/application/audit"
	appConsensus "github.com/quorumgate/quorumgate/internal/application/consensus"
	appRegistry "github.com/quorumgate/quorumgate/internal/application/registry"
	appReputation "github.com/quorumgate/quorumgate/internal/application/reputation"
	appRevocation "github.com/quorumgate/quorumgate/internal/application/revocation"
	appSecrets "github.com/quorumgate/quorumgate/internal/application/secrets"
	"github.com/quorumgate/quorumgate/internal/config"
	domainRevocation "github.com/quorumgate/quorumgate/internal/domain/revocation"
	"github.com/quorumgate/quorumgate/internal/infrastructure/keystore"
	"github.com/quorumgate/quorumgate/internal/infrastructure/memstore"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()

	// stores
	participantRepo := memstore.NewParticipantRepository()
	decisionLog := memstore.NewDecisionLog()
	auditTrail := memstore.NewAuditTrail()
	machine := domainRevocation.NewMachine()

	keyStore, err := keystore.NewFromEnv()
	if err != nil {
		log.Fatalf("keystore error: %v", err)
	}
	keyID, signingKey, err := keyStore.ActiveKey(ctx)
	if err != nil {
		log.Fatalf("keystore error: %v", err)
	}

	// services
	auditSvc := appAudit.NewService(auditTrail, keyID, signingKey, logger)
	registrySvc := appRegistry.NewService(participantRepo, auditSvc, cfg.LivenessWindow, logger)
	tracker := appReputation.NewTracker(participantRepo, cfg.ReputationReward, cfg.ReputationPenalty, cfg.ReputationFloor, logger)
	coordinator := appConsensus.NewCoordinator(registrySvc, tracker, machine, decisionLog, auditSvc, appConsensus.Options{
		Thresholds: cfg.Thresholds,
		Weighted:   cfg.WeightedVoting,
		VoteWindow: cfg.VoteWindow,
	}, logger)
	revocationSvc := appRevocation.NewService(machine, coordinator, registrySvc, cfg.DeadManWindow, logger)
	secretsSvc := appSecrets.NewService(logger)

	apiServer := httpapi.NewServer(coordinator, registrySvc, secretsSvc, revocationSvc, auditSvc)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// background loops
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go revocationSvc.Run(sweepCtx, time.Minute)

	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stopSweep()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
