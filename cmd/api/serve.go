package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	v1 "talent-marketplace-backend/internal/delivery/http/v1"
	"talent-marketplace-backend/internal/notification"
	"talent-marketplace-backend/internal/repository/postgres"
	"talent-marketplace-backend/internal/usecase"
	"talent-marketplace-backend/pkg/auth"
	"talent-marketplace-backend/pkg/kafka"
	"talent-marketplace-backend/pkg/validation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the mail retry dispatcher",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, log := a.cfg, a.log

	log.Info("starting marketplace backend", zap.String("port", cfg.Port))

	profileRepo := postgres.NewProfileRepository(a.db)
	serviceRepo := postgres.NewServiceRepository(a.db)
	candidateRepo := postgres.NewCandidateRepository(a.db)
	reviewRepo := postgres.NewReviewRepository(a.db)
	notificationRepo := postgres.NewNotificationRepository(a.db)
	txManager := postgres.NewTxManager(a.db)

	var publisher notification.Publisher
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer := kafka.NewProducer(brokers, cfg.KafkaNotificationsTopic)
		defer producer.Close()
		publisher = producer
	}
	notifier := notification.NewNotifier(notificationRepo, a.mails, profileRepo, publisher, notification.Options{
		MailEnabled: cfg.MailSendEnabled,
		MailSubject: cfg.MailSubject,
	}, log)

	validate := validation.New()
	matchingUC := usecase.NewMatchingUsecase(serviceRepo, candidateRepo, profileRepo, cfg.SuggestionLimit)
	engagementUC := usecase.NewEngagementUsecase(txManager, serviceRepo, candidateRepo, profileRepo, matchingUC, notifier, validate, log)
	reviewUC := usecase.NewReviewUsecase(txManager, reviewRepo, serviceRepo, candidateRepo, profileRepo, validate)
	profileUC := usecase.NewProfileUsecase(profileRepo, reviewRepo, validate)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, validate)

	var jwks *auth.Provider
	if cfg.JWKSURL != "" {
		jwks = auth.NewProvider(cfg.JWKSURL)
	}

	router := v1.NewRouter(v1.RouterDeps{
		EngagementUC:   engagementUC,
		MatchingUC:     matchingUC,
		ReviewUC:       reviewUC,
		ProfileUC:      profileUC,
		NotificationUC: notificationUC,
		Tokens:         auth.NewVerifier(cfg.JWTSecret, jwks),
		FrontendURL:    cfg.FrontendURL,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return a.dispatcher.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("server exiting")
	return nil
}
