package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"psibooking/config"
	"psibooking/cron"
	"psibooking/database"
	"psibooking/database/repository"
	"psibooking/handlers"
	"psibooking/middleware"
	"psibooking/routes"
	"psibooking/services/booking"
	"psibooking/services/events"
	"psibooking/services/search"
	"psibooking/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer utils.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database.InitDB()
	utils.InitCache()

	// repositories.
	slotStore := repository.NewMongoSlotRepo()
	sessionStore := repository.NewMongoSessionRepo()
	psychologistStore := repository.NewMongoPsychologistRepo()
	replicaStore := repository.NewMongoReplicaRepo()
	for _, store := range []repository.Indexed{slotStore, sessionStore, psychologistStore, replicaStore} {
		if err := store.EnsureIndexes(ctx); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.Error(err))
		}
	}

	publisher, closePublisher, err := newPublisher()
	if err != nil {
		logger.Fatal("main: failed to initialize event publisher", zap.Error(err))
	}
	defer closePublisher()
	emitter := events.NewEmitter(publisher, config.PublishTimeout(), logger.Named("events"))

	// services.
	bookingService := &booking.DefaultBookingService{
		Slots:          slotStore,
		Sessions:       sessionStore,
		Psychologists:  psychologistStore,
		Keys:           &booking.RedisKeyIndex{Client: utils.GetCacheClient(), TTL: config.IdempotencyTTL()},
		Emitter:        emitter,
		Logger:         logger.Named("booking"),
		InFlightWindow: 3 * config.StoreTimeout(),
	}
	queryService := &search.QueryService{Replica: replicaStore}
	reconciler := search.NewReconciler(replicaStore, logger.Named("reconciler"))

	bookingHandler := handlers.NewBookingHandler(bookingService)
	searchHandler := handlers.NewSearchHandler(queryService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		BookSession:       bookingHandler.BookSession,
		GetSession:        bookingHandler.GetSession,
		CancelSession:     bookingHandler.CancelSession,
		ConfirmSession:    bookingHandler.ConfirmSession,
		RescheduleSession: bookingHandler.RescheduleSession,

		ListThemes:           bookingHandler.ListThemes,
		PsychologistsByTheme: bookingHandler.PsychologistsByTheme,
		WeeklyAvailability:   bookingHandler.WeeklyAvailability,

		SearchPsychologists:    searchHandler.SearchPsychologists,
		GetIndexedPsychologist: searchHandler.GetIndexedPsychologist,
		IndexedAvailability:    searchHandler.IndexedAvailability,

		Health: handlers.NewHealthHandler(emitter.Stats),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle, routes.Surfaces{
		Booking: config.AppConfig.RunBookingAPI,
		Search:  config.AppConfig.RunSearchAPI,
	})

	utils.StartHealthMonitor(ctx, []*redis.Client{utils.GetCacheClient()}, database.MongoClient, 30*time.Second)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Sugar().Infof("Starting server on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("main: server is shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if config.AppConfig.RunEventWorker {
		g.Go(func() error {
			return cron.RunEventWorker(gctx, reconciler.Handle, logger.Named("worker"))
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("main: stopped with error", zap.Error(err))
	}

	disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Disconnect(disconnectCtx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}
	logger.Info("main: stopped gracefully", zap.Any("events", emitter.Stats()))
}

// newPublisher connects the event transport selected by EVENT_TRANSPORT.
func newPublisher() (events.Publisher, func(), error) {
	switch config.AppConfig.EventTransport {
	case "amqp":
		pub, err := events.NewAMQPPublisher(config.AppConfig.AMQPURL, config.AppConfig.AMQPExchange)
		if err != nil {
			return nil, nil, err
		}
		return pub, pub.Close, nil
	case "", "asynq":
		pub := events.NewAsynqPublisher(cron.EventQueueRedisOpt(), config.AppConfig.EventQueue, config.AppConfig.EventMaxRetry)
		return pub, func() { _ = pub.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown event transport %q", config.AppConfig.EventTransport)
	}
}
