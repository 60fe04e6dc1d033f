package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/shopping-list/internal/cfg"
	v1Http "github.com/DRSN-tech/shopping-list/internal/delivery/v1/http"
	"github.com/DRSN-tech/shopping-list/internal/domain"
	"github.com/DRSN-tech/shopping-list/internal/infrastructure"
	"github.com/DRSN-tech/shopping-list/internal/infrastructure/kafka"
	redisInfra "github.com/DRSN-tech/shopping-list/internal/infrastructure/redis"
	"github.com/DRSN-tech/shopping-list/internal/repository/memory"
	"github.com/DRSN-tech/shopping-list/internal/usecase"
	"github.com/DRSN-tech/shopping-list/pkg/clients"
	"github.com/DRSN-tech/shopping-list/pkg/closer"
	"github.com/DRSN-tech/shopping-list/pkg/e"
	"github.com/DRSN-tech/shopping-list/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"golang.org/x/sync/errgroup"
)

// App собирает зависимости и управляет жизненным циклом сервиса.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(0)

	notifiers, err := initNotifiers(cfg, log, cl)
	if err != nil {
		_ = cl.Close(context.Background())
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Закрывается первым (LIFO): очередь дописывается, пока Kafka и Redis ещё открыты
	dispatcher := infrastructure.NewDispatcher(notifiers, cfg.App.NotifyQueueSize, cfg.App.NotifyTimeout, log)
	cl.Add(dispatcher.Close)

	productRepo := memory.NewProductRepo()
	listUC := usecase.NewShoppingListUC(
		productRepo,
		domain.DefaultReferenceData(),
		dispatcher,
		log,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log, cfg.App.Locale)
	router.Init(listUC)

	return &App{
		cfg:     cfg,
		logger:  log,
		closer:  cl,
		httpSrv: v1Http.NewServer(r, cfg.Http),
	}, nil
}

// Run запускает HTTP-сервер и ждёт сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpSrv.Listen(); err != nil {
		a.logger.Errorf(err, "HTTP server failed to listen")
		_ = a.closer.Close(context.Background())
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Infof("HTTP server started on %s", a.httpSrv.Addr())
		if err := a.httpSrv.Serve(); err != nil {
			a.logger.Errorf(err, "HTTP server failed")
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Infof("Stopping gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
		defer cancel()

		if err := a.httpSrv.Stop(shutdownCtx); err != nil {
			a.logger.Errorf(err, "HTTP server shutdown error")
		} else {
			a.logger.Infof("HTTP server stopped")
		}

		return a.closer.Close(shutdownCtx)
	})

	err := g.Wait()
	if err != nil {
		a.logger.Errorf(err, "application stopped with error")
		return err
	}

	a.logger.Infof("Application shutdown complete")
	return nil
}

// initNotifiers поднимает получателей событий, которые включены в конфигурации.
func initNotifiers(cfg *config.Config, log logger.Logger, cl *closer.Closer) (*infrastructure.Fanout, error) {
	var notifiers []usecase.ChangeNotifier

	if cfg.Redis != nil {
		redisClient := clients.NewRedisClient(cfg.Redis)

		redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer redisCancel()
		if err := redisClient.Ping(redisCtx); err != nil {
			log.Errorf(err, "failed to connect to redis")
			_ = redisClient.Close(context.Background())
			return nil, err
		}

		cl.Add(redisClient.Close)
		notifiers = append(notifiers, redisInfra.NewNotifier(redisClient, cfg.Redis, log))
		log.Infof("Redis notifier enabled, channel %s", cfg.Redis.Channel)
	}

	if cfg.Kafka != nil {
		producer := kafka.NewProducer(log, cfg.Kafka)
		cl.Add(producer.Close)
		notifiers = append(notifiers, producer)
		log.Infof("Kafka notifier enabled, topic %s", cfg.Kafka.Topic)
	}

	return infrastructure.NewFanout(notifiers...), nil
}
