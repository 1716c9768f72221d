package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-lending/lending/config"
	"github.com/Astemirdum/library-lending/lending/internal/handler"
	"github.com/Astemirdum/library-lending/lending/internal/queue"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
	"github.com/Astemirdum/library-lending/lending/internal/repository/mongostore"
	"github.com/Astemirdum/library-lending/lending/internal/repository/pgstore"
	"github.com/Astemirdum/library-lending/lending/internal/server"
	"github.com/Astemirdum/library-lending/lending/internal/service"
	"github.com/Astemirdum/library-lending/lending/migrations"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/Astemirdum/library-lending/pkg/kafka"
	"github.com/Astemirdum/library-lending/pkg/logger"
	"github.com/Astemirdum/library-lending/pkg/mongodb"
	"github.com/Astemirdum/library-lending/pkg/postgres"
	"github.com/Astemirdum/library-lending/pkg/storage"
)

// closer is run on shutdown in reverse order of registration.
type closer func(ctx context.Context) error

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "lending")
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err), zap.String("env", cfg.AppEnv))
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var closers []closer

	repo, closeRepo, err := newRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal("repository init", zap.Error(err), zap.String("driver", cfg.StorageDriver))
	}
	closers = append(closers, closeRepo)

	manager := auth.NewManager(cfg.Auth)
	opts := []service.Option{service.WithTokenIssuer(manager)}

	if cfg.S3.Enabled() {
		covers, err := storage.NewS3(ctx, cfg.S3)
		if err != nil {
			log.Fatal("storage.NewS3", zap.Error(err))
		}
		opts = append(opts, service.WithCoverStorage(covers))
	} else {
		log.Warn("S3 is not configured, cover upload disabled")
	}

	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		enqueuer := queue.NewEnqueuer(producer, kafka.LoanTopic)
		closers = append(closers, func(context.Context) error { return enqueuer.Close() })
		opts = append(opts, service.WithPublisher(enqueuer))
	} else {
		log.Info("kafka is not configured, events are stored in-process")
		opts = append(opts, service.WithPublisher(queue.NewRecorder(repo)))
	}

	svc := service.NewService(repo, log, opts...)

	g, gCtx := errgroup.WithContext(ctx)
	if cfg.Kafka.Enabled() {
		group, err := kafka.NewConsumer(cfg.Kafka, kafka.AuditConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		closers = append(closers, func(context.Context) error { return group.Close() })
		consumer := handler.NewConsumer(svc.RecordEvent, log)
		g.Go(func() error {
			return kafka.Consume(gCtx, group, consumer, kafka.LoanTopic)
		})
	}

	h := handler.New(svc, svc, svc, manager, log, handler.WithProduction(cfg.Production()))
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		zap.String("storage", cfg.StorageDriver))
	g.Go(func() error {
		return srv.Run()
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case termSig := <-sig:
		log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	case <-gCtx.Done():
		log.Error("background task stopped", zap.Error(context.Cause(gCtx)))
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	cancel()
	if err := g.Wait(); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](closeCtx); err != nil {
			log.Error("close", zap.Error(err))
		}
	}
	log.Info("Graceful shutdown finished")
}

func newRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Repository, closer, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			return nil, nil, errors.Wrap(err, "db init")
		}
		return pgstore.NewRepository(db, log), func(context.Context) error {
			db.Close()
			return nil
		}, nil
	case config.DriverMongo:
		db, err := mongodb.NewMongoDB(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, errors.Wrap(err, "mongo init")
		}
		repo, err := mongostore.NewRepository(ctx, db, cfg.Mongo.Tx, log)
		if err != nil {
			_ = db.Disconnect(ctx)
			return nil, nil, errors.Wrap(err, "mongo repository")
		}
		return repo, db.Disconnect, nil
	}
	return nil, nil, errors.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
