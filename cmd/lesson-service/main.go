package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"lessonhub/internal/pkg/bootstrap"
	"lessonhub/internal/pkg/database"
	"lessonhub/internal/pkg/logger"
	"lessonhub/internal/pkg/metrics"
	"lessonhub/internal/pkg/mq"
	"lessonhub/internal/pkg/push"
	redisclient "lessonhub/internal/pkg/redis"
	catalogapp "lessonhub/internal/service/catalog/application"
	catalogdomain "lessonhub/internal/service/catalog/domain"
	cataloginfra "lessonhub/internal/service/catalog/infrastructure"
	catalogmem "lessonhub/internal/service/catalog/infrastructure/memory"
	catalogredis "lessonhub/internal/service/catalog/infrastructure/redis"
	"lessonhub/internal/service/catalog/infrastructure/rule"
	cataloghttp "lessonhub/internal/service/catalog/interfaces"
	orderapp "lessonhub/internal/service/order/application"
	orderdomain "lessonhub/internal/service/order/domain"
	"lessonhub/internal/service/order/domain/port"
	orderinfra "lessonhub/internal/service/order/infrastructure"
	"lessonhub/internal/service/order/infrastructure/adapter"
	ordermem "lessonhub/internal/service/order/infrastructure/memory"
	orderhttp "lessonhub/internal/service/order/interfaces"
	"lessonhub/internal/zookeeper"
)

func main() {
	cfg, err := bootstrap.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.App.ServiceName, cfg.App.LogLevel)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var closers []func()
	err = bootstrap.StartService(bootstrap.AppInfo{
		Config:   cfg,
		Gatherer: reg,
		RegisterHandlers: func(ctx context.Context, app bootstrap.AppCtx) error {
			return wire(ctx, cfg, reg, app, &closers)
		},
		OnShutdown: func(ctx context.Context) {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("service exited with error")
	}
}

// wire 是组合根: 按配置选择存储与外部组件, 组装服务并注册路由。
func wire(ctx context.Context, cfg *bootstrap.Config, reg prometheus.Registerer, app bootstrap.AppCtx, closers *[]func()) error {
	tracer := otel.Tracer(cfg.App.ServiceName)
	m := metrics.New(reg)

	var db *gorm.DB
	openDB := func() (*gorm.DB, error) {
		if db != nil {
			return db, nil
		}
		mc := cfg.Infra.Mysql
		var err error
		db, err = database.Open(database.Options{
			Addr:            mc.Addr,
			User:            mc.User,
			Password:        mc.Password,
			Database:        mc.Database,
			MaxOpenConns:    mc.MaxOpenConns,
			MaxIdleConns:    mc.MaxIdleConns,
			ConnMaxLifetime: mc.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
		return db, nil
	}

	// 1. 课程库存
	var lessons catalogdomain.LessonRepository
	switch cfg.Store.Driver {
	case "mysql":
		gdb, err := openDB()
		if err != nil {
			return err
		}
		repo := cataloginfra.NewGormLessonRepository(gdb)
		if err := repo.AutoMigrate(ctx); err != nil {
			return err
		}
		lessons = repo
	case "redis":
		rc, err := redisclient.NewClient(ctx, cfg.Infra.Redis.Addrs, cfg.Infra.Redis.Password)
		if err != nil {
			return err
		}
		*closers = append(*closers, func() { _ = rc.Close() })
		repo, err := catalogredis.NewLessonRepository(rc)
		if err != nil {
			return err
		}
		lessons = repo
	default:
		lessons = catalogmem.NewLessonRepository()
	}

	// 2. 订单
	var orders orderdomain.OrderRepository
	if cfg.Store.OrderDriver() == "mysql" {
		gdb, err := openDB()
		if err != nil {
			return err
		}
		repo := orderinfra.NewGormOrderRepository(gdb)
		if err := repo.AutoMigrate(ctx); err != nil {
			return err
		}
		orders = repo
	} else {
		orders = ordermem.NewOrderRepository()
	}

	// 3. 初始化目录时的分布式锁
	var locker catalogapp.Locker = catalogapp.NoopLocker{}
	if len(cfg.Infra.Zookeeper.Servers) > 0 {
		conn, err := zookeeper.Connect(ctx, cfg.Infra.Zookeeper.Servers, cfg.Infra.Zookeeper.SessionTimeout)
		if err != nil {
			return err
		}
		*closers = append(*closers, conn.Close)
		locker = zookeeper.NewLocker(conn)
	}

	// 4. 下单成功后的通知: WebSocket 推送总是开启, Kafka 按配置开启
	hub := push.NewHub()
	app.Go(hub.Run)
	app.Mux.HandleFunc("GET /ws/stock", hub.ServeWS)

	notifiers := []port.OrderPlacedNotifier{adapter.NewStockPushAdapter(lessons, hub)}
	if len(cfg.Infra.Kafka.Brokers) > 0 {
		writer := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.OrderPlacedTopic)
		*closers = append(*closers, func() { _ = writer.Close() })
		notifiers = append(notifiers, adapter.NewOrderPlacedKafkaAdapter(writer))
	}

	// 5. 应用服务与路由
	filter, err := rule.NewCELFilterEngine()
	if err != nil {
		return err
	}
	catalogSvc := catalogapp.NewCatalogService(lessons, filter, locker, tracer)
	cataloghttp.NewCatalogHandler(catalogSvc).RegisterRoutes(app.Mux)

	engine := orderapp.NewReservationEngine(lessons, tracer, m)
	orderSvc := orderapp.NewOrderApplicationService(engine, orderapp.NewOrderRecorder(orders), orders, tracer, m, notifiers...)
	orderhttp.NewOrderHandler(orderSvc).RegisterRoutes(app.Mux)

	if cfg.App.SeedOnStart {
		n, err := catalogSvc.SeedCatalog(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("inserted", n).Msg("seeded lesson catalog on start")
	}

	log.Info().
		Str("store", cfg.Store.Driver).
		Str("orders", cfg.Store.OrderDriver()).
		Bool("kafka", len(cfg.Infra.Kafka.Brokers) > 0).
		Bool("zookeeper", len(cfg.Infra.Zookeeper.Servers) > 0).
		Msg("lesson service wired")
	return nil
}
