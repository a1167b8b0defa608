// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"lessonhub/internal/pkg/nacos"
	"lessonhub/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

// AppCtx 是注册路由与后台任务时可用的上下文
type AppCtx struct {
	Mux *http.ServeMux
	// Go 启动一个随服务生命周期运行的后台任务, ctx 在关停时取消
	Go func(task func(ctx context.Context) error)
}

// AppInfo 包含了启动一个微服务所需的所有特定信息。
type AppInfo struct {
	Config   *Config
	Gatherer prometheus.Gatherer
	// RegisterHandlers 允许每个服务注册自己独特的 HTTP 路由和后台任务
	RegisterHandlers func(ctx context.Context, appCtx AppCtx) error
	// OnShutdown 在 HTTP 服务关闭后调用, 用于关闭连接池等资源
	OnShutdown func(ctx context.Context)
}

// StartService 封装了通用的启动和优雅关停逻辑, 收到 SIGINT/SIGTERM 后返回。
func StartService(info AppInfo) error {
	cfg := info.Config
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Tracer
	tp, err := tracing.InitTracerProvider(cfg.App.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	// 2. 注册路由
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	gatherer := info.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	if info.RegisterHandlers != nil {
		appCtx := AppCtx{Mux: mux, Go: func(task func(ctx context.Context) error) { g.Go(func() error { return task(gctx) }) }}
		if err := info.RegisterHandlers(gctx, appCtx); err != nil {
			stop()
			_ = g.Wait()
			// 已经打开的连接池等资源同样需要关闭
			if info.OnShutdown != nil {
				info.OnShutdown(context.Background())
			}
			tracing.Shutdown(context.Background(), tp)
			return err
		}
	}

	// 3. 启动 HTTP Server
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		log.Info().Str("service", cfg.App.ServiceName).Int("port", cfg.App.Port).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on %s: %w", server.Addr, err)
		}
		return nil
	})

	// 4. 可选的 Nacos 注册
	deregister := registerNacos(cfg)

	// 5. 优雅关停: 信号或任一任务出错都会触发
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("service", cfg.App.ServiceName).Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// 按顺序执行清理操作 (后进先出)
		deregister()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error shutting down http server")
		}
		if info.OnShutdown != nil {
			info.OnShutdown(shutdownCtx)
		}
		tracing.Shutdown(shutdownCtx, tp)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Str("service", cfg.App.ServiceName).Msg("gracefully shut down")
	return nil
}

// registerNacos 在配置了 Nacos 时注册本实例, 返回注销函数。注册失败不阻止服务启动。
func registerNacos(cfg *Config) func() {
	noop := func() {}
	if cfg.Infra.Nacos.ServerAddrs == "" {
		return noop
	}
	client, err := nacos.NewNacosClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize nacos client")
		return noop
	}
	ip, err := GetOutboundIP()
	if err != nil {
		log.Error().Err(err).Msg("failed to get outbound IP address")
		client.Close()
		return noop
	}
	if err := client.RegisterServiceInstance(cfg.App.ServiceName, ip, cfg.App.Port); err != nil {
		log.Error().Err(err).Msg("failed to register service with nacos")
		client.Close()
		return noop
	}
	return func() {
		if err := client.DeregisterServiceInstance(cfg.App.ServiceName, ip, cfg.App.Port); err != nil {
			log.Error().Err(err).Msg("error deregistering from nacos")
		}
		client.Close()
	}
}

// GetOutboundIP 返回访问外网时使用的本机地址。UDP 连接不会真正发包。
func GetOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
