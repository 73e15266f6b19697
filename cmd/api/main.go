package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/emandor/mocktest_service/internal/cache"
	"github.com/emandor/mocktest_service/internal/config"
	"github.com/emandor/mocktest_service/internal/middleware"
	"github.com/emandor/mocktest_service/internal/mocktest"
	"github.com/emandor/mocktest_service/internal/session"
	"github.com/emandor/mocktest_service/internal/telemetry"
	"github.com/emandor/mocktest_service/internal/ws"
)

func main() {
	cfg := config.Load()
	tlog := telemetry.Init(telemetry.FromEnv(config.GetEnv))
	tlog.Info().
		Str("port", cfg.AppPort).
		Str("provider", cfg.CompletionProvider).
		Bool("dry_run", cfg.DryRun).
		Msg("booting mocktest_service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := mustStore(ctx, cfg)
	defer closeStore()

	client, err := mocktest.BuildClient(cfg)
	if err != nil {
		tlog.Fatal().Err(err).Msg("completion client")
	}

	hub := ws.NewHub()
	svc := mocktest.NewService(client, store, hub, cfg.CompletionTimeout)
	h := mocktest.NewHandler(svc)

	app := fiber.New(fiber.Config{
		AppName: "mocktest_service",
		// a generation may take up to COMPLETION_TIMEOUT
		WriteTimeout: cfg.CompletionTimeout + 10*time.Second,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Recover())
	app.Use(middleware.SecureHeaders())
	app.Use(middleware.RequestLog())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Use(middleware.Session(cfg.SessionCookieName, cfg.SessionTTL, cfg.IsProd()))
	generateLimit := middleware.GenerateLimiter(cfg.GenerateRateMax, cfg.GenerateRateWindow, nil)
	submitLimit := middleware.GenerateLimiter(cfg.GenerateRateMax, cfg.GenerateRateWindow, h.RateLimited)

	app.Get("/", h.Index)
	app.Post("/", submitLimit, h.Submit)
	app.Post("/reset", h.ResetPage)
	app.Get("/download", h.TestDownload)

	api := app.Group("/api/v1", middleware.CORS(cfg))
	api.Get("/papers", h.ListPapers)
	api.Get("/predefined-questions", h.ListPredefinedQuestions)
	api.Get("/session", h.GetSession)
	api.Patch("/session", h.PatchSession)
	api.Post("/session/predefined/:id/toggle", h.TogglePredefined)
	api.Post("/session/generate", generateLimit, h.Generate)
	api.Post("/session/reset", h.ResetSession)
	api.Get("/session/test/text", h.TestText)
	api.Get("/session/test/download", h.TestDownload)

	app.Get("/ws", middleware.WSUpgrade(), websocket.New(hub.Handle))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(":" + cfg.AppPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		tlog.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		tlog.Error().Err(err).Msg("server stopped")
		return
	}
	tlog.Info().Msg("bye")
}

// mustStore picks the session backend: Redis when REDIS_ADDR is set, the
// in-process store otherwise.
func mustStore(ctx context.Context, cfg *config.Config) (session.Store, func()) {
	log := telemetry.L()
	if cfg.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR empty, sessions kept in memory")
		return session.NewMemoryStore(cfg.SessionTTL), func() {}
	}
	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connect")
	}
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}
	return session.NewRedisStore(rdb, cfg.SessionTTL, cfg.CompletionTimeout*2), closeFn
}
