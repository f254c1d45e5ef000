package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"

	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/controllers"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/app/repository"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/billing"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/cache"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/database"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/discordapi"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/env"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/gameconfig"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/oauth"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/players"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/profilecache"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/router"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/security"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/session"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/settings"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/statistics"
	"github.com/PARJOAC/NuevaDashBoardCasinoBot/internal/pkg/viewmodel"
)

func main() {
	app, cfg, shutdown := NewApplication()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("[App] shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", cfg.Host, cfg.Port))
	shutdown()
	if err != nil {
		log.Fatal(err)
	}
}

// NewApplication wires every service and returns the app together with a
// function releasing the background resources.
func NewApplication() (*fiber.App, *env.Config, func()) {
	env.SetupEnvFile()
	setLogLevel(env.GetEnv("LOG_LEVEL", "info"))

	cfg, err := env.Load()
	if err != nil {
		log.Fatal(err)
	}
	game, err := gameconfig.Load(cfg.GameConfigPath)
	if err != nil {
		log.Fatal(err)
	}

	database.SetupDatabase()
	cache.SetupCache()
	session.NewSessionStore()
	oauth.Setup(cfg)

	box, err := tokenBox(cfg.TokenEncryptionKey)
	if err != nil {
		log.Fatal(err)
	}

	bot, err := discordapi.NewBot(cfg.DiscordBotToken, cfg.DiscordLogChannel)
	if err != nil {
		log.Fatal(err)
	}
	openCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bot.Open(openCtx); err != nil {
		log.Warnf("[Discord] %v", err)
	}
	cancel()

	repository.InitializeFactory(database.GetDB(), game.GuildDefaults)
	factory := repository.GetGlobalFactory()
	guilds := factory.GetGuildRepository()

	validator, err := settings.NewValidator(game)
	if err != nil {
		log.Fatal(err)
	}
	profiles := profilecache.New(bot.FetchProfile)
	billingSvc := billing.NewServiceFromDB(database.GetDB(), game.GuildDefaults, billing.NewDiscordNotifier(bot))
	stats := statistics.NewService(bot, cache.Store{})
	refresher, err := stats.StartRefresher()
	if err != nil {
		log.Fatal(err)
	}
	oauthClient := discordapi.NewOAuthClient()

	ctl := &controllers.Controllers{
		Main:      controllers.NewMainController(stats, cfg.DiscordClientID),
		Auth:      controllers.NewAuthController(factory.GetUserLoginRepository(), oauthClient, box),
		Dashboard: controllers.NewDashboardController(guilds, bot, oauthClient, box, cfg.DiscordClientID),
		Settings:  controllers.NewSettingsController(settings.NewService(validator, guilds, bot), guilds, bot, game, cfg.DiscordClientID),
		Players:   controllers.NewPlayerController(players.NewLister(factory.GetPlayerRepository(), profiles), players.NewUpdater(factory.GetPlayerRepository())),
		Billing: controllers.NewBillingController(
			billing.NewCheckout(cfg.StripeSecretKey, cfg.BaseURL()),
			billing.NewWebhook(cfg.StripeWebhookSecret, billingSvc),
			cfg.DiscordClientID,
		),
	}

	basePath := findBasePath()

	engine := html.New(basePath+"views", ".html")
	engine.AddFuncMap(viewmodel.TemplateFuncs())

	app := fiber.New(fiber.Config{
		Views:     engine,
		BodyLimit: 1 << 20,
	})

	// ignore and cache favicon
	app.Use(favicon.New(favicon.Config{
		File:         basePath + "public/assets/icons/favicon.ico",
		URL:          "/favicon.ico",
		CacheControl: "public, max-age=604800",
	}))

	// recovery, request ids and logging
	app.Use(recover.New(), requestid.New(requestid.Config{Generator: uuid.NewString}), logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "change-me"),
		},
	}), monitor.New(monitor.Config{Title: "CasinoBot Dashboard Metrics"}))

	// static files
	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}))

	// ROUTER
	router.InstallRouter(app, ctl)

	shutdown := func() {
		refresher.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		bot.Close(ctx)
	}
	return app, cfg, shutdown
}

func tokenBox(hexKey string) (*security.TokenBox, error) {
	if hexKey == "" {
		log.Warn("[Security] TOKEN_ENCRYPTION_KEY not set, using an ephemeral key")
		return security.NewEphemeralTokenBox()
	}
	return security.NewTokenBox(hexKey)
}

func findBasePath() string {
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/dashboard to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			return path
		}
	}
	panic("Could not find project root directory")
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "warn":
		log.SetLevel(log.LevelWarn)
	case "error":
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}
}
