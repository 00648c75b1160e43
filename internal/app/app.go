// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, движки, сервисы, HTTP API,
// Telegram-бота и планировщик.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"serotonyl.ru/sharkspin/internal/auth"
	"serotonyl.ru/sharkspin/internal/bot"
	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/db/postgres"
	"serotonyl.ru/sharkspin/internal/features/admin"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/daily"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/events"
	"serotonyl.ru/sharkspin/internal/features/leaderboard"
	"serotonyl.ru/sharkspin/internal/features/links"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/progression"
	"serotonyl.ru/sharkspin/internal/features/shop"
	"serotonyl.ru/sharkspin/internal/features/slots"
	"serotonyl.ru/sharkspin/internal/features/stickers"
	"serotonyl.ru/sharkspin/internal/features/wheel"
	"serotonyl.ru/sharkspin/internal/httpapi"
	"serotonyl.ru/sharkspin/internal/jobs"
	"serotonyl.ru/sharkspin/internal/random"
	"serotonyl.ru/sharkspin/internal/ratelimit"
)

// App содержит все компоненты приложения.
type App struct {
	Config    *config.Config
	DB        *pgxpool.Pool
	HTTP      *httpapi.Server
	Bot       *bot.Bot // nil, если FEATURE_BOT_ENABLED=false
	Scheduler *jobs.Scheduler

	admin    *admin.Service
	limiters []*ratelimit.Limiter
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Каталоги ===
	provisioner := catalog.NewProvisioner(pool)
	if err := provisioner.EnsureAll(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// === 3. Движки ===
	curve := progression.NewCurve(cfg)
	rewards := &economy.Engine{EnergyPerSpin: cfg.EnergyPerSpin, Levels: curve}
	levels, err := progression.NewTracker(curve, config.LevelRewards, rewards)
	if err != nil {
		pool.Close()
		return nil, err
	}

	slotsEngine := &slots.Engine{
		EnergyPerSpin:   cfg.EnergyPerSpin,
		CoinCostPerSpin: cfg.CoinCostPerSpin,
		WildSymbol:      cfg.WildSymbol,
		HouseEdge: slots.HouseEdge{
			Coins:       cfg.HouseEdgeCoins,
			Energy:      cfg.HouseEdgeEnergy,
			WheelTokens: cfg.HouseEdgeWheelTokens,
			BrickChance: cfg.HouseEdgeBrickChance,
		},
		Rewards: rewards,
		Levels:  levels,
		Random:  random.Default,
	}
	wheelEngine := &wheel.Engine{
		Cooldown:  cfg.WheelCooldown,
		TokenCost: cfg.WheelTokenCost,
		Rewards:   rewards,
		Levels:    levels,
		Random:    random.Default,
	}
	stickersEngine := &stickers.Engine{
		TradeSetSize:      cfg.StickerTradeSetSize,
		TradeCoinsPerSet:  cfg.StickerTradeCoins,
		TradeEnergyPerSet: cfg.StickerTradeEnergy,
		Rewards:           rewards,
		Levels:            levels,
		Random:            random.Default,
	}
	dailyEngine := &daily.Engine{
		ClaimWindow: cfg.DailyClaimWindow,
		GraceWindow: cfg.DailyGraceWindow,
		Schedule:    daily.NewSchedule(cfg),
		Rewards:     rewards,
		Levels:      levels,
	}

	// === 4. Сервисы ===
	playersService := players.NewService(pool, players.StartingBalance{
		Coins:       cfg.StartingCoins,
		Energy:      cfg.StartingEnergy,
		WheelTokens: cfg.StartingWheelTokens,
	})
	playersRepo := playersService.Repository()

	eventsService := events.NewService(events.NewRepository(pool), provisioner, &events.Engine{Rewards: rewards})
	slotsService := slots.NewService(pool, playersRepo, provisioner, eventsService, slotsEngine, cfg.SpinCooldown)
	wheelService := wheel.NewService(pool, playersRepo, provisioner, wheelEngine)
	stickersService := stickers.NewService(pool, playersRepo, provisioner, stickersEngine)
	dailyService := daily.NewService(pool, playersRepo, dailyEngine, cfg.DailyReminderMinStreak)
	leaderboardService := leaderboard.NewService(pool, playersRepo, rewards, levels, cfg.LeaderboardSize)
	shopService := shop.NewService(pool, playersRepo, provisioner, rewards, levels)
	linksService := links.NewService(pool, playersRepo,
		links.NewSigner(cfg.SecretKey),
		&links.Engine{Rewards: rewards, Levels: levels},
		links.URLs{WebAppURL: cfg.WebAppURL, BotUsername: cfg.BotUsername},
	)
	ledgerService := economy.NewService(economy.NewRepository(pool))
	adminService := admin.NewService(pool, playersService, provisioner, slotsService, wheelService, shopService, cfg.AdminPasswordHash)

	limiter := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)

	// === 5. HTTP API ===
	server := httpapi.NewServer(httpapi.Deps{
		Config:      cfg,
		Sessions:    auth.NewSessions(cfg.SecretKey, cfg.SessionTTL),
		InitData:    auth.NewInitDataValidator(cfg.TelegramBotToken, cfg.AuthInitDataTTL),
		Players:     playersService,
		Levels:      levels,
		Ledger:      ledgerService,
		Slots:       slotsService,
		Wheel:       wheelService,
		Stickers:    stickersService,
		Events:      eventsService,
		Daily:       dailyService,
		Leaderboard: leaderboardService,
		Shop:        shopService,
		Links:       linksService,
		Admin:       adminService,
		Limiter:     limiter,
	})

	a := &App{
		Config:    cfg,
		DB:        pool,
		HTTP:      server,
		Scheduler: jobs.NewScheduler(cfg.Location()),
		admin:     adminService,
		limiters:  []*ratelimit.Limiter{limiter},
	}

	if cfg.FeatureWeeklyReset {
		a.Scheduler.WithWeeklyReset(leaderboardService)
	}

	// === 6. Telegram-бот ===
	if !cfg.FeatureBotEnabled {
		log.Warn("Telegram-бот выключен (FEATURE_BOT_ENABLED=false)")
		return a, nil
	}

	api, err := bot.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		a.Close()
		return nil, err
	}
	// Ключ лимита бота — Telegram ID, а не ID игрока: отдельный лимитер
	botLimiter := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)
	a.limiters = append(a.limiters, botLimiter)
	a.Bot = bot.New(api, cfg, playersService, shopService, linksService, botLimiter)

	username, err := a.Bot.Username(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("ошибка авторизации бота: %w", err)
	}
	linksService.SetBotUsername(username)
	log.Infof("Авторизован как @%s", username)

	adminService.SetSender(a.Bot)
	if cfg.FeatureDailyReminders {
		a.Scheduler.WithReminders(dailyService, a.Bot.SendReminder)
	}

	return a, nil
}

// Run запускает планировщик, HTTP API и бота; возвращается после отмены ctx
// или первой ошибки любого из них.
func (a *App) Run(ctx context.Context) error {
	if err := a.Scheduler.Start(ctx); err != nil {
		return err
	}
	defer a.Scheduler.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.HTTP.Run(ctx)
	})
	if a.Bot != nil {
		g.Go(func() error {
			return a.Bot.Start(ctx)
		})
	}
	return g.Wait()
}

// Close освобождает ресурсы. Ждёт рассылки, которые ещё отправляются.
func (a *App) Close() {
	a.admin.Wait()
	for _, l := range a.limiters {
		l.Close()
	}
	a.DB.Close()
}
