// Package config загружает конфигурацию SharkSpin из переменных окружения.
// Использует envconfig для маппинга переменных окружения на поля структуры,
// а godotenv — для подхвата локального .env при разработке.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит все настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// Telegram ID администраторов: им доступна команда /reward
	AdminIDsRaw string  `envconfig:"ADMIN_IDS"`
	AdminIDs    []int64 `envconfig:"-"`
	// Имя бота для deep-link ссылок. Пусто — спрашиваем у Telegram через getMe.
	BotUsername string `envconfig:"BOT_USERNAME"`
	WebAppURL   string `envconfig:"WEBAPP_URL" default:"http://localhost:8080"`

	// --- Database ---
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"sharkspin"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"sharkspin"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"UTC"`

	// --- HTTP ---
	HTTPAddr            string        `envconfig:"HTTP_ADDR" default:":8080"`
	HTTPReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPWriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`

	// --- Auth ---
	// SecretKey подписывает сессии и reward-ссылки (HS256)
	SecretKey         string        `envconfig:"SECRET_KEY" required:"true"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	AuthInitDataTTL   time.Duration `envconfig:"AUTH_INIT_DATA_TTL" default:"24h"`
	AuthAllowInsecure bool          `envconfig:"AUTH_ALLOW_INSECURE" default:"false"`

	// --- Admin ---
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"120"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Economy ---
	StartingCoins       int64 `envconfig:"STARTING_COINS" default:"100"`
	StartingEnergy      int64 `envconfig:"STARTING_ENERGY" default:"30"`
	StartingWheelTokens int64 `envconfig:"STARTING_WHEEL_TOKENS" default:"1"`
	EnergyPerSpin       int64 `envconfig:"ENERGY_PER_SPIN" default:"1"`
	// 0 = спины стоят только энергию
	CoinCostPerSpin int64         `envconfig:"SLOT_COIN_COST_PER_SPIN" default:"0"`
	SpinCooldown    time.Duration `envconfig:"SPIN_COOLDOWN" default:"900ms"`
	WildSymbol      string        `envconfig:"SLOT_WILD_SYMBOL" default:"🦈"`

	// House edge: 1.0 и 0 = выключено
	HouseEdgeCoins       float64 `envconfig:"HOUSE_EDGE_COINS" default:"1.0"`
	HouseEdgeEnergy      float64 `envconfig:"HOUSE_EDGE_ENERGY" default:"1.0"`
	HouseEdgeWheelTokens float64 `envconfig:"HOUSE_EDGE_WHEEL_TOKENS" default:"1.0"`
	HouseEdgeBrickChance float64 `envconfig:"HOUSE_EDGE_BRICK_CHANCE" default:"0"`

	// --- Wheel ---
	WheelCooldown  time.Duration `envconfig:"WHEEL_COOLDOWN" default:"4h"`
	WheelTokenCost int64         `envconfig:"WHEEL_TOKEN_COST" default:"1"`

	// --- Daily ---
	DailyClaimWindow       time.Duration `envconfig:"DAILY_CLAIM_WINDOW" default:"20h"`
	DailyGraceWindow       time.Duration `envconfig:"DAILY_GRACE_WINDOW" default:"36h"`
	DailyBaseCoins         int64         `envconfig:"DAILY_REWARD_BASE_COINS" default:"200"`
	DailyCoinsPerDay       int64         `envconfig:"DAILY_REWARD_COINS_PER_DAY" default:"15"`
	DailyBaseEnergy        int64         `envconfig:"DAILY_REWARD_BASE_ENERGY" default:"6"`
	DailyMilestoneEvery    int           `envconfig:"DAILY_MILESTONE_EVERY" default:"7"`
	DailyMilestoneEnergy   int64         `envconfig:"DAILY_STREAK_BONUS" default:"25"`
	DailyMilestoneTokens   int64         `envconfig:"DAILY_MILESTONE_WHEEL_TOKENS" default:"1"`
	DailyMilestonePacks    int64         `envconfig:"DAILY_MILESTONE_STICKER_PACKS" default:"1"`
	DailyShowcaseDaysRaw   string        `envconfig:"DAILY_SHOWCASE_DAYS" default:"1,3,5,7,14,21"`
	DailyShowcaseDays      []int         `envconfig:"-"`
	DailyReminderMinStreak int           `envconfig:"DAILY_REMINDER_STREAK" default:"3"`

	// --- Stickers ---
	StickerTradeSetSize int   `envconfig:"STICKER_TRADE_SET_SIZE" default:"5"`
	StickerTradeCoins   int64 `envconfig:"STICKER_TRADE_COINS" default:"350"`
	StickerTradeEnergy  int64 `envconfig:"STICKER_TRADE_ENERGY" default:"18"`

	// --- Levels ---
	LevelExtraStep      int64 `envconfig:"LEVEL_EXTRA_STEP" default:"600"`
	LevelExtraQuadratic int64 `envconfig:"LEVEL_EXTRA_QUADRATIC" default:"25"`

	// --- Leaderboard ---
	LeaderboardSize int `envconfig:"LEADERBOARD_SIZE" default:"25"`

	// --- Feature Flags ---
	FeatureBotEnabled     bool `envconfig:"FEATURE_BOT_ENABLED" default:"true"`
	FeatureWeeklyReset    bool `envconfig:"FEATURE_WEEKLY_RESET" default:"true"`
	FeatureDailyReminders bool `envconfig:"FEATURE_DAILY_REMINDERS" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// IsDevelopment — локальный запуск.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Location возвращает часовой пояс для cron и отображения дат.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsAdmin проверяет Telegram ID по списку ADMIN_IDS.
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func (c *Config) Validate() error {
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if len(c.SecretKey) < 16 {
		return fmt.Errorf("SECRET_KEY должен быть не короче 16 символов")
	}
	if c.EnergyPerSpin <= 0 {
		return fmt.Errorf("ENERGY_PER_SPIN должен быть > 0")
	}
	if c.CoinCostPerSpin < 0 {
		return fmt.Errorf("SLOT_COIN_COST_PER_SPIN не может быть отрицательным")
	}
	if c.WheelTokenCost <= 0 {
		return fmt.Errorf("WHEEL_TOKEN_COST должен быть > 0")
	}
	if c.DailyClaimWindow <= 0 || c.DailyGraceWindow < c.DailyClaimWindow {
		return fmt.Errorf("DAILY_GRACE_WINDOW должен быть >= DAILY_CLAIM_WINDOW > 0")
	}
	if c.StickerTradeSetSize <= 0 {
		return fmt.Errorf("STICKER_TRADE_SET_SIZE должен быть > 0")
	}
	if c.HouseEdgeBrickChance < 0 || c.HouseEdgeBrickChance >= 1 {
		return fmt.Errorf("HOUSE_EDGE_BRICK_CHANCE должен быть в [0, 1)")
	}
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("LEADERBOARD_SIZE должен быть > 0")
	}
	if c.LevelExtraStep <= 0 || c.LevelExtraQuadratic < 0 {
		return fmt.Errorf("LEVEL_EXTRA_STEP должен быть > 0, LEVEL_EXTRA_QUADRATIC >= 0")
	}
	return nil
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("не удалось прочитать .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids

	days, err := parseIntCSV(cfg.DailyShowcaseDaysRaw)
	if err != nil {
		return nil, fmt.Errorf("DAILY_SHOWCASE_DAYS parse: %w", err)
	}
	cfg.DailyShowcaseDays = days

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseIntCSV(s string) ([]int, error) {
	values, err := parseInt64CSV(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		if v <= 0 {
			return nil, fmt.Errorf("day must be positive: %d", v)
		}
		out = append(out, int(v))
	}
	return out, nil
}
