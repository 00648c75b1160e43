package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/db/postgres"
)

// migrations применяются по порядку, каждая в своей транзакции.
var migrations = []struct {
	version int
	sql     string
}{
	{1, migration001Players},
	{2, migration002Ledger},
	{3, migration003Catalog},
	{4, migration004Progress},
	{5, migration005History},
	{6, migration006RewardLinks},
	{7, migration007Payments},
	{8, migration008Admin},
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return err
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Debugf("Миграция %d применена", m.version)
	}
	log.WithField("count", len(migrations)).Info("Миграции применены")
	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Players = `
CREATE TABLE IF NOT EXISTS players (
    id BIGSERIAL PRIMARY KEY,
    telegram_id TEXT UNIQUE NOT NULL,
    username TEXT NOT NULL DEFAULT '',
    coins BIGINT NOT NULL DEFAULT 0 CHECK (coins >= 0),
    energy BIGINT NOT NULL DEFAULT 0 CHECK (energy >= 0),
    wheel_tokens BIGINT NOT NULL DEFAULT 0 CHECK (wheel_tokens >= 0),
    free_sticker_packs BIGINT NOT NULL DEFAULT 0 CHECK (free_sticker_packs >= 0),
    xp BIGINT NOT NULL DEFAULT 0,
    total_earned BIGINT NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 1,
    weekly_coins BIGINT NOT NULL DEFAULT 0,
    lifetime_spins BIGINT NOT NULL DEFAULT 0,
    level_reward_checkpoint INTEGER NOT NULL DEFAULT 1,
    last_wheel_spin_at TIMESTAMPTZ,
    last_spin_at TIMESTAMPTZ,
    last_daily_claim_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_players_coins ON players(coins DESC);
CREATE INDEX IF NOT EXISTS idx_players_xp ON players(xp DESC);
CREATE INDEX IF NOT EXISTS idx_players_weekly ON players(weekly_coins DESC) WHERE weekly_coins > 0;
`

var migration002Ledger = `
CREATE TABLE IF NOT EXISTS ledger (
    id BIGSERIAL PRIMARY KEY,
    player_id BIGINT NOT NULL REFERENCES players(id),
    reward_type VARCHAR(32) NOT NULL,
    amount BIGINT NOT NULL,
    source VARCHAR(32) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ledger_player ON ledger(player_id, created_at DESC);
`

var migration003Catalog = `
CREATE TABLE IF NOT EXISTS slot_symbols (
    id BIGSERIAL PRIMARY KEY,
    emoji TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    weight DOUBLE PRECISION NOT NULL DEFAULT 1,
    coins BIGINT NOT NULL DEFAULT 0,
    energy BIGINT NOT NULL DEFAULT 0,
    wheel_tokens BIGINT NOT NULL DEFAULT 0,
    color TEXT NOT NULL DEFAULT '',
    art_url TEXT NOT NULL DEFAULT '',
    is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS wheel_rewards (
    id BIGSERIAL PRIMARY KEY,
    label TEXT NOT NULL,
    reward_type VARCHAR(32) NOT NULL,
    amount BIGINT NOT NULL,
    weight DOUBLE PRECISION NOT NULL DEFAULT 1,
    color TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS sticker_albums (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT UNIQUE NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    reward_spins BIGINT NOT NULL DEFAULT 0,
    sticker_cost BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS stickers (
    id BIGSERIAL PRIMARY KEY,
    album_id BIGINT NOT NULL REFERENCES sticker_albums(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    rarity VARCHAR(32) NOT NULL DEFAULT 'common',
    weight DOUBLE PRECISION NOT NULL DEFAULT 1,
    image_url TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_stickers_album ON stickers(album_id);

CREATE TABLE IF NOT EXISTS live_events (
    id BIGSERIAL PRIMARY KEY,
    slug TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_at TIMESTAMPTZ NOT NULL,
    end_at TIMESTAMPTZ NOT NULL,
    target_spins BIGINT NOT NULL DEFAULT 0,
    reward_type VARCHAR(32) NOT NULL DEFAULT 'coins',
    reward_amount BIGINT NOT NULL DEFAULT 0,
    event_type VARCHAR(32) NOT NULL DEFAULT 'live',
    banner_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS shop_items (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT UNIQUE NOT NULL,
    stars BIGINT NOT NULL CHECK (stars > 0),
    energy BIGINT NOT NULL DEFAULT 0,
    bonus_wheel_tokens BIGINT NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    art_url TEXT NOT NULL DEFAULT '',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS catalog_seeds (
    kind VARCHAR(32) NOT NULL,
    version INTEGER NOT NULL,
    seeded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (kind, version)
);
`

var migration004Progress = `
CREATE TABLE IF NOT EXISTS user_stickers (
    player_id BIGINT NOT NULL REFERENCES players(id),
    sticker_id BIGINT NOT NULL REFERENCES stickers(id) ON DELETE CASCADE,
    quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (player_id, sticker_id)
);

CREATE TABLE IF NOT EXISTS album_completions (
    player_id BIGINT NOT NULL REFERENCES players(id),
    album_id BIGINT NOT NULL REFERENCES sticker_albums(id) ON DELETE CASCADE,
    completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (player_id, album_id)
);

CREATE TABLE IF NOT EXISTS event_progress (
    event_id BIGINT NOT NULL REFERENCES live_events(id) ON DELETE CASCADE,
    player_id BIGINT NOT NULL REFERENCES players(id),
    progress BIGINT NOT NULL DEFAULT 0,
    claimed BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (event_id, player_id)
);
CREATE INDEX IF NOT EXISTS idx_event_progress_player ON event_progress(player_id);

CREATE TABLE IF NOT EXISTS daily_states (
    player_id BIGINT PRIMARY KEY REFERENCES players(id),
    streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    total_claims INTEGER NOT NULL DEFAULT 0,
    last_claim_at TIMESTAMPTZ,
    reminded_at TIMESTAMPTZ,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_daily_states_last_claim ON daily_states(last_claim_at);
`

var migration005History = `
CREATE TABLE IF NOT EXISTS slot_spins (
    id BIGSERIAL PRIMARY KEY,
    player_id BIGINT NOT NULL REFERENCES players(id),
    label VARCHAR(64) NOT NULL,
    multiplier INTEGER NOT NULL,
    reels TEXT[] NOT NULL,
    coins BIGINT NOT NULL DEFAULT 0,
    energy BIGINT NOT NULL DEFAULT 0,
    wheel_tokens BIGINT NOT NULL DEFAULT 0,
    coin_cost BIGINT NOT NULL DEFAULT 0,
    energy_spent BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_slot_spins_player ON slot_spins(player_id, id DESC);

CREATE TABLE IF NOT EXISTS wheel_spins (
    id BIGSERIAL PRIMARY KEY,
    player_id BIGINT NOT NULL REFERENCES players(id),
    reward_id BIGINT NOT NULL,
    label TEXT NOT NULL,
    reward_type VARCHAR(32) NOT NULL,
    amount BIGINT NOT NULL,
    free BOOLEAN NOT NULL,
    tokens_spent BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_wheel_spins_player ON wheel_spins(player_id, id DESC);
`

var migration006RewardLinks = `
CREATE TABLE IF NOT EXISTS reward_links (
    id BIGSERIAL PRIMARY KEY,
    code VARCHAR(32) UNIQUE NOT NULL,
    token TEXT UNIQUE NOT NULL,
    reward_type VARCHAR(32) NOT NULL,
    amount BIGINT NOT NULL CHECK (amount > 0),
    uses_left INTEGER NOT NULL CHECK (uses_left >= 0),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_by TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    note TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

var migration007Payments = `
CREATE TABLE IF NOT EXISTS payments (
    id BIGSERIAL PRIMARY KEY,
    player_id BIGINT NOT NULL REFERENCES players(id),
    charge_id TEXT UNIQUE NOT NULL,
    payload TEXT NOT NULL,
    stars BIGINT NOT NULL,
    source VARCHAR(16) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_payments_player ON payments(player_id, id DESC);
`

var migration008Admin = `
CREATE TABLE IF NOT EXISTS admin_login_attempts (
    id BIGSERIAL PRIMARY KEY,
    source TEXT NOT NULL,
    success BOOLEAN NOT NULL,
    attempt_time TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_admin_login_source ON admin_login_attempts(source, attempt_time DESC);

CREATE TABLE IF NOT EXISTS broadcasts (
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL,
    reward_url TEXT NOT NULL DEFAULT '',
    status VARCHAR(16) NOT NULL,
    recipients INTEGER NOT NULL DEFAULT 0,
    sent_count INTEGER NOT NULL DEFAULT 0,
    failed_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);
`
