// Package catalog — repository.go: чтение и изменение каталожных таблиц.
// Строки собираются через pgx.CollectRows по тегам db.
package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/sharkspin/internal/db/postgres"
)

type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

// ============================================================================
// Засев
// ============================================================================

// LockSeed берёт advisory-lock на засев каталога до конца транзакции,
// чтобы два процесса не засеяли его одновременно.
func (r *Repository) LockSeed(ctx context.Context, kind Kind) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('catalog:' || $1))`, string(kind)); err != nil {
		return fmt.Errorf("ошибка блокировки засева %s: %w", kind, err)
	}
	return nil
}

// Count — сколько строк каталога видно игрокам (включённые/активные).
func (r *Repository) Count(ctx context.Context, kind Kind) (int64, error) {
	var query string
	switch kind {
	case KindSymbols:
		query = `SELECT COUNT(*) FROM slot_symbols WHERE is_enabled`
	case KindWheel:
		query = `SELECT COUNT(*) FROM wheel_rewards`
	case KindAlbums:
		query = `SELECT COUNT(*) FROM sticker_albums`
	case KindEvents:
		query = `SELECT COUNT(*) FROM live_events`
	case KindShop:
		query = `SELECT COUNT(*) FROM shop_items WHERE is_active`
	default:
		return 0, fmt.Errorf("неизвестный каталог %q", kind)
	}

	var n int64
	if err := r.db.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта %s: %w", kind, err)
	}
	return n, nil
}

// RecordSeed отмечает, какой версией набора засеян каталог.
func (r *Repository) RecordSeed(ctx context.Context, kind Kind, version int) error {
	query := `
		INSERT INTO catalog_seeds (kind, version)
		VALUES ($1, $2)
		ON CONFLICT (kind, version) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, string(kind), version); err != nil {
		return fmt.Errorf("ошибка записи засева %s: %w", kind, err)
	}
	return nil
}

// ============================================================================
// Символы слота
// ============================================================================

const symbolColumns = `id, emoji, name, description, weight, coins, energy, wheel_tokens, color, art_url, is_enabled, sort_order`

func (r *Repository) ListSymbols(ctx context.Context, enabledOnly bool) ([]SlotSymbol, error) {
	query := `SELECT ` + symbolColumns + ` FROM slot_symbols`
	if enabledOnly {
		query += ` WHERE is_enabled`
	}
	query += ` ORDER BY sort_order, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса символов: %w", err)
	}
	symbols, err := pgx.CollectRows(rows, pgx.RowToStructByName[SlotSymbol])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения символов: %w", err)
	}
	return symbols, nil
}

// InsertSymbols добавляет символы, пропуская уже существующие эмодзи.
func (r *Repository) InsertSymbols(ctx context.Context, symbols []SlotSymbol) (int64, error) {
	var inserted int64
	for _, s := range symbols {
		tag, err := r.db.Exec(ctx, `
			INSERT INTO slot_symbols (emoji, name, description, weight, coins, energy, wheel_tokens, color, art_url, is_enabled, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (emoji) DO NOTHING
		`, s.Emoji, s.Name, s.Description, s.Weight, s.Coins, s.Energy, s.WheelTokens, s.Color, s.ArtURL, s.IsEnabled, s.SortOrder)
		if err != nil {
			return inserted, fmt.Errorf("ошибка добавления символа %s: %w", s.Emoji, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// UpsertSymbol создаёт или обновляет символ по эмодзи.
func (r *Repository) UpsertSymbol(ctx context.Context, s *SlotSymbol) error {
	query := `
		INSERT INTO slot_symbols (emoji, name, description, weight, coins, energy, wheel_tokens, color, art_url, is_enabled, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (emoji) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, weight = EXCLUDED.weight,
		    coins = EXCLUDED.coins, energy = EXCLUDED.energy, wheel_tokens = EXCLUDED.wheel_tokens,
		    color = EXCLUDED.color, art_url = EXCLUDED.art_url,
		    is_enabled = EXCLUDED.is_enabled, sort_order = EXCLUDED.sort_order
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		s.Emoji, s.Name, s.Description, s.Weight, s.Coins, s.Energy, s.WheelTokens,
		s.Color, s.ArtURL, s.IsEnabled, s.SortOrder,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("ошибка сохранения символа %s: %w", s.Emoji, err)
	}
	return nil
}

// SetSymbolEnabled включает или выключает символ. Возвращает false, если его нет.
func (r *Repository) SetSymbolEnabled(ctx context.Context, id int64, enabled bool) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE slot_symbols SET is_enabled = $2 WHERE id = $1`, id, enabled)
	if err != nil {
		return false, fmt.Errorf("ошибка обновления символа: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ============================================================================
// Колесо призов
// ============================================================================

func (r *Repository) ListWheelRewards(ctx context.Context) ([]WheelReward, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, label, reward_type, amount, weight, color
		FROM wheel_rewards
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса призов колеса: %w", err)
	}
	rewards, err := pgx.CollectRows(rows, pgx.RowToStructByName[WheelReward])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения призов колеса: %w", err)
	}
	return rewards, nil
}

func (r *Repository) InsertWheelRewards(ctx context.Context, rewards []WheelReward) (int64, error) {
	var inserted int64
	for _, w := range rewards {
		tag, err := r.db.Exec(ctx, `
			INSERT INTO wheel_rewards (label, reward_type, amount, weight, color)
			VALUES ($1, $2, $3, $4, $5)
		`, w.Label, w.RewardType, w.Amount, w.Weight, w.Color)
		if err != nil {
			return inserted, fmt.Errorf("ошибка добавления приза %q: %w", w.Label, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// UpsertWheelReward: ID == 0 — новый сектор, иначе обновление существующего.
func (r *Repository) UpsertWheelReward(ctx context.Context, w *WheelReward) error {
	if w.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO wheel_rewards (label, reward_type, amount, weight, color)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, w.Label, w.RewardType, w.Amount, w.Weight, w.Color).Scan(&w.ID)
		if err != nil {
			return fmt.Errorf("ошибка добавления приза: %w", err)
		}
		return nil
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE wheel_rewards
		SET label = $2, reward_type = $3, amount = $4, weight = $5, color = $6
		WHERE id = $1
	`, w.ID, w.Label, w.RewardType, w.Amount, w.Weight, w.Color)
	if err != nil {
		return fmt.Errorf("ошибка обновления приза: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("приз не найден (id=%d): %w", w.ID, pgx.ErrNoRows)
	}
	return nil
}

func (r *Repository) DeleteWheelReward(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM wheel_rewards WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления приза: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ============================================================================
// Альбомы стикеров
// ============================================================================

// ListAlbums возвращает альбомы вместе со стикерами.
func (r *Repository) ListAlbums(ctx context.Context) ([]StickerAlbum, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, description, reward_spins, sticker_cost
		FROM sticker_albums
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса альбомов: %w", err)
	}
	albums, err := pgx.CollectRows(rows, pgx.RowToStructByName[StickerAlbum])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения альбомов: %w", err)
	}
	if len(albums) == 0 {
		return albums, nil
	}

	stickers, err := r.listStickers(ctx, `SELECT id, album_id, name, rarity, weight, image_url FROM stickers ORDER BY album_id, id`)
	if err != nil {
		return nil, err
	}
	byAlbum := make(map[int64][]Sticker, len(albums))
	for _, s := range stickers {
		byAlbum[s.AlbumID] = append(byAlbum[s.AlbumID], s)
	}
	for i := range albums {
		albums[i].Stickers = byAlbum[albums[i].ID]
	}
	return albums, nil
}

// GetAlbum возвращает альбом со стикерами. Нет альбома — pgx.ErrNoRows.
func (r *Repository) GetAlbum(ctx context.Context, id int64) (*StickerAlbum, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, description, reward_spins, sticker_cost
		FROM sticker_albums
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса альбома: %w", err)
	}
	album, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[StickerAlbum])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения альбома (id=%d): %w", id, err)
	}

	album.Stickers, err = r.listStickers(ctx, `SELECT id, album_id, name, rarity, weight, image_url FROM stickers WHERE album_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *Repository) listStickers(ctx context.Context, query string, args ...any) ([]Sticker, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса стикеров: %w", err)
	}
	stickers, err := pgx.CollectRows(rows, pgx.RowToStructByName[Sticker])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения стикеров: %w", err)
	}
	return stickers, nil
}

// InsertAlbums добавляет альбомы со стикерами. Альбом с занятым slug пропускается целиком.
func (r *Repository) InsertAlbums(ctx context.Context, albums []StickerAlbum) (int64, error) {
	var inserted int64
	for _, a := range albums {
		var albumID int64
		err := r.db.QueryRow(ctx, `
			INSERT INTO sticker_albums (name, slug, description, reward_spins, sticker_cost)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO NOTHING
			RETURNING id
		`, a.Name, a.Slug, a.Description, a.RewardSpins, a.StickerCost).Scan(&albumID)
		if postgres.IsNoRows(err) {
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("ошибка добавления альбома %s: %w", a.Slug, err)
		}
		inserted++

		for _, s := range a.Stickers {
			_, err := r.db.Exec(ctx, `
				INSERT INTO stickers (album_id, name, rarity, weight, image_url)
				VALUES ($1, $2, $3, $4, $5)
			`, albumID, s.Name, s.Rarity, s.Weight, s.ImageURL)
			if err != nil {
				return inserted, fmt.Errorf("ошибка добавления стикера %q: %w", s.Name, err)
			}
		}
	}
	return inserted, nil
}

// ============================================================================
// События
// ============================================================================

const eventColumns = `id, slug, name, description, start_at, end_at, target_spins, reward_type, reward_amount, event_type, banner_url`

func (r *Repository) ListEvents(ctx context.Context) ([]LiveEvent, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM live_events ORDER BY start_at, id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса событий: %w", err)
	}
	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[LiveEvent])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения событий: %w", err)
	}
	return events, nil
}

func (r *Repository) InsertEvents(ctx context.Context, events []LiveEvent) (int64, error) {
	var inserted int64
	for _, e := range events {
		tag, err := r.db.Exec(ctx, `
			INSERT INTO live_events (slug, name, description, start_at, end_at, target_spins, reward_type, reward_amount, event_type, banner_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (slug) DO NOTHING
		`, e.Slug, e.Name, e.Description, e.StartAt, e.EndAt, e.TargetSpins, e.RewardType, e.RewardAmount, e.EventType, e.BannerURL)
		if err != nil {
			return inserted, fmt.Errorf("ошибка добавления события %s: %w", e.Slug, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// UpsertEvent создаёт или обновляет событие по slug.
func (r *Repository) UpsertEvent(ctx context.Context, e *LiveEvent) error {
	query := `
		INSERT INTO live_events (slug, name, description, start_at, end_at, target_spins, reward_type, reward_amount, event_type, banner_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (slug) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description,
		    start_at = EXCLUDED.start_at, end_at = EXCLUDED.end_at,
		    target_spins = EXCLUDED.target_spins,
		    reward_type = EXCLUDED.reward_type, reward_amount = EXCLUDED.reward_amount,
		    event_type = EXCLUDED.event_type, banner_url = EXCLUDED.banner_url
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		e.Slug, e.Name, e.Description, e.StartAt, e.EndAt, e.TargetSpins,
		e.RewardType, e.RewardAmount, e.EventType, e.BannerURL,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("ошибка сохранения события %s: %w", e.Slug, err)
	}
	return nil
}

// ============================================================================
// Магазин
// ============================================================================

const shopColumns = `id, name, slug, stars, energy, bonus_wheel_tokens, description, art_url, is_active, sort_order`

func (r *Repository) ListShopItems(ctx context.Context, activeOnly bool) ([]ShopItem, error) {
	query := `SELECT ` + shopColumns + ` FROM shop_items`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sort_order, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса пакетов: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[ShopItem])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения пакетов: %w", err)
	}
	return items, nil
}

// GetShopItem — активный пакет по slug. Нет пакета — pgx.ErrNoRows.
func (r *Repository) GetShopItem(ctx context.Context, slug string) (*ShopItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+shopColumns+` FROM shop_items WHERE slug = $1 AND is_active`, slug)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса пакета: %w", err)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[ShopItem])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения пакета %s: %w", slug, err)
	}
	return &item, nil
}

func (r *Repository) InsertShopItems(ctx context.Context, items []ShopItem) (int64, error) {
	var inserted int64
	for _, it := range items {
		tag, err := r.db.Exec(ctx, `
			INSERT INTO shop_items (name, slug, stars, energy, bonus_wheel_tokens, description, art_url, is_active, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (slug) DO NOTHING
		`, it.Name, it.Slug, it.Stars, it.Energy, it.BonusWheelTokens, it.Description, it.ArtURL, it.IsActive, it.SortOrder)
		if err != nil {
			return inserted, fmt.Errorf("ошибка добавления пакета %s: %w", it.Slug, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// UpsertShopItem создаёт или обновляет пакет по slug.
func (r *Repository) UpsertShopItem(ctx context.Context, it *ShopItem) error {
	query := `
		INSERT INTO shop_items (name, slug, stars, energy, bonus_wheel_tokens, description, art_url, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (slug) DO UPDATE
		SET name = EXCLUDED.name, stars = EXCLUDED.stars, energy = EXCLUDED.energy,
		    bonus_wheel_tokens = EXCLUDED.bonus_wheel_tokens, description = EXCLUDED.description,
		    art_url = EXCLUDED.art_url, is_active = EXCLUDED.is_active, sort_order = EXCLUDED.sort_order
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		it.Name, it.Slug, it.Stars, it.Energy, it.BonusWheelTokens,
		it.Description, it.ArtURL, it.IsActive, it.SortOrder,
	).Scan(&it.ID)
	if err != nil {
		return fmt.Errorf("ошибка сохранения пакета %s: %w", it.Slug, err)
	}
	return nil
}

func (r *Repository) SetShopItemActive(ctx context.Context, slug string, active bool) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE shop_items SET is_active = $2 WHERE slug = $1`, slug, active)
	if err != nil {
		return false, fmt.Errorf("ошибка обновления пакета: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
