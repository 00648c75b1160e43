package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/db/postgres"
)

// Provisioner гарантирует, что у каждого каталога есть строки.
// После первой успешной проверки вид каталога помечается как засеянный,
// и дальнейшие вызовы обходятся без запроса в БД. Изменения из админки
// сбрасывают отметку через Invalidate.
type Provisioner struct {
	pool *pgxpool.Pool
	repo *Repository
	now  func() time.Time

	mu     sync.Mutex
	seeded map[Kind]bool
}

func NewProvisioner(pool *pgxpool.Pool) *Provisioner {
	return &Provisioner{
		pool:   pool,
		repo:   NewRepository(pool),
		now:    time.Now,
		seeded: make(map[Kind]bool, len(Kinds)),
	}
}

// Repository — репозиторий каталогов для админки и сервисов.
func (p *Provisioner) Repository() *Repository {
	return p.repo
}

// EnsureAll засевает все каталоги. Вызывается при старте.
func (p *Provisioner) EnsureAll(ctx context.Context) error {
	for _, kind := range Kinds {
		if err := p.Ensure(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

// Ensure засевает каталог kind стартовым набором, если видимых строк нет.
func (p *Provisioner) Ensure(ctx context.Context, kind Kind) error {
	if p.isSeeded(kind) {
		return nil
	}

	var (
		attempted bool
		inserted  int64
	)
	err := postgres.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		repo := p.repo.WithTx(tx)
		if err := repo.LockSeed(ctx, kind); err != nil {
			return err
		}

		n, err := repo.Count(ctx, kind)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		attempted = true
		if inserted, err = p.seed(ctx, repo, kind); err != nil {
			return err
		}
		if inserted == 0 {
			return nil
		}
		return repo.RecordSeed(ctx, kind, DefaultsVersion)
	})
	if err != nil {
		return fmt.Errorf("ошибка засева каталога %s: %w", kind, err)
	}
	if attempted {
		reportSeed(kind, inserted)
	}

	p.mu.Lock()
	p.seeded[kind] = true
	p.mu.Unlock()
	return nil
}

// Invalidate сбрасывает отметку о засеве: следующий вызов снова проверит БД.
func (p *Provisioner) Invalidate(kind Kind) {
	p.mu.Lock()
	delete(p.seeded, kind)
	p.mu.Unlock()
}

func (p *Provisioner) isSeeded(kind Kind) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seeded[kind]
}

// reportSeed логирует итог засева. Ноль строк значит, что стартовый набор
// уже лежит в БД, но скрыт (например, все символы выключены в админке).
func reportSeed(kind Kind, inserted int64) {
	if inserted == 0 {
		log.WithField("kind", kind).Warn("Каталог пуст, стартовый набор уже есть в БД: засев пропущен")
		return
	}
	log.WithFields(log.Fields{
		"kind":    kind,
		"rows":    inserted,
		"version": DefaultsVersion,
	}).Info("Каталог засеян стартовым набором")
}

func (p *Provisioner) seed(ctx context.Context, repo *Repository, kind Kind) (int64, error) {
	switch kind {
	case KindSymbols:
		return repo.InsertSymbols(ctx, DefaultSymbols())
	case KindWheel:
		return repo.InsertWheelRewards(ctx, DefaultWheelRewards())
	case KindAlbums:
		return repo.InsertAlbums(ctx, DefaultAlbums())
	case KindEvents:
		return repo.InsertEvents(ctx, DefaultEvents(p.now().UTC()))
	case KindShop:
		return repo.InsertShopItems(ctx, DefaultShopItems())
	}
	return 0, fmt.Errorf("неизвестный каталог %q", kind)
}

// ============================================================================
// Чтение каталогов с засевом
// ============================================================================

// Symbols — включённые символы слота.
func (p *Provisioner) Symbols(ctx context.Context) ([]SlotSymbol, error) {
	if err := p.Ensure(ctx, KindSymbols); err != nil {
		return nil, err
	}
	return p.repo.ListSymbols(ctx, true)
}

func (p *Provisioner) WheelRewards(ctx context.Context) ([]WheelReward, error) {
	if err := p.Ensure(ctx, KindWheel); err != nil {
		return nil, err
	}
	return p.repo.ListWheelRewards(ctx)
}

func (p *Provisioner) Albums(ctx context.Context) ([]StickerAlbum, error) {
	if err := p.Ensure(ctx, KindAlbums); err != nil {
		return nil, err
	}
	return p.repo.ListAlbums(ctx)
}

func (p *Provisioner) Album(ctx context.Context, id int64) (*StickerAlbum, error) {
	if err := p.Ensure(ctx, KindAlbums); err != nil {
		return nil, err
	}
	return p.repo.GetAlbum(ctx, id)
}

func (p *Provisioner) Events(ctx context.Context) ([]LiveEvent, error) {
	if err := p.Ensure(ctx, KindEvents); err != nil {
		return nil, err
	}
	return p.repo.ListEvents(ctx)
}

// ShopItems — активные пакеты магазина.
func (p *Provisioner) ShopItems(ctx context.Context) ([]ShopItem, error) {
	if err := p.Ensure(ctx, KindShop); err != nil {
		return nil, err
	}
	return p.repo.ListShopItems(ctx, true)
}

func (p *Provisioner) ShopItem(ctx context.Context, slug string) (*ShopItem, error) {
	if err := p.Ensure(ctx, KindShop); err != nil {
		return nil, err
	}
	return p.repo.GetShopItem(ctx, slug)
}
