// Package stickers — service.go: открытие паков, обмен и просмотр альбомов.
package stickers

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/db/postgres"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
)

type Service struct {
	pool    *pgxpool.Pool
	repo    *Repository
	players *players.Repository
	catalog *catalog.Provisioner
	engine  *Engine
}

func NewService(pool *pgxpool.Pool, playersRepo *players.Repository, provisioner *catalog.Provisioner, engine *Engine) *Service {
	return &Service{
		pool:    pool,
		repo:    NewRepository(pool),
		players: playersRepo,
		catalog: provisioner,
		engine:  engine,
	}
}

func (s *Service) album(ctx context.Context, albumID int64) (*catalog.StickerAlbum, error) {
	album, err := s.catalog.Album(ctx, albumID)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, common.ErrAlbumNotFound
		}
		return nil, fmt.Errorf("ошибка загрузки альбома: %w", err)
	}
	return album, nil
}

// Albums — все альбомы с коллекцией игрока и условиями обмена.
func (s *Service) Albums(ctx context.Context, p *players.Player) (*CollectionView, error) {
	albums, err := s.catalog.Albums(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки альбомов: %w", err)
	}
	col, err := s.repo.Collection(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	done, err := s.repo.Completions(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	out := &CollectionView{
		Albums:     make([]AlbumView, 0, len(albums)),
		Duplicates: col.Duplicates(),
		FreePacks:  p.FreeStickerPacks,
	}
	for i := range albums {
		out.Albums = append(out.Albums, s.engine.View(&albums[i], col, done, p.FreeStickerPacks))
	}
	out.Trade = s.engine.Offer(out.Duplicates)
	return out, nil
}

// Album — один альбом с коллекцией игрока.
func (s *Service) Album(ctx context.Context, p *players.Player, albumID int64) (*AlbumView, error) {
	album, err := s.album(ctx, albumID)
	if err != nil {
		return nil, err
	}
	col, err := s.repo.Collection(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	done, err := s.repo.Completions(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	v := s.engine.View(album, col, done, p.FreeStickerPacks)
	return &v, nil
}

// OpenPack открывает пак альбома albumID.
func (s *Service) OpenPack(ctx context.Context, playerID, albumID int64) (*PackResult, *players.Player, error) {
	album, err := s.album(ctx, albumID)
	if err != nil {
		return nil, nil, err
	}

	var (
		result *PackResult
		player *players.Player
	)
	err = postgres.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		playersRepo := s.players.WithTx(tx)
		p, err := players.Lock(ctx, playersRepo, playerID)
		if err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		col, err := repo.Collection(ctx, p.ID)
		if err != nil {
			return err
		}
		done, err := repo.Completions(ctx, p.ID)
		if err != nil {
			return err
		}

		res, err := s.engine.OpenPack(p, col, album, done)
		if err != nil {
			return err
		}

		if err := repo.SaveQuantities(ctx, p.ID, col, res.Sticker.ID); err != nil {
			return err
		}
		if res.CompletionReward != nil {
			inserted, err := repo.InsertCompletion(ctx, p.ID, album.ID)
			if err != nil {
				return err
			}
			if !inserted {
				// Отметка уже есть: награда не выдаётся повторно
				return fmt.Errorf("альбом %d уже отмечен собранным", album.ID)
			}
			entries := economy.Entries(p.ID, economy.SourceAlbum, "Album completed: "+album.Name, res.CompletionReward...)
			if err := economy.NewRepository(tx).Record(ctx, entries...); err != nil {
				return err
			}
		}
		if err := playersRepo.Save(ctx, p); err != nil {
			return err
		}

		result, player = res, p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	fields := log.Fields{
		"player_id": playerID,
		"album_id":  albumID,
		"sticker":   result.Sticker.Name,
		"free_pack": result.UsedFreePack,
	}
	if result.CompletionReward != nil {
		log.WithFields(fields).Info("Альбом собран")
	} else {
		log.WithFields(fields).Debug("Пак открыт")
	}
	return result, player, nil
}

// Trade меняет дубликаты на монеты или энергию.
func (s *Service) Trade(ctx context.Context, playerID int64, rewardType string, sets int) (*TradeResult, *players.Player, error) {
	var (
		result *TradeResult
		player *players.Player
	)
	err := postgres.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		playersRepo := s.players.WithTx(tx)
		p, err := players.Lock(ctx, playersRepo, playerID)
		if err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		col, err := repo.Collection(ctx, p.ID)
		if err != nil {
			return err
		}

		res, err := s.engine.Trade(p, col, rewardType, sets)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(res.Consumed))
		for id := range res.Consumed {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		if err := repo.SaveQuantities(ctx, p.ID, col, ids...); err != nil {
			return err
		}
		if err := playersRepo.Save(ctx, p); err != nil {
			return err
		}

		entries := economy.Entries(p.ID, economy.SourceTrade,
			fmt.Sprintf("Traded %d sticker %s", sets, common.Pluralize(int64(sets), "set", "sets")), res.Reward)
		for _, g := range res.LevelGrants {
			entries = append(entries, economy.Entries(p.ID, economy.SourceLevel, g.Description, g.Reward)...)
		}
		if err := economy.NewRepository(tx).Record(ctx, entries...); err != nil {
			return err
		}

		result, player = res, p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{
		"player_id": playerID,
		"sets":      sets,
		"reward":    result.Reward.String(),
	}).Info("Обмен стикеров")
	return result, player, nil
}
