// Package admin — service.go содержит проверку админ-секрета, сводку и рассылки.
package admin

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/players"
	"serotonyl.ru/sharkspin/internal/features/shop"
	"serotonyl.ru/sharkspin/internal/features/slots"
	"serotonyl.ru/sharkspin/internal/features/wheel"
)

const (
	// 5 неудачных попыток за 15 минут = блокировка источника
	maxFailedAttempts = 5
	lockoutPeriod     = 15 * time.Minute
	// Проверенный секрет не пересчитываем argon2 до истечения срока
	verifiedTTL = 10 * time.Minute
	// Пауза между сообщениями рассылки (лимит Telegram ~30 сообщений/сек)
	broadcastPace = 40 * time.Millisecond
)

// Sender доставляет рассылку в личный чат. Реализуется ботом.
type Sender interface {
	SendBroadcast(ctx context.Context, chatID int64, b *Broadcast) error
}

// Service управляет админ-API.
type Service struct {
	repo         *Repository
	players      *players.Service
	provisioner  *catalog.Provisioner
	slots        *slots.Service
	wheel        *wheel.Service
	shop         *shop.Service
	passwordHash string

	verifiedMu sync.Mutex
	verified   map[[32]byte]time.Time

	senderMu sync.RWMutex
	sender   Sender
	wg       sync.WaitGroup
}

// NewService создаёт сервис админки.
func NewService(
	pool *pgxpool.Pool,
	playersService *players.Service,
	provisioner *catalog.Provisioner,
	slotsService *slots.Service,
	wheelService *wheel.Service,
	shopService *shop.Service,
	passwordHash string,
) *Service {
	return &Service{
		repo:         NewRepository(pool),
		players:      playersService,
		provisioner:  provisioner,
		slots:        slotsService,
		wheel:        wheelService,
		shop:         shopService,
		passwordHash: passwordHash,
		verified:     make(map[[32]byte]time.Time),
	}
}

// SetSender подключает доставку рассылок. Без него рассылки только сохраняются.
func (s *Service) SetSender(sender Sender) {
	s.senderMu.Lock()
	s.sender = sender
	s.senderMu.Unlock()
}

// Authenticate проверяет X-Admin-Secret по хешу Argon2id.
// Включает защиту от brute-force: maxFailedAttempts неудач за lockoutPeriod блокируют источник.
func (s *Service) Authenticate(ctx context.Context, source, secret string) error {
	if secret == "" {
		return common.ErrUnauthorized
	}
	digest := sha256.Sum256([]byte(secret))
	if s.recentlyVerified(digest) {
		return nil
	}

	attempts, err := s.repo.GetRecentFailures(ctx, source, lockoutPeriod)
	if err != nil {
		return err
	}
	if attempts >= maxFailedAttempts {
		return fmt.Errorf("слишком много попыток с %s: %w", source, common.ErrUnauthorized)
	}

	match := verifyArgon2id(secret, s.passwordHash)
	if err := s.repo.LogAttempt(ctx, source, match); err != nil {
		log.WithError(err).Warn("Не удалось записать попытку входа")
	}
	if !match {
		log.WithField("source", source).Warn("Неверный админ-секрет")
		return common.ErrWrongPassword
	}

	s.verifiedMu.Lock()
	s.verified[digest] = time.Now().Add(verifiedTTL)
	s.verifiedMu.Unlock()
	return nil
}

func (s *Service) recentlyVerified(digest [32]byte) bool {
	s.verifiedMu.Lock()
	defer s.verifiedMu.Unlock()
	until, ok := s.verified[digest]
	if !ok {
		return false
	}
	if time.Now().After(until) {
		delete(s.verified, digest)
		return false
	}
	return true
}

// Overview собирает сводку по игре.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var (
		o   Overview
		err error
	)
	if o.Players, err = s.players.Count(ctx); err != nil {
		return nil, err
	}
	spins, err := s.slots.Stats(ctx)
	if err != nil {
		return nil, err
	}
	o.SlotSpins = spins.TotalSpins
	o.HouseEdgeHits = spins.HouseEdgeHits
	o.BiggestPayout = spins.BiggestPayout
	o.CoinsPerEnergy = spins.CoinsPerEnergy()

	if o.WheelSpins, err = s.wheel.Count(ctx); err != nil {
		return nil, err
	}
	payments, err := s.shop.Stats(ctx)
	if err != nil {
		return nil, err
	}
	o.Payments = payments.Payments
	o.StarsEarned = payments.Stars

	if o.Broadcasts, err = s.repo.RecentBroadcasts(ctx, 10); err != nil {
		return nil, err
	}
	return &o, nil
}

// Broadcasts — последние рассылки.
func (s *Service) Broadcasts(ctx context.Context, limit int) ([]*Broadcast, error) {
	return s.repo.RecentBroadcasts(ctx, limit)
}

// Broadcast сохраняет рассылку и запускает доставку в фоне.
func (s *Service) Broadcast(ctx context.Context, in BroadcastInput) (*Broadcast, error) {
	b := &Broadcast{
		Title:     strings.TrimSpace(in.Title),
		Body:      strings.TrimSpace(in.Body),
		RewardURL: strings.TrimSpace(in.RewardURL),
		Status:    BroadcastPending,
	}
	if b.Body == "" {
		return nil, common.ErrInvalidInput
	}
	if err := s.repo.CreateBroadcast(ctx, b); err != nil {
		return nil, err
	}

	s.senderMu.RLock()
	sender := s.sender
	s.senderMu.RUnlock()
	if sender == nil {
		log.WithField("broadcast_id", b.ID).Warn("Бот выключен, рассылка сохранена без доставки")
		return b, nil
	}

	// Доставка переживает HTTP-запрос, который её создал
	deliverCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.deliver(deliverCtx, sender, b)
	}()
	return b, nil
}

// Wait ждёт завершения запущенных рассылок.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) deliver(ctx context.Context, sender Sender, b *Broadcast) {
	all, err := s.players.ListAll(ctx)
	if err != nil {
		log.WithError(err).WithField("broadcast_id", b.ID).Error("Не удалось получить игроков для рассылки")
		return
	}
	chats := recipients(all)
	if err := s.repo.StartBroadcast(ctx, b.ID, len(chats)); err != nil {
		log.WithError(err).Error("Ошибка старта рассылки")
	}

	sent, failed := 0, 0
	ticker := time.NewTicker(broadcastPace)
	defer ticker.Stop()
	for _, chatID := range chats {
		<-ticker.C
		if err := sender.SendBroadcast(ctx, chatID, b); err != nil {
			failed++
			log.WithError(err).WithField("chat_id", chatID).Debug("Сообщение рассылки не доставлено")
			continue
		}
		sent++
	}

	if err := s.repo.FinishBroadcast(ctx, b.ID, sent, failed); err != nil {
		log.WithError(err).Error("Ошибка завершения рассылки")
	}
	log.WithFields(log.Fields{
		"broadcast_id": b.ID,
		"sent":         sent,
		"failed":       failed,
	}).Info("Рассылка завершена")
}

// recipients — уникальные личные чаты игроков.
func recipients(all []*players.Player) []int64 {
	seen := make(map[int64]bool, len(all))
	out := make([]int64, 0, len(all))
	for _, p := range all {
		id, ok := p.ChatID()
		if !ok || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// --- Криптографические утилиты ---

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравниваем в постоянном времени (защита от timing attack)
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}
