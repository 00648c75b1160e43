// Package httpapi — JSON API мини-приложения и админки.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/auth"
	"serotonyl.ru/sharkspin/internal/config"
	"serotonyl.ru/sharkspin/internal/features/admin"
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
	"serotonyl.ru/sharkspin/internal/ratelimit"
)

// Deps — сервисы, которые обслуживает API.
type Deps struct {
	Config      *config.Config
	Sessions    *auth.Sessions
	InitData    *auth.InitDataValidator
	Players     *players.Service
	Levels      *progression.Tracker
	Ledger      *economy.Service
	Slots       *slots.Service
	Wheel       *wheel.Service
	Stickers    *stickers.Service
	Events      *events.Service
	Daily       *daily.Service
	Leaderboard *leaderboard.Service
	Shop        *shop.Service
	Links       *links.Service
	Admin       *admin.Service
	Limiter     *ratelimit.Limiter
}

type Server struct {
	Deps
	http *http.Server
}

func NewServer(deps Deps) *Server {
	s := &Server{Deps: deps}
	mux := http.NewServeMux()
	s.Register(mux)
	s.http = &http.Server{
		Addr:         deps.Config.HTTPAddr,
		Handler:      withRecovery(withLogging(mux)),
		ReadTimeout:  deps.Config.HTTPReadTimeout,
		WriteTimeout: deps.Config.HTTPWriteTimeout,
	}
	return s
}

// Register подключает маршруты к mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /redeem/{token}", s.redeemRedirect)

	mux.HandleFunc("POST /api/auth", s.login)
	mux.HandleFunc("GET /api/me", s.player(s.me))
	mux.HandleFunc("GET /api/history", s.player(s.history))
	mux.HandleFunc("GET /api/slots", s.player(s.slotCatalog))
	mux.HandleFunc("POST /api/spin", s.player(s.spin))
	mux.HandleFunc("GET /api/wheel", s.player(s.wheelCatalog))
	mux.HandleFunc("POST /api/wheel/spin", s.player(s.wheelSpin))
	mux.HandleFunc("GET /api/stickers", s.player(s.stickerAlbums))
	mux.HandleFunc("GET /api/stickers/{id}", s.player(s.stickerAlbum))
	mux.HandleFunc("POST /api/stickers/open", s.player(s.openPack))
	mux.HandleFunc("POST /api/stickers/trade", s.player(s.tradeStickers))
	mux.HandleFunc("GET /api/events", s.player(s.eventList))
	mux.HandleFunc("GET /api/daily", s.player(s.dailyOverview))
	mux.HandleFunc("POST /api/daily/claim", s.player(s.dailyClaim))
	mux.HandleFunc("GET /api/leaderboard", s.player(s.leaderboards))
	mux.HandleFunc("GET /api/store", s.player(s.store))
	mux.HandleFunc("POST /api/store/purchase", s.player(s.storePurchase))
	mux.HandleFunc("POST /api/redeem", s.player(s.redeem))

	mux.HandleFunc("GET /api/admin/overview", s.admin(s.adminOverview))
	mux.HandleFunc("POST /api/admin/slot-symbols", s.admin(s.adminSaveSymbol))
	mux.HandleFunc("DELETE /api/admin/slot-symbols/{id}", s.admin(s.adminDisableSymbol))
	mux.HandleFunc("POST /api/admin/slot-symbols/{id}/enable", s.admin(s.adminEnableSymbol))
	mux.HandleFunc("POST /api/admin/wheel-rewards", s.admin(s.adminSaveWheelReward))
	mux.HandleFunc("DELETE /api/admin/wheel-rewards/{id}", s.admin(s.adminDeleteWheelReward))
	mux.HandleFunc("POST /api/admin/events", s.admin(s.adminSaveEvent))
	mux.HandleFunc("POST /api/admin/shop-items", s.admin(s.adminSaveShopItem))
	mux.HandleFunc("DELETE /api/admin/shop-items/{slug}", s.admin(s.adminDisableShopItem))
	mux.HandleFunc("GET /api/admin/reward-links", s.admin(s.adminListLinks))
	mux.HandleFunc("POST /api/admin/reward-links", s.admin(s.adminCreateLink))
	mux.HandleFunc("DELETE /api/admin/reward-links/{code}", s.admin(s.adminDeactivateLink))
	mux.HandleFunc("GET /api/admin/broadcasts", s.admin(s.adminListBroadcasts))
	mux.HandleFunc("POST /api/admin/broadcasts", s.admin(s.adminBroadcast))
	mux.HandleFunc("POST /api/admin/leaderboard/reward", s.admin(s.adminRewardLeaderboard))
	mux.HandleFunc("POST /api/admin/leaderboard/reset", s.admin(s.adminResetLeaderboard))
}

// Run слушает адрес до отмены ctx, затем мягко останавливает сервер.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.http.Addr).Info("HTTP API запущен")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.HTTPShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("HTTP API остановлен")
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "time": time.Now().UTC()})
}
