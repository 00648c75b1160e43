package httpapi

import (
	"net/http"
	"strconv"

	"serotonyl.ru/sharkspin/internal/common"
)

const historyLimit = 50

func (s *Server) me(w http.ResponseWriter, r *http.Request, playerID int64) {
	p, ok := s.loadPlayer(w, r, playerID)
	if !ok {
		return
	}
	s.respondState(w, r, p, nil)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request, playerID int64) {
	entries, err := s.Ledger.History(r.Context(), playerID, historyLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	payments, err := s.Shop.Recent(r.Context(), playerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"ledger": entries, "payments": payments})
}

func (s *Server) slotCatalog(w http.ResponseWriter, r *http.Request, playerID int64) {
	p, ok := s.loadPlayer(w, r, playerID)
	if !ok {
		return
	}
	symbols, err := s.Slots.Symbols(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	recent, err := s.Slots.Recent(r.Context(), playerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondState(w, r, p, map[string]any{"symbols": symbols, "recent": recent})
}

func (s *Server) spin(w http.ResponseWriter, r *http.Request, playerID int64) {
	var req struct {
		Multiplier int `json:"multiplier"`
	}
	if err := parseBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Multiplier == 0 {
		req.Multiplier = 1
	}

	out, err := s.Slots.Spin(r.Context(), playerID, req.Multiplier)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondState(w, r, out.Player, map[string]any{
		"payout":      out.Rewards.Coins,
		"result":      out.SpinResult,
		"levelGrants": out.LevelGrants,
		"eventClaims": out.EventClaims,
	})
}

func (s *Server) wheelCatalog(w http.ResponseWriter, r *http.Request, playerID int64) {
	p, ok := s.loadPlayer(w, r, playerID)
	if !ok {
		return
	}
	prizes, err := s.Wheel.Prizes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondState(w, r, p, map[string]any{"rewards": prizes})
}

func (s *Server) wheelSpin(w http.ResponseWriter, r *http.Request, playerID int64) {
	res, p, err := s.Wheel.Spin(r.Context(), playerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondState(w, r, p, map[string]any{
		"reward":      res.Prize,
		"free":        res.Free,
		"nextFreeAt":  res.NextFreeAt,
		"levelGrants": res.LevelGrants,
	})
}

func (s *Server) stickerAlbums(w http.ResponseWriter, r *http.Request, playerID int64) {
	p, ok := s.loadPlayer(w, r, playerID)
	if !ok {
		return
	}
	col, err := s.Stickers.Albums(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondState(w, r, p, map[string]any{
		"albums":     col.Albums,
		"duplicates": col.Duplicates,
		"trade":      col.Trade,
	})
}

func (s *Server) stickerAlbum(w http.ResponseWriter, r *http.Request, playerID int64) {
	albumID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, r, common.ErrAlbumNotFound)
		return
	}
	p, ok := s.loadPlayer(w, r, playerID)
	if !ok {
		return
	}
	view, err := s.Stickers.Album(r.Context(), p, albumID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"album": view})
}

func (s *Server) openPack(w http.ResponseWriter, r *http.Request, playerID int64) {
	var req struct {
		AlbumID int64 `json:"albumId"`
	}
	if err := parseBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, p, err := s.Stickers.OpenPack(r.Context(), playerID, req.AlbumID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondState(w, r, p, map[string]any{
		"sticker":       res.Grant,
		"usedFreePack":  res.UsedFreePack,
		"coinsSpent":    res.CoinsSpent,
		"albumRewarded": len(res.CompletionReward) > 0,
		"albumReward":   res.CompletionReward,
	})
}

func (s *Server) tradeStickers(w http.ResponseWriter, r *http.Request, playerID int64) {
	var req struct {
		RewardType string `json:"rewardType"`
		Sets       int    `json:"sets"`
	}
	if err := parseBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.RewardType == "" {
		req.RewardType = "coins"
	}
	if req.Sets == 0 {
		req.Sets = 1
	}
	res, p, err := s.Stickers.Trade(r.Context(), playerID, req.RewardType, req.Sets)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondState(w, r, p, map[string]any{"trade": res})
}

func (s *Server) eventList(w http.ResponseWriter, r *http.Request, playerID int64) {
	views, err := s.Events.Overview(r.Context(), playerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"events": views})
}

func (s *Server) dailyOverview(w http.ResponseWriter, r *http.Request, playerID int64) {
	p, ok := s.loadPlayer(w, r, playerID)
	if !ok {
		return
	}
	s.respondState(w, r, p, nil)
}

func (s *Server) dailyClaim(w http.ResponseWriter, r *http.Request, playerID int64) {
	res, p, err := s.Daily.Claim(r.Context(), playerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondState(w, r, p, map[string]any{
		"reward":      res.Reward,
		"streak":      res.Streak,
		"streakReset": res.StreakReset,
		"streakBonus": res.Reward.BonusEnergy,
		"levelGrants": res.LevelGrants,
	})
}

func (s *Server) leaderboards(w http.ResponseWriter, r *http.Request, _ int64) {
	boards, err := s.Leaderboard.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"leaderboard": boards})
}

func (s *Server) store(w http.ResponseWriter, r *http.Request, playerID int64) {
	p, ok := s.loadPlayer(w, r, playerID)
	if !ok {
		return
	}
	items, err := s.Shop.Items(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondState(w, r, p, map[string]any{"starPackages": items})
}

func (s *Server) storePurchase(w http.ResponseWriter, r *http.Request, playerID int64) {
	var req struct {
		PackID string `json:"packId"`
	}
	if err := parseBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	purchase, p, err := s.Shop.PurchaseWeb(r.Context(), playerID, req.PackID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondState(w, r, p, map[string]any{
		"pack":      purchase.Item,
		"reference": purchase.Reference,
		"message":   purchase.Message(),
	})
}

func (s *Server) redeem(w http.ResponseWriter, r *http.Request, playerID int64) {
	var req struct {
		Ref string `json:"ref"`
	}
	if err := parseBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, p, err := s.Links.Redeem(r.Context(), playerID, req.Ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondState(w, r, p, map[string]any{
		"reward":      res.Reward,
		"usesLeft":    res.UsesLeft,
		"message":     res.Message,
		"levelGrants": res.LevelGrants,
	})
}

// redeemRedirect открывает веб-ссылку награды в мини-приложении.
func (s *Server) redeemRedirect(w http.ResponseWriter, r *http.Request) {
	deepLink, err := s.Links.DeepLinkFor(r.PathValue("token"))
	if err != nil {
		http.Error(w, common.ErrLinkInvalid.Error(), http.StatusNotFound)
		return
	}
	http.Redirect(w, r, deepLink, http.StatusFound)
}
