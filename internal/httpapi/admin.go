package httpapi

import (
	"net/http"
	"strconv"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/admin"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/leaderboard"
	"serotonyl.ru/sharkspin/internal/features/links"
)

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrInvalidInput
	}
	return id, nil
}

func (s *Server) adminOverview(w http.ResponseWriter, r *http.Request) {
	o, err := s.Admin.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"overview": o})
}

func (s *Server) adminSaveSymbol(w http.ResponseWriter, r *http.Request) {
	sym := catalog.SlotSymbol{IsEnabled: true}
	if err := parseBody(r, &sym); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.Admin.SaveSymbol(r.Context(), &sym); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"symbol": sym})
}

func (s *Server) adminDisableSymbol(w http.ResponseWriter, r *http.Request) {
	s.adminSetSymbol(w, r, false)
}

func (s *Server) adminEnableSymbol(w http.ResponseWriter, r *http.Request) {
	s.adminSetSymbol(w, r, true)
}

func (s *Server) adminSetSymbol(w http.ResponseWriter, r *http.Request, enabled bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.Admin.SetSymbolEnabled(r.Context(), id, enabled); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"id": id, "enabled": enabled})
}

func (s *Server) adminSaveWheelReward(w http.ResponseWriter, r *http.Request) {
	var reward catalog.WheelReward
	if err := parseBody(r, &reward); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.Admin.SaveWheelReward(r.Context(), &reward); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"reward": reward})
}

func (s *Server) adminDeleteWheelReward(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.Admin.DeleteWheelReward(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"id": id})
}

func (s *Server) adminSaveEvent(w http.ResponseWriter, r *http.Request) {
	var ev catalog.LiveEvent
	if err := parseBody(r, &ev); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.Admin.SaveEvent(r.Context(), &ev); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"event": ev})
}

func (s *Server) adminSaveShopItem(w http.ResponseWriter, r *http.Request) {
	item := catalog.ShopItem{IsActive: true}
	if err := parseBody(r, &item); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.Admin.SaveShopItem(r.Context(), &item); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"item": item})
}

func (s *Server) adminDisableShopItem(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if err := s.Admin.SetShopItemActive(r.Context(), slug, false); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"slug": slug})
}

func (s *Server) adminListLinks(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.Links.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"links": list})
}

func (s *Server) adminCreateLink(w http.ResponseWriter, r *http.Request) {
	in := links.CreateInput{Uses: 1}
	if err := parseBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.CreatedBy == "" {
		in.CreatedBy = "admin-api"
	}
	created, err := s.Links.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{
		"link":     created.Link,
		"url":      created.WebURL,
		"deepLink": created.DeepLink,
		"summary":  created.Summary,
	})
}

func (s *Server) adminDeactivateLink(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if err := s.Links.Deactivate(r.Context(), code); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"code": code})
}

func (s *Server) adminListBroadcasts(w http.ResponseWriter, r *http.Request) {
	list, err := s.Admin.Broadcasts(r.Context(), 50)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"broadcasts": list})
}

func (s *Server) adminBroadcast(w http.ResponseWriter, r *http.Request) {
	var in admin.BroadcastInput
	if err := parseBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := s.Admin.Broadcast(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"broadcast": b})
}

func (s *Server) adminRewardLeaderboard(w http.ResponseWriter, r *http.Request) {
	var in leaderboard.RewardInput
	if err := parseBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.Leaderboard.Reward(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"result": res})
}

func (s *Server) adminResetLeaderboard(w http.ResponseWriter, r *http.Request) {
	n, err := s.Leaderboard.ResetWeekly(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"players": n})
}
