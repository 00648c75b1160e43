package httpapi

import (
	"context"
	"maps"
	"net/http"
	"time"

	"serotonyl.ru/sharkspin/internal/features/players"
)

// playerView — балансы игрока в ответах API.
type playerView struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	DisplayName      string     `json:"displayName"`
	Coins            int64      `json:"coins"`
	Energy           int64      `json:"energy"`
	WheelTokens      int64      `json:"wheelTokens"`
	FreeStickerPacks int64      `json:"freeStickerPacks"`
	XP               int64      `json:"xp"`
	Level            int        `json:"level"`
	TotalEarned      int64      `json:"totalEarned"`
	WeeklyCoins      int64      `json:"weeklyCoins"`
	LifetimeSpins    int64      `json:"lifetimeSpins"`
	LastWheelSpinAt  *time.Time `json:"lastWheelSpinAt"`
}

func newPlayerView(p *players.Player) playerView {
	return playerView{
		ID:               p.ID,
		Username:         p.Username,
		DisplayName:      p.DisplayName(),
		Coins:            p.Coins,
		Energy:           p.Energy,
		WheelTokens:      p.WheelTokens,
		FreeStickerPacks: p.FreeStickerPacks,
		XP:               p.XP,
		Level:            p.Level,
		TotalEarned:      p.TotalEarned,
		WeeklyCoins:      p.WeeklyCoins,
		LifetimeSpins:    p.LifetimeSpins,
		LastWheelSpinAt:  p.LastWheelSpinAt,
	}
}

// state — общая часть ответа: балансы, уровень, ежедневка и колесо.
func (s *Server) state(ctx context.Context, p *players.Player) (map[string]any, error) {
	summary, err := s.Daily.Summary(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"player":       newPlayerView(p),
		"levelSummary": s.Levels.Summarize(p),
		"daily":        summary,
		"wheel":        s.Wheel.Status(p),
	}, nil
}

// respondState отдаёт fields вместе с состоянием игрока.
func (s *Server) respondState(w http.ResponseWriter, r *http.Request, p *players.Player, fields map[string]any) {
	resp, err := s.state(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	maps.Copy(resp, fields)
	writeOK(w, resp)
}

// loadPlayer читает игрока и сразу отвечает ошибкой, если не вышло.
func (s *Server) loadPlayer(w http.ResponseWriter, r *http.Request, playerID int64) (*players.Player, bool) {
	p, err := s.Players.Get(r.Context(), playerID)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return p, true
}
