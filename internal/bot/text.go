package bot

import (
	"fmt"
	"strconv"
	"strings"

	"serotonyl.ru/sharkspin/internal/common"
	"serotonyl.ru/sharkspin/internal/features/catalog"
	"serotonyl.ru/sharkspin/internal/features/economy"
	"serotonyl.ru/sharkspin/internal/features/players"
)

// Параметры /start
const (
	startBuyPrefix    = "buy_"
	startRedeemPrefix = "redeem_"
	buyCallbackPrefix = "buy:"
)

const rewardUsage = "Usage: /reward <coins|energy|spins|wheel_tokens|sticker_pack> <amount> <uses>"

func welcomeText() string {
	return "🦈 Welcome to SharkSpin!\n\n" +
		"Spin the reels, collect stickers and climb the leaderboard.\n\n" +
		"/play: open the game\n" +
		"/me: your balances\n" +
		"/buy: Star Shop packs"
}

func reminderText(streak int) string {
	return fmt.Sprintf("🔥 Your %d-day streak is waiting! Claim today's reward before it resets.", streak)
}

func balanceText(p *players.Player) string {
	return fmt.Sprintf("🦈 %s\nLevel: %d\nCoins: %s\nEnergy: %s\nWheel Tokens: %s\nSticker Packs: %s",
		p.DisplayName(),
		p.Level,
		common.FormatNumber(p.Coins),
		common.FormatNumber(p.Energy),
		common.FormatNumber(p.WheelTokens),
		common.FormatNumber(p.FreeStickerPacks),
	)
}

// shopText — список пакетов для /buy.
func shopText(items []catalog.ShopItem) string {
	if len(items) == 0 {
		return "⚠️ The Star Shop is empty right now."
	}
	var sb strings.Builder
	sb.WriteString("⭐ Star Shop Packs:\n")
	for _, it := range items {
		fmt.Fprintf(&sb, "\n• %s: %d⚡", it.Name, it.Energy)
		if it.BonusWheelTokens > 0 {
			fmt.Fprintf(&sb, " + %d🎡", it.BonusWheelTokens)
		}
		fmt.Fprintf(&sb, " for %d⭐", it.Stars)
		if it.Description != "" {
			sb.WriteString(" · " + it.Description)
		}
		fmt.Fprintf(&sb, " (use /buy %s)", it.Slug)
	}
	return sb.String()
}

// parseRewardArgs разбирает аргументы /reward <type> <amount> [uses].
func parseRewardArgs(args []string) (economy.RewardType, int64, int, error) {
	if len(args) < 2 || len(args) > 3 {
		return "", 0, 0, common.Reject(rewardUsage)
	}
	t, err := economy.ParseRewardType(args[0])
	if err != nil {
		return "", 0, 0, common.Reject(rewardUsage)
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return "", 0, 0, common.Reject("⚠️ Amount and uses must be numbers.")
	}
	uses := 1
	if len(args) == 3 {
		if uses, err = strconv.Atoi(args[2]); err != nil {
			return "", 0, 0, common.Reject("⚠️ Amount and uses must be numbers.")
		}
	}
	if amount < 1 {
		return "", 0, 0, common.ErrInvalidAmount
	}
	if uses < 1 {
		return "", 0, 0, common.ErrInvalidUses
	}
	return t, amount, uses, nil
}

func rewardCreatedText(t economy.RewardType, amount int64, uses int) string {
	return fmt.Sprintf("🎁 Reward Created!\nType: %s\nAmount: %s\nUses: %d\n\nTap the button below to share it.",
		t, common.FormatNumber(amount), uses)
}

// userText — текст ошибки для игрока: отказ как есть, остальное общей фразой.
func userText(err error) string {
	if common.IsRejection(err) {
		return "⚠️ " + strings.TrimPrefix(err.Error(), "⚠️ ")
	}
	return "⚠️ Something went wrong. Please try again later."
}
