package catalog

import "time"

// DefaultsVersion — версия стартового набора каталогов.
// Записывается в catalog_seeds при засеве.
const DefaultsVersion = 1

// SignatureEventSlug — фирменное событие, создаётся при первом запуске.
const SignatureEventSlug = "grand-regatta"

func DefaultSymbols() []SlotSymbol {
	symbols := []SlotSymbol{
		{Emoji: "🪙", Name: "Treasure Cache", Description: "Reliable coin drop for steady XP", Weight: 1.8, Coins: 120, Energy: 2, Color: "#ffd447", ArtURL: "/static/images/seasonal-sticker.svg"},
		{Emoji: "⚡", Name: "Energy Surge", Description: "Power-up burst that fuels marathon spins", Weight: 1.5, Coins: 40, Energy: 6, Color: "#5cf1ff", ArtURL: "/static/images/seasonal-energy.svg"},
		{Emoji: "🌀", Name: "Token Typhoon", Description: "Wheel tokens for premium prize wheels", Weight: 1.1, Coins: 60, Energy: 1, WheelTokens: 1, Color: "#8b5cf6", ArtURL: "/static/images/seasonal-wheel.svg"},
		{Emoji: "💠", Name: "Prism Vault", Description: "High yield crystal cache with coins", Weight: 0.9, Coins: 220, Energy: 3, Color: "#f472b6", ArtURL: "/static/images/seasonal-wheel.svg"},
		{Emoji: "🦈", Name: "Shark Jackpot", Description: "Signature shark pull with all resources", Weight: 0.6, Coins: 360, Energy: 6, WheelTokens: 2, Color: "#22d3ee", ArtURL: "/static/images/hero-boinkers.svg"},
		{Emoji: "🎁", Name: "Mystery Cache", Description: "Balanced grab bag of goodies", Weight: 0.85, Coins: 140, Energy: 2, WheelTokens: 1, Color: "#facc15", ArtURL: "/static/images/seasonal-sticker.svg"},
		{Emoji: "🌊", Name: "Empty Net", Description: "Sometimes the tides are quiet, no loot", Weight: 1.25, Color: "#38bdf8", ArtURL: "/static/images/header-bg.svg"},
	}
	for i := range symbols {
		symbols[i].IsEnabled = true
		symbols[i].SortOrder = i
	}
	return symbols
}

func DefaultWheelRewards() []WheelReward {
	return []WheelReward{
		{Label: "250 Coins", RewardType: "coins", Amount: 250, Weight: 2.5, Color: "#1de5a0"},
		{Label: "+1 Spin", RewardType: "spins", Amount: 1, Weight: 2.0, Color: "#3dd5ff"},
		{Label: "Mega 1000", RewardType: "coins", Amount: 1000, Weight: 0.6, Color: "#f9c74f"},
		{Label: "Energy Burst", RewardType: "energy", Amount: 50, Weight: 1.8, Color: "#ff6f59"},
		{Label: "Sticker Pack", RewardType: "sticker_pack", Amount: 1, Weight: 2.1, Color: "#c77dff"},
		{Label: "Jackpot 5000", RewardType: "coins", Amount: 5000, Weight: 0.25, Color: "#ff477e"},
		{Label: "Lucky 100", RewardType: "coins", Amount: 100, Weight: 3.2, Color: "#0096c7"},
		{Label: "+3 Spins", RewardType: "spins", Amount: 3, Weight: 0.9, Color: "#9ef01a"},
	}
}

func DefaultAlbums() []StickerAlbum {
	return []StickerAlbum{
		{
			Name:        "Ocean Legends",
			Slug:        "ocean-legends",
			Description: "Collect the fiercest predators of the seven seas",
			RewardSpins: 3,
			StickerCost: 40,
			Stickers: []Sticker{
				{Name: "Great Hammerhead", Rarity: "rare", Weight: 0.8},
				{Name: "Tiger Shark", Rarity: "common", Weight: 2.5},
				{Name: "Goblin Shark", Rarity: "epic", Weight: 0.35},
				{Name: "Manta Ray", Rarity: "common", Weight: 2.0},
				{Name: "Whale Shark", Rarity: "legendary", Weight: 0.15},
			},
		},
		{
			Name:        "Sky Voyagers",
			Slug:        "sky-voyagers",
			Description: "Fly with aerial aces to earn extra spins",
			RewardSpins: 2,
			StickerCost: 30,
			Stickers: []Sticker{
				{Name: "Storm Seagull", Rarity: "common", Weight: 2.7},
				{Name: "Jetpack Penguin", Rarity: "rare", Weight: 0.9},
				{Name: "Aurora Drake", Rarity: "legendary", Weight: 0.2},
				{Name: "Sky Whale", Rarity: "epic", Weight: 0.35},
			},
		},
	}
}

// DefaultEvents — фирменное событие с окном [seededAt-1d, seededAt+5d).
func DefaultEvents(seededAt time.Time) []LiveEvent {
	return []LiveEvent{
		{
			Slug:         SignatureEventSlug,
			Name:         "Grand Regatta",
			Description:  "Spin the reels to earn regatta tokens and cash-in spins",
			StartAt:      seededAt.Add(-24 * time.Hour),
			EndAt:        seededAt.Add(5 * 24 * time.Hour),
			TargetSpins:  150,
			RewardType:   "spins",
			RewardAmount: 5,
			EventType:    "live",
		},
	}
}

func DefaultShopItems() []ShopItem {
	items := []ShopItem{
		{Name: "Coral Splash 100", Slug: "energy_100", Stars: 50, Energy: 100, BonusWheelTokens: 1, Description: "Starter burst to keep the reels humming.", ArtURL: "/static/images/star-pack-coral.svg"},
		{Name: "Abyss Diver 250", Slug: "energy_250", Stars: 120, Energy: 250, BonusWheelTokens: 3, Description: "Big energy dive plus bonus Wheel Tokens.", ArtURL: "/static/images/star-pack-abyss.svg"},
		{Name: "Mega Reef 600", Slug: "energy_600", Stars: 260, Energy: 600, BonusWheelTokens: 8, Description: "Legendary boost with neon wheel fireworks.", ArtURL: "/static/images/star-pack-mega.svg"},
		{Name: "Galactic Tide 1200", Slug: "energy_1200", Stars: 520, Energy: 1200, BonusWheelTokens: 20, Description: "Whale-sized stash plus stacks of spins.", ArtURL: "/static/images/star-pack-galaxy.svg"},
		{Name: "Titan Storm 2500", Slug: "energy_2500", Stars: 980, Energy: 2500, BonusWheelTokens: 45, Description: "Ultimate marathon kit for leaderboard runs.", ArtURL: "/static/images/star-pack-titan.svg"},
		{Name: "Aurora Lumina 4200", Slug: "energy_4200", Stars: 1600, Energy: 4200, BonusWheelTokens: 85, Description: "Festival bundle with radiant sticker showers and mega spins.", ArtURL: "/static/images/star-pack-lumina.svg"},
		{Name: "Orbital Riptide 7200", Slug: "energy_7200", Stars: 2800, Energy: 7200, BonusWheelTokens: 160, Description: "Championship-grade hoard with cosmic wheel tokens for squads.", ArtURL: "/static/images/star-pack-orbit.svg"},
	}
	for i := range items {
		items[i].IsActive = true
		items[i].SortOrder = i
	}
	return items
}
