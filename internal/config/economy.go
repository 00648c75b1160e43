package config

// economy.go — табличные параметры экономики, которые неудобно задавать
// через переменные окружения.

// XPCurve — суммарный XP, нужный для уровня L (индекс L-1).
// За пределами таблицы порог растёт по LEVEL_EXTRA_STEP / LEVEL_EXTRA_QUADRATIC.
var XPCurve = []int64{0, 100, 250, 450, 700, 1000, 1400, 1850, 2350, 2900}

// LevelReward — награда за достижение уровня.
type LevelReward struct {
	Type   string
	Amount int64
}

// LevelRewards — награды за уровни 2..10.
// Легендарный стикер на 10 уровне выдаётся тремя бесплатными паками.
var LevelRewards = map[int]LevelReward{
	2:  {Type: "coins", Amount: 400},
	3:  {Type: "energy", Amount: 30},
	4:  {Type: "wheel_tokens", Amount: 2},
	5:  {Type: "sticker_pack", Amount: 1},
	6:  {Type: "coins", Amount: 1200},
	7:  {Type: "energy", Amount: 50},
	8:  {Type: "spins", Amount: 3},
	9:  {Type: "coins", Amount: 2500},
	10: {Type: "sticker_pack", Amount: 3},
}

// StarsCurrency — валюта Telegram Stars для инвойсов.
const StarsCurrency = "XTR"
