// Package progression переводит накопленный XP в уровень
// и выдаёт награды за новые уровни.
package progression

import (
	"math"
	"sort"

	"serotonyl.ru/sharkspin/internal/config"
)

// MaxLevel — потолок уровня. Пороги выше упираются в math.MaxInt64.
const MaxLevel = 1_000_000

// Curve — таблица порогов XP с продолжением за её пределами:
//
//	threshold(L) = last + k*Step + k*k*Quadratic, k = L - len(Table)
type Curve struct {
	Table     []int64 // Table[L-1] — суммарный XP для уровня L
	Step      int64
	Quadratic int64
}

// NewCurve собирает кривую из конфигурации.
func NewCurve(cfg *config.Config) Curve {
	return Curve{
		Table:     config.XPCurve,
		Step:      cfg.LevelExtraStep,
		Quadratic: cfg.LevelExtraQuadratic,
	}
}

// XPThreshold — суммарный XP, с которого начинается уровень level.
func (c Curve) XPThreshold(level int) int64 {
	if level <= 1 || len(c.Table) == 0 {
		return 0
	}
	if level <= len(c.Table) {
		return c.Table[level-1]
	}
	k := int64(level - len(c.Table))
	step := max(c.Step, 1)
	quad := max(c.Quadratic, 0)
	return addSat(c.Table[len(c.Table)-1], addSat(mulSat(k, step), mulSat(mulSat(k, k), quad)))
}

// LevelFromXP — наименьший L >= 1, для которого xp < threshold(L+1).
// Не больше MaxLevel.
func (c Curve) LevelFromXP(xp int64) int {
	i := sort.Search(MaxLevel-1, func(i int) bool {
		return c.XPThreshold(i+2) > xp
	})
	return i + 1
}

// mulSat и addSat считают для неотрицательных a, b с насыщением в math.MaxInt64.
func mulSat(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// Progress — прогресс внутри текущего уровня для интерфейса.
type Progress struct {
	Level           int     `json:"level"`
	Progress        int64   `json:"progress"`
	Required        int64   `json:"required"`
	ProgressPercent float64 `json:"progressPercent"`
	NextLevel       int     `json:"nextLevel"`
	NextLevelXP     int64   `json:"nextLevelXp"`
}

// CalculateProgress считает прогресс до следующего уровня.
func (c Curve) CalculateProgress(xp int64) Progress {
	level := c.LevelFromXP(xp)
	current := c.XPThreshold(level)
	next := c.XPThreshold(level + 1)

	required := next - current
	progress := max(xp-current, 0)

	percent := 100.0
	if required > 0 {
		percent = float64(progress) / float64(required) * 100
	}
	percent = min(max(percent, 0), 100)

	return Progress{
		Level:           level,
		Progress:        progress,
		Required:        required,
		ProgressPercent: percent,
		NextLevel:       level + 1,
		NextLevelXP:     next,
	}
}
