// Package random — взвешенный выбор для барабанов, колеса и стикеров.
// Веса не нормированы: выбор идёт по накопленной сумме и бинарному поиску.
package random

import (
	"math"
	"math/rand/v2"
	"sort"
)

// MinWeight — нижняя граница веса. Нулевой или отрицательный вес в каталоге
// не ломает выбор, а превращается в очень редкий элемент.
const MinWeight = 0.01

// Source — источник равномерных чисел в [0, 1).
// *rand.Rand из math/rand/v2 подходит как есть.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Default — процессный источник на глобальном генераторе math/rand/v2.
var Default Source = globalSource{}

// Weight применяет нижнюю границу.
func Weight(w float64) float64 {
	if math.IsNaN(w) || w < MinWeight {
		return MinWeight
	}
	return w
}

// Pick выбирает индекс элемента с вероятностью weight(item) / sum(weights).
// Для пустого списка возвращает false.
func Pick[T any](src Source, items []T, weight func(T) float64) (int, bool) {
	if len(items) == 0 {
		return 0, false
	}
	if src == nil {
		src = Default
	}

	cumulative := make([]float64, len(items))
	total := 0.0
	for i, item := range items {
		total += Weight(weight(item))
		cumulative[i] = total
	}

	target := src.Float64() * total
	idx := sort.Search(len(cumulative), func(i int) bool {
		return cumulative[i] > target
	})
	if idx >= len(cumulative) {
		// Float64() < 1, но накопленная сумма могла потерять точность
		idx = len(cumulative) - 1
	}
	return idx, true
}

// Chance возвращает true с вероятностью p.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if src == nil {
		src = Default
	}
	return src.Float64() < p
}

// Scripted отдаёт заранее заданные значения по кругу.
// Нужен, чтобы в тестах получить конкретный исход барабанов.
type Scripted struct {
	Values []float64
	next   int
}

func (s *Scripted) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}
