// Package common содержит общие утилиты, используемые во всём проекте:
// плюрализацию, форматирование чисел и времени.
package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Pluralize возвращает форму слова для числа n.
//
//	Pluralize(1, "Spin", "Spins")  → "Spin"
//	Pluralize(0, "Spin", "Spins")  → "Spins"
//	Pluralize(-1, "Coin", "Coins") → "Coin"
func Pluralize(n int64, one, many string) string {
	if n == 1 || n == -1 {
		return one
	}
	return many
}

// FormatNumber разделяет разряды запятой: 12500 → "12,500".
func FormatNumber(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

// FormatDuration форматирует время ожидания для игрока: "3h 05m", "12m", "40s".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatDateTime форматирует время в "02.01.2006 15:04" в заданном поясе.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02.01.2006 15:04")
}

// TimePtr — указатель на копию времени (для nullable колонок).
func TimePtr(t time.Time) *time.Time {
	return &t
}
