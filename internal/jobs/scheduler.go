// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: еженедельный сброс таблицы лидеров
// и ежечасные напоминания о ежедневной награде.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/features/daily"
)

// Расписания задач
const (
	weeklyResetSpec = "0 0 * * 1" // Понедельник, 00:00
	remindersSpec   = "0 * * * *"
)

// WeeklyResetter обнуляет недельные очки.
type WeeklyResetter interface {
	ResetWeekly(ctx context.Context) (int64, error)
}

// ReminderSender рассылает напоминания через send.
type ReminderSender interface {
	SendReminders(ctx context.Context, send func(ctx context.Context, r daily.Reminder) error) (int, error)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron      *cron.Cron
	loc       *time.Location
	weekly    WeeklyResetter
	reminders ReminderSender
	send      func(ctx context.Context, r daily.Reminder) error
}

// NewScheduler создаёт планировщик задач в часовом поясе loc.
func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		loc:  loc,
	}
}

// WithWeeklyReset включает еженедельный сброс.
func (s *Scheduler) WithWeeklyReset(w WeeklyResetter) *Scheduler {
	s.weekly = w
	return s
}

// WithReminders включает напоминания. send обычно Bot.SendReminder.
func (s *Scheduler) WithReminders(r ReminderSender, send func(ctx context.Context, r daily.Reminder) error) *Scheduler {
	s.reminders = r
	s.send = send
	return s
}

// Start регистрирует включённые задачи и запускает планировщик.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.weekly != nil {
		_, err := s.cron.AddFunc(weeklyResetSpec, func() {
			log.Info("[CRON] Еженедельный сброс таблицы лидеров")
			if _, err := s.weekly.ResetWeekly(ctx); err != nil {
				log.WithError(err).Error("[CRON] Ошибка сброса")
			}
		})
		if err != nil {
			return fmt.Errorf("ошибка регистрации сброса: %w", err)
		}
	}

	if s.reminders != nil && s.send != nil {
		_, err := s.cron.AddFunc(remindersSpec, func() {
			log.Debug("[CRON] Проверка напоминаний")
			sent, err := s.reminders.SendReminders(ctx, s.send)
			if err != nil {
				log.WithError(err).Error("[CRON] Ошибка напоминаний")
				return
			}
			if sent > 0 {
				log.WithField("sent", sent).Info("[CRON] Напоминания отправлены")
			}
		})
		if err != nil {
			return fmt.Errorf("ошибка регистрации напоминаний: %w", err)
		}
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"timezone": s.loc.String(),
		"jobs":     len(s.cron.Entries()),
	}).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт задачи в работе.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
