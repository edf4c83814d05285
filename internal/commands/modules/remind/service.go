package remind

import (
	"fmt"
	"time"

	"maxybot/internal/commands/types"
	"maxybot/internal/database"

	"github.com/charmbracelet/log"
)

// Service delivers due reminders. Reminders are deleted only after a
// successful send, so a transient Discord error retries on the next sweep.
type Service struct {
	types.BaseService

	db     *database.DB
	logger *log.Logger
}

// NewService creates a new reminder delivery service
func NewService(db *database.DB, logger *log.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Jobs returns the recurring delivery task.
func (s *Service) Jobs() []types.ScheduledJob {
	return []types.ScheduledJob{
		{Spec: "@every 30s", Name: "reminder-delivery", Run: s.Deliver},
	}
}

// Deliver sends every due reminder to its channel.
func (s *Service) Deliver() error {
	if s.Session == nil {
		return nil
	}

	due, err := s.db.DueReminders(time.Now())
	if err != nil {
		return fmt.Errorf("failed to list due reminders: %w", err)
	}

	for _, r := range due {
		content := fmt.Sprintf("⏰ <@%s> Reminder: %s", r.UserID, r.Content)
		if _, err := s.Session.ChannelMessageSend(r.ChannelID, content); err != nil {
			s.logger.Warnf("failed to deliver reminder %d: %v", r.ReminderID, err)
			continue
		}
		if err := s.db.DeleteReminder(r.ReminderID); err != nil {
			s.logger.Errorf("failed to delete delivered reminder %d: %v", r.ReminderID, err)
		}
	}

	return nil
}
