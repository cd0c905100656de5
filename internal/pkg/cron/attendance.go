package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceRepo      attendance.AttendanceRepository
	maxOpenSessionHours int
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, maxOpenSessionHours int) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo:      attendanceRepo,
		maxOpenSessionHours: maxOpenSessionHours,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_sessions", 1*time.Hour, j.AutoCloseStaleSessions)
}

// AutoCloseStaleSessions transitions open sessions whose check-in is older
// than the configured maximum to auto_closed. A forgotten checkout must not
// block the person's next check-in forever. No checkout time or location is
// recorded; the record stays honest about what actually happened.
func (j *AttendanceJobs) AutoCloseStaleSessions(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-time.Duration(j.maxOpenSessionHours) * time.Hour)

	staleSessions, err := j.attendanceRepo.ListStaleOpenSessions(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list stale open sessions: %w", err)
	}

	if len(staleSessions) == 0 {
		return nil
	}

	closedCount := 0
	for _, session := range staleSessions {
		session.Status = attendance.StatusAutoClosed

		if err := j.attendanceRepo.Update(ctx, session); err != nil {
			slog.Error("Cron: Failed to auto-close session",
				"attendance_id", session.ID,
				"person_id", session.PersonID,
				"error", err)
			continue
		}

		slog.Warn("Cron: Auto-closed stale session",
			"attendance_id", session.ID,
			"person_id", session.PersonID,
			"date", session.Date.Format("2006-01-02"))
		closedCount++
	}

	slog.Info("Cron: Auto-closed stale sessions", "count", closedCount)
	return nil
}
