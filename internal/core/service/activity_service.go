package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
)

type activityService struct {
	recorder ports.ActivityRecorder
	log      zerolog.Logger
}

// NewActivityService returns an ActivityService that hands events to recorder.
func NewActivityService(recorder ports.ActivityRecorder, log zerolog.Logger) ports.ActivityService {
	return &activityService{recorder: recorder, log: log}
}

// Process validates and records a single activity event.
func (s *activityService) Process(ctx context.Context, ev domain.SessionEvent) error {
	if ev.Kind == "" {
		return fmt.Errorf("process activity: missing kind")
	}
	if err := s.recorder.Record(ctx, ev); err != nil {
		return fmt.Errorf("process activity: %w", err)
	}
	s.log.Debug().
		Str("device_id", ev.DeviceID).
		Str("subject_id", ev.SubjectID).
		Str("kind", string(ev.Kind)).
		Msg("activity recorded")
	return nil
}

// LogRecorder writes activity events to the structured log. It is the
// recorder used when no database is configured.
type LogRecorder struct {
	log zerolog.Logger
}

func NewLogRecorder(log zerolog.Logger) *LogRecorder {
	return &LogRecorder{log: log}
}

func (r *LogRecorder) Record(_ context.Context, ev domain.SessionEvent) error {
	r.log.Info().
		Str("device_id", ev.DeviceID).
		Str("subject_id", ev.SubjectID).
		Str("email", ev.Email).
		Str("role", string(ev.Role)).
		Str("kind", string(ev.Kind)).
		Time("at", ev.At).
		Msg("session activity")
	return nil
}
