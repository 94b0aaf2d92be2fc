package interaction

import (
	"context"

	"discharge-care-be/internal/pkg/logger"
)

// LogSink writes records to a dedicated JSON journal (see logger.NewIsolatedLogger).
type LogSink struct {
	log logger.ILogger
}

func NewLogSink(log logger.ILogger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(ctx context.Context, rec Record) {
	rec = Stamp(rec)
	details := map[string]interface{}{
		"session_id":   rec.SessionID,
		"agent":        rec.Agent,
		"message_type": rec.MessageType,
		"text":         rec.Text,
		"timestamp":    rec.Timestamp,
	}
	if rec.PatientName != "" {
		details["patient_name"] = rec.PatientName
	}
	if len(rec.Metadata) > 0 {
		details["metadata"] = rec.Metadata
	}

	if rec.MessageType == TypeError {
		s.log.Error("INTERACTION", rec.MessageType, details)
		return
	}
	s.log.Info("INTERACTION", rec.MessageType, details)
}
