package audit

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/you/shopauth/domain"
)

// LogrusAuditLogger writes audit events as structured log entries
type LogrusAuditLogger struct {
	log *logrus.Logger
}

// NewLogrusAuditLogger creates an audit logger on top of log
func NewLogrusAuditLogger(log *logrus.Logger) domain.AuditLogger {
	return &LogrusAuditLogger{log: log}
}

// LogEvent implements domain.AuditLogger
func (l *LogrusAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	fields := logrus.Fields{
		"audit":      true,
		"event_type": event.EventType,
		"success":    event.Success,
		"timestamp":  event.Timestamp,
	}
	if event.UserID != 0 {
		fields["user_id"] = event.UserID
	}
	if event.Email != "" {
		fields["email"] = event.Email
	}
	if event.SessionID != "" {
		fields["session_id"] = event.SessionID
	}
	if event.IPAddress != "" {
		fields["ip_address"] = event.IPAddress
	}
	if event.UserAgent != "" {
		fields["user_agent"] = event.UserAgent
	}
	if event.ErrorMsg != "" {
		fields["error"] = event.ErrorMsg
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := l.log.WithContext(ctx).WithFields(fields)
	if event.Success {
		entry.Info(string(event.EventType))
	} else {
		entry.Warn(string(event.EventType))
	}
}
