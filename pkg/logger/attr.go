package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// AccountID records the recipient account under the key "account_id".
func AccountID(id string) slog.Attr {
	return slog.String("account_id", id)
}

// ConnectionID records a streaming connection under the key "connection_id".
func ConnectionID(id string) slog.Attr {
	return slog.String("connection_id", id)
}

// NotificationID records a stored notification under the key "notification_id".
func NotificationID(id string) slog.Attr {
	return slog.String("notification_id", id)
}

func MachineID(id string) slog.Attr {
	return slog.String("machine_id", id)
}

func AlarmID(id string) slog.Attr {
	return slog.String("alarm_id", id)
}

// Topic records a dispatcher topic under the key "topic".
func Topic(name string) slog.Attr {
	return slog.String("topic", name)
}

// SourceKind records the notification source under the key "source_kind".
func SourceKind(kind string) slog.Attr {
	return slog.String("source_kind", kind)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RunID records a batch run identifier under the key "run_id".
func RunID(id string) slog.Attr {
	return slog.String("run_id", id)
}
