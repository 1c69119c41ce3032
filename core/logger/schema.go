package logger

import "strings"

const (
	// LevelDebug represents the debug severity level name.
	LevelDebug = "DEBUG"
	// LevelInfo represents the info severity level name.
	LevelInfo = "INFO"
	// LevelWarn represents the warning severity level name.
	LevelWarn = "WARN"
	// LevelError represents the error severity level name.
	LevelError = "ERROR"
)

var allowedLevels = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var allowedStatus = map[string]string{
	"ok":           "ok",
	"fail":         "fail",
	"skip":         "skip",
	"rate_limited": "rate_limited",
	"cancelled":    "cancelled",
	"not_found":    "not_found",
}

var allowedOutcome = map[string]string{
	"ok":        "ok",
	"fail":      "fail",
	"advanced":  "advanced",
	"stayed":    "stayed",
	"reset":     "reset",
	"resent":    "resent",
	"cancelled": "cancelled",
}

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if mapped, ok := allowedLevels[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

// normalizeStatus lowercases status and reports whether it is a known value.
func normalizeStatus(status string) (string, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return "", false
	}
	mapped, ok := allowedStatus[status]
	if !ok {
		return status, false
	}
	return mapped, true
}

func normalizeOutcome(outcome string) (string, bool) {
	val, ok := allowedOutcome[strings.ToLower(strings.TrimSpace(outcome))]
	return val, ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"sender",
	"to",
	"message_id",
	"step",
	"next_step",
	"handler",
	"input",
	"option_id",
	"operation",
	"outcome",
	"duration_ms",
	"http_code",
	"method",
	"path",
	"messages",
	"sent",
	"count",
	"rows",
	"category_id",
	"service_id",
	"date",
	"hour",
	"professional_id",
	"driver",
	"listen",
	"db",
	"host",
	"port",
	"err",
	"err_code",
	"err_kind",
	"cause",
	"retryable",
	"rate_limited",
}

// phoneKeys name fields that carry a WhatsApp number and are always masked.
var phoneKeys = []string{"sender", "to", "from", "phone"}
