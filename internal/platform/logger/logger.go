package logger

import (
	"log/slog"
	"os"
)

// New returns the service-wide structured logger. JSON output is selected
// with RFM_LOG_FORMAT=json; text is the development default.
func New() *slog.Logger {
	var handler slog.Handler
	if os.Getenv("RFM_LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	return slog.New(handler)
}
