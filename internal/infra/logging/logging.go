package logging

import (
	"log/slog"
	"os"
)

// SetupJSON installs a JSON slog handler at the given level as the
// process-wide default logger.
func SetupJSON(level slog.Level) {
	logger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	)
	slog.SetDefault(logger)
}
