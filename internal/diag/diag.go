package diag

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the stderr diagnostics logger. Verbosity follows the -v ladder:
// 0 silent, 1 errors, 2 warnings, 3 info, 4 and up debug. A non-empty level
// name from configuration applies only when no -v flag was given.
func New(verbosity int, level string) (*zap.Logger, error) {
	var lvl zapcore.Level

	switch {
	case verbosity <= 0 && level != "":
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parsing diagnostics level %q: %w", level, err)
		}
		lvl = parsed
	case verbosity <= 0:
		return zap.NewNop(), nil
	case verbosity == 1:
		lvl = zapcore.ErrorLevel
	case verbosity == 2:
		lvl = zapcore.WarnLevel
	case verbosity == 3:
		lvl = zapcore.InfoLevel
	default:
		lvl = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		lvl,
	)
	return zap.New(core), nil
}
