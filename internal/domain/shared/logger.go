package shared

// Log levels shared by every Logger implementation
const (
	LevelDebug   = "DEBUG"
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// Logger is the logging port used by domain components that must surface
// configuration mistakes (missing spawn point, missing account).
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// NoOpLogger discards everything
type NoOpLogger struct{}

func (NoOpLogger) Log(level, message string, metadata map[string]interface{}) {}

// LoggerOrNoOp returns l, or a NoOpLogger when l is nil
func LoggerOrNoOp(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}
