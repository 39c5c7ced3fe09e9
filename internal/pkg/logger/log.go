package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Messages carries every encoded log entry, the command decides where they end up
var Messages = make(chan []byte, 128)

const (
	ErrorLvl   = 0
	WarningLvl = 1
	InfoLvl    = 2
	ActionLvl  = 3 // combos, mode switches, text entry
	KeysLvl    = 4 // emitted key events
	AnalogLvl  = 5 // analog edges and mouse motion

	DebugLvl = 378
)

var (
	Error   = zap.Int("level", ErrorLvl)
	Warning = zap.Int("level", WarningLvl)
	Info    = zap.Int("level", InfoLvl)
	Action  = zap.Int("level", ActionLvl)
	Keys    = zap.Int("level", KeysLvl)
	Analog  = zap.Int("level", AnalogLvl)

	Debug = zap.Int("level", DebugLvl)
)

type chanWriter struct {
	sync.Mutex
	discard bool
}

func (w *chanWriter) Write(p []byte) (n int, err error) {
	w.Lock()
	defer w.Unlock()
	if w.discard {
		return len(p), nil
	}
	var newSlice = make([]byte, len(p))
	copy(newSlice, p)
	Messages <- newSlice
	return len(p), nil
}

func (w *chanWriter) Sync() error {
	return nil
}

var writer = &chanWriter{}

// Discard stops forwarding entries into Messages.
// Used by tests and by the silent mode, where nobody drains the channel.
func Discard() {
	writer.Lock()
	writer.discard = true
	writer.Unlock()
}

func GetLogger() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.SkipLineEnding = true
	cfg.EncodeTime = zapcore.EpochNanosTimeEncoder
	cfg.LevelKey = ""
	encoder := zapcore.NewJSONEncoder(cfg)

	logger := zap.New(
		zapcore.NewCore(encoder, zapcore.Lock(writer), zap.DebugLevel),
		zap.AddCaller(),
	)

	return logger
}
