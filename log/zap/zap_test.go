package zap

import (
	"errors"
	"testing"

	"github.com/unkn0wn-root/cachefront"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerForwardsLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := ZapLogger{L: zap.New(core)}

	l.Debug("d", nil)
	l.Info("i", cachefront.Fields{"key": "user:1"})
	l.Warn("w", nil)
	l.Error("e", cachefront.Fields{"err": errors.New("boom")})

	entries := logs.AllUntimed()
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	levels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, lvl := range levels {
		if entries[i].Level != lvl {
			t.Fatalf("entry %d level = %v, want %v", i, entries[i].Level, lvl)
		}
	}
	if got := entries[1].ContextMap()["key"]; got != "user:1" {
		t.Fatalf("key field = %v", got)
	}
	if got := entries[3].ContextMap()["err"]; got != "boom" {
		t.Fatalf("err field = %v", got)
	}
}
