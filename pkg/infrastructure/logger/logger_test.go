package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		wantDebug bool
	}{
		{"development debug", Config{Level: "debug", Environment: "development"}, false, true},
		{"production info", Config{Level: "info", Environment: "production", ServiceName: "blacksmith"}, false, false},
		{"default level", Config{}, false, true},
		{"bad level", Config{Level: "loud"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got := log.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Errorf("Expected debug enabled %v, got %v", tt.wantDebug, got)
			}
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("Expected a no-op logger for an empty context")
	}

	log := zap.NewExample()
	ctx := WithContext(context.Background(), log)
	if FromContext(ctx) != log {
		t.Error("Expected the stored logger back")
	}
}
