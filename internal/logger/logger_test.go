package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  *zapcore.Level
	}{
		{"debug", levelPtr(zapcore.DebugLevel)},
		{"DEBUG", levelPtr(zapcore.DebugLevel)},
		{"info", levelPtr(zapcore.InfoLevel)},
		{"WARNING", levelPtr(zapcore.WarnLevel)},
		{"warn", levelPtr(zapcore.WarnLevel)},
		{"error", levelPtr(zapcore.ErrorLevel)},
		{"CRITICAL", levelPtr(zapcore.FatalLevel)},
		{"verbose", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
			case tt.want != nil && got == nil:
				t.Errorf("parseLevel(%q) = nil, want %v", tt.input, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestWithKeepsLogger(t *testing.T) {
	log := New("error", false).With(String("component", "test"))
	if log == nil {
		t.Fatal("With() returned nil")
	}
	log.Info("discarded at error level")
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }

func TestNamedAndNop(t *testing.T) {
	log := NewNop().Named("watcher").With(Int64("user_id", 42), Strings("cidrs", []string{"10.0.0.0/8"}))
	if log == nil {
		t.Fatal("Named() returned nil")
	}
	log.Error("discarded by the nop core")
	if err := log.Sync(); err != nil {
		t.Errorf("Sync() on nop logger = %v", err)
	}
}
