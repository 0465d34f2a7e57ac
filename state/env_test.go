package state

import (
	"context"
	"log"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if env.IDs == nil {
		t.Error("Environment ID generator not set")
	}
	if id := env.IDs.NewID(); len(id) != 6 {
		t.Errorf("NewID() = %q, want 6 hex digits", id)
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_WantTable(t *testing.T) {
	tests := []struct {
		name   string
		tables []string
		table  string
		want   bool
	}{
		{"no selection", nil, "prices", true},
		{"selected", []string{"prices", "stock"}, "stock", true},
		{"not selected", []string{"prices", "stock"}, "orders", false},
		{"case sensitive", []string{"prices"}, "Prices", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &LocalEnv{Tables: tt.tables}
			if got := env.WantTable(tt.table); got != tt.want {
				t.Errorf("WantTable(%q) = %v, want %v", tt.table, got, tt.want)
			}
		})
	}
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now().Add(-time.Second)}
	if up := env.Uptime(); up < time.Second {
		t.Errorf("Uptime() = %v, expected at least 1s", up)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := &LocalEnv{Log: zap.New(core)}

	env.RedirectStdLog()
	if env.restoreStdLog == nil {
		t.Fatal("Expected restoreStdLog to be set")
	}
	log.Print("from standard logger")
	env.RestoreStdLog()
	log.Print("after restore")

	if n := logs.FilterMessage("from standard logger").Len(); n != 1 {
		t.Errorf("redirected messages = %d, want 1", n)
	}
	if logs.FilterMessage("after restore").Len() != 0 {
		t.Error("message logged after restore reached zap")
	}
}

func TestLocalEnv_RedirectWithoutLogger(t *testing.T) {
	env := &LocalEnv{}
	env.RedirectStdLog()
	if env.restoreStdLog != nil {
		t.Error("Expected restoreStdLog to remain nil")
	}
	env.RestoreStdLog()
}

func TestLocalEnv_RedirectRepeated(t *testing.T) {
	env := &LocalEnv{Log: zaptest.NewLogger(t)}
	for i := range 3 {
		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Errorf("Iteration %d: restoreStdLog not set", i)
		}
		env.RestoreStdLog()
	}
}
