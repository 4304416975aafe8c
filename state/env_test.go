package state

import (
	"context"
	"log"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/charmap"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if env.NameEncoding != nil {
		t.Error("NameEncoding should be nil by default")
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

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now().Add(-time.Second)}
	if env.Uptime() < time.Second {
		t.Errorf("Uptime() = %v, expected at least 1s", env.Uptime())
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := &LocalEnv{Log: zap.New(core)}

	env.RedirectStdLog()
	log.Print("svg warning")
	env.RestoreStdLog()
	log.Print("not captured")

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "svg warning" {
		t.Errorf("captured %+v", entries)
	}
}

func TestLocalEnv_NoLogger(t *testing.T) {
	env := &LocalEnv{}
	env.RedirectStdLog()
	env.RestoreStdLog()
	if env.restoreStdLog != nil {
		t.Error("nothing should be redirected without logger")
	}
}

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		name    string
		isNil   bool
		wantErr bool
	}{
		{name: "", isNil: true},
		{name: "UTF-8", isNil: true},
		{name: "IBM866"},
		{name: "windows-1251"},
		{name: "no-such-encoding", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := LookupEncoding(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LookupEncoding() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (enc == nil) != tt.isNil {
				t.Errorf("LookupEncoding() = %v, want nil: %v", enc, tt.isNil)
			}
		})
	}

	enc, _ := LookupEncoding("ibm866")
	if enc != charmap.CodePage866 {
		t.Errorf("ibm866 resolved to %v", enc)
	}
}
