package di

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/savaki/forge-bootstrap/internal/artifacts"
	"github.com/savaki/forge-bootstrap/internal/config"
	apperrors "github.com/savaki/forge-bootstrap/internal/errors"
	"github.com/savaki/forge-bootstrap/internal/orchestrator"
	"github.com/savaki/forge-bootstrap/internal/services"
	"go.uber.org/dig"
)

// Test types for dependency injection
type Database struct {
	Name string
}

type Logger struct {
	Level string
}

type Service struct {
	DB     *Database
	Logger *Logger
	RunID  RunID
}

func testSettings(t *testing.T) Settings {
	t.Helper()

	settings := DefaultSettings()
	settings.Token = services.TokenOptions{Value: "test-token"}
	settings.OutputDir = t.TempDir()
	settings.Out = &bytes.Buffer{}
	settings.Delays = orchestrator.Delays{}
	return settings
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		runID   RunID
		opts    []Option
		wantErr bool
	}{
		{
			name:    "creates container with no providers",
			runID:   "run-1",
			opts:    nil,
			wantErr: false,
		},
		{
			name:  "creates container with single provider",
			runID: "run-2",
			opts: []Option{
				WithProviders(func() *Database {
					return &Database{Name: "test-db"}
				}),
			},
			wantErr: false,
		},
		{
			name:  "creates container with multiple providers",
			runID: "run-3",
			opts: []Option{
				WithProviders(
					func() *Database {
						return &Database{Name: "prod-db"}
					},
					func() *Logger {
						return &Logger{Level: "info"}
					},
				),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := New(tt.runID, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if container == nil && !tt.wantErr {
				t.Error("New() returned nil container without error")
			}
		})
	}
}

func TestNew_InvalidProvider(t *testing.T) {
	// Attempting to provide the same type twice should fail
	_, err := New("run",
		WithProviders(
			func() *Database {
				return &Database{Name: "db1"}
			},
			func() *Database {
				return &Database{Name: "db2"}
			},
		),
	)

	if err == nil {
		t.Error("New() should return error when providing duplicate types")
	}
}

func TestNew_ProvidesRunID(t *testing.T) {
	container, err := New("2HFj3kLmNoPqRsTuVwXy")
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	if got := MustGet[RunID](container); got != "2HFj3kLmNoPqRsTuVwXy" {
		t.Errorf("RunID = %v, want %v", got, "2HFj3kLmNoPqRsTuVwXy")
	}
}

func TestNew_ProvidesCommunity(t *testing.T) {
	community := config.Default()
	community.Owner = "alice"

	container, err := New("run", WithCommunity(community))
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	if got := MustGet[config.Community](container); got.Owner != "alice" {
		t.Errorf("Community.Owner = %v, want %v", got.Owner, "alice")
	}
}

func TestMustGet(t *testing.T) {
	t.Run("successfully retrieves dependency", func(t *testing.T) {
		container, err := New("run",
			WithProviders(func() *Database {
				return &Database{Name: "test-db"}
			}),
		)
		if err != nil {
			t.Fatalf("New() unexpected error: %v", err)
		}

		db := MustGet[*Database](container)
		if db == nil {
			t.Error("MustGet() returned nil")
		}
		if db.Name != "test-db" {
			t.Errorf("Database.Name = %v, want %v", db.Name, "test-db")
		}
	})

	t.Run("panics when dependency not found", func(t *testing.T) {
		container, err := New("run")
		if err != nil {
			t.Fatalf("New() unexpected error: %v", err)
		}

		defer func() {
			if r := recover(); r == nil {
				t.Error("MustGet() did not panic")
			}
		}()

		_ = MustGet[*Database](container)
	})
}

func TestDependencyInjection(t *testing.T) {
	t.Run("resolves dependencies automatically", func(t *testing.T) {
		container, err := New("run-9",
			WithProviders(
				func() *Database {
					return &Database{Name: "prod-db"}
				},
				func() *Logger {
					return &Logger{Level: "error"}
				},
				func(db *Database, logger *Logger, runID RunID) *Service {
					return &Service{
						DB:     db,
						Logger: logger,
						RunID:  runID,
					}
				},
			),
		)
		if err != nil {
			t.Fatalf("New() unexpected error: %v", err)
		}

		service := MustGet[*Service](container)
		if service.DB.Name != "prod-db" {
			t.Errorf("Service.DB.Name = %v, want %v", service.DB.Name, "prod-db")
		}
		if service.Logger.Level != "error" {
			t.Errorf("Service.Logger.Level = %v, want %v", service.Logger.Level, "error")
		}
		if service.RunID != "run-9" {
			t.Errorf("Service.RunID = %v, want %v", service.RunID, "run-9")
		}
	})
}

func TestContainer_Interface(t *testing.T) {
	var _ Container = (*dig.Container)(nil)
}

func TestCoreProviders(t *testing.T) {
	t.Run("builds a bootstrapper from a token value", func(t *testing.T) {
		container, err := New("run", WithSettings(testSettings(t)))
		if err != nil {
			t.Fatalf("New() unexpected error: %v", err)
		}

		b, err := Get[*orchestrator.Bootstrapper](container)
		if err != nil {
			t.Fatalf("Get() unexpected error: %v", err)
		}
		if b == nil {
			t.Fatal("Get() returned nil bootstrapper")
		}
		if got := len(b.Steps()); got != 6 {
			t.Errorf("len(Steps()) = %v, want 6", got)
		}
	})

	t.Run("missing token fails resolution", func(t *testing.T) {
		settings := testSettings(t)
		settings.Token = services.TokenOptions{}

		container, err := New("run", WithSettings(settings))
		if err != nil {
			t.Fatalf("New() unexpected error: %v", err)
		}

		_, err = Get[*orchestrator.Bootstrapper](container)
		if !errors.Is(dig.RootCause(err), apperrors.ErrMissingToken) {
			t.Errorf("Get() error = %v, want %v", err, apperrors.ErrMissingToken)
		}
	})

	t.Run("no parameter store without a parameter name", func(t *testing.T) {
		container, err := New("run", WithSettings(testSettings(t)))
		if err != nil {
			t.Fatalf("New() unexpected error: %v", err)
		}

		if store := MustGet[services.ParameterStore](container); store != nil {
			t.Errorf("ParameterStore = %T, want nil", store)
		}
		if reader := MustGet[services.PATReader](container); reader != nil {
			t.Errorf("PATReader = %T, want nil", reader)
		}

		a := MustGet[*AWS](container)
		if a.cfg.Region != "" || a.err != nil {
			t.Error("AWS configuration should not have been loaded")
		}
	})

	t.Run("file artifact writer without bucket", func(t *testing.T) {
		container, err := New("run", WithSettings(testSettings(t)))
		if err != nil {
			t.Fatalf("New() unexpected error: %v", err)
		}

		w := MustGet[artifacts.Writer](container)
		if _, ok := w.(*artifacts.FileWriter); !ok {
			t.Errorf("Writer = %T, want *artifacts.FileWriter", w)
		}
	})

	t.Run("context is injectable", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "value")

		container, err := New("run", WithContext(ctx))
		if err != nil {
			t.Fatalf("New() unexpected error: %v", err)
		}

		if got := MustGet[context.Context](container).Value(key{}); got != "value" {
			t.Errorf("context value = %v, want %v", got, "value")
		}
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, "json", false)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Error("info message should be filtered without verbose")
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"message":"shown"`)) {
		t.Errorf("expected JSON warn message, got %s", buf.String())
	}

	buf.Reset()
	verbose := newLogger(&buf, "json", true)
	verbose.Debug().Msg("debug")
	if !bytes.Contains(buf.Bytes(), []byte("debug")) {
		t.Error("debug message should be written when verbose")
	}
}
