package control

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vietddude/dispatcher/internal/core/config"
	"github.com/vietddude/dispatcher/internal/core/domain"
)

func testConfig(t *testing.T, failureRate float64) *config.AppConfig {
	t.Helper()
	cfg := config.Default()
	cfg.Service.FailureRate = failureRate
	cfg.Dispatch.BaseDelay = time.Millisecond
	cfg.Output.Path = filepath.Join(t.TempDir(), "results.json")
	return cfg
}

func TestRunnerAllSuccess(t *testing.T) {
	cfg := testConfig(t, 0)
	runner, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	defer runner.Stop(context.Background())

	summary, err := runner.Run(context.Background(), GenerateItems(20))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Success != 20 || summary.Failure != 0 || summary.Rejected != 0 {
		t.Errorf("summary = %+v, want 20 successes", summary)
	}
	if summary.BatchID == "" {
		t.Error("summary has no batch id")
	}

	data, err := os.ReadFile(cfg.Output.Path)
	if err != nil {
		t.Fatalf("results file missing: %v", err)
	}
	var records []domain.SuccessRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("results file is not valid JSON: %v", err)
	}
	if len(records) != 20 {
		t.Errorf("results file has %d records, want 20", len(records))
	}
}

func TestRunnerNoSuccessSignal(t *testing.T) {
	cfg := testConfig(t, 1.0)
	runner, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	defer runner.Stop(context.Background())

	summary, err := runner.Run(context.Background(), GenerateItems(5))
	if !errors.Is(err, ErrNoSuccess) {
		t.Fatalf("err = %v, want ErrNoSuccess", err)
	}
	if summary.Success != 0 {
		t.Errorf("summary.Success = %d, want 0", summary.Success)
	}
	if summary.Failure+summary.Rejected != 5 {
		t.Errorf("failure+rejected = %d, want 5", summary.Failure+summary.Rejected)
	}
}

func TestRunnerPropagatesContractViolation(t *testing.T) {
	cfg := testConfig(t, 0)
	runner, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	defer runner.Stop(context.Background())

	items := GenerateItems(3)
	items[1].Payload = ""

	_, err = runner.Run(context.Background(), items)
	var invalid *domain.ErrInvalidItem
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want *domain.ErrInvalidItem", err)
	}
}

func TestRunnerUnknownServiceKind(t *testing.T) {
	cfg := config.Default()
	cfg.Service.Kind = "carrier-pigeon"
	if _, err := NewRunner(cfg); err == nil {
		t.Error("NewRunner accepted an unknown service kind")
	}
}

func TestLoadItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	content := `[{"id": 1, "payload": "a"}, {"id": 2, "payload": "b"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write items file: %v", err)
	}

	items, err := LoadItems(path)
	if err != nil {
		t.Fatalf("LoadItems failed: %v", err)
	}
	if len(items) != 2 || items[0].ID != 1 || items[1].Payload != "b" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestGenerateItems(t *testing.T) {
	items := GenerateItems(20)
	if len(items) != 20 {
		t.Fatalf("got %d items, want 20", len(items))
	}
	for i, item := range items {
		if item.ID != int64(i) {
			t.Errorf("items[%d].ID = %d, want %d", i, item.ID, i)
		}
		if item.Payload == "" {
			t.Errorf("items[%d] has empty payload", i)
		}
	}
}
