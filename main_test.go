package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"expense-tracker-tui/internal/config"
	"expense-tracker-tui/internal/controller"
	"expense-tracker-tui/internal/ledger"
	"expense-tracker-tui/internal/storage"
)

func seedDataDir(t *testing.T) string {
	t.Helper()
	for _, key := range []string{config.EnvDataDir, config.EnvBackend, config.EnvLogLevel, config.EnvLogFile} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	kv, err := storage.NewFileKV(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	snap := storage.Snapshot{
		Income: decimal.RequireFromString("1000"),
		Records: []ledger.ExpenseRecord{
			{ID: 1, Name: "Coffee", Amount: decimal.RequireFromString("4.5"), Date: "2024-01-01", Category: "Food"},
			{ID: 2, Name: "Rent", Amount: decimal.RequireFromString("800"), Date: "2024-01-02", Category: "Housing"},
		},
	}
	if err := storage.Save(kv, snap); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRun_List(t *testing.T) {
	dir := seedDataDir(t)

	var out bytes.Buffer
	err := run(&Params{
		Config:   filepath.Join(dir, "config.yaml"),
		DataDir:  dir,
		Backend:  "file",
		List:     true,
		Category: "Food",
	}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Coffee") || strings.Contains(got, "Rent") {
		t.Errorf("category filter not applied:\n%s", got)
	}
	// totals always cover the whole ledger
	if !strings.Contains(got, "Expenses: 804.50") || !strings.Contains(got, "Balance: 195.50") {
		t.Errorf("unexpected totals:\n%s", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "debug.log")); err != nil {
		t.Errorf("expected log file in data dir: %v", err)
	}
}

func TestRun_Export(t *testing.T) {
	dir := seedDataDir(t)
	path := filepath.Join(dir, "out.xlsx")

	var out bytes.Buffer
	err := run(&Params{
		Config:  filepath.Join(dir, "config.yaml"),
		DataDir: dir,
		Backend: "file",
		Export:  path,
	}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Exported 2 expenses") {
		t.Errorf("unexpected output %q", out.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected workbook: %v", err)
	}
}

func TestRun_InitConfig(t *testing.T) {
	dir := seedDataDir(t)
	cfgPath := filepath.Join(dir, "config.yaml")

	var out bytes.Buffer
	if err := run(&Params{Config: cfgPath, DataDir: dir, Backend: "sqlite", InitConfig: true}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "sqlite" || cfg.DataDir != dir {
		t.Errorf("config not written: %+v", cfg)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr string
	}{
		{"unknown backend", Params{Backend: "cloud"}, "invalid backend"},
		{"unknown log level", Params{Backend: "file", LogLevel: "loud"}, "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := seedDataDir(t)
			params := tt.params
			params.Config = filepath.Join(dir, "config.yaml")
			params.DataDir = dir
			params.List = true

			var out bytes.Buffer
			err := run(&params, &out)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
			if out.Len() != 0 {
				t.Errorf("nothing should be printed on a config error, got %q", out.String())
			}
		})
	}
}

func TestRun_UnreadableStorageFallsBack(t *testing.T) {
	dir := seedDataDir(t)
	data := filepath.Join(dir, "storage.json")
	if err := os.Remove(data); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(data, 0755); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := run(&Params{Config: filepath.Join(dir, "config.yaml"), DataDir: dir, Backend: "file", List: true}, &out)
	if err != nil {
		t.Fatalf("unreadable storage should fall back to defaults: %v", err)
	}
	if !strings.Contains(out.String(), "No expenses found.") || !strings.Contains(out.String(), "Income: 0.00") {
		t.Errorf("expected empty defaults:\n%s", out.String())
	}
}

func TestApplyCriteria_SeedsInteractiveList(t *testing.T) {
	dir := seedDataDir(t)
	kv, err := storage.NewFileKV(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctrl := controller.New(kv, nil)

	applyCriteria(ctrl, &Params{Category: "Housing", Date: "2024-01-02"})

	m := NewModel(ctrl, nil, filepath.Join(dir, "expenses.xlsx"))
	if rows := m.ctrl.Visible(); len(rows) != 1 || rows[0].Name != "Rent" {
		t.Errorf("expected only Rent visible, got %+v", rows)
	}
	view := m.View()
	if !strings.Contains(view, "category=Housing") || !strings.Contains(view, "date=2024-01-02") {
		t.Errorf("filters not shown in the list view:\n%s", view)
	}
}
