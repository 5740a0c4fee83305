package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GiGurra/boa/pkg/boa"
	tea "github.com/charmbracelet/bubbletea"

	"expense-tracker-tui/internal/config"
	"expense-tracker-tui/internal/controller"
	"expense-tracker-tui/internal/export"
	"expense-tracker-tui/internal/log"
	"expense-tracker-tui/internal/render"
	"expense-tracker-tui/internal/storage"
)

type Params struct {
	Config     string `descr:"Path to the YAML config file (default ~/.expense-tracker/config.yaml)" optional:"true"`
	DataDir    string `descr:"Directory holding stored data" optional:"true"`
	Backend    string `descr:"Storage backend" alts:"file,sqlite,memory" optional:"true"`
	LogLevel   string `descr:"Log level" alts:"debug,info,warn,error" optional:"true"`
	LogFile    string `descr:"Log file path (default <data-dir>/debug.log)" optional:"true"`
	List       bool   `descr:"Print the expenses and totals, then exit" optional:"true"`
	Search     string `descr:"Only show expenses whose name contains this text" optional:"true"`
	Category   string `descr:"Only show expenses in this category" optional:"true"`
	Date       string `descr:"Only show expenses on this date (YYYY-MM-DD)" optional:"true"`
	Export     string `descr:"Write the expenses and totals to this .xlsx file, then exit" optional:"true"`
	InitConfig bool   `descr:"Write the effective configuration to the config file, then exit" optional:"true"`
}

func main() {
	boa.NewCmdT[Params]("expense-tracker").
		WithShort("Track income and expenses in the terminal").
		WithLong("Records expenses (name, amount, date, category) against a single income figure, shows the running balance, and keeps everything in a local data directory. Without --list or --export an interactive terminal UI starts.").
		WithRunFunc(func(params *Params) {
			if err := run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(params *Params, out io.Writer) error {
	cfgPath := params.Config
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg.Override(config.Config{
		DataDir:  params.DataDir,
		Backend:  params.Backend,
		LogLevel: params.LogLevel,
		LogFile:  params.LogFile,
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	if params.InitConfig {
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote configuration to %s\n", cfgPath)
		return nil
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, closer, err := log.OpenFile(cfg.LogPath(), level)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closer.Close()
	log.SetDefault(logger)
	logger.WithComponent(log.ComponentConfig).Info("Configuration loaded",
		log.FieldPath, cfgPath, log.FieldBackend, cfg.Backend)

	storeLog := logger.WithComponent(log.ComponentStorage)
	kv, err := storage.Open(storage.Backend(cfg.Backend), cfg.DataDir)
	if err != nil {
		storeLog.Error("Failed to open storage", log.FieldBackend, cfg.Backend, log.FieldError, err)
		return fmt.Errorf("opening %s storage: %w", cfg.Backend, err)
	}
	defer kv.Close()
	storeLog.Info("Storage opened", log.FieldBackend, cfg.Backend, log.FieldPath, cfg.DataDir)

	ctrl := controller.New(kv, logger)
	if err := ctrl.LoadErr(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: stored data could not be read, starting empty: %v\n", err)
	}

	applyCriteria(ctrl, params)

	if params.Export != "" {
		exportLog := logger.WithComponent(log.ComponentExport)
		if err := export.WriteXLSX(params.Export, ctrl.Visible(), ctrl.Summary()); err != nil {
			exportLog.Error("Export failed", log.FieldOperation, log.OpExport, log.FieldPath, params.Export, log.FieldError, err)
			return err
		}
		exportLog.Info("Exported expenses", log.FieldOperation, log.OpExport, log.FieldPath, params.Export, log.FieldCount, len(ctrl.Visible()))
		fmt.Fprintf(out, "Exported %d expenses to %s\n", len(ctrl.Visible()), params.Export)
	}
	if params.List {
		render.WriteTable(out, ctrl.Visible(), ctrl.Summary())
	}
	if params.List || params.Export != "" {
		return nil
	}

	exportPath := filepath.Join(cfg.DataDir, "expenses.xlsx")
	p := tea.NewProgram(NewModel(ctrl, logger, exportPath), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// applyCriteria seeds the filters from the command line. They shape the
// batch output and the list the TUI opens with.
func applyCriteria(ctrl *controller.Controller, params *Params) {
	ctrl.SetSearch(params.Search)
	ctrl.SetCategoryFilter(params.Category)
	ctrl.SetDateFilter(params.Date)
}
