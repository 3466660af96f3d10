package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"reconai/internal/analysis"
	"reconai/internal/config"
	"reconai/internal/intel"
	"reconai/internal/models"
	"reconai/pkg/logger"
	"reconai/pkg/portscan"
)

// Config holds the one-shot scan invocation.
type Config struct {
	Target     string
	TargetKind string
	ScanKind   string
	Modules    []string
	State      string
	DOB        string
	Verbose    bool
	ConfigPath string
	Timeout    time.Duration
}

// App represents the one-shot scan application.
type App struct {
	config     *Config
	appConfig  *config.Config
	logger     *logger.Logger
	registry   *intel.Registry
	dispatcher *intel.Dispatcher
	analyzer   analysis.Client
}

// NewApp wires the collection modules for a single CLI scan. No database is
// involved; the aggregate is printed to stdout.
func NewApp(cfg *Config) (*App, error) {
	logLevel := logrus.InfoLevel
	if cfg.Verbose {
		logLevel = logrus.DebugLevel
	}
	appLogger := logger.NewLogger(logLevel)

	appConfig, err := config.Load(config.Options{ConfigPath: cfg.ConfigPath})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	scanner := portscan.NewScanner(
		portscan.WithWorkers(appConfig.Scan.PortWorkers),
		portscan.WithConnectTimeout(appConfig.Scan.ConnectTimeout),
		portscan.WithBannerWait(appConfig.Scan.BannerWait),
		portscan.WithRateLimit(appConfig.Scan.ProbesPerSecond),
		portscan.WithLogger(appLogger),
	)

	registry := intel.NewRegistry()
	if appConfig.Scan.DNSServer != "" {
		registry.Register(intel.NewDomainModule(intel.WithDNSServer(appConfig.Scan.DNSServer)))
	} else {
		registry.Register(intel.NewDomainModule())
	}
	registry.Register(intel.NewWebModule())
	registry.Register(intel.NewNetworkModule(scanner))
	registry.Register(intel.NewSocialModule())
	registry.Register(intel.NewThreatModule())
	registry.Register(intel.NewPersonModule())

	dispatcher := intel.NewDispatcher(
		intel.WithModuleTimeout(appConfig.Scan.ModuleTimeout),
		intel.WithDispatcherLogger(appLogger),
	)

	return &App{
		config:     cfg,
		appConfig:  appConfig,
		logger:     appLogger,
		registry:   registry,
		dispatcher: dispatcher,
		analyzer:   analysis.NewClient(appConfig.Analysis.APIKey, appConfig.Analysis.Model),
	}, nil
}

// Run executes the scan and prints the aggregate as indented JSON.
func (a *App) Run(ctx context.Context) error {
	names := a.config.Modules
	if a.config.TargetKind == models.TargetKindPerson {
		names = []string{intel.ModulePerson}
	} else if len(names) == 0 {
		names = intel.DomainModules
	}

	modules, err := a.registry.Resolve(names)
	if err != nil {
		return err
	}

	timeout := a.config.Timeout
	if timeout <= 0 {
		timeout = a.appConfig.Scan.ScanTimeout
	}
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := intel.Target{
		Value: a.config.Target,
		Kind:  a.config.TargetKind,
		State: a.config.State,
		DOB:   a.config.DOB,
	}

	started := time.Now()
	report := a.dispatcher.Dispatch(scanCtx, modules, target)
	result := a.analyzer.Analyze(scanCtx, a.config.Target, report)

	a.logger.WithFields(logger.Fields{
		"duration": time.Since(started).String(),
		"failed":   len(report.Errors()),
	}).Info("Scan finished")

	out, err := json.MarshalIndent(map[string]interface{}{
		"target":      a.config.Target,
		"target_type": a.config.TargetKind,
		"scan_type":   a.config.ScanKind,
		"results":     report,
		"analysis":    result,
		"timestamp":   time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	fmt.Println(string(out))
	return nil
}

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cfg := &Config{}
	var moduleList string

	scanCmd := &cobra.Command{
		Use:   "scan [target]",
		Short: "Run a one-shot scan against a target",
		Long:  `Run the selected intelligence modules against a target and print the aggregate report as JSON`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if cfg.Target == "" && len(args) > 0 {
				cfg.Target = args[0]
			}
			if cfg.Target == "" {
				return fmt.Errorf("a target is required, pass it as an argument or with --target")
			}

			if moduleList != "" {
				for _, name := range strings.Split(moduleList, ",") {
					if trimmed := strings.TrimSpace(name); trimmed != "" {
						cfg.Modules = append(cfg.Modules, trimmed)
					}
				}
			}
			if cfg.ScanKind == "" {
				cfg.ScanKind = models.ScanKindFull
			}
			if cfg.TargetKind == "" {
				cfg.TargetKind = models.TargetKindDomain
			}

			app, err := NewApp(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigChan
				app.logger.WithFields(logger.Fields{
					"signal": sig.String(),
				}).Info("Received shutdown signal")
				cancel()
			}()

			return app.Run(ctx)
		},
	}

	scanCmd.Flags().StringVarP(&cfg.Target, "target", "t", "", "Target domain or person name")
	scanCmd.Flags().StringVarP(&moduleList, "modules", "m", "", "Comma-separated module list (default: all domain modules)")
	scanCmd.Flags().StringVar(&cfg.ScanKind, "scan-type", "", "Scan type: full, quick or custom")
	scanCmd.Flags().StringVar(&cfg.TargetKind, "target-type", "", "Target type: domain or person")
	scanCmd.Flags().StringVar(&cfg.State, "state", "", "US state hint for person targets")
	scanCmd.Flags().StringVar(&cfg.DOB, "dob", "", "Date of birth hint for person targets")
	scanCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose logging")
	scanCmd.Flags().StringVar(&cfg.ConfigPath, "config", "", "Configuration directory path")
	scanCmd.Flags().DurationVar(&cfg.Timeout, "timeout", 0, "Overall scan timeout (default from config)")

	return scanCmd
}
