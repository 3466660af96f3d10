package server

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"reconai/api/routes"
	"reconai/internal/analysis"
	"reconai/internal/config"
	"reconai/internal/dao"
	"reconai/internal/database"
	"reconai/internal/intel"
	"reconai/internal/notification"
	"reconai/internal/services"
	"reconai/pkg/logger"
	"reconai/pkg/portscan"
)

type ServerOpts struct {
	Port       int
	Host       string
	ConfigPath string
}

func NewServerCommand() *cobra.Command {
	serverOpts := &ServerOpts{}

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the ReconAI server",
		Long:  `Start the ReconAI server to run and inspect scans over a REST API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.Load(config.Options{ConfigPath: serverOpts.ConfigPath})
			if err != nil {
				return err
			}

			level, err := logrus.ParseLevel(cfg.LogLevel)
			if err != nil {
				level = logrus.InfoLevel
			}
			log := logger.NewLogger(level)

			db, err := database.Connect(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect database: %w", err)
			}

			scanService := buildScanService(cfg, db, log)

			cfg.Watch(log, func(fresh *config.Config) {
				if parsed, err := logrus.ParseLevel(fresh.LogLevel); err == nil {
					logrus.SetLevel(parsed)
				}
			})

			if serverOpts.Port != 0 {
				cfg.Server.Port = serverOpts.Port
			}
			if serverOpts.Host != "" {
				cfg.Server.Host = serverOpts.Host
			}

			router := routes.InitRouter(scanService)
			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			log.WithFields(logger.Fields{"addr": addr}).Info("Starting server")
			return router.Run(addr)
		},
	}

	serverCmd.Flags().IntVarP(&serverOpts.Port, "port", "p", 0, "Port to run the server on (overrides config)")
	serverCmd.Flags().StringVarP(&serverOpts.Host, "host", "i", "", "Address to bind the server to (overrides config)")
	serverCmd.Flags().StringVar(&serverOpts.ConfigPath, "config", "", "Configuration directory path")

	return serverCmd
}

func buildScanService(cfg *config.Config, db *gorm.DB, log *logger.Logger) services.ScanServiceMethods {
	scanner := portscan.NewScanner(
		portscan.WithWorkers(cfg.Scan.PortWorkers),
		portscan.WithConnectTimeout(cfg.Scan.ConnectTimeout),
		portscan.WithBannerWait(cfg.Scan.BannerWait),
		portscan.WithRateLimit(cfg.Scan.ProbesPerSecond),
		portscan.WithLogger(log),
	)

	registry := intel.NewRegistry()
	if cfg.Scan.DNSServer != "" {
		registry.Register(intel.NewDomainModule(intel.WithDNSServer(cfg.Scan.DNSServer)))
	} else {
		registry.Register(intel.NewDomainModule())
	}
	registry.Register(intel.NewWebModule())
	registry.Register(intel.NewNetworkModule(scanner))
	registry.Register(intel.NewSocialModule())
	registry.Register(intel.NewThreatModule())
	registry.Register(intel.NewPersonModule())

	dispatcher := intel.NewDispatcher(
		intel.WithModuleTimeout(cfg.Scan.ModuleTimeout),
		intel.WithDispatcherLogger(log),
	)

	analyzer := analysis.NewClient(cfg.Analysis.APIKey, cfg.Analysis.Model)

	opts := []services.ScanServiceOpt{
		services.WithQueue(services.NewScanQueue(cfg.Scan.MaxConcurrent)),
		services.WithScanTimeout(cfg.Scan.ScanTimeout),
	}
	if notifier, err := notification.NewClient(cfg.Discord.Token, cfg.Discord.ChannelID); err == nil {
		log.Info("Discord notifications enabled")
		opts = append(opts, services.WithNotifier(notifier))
	} else {
		log.Info("Discord notifications disabled")
	}

	return services.NewScanService(dao.NewScanDAO(db), registry, dispatcher, analyzer, opts...)
}
