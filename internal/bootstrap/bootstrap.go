package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	accountinadapter "selflab/internal/modules/account/adapter/in"
	accountoutadapter "selflab/internal/modules/account/adapter/out"
	accountservice "selflab/internal/modules/account/service"
	accountusecase "selflab/internal/modules/account/usecase"
	dailyloginadapter "selflab/internal/modules/dailylog/adapter/in"
	dailylogoutadapter "selflab/internal/modules/dailylog/adapter/out"
	dailylogservice "selflab/internal/modules/dailylog/service"
	dailylogusecase "selflab/internal/modules/dailylog/usecase"
	experimentinadapter "selflab/internal/modules/experiment/adapter/in"
	experimentoutadapter "selflab/internal/modules/experiment/adapter/out"
	experimentservice "selflab/internal/modules/experiment/service"
	experimentusecase "selflab/internal/modules/experiment/usecase"
	insightinadapter "selflab/internal/modules/insight/adapter/in"
	insightoutadapter "selflab/internal/modules/insight/adapter/out"
	insightservice "selflab/internal/modules/insight/service"
	insightusecase "selflab/internal/modules/insight/usecase"
	plugininadapter "selflab/internal/modules/plugin/adapter/in"
	pluginoutadapter "selflab/internal/modules/plugin/adapter/out"
	pluginservice "selflab/internal/modules/plugin/service"
	pluginusecase "selflab/internal/modules/plugin/usecase"
	templateinadapter "selflab/internal/modules/template/adapter/in"
	templateoutadapter "selflab/internal/modules/template/adapter/out"
	templateservice "selflab/internal/modules/template/service"
	templateusecase "selflab/internal/modules/template/usecase"
	"selflab/internal/platform/clock"
	"selflab/internal/platform/config"
	"selflab/internal/platform/id"
	"selflab/internal/platform/kv"
	"selflab/internal/platform/logger"
	uiapp "selflab/internal/ui/app"
)

type App struct {
	Config        config.Config
	Log           *logger.Logger
	AccountCLI    accountinadapter.CLIHandler
	ExperimentCLI experimentinadapter.CLIHandler
	LogCLI        dailyloginadapter.CLIHandler
	TemplateCLI   templateinadapter.CLIHandler
	InsightCLI    insightinadapter.CLIHandler
	PluginCLI     plugininadapter.CLIHandler

	medium kv.Medium
}

func New(cfg config.Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	medium, err := kv.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}
	secret, err := accountoutadapter.LoadOrCreateSecret(cfg.SecretPath())
	if err != nil {
		_ = medium.Close()
		return nil, err
	}

	clk := clock.SystemClock{}
	ids := id.UUID{}
	manager := kv.NewManager(medium)

	hasher := accountoutadapter.NewBcryptHasher(0)
	accountUC := accountusecase.NewInteractor(accountservice.NewAccountService(
		clk,
		ids,
		manager,
		accountoutadapter.NewKVUserStore(manager, clk, hasher, log),
		accountoutadapter.NewKVSessionPointer(manager),
		hasher,
		accountoutadapter.NewJWTIssuer(secret),
		log.With("module", "account"),
	))

	templateUC := templateusecase.NewInteractor(templateservice.NewTemplateService(
		templateoutadapter.NewKVTemplateStore(manager, clk, log),
		templateoutadapter.NewEmbeddedCatalog(),
		log.With("module", "template"),
	))

	logUC := dailylogusecase.NewInteractor(dailylogservice.NewDailyLogService(
		clk,
		ids,
		manager,
		dailylogoutadapter.NewKVLogStore(manager, clk, log),
		log.With("module", "dailylog"),
	))

	experimentUC := experimentusecase.NewInteractor(experimentservice.NewExperimentService(
		clk,
		ids,
		manager,
		experimentoutadapter.NewKVExperimentStore(manager, clk, log),
		experimentoutadapter.NewDailyLogPurger(logUC),
		experimentoutadapter.NewLibraryTemplateSource(templateUC),
		log.With("module", "experiment"),
	))

	insightUC := insightusecase.NewInteractor(insightservice.NewInsightService(
		clk,
		insightoutadapter.NewExperimentBridge(experimentUC),
		insightoutadapter.NewDailyLogBridge(logUC),
		insightoutadapter.NewMarkdownReports(cfg.ReportsPath()),
		log.With("module", "insight"),
	))

	pluginUC := pluginusecase.NewInteractor(pluginservice.NewPluginService(
		pluginoutadapter.NewFileManifestStore(cfg.PluginsPath()),
		pluginoutadapter.NewGRPCHost(cfg.LogMode == "dev"),
		pluginoutadapter.NewModuleDatasetSource(experimentUC, logUC),
		cfg.PluginTimeout,
		log.With("module", "plugin"),
	))

	log.Debug("app ready", "storage", cfg.Storage, "data_dir", cfg.DataDir)
	return &App{
		Config:        cfg,
		Log:           log,
		AccountCLI:    accountinadapter.NewCLIHandler(accountUC),
		ExperimentCLI: experimentinadapter.NewCLIHandler(experimentUC),
		LogCLI:        dailyloginadapter.NewCLIHandler(logUC),
		TemplateCLI:   templateinadapter.NewCLIHandler(templateUC),
		InsightCLI:    insightinadapter.NewCLIHandler(insightUC),
		PluginCLI:     plugininadapter.NewCLIHandler(pluginUC),
		medium:        medium,
	}, nil
}

// Close flushes the logger and releases the storage medium.
func (a *App) Close() error {
	a.Log.Sync()
	return a.medium.Close()
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(uiapp.Handlers{
		Account:     app.AccountCLI,
		Experiments: app.ExperimentCLI,
		Logs:        app.LogCLI,
		Templates:   app.TemplateCLI,
		Insights:    app.InsightCLI,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
