package bootstrap

import (
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	authinadapter "eqviz/internal/modules/auth/adapter/in"
	authoutadapter "eqviz/internal/modules/auth/adapter/out"
	authservice "eqviz/internal/modules/auth/service"
	authusecase "eqviz/internal/modules/auth/usecase"
	datasetinadapter "eqviz/internal/modules/dataset/adapter/in"
	datasetoutadapter "eqviz/internal/modules/dataset/adapter/out"
	datasetservice "eqviz/internal/modules/dataset/service"
	datasetusecase "eqviz/internal/modules/dataset/usecase"
	authin "eqviz/internal/modules/auth/port/in"
	datasetin "eqviz/internal/modules/dataset/port/in"
	"eqviz/internal/platform/config"
	"eqviz/internal/platform/rest"
	uiapp "eqviz/internal/ui/app"
)

type App struct {
	Config config.Config

	AuthCLI    authinadapter.CLIHandler
	DatasetCLI datasetinadapter.CLIHandler

	authUC    authin.Usecase
	datasetUC datasetin.Usecase
}

func New(cfg config.Config) (*App, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout()}
	client := rest.New(cfg.APIBaseURL, cfg.TokenScheme, httpClient)

	tokens := authoutadapter.NewFileTokenStore(cfg.TokenPath)
	authUC := authusecase.NewInteractor(
		authservice.NewAuthService(),
		authoutadapter.NewHTTPAPI(client),
		tokens,
	)

	datasetSvc := datasetservice.NewDatasetService()
	datasetUC := datasetusecase.NewInteractor(
		datasetSvc,
		datasetoutadapter.NewHTTPAPI(client),
		datasetoutadapter.NewFileReportWriter(cfg.DownloadDir, datasetSvc),
		authUC,
		authUC,
	)

	return &App{
		Config:     cfg,
		AuthCLI:    authinadapter.NewCLIHandler(authUC),
		DatasetCLI: datasetinadapter.NewCLIHandler(datasetUC),
		authUC:     authUC,
		datasetUC:  datasetUC,
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.authUC, app.datasetUC, app.Config.Timeout())
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
