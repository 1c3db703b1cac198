package directory

import (
	"embed"

	"github.com/vestaclub/vesta/modules/directory/infrastructure/persistence"
	"github.com/vestaclub/vesta/modules/directory/presentation/controllers"
	"github.com/vestaclub/vesta/modules/directory/services"
	"github.com/vestaclub/vesta/pkg/application"
)

//go:embed infrastructure/persistence/schema/directory-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	repo := persistence.NewActorRepository()
	app.RegisterServices(
		services.NewDirectoryService(repo, app.EventPublisher()),
		services.NewAccessService(repo),
	)

	app.RegisterControllers(
		controllers.NewActorAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "directory"
}
