package finance

import (
	"embed"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	directorypersistence "github.com/vestaclub/vesta/modules/directory/infrastructure/persistence"
	directoryservices "github.com/vestaclub/vesta/modules/directory/services"
	"github.com/vestaclub/vesta/modules/finance/infrastructure/persistence"
	"github.com/vestaclub/vesta/modules/finance/presentation/controllers"
	"github.com/vestaclub/vesta/modules/finance/services"
	"github.com/vestaclub/vesta/pkg/application"
	"github.com/vestaclub/vesta/pkg/configuration"
	"github.com/vestaclub/vesta/pkg/notify"
)

//go:embed infrastructure/persistence/schema/finance-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

// Register wires the finance services. Depends on the directory module
// being registered first for the access service.
func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	conf := configuration.Use()
	defaultRate, err := decimal.NewFromString(conf.Finance.DefaultMonthlyRate)
	if err != nil {
		return err
	}
	clock := clockwork.NewRealClock()
	dispatcher := notify.NewLogDispatcher(conf.Logger())

	investments := persistence.NewInvestmentRepository()
	renewals := persistence.NewRenewalRepository()
	rates := services.NewRateService(persistence.NewRateCardRepository())

	investmentService := services.NewInvestmentService(
		investments,
		renewals,
		rates,
		directorypersistence.NewActorRepository(),
		app.Service(directoryservices.AccessService{}).(*directoryservices.AccessService),
		app.EventPublisher(),
		dispatcher,
		clock,
		defaultRate,
	)
	scheduleService := services.NewScheduleService(investments, clock, services.ScheduleConfig{
		RenewalWindowBefore: conf.Finance.RenewalWindowBefore,
		RenewalWindowAfter:  conf.Finance.RenewalWindowAfter,
		AccrualGateLookback: conf.Finance.AccrualGateLookback,
		PayoutBusinessDay:   conf.Finance.PayoutBusinessDay,
	})

	app.RegisterServices(rates, investmentService, scheduleService)

	app.RegisterControllers(
		controllers.NewInvestmentAPIController(app, clock),
		controllers.NewScheduleAPIController(app, clock),
	)

	return nil
}

func (m *Module) Name() string {
	return "finance"
}
