package crm

import (
	"embed"

	"github.com/renovaplan/renova/modules/crm/infrastructure/persistence"
	"github.com/renovaplan/renova/modules/crm/presentation/controllers"
	"github.com/renovaplan/renova/modules/crm/services"
	"github.com/renovaplan/renova/pkg/application"
	"github.com/renovaplan/renova/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/crm-schema.sql
var migrationFS embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "crm"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&migrationFS)

	conf := configuration.Use()
	clientRepo := persistence.NewClientRepository()
	policyRepo := persistence.NewPolicyRepository()

	services.NewAuditService(conf.Logger()).Register(app.EventPublisher())

	app.RegisterServices(
		services.NewClientService(clientRepo, app.EventPublisher()),
		services.NewPolicyService(policyRepo, app.EventPublisher()),
		services.NewImportService(clientRepo, policyRepo, app.EventPublisher(), services.ImportConfig{
			SnapshotLimit: conf.Import.SnapshotLimit,
			NameDateDedup: conf.Import.NameDateDedup,
		}),
		services.NewDashboardService(clientRepo, policyRepo, conf.Import.SnapshotLimit),
		services.NewExportService(clientRepo, policyRepo, conf.Import.SnapshotLimit),
		services.NewDangerZoneService(clientRepo, policyRepo),
	)

	app.RegisterControllers(
		controllers.NewClientsController(app),
		controllers.NewPoliciesController(app),
		controllers.NewDashboardController(app),
		controllers.NewImportController(app),
		controllers.NewExportController(app),
		controllers.NewDangerZoneController(app),
	)

	return nil
}
