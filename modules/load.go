package modules

import (
	"github.com/renovaplan/renova/modules/crm"
	"github.com/renovaplan/renova/pkg/application"
)

var BuiltInModules = []application.Module{
	crm.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range BuiltInModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
