package modules

import (
	"github.com/vestaclub/vesta/modules/directory"
	"github.com/vestaclub/vesta/modules/finance"
	"github.com/vestaclub/vesta/pkg/application"
)

// BuiltInModules in registration order; finance depends on directory's
// access service being registered first.
var BuiltInModules = []application.Module{
	directory.NewModule(),
	finance.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range append(BuiltInModules, externalModules...) {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
