package costpricing

import (
	"github.com/resellhq/tldpricing/internal/costpricing/repository"
	"github.com/resellhq/tldpricing/internal/costpricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("costpricing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
