package registrar

import (
	"github.com/resellhq/tldpricing/internal/registrar/repository"
	"github.com/resellhq/tldpricing/internal/registrar/service"
	"go.uber.org/fx"
)

var Module = fx.Module("registrar.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(service.AsSelector),
)
