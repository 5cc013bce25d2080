package exchangerate

import (
	"github.com/resellhq/tldpricing/internal/exchangerate/repository"
	"github.com/resellhq/tldpricing/internal/exchangerate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("exchangerate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(service.AsConverter),
)
