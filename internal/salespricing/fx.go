package salespricing

import (
	"github.com/resellhq/tldpricing/internal/salespricing/repository"
	"github.com/resellhq/tldpricing/internal/salespricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("salespricing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
