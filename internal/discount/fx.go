package discount

import (
	"github.com/resellhq/tldpricing/internal/discount/repository"
	"github.com/resellhq/tldpricing/internal/discount/service"
	"go.uber.org/fx"
)

var Module = fx.Module("discount.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
