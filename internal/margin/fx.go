package margin

import (
	"github.com/resellhq/tldpricing/internal/margin/service"
	"go.uber.org/fx"
)

var Module = fx.Module("margin.service",
	fx.Provide(service.New),
)
