package tld

import (
	"github.com/resellhq/tldpricing/internal/tld/repository"
	"github.com/resellhq/tldpricing/internal/tld/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tld.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
