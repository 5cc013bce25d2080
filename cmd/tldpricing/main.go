package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/resellhq/tldpricing/internal/clock"
	"github.com/resellhq/tldpricing/internal/config"
	"github.com/resellhq/tldpricing/internal/logger"
	"github.com/resellhq/tldpricing/internal/migration"
	"github.com/resellhq/tldpricing/internal/server"
	"github.com/resellhq/tldpricing/pkg/db"
	"github.com/resellhq/tldpricing/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		telemetry.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
