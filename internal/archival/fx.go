package archival

import (
	"context"
	"time"

	"go.uber.org/fx"
)

// sweepInterval is the cadence of the background sweep. Daily matches the
// pace at which retention horizons move.
const sweepInterval = 24 * time.Hour

var Module = fx.Module("archival.sweeper",
	fx.Provide(New),
	fx.Invoke(runSweeper),
)

func runSweeper(lc fx.Lifecycle, sweeper *Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go sweeper.RunForever(ctx, sweepInterval)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
