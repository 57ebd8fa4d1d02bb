package settings

import "go.uber.org/fx"

var Module = fx.Module("settings_repository",
	fx.Provide(fx.Annotate(NewPgx, fx.As(new(Repository)))),
)
