package fx

import (
	"github.com/orgball2608/squirrel-collector/internal/repositories/post"
	"github.com/orgball2608/squirrel-collector/internal/repositories/settings"
	"go.uber.org/fx"
)

var Module = fx.Options(
	post.Module,
	settings.Module,
)
