// Package symbols hand-registers this module's own exported types and
// functions with the Yaegi interpreter, the way `yaegi extract` generates a
// symbol table for a package meant to be importable from interpreted code.
// A project-definition file imports these exact paths to build its
// project.Project.
package symbols

import (
	"reflect"

	"github.com/traefik/yaegi/interp"

	"github.com/alexisbeaulieu97/depctl/internal/graph"
	"github.com/alexisbeaulieu97/depctl/internal/orchestrator"
	"github.com/alexisbeaulieu97/depctl/internal/project"
	"github.com/alexisbeaulieu97/depctl/internal/units"
)

// Symbols is passed to interp.Use so interpreted project-definition files
// can `import` this module's own packages.
var Symbols = interp.Exports{
	"github.com/alexisbeaulieu97/depctl/internal/graph/graph": {
		"Dep":          reflect.ValueOf(graph.Dep),
		"Dependencies": reflect.ValueOf((*graph.Dependencies)(nil)),
		"Construct":    reflect.ValueOf(graph.Construct),
		"Graph":        reflect.ValueOf((*graph.Graph)(nil)),
	},
	"github.com/alexisbeaulieu97/depctl/internal/orchestrator/orchestrator": {
		"Context":     reflect.ValueOf((*orchestrator.Context)(nil)),
		"Unit":        reflect.ValueOf((*orchestrator.Unit)(nil)),
		"UnitFactory": reflect.ValueOf((*orchestrator.UnitFactory)(nil)),
		"OutputRecord": reflect.ValueOf((*orchestrator.OutputRecord)(nil)),
		"AlwaysBuild": reflect.ValueOf((*orchestrator.AlwaysBuild)(nil)),
		"NoopDestroy": reflect.ValueOf((*orchestrator.NoopDestroy)(nil)),
	},
	"github.com/alexisbeaulieu97/depctl/internal/project/project": {
		"Base":        reflect.ValueOf((*project.Base)(nil)),
		"Project":     reflect.ValueOf((*project.Project)(nil)),
		"Environment": reflect.ValueOf((*project.Environment)(nil)),
	},
	"github.com/alexisbeaulieu97/depctl/internal/units/units": {
		"NewGitStack":     reflect.ValueOf(units.NewGitStack),
		"NewArchive":      reflect.ValueOf(units.NewArchive),
		"NewWebhook":      reflect.ValueOf(units.NewWebhook),
		"GitStackConfig":  reflect.ValueOf((*units.GitStackConfig)(nil)),
		"ArchiveConfig":   reflect.ValueOf((*units.ArchiveConfig)(nil)),
		"WebhookConfig":   reflect.ValueOf((*units.WebhookConfig)(nil)),
	},
}
