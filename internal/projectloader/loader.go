// Package projectloader evaluates a project-definition file with an
// embedded Go interpreter and resolves the project it declares. Grounded on
// the sandboxed-interpreter pattern of a Yaegi-based code executor: load an
// interpreter, register the symbols the interpreted code is allowed to use,
// evaluate the source, then look up a well-known entry-point symbol.
package projectloader

import (
	"fmt"
	"os"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/alexisbeaulieu97/depctl/internal/project"
	depctlsymbols "github.com/alexisbeaulieu97/depctl/internal/projectloader/symbols"
	"github.com/alexisbeaulieu97/depctl/pkg/depctlerr"
)

// Factory is the shape the project-definition file's GetProject symbol must
// have.
type Factory func() (project.Project, error)

// Load evaluates the Go source at path and resolves its GetProject factory,
// calling it to produce a project.Project.
func Load(path string) (project.Project, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, depctlerr.NewConfigError(path, fmt.Sprintf("reading project file: %v", err), err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, depctlerr.NewConfigError(path, fmt.Sprintf("loading stdlib symbols: %v", err), err)
	}
	if err := i.Use(depctlsymbols.Symbols); err != nil {
		return nil, depctlerr.NewConfigError(path, fmt.Sprintf("loading project symbols: %v", err), err)
	}

	if _, err := i.Eval(string(source)); err != nil {
		return nil, depctlerr.NewConfigError(path, fmt.Sprintf("evaluating project file: %v", err), err)
	}

	value, err := i.Eval("main.GetProject")
	if err != nil {
		return nil, depctlerr.NewConfigError(path, fmt.Sprintf("missing GetProject() in '%s'", path), nil)
	}

	factory, ok := value.Interface().(func() (project.Project, error))
	if !ok {
		return nil, depctlerr.NewConfigError(path, fmt.Sprintf("missing GetProject() in '%s'", path), nil)
	}

	p, err := factory()
	if err != nil || p == nil {
		return nil, depctlerr.NewConfigError(path, fmt.Sprintf("GetProject() from '%s' did not return a Project instance", path), err)
	}

	return p, nil
}
