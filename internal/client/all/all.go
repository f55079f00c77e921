// Package all wires every supported client adapter into a registry.
//
// It exists so the adapter packages never import each other and the core
// client package never imports its own implementations. Commands construct
// the registry here once and inject it into the sync engine and discovery
// service.
package all

import (
	"github.com/thoreinstein/overture/internal/client"
	"github.com/thoreinstein/overture/internal/client/claudecode"
	"github.com/thoreinstein/overture/internal/client/claudedesktop"
	"github.com/thoreinstein/overture/internal/client/codex"
	"github.com/thoreinstein/overture/internal/client/cursor"
	"github.com/thoreinstein/overture/internal/client/gemini"
	"github.com/thoreinstein/overture/internal/client/vscode"
)

// Registry returns a registry populated with every supported adapter.
// Registration order is the canonical client ordering used in output.
func Registry() *client.Registry {
	r := client.NewRegistry()

	// Register cannot fail here: names are compile-time constants and each
	// adapter is registered exactly once.
	for _, a := range []client.Adapter{
		claudecode.New(),
		claudedesktop.New(),
		cursor.New(),
		vscode.New(),
		gemini.New(),
		codex.New(),
	} {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}

	return r
}
