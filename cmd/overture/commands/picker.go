package commands

import (
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/overture/internal/errors"
)

// pickClients presents a fuzzy multi-select over client ids. Aborting the
// picker returns an empty selection rather than an error.
func pickClients(names []string) ([]string, error) {
	indexes, err := fuzzyfinder.FindMulti(
		names,
		func(i int) string {
			return names[i]
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			a, ok := registry.Get(names[i])
			if !ok {
				return ""
			}
			var b strings.Builder
			b.WriteString("Client: " + a.Name() + "\n")
			b.WriteString("Config key: " + a.RootKey() + "\n")
			if path := a.DetectConfigPath(currentPlatform(), ""); path != "" {
				b.WriteString("Config path: " + path + "\n")
			}
			return b.String()
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "interactive client selection failed")
	}

	selected := make([]string, 0, len(indexes))
	for _, i := range indexes {
		selected = append(selected, names[i])
	}
	return selected, nil
}
