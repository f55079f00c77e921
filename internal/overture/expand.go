package overture

import (
	"os"
	"regexp"
)

// envTokenRe matches ${NAME} tokens. Only the braced form is substituted;
// bare $NAME is left alone to avoid mangling shell snippets in args.
var envTokenRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvValue substitutes every ${NAME} token in value using lookup.
// Unset variables expand to the empty string. A nil lookup uses the
// process environment.
func ExpandEnvValue(value string, lookup func(string) string) string {
	if lookup == nil {
		lookup = os.Getenv
	}
	return envTokenRe.ReplaceAllStringFunc(value, func(token string) string {
		name := envTokenRe.FindStringSubmatch(token)[1]
		return lookup(name)
	})
}

// ExpandEnvMap returns a copy of env with every value expanded via
// ExpandEnvValue. A nil map stays nil.
func ExpandEnvMap(env map[string]string, lookup func(string) string) map[string]string {
	if env == nil {
		return nil
	}
	expanded := make(map[string]string, len(env))
	for k, v := range env {
		expanded[k] = ExpandEnvValue(v, lookup)
	}
	return expanded
}
