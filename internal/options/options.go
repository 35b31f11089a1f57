package options

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Streamlit configuration keys the launcher owns. Caller-supplied values for
// these are ignored; server.port is special-cased because the caller's
// preference feeds port negotiation before Resolve runs.
const (
	KeyAddress  = "server.address"
	KeyPort     = "server.port"
	KeyHeadless = "server.headless"
	KeyDevMode  = "global.developmentMode"
)

// Resolved is the final set of configuration directives passed to the
// Streamlit process. Built once per session; the reserved keys always hold
// launcher-computed values.
type Resolved map[string]string

// Resolve applies the override policy to the caller's options. port is the
// already-negotiated port for this session. The returned warnings name each
// caller-supplied reserved option that was discarded.
func Resolve(user map[string]string, port int) (Resolved, []string) {
	var warnings []string

	resolved := make(Resolved, len(user)+4)
	for k, v := range user {
		resolved[k] = v
	}

	// server.port is consumed by negotiation, not overridden silently
	for _, key := range []string{KeyAddress, KeyHeadless, KeyDevMode} {
		if _, ok := user[key]; ok {
			warnings = append(warnings, fmt.Sprintf("option %q is overridden by the application and will be ignored", key))
		}
	}

	resolved[KeyAddress] = "localhost"
	resolved[KeyPort] = strconv.Itoa(port)
	resolved[KeyHeadless] = "true"
	resolved[KeyDevMode] = "false"

	return resolved, warnings
}

// Args renders the argv passed to the Streamlit command:
// <subcommand> <scriptPath> --key=value... with keys sorted for a
// deterministic command line.
func (r Resolved) Args(subcommand, scriptPath string) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(r)+2)
	args = append(args, subcommand, scriptPath)
	for _, k := range keys {
		args = append(args, fmt.Sprintf("--%s=%s", k, r[k]))
	}
	return args
}

// ParsePairs parses repeatable key=value flag values into an option map.
func ParsePairs(pairs []string) (map[string]string, error) {
	opts := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q (expected key=value)", pair)
		}
		opts[key] = value
	}
	return opts, nil
}
