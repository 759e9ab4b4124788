package scenario

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScenario is returned by Get for names with no registered
// scenario.
var ErrUnknownScenario = errors.New("scenario: unknown scenario")

var builtins = map[string]func() Scenario{
	"crash":  NewCrash,
	"bubble": NewBubble,
	"sybil":  func() Scenario { return NewSybil(DefaultSybilConfig()) },
}

// Get returns the named built-in scenario.
func Get(name string) (Scenario, error) {
	fn, ok := builtins[name]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	return fn(), nil
}

// Names lists the built-in scenarios in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every built-in scenario, sorted by name.
func All() []Scenario {
	names := Names()
	scenarios := make([]Scenario, 0, len(names))
	for _, name := range names {
		scenarios = append(scenarios, builtins[name]())
	}
	return scenarios
}
