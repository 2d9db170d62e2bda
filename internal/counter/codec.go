package counter

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	// queryPattern matches what a user types: "<label>: <n>", space optional.
	queryPattern = regexp.MustCompile(`(?s)^(.*): ?(-?\d+)`)
	// renderedPattern matches only what Render produces.
	renderedPattern = regexp.MustCompile(`(?s)^(.*): \*(-?\d+)\*`)
)

// State is a counter: a label and its current value.
type State struct {
	Label string
	Value int64
}

// ParseQuery reads the state out of inline query text. Text that does not
// look like "<label>: <n>" becomes the label of a counter at zero.
func ParseQuery(text string) State {
	if s, ok := match(queryPattern, text); ok {
		return s
	}
	return State{Label: text}
}

// ParseRendered is the inverse of Render. It reports false for any text
// Render could not have produced.
func ParseRendered(text string) (State, bool) {
	return match(renderedPattern, text)
}

func match(re *regexp.Regexp, text string) (State, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return State{}, false
	}
	value, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return State{}, false
	}
	return State{Label: m[1], Value: value}, true
}

// Render formats the state as message text with the value in bold.
func Render(s State) string {
	return fmt.Sprintf("%s: *%d*", s.Label, s.Value)
}

func (s State) Render() string { return Render(s) }

// Describe formats the state without markup.
func (s State) Describe() string {
	return fmt.Sprintf("%s: %d", s.Label, s.Value)
}

func (s State) Shift(delta int64) State {
	return State{Label: s.Label, Value: s.Value + delta}
}

func (s State) Inc() State { return s.Shift(1) }

func (s State) Dec() State { return s.Shift(-1) }
