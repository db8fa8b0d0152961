package uci

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Widget is the UI element a controller uses to present an option.
type Widget int

const (
	WidgetSpin Widget = iota + 1
	WidgetButton
)

func (w Widget) String() string {
	switch w {
	case WidgetSpin:
		return "spin"
	case WidgetButton:
		return "button"
	default:
		return fmt.Sprintf("Widget(%d)", int(w))
	}
}

// EngineOption describes one tunable engine parameter.
// Empty Default, Min or Max means the field is absent.
type EngineOption struct {
	Name    string
	Widget  Widget
	Default string
	Min     string
	Max     string
}

// Spin builds a numeric-range option.
func Spin(name string, def, min, max int) EngineOption {
	return EngineOption{
		Name:    name,
		Widget:  WidgetSpin,
		Default: strconv.Itoa(def),
		Min:     strconv.Itoa(min),
		Max:     strconv.Itoa(max),
	}
}

// Button builds a trigger option.
func Button(name string) EngineOption {
	return EngineOption{Name: name, Widget: WidgetButton}
}

// Line renders the option as a UCI "option" reply. Absent fields are left
// out entirely, so the line never contains doubled or trailing spaces.
func (o EngineOption) Line() string {
	parts := []string{"option", "name", o.Name, "type", o.Widget.String()}
	for _, f := range [...]struct{ key, val string }{
		{"default", o.Default},
		{"min", o.Min},
		{"max", o.Max},
	} {
		if f.val != "" {
			parts = append(parts, f.key, f.val)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Validate checks a setoption value against the option's widget and bounds.
func (o EngineOption) Validate(value string) error {
	if o.Widget != WidgetSpin {
		return nil
	}

	if value == "" {
		return fmt.Errorf("missing value for option %s", o.Name)
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value %s for option %s", value, o.Name)
	}
	if o.Min != "" {
		if min, err := strconv.Atoi(o.Min); err == nil && v < min {
			return fmt.Errorf("invalid value %s for option %s", value, o.Name)
		}
	}
	if o.Max != "" {
		if max, err := strconv.Atoi(o.Max); err == nil && v > max {
			return fmt.Errorf("invalid value %s for option %s", value, o.Name)
		}
	}
	return nil
}

// Registry is the immutable, ordered set of engine options.
//
// It is built once at startup and then shared read-only by the engine loop
// and the output writer, so it needs no locking.
type Registry struct {
	options []EngineOption
}

// NewRegistry copies opts in registration order. Names are NFC-normalised.
func NewRegistry(opts ...EngineOption) *Registry {
	copied := make([]EngineOption, len(opts))
	for i, o := range opts {
		o.Name = norm.NFC.String(o.Name)
		copied[i] = o
	}
	return &Registry{options: copied}
}

// Options returns a copy of the options in registration order.
func (r *Registry) Options() []EngineOption {
	if r == nil {
		return nil
	}
	return append([]EngineOption(nil), r.options...)
}

// Len returns the number of registered options.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.options)
}

// Lookup finds an option by name. UCI option names are case-insensitive.
func (r *Registry) Lookup(name string) (EngineOption, bool) {
	if r == nil {
		return EngineOption{}, false
	}
	name = norm.NFC.String(name)
	for _, o := range r.options {
		if strings.EqualFold(o.Name, name) {
			return o, true
		}
	}
	return EngineOption{}, false
}

// Lines renders every option in registration order.
func (r *Registry) Lines() []string {
	if r == nil {
		return nil
	}
	lines := make([]string, 0, len(r.options))
	for _, o := range r.options {
		lines = append(lines, o.Line())
	}
	return lines
}
