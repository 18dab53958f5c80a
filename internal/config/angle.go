package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soniakeys/unit"
	"gopkg.in/yaml.v3"
)

// Angle is a pitch angle that reads from YAML as a bare number of radians or
// a string with a unit suffix: "10deg", "10°" or "0.2rad".
type Angle unit.Angle

// ParseAngle parses the textual forms accepted by Angle.
func ParseAngle(s string) (unit.Angle, error) {
	s = strings.TrimSpace(s)
	scale := func(v float64) unit.Angle { return unit.Angle(v) }
	switch {
	case strings.HasSuffix(s, "deg"):
		s = strings.TrimSuffix(s, "deg")
		scale = unit.AngleFromDeg
	case strings.HasSuffix(s, "°"):
		s = strings.TrimSuffix(s, "°")
		scale = unit.AngleFromDeg
	case strings.HasSuffix(s, "rad"):
		s = strings.TrimSuffix(s, "rad")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid angle %q: %w", s, err)
	}
	return scale(v), nil
}

func (a *Angle) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: angle must be a scalar", value.Line)
	}
	parsed, err := ParseAngle(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*a = Angle(parsed)
	return nil
}

// MarshalYAML writes the angle in radians.
func (a Angle) MarshalYAML() (any, error) {
	return unit.Angle(a).Rad(), nil
}

func (a Angle) Rad() float64 { return unit.Angle(a).Rad() }
func (a Angle) Deg() float64 { return unit.Angle(a).Deg() }
