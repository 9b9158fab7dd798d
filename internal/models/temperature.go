package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit identifies which field of the temperature converter an edit targets
type Unit int

const (
	Celsius Unit = iota
	Fahrenheit
)

// String returns the lowercase unit name used in JSON payloads and logs
func (u Unit) String() string {
	switch u {
	case Celsius:
		return "celsius"
	case Fahrenheit:
		return "fahrenheit"
	default:
		return "unknown"
	}
}

// ParseUnit accepts "c", "celsius", "f" or "fahrenheit" in any case
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(s) {
	case "c", "celsius":
		return Celsius, nil
	case "f", "fahrenheit":
		return Fahrenheit, nil
	default:
		return 0, fmt.Errorf("unknown temperature unit %q", s)
	}
}

// Edit is the raw content of one converter field at the moment of an input event
type Edit struct {
	Unit Unit
	Text string
}

// CelsiusEdit builds an edit of the Celsius field
func CelsiusEdit(text string) Edit {
	return Edit{Unit: Celsius, Text: text}
}

// FahrenheitEdit builds an edit of the Fahrenheit field
func FahrenheitEdit(text string) Edit {
	return Edit{Unit: Fahrenheit, Text: text}
}

// Value parses the edit text as a decimal floating-point literal. Magnitudes
// beyond float32 become infinities, and "inf", "infinity" and "nan" name the
// non-finite values, so every display the converter renders parses back.
func (e Edit) Value() (float32, error) {
	lower := strings.ToLower(strings.TrimLeft(e.Text, "+-"))
	if strings.HasPrefix(lower, "0x") {
		return 0, &UnparsableNumberError{Unit: e.Unit, Text: e.Text, Err: strconv.ErrSyntax}
	}

	v, err := strconv.ParseFloat(e.Text, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, &UnparsableNumberError{Unit: e.Unit, Text: e.Text, Err: err}
	}

	return float32(v), nil
}

// Display is what one converter field renders: a validity flag and its text
type Display struct {
	Valid bool   `json:"valid"`
	Text  string `json:"text"`
}

// TemperatureState is the converter's immutable state. A new value replaces
// the old one on every edit.
//
// The celsius/fahrenheit pair always describes one temperature. The failed
// edit slot holds at most one unparsable edit and never touches the pair.
type TemperatureState struct {
	celsius       float32
	fahrenheit    float32
	failedEdit    Edit
	hasFailedEdit bool
}

// NewTemperatureState returns the mount-time state: 0°C, 32°F, no failed edit
func NewTemperatureState() TemperatureState {
	const celsius float32 = 0
	return TemperatureState{
		celsius:    celsius,
		fahrenheit: CelsiusToFahrenheit(celsius),
	}
}

// Celsius returns the last known-good Celsius value
func (s TemperatureState) Celsius() float32 {
	return s.celsius
}

// Fahrenheit returns the last known-good Fahrenheit value
func (s TemperatureState) Fahrenheit() float32 {
	return s.fahrenheit
}

// FailedEdit returns the most recent unparsable edit, if any
func (s TemperatureState) FailedEdit() (Edit, bool) {
	return s.failedEdit, s.hasFailedEdit
}

// Apply returns the state that results from edit. The receiver is not modified.
// Any new edit clears the failed edit slot, whichever field it belonged to.
func (s TemperatureState) Apply(edit Edit) TemperatureState {
	v, err := edit.Value()
	if err != nil {
		return TemperatureState{
			celsius:       s.celsius,
			fahrenheit:    s.fahrenheit,
			failedEdit:    edit,
			hasFailedEdit: true,
		}
	}

	switch edit.Unit {
	case Fahrenheit:
		return TemperatureState{celsius: FahrenheitToCelsius(v), fahrenheit: v}
	default:
		return TemperatureState{celsius: v, fahrenheit: CelsiusToFahrenheit(v)}
	}
}

// DisplayFor derives what the field for unit shows. Only the field holding
// the failed edit shows raw text; the other shows its canonical value.
func (s TemperatureState) DisplayFor(unit Unit) Display {
	if s.hasFailedEdit && s.failedEdit.Unit == unit {
		return Display{Valid: false, Text: s.failedEdit.Text}
	}

	if unit == Fahrenheit {
		return Display{Valid: true, Text: FormatTemperature(s.fahrenheit)}
	}
	return Display{Valid: true, Text: FormatTemperature(s.celsius)}
}

// CelsiusToFahrenheit converts c*(9/5)+32. The factor is folded first so
// every finite Celsius value below about 1.89e38 stays finite.
func CelsiusToFahrenheit(c float32) float32 {
	return c*(9.0/5) + 32
}

// FahrenheitToCelsius converts (f-32)*(5/9)
func FahrenheitToCelsius(f float32) float32 {
	return (f - 32) * (5.0 / 9)
}

// FormatTemperature renders v as the shortest decimal string that round-trips
// a float32, without exponent notation. Non-finite values render as "inf",
// "-inf" and "NaN".
func FormatTemperature(v float32) string {
	f := float64(v)
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 32)
}
