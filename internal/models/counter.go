package models

// Counter is the click counter's state. Like TemperatureState it is replaced
// wholesale on every activation.
type Counter struct {
	value int
}

// NewCounter returns a counter at zero
func NewCounter() Counter {
	return Counter{}
}

// Increment returns the counter advanced by one
func (c Counter) Increment() Counter {
	return Counter{value: c.value + 1}
}

// Value returns the current count
func (c Counter) Value() int {
	return c.value
}
