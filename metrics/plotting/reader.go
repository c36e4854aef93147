// Package plotting reads measurement logs back and renders them as plots.
package plotting

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/swarmlab/accord/metrics"
)

// Plotter processes measurements from a reader.
type Plotter interface {
	// Add adds a measurement to the plotter.
	Add(any)
}

// Reader reads measurements from JSON.
type Reader struct {
	plotters []Plotter
	rd       io.Reader
}

// NewReader returns a new reader that reads from the specified source and
// adds measurements to the plotters.
func NewReader(rd io.Reader, plotters ...Plotter) *Reader {
	return &Reader{
		plotters: plotters,
		rd:       rd,
	}
}

// ReadAll reads all measurements in the source.
func (r *Reader) ReadAll() error {
	decoder := json.NewDecoder(r.rd)

	t, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("failed to read first JSON token: %w", err)
	}
	if d, ok := t.(json.Delim); !ok || d != '[' {
		return fmt.Errorf("expected first JSON token to be the start of an array")
	}

	for decoder.More() {
		var b json.RawMessage
		err = decoder.Decode(&b)
		if err != nil {
			return err
		}
		err = r.read(b)
		if err != nil {
			return err
		}
	}

	t, err = decoder.Token()
	if err != nil {
		return fmt.Errorf("failed to read last JSON token: %w", err)
	}
	if d, ok := t.(json.Delim); !ok || d != ']' {
		return fmt.Errorf("expected last JSON token to be the end of an array")
	}

	return nil
}

func (r *Reader) read(b []byte) error {
	var header struct {
		Name string          `json:"name"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &header); err != nil {
		return fmt.Errorf("failed to unmarshal JSON message: %w", err)
	}

	msg, err := decode(header.Name, header.Data)
	if err != nil {
		return err
	}

	for _, p := range r.plotters {
		p.Add(msg)
	}

	return nil
}

// decode maps a measurement name back to its concrete type.
func decode(name string, data json.RawMessage) (any, error) {
	var msg any
	switch name {
	case metrics.StartEvent{}.Name():
		msg = &metrics.StartEvent{}
	case metrics.DecisionEvent{}.Name():
		msg = &metrics.DecisionEvent{}
	case metrics.RoundEvent{}.Name():
		msg = &metrics.RoundEvent{}
	case metrics.LatencyMeasurement{}.Name():
		msg = &metrics.LatencyMeasurement{}
	case metrics.ThroughputMeasurement{}.Name():
		msg = &metrics.ThroughputMeasurement{}
	default:
		return nil, fmt.Errorf("unknown measurement %q", name)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s measurement: %w", name, err)
	}
	return msg, nil
}
