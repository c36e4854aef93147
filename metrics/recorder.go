package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/swarmlab/accord/logging"
	"go.uber.org/multierr"
)

// Measurement is a loggable metrics event. The name tags the measurement in
// the log so that readers can decode the concrete type.
type Measurement interface {
	Name() string
	GetEvent() Event
}

// Logger logs measurements as a JSON array.
type Logger interface {
	Log(Measurement)
	io.Closer
}

type jsonLogger struct {
	logger logging.Logger

	mut   sync.Mutex
	wr    io.Writer
	first bool
}

// envelope pairs a measurement with its name so that the reader knows which
// concrete type to decode the payload into.
type envelope struct {
	Name string `json:"name"`
	Data any    `json:"data"`
}

// NewJSONLogger returns a new metrics logger that logs to the specified writer.
func NewJSONLogger(wr io.Writer) (Logger, error) {
	_, err := io.WriteString(wr, "[\n")
	if err != nil {
		return nil, fmt.Errorf("failed to write start of JSON array: %v", err)
	}
	return &jsonLogger{logger: logging.New("metrics"), wr: wr, first: true}, nil
}

func (dl *jsonLogger) Log(m Measurement) {
	if err := dl.write(m); err != nil {
		dl.logger.Errorf("failed to write measurement to log: %v", err)
	}
}

func (dl *jsonLogger) write(m Measurement) error {
	dl.mut.Lock()
	defer dl.mut.Unlock()

	if dl.first {
		dl.first = false
	} else {
		// write a comma and newline to separate the messages
		_, err := io.WriteString(dl.wr, ",\n")
		if err != nil {
			return err
		}
	}

	b, err := json.MarshalIndent(envelope{Name: m.Name(), Data: m}, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to marshal measurement to JSON: %w", err)
	}
	_, err = dl.wr.Write(b)
	return err
}

// Close terminates the JSON array and closes the underlying writer if it is
// a closer.
func (dl *jsonLogger) Close() error {
	dl.mut.Lock()
	defer dl.mut.Unlock()

	_, err := io.WriteString(dl.wr, "\n]")
	if closer, ok := dl.wr.(io.Closer); ok {
		err = multierr.Append(err, closer.Close())
	}
	return err
}

type nopLogger struct{}

func (nopLogger) Log(Measurement) {}
func (nopLogger) Close() error    { return nil }

// NopLogger returns a metrics logger that discards any measurements.
// This is useful for testing and other situations where metrics logging is disabled.
func NopLogger() Logger {
	return nopLogger{}
}
