// Package profiling starts the standard Go profilers and fgprof behind a
// single stop function.
package profiling

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/felixge/fgprof"
	"go.uber.org/multierr"
)

// StartProfilers starts a profiler for every non-empty path and returns a
// function that stops them again. The memory profile is written when the
// stop function runs. An empty path disables the corresponding profiler.
func StartProfilers(cpuProfilePath, memProfilePath, tracePath, fgprofPath string) (stopProfilers func() error, err error) {
	var stops []func() error

	if cpuProfilePath != "" {
		f, err := os.Create(cpuProfilePath)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return nil, err
		}
		stops = append(stops, func() error {
			pprof.StopCPUProfile()
			return f.Close()
		})
	}

	if fgprofPath != "" {
		f, err := os.Create(fgprofPath)
		if err != nil {
			return nil, err
		}
		stop := fgprof.Start(f, fgprof.FormatPprof)
		stops = append(stops, func() error {
			return multierr.Append(stop(), f.Close())
		})
	}

	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return nil, err
		}
		if err := trace.Start(f); err != nil {
			return nil, err
		}
		stops = append(stops, func() error {
			trace.Stop()
			return f.Close()
		})
	}

	if memProfilePath != "" {
		stops = append(stops, func() error {
			f, err := os.Create(memProfilePath)
			if err != nil {
				return err
			}
			runtime.GC() // get up-to-date statistics
			return multierr.Append(pprof.WriteHeapProfile(f), f.Close())
		})
	}

	return func() (err error) {
		for _, stop := range stops {
			err = multierr.Append(err, stop())
		}
		return err
	}, nil
}
