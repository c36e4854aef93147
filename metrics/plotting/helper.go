package plotting

import (
	"time"

	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/metrics"
	"gonum.org/v1/plot/plotter"
)

// MeasurementMap stores lists of measurements associated with the id of the
// node where they were taken.
type MeasurementMap struct {
	m map[accord.ID][]Measurement
}

// NewMeasurementMap constructs a new MeasurementMap.
func NewMeasurementMap() MeasurementMap {
	return MeasurementMap{m: make(map[accord.ID][]Measurement)}
}

// Add adds a measurement to the map.
func (m *MeasurementMap) Add(id accord.ID, measurement Measurement) {
	m.m[id] = append(m.m[id], measurement)
}

// Get returns the list of measurements associated with the specified node id.
func (m *MeasurementMap) Get(id accord.ID) (measurements []Measurement, ok bool) {
	measurements, ok = m.m[id]
	return
}

// NumIDs returns the number of node ids that are registered in the map.
func (m *MeasurementMap) NumIDs() int {
	return len(m.m)
}

// Measurement is an object with a metrics.Event getter.
type Measurement interface {
	GetEvent() metrics.Event
}

// MeasurementGroup is a collection of measurements that were taken within a
// time interval.
type MeasurementGroup struct {
	Time         time.Duration // The beginning of the time interval
	Measurements []Measurement
}

// GroupByTimeInterval merges the measurements of all nodes into groups based
// on the time interval the measurement was taken in. The StartTimes object
// is used to calculate which time interval a measurement falls in.
// Measurements from nodes without a recorded start time are dropped, as they
// cannot be placed on the time axis.
func GroupByTimeInterval(startTimes *StartTimes, m MeasurementMap, interval time.Duration) []MeasurementGroup {
	var (
		indices     = make(map[accord.ID]int, m.NumIDs()) // the index within each node's measurement list
		groups      []MeasurementGroup                    // the groups we are creating
		currentTime time.Duration                         // the start of the current time interval
	)
	for {
		var (
			remaining int                                   // number of measurements remaining to be processed
			group     = MeasurementGroup{Time: currentTime} // the group of measurements within the current time interval
		)
		for id, measurements := range m.m {
			remaining += len(measurements) - indices[id]
			for indices[id] < len(measurements) {
				m := measurements[indices[id]]
				t, ok := startTimes.NodeOffset(m.GetEvent().Node, m.GetEvent().Timestamp)
				if !ok {
					indices[id]++
					continue
				}
				// check if this measurement falls within the current time interval
				if t < currentTime+interval {
					// add it to the group and move to the next measurement
					group.Measurements = append(group.Measurements, m)
					indices[id]++
				} else {
					// the measurement will be processed later
					break
				}
			}
		}
		if len(group.Measurements) > 0 {
			groups = append(groups, group)
		}
		if remaining == 0 {
			break
		}
		currentTime += interval
	}
	return groups
}

// TimeAndAverage returns a struct that yields (x, y) points where x is the
// time, and y is the average value of each group. The getValue function must
// return the value and sample count for the given measurement.
func TimeAndAverage(groups []MeasurementGroup, getValue func(Measurement) (float64, uint64)) plotter.XYer {
	points := make(xyer, 0, len(groups))
	for _, group := range groups {
		var (
			sum float64
			num uint64
		)
		for _, measurement := range group.Measurements {
			v, n := getValue(measurement)
			sum += v * float64(n)
			num += n
		}
		if num == 0 {
			continue
		}
		points = append(points, point{
			x: group.Time.Seconds(),
			y: sum / float64(num),
		})
	}
	return points
}

type point struct {
	x float64
	y float64
}

type xyer []point

// Len returns the number of x, y pairs.
func (xy xyer) Len() int {
	return len(xy)
}

// XY returns an x, y pair.
func (xy xyer) XY(i int) (x float64, y float64) {
	p := xy[i]
	return p.x, p.y
}
