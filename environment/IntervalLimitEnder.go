package environment

import (
	"fmt"

	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/samuelfneumann/godqn/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
)

// IntervalLimit implements the Ender interface to end episodes
// whenever a single feature in a feature vector leaves some interval
type IntervalLimit struct {
	intervals []r1.Interval
	indices   []int
	endType   ts.EndType
}

// NewIntervalLimit creates and returns a new interval limit. Feature
// obsIndices[i] must stay within limits[i]. The endType argument
// determines what the episode end should be considered as.
func NewIntervalLimit(limits []r1.Interval, obsIndices []int,
	endType ts.EndType) (*IntervalLimit, error) {
	if len(limits) != len(obsIndices) {
		return nil, fmt.Errorf("newIntervalLimit: limits should have same "+
			"length as observation indices\n\twant(%v)\n\thave(%v)",
			len(obsIndices), len(limits))
	}

	return &IntervalLimit{limits, obsIndices, endType}, nil
}

// End ends the episode if any tracked feature lies outside its interval
func (i *IntervalLimit) End(t *ts.TimeStep) bool {
	for index, featureIndex := range i.indices {
		if !floatutils.Contains(i.intervals[index],
			t.Observation.AtVec(featureIndex)) {
			t.SetEnd(i.endType)
			return true
		}
	}
	return false
}
