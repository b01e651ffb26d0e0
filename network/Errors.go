package network

import "fmt"

// DimensionError is returned when an input has the wrong number of
// features for the network evaluating it
type DimensionError struct {
	Op   string
	Want int
	Have int
}

func (d *DimensionError) Error() string {
	return fmt.Sprintf("%v: invalid input dimension\n\twant(%v)\n\thave(%v)",
		d.Op, d.Want, d.Have)
}
