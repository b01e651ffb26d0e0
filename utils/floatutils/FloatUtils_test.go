package floatutils

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	cases := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-3, -1, 1, -1},
		{7, -1, 1, 1},
	}

	for _, c := range cases {
		if have := Clip(c.value, c.min, c.max); have != c.want {
			t.Errorf("clip(%v, %v, %v): \n\twant(%v) \n\thave(%v)", c.value,
				c.min, c.max, c.want, have)
		}
	}
}

func TestContains(t *testing.T) {
	interval := r1.Interval{Min: -1, Max: 1}
	if !Contains(interval, 1) {
		t.Error("contains: closed interval should contain its bound")
	}
	if Contains(interval, 1.0001) {
		t.Error("contains: value outside interval reported as contained")
	}
}

func TestWrapInterval(t *testing.T) {
	interval := r1.Interval{Min: -2, Max: 2}
	cases := []struct {
		value, want float64
	}{
		{1, 1},
		{3, -1},
		{-3, 1},
		{9, 1},
	}

	for _, c := range cases {
		if have := WrapInterval(c.value, interval); have != c.want {
			t.Errorf("wrapInterval(%v): \n\twant(%v) \n\thave(%v)", c.value,
				c.want, have)
		}
	}
}
