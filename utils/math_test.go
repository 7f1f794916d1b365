package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPOW(t *testing.T) {
	assert.Equal(t, 1.0, POW(3, 0))
	assert.Equal(t, 8.0, POW(2, 3))
	assert.Equal(t, 0.25, POW(2, -2))
	assert.InDelta(t, math.Pow(1.7, 9), POW(1.7, 9), 1.0e-9)
	assert.InDelta(t, math.Pow(1.7, -9), POW(1.7, -9), 1.0e-12)
}

func TestSgn(t *testing.T) {
	assert.Equal(t, 1.0, Sgn(0.5))
	assert.Equal(t, -1.0, Sgn(-3))
	assert.Equal(t, 0.0, Sgn(0))
}

func TestConstArray(t *testing.T) {
	v := ConstArray(4, 2.5)
	assert.Len(t, v, 4)
	for _, x := range v {
		assert.Equal(t, 2.5, x)
	}
}
