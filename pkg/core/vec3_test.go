package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected float64
	}{
		{"orthogonal", NewVec3(1, 0, 0), NewVec3(0, 1, 0), 0},
		{"parallel", NewVec3(2, 0, 0), NewVec3(3, 0, 0), 6},
		{"mixed", NewVec3(1, 2, 3), NewVec3(4, -5, 6), 12},
		{"zero", Vec3{}, NewVec3(7, 8, 9), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Dot(tt.a, tt.b))
			assert.Equal(t, tt.expected, tt.a.Dot(tt.b))
		})
	}
}

func TestAMinusBk(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		k        float64
		expected Vec3
	}{
		{"origin minus center", NewVec3(0, 1, 0), NewVec3(0, 1, 4), 1, NewVec3(0, 0, -4)},
		{"advance along ray", NewVec3(0, 0, 0), NewVec3(0, 0, 1), -2.5, NewVec3(0, 0, 2.5)},
		{"zero k is identity", NewVec3(1, 2, 3), NewVec3(9, 9, 9), 0, NewVec3(1, 2, 3)},
		{"reflection step", NewVec3(2, 2, -2), NewVec3(0, 0, -1), 4, NewVec3(2, 2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AMinusBk(tt.a, tt.b, tt.k))
		})
	}
}

func TestRayAt(t *testing.T) {
	ray := NewRay(NewVec3(0, 1, 0), NewVec3(0.5, 0, 1))

	assert.Equal(t, NewVec3(0, 1, 0), ray.At(0))
	assert.Equal(t, NewVec3(1, 1, 2), ray.At(2))
}

func TestVec3Helpers(t *testing.T) {
	v := NewVec3(3, 4, 0)

	assert.InDelta(t, 5.0, v.Length(), 1e-12)
	assert.Equal(t, 25.0, v.LengthSquared())
	assert.Equal(t, NewVec3(6, 8, 0), v.Multiply(2))
	assert.Equal(t, NewVec3(4, 5, 1), v.Add(NewVec3(1, 1, 1)))
	assert.Equal(t, NewVec3(2, 3, -1), v.Subtract(NewVec3(1, 1, 1)))
	assert.True(t, Vec3{}.IsZero())
	assert.False(t, v.IsZero())
	assert.Equal(t, v, Vec3FromArray(v.Array()))
}
