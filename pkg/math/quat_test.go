package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4(t *testing.T) {
	// Identity quaternion should produce identity matrix
	q := QuatIdentity()
	m := q.ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(m[i]-identity[i])) > 0.0001 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	// Should have Y component and W = cos(45deg)
	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatFromAxisAngle_UnnormalizedAxis(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{X: 0, Y: 0, Z: 5}, 1)
	b := QuatFromAxisAngle(Vec3{X: 0, Y: 0, Z: 1}, 1)
	if math.Abs(float64(a.Dot(b)-1)) > 1e-5 {
		t.Errorf("axis length should not matter: %v vs %v", a, b)
	}

	if got := QuatFromAxisAngle(Vec3{}, 1); got != QuatIdentity() {
		t.Errorf("zero axis: got %v, want identity", got)
	}
}

func TestQuatFromRotation_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		axis  Vec3
		angle float32
	}{
		{"identity", Vec3{0, 1, 0}, 0},
		{"x 90", Vec3{1, 0, 0}, math.Pi / 2},
		{"y 180", Vec3{0, 1, 0}, math.Pi},
		{"z 270", Vec3{0, 0, 1}, 3 * math.Pi / 2},
		{"oblique", Vec3{1, 2, 3}, 2.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatFromAxisAngle(tt.axis, tt.angle)
			m := q.ToMat4()
			got := quatFromRotation([3][3]float32{
				{m[0], m[4], m[8]},
				{m[1], m[5], m[9]},
				{m[2], m[6], m[10]},
			})
			// q and -q encode the same rotation
			if d := math.Abs(float64(got.Dot(q))); math.Abs(d-1) > 1e-4 {
				t.Errorf("round trip: got %v, want ±%v", got, q)
			}
		})
	}
}

func TestQuatMul_Identity(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{1, 1, 0}, 0.7)
	got := q.Mul(QuatIdentity())
	if math.Abs(float64(got.Dot(q)-1)) > 1e-5 {
		t.Errorf("q * identity = %v, want %v", got, q)
	}
}
