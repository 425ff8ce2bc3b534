package math

import (
	"math"
	"testing"
)

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func vecNear(a, b Vec3, eps float32) bool {
	return abs(a.X-b.X) <= eps && abs(a.Y-b.Y) <= eps && abs(a.Z-b.Z) <= eps
}

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformDirection_IgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformDirection([3]float32{1, 0, 0})
	if got != [3]float32{2, 0, 0} {
		t.Errorf("TransformDirection: got %v, want (2, 0, 0)", got)
	}
}

func TestRotateAxisMatchesQuat(t *testing.T) {
	axis := Vec3{0, 1, 0}
	angle := float32(math.Pi / 3)
	a := RotateAxis(axis.Array(), angle)
	b := QuatFromAxisAngle(axis, angle).ToMat4()
	for i := 0; i < 16; i++ {
		if abs(a[i]-b[i]) > 1e-5 {
			t.Fatalf("element %d: RotateAxis %v, quat %v", i, a[i], b[i])
		}
	}
}

func TestFromMat3x3(t *testing.T) {
	m3 := [9]float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	m := FromMat3x3(m3)
	if m[0] != 1 || m[4] != 4 || m[8] != 7 || m[15] != 1 || m[12] != 0 {
		t.Errorf("FromMat3x3 layout mismatch: %v", m)
	}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name string
		t    Vec3
		r    Quat
		s    Vec3
	}{
		{"identity", Vec3{}, QuatIdentity(), Vec3{1, 1, 1}},
		{"translation only", Vec3{1, -2, 3}, QuatIdentity(), Vec3{1, 1, 1}},
		{"uniform scale", Vec3{}, QuatIdentity(), Vec3{2, 2, 2}},
		{"non-uniform scale and rotation", Vec3{4, 5, 6}, QuatFromAxisAngle(Vec3{0, 0, 1}, math.Pi/4), Vec3{2, 3, 0.5}},
		{"oblique rotation", Vec3{-1, 0, 7}, QuatFromAxisAngle(Vec3{1, 2, 3}, 2.5), Vec3{1.5, 1.5, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compose(tt.t, tt.r, tt.s)
			s, r, tr := m.Decompose()

			if !vecNear(s, tt.s, 1e-4) {
				t.Errorf("scale = %v, want %v", s, tt.s)
			}
			if !vecNear(tr, tt.t, 1e-5) {
				t.Errorf("translation = %v, want %v", tr, tt.t)
			}
			if d := abs(r.Dot(tt.r.Normalize())); abs(d-1) > 1e-4 {
				t.Errorf("rotation = %v, want ±%v", r, tt.r)
			}

			length := r.Dot(r)
			if abs(length-1) > 1e-4 {
				t.Errorf("rotation not unit length: |q|^2 = %v", length)
			}
		})
	}
}

func TestDecompose_Mirrored(t *testing.T) {
	m := Scale(-2, 3, 4)
	s, r, _ := m.Decompose()

	// Recomposing must reproduce the original matrix regardless of how the
	// sign was distributed.
	back := Compose(Vec3{}, r, s)
	for i := 0; i < 16; i++ {
		if abs(back[i]-m[i]) > 1e-4 {
			t.Fatalf("element %d: recomposed %v, want %v (scale %v, rot %v)", i, back[i], m[i], s, r)
		}
	}
	if s.X > 0 && s.Y > 0 && s.Z > 0 {
		t.Errorf("mirrored matrix should carry a negative scale, got %v", s)
	}
}

func TestDecompose_ZeroAxis(t *testing.T) {
	m := Scale(0, 1, 1)
	s, r, _ := m.Decompose()
	if s.X != 0 {
		t.Errorf("scale.X = %v, want 0", s.X)
	}
	if abs(r.Dot(r)-1) > 1e-4 {
		t.Errorf("rotation should still be a unit quaternion, got %v", r)
	}
}
