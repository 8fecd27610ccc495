package prism

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1, 1},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{7 * math.Pi, math.Pi},
		{-4 * math.Pi, 0},
	}
	for _, tt := range tests {
		got := wrapAngle(tt.in)
		if !approxEqual(got, tt.want, 1e-9) {
			t.Errorf("wrapAngle(%f) = %f, want %f", tt.in, got, tt.want)
		}
		if got < 0 || got >= 2*math.Pi {
			t.Errorf("wrapAngle(%f) = %f out of [0, 2pi)", tt.in, got)
		}
	}
}

func TestEulerRotationSingleAxis(t *testing.T) {
	tests := []struct {
		name string
		r    mgl32.Vec3
		want mgl32.Mat4
	}{
		{"x", mgl32.Vec3{0.4, 0, 0}, mgl32.HomogRotate3DX(0.4)},
		{"y", mgl32.Vec3{0, 0.4, 0}, mgl32.HomogRotate3DY(0.4)},
		{"z", mgl32.Vec3{0, 0, 0.4}, mgl32.HomogRotate3DZ(0.4)},
	}
	for _, tt := range tests {
		if got := eulerRotation(tt.r); !approxMat4(got, tt.want, 1e-6) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNormalFromModel(t *testing.T) {
	m := composeModel(mgl32.Vec3{3, -1, 2}, mgl32.Vec3{0.2, 0.1, 0.9}, mgl32.Vec3{2, 3, 0.5})
	n, err := normalFromModel(m)
	if err != nil {
		t.Fatal(err)
	}
	if !approxMat4(n, m.Inv().Transpose(), 1e-5) {
		t.Errorf("normal = %v, want transpose(inverse(model))", n)
	}

	if _, err := normalFromModel(mgl32.Scale3D(1, 1, 0)); !errors.Is(err, ErrSingularTransform) {
		t.Errorf("err = %v, want ErrSingularTransform", err)
	}
}

func TestNormalFromModelTinyScale(t *testing.T) {
	tests := []mgl32.Vec3{
		{1e-4, 1e-4, 1e-4},
		{5e-5, 5e-5, 5e-5},
		{1e-4, 3e-4, 2e-4},
	}
	for _, scale := range tests {
		m := composeModel(mgl32.Vec3{100, -50, 3}, mgl32.Vec3{0.3, 0, 1.1}, scale)
		n, err := normalFromModel(m)
		if err != nil {
			t.Fatalf("scale %v: %v", scale, err)
		}
		got := n.Transpose().Mat3().Mul3(m.Mat3())
		if !approxMat4(got.Mat4(), mgl32.Ident4(), 1e-4) {
			t.Errorf("scale %v: inverse(A)*A = %v, want identity", scale, got)
		}
	}
}

func TestTransformPointDividesByW(t *testing.T) {
	m := mgl32.Ident4()
	m[15] = 2
	got := transformPoint(m, mgl32.Vec3{2, 4, 6})
	if !approxVec3(got, mgl32.Vec3{1, 2, 3}, 1e-6) {
		t.Errorf("got %v, want (1,2,3)", got)
	}
}
