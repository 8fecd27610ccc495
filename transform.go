package prism

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// eulerRotation builds the rotation for Euler angles (x, y, z) in radians.
// Roll about X is applied first, then pitch about Y, then yaw about Z:
//
//	R = Rz(z) * Ry(y) * Rx(x)
func eulerRotation(r mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(r[2]).
		Mul4(mgl32.HomogRotate3DY(r[1])).
		Mul4(mgl32.HomogRotate3DX(r[0]))
}

// composeModel computes the model matrix for the given transform.
//
// Composition order:
//
//	Scale -> Rotate(x, y, z) -> Translate(position)
func composeModel(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position[0], position[1], position[2]).
		Mul4(eulerRotation(rotation)).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// normalFromModel returns transpose(inverse(model)) for an affine model
// matrix. Only an exactly zero determinant is singular; small scales still
// invert.
func normalFromModel(model mgl32.Mat4) (mgl32.Mat4, error) {
	a := model.Mat3()
	det := float64(a.Det())
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return mgl32.Mat4{}, ErrSingularTransform
	}
	// mgl32's Inv gives up on determinants near zero, so invert k*A, whose
	// determinant is ±1: inverse(A) = k * inverse(k*A).
	k := float32(1 / math.Cbrt(math.Abs(det)))
	ainv := a.Mul(k).Inv().Mul(k)

	inv := ainv.Mat4()
	t := ainv.Mul3x1(model.Col(3).Vec3()).Mul(-1)
	inv[12], inv[13], inv[14] = t[0], t[1], t[2]
	return inv.Transpose(), nil
}

// wrapAngle maps an angle into [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// transformPoint applies m to the point p (w = 1) and returns the
// perspective-divided result.
func transformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	v := m.Mul4x1(p.Vec4(1))
	if v[3] != 0 && v[3] != 1 {
		return v.Vec3().Mul(1 / v[3])
	}
	return v.Vec3()
}
