package prism

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animator updates an entity's transform from the total elapsed time in
// seconds. It must be a pure function of (entity index, elapsed) so frame
// timing never changes the result.
type Animator func(e *Entity, index int, elapsed float64)

// Spin rotates each entity about Z at rate radians per second. Later
// entities turn slightly faster so a grid does not move in lockstep.
func Spin(rate float64) Animator {
	return func(e *Entity, index int, elapsed float64) {
		e.Rotation[2] = float32(wrapAngle(elapsed * rate * (1 + 0.001*float64(index))))
	}
}

// Tumble rolls each entity about X at a rate that grows with its X position
// and yaws it slowly about Y.
func Tumble() Animator {
	return func(e *Entity, _ int, elapsed float64) {
		rate := 1 + 0.06*float64(e.Position[0])
		e.Rotation[0] = float32(wrapAngle(elapsed * rate))
		e.Rotation[1] = float32(wrapAngle(elapsed * 0.5))
	}
}

// Pulse scales each entity uniformly between 1 and 1+amplitude and back
// every period seconds, eased in and out.
func Pulse(period, amplitude float64) Animator {
	return func(e *Entity, index int, elapsed float64) {
		if period <= 0 {
			return
		}
		half := float32(period / 2)
		phase := float32(math.Mod(elapsed+float64(index)*0.05*period, period))
		amp := float32(amplitude)
		var s float32
		if phase < half {
			s = ease.InOutSine(phase, 1, amp, half)
		} else {
			s = ease.InOutSine(phase-half, 1+amp, -amp, half)
		}
		e.Scale = mgl32.Vec3{s, s, s}
	}
}

// TweenGroup animates up to 3 float32 fields of an Entity simultaneously.
// Create one with TweenPosition, TweenRotation or TweenScale and hand it to
// Scene.AddTween, or call Update(dt) yourself.
type TweenGroup struct {
	tweens [3]*gween.Tween
	fields [3]*float32
	count  int
	target *Entity
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields. A group whose entity was released stops immediately.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.mesh == nil {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

func tweenVec3(e *Entity, field *mgl32.Vec3, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: e}
	for i := range 3 {
		g.tweens[i] = gween.New(field[i], to[i], duration, fn)
		g.fields[i] = &field[i]
	}
	return g
}

// TweenPosition animates e.Position to the target over duration seconds.
func TweenPosition(e *Entity, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(e, &e.Position, to, duration, fn)
}

// TweenRotation animates e.Rotation (radians) to the target.
func TweenRotation(e *Entity, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(e, &e.Rotation, to, duration, fn)
}

// TweenScale animates e.Scale to the target.
func TweenScale(e *Entity, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(e, &e.Scale, to, duration, fn)
}
