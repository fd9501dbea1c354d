// Package demo is the frame loop that consumes the input tracker: it moves a
// circle with the keyboard, d-pad or left stick and rumbles the controller
// while A or B is held.
package demo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"nakazima/padinput/internal/input"
)

// Input is the part of *input.Tracker the scene reads.
type Input interface {
	IsKeyPress(k input.Key) bool
	IsPadPress(b input.Button) bool
	ThumbLX() float32
	ThumbLY() float32
	SetVibration(left, right uint16)
}

const fullVibration = math.MaxUint16

// Scene is a circle inside a Width x Height area. Y grows downwards.
type Scene struct {
	Pos    mgl32.Vec2
	Radius float32
	Width  float32
	Height float32
	Speed  float32 // pixels per second at full deflection
}

// NewScene places the circle at (200, 300) as long as that fits.
func NewScene(width, height, speed float32) *Scene {
	s := &Scene{
		Pos:    mgl32.Vec2{200, 300},
		Radius: 50,
		Width:  width,
		Height: height,
		Speed:  speed,
	}
	s.clamp()
	return s
}

// Step advances the scene by dt seconds. The stick takes priority over the
// digital inputs when it is off center.
func (s *Scene) Step(in Input, dt float32) {
	lx, ly := in.ThumbLX(), in.ThumbLY()
	if lx != 0 || ly != 0 {
		// stick up is positive, screen up is negative
		s.Pos = s.Pos.Add(mgl32.Vec2{lx, -ly}.Mul(dt * s.Speed))
	} else {
		s.Pos = s.Pos.Add(digitalDirection(in).Mul(dt * s.Speed))
	}
	s.clamp()

	var left, right uint16
	if in.IsPadPress(input.ButtonA) {
		left = fullVibration
	}
	if in.IsPadPress(input.ButtonB) {
		right = fullVibration
	}
	in.SetVibration(left, right)
}

// digitalDirection sums the held direction keys and d-pad buttons. A
// diagonal has unit length.
func digitalDirection(in Input) mgl32.Vec2 {
	var dir mgl32.Vec2
	if in.IsKeyPress(input.KeyA) || in.IsPadPress(input.ButtonDPadLeft) {
		dir[0]--
	}
	if in.IsKeyPress(input.KeyD) || in.IsPadPress(input.ButtonDPadRight) {
		dir[0]++
	}
	if in.IsKeyPress(input.KeyW) || in.IsPadPress(input.ButtonDPadUp) {
		dir[1]--
	}
	if in.IsKeyPress(input.KeyS) || in.IsPadPress(input.ButtonDPadDown) {
		dir[1]++
	}
	if dir[0] != 0 && dir[1] != 0 {
		dir = dir.Normalize()
	}
	return dir
}

// clamp keeps the whole circle on screen. An area smaller than the circle
// pins it to the center.
func (s *Scene) clamp() {
	s.Pos[0] = clampAxis(s.Pos[0], s.Radius, s.Width-s.Radius)
	s.Pos[1] = clampAxis(s.Pos[1], s.Radius, s.Height-s.Radius)
}

func clampAxis(v, lo, hi float32) float32 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return mgl32.Clamp(v, lo, hi)
}
