// Package control turns press and drag events into camera and rotation
// changes.
package control

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mode is the controller state.
type Mode int

const (
	// Rotating spins the active model about the current axis every frame.
	Rotating Mode = iota
	// CameraDrag holds the model still after a press.
	CameraDrag
)

func (m Mode) String() string {
	if m == Rotating {
		return "rotating"
	}
	return "camera-drag"
}

// Direction is a one-step camera nudge.
type Direction int

const (
	Up Direction = iota
	Down
	Forward
	Backward
	Left
	Right
)

var directionNames = [...]string{"up", "down", "forward", "backward", "left", "right"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "unknown"
	}
	return directionNames[d]
}

// ApplyNudge moves eye one step in dir. Left raises X and Right lowers it,
// matching a camera that looks down +Z.
func ApplyNudge(eye mgl32.Vec3, dir Direction, step float32) mgl32.Vec3 {
	switch dir {
	case Left:
		eye[0] += step
	case Right:
		eye[0] -= step
	case Up:
		eye[1] += step
	case Down:
		eye[1] -= step
	case Forward:
		eye[2] += step
	case Backward:
		eye[2] -= step
	}
	return eye
}

// State is everything a touch can change: the camera, the spinning model and
// the last drag position.
type State struct {
	Eye    mgl32.Vec3
	Center mgl32.Vec3
	Up     mgl32.Vec3

	// Model is the accumulated transform of the spinning object.
	Model    mgl32.Mat4
	Axis     mgl32.Vec3
	Rotating bool

	PrevX, PrevY float32
}

// Mode reports the controller state implied by the rotation flag.
func (s *State) Mode() Mode {
	if s.Rotating {
		return Rotating
	}
	return CameraDrag
}

// View returns the look-at matrix for the current camera.
func (s *State) View() mgl32.Mat4 {
	return mgl32.LookAtV(s.Eye, s.Center, s.Up)
}

// Advance applies one frame of rotation. It is a no-op while rotation is off
// or the axis is zero.
func (s *State) Advance(degrees float32) {
	if !s.Rotating || s.Axis.Len() == 0 {
		return
	}
	s.Model = s.Model.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(degrees), s.Axis.Normalize()))
}

// Controller applies press and drag events to a State.
type Controller struct {
	// Step is the distance of one camera nudge.
	Step float32
}

// Press stops the rotation, resets the model and moves the eye forward one
// step. The drag origin is left where it was.
func (c Controller) Press(s *State, x, y float32) {
	s.Rotating = false
	s.Model = mgl32.Ident4()
	s.Eye = ApplyNudge(s.Eye, Forward, c.Step)
}

// Drag restarts rotation and picks the axis from the dominant direction of
// motion since the previous drag. Horizontal motion only changes the axis.
// Vertical motion moves the eye: upward also switches to the X axis,
// downward keeps the current axis.
func (c Controller) Drag(s *State, x, y float32) {
	s.Rotating = true

	dx := abs(x - s.PrevX)
	dy := abs(y - s.PrevY)
	if dx > dy {
		if x > s.PrevX {
			s.Axis = mgl32.Vec3{0, 1, 0}
		} else {
			s.Axis = mgl32.Vec3{0, 0, 1}
		}
	} else if y > s.PrevY {
		s.Axis = mgl32.Vec3{1, 0, 0}
		s.Eye = ApplyNudge(s.Eye, Up, c.Step)
	} else {
		s.Eye = ApplyNudge(s.Eye, Down, c.Step)
	}

	s.PrevX, s.PrevY = x, y
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
