package shared

import (
	"fmt"
	"math"
)

// Vector3 is a world position. Y is height and is ignored by planar distance.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(f float64) Vector3 {
	return Vector3{v.X * f, v.Y * f, v.Z * f}
}

func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// DistanceTo returns euclidean distance to another position
func (v Vector3) DistanceTo(o Vector3) float64 {
	return v.Sub(o).Length()
}

// MoveTowards steps from v towards target by at most maxDelta
func (v Vector3) MoveTowards(target Vector3, maxDelta float64) Vector3 {
	diff := target.Sub(v)
	dist := diff.Length()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return v.Add(diff.Scale(maxDelta / dist))
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
