// Package core provides fundamental types and utilities shared by the engine
// and the terminal front end. It has no external dependencies so the rhythm
// logic stays pure and testable.
package core

import "math"

// Vec2 is a point or offset in playfield space.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Len()
}

// Area is an axis-aligned rectangle in continuous playfield units.
type Area struct {
	Min  Vec2
	W, H float64
}

// NewArea creates an area with top-left corner (x, y).
func NewArea(x, y, w, h float64) Area {
	return Area{Min: Vec2{X: x, Y: y}, W: w, H: h}
}

// Empty reports whether the area has no usable surface.
func (a Area) Empty() bool {
	return a.W <= 0 || a.H <= 0
}

// Center returns the midpoint of the area.
func (a Area) Center() Vec2 {
	return Vec2{X: a.Min.X + a.W/2, Y: a.Min.Y + a.H/2}
}

// Contains reports whether p lies inside the area (edges inclusive).
func (a Area) Contains(p Vec2) bool {
	return p.X >= a.Min.X && p.X <= a.Min.X+a.W && p.Y >= a.Min.Y && p.Y <= a.Min.Y+a.H
}

// Denormalize maps a point in [0,1]² into the area.
func (a Area) Denormalize(n Vec2) Vec2 {
	return Vec2{X: a.Min.X + n.X*a.W, Y: a.Min.Y + n.Y*a.H}
}

// Normalize maps a point in the area into [0,1]². An empty area maps to the origin.
func (a Area) Normalize(p Vec2) Vec2 {
	if a.Empty() {
		return Vec2{}
	}
	return Vec2{X: (p.X - a.Min.X) / a.W, Y: (p.Y - a.Min.Y) / a.H}
}

// Rect represents an integer cell rectangle used for screen layout.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
