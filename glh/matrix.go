// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"math"

	"github.com/go-gl/gl/v4.6-core/gl"
)

type Matrix struct {
	m [16]float32
}

func deg2rad(deg float32) float64 {
	return (float64(deg) / 180) * math.Pi
}

func sincos(t float64) (float32, float32) {
	s, c := math.Sincos(t)
	return float32(s), float32(c)
}

func Identity() *Matrix {
	return &Matrix{
		m: [16]float32{
			1, 0, 0, 0, // 0 - 3
			0, 1, 0, 0, // 4 - 7
			0, 0, 1, 0, // 8 - 11
			0, 0, 0, 1, // 12 - 15
		},
	}
}

func (m *Matrix) Copy() *Matrix {
	nm := &Matrix{}
	copy(nm.m[:], m.m[:])
	return nm
}

func (m *Matrix) SetAsUniform(id int32) {
	// we use row major order, so transpose must be set to true
	// as opengl uses column major order
	gl.UniformMatrix4fv(id, 1, true, &m.m[0])
}

func (m *Matrix) Translate(x, y, z float32) {
	// 1, 0, 0, x
	// 0, 1, 0, y
	// 0, 0, 1, z
	// 0, 0, 0, 1
	// compute m*t
	n := [16]float32{
		m.m[0], m.m[1], m.m[2], x*m.m[0] + y*m.m[1] + z*m.m[2] + m.m[3],
		m.m[4], m.m[5], m.m[6], x*m.m[4] + y*m.m[5] + z*m.m[6] + m.m[7],
		m.m[8], m.m[9], m.m[10], x*m.m[8] + y*m.m[9] + z*m.m[10] + m.m[11],
		m.m[12], m.m[13], m.m[14], x*m.m[12] + y*m.m[13] + z*m.m[14] + m.m[15],
	}
	m.m = n
}

func (m *Matrix) RotateX(degree float32) {
	sin, cos := sincos(deg2rad(degree))
	// 1, 0, 0, 0
	// 0, cos, -sin, 0
	// 0, sin, cos 0
	// 0, 0, 0, 1
	// compute m*t
	n := [16]float32{
		m.m[0], cos*m.m[1] + sin*m.m[2], -sin*m.m[1] + cos*m.m[2], m.m[3],
		m.m[4], cos*m.m[5] + sin*m.m[6], -sin*m.m[5] + cos*m.m[6], m.m[7],
		m.m[8], cos*m.m[9] + sin*m.m[10], -sin*m.m[9] + cos*m.m[10], m.m[11],
		m.m[12], cos*m.m[13] + sin*m.m[14], -sin*m.m[13] + cos*m.m[14], m.m[15],
	}
	m.m = n
}

func (m *Matrix) RotateY(degree float32) {
	sin, cos := sincos(deg2rad(degree))
	// cos, 0, sin, 0
	// 0, 1, 0, 0
	// -sin, 0, cos, 0
	// 0, 0, 0, 1
	// compute m*t
	n := [16]float32{
		cos*m.m[0] - sin*m.m[2], m.m[1], sin*m.m[0] + cos*m.m[2], m.m[3],
		cos*m.m[4] - sin*m.m[6], m.m[5], sin*m.m[4] + cos*m.m[6], m.m[7],
		cos*m.m[8] - sin*m.m[10], m.m[9], sin*m.m[8] + cos*m.m[10], m.m[11],
		cos*m.m[12] - sin*m.m[14], m.m[13], sin*m.m[12] + cos*m.m[14], m.m[15],
	}
	m.m = n
}

func (m *Matrix) RotateZ(degree float32) {
	sin, cos := sincos(deg2rad(degree))
	// cos, -sin, 0, 0
	// sin, cos, 0, 0
	// 0, 0, 1, 0
	// 0, 0, 0, 1
	// compute m*t
	n := [16]float32{
		cos*m.m[0] + sin*m.m[1], -sin*m.m[0] + cos*m.m[1], m.m[2], m.m[3],
		cos*m.m[4] + sin*m.m[5], -sin*m.m[4] + cos*m.m[5], m.m[6], m.m[7],
		cos*m.m[8] + sin*m.m[9], -sin*m.m[8] + cos*m.m[9], m.m[10], m.m[11],
		cos*m.m[12] + sin*m.m[13], -sin*m.m[12] + cos*m.m[13], m.m[14], m.m[15],
	}
	m.m = n
}

func (m *Matrix) Scale(x, y, z float32) {
	// x, 0, 0, 0
	// 0, y, 0, 0
	// 0, 0, z, 0
	// 0, 0, 0, 1
	// compute m*t
	n := [16]float32{
		x * m.m[0], y * m.m[1], z * m.m[2], m.m[3],
		x * m.m[4], y * m.m[5], z * m.m[6], m.m[7],
		x * m.m[8], y * m.m[9], z * m.m[10], m.m[11],
		x * m.m[12], y * m.m[13], z * m.m[14], m.m[15],
	}
	m.m = n
}

// mul computes m*n.
func (m *Matrix) mul(n *[16]float32) {
	var r [16]float32
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var v float32
			for k := 0; k < 4; k++ {
				v += m.m[row*4+k] * n[k*4+col]
			}
			r[row*4+col] = v
		}
	}
	m.m = r
}

// Rotate rotates by degree around the axis x, y, z like glRotatef.
func (m *Matrix) Rotate(degree, x, y, z float32) {
	l := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if l == 0 {
		return
	}
	x, y, z = x/l, y/l, z/l
	s, c := sincos(deg2rad(degree))
	ic := 1 - c
	n := [16]float32{
		x*x*ic + c, x*y*ic - z*s, x*z*ic + y*s, 0,
		y*x*ic + z*s, y*y*ic + c, y*z*ic - x*s, 0,
		x*z*ic - y*s, y*z*ic + x*s, z*z*ic + c, 0,
		0, 0, 0, 1,
	}
	m.mul(&n)
}

// Frustum returns the projection matrix of glFrustum.
func Frustum(left, right, bottom, top, near, far float32) *Matrix {
	return &Matrix{
		m: [16]float32{
			2 * near / (right - left), 0, (right + left) / (right - left), 0,
			0, 2 * near / (top - bottom), (top + bottom) / (top - bottom), 0,
			0, 0, -(far + near) / (far - near), -2 * far * near / (far - near),
			0, 0, -1, 0,
		},
	}
}

// Perspective builds a frustum from the horizontal and vertical field of
// view in degrees.
func Perspective(fovx, fovy, near, far float32) *Matrix {
	xmax := near * float32(math.Tan(deg2rad(fovx)/2))
	ymax := near * float32(math.Tan(deg2rad(fovy)/2))
	return Frustum(-xmax, xmax, -ymax, ymax, near, far)
}

// View returns the world to eye transform for a viewer at origin looking
// along angles (pitch, yaw, roll). Quake has z up and x forward, GL looks
// down -z.
func View(origin, angles [3]float32) *Matrix {
	m := Identity()
	m.RotateX(-90)
	m.RotateZ(90)
	m.RotateX(-angles[2])
	m.RotateY(-angles[0])
	m.RotateZ(-angles[1])
	m.Translate(-origin[0], -origin[1], -origin[2])
	return m
}

// Apply transforms the point v.
func (m *Matrix) Apply(v [3]float32) [4]float32 {
	var r [4]float32
	for row := 0; row < 4; row++ {
		r[row] = m.m[row*4]*v[0] + m.m[row*4+1]*v[1] + m.m[row*4+2]*v[2] + m.m[row*4+3]
	}
	return r
}
