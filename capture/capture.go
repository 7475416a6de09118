// SPDX-License-Identifier: GPL-2.0-or-later

// Package capture records the calls of a frame to the graphics backend.
package capture

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"gorefresh/bsp"
	"gorefresh/crc"
	"gorefresh/refresh"
)

type Op uint8

const (
	OpBeginFrame Op = iota + 1
	OpBindTexture
	OpBindLightmap
	OpTexEnv
	OpRGBScale
	OpEnableLightmap
	OpEnableBlend
	OpColor
	OpPushTransform
	OpPopTransform
	OpPolygon
	OpUploadFull
	OpUploadRegion
)

var opNames = [...]string{
	OpBeginFrame:     "BeginFrame",
	OpBindTexture:    "BindTexture",
	OpBindLightmap:   "BindLightmap",
	OpTexEnv:         "TexEnv",
	OpRGBScale:       "RGBScale",
	OpEnableLightmap: "EnableLightmap",
	OpEnableBlend:    "EnableBlend",
	OpColor:          "Color",
	OpPushTransform:  "PushTransform",
	OpPopTransform:   "PopTransform",
	OpPolygon:        "Polygon",
	OpUploadFull:     "UploadFull",
	OpUploadRegion:   "UploadRegion",
}

func (o Op) String() string {
	if int(o) < len(opNames) && opNames[o] != "" {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// floats per recorded vertex
const vertexSize = 7

// Call is one recorded backend call. Uploads record the checksum of the
// pixels instead of the pixels.
type Call struct {
	Op     Op
	Args   []int64
	Floats []float32
}

// Vertices decodes the vertices of an OpPolygon call.
func (c *Call) Vertices() []bsp.Vertex {
	vs := make([]bsp.Vertex, 0, len(c.Floats)/vertexSize)
	for f := c.Floats; len(f) >= vertexSize; f = f[vertexSize:] {
		vs = append(vs, bsp.Vertex{
			Pos:    [3]float32{f[0], f[1], f[2]},
			S:      f[3],
			T:      f[4],
			LightS: f[5],
			LightT: f[6],
		})
	}
	return vs
}

// Recorder is a refresh.Graphics that keeps every call.
type Recorder struct {
	Calls []Call
}

func (r *Recorder) add(op Op, args []int64, floats ...float32) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args, Floats: floats})
}

func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Count returns the number of calls of op.
func (r *Recorder) Count(op Op) int {
	n := 0
	for i := range r.Calls {
		if r.Calls[i].Op == op {
			n++
		}
	}
	return n
}

// Filter returns the calls of op in call order.
func (r *Recorder) Filter(op Op) []Call {
	var cs []Call
	for _, c := range r.Calls {
		if c.Op == op {
			cs = append(cs, c)
		}
	}
	return cs
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (r *Recorder) BeginFrame(rd *refresh.RefDef) {
	r.add(OpBeginFrame, []int64{int64(rd.Width), int64(rd.Height)},
		rd.Origin[0], rd.Origin[1], rd.Origin[2],
		rd.Angles[0], rd.Angles[1], rd.Angles[2],
		rd.FovX, rd.FovY)
}

func (r *Recorder) BindTexture(handle uint32) {
	r.add(OpBindTexture, []int64{int64(handle)})
}

func (r *Recorder) BindLightmap(page int) {
	r.add(OpBindLightmap, []int64{int64(page)})
}

func (r *Recorder) SetTextureEnvMode(u refresh.Unit, mode refresh.TexEnv) {
	r.add(OpTexEnv, []int64{int64(u), int64(mode)})
}

func (r *Recorder) SetRGBScale(scale float32) {
	r.add(OpRGBScale, nil, scale)
}

func (r *Recorder) EnableLightmap(enable bool) {
	r.add(OpEnableLightmap, []int64{b2i(enable)})
}

func (r *Recorder) EnableBlend(enable bool) {
	r.add(OpEnableBlend, []int64{b2i(enable)})
}

func (r *Recorder) SetColor(cr, cg, cb, ca float32) {
	r.add(OpColor, nil, cr, cg, cb, ca)
}

func (r *Recorder) PushTransform(t refresh.Transform) {
	r.add(OpPushTransform, nil,
		t.Origin[0], t.Origin[1], t.Origin[2],
		t.Angles[0], t.Angles[1], t.Angles[2],
		t.Axis[0], t.Axis[1], t.Axis[2], t.Angle)
}

func (r *Recorder) PopTransform() {
	r.add(OpPopTransform, nil)
}

func (r *Recorder) SubmitPolygon(p refresh.Primitive, verts []bsp.Vertex) {
	f := make([]float32, 0, len(verts)*vertexSize)
	for _, v := range verts {
		f = append(f, v.Pos[0], v.Pos[1], v.Pos[2], v.S, v.T, v.LightS, v.LightT)
	}
	r.add(OpPolygon, []int64{int64(p)}, f...)
}

func (r *Recorder) UploadFullTexture(page int, pixels []byte) {
	r.add(OpUploadFull, []int64{int64(page), int64(crc.Checksum(pixels))})
}

func (r *Recorder) UploadTextureRegion(page, x, y, w, h int, pixels []byte) {
	r.add(OpUploadRegion, []int64{int64(page), int64(x), int64(y), int64(w), int64(h), int64(crc.Checksum(pixels))})
}

const (
	fieldCall   protowire.Number = 1
	fieldOp     protowire.Number = 1
	fieldArgs   protowire.Number = 2
	fieldFloats protowire.Number = 3
)

// Marshal encodes calls in protobuf wire format: a repeated message field
// with the op, packed zigzag arguments and packed floats.
func Marshal(calls []Call) []byte {
	var b []byte
	var m []byte
	for _, c := range calls {
		m = m[:0]
		m = protowire.AppendTag(m, fieldOp, protowire.VarintType)
		m = protowire.AppendVarint(m, uint64(c.Op))
		if len(c.Args) > 0 {
			var p []byte
			for _, a := range c.Args {
				p = protowire.AppendVarint(p, protowire.EncodeZigZag(a))
			}
			m = protowire.AppendTag(m, fieldArgs, protowire.BytesType)
			m = protowire.AppendBytes(m, p)
		}
		if len(c.Floats) > 0 {
			var p []byte
			for _, f := range c.Floats {
				p = protowire.AppendFixed32(p, math.Float32bits(f))
			}
			m = protowire.AppendTag(m, fieldFloats, protowire.BytesType)
			m = protowire.AppendBytes(m, p)
		}
		b = protowire.AppendTag(b, fieldCall, protowire.BytesType)
		b = protowire.AppendBytes(b, m)
	}
	return b
}

// Unmarshal decodes the output of Marshal. Unknown fields are skipped.
func Unmarshal(b []byte) ([]Call, error) {
	var calls []Call
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "call tag")
		}
		b = b[n:]
		if num != fieldCall || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "unknown field")
			}
			b = b[n:]
			continue
		}
		m, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "call")
		}
		b = b[n:]
		c, err := unmarshalCall(m)
		if err != nil {
			return nil, errors.Wrapf(err, "call %d", len(calls))
		}
		calls = append(calls, c)
	}
	return calls, nil
}

func unmarshalCall(m []byte) (Call, error) {
	var c Call
	for len(m) > 0 {
		num, typ, n := protowire.ConsumeTag(m)
		if n < 0 {
			return c, protowire.ParseError(n)
		}
		m = m[n:]
		switch {
		case num == fieldOp && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(m)
			if n < 0 {
				return c, protowire.ParseError(n)
			}
			c.Op = Op(v)
			m = m[n:]
		case num == fieldArgs && typ == protowire.BytesType:
			p, n := protowire.ConsumeBytes(m)
			if n < 0 {
				return c, protowire.ParseError(n)
			}
			m = m[n:]
			for len(p) > 0 {
				v, n := protowire.ConsumeVarint(p)
				if n < 0 {
					return c, protowire.ParseError(n)
				}
				c.Args = append(c.Args, protowire.DecodeZigZag(v))
				p = p[n:]
			}
		case num == fieldFloats && typ == protowire.BytesType:
			p, n := protowire.ConsumeBytes(m)
			if n < 0 {
				return c, protowire.ParseError(n)
			}
			m = m[n:]
			if len(p)%4 != 0 {
				return c, errors.New("truncated float data")
			}
			for len(p) > 0 {
				v, n := protowire.ConsumeFixed32(p)
				if n < 0 {
					return c, protowire.ParseError(n)
				}
				c.Floats = append(c.Floats, math.Float32frombits(v))
				p = p[n:]
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, m)
			if n < 0 {
				return c, protowire.ParseError(n)
			}
			m = m[n:]
		}
	}
	return c, nil
}
