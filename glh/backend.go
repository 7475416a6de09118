// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/pkg/errors"

	"gorefresh/bsp"
	"gorefresh/lightmap"
	"gorefresh/refresh"
	"gorefresh/shader"
	"gorefresh/texture"
)

const (
	nearClip = 4
	farClip  = 4096

	// position, texture and lightmap coordinates
	vertexSize = 7
)

type brushUniforms struct {
	projection  int32
	modelview   int32
	tex         int32
	lmTex       int32
	useLightmap int32
	outline     int32
	baseEnv     int32
	lightmapEnv int32
	rgbScale    int32
	color       int32
}

// Backend draws refresh output with OpenGL 4.6. All methods must be called
// on the main thread with a current context.
type Backend struct {
	prog     *Program
	uniforms brushUniforms
	vao      *VertexArray
	vbo      *Buffer

	pages    [lightmap.MaxLightmaps]*Texture2D
	textures map[uint32]*Texture2D

	projection *Matrix
	stack      []*Matrix

	envs     [2]refresh.TexEnv
	lightmap bool
	rgbScale float32
	color    [4]float32
	verts    []float32
}

var _ refresh.Graphics = (*Backend)(nil)
var _ texture.Creator = (*Backend)(nil)

// NewBackend compiles the brush program and registers it in reg.
func NewBackend(reg *shader.Registry) (*Backend, error) {
	p, err := NewProgram(shader.BrushVertex, shader.BrushFragment)
	if err != nil {
		return nil, errors.Wrap(err, "brush program")
	}
	if err := reg.Register(shader.Brush, p); err != nil {
		return nil, err
	}
	b := &Backend{
		prog:     p,
		textures: make(map[uint32]*Texture2D),
		rgbScale: 1,
		color:    [4]float32{1, 1, 1, 1},
	}
	b.uniforms = brushUniforms{
		projection:  p.GetUniformLocation("projection"),
		modelview:   p.GetUniformLocation("modelview"),
		tex:         p.GetUniformLocation("Tex"),
		lmTex:       p.GetUniformLocation("LMTex"),
		useLightmap: p.GetUniformLocation("UseLightmap"),
		outline:     p.GetUniformLocation("Outline"),
		baseEnv:     p.GetUniformLocation("BaseEnv"),
		lightmapEnv: p.GetUniformLocation("LightmapEnv"),
		rgbScale:    p.GetUniformLocation("RGBScale"),
		color:       p.GetUniformLocation("Color"),
	}
	b.vao = NewVertexArray()
	b.vbo = NewBuffer(ArrayBuffer)
	b.vao.Bind()
	b.vbo.Bind()
	b.vao.FloatAttrib(0, 3, vertexSize, 0)
	b.vao.FloatAttrib(1, 2, vertexSize, 3)
	b.vao.FloatAttrib(2, 2, vertexSize, 5)
	return b, nil
}

// CreateTexture uploads a base texture. The handle is the GL texture name.
func (b *Backend) CreateTexture(name string, w, h int, flags texture.TexPref, rgba []byte) uint32 {
	mip := flags&texture.TexPrefMipMap != 0
	t := NewTexture2D(w, h, mip)
	t.SetFilter(flags&texture.TexPrefLinear != 0, mip)
	t.SetWrap(flags&texture.TexPrefRepeat != 0)
	t.Upload(rgba)
	if mip {
		t.GenerateMipmap()
	}
	b.textures[uint32(t.ID())] = t
	return uint32(t.ID())
}

func (b *Backend) page(p int) *Texture2D {
	if b.pages[p] == nil {
		t := NewTexture2D(lightmap.BlockWidth, lightmap.BlockHeight, false)
		t.SetFilter(true, false)
		t.SetWrap(false)
		b.pages[p] = t
	}
	return b.pages[p]
}

func (b *Backend) UploadFullTexture(page int, pixels []byte) {
	b.page(page).Upload(pixels)
}

func (b *Backend) UploadTextureRegion(page, x, y, w, h int, pixels []byte) {
	b.page(page).SubUpload(x, y, w, h, pixels)
}

func (b *Backend) BeginFrame(rd *refresh.RefDef) {
	gl.Viewport(0, 0, int32(rd.Width), int32(rd.Height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(true)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)

	b.projection = Perspective(rd.FovX, rd.FovY, nearClip, farClip)
	b.stack = append(b.stack[:0], View([3]float32(rd.Origin), [3]float32(rd.Angles)))
	b.envs = [2]refresh.TexEnv{refresh.Replace, refresh.Replace}
	b.lightmap = false
	b.rgbScale = 1
	b.color = [4]float32{1, 1, 1, 1}

	b.prog.Use()
	b.vao.Bind()
	b.vbo.Bind()
	gl.Uniform1i(b.uniforms.tex, 0)
	gl.Uniform1i(b.uniforms.lmTex, 1)
	b.projection.SetAsUniform(b.uniforms.projection)
}

func (b *Backend) BindTexture(handle uint32) {
	gl.BindTextureUnit(0, handle)
}

func (b *Backend) BindLightmap(page int) {
	b.page(page).Bind(1)
}

func (b *Backend) SetTextureEnvMode(u refresh.Unit, mode refresh.TexEnv) {
	b.envs[u] = mode
}

func (b *Backend) SetRGBScale(scale float32) {
	b.rgbScale = scale
}

func (b *Backend) EnableLightmap(enable bool) {
	b.lightmap = enable
}

func (b *Backend) EnableBlend(enable bool) {
	if enable {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		return
	}
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
}

func (b *Backend) SetColor(r, g, bl, a float32) {
	b.color = [4]float32{r, g, bl, a}
}

// modelTransform applies t the way entities are rotated: yaw, pitch, roll,
// then the extra rotation around Axis.
func modelTransform(top *Matrix, t refresh.Transform) *Matrix {
	m := top.Copy()
	m.Translate(t.Origin[0], t.Origin[1], t.Origin[2])
	m.RotateZ(t.Angles[1])
	m.RotateY(-t.Angles[0])
	m.RotateX(-t.Angles[2])
	if t.Angle != 0 {
		m.Rotate(t.Angle, t.Axis[0], t.Axis[1], t.Axis[2])
	}
	return m
}

func (b *Backend) PushTransform(t refresh.Transform) {
	b.stack = append(b.stack, modelTransform(b.stack[len(b.stack)-1], t))
}

func (b *Backend) PopTransform() {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func packVertices(dst []float32, verts []bsp.Vertex) []float32 {
	dst = dst[:0]
	for _, v := range verts {
		dst = append(dst, v.Pos[0], v.Pos[1], v.Pos[2], v.S, v.T, v.LightS, v.LightT)
	}
	return dst
}

func glBool(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (b *Backend) SubmitPolygon(p refresh.Primitive, verts []bsp.Vertex) {
	if len(verts) < 3 {
		return
	}
	b.verts = packVertices(b.verts, verts)
	b.vbo.Stream(b.verts)

	u := &b.uniforms
	b.stack[len(b.stack)-1].SetAsUniform(u.modelview)
	gl.Uniform1i(u.useLightmap, glBool(b.lightmap))
	gl.Uniform1i(u.baseEnv, int32(b.envs[refresh.BaseUnit]))
	gl.Uniform1i(u.lightmapEnv, int32(b.envs[refresh.LightmapUnit]))
	gl.Uniform1f(u.rgbScale, b.rgbScale)
	gl.Uniform4f(u.color, b.color[0], b.color[1], b.color[2], b.color[3])

	if p == refresh.Outline {
		gl.Uniform1i(u.outline, 1)
		gl.Disable(gl.DEPTH_TEST)
		gl.DrawArrays(gl.LINE_LOOP, 0, int32(len(verts)))
		gl.Enable(gl.DEPTH_TEST)
		gl.Uniform1i(u.outline, 0)
		return
	}
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, int32(len(verts)))
}
