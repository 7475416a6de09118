// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"github.com/pkg/errors"

	"gorefresh/bsp"
	"gorefresh/lightmap"
	"gorefresh/math/vec"
)

// drawEntities draws the solid inline models first and the translucent ones
// afterwards.
func (r *Renderer) drawEntities() error {
	for _, translucent := range []bool{false, true} {
		for i := range r.rd.Entities {
			e := &r.rd.Entities[i]
			if e.Translucent != translucent {
				continue
			}
			if err := r.drawBrushModel(e); err != nil {
				return errors.Wrapf(err, "entity %d", i)
			}
		}
	}
	return nil
}

func (r *Renderer) drawBrushModel(e *Entity) error {
	w := r.world
	if e.Submodel <= 0 || e.Submodel >= len(w.Submodels) {
		return errors.Errorf("bad inline model %d", e.Submodel)
	}
	sm := &w.Submodels[e.Submodel]
	if sm.NumFaces == 0 {
		return nil
	}
	r.resetBinds()

	rotated := e.Angles != vec.Vec3{}
	var mins, maxs vec.Vec3
	if rotated {
		rad := vec.Vec3{sm.Radius, sm.Radius, sm.Radius}
		mins = vec.Sub(e.Origin, rad)
		maxs = vec.Add(e.Origin, rad)
	} else {
		mins = vec.Add(e.Origin, sm.Mins)
		maxs = vec.Add(e.Origin, sm.Maxs)
	}
	if r.cullBox(mins, maxs) {
		return nil
	}

	r.g.SetColor(1, 1, 1, 1)
	r.fs.resetBatches()
	r.modelOrg = vec.Sub(r.rd.Origin, e.Origin)
	if rotated {
		tmp := r.modelOrg
		f, rt, u := vec.AngleVectors(e.Angles)
		r.modelOrg[0] = vec.Dot(tmp, f)
		r.modelOrg[1] = -vec.Dot(tmp, rt)
		r.modelOrg[2] = vec.Dot(tmp, u)
	}
	r.animFrame = e.Frame

	r.g.PushTransform(Transform{Origin: e.Origin, Angles: e.Angles})
	defer r.g.PopTransform()
	r.setTexEnvs()
	r.g.EnableLightmap(true)
	defer r.g.EnableLightmap(false)

	if !r.Settings.FlashBlend {
		for i := range r.rd.DLights {
			if i == lightmap.MaxDLights {
				break
			}
			lightmap.MarkLights(w, &r.rd.DLights[i], 1<<i, int32(sm.HeadNode), r.frameCount)
		}
	}
	if e.Translucent {
		r.g.EnableBlend(true)
		r.g.SetColor(1, 1, 1, 0.25)
		r.g.SetTextureEnvMode(BaseUnit, Modulate)
	}

	for i := 0; i < sm.NumFaces; i++ {
		s := w.Surfaces[sm.FirstFace+i]
		dot := vec.Dot(r.modelOrg, s.Plane.Normal) - s.Plane.Dist
		back := s.Flags&bsp.SurfacePlaneBack != 0
		if !((back && dot < -bsp.BackFaceEpsilon) || (!back && dot > bsp.BackFaceEpsilon)) {
			continue
		}
		switch Classify(s).Kind {
		case Sky:
		case Translucent:
			r.fs.alpha.push(s)
		case Liquid:
			r.fs.addTexture(s.TexInfo.Animation(r.animFrame), s)
		default:
			r.addLightmapped(s)
		}
	}
	if r.err != nil {
		return r.err
	}
	err := r.flushBatches()

	if e.Translucent {
		r.g.EnableBlend(false)
		r.g.SetColor(1, 1, 1, 1)
		r.g.SetTextureEnvMode(BaseUnit, Replace)
	}
	return err
}
