// SPDX-License-Identifier: GPL-2.0-or-later

package shader

const (
	Brush = "brush"

	BrushVertex = `
#version 410
layout (location = 0) in vec3 position;
layout (location = 1) in vec2 texcoord;
layout (location = 2) in vec2 lmcoord;
out vec2 Texcoord;
out vec2 LMcoord;
uniform mat4 projection;
uniform mat4 modelview;

void main() {
	Texcoord = texcoord;
	LMcoord = lmcoord;
	gl_Position = projection * modelview * vec4(position, 1.0);
}
` + "\x00"

	// BaseEnv and LightmapEnv: 0 replace, 1 modulate, 2 combine
	BrushFragment = `
#version 410
in vec2 Texcoord;
in vec2 LMcoord;
out vec4 frag_color;
uniform sampler2D Tex;
uniform sampler2D LMTex;
uniform bool UseLightmap;
uniform bool Outline;
uniform int BaseEnv;
uniform int LightmapEnv;
uniform float RGBScale;
uniform vec4 Color;

void main() {
	if (Outline) {
		frag_color = vec4(1.0);
		return;
	}
	vec4 c = texture(Tex, Texcoord);
	if (BaseEnv != 0) {
		c *= Color;
	}
	if (UseLightmap) {
		vec3 lm = texture(LMTex, LMcoord).rgb;
		if (LightmapEnv == 0) {
			c = vec4(lm, 1.0);
		} else if (LightmapEnv == 1) {
			c.rgb *= lm;
		} else {
			c.rgb = clamp(c.rgb * lm * RGBScale, 0.0, 1.0);
		}
	}
	frag_color = c;
}
` + "\x00"
)
