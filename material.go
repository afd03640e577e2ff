package vitrine

import (
	"image"
	"strconv"
	"strings"
)

// Material describes how a mesh surface is shaded. The renderer uses flat
// lambert shading: Diffuse modulated by a fixed light, plus Emissive.
type Material struct {
	Name    string
	Diffuse Color
	// Emissive is added unlit. Selection highlighting works by swapping this
	// value and restoring it on deselect.
	Emissive Color

	// TwoTone splits the tint by the world-space facing of each face:
	// faces pointing toward +Z use Diffuse, faces pointing away use Back.
	// Used by dual-color case variants.
	TwoTone bool
	Back    Color

	// Texture, when non-nil, is the decoded diffuse map. TexturePath records
	// where it came from. Meshes without a texture get a flat tint.
	Texture     image.Image
	TexturePath string
}

// NewMaterial creates a flat material with the given diffuse tint.
func NewMaterial(diffuse Color) *Material {
	return &Material{Diffuse: diffuse}
}

// HasTexture reports whether the material carries a decoded diffuse map.
func (m *Material) HasTexture() bool {
	return m.Texture != nil
}

// ParseColor parses "#rgb" or "#rrggbb" (leading '#' optional) into a Color
// with alpha 1. Malformed input falls back to ColorGray rather than
// propagating a nonsensical color.
func ParseColor(s string) Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		r, okR := hexNibble(s[0])
		g, okG := hexNibble(s[1])
		b, okB := hexNibble(s[2])
		if !okR || !okG || !okB {
			return ColorGray
		}
		return Color{R: float64(r*17) / 255, G: float64(g*17) / 255, B: float64(b*17) / 255, A: 1}
	case 6:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return ColorGray
		}
		return Color{
			R: float64(v>>16&0xff) / 255,
			G: float64(v>>8&0xff) / 255,
			B: float64(v&0xff) / 255,
			A: 1,
		}
	default:
		return ColorGray
	}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
