package vitrine

import (
	"image/color"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Shading parameters for the flat-lambert pass. One fixed directional light
// plus an ambient floor; no shadows.
const (
	ambientLight = 0.35
	diffuseLight = 0.65
)

var lightDir = mgl32.Vec3{0.35, 0.8, 0.55}.Normalize()

// frameStats accumulates per-frame render counters, reported when debug
// mode is on.
type frameStats struct {
	triangles int
	culled    int
	drawCalls int
}

// shadedTri is one projected, lit triangle awaiting depth sorting.
type shadedTri struct {
	depth float32 // mean view-space distance, used for painter ordering
	img   *ebiten.Image
	verts [3]ebiten.Vertex
}

// --- White pixel singleton (no sync.Once; rendering is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image, used
// by untextured meshes.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// Draw renders the scene onto screen: projects every visible triangle
// through the orbit camera, lights it with a single directional light, depth
// sorts back to front, and submits batched DrawTriangles calls. Triangles
// crossing the near plane are dropped rather than clipped; at shelf viewing
// distances they cannot occur.
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.disposed {
		return
	}
	vp := v.cam.Viewport()
	if vp.Width <= 0 || vp.Height <= 0 {
		return
	}

	mvp := v.cam.ProjMatrix().Mul4(v.cam.ViewMatrix())

	var dbg debugStats
	var mark time.Time
	if v.debug {
		mark = time.Now()
	}

	stats := frameStats{}
	v.scratchTris = v.scratchTris[:0]
	v.collectTriangles(v.root, mvp, &stats)
	if v.debug {
		dbg.projectTime = time.Since(mark)
		mark = time.Now()
	}

	// Painter ordering: far triangles first.
	sort.Slice(v.scratchTris, func(i, j int) bool {
		return v.scratchTris[i].depth > v.scratchTris[j].depth
	})
	if v.debug {
		dbg.sortTime = time.Since(mark)
		mark = time.Now()
	}

	v.submitBatches(screen, &stats)
	if v.debug {
		dbg.submitTime = time.Since(mark)
	}
	v.frameStats = stats
	v.debugLog(dbg, stats)

	v.flushScreenshots(screen)
}

func (v *Viewer) collectTriangles(g *Group, mvp mgl32.Mat4, stats *frameStats) {
	if !g.Visible {
		return
	}
	for _, mesh := range g.Meshes {
		v.projectMesh(mesh, g.worldMatrix, mvp, stats)
	}
	for _, c := range g.children {
		v.collectTriangles(c, mvp, stats)
	}
}

func (v *Viewer) projectMesh(mesh *Mesh, world, mvp mgl32.Mat4, stats *frameStats) {
	if len(mesh.Indices) == 0 {
		return
	}
	mat := mesh.Material
	if mat == nil {
		mat = NewMaterial(ColorWhite)
	}
	img := v.materialImage(mat)
	texW, texH := 1, 1
	if img != ensureWhitePixel() {
		b := img.Bounds()
		texW, texH = b.Dx(), b.Dy()
	}

	vp := v.cam.Viewport()
	m := mvp.Mul4(world)

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		i0, i1, i2 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]

		var sx, sy [3]float32
		var depth float32
		behind := false
		for k, idx := range [3]uint32{i0, i1, i2} {
			clip := m.Mul4x1(mesh.Positions[idx].Vec4(1))
			w := clip.W()
			if w <= 1e-5 {
				behind = true
				break
			}
			sx[k] = float32(vp.X) + (clip.X()/w+1)/2*float32(vp.Width)
			sy[k] = float32(vp.Y) + (1-clip.Y()/w)/2*float32(vp.Height)
			depth += w
		}
		if behind {
			stats.culled++
			continue
		}
		depth /= 3

		// Screen-space winding; with Y down a front face winds clockwise.
		area := (sx[1]-sx[0])*(sy[2]-sy[0]) - (sx[2]-sx[0])*(sy[1]-sy[0])
		backface := area <= 0
		if backface && !mat.TwoTone {
			stats.culled++
			continue
		}

		// Flat shading from the first vertex normal, in world space.
		shade := float32(1)
		var localZ float32
		if int(i0) < len(mesh.Normals) {
			n := mesh.Normals[i0]
			localZ = n.Z()
			wn := mgl32.TransformNormal(n, world)
			if l := wn.Len(); l > 1e-8 {
				wn = wn.Mul(1 / l)
			}
			d := wn.Dot(lightDir)
			if backface {
				d = -d
			}
			if d < 0 {
				d = 0
			}
			shade = ambientLight + diffuseLight*d
		}

		base := mat.Diffuse
		if mat.TwoTone && localZ < 0 {
			base = mat.Back
		}
		if mat.HasTexture() {
			base = ColorWhite
		}

		r := clamp01(base.R*float64(shade) + mat.Emissive.R)
		g := clamp01(base.G*float64(shade) + mat.Emissive.G)
		b := clamp01(base.B*float64(shade) + mat.Emissive.B)
		a := clamp01(base.A)

		tri := shadedTri{depth: depth, img: img}
		for k, idx := range [3]uint32{i0, i1, i2} {
			srcX, srcY := float32(0.5), float32(0.5)
			if int(idx) < len(mesh.UVs) && texW > 1 {
				uv := mesh.UVs[idx]
				srcX = uv.X() * float32(texW)
				srcY = (1 - uv.Y()) * float32(texH)
			}
			tri.verts[k] = ebiten.Vertex{
				DstX:   sx[k],
				DstY:   sy[k],
				SrcX:   srcX,
				SrcY:   srcY,
				ColorR: float32(r * a),
				ColorG: float32(g * a),
				ColorB: float32(b * a),
				ColorA: float32(a),
			}
		}
		v.scratchTris = append(v.scratchTris, tri)
		stats.triangles++
	}
}

// submitBatches flushes the sorted triangle list, merging consecutive
// triangles that share a source image into a single DrawTriangles call.
func (v *Viewer) submitBatches(screen *ebiten.Image, stats *frameStats) {
	if len(v.scratchTris) == 0 {
		return
	}
	var (
		verts   []ebiten.Vertex
		indices []uint32
		cur     *ebiten.Image
	)
	flush := func() {
		if len(indices) == 0 {
			return
		}
		op := &ebiten.DrawTrianglesOptions{}
		screen.DrawTriangles32(verts, indices, cur, op)
		stats.drawCalls++
		verts = verts[:0]
		indices = indices[:0]
	}
	for i := range v.scratchTris {
		t := &v.scratchTris[i]
		if t.img != cur {
			flush()
			cur = t.img
		}
		base := uint32(len(verts))
		verts = append(verts, t.verts[0], t.verts[1], t.verts[2])
		indices = append(indices, base, base+1, base+2)
	}
	flush()
}

// materialImage returns the ebiten texture for a material, decoding and
// caching it on first use. Untextured materials share the white pixel.
func (v *Viewer) materialImage(mat *Material) *ebiten.Image {
	if mat == nil || !mat.HasTexture() {
		return ensureWhitePixel()
	}
	if v.textures == nil {
		v.textures = make(map[*Material]*ebiten.Image)
	}
	if img, ok := v.textures[mat]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(mat.Texture)
	v.textures[mat] = img
	return img
}

// releaseObjectTextures evicts the cached textures for every material the
// object carries and returns their GPU memory. Called on object removal so
// repeated same-id replacements do not accumulate decoded images.
func (v *Viewer) releaseObjectTextures(obj *SceneObject) {
	for _, m := range obj.materials() {
		img, ok := v.textures[m]
		if !ok {
			continue
		}
		if img != nil {
			img.Deallocate()
		}
		delete(v.textures, m)
	}
}

// releaseAllTextures drops the whole texture cache.
func (v *Viewer) releaseAllTextures() {
	for m, img := range v.textures {
		if img != nil {
			img.Deallocate()
		}
		delete(v.textures, m)
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
