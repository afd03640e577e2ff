package vitrine

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	sobj "github.com/sheenobu/go-obj/obj"
)

// Fetcher retrieves the raw bytes of an asset by path. The default fetcher
// performs an HTTP GET and treats any non-2xx status as a failed load.
type Fetcher func(path string) (io.ReadCloser, error)

func httpFetch(assetPath string) (io.ReadCloser, error) {
	resp, err := http.Get(assetPath)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", assetPath, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %s", assetPath, resp.Status)
	}
	return resp.Body, nil
}

// LoadOptions controls normalization of a loaded model.
type LoadOptions struct {
	// Tint is applied as a flat diffuse color to every mesh that has no
	// explicit texture.
	Tint Color
	// Back, when non-nil, enables the dual-color split: front faces use
	// Tint, rear faces use Back.
	Back *Color
	// Scale is a fixed uniform scale factor. Zero selects auto-fit: the
	// largest bounding-box dimension is scaled to the loader's fit span.
	Scale float32
	// RotationY is a fixed initial rotation (radians) applied to the inner
	// group so the authored orientation faces the viewer.
	RotationY float32
}

// Model is a normalized, centered, scaled mesh group ready for placement.
// Outer is the runtime placement group; Inner carries the authored scale and
// rotation and is never mutated after loading.
type Model struct {
	Outer  *Group
	Inner  *Group
	Meshes []*Mesh
	// Bounds is the post-scale axis-aligned size of the model.
	Bounds mgl32.Vec3
}

// Loader fetches and parses model assets. Format is dispatched on the file
// extension: .obj (with optional .mtl) and .gltf/.glb are supported.
type Loader struct {
	fetch   Fetcher
	fitSpan float32
}

// NewLoader creates a loader with the given fetcher. A nil fetcher selects
// HTTP fetching.
func NewLoader(fetch Fetcher) *Loader {
	if fetch == nil {
		fetch = httpFetch
	}
	return &Loader{fetch: fetch, fitSpan: defaultFitSpan}
}

// Load fetches and parses meshPath (plus an optional material file) and
// returns the normalized model: bounding box computed, re-centered on the
// box centroid, scaled, wrapped in inner and outer transform groups.
func (l *Loader) Load(meshPath, mtlPath string, opts LoadOptions) (*Model, error) {
	rc, err := l.fetch(meshPath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var meshes []*Mesh
	switch strings.ToLower(path.Ext(meshPath)) {
	case ".obj":
		meshes, err = parseOBJ(rc)
	case ".gltf", ".glb":
		meshes, err = parseGLTF(rc)
	default:
		err = fmt.Errorf("unsupported model format %q", path.Ext(meshPath))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", meshPath, err)
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("parse %s: no geometry", meshPath)
	}

	if mtlPath != "" {
		if err := l.applyMaterialFile(meshes, mtlPath); err != nil {
			return nil, err
		}
	}

	// Meshes without a texture get a flat material tinted by the caller.
	for _, m := range meshes {
		if m.Material == nil {
			m.Material = NewMaterial(opts.Tint)
		}
		if !m.Material.HasTexture() {
			m.Material.Diffuse = opts.Tint
			if opts.Back != nil {
				m.Material.TwoTone = true
				m.Material.Back = *opts.Back
			}
		}
		m.EnsureNormals()
	}

	return l.normalize(meshes, opts), nil
}

// normalize centers the geometry on its bounding-box centroid, applies the
// fixed scale and initial rotation on an inner group, and wraps that in an
// outer group reserved for runtime placement.
func (l *Loader) normalize(meshes []*Mesh, opts LoadOptions) *Model {
	box := emptyBox3()
	for _, m := range meshes {
		mb := m.BoundingBox()
		if mb.IsEmpty() {
			continue
		}
		box = box.ExpandByPoint(mb.Min)
		box = box.ExpandByPoint(mb.Max)
	}
	center := box.Center()
	for _, m := range meshes {
		m.Translate(center.Mul(-1))
	}

	scale := opts.Scale
	if scale == 0 {
		if d := box.MaxDimension(); d > 1e-6 {
			scale = l.fitSpan / d
		} else {
			scale = 1
		}
	}

	inner := NewGroup("inner")
	inner.Meshes = meshes
	inner.SetScale(scale)
	if opts.RotationY != 0 {
		inner.SetRotationEuler(0, opts.RotationY, 0)
	}

	outer := NewGroup("outer")
	outer.AddChild(inner)

	// Post-scale size: rotate the centered box by the initial rotation, then
	// scale. Covers non-axis-aligned authored orientations.
	size := rotatedBoxSize(box, inner.Rotation).Mul(scale)

	return &Model{Outer: outer, Inner: inner, Meshes: meshes, Bounds: size}
}

// rotatedBoxSize returns the AABB size of box after rotating it by q about
// its own center.
func rotatedBoxSize(box Box3, q mgl32.Quat) mgl32.Vec3 {
	if box.IsEmpty() {
		return mgl32.Vec3{}
	}
	center := box.Center()
	out := emptyBox3()
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{box.Min.X(), box.Min.Y(), box.Min.Z()}
		if i&1 != 0 {
			c[0] = box.Max.X()
		}
		if i&2 != 0 {
			c[1] = box.Max.Y()
		}
		if i&4 != 0 {
			c[2] = box.Max.Z()
		}
		out = out.ExpandByPoint(q.Rotate(c.Sub(center)))
	}
	return out.Size()
}

// --- OBJ ---

// parseOBJ reads a Wavefront OBJ stream into a single mesh. Faces with more
// than three points are fan-triangulated.
func parseOBJ(r io.Reader) ([]*Mesh, error) {
	o, err := sobj.NewReader(r).Read()
	if err != nil {
		return nil, err
	}

	var (
		positions []mgl32.Vec3
		normals   []mgl32.Vec3
		uvs       []mgl32.Vec2
		indices   []uint32
	)
	hasNormals := true

	appendPoint := func(p *sobj.Point) uint32 {
		idx := uint32(len(positions))
		positions = append(positions, mgl32.Vec3{
			float32(p.Vertex.X), float32(p.Vertex.Y), float32(p.Vertex.Z),
		})
		if p.Normal != nil {
			normals = append(normals, mgl32.Vec3{
				float32(p.Normal.X), float32(p.Normal.Y), float32(p.Normal.Z),
			})
		} else {
			hasNormals = false
			normals = append(normals, mgl32.Vec3{})
		}
		if p.Texture != nil {
			uvs = append(uvs, mgl32.Vec2{float32(p.Texture.U), float32(p.Texture.V)})
		} else {
			uvs = append(uvs, mgl32.Vec2{})
		}
		return idx
	}

	for _, face := range o.Faces {
		if len(face.Points) < 3 {
			continue
		}
		first := appendPoint(face.Points[0])
		prev := appendPoint(face.Points[1])
		for i := 2; i < len(face.Points); i++ {
			cur := appendPoint(face.Points[i])
			indices = append(indices, first, prev, cur)
			prev = cur
		}
	}

	if !hasNormals {
		normals = nil // regenerated from winding by EnsureNormals
	}
	m := NewMesh("obj", positions, normals, uvs, indices)
	m.Material = nil // assigned by material file or caller tint
	return []*Mesh{m}, nil
}

// --- MTL ---

// mtlDef is one material definition from a Wavefront MTL file. Only the
// subset the viewer shades with is read: diffuse color, emissive color, and
// the diffuse map path. go-obj parses geometry only, so this small reader
// covers the material side, mirroring how the asset pipeline's models are
// authored.
type mtlDef struct {
	name     string
	diffuse  Color
	emissive Color
	mapKd    string
}

func parseMTL(r io.Reader) ([]mtlDef, error) {
	var defs []mtlDef
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(strings.TrimSpace(sc.Text()))
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "newmtl":
			name := ""
			if len(fields) > 1 {
				name = fields[1]
			}
			defs = append(defs, mtlDef{name: name, diffuse: ColorWhite})
		case "Kd":
			if len(defs) > 0 {
				defs[len(defs)-1].diffuse = parseMTLColor(fields[1:])
			}
		case "Ke":
			if len(defs) > 0 {
				defs[len(defs)-1].emissive = parseMTLColor(fields[1:])
			}
		case "map_Kd":
			if len(defs) > 0 && len(fields) > 1 {
				defs[len(defs)-1].mapKd = fields[len(fields)-1]
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}

func parseMTLColor(fields []string) Color {
	c := Color{A: 1}
	vals := [3]float64{}
	for i := 0; i < 3 && i < len(fields); i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return ColorGray
		}
		vals[i] = v
	}
	c.R, c.G, c.B = vals[0], vals[1], vals[2]
	return c
}

// applyMaterialFile fetches and parses an MTL file and applies its first
// usable definition to every mesh that has none. A diffuse map is fetched
// and decoded; a map that fails to load degrades to the flat diffuse color
// rather than failing the whole model.
func (l *Loader) applyMaterialFile(meshes []*Mesh, mtlPath string) error {
	rc, err := l.fetch(mtlPath)
	if err != nil {
		return err
	}
	defer rc.Close()

	defs, err := parseMTL(rc)
	if err != nil {
		return fmt.Errorf("parse %s: %w", mtlPath, err)
	}
	if len(defs) == 0 {
		return nil
	}
	def := defs[0]

	mat := NewMaterial(def.diffuse)
	mat.Name = def.name
	mat.Emissive = def.emissive
	if def.mapKd != "" {
		texPath := path.Join(path.Dir(mtlPath), def.mapKd)
		if img := l.fetchImage(texPath); img != nil {
			mat.Texture = img
			mat.TexturePath = texPath
		}
	}
	for _, m := range meshes {
		if m.Material == nil {
			m.Material = mat
		}
	}
	return nil
}

func (l *Loader) fetchImage(texPath string) image.Image {
	rc, err := l.fetch(texPath)
	if err != nil {
		return nil
	}
	defer rc.Close()
	img, _, err := image.Decode(rc)
	if err != nil {
		return nil
	}
	return img
}

// --- glTF ---

// parseGLTF reads a glTF or GLB stream. Each primitive becomes one mesh.
// Material colors beyond the caller tint are not mapped; the viewer's flat
// shading uses the tint for untextured surfaces.
func parseGLTF(r io.Reader) ([]*Mesh, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, err
	}

	var meshes []*Mesh
	for _, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			pos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, err
			}
			positions := make([]mgl32.Vec3, len(pos))
			for i, p := range pos {
				positions[i] = mgl32.Vec3{p[0], p[1], p[2]}
			}

			var normals []mgl32.Vec3
			if ni, ok := prim.Attributes[gltf.NORMAL]; ok {
				ns, err := modeler.ReadNormal(doc, doc.Accessors[ni], nil)
				if err == nil {
					normals = make([]mgl32.Vec3, len(ns))
					for i, n := range ns {
						normals[i] = mgl32.Vec3{n[0], n[1], n[2]}
					}
				}
			}

			var uvs []mgl32.Vec2
			if ti, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				ts, err := modeler.ReadTextureCoord(doc, doc.Accessors[ti], nil)
				if err == nil {
					uvs = make([]mgl32.Vec2, len(ts))
					for i, t := range ts {
						uvs[i] = mgl32.Vec2{t[0], t[1]}
					}
				}
			}

			var indices []uint32
			if prim.Indices != nil {
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, err
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}

			m := NewMesh(fmt.Sprintf("%s-%d", gm.Name, pi), positions, normals, uvs, indices)
			m.Material = nil
			meshes = append(meshes, m)
		}
	}
	return meshes, nil
}

// --- Async loading ---

// loadRequest is one pending model addition. The object id, kind, and tint
// travel with the request so the completion handler can insert the object
// without re-deriving anything.
type loadRequest struct {
	id       string
	meshPath string
	mtlPath  string
	opts     LoadOptions
	shelfX   float32
}

// loadResult is delivered on the viewer's completion channel. Exactly one
// result per request; either model or err is set.
type loadResult struct {
	req   loadRequest
	model *Model
	err   error
}

// loadAsync fetches and parses in a goroutine and delivers the result on ch.
// The result is consumed on the main loop in Viewer.Update, so a partially
// initialized object is never visible to the placement engine. A closed quit
// channel abandons the delivery, so loads resolving after the consumer is
// gone do not block on a full channel.
func (l *Loader) loadAsync(req loadRequest, ch chan<- loadResult, quit <-chan struct{}) {
	go func() {
		model, err := l.Load(req.meshPath, req.mtlPath, req.opts)
		select {
		case ch <- loadResult{req: req, model: model, err: err}:
		case <-quit:
		}
	}()
}
