package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/Carmen-Shannon/siege/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfLoaderBackendImpl imports .gltf and .glb files.
// Node transforms are baked into vertex positions and normals so a scene draws with a single transform.
type gltfLoaderBackendImpl struct {
	source texture.Source
}

var _ loaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Parameters:
//   - source: decodes externally referenced images
//
// Returns:
//   - loaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend(source texture.Source) loaderBackend {
	return &gltfLoaderBackendImpl{source: source}
}

func (b *gltfLoaderBackendImpl) Load(path string) (Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImport, path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	materials, err := b.extractMaterials(doc, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImport, path, err)
	}

	var prims []Primitive
	for _, root := range rootNodes(doc) {
		if err := b.walkNode(doc, root, mgl32.Ident4(), name, &prims); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrImport, path, err)
		}
	}
	if len(prims) == 0 {
		return nil, fmt.Errorf("%w: %s: no triangle meshes", ErrImport, path)
	}

	return NewScene(name, prims, materials), nil
}

// rootNodes returns the nodes of the default scene, falling back to the first scene.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	idx := 0
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		idx = *doc.Scene
	}
	return doc.Scenes[idx].Nodes
}

// nodeTransform returns the node's local transform, preferring an explicit matrix over TRS.
func nodeTransform(n *gltf.Node) mgl32.Mat4 {
	m := n.MatrixOrDefault()
	var local mgl32.Mat4
	for i := range m {
		local[i] = float32(m[i])
	}
	if local != mgl32.Ident4() {
		return local
	}

	t := n.Translation
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	rot := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func (b *gltfLoaderBackendImpl) walkNode(doc *gltf.Document, idx int, parent mgl32.Mat4, name string, out *[]Primitive) error {
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	node := doc.Nodes[idx]
	world := parent.Mul4(nodeTransform(node))

	if node.Mesh != nil {
		if *node.Mesh >= len(doc.Meshes) {
			return fmt.Errorf("node %d: mesh index %d out of range", idx, *node.Mesh)
		}
		mesh := doc.Meshes[*node.Mesh]
		for pi, p := range mesh.Primitives {
			if p.Mode != gltf.PrimitiveTriangles {
				continue
			}
			m, err := extractPrimitive(doc, p, world, fmt.Sprintf("%s/%s/%d", name, mesh.Name, pi))
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, pi, err)
			}
			material := -1
			if p.Material != nil {
				material = *p.Material
			}
			*out = append(*out, Primitive{Mesh: m, Material: material})
		}
	}

	for _, child := range node.Children {
		if err := b.walkNode(doc, child, world, name, out); err != nil {
			return err
		}
	}
	return nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

func extractPrimitive(doc *gltf.Document, p *gltf.Primitive, world mgl32.Mat4, label string) (*gfx.Mesh, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("missing POSITION attribute")
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		if acr, err = accessor(doc, idx); err != nil {
			return nil, err
		}
		if normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		if acr, err = accessor(doc, idx); err != nil {
			return nil, err
		}
		if uvs, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("read texture coordinates: %w", err)
		}
	}

	var indices []uint32
	if p.Indices != nil {
		if acr, err = accessor(doc, *p.Indices); err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, i := range indices {
		if int(i) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range for %d vertices", i, len(positions))
		}
	}

	normalMat := world.Mat3().Inv().Transpose()
	vertices := make([]gfx.Vertex, len(positions))
	for i, pos := range positions {
		wp := world.Mul4x1(mgl32.Vec3(pos).Vec4(1)).Vec3()
		v := gfx.Vertex{Position: [3]float32(wp)}
		if i < len(normals) {
			n := normalMat.Mul3x1(mgl32.Vec3(normals[i]))
			if n.Len() > 0 {
				n = n.Normalize()
			}
			v.Normal = [3]float32(n)
		} else {
			v.Normal = [3]float32{0, 1, 0}
		}
		if i < len(uvs) {
			// glTF puts the texture origin at the top-left; staging data is bottom-up.
			v.UV = [2]float32{uvs[i][0], 1 - uvs[i][1]}
		}
		vertices[i] = v
	}

	return &gfx.Mesh{Label: label, Vertices: vertices, Indices: indices}, nil
}

func (b *gltfLoaderBackendImpl) extractMaterials(doc *gltf.Document, dir string) ([]*Material, error) {
	out := make([]*Material, len(doc.Materials))
	for i, m := range doc.Materials {
		mat := &Material{Name: m.Name, BaseColor: mgl32.Vec4{1, 1, 1, 1}}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			c := pbr.BaseColorFactorOrDefault()
			mat.BaseColor = mgl32.Vec4{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
			if pbr.BaseColorTexture != nil {
				staged, err := b.extractTexture(doc, pbr.BaseColorTexture.Index, dir)
				if err != nil {
					return nil, fmt.Errorf("material %d (%s): %w", i, m.Name, err)
				}
				mat.Texture = staged
			}
		}
		out[i] = mat
	}
	return out, nil
}

func (b *gltfLoaderBackendImpl) extractTexture(doc *gltf.Document, texIdx int, dir string) (*common.TextureStagingData, error) {
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return nil, fmt.Errorf("texture %d has no image", texIdx)
	}
	imgIdx := *doc.Textures[texIdx].Source
	if imgIdx >= len(doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", imgIdx)
	}
	img := doc.Images[imgIdx]
	label := fmt.Sprintf("image %d", imgIdx)

	var staged common.TextureStagingData
	var err error
	switch {
	case img.BufferView != nil:
		if *img.BufferView >= len(doc.BufferViews) {
			return nil, fmt.Errorf("image %d: buffer view out of range", imgIdx)
		}
		var data []byte
		data, err = modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err == nil {
			staged, err = texture.DecodeBytes(label, data)
		}
	case img.IsEmbeddedResource():
		var data []byte
		data, err = img.MarshalData()
		if err == nil {
			staged, err = texture.DecodeBytes(label, data)
		}
	case img.URI != "":
		staged, err = b.source.Decode(filepath.Join(dir, filepath.FromSlash(img.URI)))
	default:
		err = fmt.Errorf("image %d has no data", imgIdx)
	}
	if err != nil {
		return nil, err
	}
	return &staged, nil
}
