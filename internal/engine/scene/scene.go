// Package scene draws the paper strip: one mesh, one page texture, one
// material and a two-light rig.
package scene

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/mobius-paper/internal/engine/lighting"
	"github.com/Faultbox/mobius-paper/internal/engine/scene/shaders"
	"github.com/Faultbox/mobius-paper/internal/engine/shader"
	"github.com/Faultbox/mobius-paper/internal/engine/texture"
	"github.com/Faultbox/mobius-paper/internal/logger"
	"github.com/Faultbox/mobius-paper/pkg/math"
	"github.com/Faultbox/mobius-paper/pkg/mobius"
	"github.com/Faultbox/mobius-paper/pkg/paper"
)

// ErrEmptyMesh is returned for a mesh with no triangles.
var ErrEmptyMesh = errors.New("scene: mesh has no triangles")

// Material is a matte, non-metallic surface seen from both sides.
type Material struct {
	Roughness   float32
	Metalness   float32
	DoubleSided bool
}

// DefaultMaterial returns the paper material.
func DefaultMaterial() Material {
	return Material{Roughness: 0.9, Metalness: 0, DoubleSided: true}
}

// Validate checks that roughness and metalness are in [0, 1].
func (m Material) Validate() error {
	if m.Roughness < 0 || m.Roughness > 1 {
		return fmt.Errorf("roughness %v outside [0, 1]", m.Roughness)
	}
	if m.Metalness < 0 || m.Metalness > 1 {
		return fmt.Errorf("metalness %v outside [0, 1]", m.Metalness)
	}
	return nil
}

// Options configure a Scene.
type Options struct {
	Material      Material
	Lights        lighting.Rig
	ToneMapping   bool
	MaxAnisotropy float32 // driver limit from the renderer
}

// DefaultOptions returns the paper material under the default rig.
func DefaultOptions() Options {
	return Options{
		Material:      DefaultMaterial(),
		Lights:        lighting.DefaultRig(),
		ToneMapping:   true,
		MaxAnisotropy: 1,
	}
}

// Scene holds the GPU resources for the strip.
type Scene struct {
	opts    Options
	program *shader.Program
	page    *texture.Texture

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	log *zap.Logger
}

// New uploads the page and the mesh. Neither is modified or kept.
func New(page *paper.Texture, mesh *mobius.Mesh, opts Options) (*Scene, error) {
	if mesh == nil || len(mesh.Indices) == 0 || len(mesh.Vertices) == 0 {
		return nil, ErrEmptyMesh
	}
	if err := opts.Material.Validate(); err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}

	s := &Scene{opts: opts, log: logger.Named("scene")}

	var err error
	s.program, err = shader.NewProgram(shaders.PaperVertexShader, shaders.PaperFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("paper shader: %w", err)
	}

	s.page, err = texture.Upload(page, opts.MaxAnisotropy)
	if err != nil {
		s.program.Delete()
		return nil, fmt.Errorf("page texture: %w", err)
	}

	s.uploadMesh(mesh.Vertices, mesh.Indices)

	s.log.Info("scene ready",
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("pageWidth", s.page.Width),
		zap.Int("pageHeight", s.page.Height),
		zap.Float32("anisotropy", s.page.Anisotropy),
	)
	return s, nil
}

// Vertex attribute layout of mobius.Vertex.
const (
	positionOffset = 0
	normalOffset   = 3 * 4
	texCoordOffset = 6 * 4
	vertexStride   = 8 * 4
)

func (s *Scene) uploadMesh(vertices []mobius.Vertex, indices []uint32) {
	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	vertexSize := int(unsafe.Sizeof(mobius.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, positionOffset)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexStride, normalOffset)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexStride, texCoordOffset)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &s.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	s.indexCount = int32(len(indices))
	gl.BindVertexArray(0)
}

// ModelMatrix returns the strip orientation for the spin angles, applied
// in XYZ Euler order.
func ModelMatrix(x, y float32) math.Mat4 {
	return math.EulerXYZ(x, y, 0)
}

// Draw renders the strip. eye is the camera position in world space.
func (s *Scene) Draw(model, view, proj math.Mat4, eye math.Vec3) {
	p := s.program
	p.Use()

	gl.UniformMatrix4fv(p.Uniform("uModel"), 1, false, model.Ptr())
	gl.UniformMatrix4fv(p.Uniform("uView"), 1, false, view.Ptr())
	gl.UniformMatrix4fv(p.Uniform("uProjection"), 1, false, proj.Ptr())
	gl.Uniform3f(p.Uniform("uCameraPos"), eye.X, eye.Y, eye.Z)

	rig := s.opts.Lights
	amb := rig.Ambient.Radiance()
	dir := rig.Sun.Direction()
	sun := rig.Sun.Radiance()
	gl.Uniform3f(p.Uniform("uAmbient"), amb[0], amb[1], amb[2])
	gl.Uniform3f(p.Uniform("uLightDir"), dir[0], dir[1], dir[2])
	gl.Uniform3f(p.Uniform("uLightColor"), sun[0], sun[1], sun[2])

	m := s.opts.Material
	gl.Uniform1f(p.Uniform("uRoughness"), m.Roughness)
	gl.Uniform1f(p.Uniform("uMetalness"), m.Metalness)
	gl.Uniform1i(p.Uniform("uDoubleSided"), boolToInt(m.DoubleSided))
	gl.Uniform1i(p.Uniform("uToneMap"), boolToInt(s.opts.ToneMapping))

	s.page.Bind(0)
	gl.Uniform1i(p.Uniform("uMap"), 0)

	gl.BindVertexArray(s.vao)
	gl.DrawElements(gl.TRIANGLES, s.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Close releases GPU resources in reverse creation order.
func (s *Scene) Close() {
	if s.ebo != 0 {
		gl.DeleteBuffers(1, &s.ebo)
	}
	if s.vbo != 0 {
		gl.DeleteBuffers(1, &s.vbo)
	}
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
	}
	if s.page != nil {
		s.page.Delete()
	}
	if s.program != nil {
		s.program.Delete()
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
