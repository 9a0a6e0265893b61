// Package renderer draws simulated meshes with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-softbody/internal/engine/shader"
	"github.com/Faultbox/midgard-softbody/internal/logger"
	"github.com/Faultbox/midgard-softbody/internal/mesh"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width     int
	Height    int
	Wireframe bool
}

const vertexSource = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vNormal;

void main() {
	vNormal = mat3(uModel) * aNormal;
	gl_Position = uViewProj * uModel * vec4(aPos, 1.0);
}
`

const fragmentSource = `
#version 410 core

in vec3 vNormal;

uniform vec3 uColor;
uniform vec3 uLightDir;
uniform float uUnlit;

out vec4 FragColor;

void main() {
	if (uUnlit > 0.5) {
		FragColor = vec4(uColor, 1.0);
		return;
	}
	vec3 n = normalize(vNormal);
	// two-sided so cloth reads from below
	float diffuse = abs(dot(n, -uLightDir));
	FragColor = vec4(uColor * (0.25 + 0.75 * diffuse), 1.0);
}
`

// palette is cycled by mesh draw order.
var palette = []math.Vec3{
	{X: 0.45, Y: 0.47, Z: 0.50},
	{X: 0.85, Y: 0.35, Z: 0.30},
	{X: 0.30, Y: 0.60, Z: 0.85},
	{X: 0.90, Y: 0.75, Z: 0.30},
	{X: 0.45, Y: 0.75, Z: 0.40},
}

// gpuMesh holds the buffers of one uploaded mesh.
type gpuMesh struct {
	vao, positions, normals, ebo uint32
	count                        int32
	capacity                     int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config  Config
	program *shader.Program
	meshes  map[*mesh.Mesh]*gpuMesh
	log     *zap.Logger

	lineVAO, lineVBO uint32
	lineCapacity     int

	// LightDir is the direction light travels in.
	LightDir math.Vec3
	// Highlight is drawn in a brighter color; nil for none.
	Highlight *mesh.Mesh
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log := logger.Named("renderer")
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	program, err := shader.New("mesh", vertexSource, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r := &Renderer{
		config:   cfg,
		program:  program,
		meshes:   make(map[*mesh.Mesh]*gpuMesh),
		log:      log,
		LightDir: math.V3(0, -1, 0),
	}
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for m := range r.meshes {
		r.Forget(m)
	}
	gl.DeleteVertexArrays(1, &r.lineVAO)
	gl.DeleteBuffers(1, &r.lineVBO)
	r.program.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetWireframe toggles line rendering.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
}

// Wireframe reports whether line rendering is on.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// Begin starts a new frame.
func (r *Renderer) Begin(viewProj math.Mat4) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj)
	r.program.SetVec3("uLightDir", r.LightDir)
	r.program.SetFloat("uUnlit", 0)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}

// Draw renders the enabled meshes, re-uploading any that are dirty.
func (r *Renderer) Draw(meshes []*mesh.Mesh) {
	for i, m := range meshes {
		if !m.Enabled || m.TriangleCount() == 0 {
			continue
		}
		g := r.upload(m)

		color := palette[i%len(palette)]
		if m == r.Highlight {
			color = color.Add(math.Splat(0.25))
		}
		r.program.SetMat4("uModel", m.WorldMatrix())
		r.program.SetVec3("uColor", color)

		gl.BindVertexArray(g.vao)
		gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, nil)
	}
}

// DrawLines renders world-space line-list vertices (xyz per point) in a flat
// color, on top of the shaded meshes.
func (r *Renderer) DrawLines(vertices []float32, color math.Vec3) {
	if len(vertices) < 6 {
		return
	}
	size := len(vertices) * 4
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	if size > r.lineCapacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
		r.lineCapacity = size
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&vertices[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.program.SetMat4("uModel", math.Identity())
	r.program.SetVec3("uColor", color)
	r.program.SetFloat("uUnlit", 1)
	gl.BindVertexArray(r.lineVAO)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/3))
	r.program.SetFloat("uUnlit", 0)
}

// Forget releases the GPU buffers of m.
func (r *Renderer) Forget(m *mesh.Mesh) {
	g, ok := r.meshes[m]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &g.vao)
	buffers := []uint32{g.positions, g.normals, g.ebo}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
	delete(r.meshes, m)
}

func (r *Renderer) upload(m *mesh.Mesh) *gpuMesh {
	g, ok := r.meshes[m]
	if !ok {
		g = &gpuMesh{}
		gl.GenVertexArrays(1, &g.vao)
		gl.GenBuffers(1, &g.positions)
		gl.GenBuffers(1, &g.normals)
		gl.GenBuffers(1, &g.ebo)

		gl.BindVertexArray(g.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, g.positions)
		gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
		gl.EnableVertexAttribArray(0)
		gl.BindBuffer(gl.ARRAY_BUFFER, g.normals)
		gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 3*4, nil)
		gl.EnableVertexAttribArray(1)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
		gl.BindVertexArray(0)

		g.count = int32(len(m.Indices))
		r.meshes[m] = g
		m.MarkDirty()

		r.log.Debug("mesh uploaded",
			zap.String("mesh", m.Name),
			zap.Int("vertices", m.VertexCount()),
			zap.Int("triangles", m.TriangleCount()),
		)
	}
	if !m.Dirty() {
		return g
	}

	size := len(m.Positions) * 4
	gl.BindBuffer(gl.ARRAY_BUFFER, g.positions)
	if size > g.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&m.Positions[0]), gl.DYNAMIC_DRAW)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&m.Positions[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, g.normals)
	if size > g.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&m.Normals[0]), gl.DYNAMIC_DRAW)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&m.Normals[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	g.capacity = max(g.capacity, size)

	m.ClearDirty()
	return g
}

// ReadPixels returns the RGBA contents of the back buffer, bottom row
// first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}
