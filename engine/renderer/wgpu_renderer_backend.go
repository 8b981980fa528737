package renderer

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// meshBuffers are the GPU copies of a gfx.Mesh.
type meshBuffers struct {
	vertex     *wgpu.Buffer
	index      *wgpu.Buffer
	indexCount uint32
}

func (m *meshBuffers) release() {
	m.vertex.Release()
	m.index.Release()
}

// textureEntry is a texture with its sampler and the bind group that exposes both to the shader.
type textureEntry struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup
}

func (t *textureEntry) release() {
	t.bindGroup.Release()
	t.sampler.Release()
	t.view.Release()
	t.texture.Release()
}

type wgpuRendererBackendImpl struct {
	mu     sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat    wgpu.TextureFormat
	width, height    int
	msaaTexture      *wgpu.Texture
	msaaTextureView  *wgpu.TextureView
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	presentMode wgpu.PresentMode // defaults to PresentModeFifo (VSync)
	sampleCount MSAASampleCount

	shaderModule  *wgpu.ShaderModule
	uniformLayout *wgpu.BindGroupLayout
	textureLayout *wgpu.BindGroupLayout
	layout        *wgpu.PipelineLayout
	// pipelines[1] tests and writes depth, pipelines[0] ignores it
	pipelines [2]*wgpu.RenderPipeline

	uniformBuffer    *wgpu.Buffer
	uniformBindGroup *wgpu.BindGroup
	uniformCapacity  int

	meshes     map[*gfx.Mesh]*meshBuffers
	textures   map[gfx.TextureHandle]*textureEntry
	nextHandle gfx.TextureHandle
	fallback   *textureEntry

	inFrame    bool
	frameClear mgl32.Vec4
	frameDraws []gfx.DrawCommand
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		meshes:      make(map[*gfx.Mesh]*meshBuffers),
		textures:    make(map[gfx.TextureHandle]*textureEntry),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.initLayouts(); err != nil {
		b.Release()
		return nil, err
	}
	if b.fallback, err = b.newTextureEntry(
		common.TextureStagingData{Label: "White", Width: 1, Height: 1, Pixels: []byte{255, 255, 255, 255}},
		common.SamplerStagingData{},
	); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// initLayouts creates the shader module, the two bind group layouts and the pipeline layout.
func (b *wgpuRendererBackendImpl) initLayouts() error {
	var err error
	b.shaderModule, err = b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Fixed Function Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: FixedFunctionShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}

	b.uniformLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Draw Uniforms Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   GPUDrawUniformsSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}

	b.textureLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Texture Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create texture layout: %w", err)
	}

	b.layout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Fixed Function Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.uniformLayout, b.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	return nil
}

// createPipelines builds the depth-tested and the depth-ignoring variant for the current surface format.
func (b *wgpuRendererBackendImpl) createPipelines() error {
	for i, depthTest := range []bool{false, true} {
		depthCompare := wgpu.CompareFunctionAlways
		if depthTest {
			depthCompare = wgpu.CompareFunctionLess
		}

		created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  fmt.Sprintf("Fixed Function Pipeline (depth test %t)", depthTest),
			Layout: b.layout,
			Vertex: wgpu.VertexState{
				Module:     b.shaderModule,
				EntryPoint: "vs_main",
				Buffers: []wgpu.VertexBufferLayout{
					{
						ArrayStride: uint64(gfx.VertexSize),
						StepMode:    wgpu.VertexStepModeVertex,
						Attributes: []wgpu.VertexAttribute{
							{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
							{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
							{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
						},
					},
				},
			},
			Fragment: &wgpu.FragmentState{
				Module:     b.shaderModule,
				EntryPoint: "fs_main",
				Targets: []wgpu.ColorTargetState{
					{
						Format:    b.surfaceFormat,
						WriteMask: wgpu.ColorWriteMaskAll,
						Blend: &wgpu.BlendState{
							Color: wgpu.BlendComponent{
								Operation: wgpu.BlendOperationAdd,
								SrcFactor: wgpu.BlendFactorSrcAlpha,
								DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							},
							Alpha: wgpu.BlendComponent{
								Operation: wgpu.BlendOperationAdd,
								SrcFactor: wgpu.BlendFactorOne,
								DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							},
						},
					},
				},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  wgpu.PrimitiveTopologyTriangleList,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  wgpu.CullModeNone,
			},
			Multisample: wgpu.MultisampleState{
				Count: uint32(b.sampleCount),
				Mask:  0xFFFFFFFF,
			},
			DepthStencil: &wgpu.DepthStencilState{
				Format:            wgpu.TextureFormatDepth24Plus,
				DepthWriteEnabled: depthTest,
				DepthCompare:      depthCompare,
				StencilFront: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
				StencilBack: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
			},
		})
		if err != nil {
			return fmt.Errorf("create render pipeline: %w", err)
		}
		if b.pipelines[i] != nil {
			b.pipelines[i].Release()
		}
		b.pipelines[i] = created
	}
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.configureSurface(width, height)
}

// configureSurface (re)configures the swapchain and its render targets. Callers hold mu.
func (b *wgpuRendererBackendImpl) configureSurface(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	format := capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	b.width, b.height = width, height

	if format != b.surfaceFormat || b.pipelines[0] == nil {
		b.surfaceFormat = format
		if err := b.createPipelines(); err != nil {
			log.Printf("[Renderer] %v", err)
		}
	}

	b.releaseTargets()
	if err := b.createTargets(); err != nil {
		log.Printf("[Renderer] %v", err)
	}
}

// createTargets allocates the depth buffer and, with MSAA on, the multisampled color target.
func (b *wgpuRendererBackendImpl) createTargets() error {
	count := uint32(b.sampleCount)
	size := wgpu.Extent3D{
		Width:              uint32(b.width),
		Height:             uint32(b.height),
		DepthOrArrayLayers: 1,
	}

	var err error
	if count > 1 {
		b.msaaTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("create msaa texture: %w", err)
		}
		if b.msaaTextureView, err = b.msaaTexture.CreateView(nil); err != nil {
			return fmt.Errorf("create msaa view: %w", err)
		}
	}

	b.depthTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	if b.depthTextureView, err = b.depthTexture.CreateView(nil); err != nil {
		return fmt.Errorf("create depth view: %w", err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) releaseTargets() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame(clear mgl32.Vec4) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inFrame {
		return errors.New("previous frame not yet ended")
	}
	b.inFrame = true
	b.frameClear = clear
	b.frameDraws = b.frameDraws[:0]
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(cmd gfx.DrawCommand) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.inFrame || cmd.Mesh == nil || len(cmd.Mesh.Indices) == 0 {
		return
	}
	b.frameDraws = append(b.frameDraws, cmd)
}

func (b *wgpuRendererBackendImpl) EndFrame() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.inFrame {
		return 0, gfx.ErrNoFrame
	}
	b.inFrame = false
	if b.depthTextureView == nil {
		return 0, errors.New("surface not configured")
	}

	draws := b.frameDraws
	if err := b.ensureUniformCapacity(len(draws)); err != nil {
		return 0, err
	}
	meshes := make([]*meshBuffers, len(draws))
	data := make([]byte, len(draws)*uniformStride)
	for i, cmd := range draws {
		mb, err := b.meshBuffers(cmd.Mesh)
		if err != nil {
			return 0, err
		}
		meshes[i] = mb
		u := newGPUDrawUniforms(cmd)
		copy(data[i*uniformStride:], u.Marshal())
	}
	if len(data) > 0 {
		b.queue.WriteBuffer(b.uniformBuffer, 0, data)
	}

	// An outdated or lost surface drops the frame and is reconfigured at the last known size.
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		log.Printf("[Renderer] surface unavailable, skipping frame: %v", err)
		b.configureSurface(b.width, b.height)
		return 0, nil
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return 0, err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return 0, err
	}
	defer encoder.Release()

	// With MSAA the multisampled texture is drawn into and resolved into the swapchain view.
	color := wgpu.RenderPassColorAttachment{
		View:    view,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: float64(b.frameClear[0]),
			G: float64(b.frameClear[1]),
			B: float64(b.frameClear[2]),
			A: float64(b.frameClear[3]),
		},
	}
	if b.msaaTextureView != nil {
		color.View = b.msaaTextureView
		color.ResolveTarget = view
		color.StoreOp = wgpu.StoreOpDiscard
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	encoded := 0
	for i, cmd := range draws {
		x, y, w, h, ok := surfaceViewport(cmd.Viewport, b.width, b.height)
		if !ok {
			continue
		}
		pass.SetViewport(x, y, w, h, 0, 1)
		pass.SetPipeline(b.pipelines[pipelineIndex(cmd.DepthTest)])
		pass.SetBindGroup(0, b.uniformBindGroup, []uint32{uint32(i * uniformStride)})
		pass.SetBindGroup(1, b.textureEntry(cmd.TextureHandle).bindGroup, nil)
		pass.SetVertexBuffer(0, meshes[i].vertex, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(meshes[i].index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(meshes[i].indexCount, 1, 0, 0, 0)
		encoded++
	}
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return 0, fmt.Errorf("finish command encoder: %w", err)
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return encoded, nil
}

func pipelineIndex(depthTest bool) int {
	if depthTest {
		return 1
	}
	return 0
}

// ensureUniformCapacity grows the per-draw uniform buffer to hold at least n slots.
func (b *wgpuRendererBackendImpl) ensureUniformCapacity(n int) error {
	if n <= b.uniformCapacity && b.uniformBuffer != nil {
		return nil
	}
	capacity := max(b.uniformCapacity*2, n, 64)

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Draw Uniforms Buffer",
		Size:  uint64(capacity * uniformStride),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Draw Uniforms Bind Group",
		Layout: b.uniformLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buf,
				Offset:  0,
				Size:    GPUDrawUniformsSize,
			},
		},
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("create uniform bind group: %w", err)
	}

	if b.uniformBindGroup != nil {
		b.uniformBindGroup.Release()
		b.uniformBuffer.Release()
	}
	b.uniformBuffer = buf
	b.uniformBindGroup = bindGroup
	b.uniformCapacity = capacity
	return nil
}

// meshBuffers returns the GPU buffers of a mesh, uploading it on first use.
func (b *wgpuRendererBackendImpl) meshBuffers(m *gfx.Mesh) (*meshBuffers, error) {
	if mb, ok := b.meshes[m]; ok {
		return mb, nil
	}

	vertexData := m.VertexBytes()
	vertex, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            m.Label + " Vertex Buffer",
		Size:             uint64(len(vertexData)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Label, err)
	}
	b.queue.WriteBuffer(vertex, 0, vertexData)

	indexData := m.IndexBytes()
	index, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            m.Label + " Index Buffer",
		Size:             uint64(len(indexData)),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		vertex.Release()
		return nil, fmt.Errorf("mesh %q: %w", m.Label, err)
	}
	b.queue.WriteBuffer(index, 0, indexData)

	mb := &meshBuffers{vertex: vertex, index: index, indexCount: uint32(len(m.Indices))}
	b.meshes[m] = mb
	return mb, nil
}

func (b *wgpuRendererBackendImpl) textureEntry(h gfx.TextureHandle) *textureEntry {
	if t, ok := b.textures[h]; ok {
		return t
	}
	return b.fallback
}

func (b *wgpuRendererBackendImpl) CreateTexture(staging common.TextureStagingData, sampler common.SamplerStagingData) (gfx.TextureHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !staging.Valid() {
		return 0, fmt.Errorf("texture %q: %d bytes do not match %dx%d", staging.Label, len(staging.Pixels), staging.Width, staging.Height)
	}
	entry, err := b.newTextureEntry(staging, sampler)
	if err != nil {
		return 0, err
	}
	b.nextHandle++
	b.textures[b.nextHandle] = entry
	return b.nextHandle, nil
}

func (b *wgpuRendererBackendImpl) newTextureEntry(staging common.TextureStagingData, sampler common.SamplerStagingData) (*textureEntry, error) {
	size := wgpu.Extent3D{
		Width:              staging.Width,
		Height:             staging.Height,
		DepthOrArrayLayers: 1,
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         staging.Label + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", staging.Label, err)
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&size,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("texture %q: %w", staging.Label, err)
	}

	samp, err := b.device.CreateSampler(samplerDescriptor(staging.Label, sampler))
	if err != nil {
		view.Release()
		tex.Release()
		return nil, fmt.Errorf("texture %q sampler: %w", staging.Label, err)
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  staging.Label + " Bind Group",
		Layout: b.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: samp},
		},
	})
	if err != nil {
		samp.Release()
		view.Release()
		tex.Release()
		return nil, fmt.Errorf("texture %q bind group: %w", staging.Label, err)
	}

	return &textureEntry{texture: tex, view: view, sampler: samp, bindGroup: bindGroup}, nil
}

// samplerDescriptor fills the zero fields of a sampler configuration with linear repeat defaults.
func samplerDescriptor(label string, s common.SamplerStagingData) *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(s.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(s.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(s.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(s.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(s.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
	}
}

func (b *wgpuRendererBackendImpl) ReleaseTexture(h gfx.TextureHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.textures[h]; ok {
		t.release()
		delete(b.textures, h)
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for h, t := range b.textures {
		t.release()
		delete(b.textures, h)
	}
	for m, mb := range b.meshes {
		mb.release()
		delete(b.meshes, m)
	}
	if b.fallback != nil {
		b.fallback.release()
		b.fallback = nil
	}
	if b.uniformBindGroup != nil {
		b.uniformBindGroup.Release()
		b.uniformBuffer.Release()
		b.uniformBindGroup, b.uniformBuffer = nil, nil
	}
	b.releaseTargets()
	for i, p := range b.pipelines {
		if p != nil {
			p.Release()
			b.pipelines[i] = nil
		}
	}
	if b.layout != nil {
		b.layout.Release()
		b.layout = nil
	}
	if b.textureLayout != nil {
		b.textureLayout.Release()
		b.textureLayout = nil
	}
	if b.uniformLayout != nil {
		b.uniformLayout.Release()
		b.uniformLayout = nil
	}
	if b.shaderModule != nil {
		b.shaderModule.Release()
		b.shaderModule = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
