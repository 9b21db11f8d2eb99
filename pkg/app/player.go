package app

import (
	"github.com/kjkrol/glscene/pkg/gfx"
	"github.com/kjkrol/glscene/pkg/scene"
)

// player turns a scene into device calls. A scene without a mesh only
// clears the window.
type player struct {
	dev      gfx.Device
	sc       *scene.Scene
	opts     gfx.RendererOptions
	renderer *gfx.FrameRenderer
	// static yields the size-dependent uniforms, normally the scene's.
	static   func(width, height int) map[string]gfx.UniformValue
}

func newPlayer(dev gfx.Device, sc *scene.Scene) *player {
	return &player{dev: dev, sc: sc, opts: sc.RendererOptions(), static: sc.Static}
}

func (p *player) setup(width, height int) error {
	p.dev.Viewport(int32(width), int32(height))
	if !p.sc.HasMesh() {
		gfx.Logger().Debug("scene has no mesh, clearing only", "scene", p.sc.Name)
		return nil
	}

	vs, fs := p.sc.ShaderSources()
	program, err := gfx.BuildProgram(p.dev, vs, fs)
	if err != nil {
		return err
	}
	r := gfx.NewFrameRenderer(p.dev, p.opts)
	if err := r.Initialize(p.sc.GfxMesh(), program); err != nil {
		program.Release()
		return err
	}
	p.renderer = r
	if err := p.setUniforms(p.static(width, height)); err != nil {
		if derr := p.teardown(); derr != nil {
			gfx.Logger().Warn("teardown after failed setup", "err", derr)
		}
		return err
	}
	return nil
}

func (p *player) setUniforms(values map[string]gfx.UniformValue) error {
	for name, v := range values {
		if err := p.renderer.SetUniform(name, v); err != nil {
			return err
		}
	}
	return nil
}

func (p *player) tick(elapsed float64) error {
	if p.renderer == nil {
		p.opts.Clear(p.dev)
		return nil
	}
	if err := p.setUniforms(p.sc.Animate(elapsed)); err != nil {
		return err
	}
	return p.renderer.RenderFrame()
}

func (p *player) handle(event gfx.Event) {
	switch e := event.(type) {
	case gfx.Resize:
		if e.Width <= 0 || e.Height <= 0 {
			return
		}
		p.dev.Viewport(int32(e.Width), int32(e.Height))
		if p.renderer != nil {
			if err := p.setUniforms(p.static(e.Width, e.Height)); err != nil {
				gfx.Logger().Warn("resize uniforms", "err", err)
			}
		}
		gfx.Logger().Debug("resized", "width", e.Width, "height", e.Height)
	case gfx.KeyPress:
		gfx.Logger().Debug("key pressed", "key", e.Label)
	case gfx.CloseRequest:
		gfx.Logger().Info("close requested")
	}
}

func (p *player) teardown() error {
	if p.renderer == nil {
		return nil
	}
	err := p.renderer.Destroy()
	p.renderer = nil
	return err
}
