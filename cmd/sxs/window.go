package main

import (
	"strings"

	"github.com/devblok/sxs/core"
	"github.com/devblok/sxs/core/renderer"
	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// window presents rasterized triangles through the SDL 2D renderer
type window struct {
	win       *sdl.Window
	ren       *sdl.Renderer
	wireframe bool
	logger    log.FieldLogger

	textures map[*renderer.Texture]*sdl.Texture
	failed   map[*renderer.Texture]bool

	vertices []sdl.Vertex
	indices  []int32
}

func newWindow(cfg renderer.Configuration, logger log.FieldLogger) (*window, error) {
	win, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, err
	}

	ren, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		win.Destroy()
		return nil, err
	}
	return &window{
		win:       win,
		ren:       ren,
		wireframe: cfg.Wireframe,
		logger:    logger,
		textures:  map[*renderer.Texture]*sdl.Texture{},
		failed:    map[*renderer.Texture]bool{},
	}, nil
}

// Present implements presenter
func (w *window) Present(background glm.Vec4, tris []triangle) error {
	bg := toColor(background)
	if err := w.ren.SetDrawColor(bg[0], bg[1], bg[2], 255); err != nil {
		return err
	}
	if err := w.ren.Clear(); err != nil {
		return err
	}

	if w.wireframe {
		if err := w.outline(tris); err != nil {
			return err
		}
		w.ren.Present()
		return nil
	}

	var current *renderer.Texture
	for idx, t := range tris {
		if idx > 0 && t.texture != current {
			if err := w.flush(current); err != nil {
				return err
			}
		}
		current = t.texture
		for _, v := range t.verts {
			w.indices = append(w.indices, int32(len(w.vertices)))
			w.vertices = append(w.vertices, sdl.Vertex{
				Position: sdl.FPoint{X: v.X, Y: v.Y},
				Color:    sdl.Color{R: v.Color[0], G: v.Color[1], B: v.Color[2], A: v.Color[3]},
				TexCoord: sdl.FPoint{X: v.U, Y: v.V},
			})
		}
	}
	if err := w.flush(current); err != nil {
		return err
	}
	w.ren.Present()
	return nil
}

func (w *window) flush(tex *renderer.Texture) error {
	defer func() {
		w.vertices = w.vertices[:0]
		w.indices = w.indices[:0]
	}()
	if len(w.vertices) == 0 {
		return nil
	}
	return w.ren.RenderGeometry(w.texture(tex), w.vertices, w.indices)
}

func (w *window) outline(tris []triangle) error {
	if err := w.ren.SetDrawColor(255, 255, 255, 255); err != nil {
		return err
	}
	for _, t := range tris {
		for idx := range t.verts {
			a, b := t.verts[idx], t.verts[(idx+1)%3]
			if err := w.ren.DrawLineF(a.X, a.Y, b.X, b.Y); err != nil {
				return err
			}
		}
	}
	return nil
}

// texture uploads a scene texture the first time it is drawn.
// Failed uploads draw untextured and are not retried.
func (w *window) texture(t *renderer.Texture) *sdl.Texture {
	if t == nil || w.failed[t] {
		return nil
	}
	if tex, ok := w.textures[t]; ok {
		return tex
	}

	width, height := t.Size()
	surface, err := sdl.CreateRGBSurfaceWithFormat(0, int32(width), int32(height), 32, sdl.PIXELFORMAT_ABGR8888)
	if err != nil {
		w.fail(t, err)
		return nil
	}
	defer surface.Free()
	copy(surface.Pixels(), core.GetPixels(t.Image, int(surface.Pitch)))

	tex, err := w.ren.CreateTextureFromSurface(surface)
	if err != nil {
		w.fail(t, err)
		return nil
	}
	w.textures[t] = tex
	return tex
}

func (w *window) fail(t *renderer.Texture, err error) {
	w.logger.WithError(err).WithField("texture", t.ID).Warn("texture upload failed")
	w.failed[t] = true
}

// Size returns the drawable size of the window
func (w *window) Size() (int, int) {
	width, height := w.win.GetSize()
	return int(width), int(height)
}

// ResetTextures releases every uploaded texture, used when the scene is swapped
func (w *window) ResetTextures() {
	for _, tex := range w.textures {
		tex.Destroy()
	}
	w.textures = map[*renderer.Texture]*sdl.Texture{}
	w.failed = map[*renderer.Texture]bool{}
}

// Destroy releases the renderer and the window
func (w *window) Destroy() {
	w.ResetTextures()
	w.ren.Destroy()
	w.win.Destroy()
}

// keyName maps a key press to the names the engine binds commands to
func keyName(sym sdl.Keycode) string {
	if sym == sdl.K_SPACE {
		return "space"
	}
	return strings.ToLower(sdl.GetKeyName(sym))
}
