package scene

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // decoders registered for texture files
	_ "image/png"

	"github.com/anthonynsimon/bild/transform"
	"github.com/devblok/sxs/core/renderer"
	"github.com/devblok/sxs/util/xmltree"
	_ "github.com/ftrvxmtrx/tga"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Texture is an image resource. The image arrives asynchronously,
// until then, or when loading fails, the texture draws as untextured.
type Texture struct {
	ID   string
	File string

	Image image.Image
	Err   error

	loaded bool
	handle *renderer.Texture
}

// Loaded reports whether the asynchronous load finished, successfully or not
func (t *Texture) Loaded() bool {
	return t.loaded
}

// renderable returns nil until an image is available
func (t *Texture) renderable() *renderer.Texture {
	if t == nil || t.Image == nil {
		return nil
	}
	if t.handle == nil {
		t.handle = &renderer.Texture{ID: t.ID, Image: t.Image}
	}
	return t.handle
}

type textureResult struct {
	id       string
	img      image.Image
	warnings []string
	err      error
}

func (l *loader) parseTextures(n *xmltree.Node) error {
	g := l.graph
	for _, c := range n.Children {
		if c.Name != "texture" {
			l.warn(c.Name, "", "unknown tag ignored")
			continue
		}
		id, err := uniqueID(c, func(id string) bool { _, ok := g.Textures[id]; return ok })
		if err != nil {
			return err
		}
		file, err := c.String("file")
		if err != nil {
			return parseErr(c.Name, id, err)
		}
		g.Textures[id] = &Texture{ID: id, File: file}
		g.textureOrder = append(g.textureOrder, id)
	}
	return nil
}

// loadTextures starts one goroutine per texture. Results are applied
// on the caller's side in Update or WaitTextures.
func (g *Graph) loadTextures() {
	if len(g.textureOrder) == 0 {
		return
	}
	g.textureResults = make(chan textureResult, len(g.textureOrder))
	g.pendingTextures = len(g.textureOrder)

	src := g.opts.Source
	resize := g.opts.ResizeTextures
	for _, id := range g.textureOrder {
		go func(id, file string) {
			if src == nil {
				g.textureResults <- textureResult{id: id, err: fmt.Errorf("no source to read '%s' from", file)}
				return
			}
			img, warnings, err := decodeTexture(src, file, resize)
			g.textureResults <- textureResult{id: id, img: img, warnings: warnings, err: err}
		}(id, g.Textures[id].File)
	}
}

func (g *Graph) applyTexture(res textureResult) {
	g.pendingTextures--
	tex := g.Textures[res.id]
	tex.loaded = true
	for _, w := range res.warnings {
		g.warn(Warning{Tag: "texture", ID: res.id}, "%s", w)
	}
	if res.err != nil {
		tex.Err = res.err
		g.warn(Warning{Tag: "texture", ID: res.id}, "%v, drawing without texture", res.err)
		return
	}
	tex.Image = res.img
}

// drainTextures applies every finished load without blocking
func (g *Graph) drainTextures() {
	for g.pendingTextures > 0 {
		select {
		case res := <-g.textureResults:
			g.applyTexture(res)
		default:
			return
		}
	}
}

// WaitTextures blocks until every texture finished loading or ctx is done
func (g *Graph) WaitTextures(ctx context.Context) error {
	for g.pendingTextures > 0 {
		select {
		case res := <-g.textureResults:
			g.applyTexture(res)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func decodeTexture(src Source, file string, resize bool) (image.Image, []string, error) {
	data, err := ReadAll(src, file)
	if err != nil {
		return nil, nil, fmt.Errorf("'%s' cannot be read: %w", file, err)
	}

	// tga carries no magic number, so an unknown kind is still worth a try
	kind, _ := filetype.Match(data)
	if kind != filetype.Unknown && !filetype.IsImage(data) {
		return nil, nil, fmt.Errorf("%w: '%s' is a %s file, not an image", ErrInvalidValue, file, kind.MIME.Value)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("'%s' cannot be decoded: %w", file, err)
	}

	var warnings []string
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if !powerOfTwo(w) || !powerOfTwo(h) {
		if resize {
			warnings = append(warnings, fmt.Sprintf("image dimensions %dx%d are not powers of 2, resized", w, h))
			img = transform.Resize(img, nextPowerOfTwo(w), nextPowerOfTwo(h), transform.Linear)
		} else {
			warnings = append(warnings, fmt.Sprintf("image dimensions %dx%d are not powers of 2", w, h))
		}
	}
	return img, warnings, nil
}

func powerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
