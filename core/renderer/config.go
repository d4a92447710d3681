package renderer

// Configuration describes the renderer configuration
type Configuration struct {
	ScreenWidth  uint32 `toml:"screen_width"`
	ScreenHeight uint32 `toml:"screen_height"`

	// Wireframe draws triangle outlines instead of filled faces
	Wireframe bool `toml:"wireframe"`

	// Title of the window, when the renderer owns one
	Title string `toml:"title"`
}

// AspectRatio returns width over height, falling back to 1
func (c Configuration) AspectRatio() float32 {
	if c.ScreenHeight == 0 {
		return 1
	}
	return float32(c.ScreenWidth) / float32(c.ScreenHeight)
}
