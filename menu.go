package reflector

import (
	"image"
	"image/color"
)

// Overlay is the menu shown while no control scheme has the pointer.
type Overlay interface {
	SetMenuVisible(visible bool)
}

// Menu is the default Overlay: a caption box the renderer draws centred on
// screen while Visible.
type Menu struct {
	Visible bool
	Lines   []string

	overlay *image.RGBA
}

var _ Overlay = (*Menu)(nil)

func NewMenu() *Menu {
	return &Menu{
		Visible: true,
		Lines: []string{
			"Click to play",
			"W,A,S,D = move   mouse = look",
			"SPACE = orbit & drag   ENTER = resume",
			"ESC = menu",
		},
	}
}

func (m *Menu) SetMenuVisible(visible bool) {
	m.Visible = visible
}

func (m *Menu) Overlay() *image.RGBA {
	if m.overlay == nil {
		m.overlay = renderText(m.Lines, color.White, color.RGBA{0, 0, 0, 160})
	}
	return m.overlay
}
