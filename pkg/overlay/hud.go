package overlay

import (
	"fmt"
	"image/color"

	"github.com/df07/go-direct-raytracer/pkg/renderer"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// HUDConfig contains the look of the status panel
type HUDConfig struct {
	Padding    int16      // Space between the panel edge and the text
	TextColor  color.RGBA // Text color
	Background color.RGBA // Panel color, blended over the image
}

// DefaultHUDConfig returns white text on a translucent black panel
func DefaultHUDConfig() HUDConfig {
	return HUDConfig{
		Padding:    4,
		TextColor:  color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF},
		Background: color.RGBA{A: 0xA0},
	}
}

// HUD draws lines of status text in the top left corner of a frame
type HUD struct {
	config     HUDConfig
	font       tinyfont.Fonter
	lineHeight int16
	baseline   int16 // Offset from the top of a line to its baseline
}

// NewHUD creates a HUD that draws with the proggy bitmap font
func NewHUD(config HUDConfig) *HUD {
	font := &proggy.TinySZ8pt7b
	lineHeight := int16(font.GetYAdvance())
	return &HUD{
		config:     config,
		font:       font,
		lineHeight: lineHeight,
		baseline:   lineHeight - lineHeight/4,
	}
}

// LineHeight returns the height of one text line in pixels
func (h *HUD) LineHeight() int16 {
	return h.lineHeight
}

// Draw paints the panel and lines onto frame. Lines wider than the frame are
// truncated; lines below the bottom edge are dropped.
func (h *HUD) Draw(frame *Frame, lines []string) {
	if len(lines) == 0 {
		return
	}

	frameWidth, frameHeight := frame.Size()
	pad := h.config.Padding
	maxTextWidth := int(frameWidth - 2*pad)
	if maxTextWidth <= 0 {
		return
	}

	visible := min(len(lines), int((frameHeight-2*pad)/h.lineHeight))
	if visible <= 0 {
		return
	}

	fitted := make([]string, visible)
	panelWidth := 0
	for i := 0; i < visible; i++ {
		fitted[i] = truncateToWidth(h.font, lines[i], maxTextWidth)
		panelWidth = max(panelWidth, textWidth(h.font, fitted[i]))
	}

	panelHeight := int16(visible)*h.lineHeight + 2*pad
	frame.FillRectangle(0, 0, int16(panelWidth)+2*pad, panelHeight, h.config.Background)

	for i, s := range fitted {
		y := pad + int16(i)*h.lineHeight + h.baseline
		tinyfont.WriteLine(frame, h.font, pad, y, s, h.config.TextColor)
	}
}

// StatusLines describes the tracer state for the HUD
func StatusLines(t *renderer.Tracer) []string {
	camera := t.Scene().Camera
	origin := camera.Origin()
	direction := camera.Direction()

	lines := []string{
		fmt.Sprintf("%dx%d %s", t.Width(), t.Height(), t.Status()),
		fmt.Sprintf("pos %.2f %.2f %.2f", origin.X(), origin.Y(), origin.Z()),
		fmt.Sprintf("dir %.2f %.2f %.2f", direction.X(), direction.Y(), direction.Z()),
		t.Scene().Summary(),
	}

	if stats := t.Stats(); stats.Pass != renderer.PassNone {
		lines = append(lines, stats.String())
	}
	return lines
}

// truncateToWidth shortens s until it fits in maxWidth pixels
func truncateToWidth(f tinyfont.Fonter, s string, maxWidth int) string {
	if textWidth(f, s) <= maxWidth {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if textWidth(f, string(r)+"..") <= maxWidth {
			return string(r) + ".."
		}
	}
	return ""
}

func textWidth(f tinyfont.Fonter, s string) int {
	_, w := tinyfont.LineWidth(f, s)
	return int(w)
}
