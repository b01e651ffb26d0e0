package cartpole

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

const (
	frameWidth  = 600
	frameHeight = 400
	trackY      = 300.0
	cartWidth   = 50.0
	cartHeight  = 30.0
)

// Render draws the current state as a PNG frame in the render
// directory. Frames are numbered consecutively.
func (c *base) Render() error {
	if c.renderDir == "" {
		return fmt.Errorf("render: no render directory set")
	}
	if err := os.MkdirAll(c.renderDir, 0o755); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	scale := frameWidth / (2 * PositionBounds)
	state := c.lastStep.Observation
	cartX := frameWidth/2 + state.AtVec(0)*scale
	th := state.AtVec(2)
	poleLength := 2 * HalfPoleLength * scale

	dc := gg.NewContext(frameWidth, frameHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawLine(0, trackY, frameWidth, trackY)
	dc.Stroke()

	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawRectangle(cartX-cartWidth/2, trackY-cartHeight/2, cartWidth,
		cartHeight)
	dc.Fill()

	tipX := cartX + poleLength*math.Sin(th)
	tipY := trackY - poleLength*math.Cos(th)
	dc.SetRGB(0.8, 0.6, 0.4)
	dc.SetLineWidth(6)
	dc.DrawLine(cartX, trackY, tipX, tipY)
	dc.Stroke()

	dc.SetRGB(0.5, 0.5, 0.8)
	dc.DrawCircle(cartX, trackY, 4)
	dc.Fill()

	name := filepath.Join(c.renderDir, fmt.Sprintf("frame-%06d.png", c.frame))
	if err := dc.SavePNG(name); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	c.frame++
	return nil
}
