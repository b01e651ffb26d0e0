package lunarlander

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ByteArena/box2d"
	"github.com/fogleman/gg"
)

// Render draws the current state as a PNG frame in the render
// directory
func (l *Discrete) Render() error {
	if l.renderDir == "" {
		return fmt.Errorf("render: no render directory set")
	}
	if err := os.MkdirAll(l.renderDir, 0o755); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	dc := gg.NewContext(int(ViewportW), int(ViewportH))
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	// Box2D y points up
	toPixel := func(x, y float64) (float64, float64) {
		return x * Scale, ViewportH - y*Scale
	}

	dc.SetRGB(1, 1, 1)
	dc.MoveTo(toPixel(0, 0))
	for _, p := range l.terrain {
		dc.LineTo(toPixel(p[0], p[1]))
	}
	dc.LineTo(toPixel(ViewportW/Scale, 0))
	dc.ClosePath()
	dc.Fill()

	dc.SetRGB(0.8, 0.8, 0)
	dc.SetLineWidth(2)
	padL, padY := toPixel(ViewportW/Scale/2-2, l.helipadY)
	padR, _ := toPixel(ViewportW/Scale/2+2, l.helipadY)
	dc.DrawLine(padL, padY, padR, padY)
	dc.Stroke()

	bodies := append([]*box2d.B2Body{l.lander}, l.legs...)
	for i, body := range bodies {
		if i == 0 {
			dc.SetRGB(0.5, 0.4, 0.9)
		} else {
			dc.SetRGB(0.3, 0.3, 0.5)
		}
		for f := body.GetFixtureList(); f != nil; f = f.M_next {
			poly, ok := f.M_shape.(*box2d.B2PolygonShape)
			if !ok {
				continue
			}
			for j := 0; j < poly.M_count; j++ {
				v := box2d.B2TransformVec2Mul(body.M_xf,
					poly.M_vertices[j])
				dc.LineTo(toPixel(v.X, v.Y))
			}
			dc.ClosePath()
			dc.Fill()
		}
	}

	name := filepath.Join(l.renderDir, fmt.Sprintf("frame-%06d.png", l.frame))
	if err := dc.SavePNG(name); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	l.frame++
	return nil
}
