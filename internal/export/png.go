/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"carouselstudio/internal/domain"
	"carouselstudio/internal/textlayout"
)

// RenderSlidePNG rasterizes a single slide as it sits on the editing
// canvas: background color, shape fills and wrapped text. It is a
// preview, not the typeset export; element rotation is ignored and text
// renders in the fixed basicfont face. pxWidth <= 0 falls back to 512.
func RenderSlidePNG(slide domain.Slide, format PageFormat, pxWidth int) ([]byte, error) {
	if pxWidth <= 0 {
		pxWidth = 512
	}
	pageW, pageH := format.Size()
	scale := float64(pxWidth) / pageW
	pixW := pxWidth
	pixH := int(math.Round(pageH * scale))

	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	bg := rgbaFromHex(slide.BackgroundColor, color.RGBA{255, 255, 255, 255})
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	face, met := textlayout.BasicProvider{}.Resolve(textlayout.FontSpec{})
	meas := textlayout.FaceMeasurer{Face: face}
	lineH := met.Ascent + met.Descent + met.LineGap

	for _, el := range slide.Elements {
		x0 := int(math.Round(el.X * scale))
		y0 := int(math.Round(el.Y * scale))
		x1 := int(math.Round((el.X + el.Width) * scale))
		y1 := int(math.Round((el.Y + el.Height) * scale))
		switch el.Type {
		case domain.ElementShape:
			fill := rgbaFromHex(el.Fill, color.RGBA{200, 200, 200, 255})
			fillRect(img, x0, y0, x1-1, y1-1, fill)
			if el.Stroke != "" {
				strokeRect(img, x0, y0, x1-1, y1-1, rgbaFromHex(el.Stroke, color.RGBA{0, 0, 0, 255}))
			}
		case domain.ElementImage:
			// Placeholder frame until real image loading is wired.
			fillRect(img, x0, y0, x1-1, y1-1, color.RGBA{235, 235, 235, 255})
			strokeRect(img, x0, y0, x1-1, y1-1, color.RGBA{160, 160, 160, 255})
		case domain.ElementText:
			col := rgbaFromHex(el.Fill, color.RGBA{17, 17, 17, 255})
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(col),
				Face: face,
			}
			y := float64(y0) + met.Ascent
			for _, ln := range textlayout.Wrap(el.Text, float64(x1-x0), meas) {
				d.Dot = fixed.P(x0, int(math.Round(y)))
				d.DrawString(ln)
				y += lineH
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func rgbaFromHex(hex string, fallback color.RGBA) color.RGBA {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
