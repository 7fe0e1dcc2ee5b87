/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const placeholderSize = 128

var (
	placeholderOnce sync.Once
	placeholderData []byte
)

// PlaceholderPNG returns the bundled fallback image. The bytes are identical on
// every call; callers receive their own copy.
func PlaceholderPNG() []byte {
	placeholderOnce.Do(func() { placeholderData = renderPlaceholder() })
	return append([]byte(nil), placeholderData...)
}

func renderPlaceholder() []byte {
	fill := color.RGBA{R: 0xd9, G: 0xd9, B: 0xd9, A: 0xff}
	ink := color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)
	last := placeholderSize - 1
	for i := 0; i < placeholderSize; i++ {
		img.SetRGBA(i, 0, ink)
		img.SetRGBA(i, last, ink)
		img.SetRGBA(0, i, ink)
		img.SetRGBA(last, i, ink)
		img.SetRGBA(i, i, ink)
		img.SetRGBA(i, last-i, ink)
	}
	// caption band
	band := image.Rect(8, placeholderSize/2-10, placeholderSize-8, placeholderSize/2+8)
	draw.Draw(img, band, &image.Uniform{C: fill}, image.Point{}, draw.Src)
	caption := "no image"
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.RGBA{R: 0x61, G: 0x61, B: 0x61, A: 0xff}), Face: face}
	w := d.MeasureString(caption).Round()
	d.Dot = fixed.P((placeholderSize-w)/2, placeholderSize/2+4)
	d.DrawString(caption)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
