/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/codegen"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
)

// SheetOptions controls the layout sheet.
// Units are points; one design pixel maps to one point before scaling to the page.
type SheetOptions struct {
	Title         string
	IncludeLabels bool
	Margin        float64
}

// Page size of the sheet (A4 landscape, points).
const (
	sheetW = 842.0
	sheetH = 595.0
)

// WriteLayoutSheet renders a PDF with a wireframe of the window (one labelled box
// per visible widget) followed by an inventory page.
func WriteLayoutSheet(outPath string, widgets []domain.Widget, ws domain.WindowSettings, opt SheetOptions) error {
	ws = ws.Resolved()
	if opt.Margin <= 0 {
		opt.Margin = 36
	}
	title := opt.Title
	if title == "" {
		title = ws.Title
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: sheetW, Ht: sheetH},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title+" layout", true)
	pdf.SetAuthor("Buildify", false)
	pdf.SetAutoPageBreak(false, 0)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(opt.Margin, opt.Margin-12, tr(fmt.Sprintf("%s (%dx%d)", title, ws.Size.Width, ws.Size.Height)))

	// Fit the window into the printable area.
	availW := sheetW - 2*opt.Margin
	availH := sheetH - 2*opt.Margin
	scale := availW / float64(ws.Size.Width)
	if s := availH / float64(ws.Size.Height); s < scale {
		scale = s
	}
	ox, oy := opt.Margin, opt.Margin

	bg := rgb(ws.BgColor, [3]int{255, 255, 255})
	pdf.SetFillColor(bg[0], bg[1], bg[2])
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1)
	pdf.Rect(ox, oy, float64(ws.Size.Width)*scale, float64(ws.Size.Height)*scale, "FD")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetLineWidth(0.5)
	for _, w := range widgets {
		if !w.IsVisible() {
			continue
		}
		p := codegen.Normalize(w, nil)
		x := ox + float64(p.X)*scale
		y := oy + float64(p.Y)*scale
		fill := rgb(p.BgColor, [3]int{240, 240, 240})
		pdf.SetFillColor(fill[0], fill[1], fill[2])
		pdf.SetDrawColor(31, 106, 165)
		pdf.Rect(x, y, float64(p.Width)*scale, float64(p.Height)*scale, "FD")
		if opt.IncludeLabels {
			pdf.SetTextColor(0, 0, 0)
			pdf.Text(x+2, y+8, tr(labelText(w, p)))
		}
	}

	writeInventoryPage(pdf, tr, widgets, opt.Margin)

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func labelText(w domain.Widget, p codegen.Props) string {
	s := w.ID + " (" + p.Type + ")"
	if len(s) > 40 {
		s = s[:39] + "~"
	}
	return s
}

func writeInventoryPage(pdf *gofpdf.Fpdf, tr func(string) string, widgets []domain.Widget, margin float64) {
	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(margin, margin, "Widgets")

	cols := []struct {
		head  string
		width float64
	}{{"#", 30}, {"Id", 200}, {"Type", 120}, {"Position", 110}, {"Size", 110}, {"Visible", 60}}

	y := margin + 12
	pdf.SetFont("Helvetica", "B", 9)
	x := margin
	for _, c := range cols {
		pdf.SetXY(x, y)
		pdf.CellFormat(c.width, 16, c.head, "1", 0, "L", false, 0, "")
		x += c.width
	}
	y += 16

	pdf.SetFont("Helvetica", "", 9)
	for i, w := range widgets {
		if y > sheetH-margin-16 {
			pdf.AddPage()
			y = margin
		}
		p := codegen.Normalize(w, nil)
		vals := []string{
			strconv.Itoa(i + 1),
			w.ID,
			p.Type,
			fmt.Sprintf("%d, %d", p.X, p.Y),
			fmt.Sprintf("%d x %d", p.Width, p.Height),
			strconv.FormatBool(w.IsVisible()),
		}
		x = margin
		for j, c := range cols {
			pdf.SetXY(x, y)
			pdf.CellFormat(c.width, 14, tr(vals[j]), "1", 0, "L", false, 0, "")
			x += c.width
		}
		y += 14
	}
}

// rgb parses #rrggbb, returning def for anything else.
func rgb(hex string, def [3]int) [3]int {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return def
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return def
	}
	return [3]int{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}
