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
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/codegen"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
)

// Requirements renders requirements.txt for target.
func Requirements(target codegen.Target, ctkVersion, pillowVersion string) string {
	var b strings.Builder
	if target != codegen.TargetTkinter {
		fmt.Fprintf(&b, "customtkinter==%s\n", ctkVersion)
	}
	fmt.Fprintf(&b, "Pillow>=%s\n", pillowVersion)
	return b.String()
}

type readmeData struct {
	Title     string
	Toolkit   string
	Modern    bool
	Size      string
	Widgets   string
	Assets    []domain.AssetEntry
	HasAssets bool
}

var readmeTmpl = template.Must(template.New("readme").Parse(`# {{.Title}}

Desktop application generated by Buildify for {{.Toolkit}}.

## Running the app

1. Install Python 3.8 or newer (Tkinter is included with the official installers).
2. Install the dependencies:

       pip install -r requirements.txt

3. Start the app from this folder:

       python app.py

The window opens at {{.Size}} pixels.

## Project layout

- ` + "`app.py`" + ` contains the ` + "`App`" + ` class. Widgets are created in ` + "`create_widgets`" + `.
- ` + "`assets/`" + ` holds images. ` + "`assets/placeholder.png`" + ` is shown whenever an image cannot be loaded.
- ` + "`TROUBLESHOOTING.md`" + ` lists fixes for common problems.

## Widgets

{{.Widgets}}
{{- if .HasAssets}}
## Images

{{range .Assets}}- ` + "`assets/{{.Filename}}`" + ` (first used by ` + "`{{.WidgetID}}`" + `)
{{end}}{{end}}
## Editing

Each widget is an attribute on ` + "`self`" + `, named after its id in the designer.
Event handlers print to the console; replace the ` + "`command=`" + ` lambdas with your own methods.
{{- if .Modern}}
Switch between light and dark mode with ` + "`ctk.set_appearance_mode(\"light\")`" + ` or ` + "`\"dark\"`" + `.
{{- end}}
`))

// Readme renders README.md, templated with the window title.
func Readme(target codegen.Target, ws domain.WindowSettings, widgets []domain.Widget, manifest *domain.AssetManifest) (string, error) {
	ws = ws.Resolved()
	entries := manifest.Entries()
	data := readmeData{
		Title:     strings.TrimSpace(strings.ReplaceAll(ws.Title, "\n", " ")),
		Toolkit:   target.DisplayName(),
		Modern:    target != codegen.TargetTkinter,
		Size:      fmt.Sprintf("%dx%d", ws.Size.Width, ws.Size.Height),
		Widgets:   inventory(widgets),
		Assets:    entries,
		HasAssets: len(entries) > 0,
	}
	var buf bytes.Buffer
	if err := readmeTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render readme: %w", err)
	}
	return buf.String(), nil
}

// inventory renders the visible widgets as a Markdown table whose columns line up
// in a terminal, wide characters included.
func inventory(widgets []domain.Widget) string {
	header := []string{"Attribute", "Type", "Position", "Size"}
	rows := [][]string{}
	for _, w := range widgets {
		if !w.IsVisible() {
			continue
		}
		p := codegen.Normalize(w, nil)
		typ := p.Type
		if !p.Known {
			typ += " (unsupported)"
		}
		where := fmt.Sprintf("%d, %d", p.X, p.Y)
		if p.Layout.Grid {
			where = fmt.Sprintf("row %d, col %d", p.Layout.Row, p.Layout.Column)
		}
		rows = append(rows, []string{
			"self." + codegen.Identifier(w.ID),
			cell(typ),
			where,
			fmt.Sprintf("%dx%d", p.Width, p.Height),
		})
	}
	if len(rows) == 0 {
		return "The design has no visible widgets yet.\n"
	}
	widths := make([]int, len(header))
	for _, r := range append([][]string{header}, rows...) {
		for i, c := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	var b strings.Builder
	writeRow := func(r []string) {
		b.WriteString("|")
		for i, c := range r {
			b.WriteString(" " + runewidth.FillRight(c, widths[i]) + " |")
		}
		b.WriteString("\n")
	}
	writeRow(header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = strings.Repeat("-", widths[i])
	}
	writeRow(sep)
	for _, r := range rows {
		writeRow(r)
	}
	return b.String()
}

func cell(s string) string {
	s = strings.NewReplacer("|", "\\|", "\n", " ", "\r", " ").Replace(s)
	return runewidth.Truncate(s, 40, "…")
}

// Troubleshooting is the fixed TROUBLESHOOTING.md shipped with every export.
const Troubleshooting = `# Troubleshooting

## ModuleNotFoundError: No module named 'customtkinter' or 'PIL'

Install the dependencies into the Python you use to run the app:

    python -m pip install -r requirements.txt

## ModuleNotFoundError: No module named 'tkinter'

Tkinter ships with the python.org installers. On Linux install it from the
package manager, for example ` + "`sudo apt install python3-tk`" + `.

## Images show a grey box with a cross

The file in ` + "`assets/`" + ` is missing or could not be decoded, so the bundled
placeholder is displayed instead. Replace the file and keep the same name, or
update the path passed to ` + "`self.load_image`" + ` in ` + "`app.py`" + `.

## Images are blank

Every loaded image is appended to ` + "`self._image_refs`" + `. Keep that line when you
edit the code; Tk discards images that are no longer referenced from Python.

## The window looks different from the designer

Fonts and DPI scaling differ between systems. Adjust sizes in ` + "`create_widgets`" + `
or call ` + "`ctk.set_widget_scaling(...)`" + ` for CustomTkinter.

## The app exits with a traceback

Run ` + "`python app.py`" + ` from a terminal to read the full error message. The entry
point prints the traceback before exiting.
`
