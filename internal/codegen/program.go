/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package codegen turns a widget list into a runnable Python desktop program for
// CustomTkinter or classic Tkinter.
package codegen

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/assets"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
	applog "github.com/droppybuilder/Buildify2.0-sub000/internal/log"
)

const (
	classIndent = "    "
	bodyIndent  = "        "
)

// Options configure a Generator.
type Options struct {
	Target Target
	// Manifest maps image sources to collected filenames. When nil the generator
	// collects data-URI images itself, which matches what the packager writes.
	Manifest *domain.AssetManifest
	Logger   *slog.Logger
}

// Generator holds no state between calls; the same input always yields the same text.
type Generator struct {
	target   Target
	manifest *domain.AssetManifest
	log      *slog.Logger
}

// New returns a Generator for opts.
func New(opts Options) *Generator {
	t := opts.Target
	if t != TargetTkinter {
		t = TargetCustomTkinter
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("codegen")
	}
	return &Generator{target: t, manifest: opts.Manifest, log: l}
}

// Target reports the toolkit this generator emits for.
func (g *Generator) Target() Target { return g.target }

// GenerateProgram renders widgets for the default CustomTkinter target.
func GenerateProgram(widgets []domain.Widget, ws domain.WindowSettings) string {
	return New(Options{}).Program(widgets, ws)
}

// Program renders the complete source file: imports, the App class with one block
// per visible widget in list order, the image helper and the guarded entry point.
func (g *Generator) Program(widgets []domain.Widget, ws domain.WindowSettings) string {
	ws = ws.Resolved()
	manifest := g.manifest
	if manifest == nil {
		manifest = assets.CollectImages(widgets)
	}

	var b strings.Builder
	g.writeHeader(&b)
	g.writeClassOpen(&b, ws)

	b.WriteString(classIndent + "def create_widgets(self):\n")
	emitted := 0
	for _, w := range widgets {
		if !w.IsVisible() {
			continue
		}
		if emitted > 0 {
			b.WriteByte('\n')
		}
		id := Identifier(w.ID)
		p := Normalize(w, manifest)
		fmt.Fprintf(&b, "%s# %s %s\n", bodyIndent, labelFor(p), pyStr(w.ID))
		b.WriteString(g.Dispatch(w.Type, id, p, bodyIndent))
		emitted++
	}
	if emitted == 0 {
		b.WriteString(bodyIndent + "pass\n")
	}
	b.WriteByte('\n')
	b.WriteString(g.imageHelper())
	b.WriteString(entryPoint)
	return b.String()
}

func labelFor(p Props) string {
	if p.Known {
		return p.Type
	}
	return "widget"
}

func (g *Generator) writeHeader(b *strings.Builder) {
	b.WriteString("#!/usr/bin/env python3\n")
	fmt.Fprintf(b, "# Generated by Buildify (%s target).\n", g.target.DisplayName())
	b.WriteString("# Install dependencies with: pip install -r requirements.txt\n\n")
	b.WriteString("import datetime\nimport os\nimport sys\nimport traceback\n")
	b.WriteString("import tkinter as tk\nfrom tkinter import ttk\n\n")
	if g.target.modern() {
		b.WriteString("import customtkinter as ctk\nfrom PIL import Image, ImageDraw\n")
	} else {
		b.WriteString("from PIL import Image, ImageDraw, ImageTk\n")
	}
	b.WriteString("\n\n")
}

func (g *Generator) writeClassOpen(b *strings.Builder, ws domain.WindowSettings) {
	bg := ws.BgColor
	if isTransparent(bg) {
		bg = domain.DefaultWindowBg
	}
	in := bodyIndent
	if g.target.modern() {
		b.WriteString("class App(ctk.CTk):\n")
	} else {
		b.WriteString("class App(tk.Tk):\n")
	}
	b.WriteString(classIndent + "def __init__(self):\n")
	b.WriteString(in + "super().__init__()\n")
	if g.target.modern() {
		fmt.Fprintf(b, "%sctk.set_appearance_mode(%s)\n", in, pyStr(ws.AppearanceMode))
	}
	fmt.Fprintf(b, "%sself.title(%s)\n", in, pyStr(ws.Title))
	fmt.Fprintf(b, "%sself.geometry(%s)\n", in, pyStr(fmt.Sprintf("%dx%d", ws.Size.Width, ws.Size.Height)))
	if g.target.modern() {
		fmt.Fprintf(b, "%sself.configure(fg_color=%s)\n", in, pyStr(bg))
	} else {
		fmt.Fprintf(b, "%sself.configure(bg=%s)\n", in, pyStr(bg))
	}
	b.WriteString(in + "self.base_dir = os.path.dirname(os.path.abspath(__file__))\n")
	b.WriteString(in + "# loaded images stay referenced here for the lifetime of the window\n")
	b.WriteString(in + "self._image_refs = []\n")
	b.WriteString(in + "self.create_widgets()\n\n")
}

func (g *Generator) imageHelper() string {
	ret := "        return ctk.CTkImage(light_image=image, dark_image=image, size=(width, height))\n"
	if !g.target.modern() {
		ret = "        return ImageTk.PhotoImage(image)\n"
	}
	return imageHelperBody + ret
}

const imageHelperBody = `    def load_image(self, path, size):
        """Load an image scaled to size.

        Falls back to assets/placeholder.png and then to a drawn grey tile, so a
        missing or broken file never stops the window from opening.
        """
        width = max(1, int(size[0]))
        height = max(1, int(size[1]))
        image = None
        for candidate in (path, os.path.join("assets", "placeholder.png")):
            if not candidate:
                continue
            full_path = candidate if os.path.isabs(candidate) else os.path.join(self.base_dir, candidate)
            try:
                with Image.open(full_path) as opened:
                    image = opened.convert("RGBA")
                break
            except Exception as exc:
                print("Could not load image %s: %s" % (full_path, exc), file=sys.stderr)
        if image is None:
            image = Image.new("RGBA", (width, height), "#d9d9d9")
            draw = ImageDraw.Draw(image)
            draw.rectangle([0, 0, width - 1, height - 1], outline="#9e9e9e")
            draw.line([0, 0, width - 1, height - 1], fill="#9e9e9e")
            draw.line([0, height - 1, width - 1, 0], fill="#9e9e9e")
        image = image.resize((width, height))
`

const entryPoint = `

if __name__ == "__main__":
    try:
        app = App()
        app.mainloop()
    except Exception:
        traceback.print_exc()
        sys.exit(1)
`
