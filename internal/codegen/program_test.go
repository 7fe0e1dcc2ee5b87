/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package codegen

import (
	"encoding/base64"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droppybuilder/Buildify2.0-sub000/internal/assets"
	"github.com/droppybuilder/Buildify2.0-sub000/internal/domain"
)

func domainWidget(typ, id string) domain.Widget {
	return domain.Widget{ID: id, Type: typ}
}

var constructionStmt = regexp.MustCompile(`(?m)^\s+self\.\w+ = (ctk|tk|ttk)\.`)

func TestEmptyProject(t *testing.T) {
	ws := domain.WindowSettings{Title: "App", Size: domain.WindowSize{Width: 800, Height: 600}, BgColor: "#1A1A1A"}
	src := GenerateProgram(nil, ws)

	assert.Contains(t, src, `self.title("App")`)
	assert.Contains(t, src, `self.geometry("800x600")`)
	assert.Contains(t, src, `self.configure(fg_color="#1A1A1A")`)
	assert.Contains(t, src, `ctk.set_appearance_mode("system")`)
	assert.Contains(t, src, "    def create_widgets(self):\n        pass\n")
	assert.False(t, constructionStmt.MatchString(src), src)
	assert.Contains(t, src, "    def load_image(self, path, size):")
	assert.Contains(t, src, "if __name__ == \"__main__\":\n    try:\n        app = App()\n        app.mainloop()\n    except Exception:\n        traceback.print_exc()\n")
}

func TestOneButton(t *testing.T) {
	w := domain.Widget{
		ID:       "btn-1!",
		Type:     "button",
		Position: domain.Point{X: domain.N(10), Y: domain.N(20)},
		Size:     domain.Size{Width: domain.N(100), Height: domain.N(30)},
		Props:    map[string]any{"text": "Go"},
	}
	src := GenerateProgram([]domain.Widget{w}, domain.WindowSettings{})

	assert.Contains(t, src, "self.btn_1_ = ctk.CTkButton(")
	assert.Contains(t, src, `text="Go"`)
	assert.Contains(t, src, "self.btn_1_.place(x=10, y=20)")
	assert.Contains(t, src, `# button "btn-1!"`)
	assert.Contains(t, src, `self.title("My App")`)
	assert.Contains(t, src, `self.geometry("800x600")`)
}

func TestTkinterTarget(t *testing.T) {
	w := domain.Widget{ID: "pic", Type: "image"}
	src := New(Options{Target: TargetTkinter}).Program([]domain.Widget{w}, domain.WindowSettings{BgColor: "transparent", AppearanceMode: "dark"})

	assert.Contains(t, src, "class App(tk.Tk):")
	assert.Contains(t, src, "from PIL import Image, ImageDraw, ImageTk")
	assert.NotContains(t, src, "customtkinter")
	assert.NotContains(t, src, "set_appearance_mode")
	assert.Contains(t, src, `self.configure(bg="#ffffff")`)
	assert.Contains(t, src, "return ImageTk.PhotoImage(image)")
	assert.Contains(t, src, "self._image_refs.append(self.pic_image)")
}

func TestWidgetIdsCannotReplaceKeepAliveList(t *testing.T) {
	ws := []domain.Widget{
		{ID: "_image_refs", Type: "label", Props: map[string]any{"text": "x"}},
		{ID: "pic", Type: "image"},
	}
	src := GenerateProgram(ws, domain.WindowSettings{})

	assert.NotContains(t, src, "self._image_refs = ctk.")
	assert.Contains(t, src, "self.w__image_refs = ctk.CTkLabel(")
	assert.Equal(t, 1, strings.Count(src, "self._image_refs = "), "only the list itself is assigned")
	assert.Contains(t, src, "self._image_refs.append(self.pic_image)")
}

func TestDuplicateImageSourceSharesFile(t *testing.T) {
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not really a png"))
	ws := []domain.Widget{
		{ID: "a", Type: "image", Props: map[string]any{"src": src}},
		{ID: "b", Type: "image", Props: map[string]any{"src": src}},
	}
	m := assets.CollectImages(ws)
	require.Equal(t, 1, m.Len())
	name, _ := m.Lookup(src)

	code := GenerateProgram(ws, domain.WindowSettings{})
	ref := `self.load_image("assets/` + name + `", `
	assert.Equal(t, 2, strings.Count(code, ref), code)
	assert.NotContains(t, code, "base64", "payloads never end up in source")
}

func TestInvalidImageStillReferencesCollectedFile(t *testing.T) {
	src := "data:image/png;base64,!!!not-valid!!!"
	w := domain.Widget{ID: "bad", Type: "image", Props: map[string]any{"src": src}}
	name, ok := assets.CollectImages([]domain.Widget{w}).Lookup(src)
	require.True(t, ok)
	assert.Contains(t, GenerateProgram([]domain.Widget{w}, domain.WindowSettings{}), `"assets/`+name+`"`)
}

func TestInvisibleWidgetsAreSkippedAndOrderIsKept(t *testing.T) {
	hidden := false
	ws := []domain.Widget{
		{ID: "third", Type: "label"},
		{ID: "gone", Type: "label", Visible: &hidden},
		{ID: "first", Type: "button"},
		{ID: "second", Type: "entry"},
	}
	src := GenerateProgram(ws, domain.WindowSettings{})
	assert.NotContains(t, src, "self.gone")
	a := strings.Index(src, "self.third = ")
	b := strings.Index(src, "self.first = ")
	c := strings.Index(src, "self.second = ")
	assert.True(t, a > 0 && b > a && c > b)
}

func TestUnknownTypeNamedInProgram(t *testing.T) {
	src := GenerateProgram([]domain.Widget{{ID: "m", Type: "MysteryGadget"}}, domain.WindowSettings{})
	assert.Contains(t, src, `"MysteryGadget"`)
	assert.Contains(t, src, "# Unsupported widget type:")
}

func TestCollidingIdsArePreserved(t *testing.T) {
	ws := []domain.Widget{{ID: "a-b", Type: "label"}, {ID: "a_b", Type: "label"}}
	src := GenerateProgram(ws, domain.WindowSettings{})
	assert.Equal(t, 2, strings.Count(src, "self.a_b = ctk.CTkLabel("))
}

type widgetSeed struct {
	Type   string
	ID     string
	Text   string
	Width  string
	Row    int
	Grid   bool
	Hidden bool
}

var seedTypes = append(append([]string{}, allTypes...), "", "TEXTFIELD", "Notebook", "??", "img")

func seedWidgets(seeds []widgetSeed) []domain.Widget {
	out := make([]domain.Widget, 0, len(seeds))
	for _, s := range seeds {
		props := map[string]any{"text": s.Text, "width": s.Width, "options": s.Text}
		if s.Grid {
			props["row"] = s.Row
			props["column"] = s.Row % 3
		}
		if s.Row%4 == 0 {
			props = map[string]any{}
		}
		vis := !s.Hidden
		out = append(out, domain.Widget{ID: s.ID, Type: s.Type, Props: props, Visible: &vis})
	}
	return out
}

func TestGenerationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150
	properties := gopter.NewProperties(parameters)

	seedGen := gen.Struct(reflect.TypeOf(widgetSeed{}), map[string]gopter.Gen{
		"Type":   gen.OneConstOf(stringsToAny(seedTypes)...),
		"ID":     gen.AnyString(),
		"Text":   gen.AnyString(),
		"Width":  gen.OneConstOf("", "12", "abc", "-5", "1e3"),
		"Row":    gen.IntRange(0, 12),
		"Grid":   gen.Bool(),
		"Hidden": gen.Bool(),
	})

	properties.Property("generation is total and pure", prop.ForAll(
		func(seeds []widgetSeed, tk bool) bool {
			target := TargetCustomTkinter
			if tk {
				target = TargetTkinter
			}
			ws := seedWidgets(seeds)
			g := New(Options{Target: target})
			first := g.Program(ws, domain.WindowSettings{Title: "T"})
			second := New(Options{Target: target}).Program(ws, domain.WindowSettings{Title: "T"})
			return first != "" && first == second && !strings.Contains(first, "could not be generated")
		},
		gen.SliceOf(seedGen),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func TestProgramUsesOnlySupportedArguments(t *testing.T) {
	var ws []domain.Widget
	for _, typ := range allTypes {
		ws = append(ws, domain.Widget{ID: typ, Type: typ})
	}
	for _, target := range []Target{TargetCustomTkinter, TargetTkinter} {
		assertSupportedKwargs(t, New(Options{Target: target}).Program(ws, domain.WindowSettings{}))
	}
}
