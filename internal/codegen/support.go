/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package codegen

import (
	"strconv"
	"strings"
)

// Target selects the desktop toolkit the generated program uses.
type Target string

const (
	TargetCustomTkinter Target = "customtkinter"
	TargetTkinter       Target = "tkinter"
)

// ParseTarget maps user input to a Target. Anything unrecognised selects CustomTkinter.
func ParseTarget(s string) Target {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tkinter", "tk", "classic":
		return TargetTkinter
	}
	return TargetCustomTkinter
}

func (t Target) modern() bool { return t != TargetTkinter }

// DisplayName is the human-facing toolkit name.
func (t Target) DisplayName() string {
	if t.modern() {
		return "CustomTkinter"
	}
	return "Tkinter"
}

// constructorSupport lists the keyword arguments each target class accepts.
// Arguments missing from a class's list are dropped when the call is rendered.
var constructorSupport = buildSupport(map[string]string{
	// CustomTkinter
	"ctk.CTkButton":          "width height corner_radius border_width border_spacing fg_color hover_color border_color text_color text font image state hover command compound anchor",
	"ctk.CTkLabel":           "width height corner_radius bg_color fg_color text_color text font image compound anchor wraplength justify padx pady",
	"ctk.CTkEntry":           "width height corner_radius border_width fg_color border_color text_color placeholder_text_color placeholder_text font state textvariable justify",
	"ctk.CTkTextbox":         "width height corner_radius border_width border_spacing fg_color border_color text_color scrollbar_button_color scrollbar_button_hover_color font activate_scrollbars wrap state",
	"ctk.CTkSlider":          "width height border_width from_ to number_of_steps fg_color progress_color border_color button_color button_hover_color orientation state hover command variable",
	"ctk.CTkCheckBox":        "width height checkbox_width checkbox_height corner_radius border_width fg_color hover_color border_color checkmark_color text_color text font textvariable state hover command onvalue offvalue variable",
	"ctk.CTkSwitch":          "width height switch_width switch_height corner_radius border_width button_length fg_color border_color progress_color button_color button_hover_color text_color text font textvariable onvalue offvalue variable hover command state",
	"ctk.CTkRadioButton":     "width height radiobutton_width radiobutton_height corner_radius border_width_unchecked border_width_checked fg_color hover_color border_color text_color text font textvariable variable value state hover command",
	"ctk.CTkFrame":           "width height corner_radius border_width bg_color fg_color border_color",
	"ctk.CTkScrollableFrame": "width height corner_radius border_width bg_color fg_color border_color scrollbar_fg_color scrollbar_button_color scrollbar_button_hover_color label_fg_color label_text_color label_text label_font label_anchor orientation",
	"ctk.CTkProgressBar":     "width height corner_radius border_width fg_color border_color progress_color orientation mode determinate_speed indeterminate_speed variable",
	"ctk.CTkOptionMenu":      "width height corner_radius fg_color button_color button_hover_color text_color dropdown_fg_color dropdown_hover_color dropdown_text_color font dropdown_font values variable state hover command dynamic_resizing anchor",
	"ctk.CTkComboBox":        "width height corner_radius border_width fg_color border_color button_color button_hover_color dropdown_fg_color dropdown_hover_color dropdown_text_color text_color font dropdown_font values state hover variable command justify",
	// classic Tk
	"tk.Button":       "text bg fg activebackground activeforeground font command bd relief highlightthickness highlightbackground anchor image compound padx pady cursor",
	"tk.Label":        "text bg fg font anchor justify bd relief highlightthickness highlightbackground image wraplength padx pady",
	"tk.Entry":        "bg fg font bd relief highlightthickness highlightbackground highlightcolor insertbackground justify textvariable state",
	"tk.Text":         "bg fg font bd relief highlightthickness highlightbackground insertbackground wrap padx pady",
	"tk.Scale":        "from_ to orient resolution bg fg troughcolor activebackground highlightthickness showvalue sliderlength font command variable",
	"tk.Checkbutton":  "text bg fg font activebackground activeforeground selectcolor anchor variable onvalue offvalue command highlightthickness",
	"tk.Radiobutton":  "text bg fg font activebackground activeforeground selectcolor anchor variable value command highlightthickness",
	"tk.Frame":        "bg width height bd relief highlightthickness highlightbackground",
	"tk.Listbox":      "bg fg font bd relief highlightthickness highlightbackground selectbackground selectforeground activestyle selectmode exportselection",
	"tk.Canvas":       "width height bg bd highlightthickness highlightbackground relief",
	"ttk.Progressbar": "orient mode maximum value variable",
	"ttk.Combobox":    "values state font justify textvariable",
	"ttk.Notebook":    "width height padding",
})

func buildSupport(in map[string]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(in))
	for class, list := range in {
		set := map[string]bool{}
		for _, kw := range strings.Fields(list) {
			set[kw] = true
		}
		out[class] = set
	}
	return out
}

// Supports reports whether class accepts the keyword argument kw.
func Supports(class, kw string) bool {
	return constructorSupport[class][kw]
}

// transparentSupport lists the CustomTkinter colour arguments that accept "transparent".
// bg_color accepts it on every class.
var transparentSupport = buildSupport(map[string]string{
	"ctk.CTkButton":          "fg_color border_color",
	"ctk.CTkLabel":           "fg_color",
	"ctk.CTkEntry":           "fg_color",
	"ctk.CTkTextbox":         "fg_color",
	"ctk.CTkFrame":           "fg_color border_color",
	"ctk.CTkScrollableFrame": "fg_color",
	"ctk.CTkSwitch":          "fg_color",
})

type kwarg struct {
	name string
	expr string
}

// call accumulates a widget constructor invocation.
type call struct {
	class  string
	master string
	args   []kwarg
}

func newCall(class, master string) *call {
	return &call{class: class, master: master}
}

func (c *call) raw(name, expr string) *call {
	c.args = append(c.args, kwarg{name: name, expr: expr})
	return c
}

func (c *call) str(name, s string) *call { return c.raw(name, pyStr(s)) }

func (c *call) num(name string, n int) *call { return c.raw(name, strconv.Itoa(n)) }

func (c *call) float(name string, f float64) *call { return c.raw(name, pyNum(f)) }

// color adds a colour argument. Empty values are skipped; "transparent" is kept
// only where the class accepts it.
func (c *call) color(name, col string) *call {
	col = strings.TrimSpace(col)
	if col == "" {
		return c
	}
	if isTransparent(col) {
		if !strings.HasPrefix(c.class, "ctk.") || !(name == "bg_color" || transparentSupport[c.class][name]) {
			return c
		}
		col = "transparent"
	}
	return c.str(name, col)
}

// sized reports whether the class takes pixel width/height in its constructor.
// Classic Tk widgets other than Frame and Canvas measure width in characters,
// so their size goes to the placement call instead.
func (c *call) sized() bool {
	return strings.HasPrefix(c.class, "ctk.") || c.class == "tk.Frame" || c.class == "tk.Canvas"
}

func (c *call) String() string {
	allowed := constructorSupport[c.class]
	parts := make([]string, 0, len(c.args)+1)
	parts = append(parts, c.master)
	seen := map[string]bool{}
	for _, a := range c.args {
		if !allowed[a.name] || seen[a.name] {
			continue
		}
		seen[a.name] = true
		parts = append(parts, a.name+"="+a.expr)
	}
	return c.class + "(" + strings.Join(parts, ", ") + ")"
}
