/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package codegen

import (
	"fmt"
	"math"
)

func emitButton(e *emitCtx) {
	p := e.p
	cmd := fmt.Sprintf("lambda: print(%s)", pyStr(p.Text+" clicked"))
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkButton").
			str("text", p.Text).
			color("fg_color", p.BgColor).
			color("hover_color", p.HoverColor).
			color("text_color", p.TextColor).
			color("border_color", p.BorderColor).
			num("border_width", p.BorderWidth).
			num("corner_radius", p.CornerRadius).
			raw("font", p.Font.Descriptor()).
			raw("command", cmd))
		return
	}
	e.widget(e.newWidget("tk.Button").
		str("text", p.Text).
		color("bg", e.tkColor(p.BgColor)).
		color("fg", e.tkColor(p.TextColor)).
		color("activebackground", e.tkColor(p.HoverColor)).
		color("activeforeground", e.tkColor(p.TextColor)).
		raw("font", p.Font.Descriptor()).
		num("bd", p.BorderWidth).
		str("relief", relief(p.BorderWidth, "raised")).
		raw("command", cmd))
}

func emitLabel(e *emitCtx) {
	p := e.p
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkLabel").
			str("text", p.Text).
			color("fg_color", p.BgColor).
			color("text_color", p.TextColor).
			num("corner_radius", p.CornerRadius).
			raw("font", p.Font.Descriptor()).
			str("anchor", p.Anchor))
		return
	}
	e.widget(e.newWidget("tk.Label").
		str("text", p.Text).
		color("bg", e.tkColor(p.BgColor)).
		color("fg", e.tkColor(p.TextColor)).
		raw("font", p.Font.Descriptor()).
		str("anchor", p.Anchor))
}

func emitEntry(e *emitCtx) {
	p := e.p
	if e.target.modern() {
		c := e.newWidget("ctk.CTkEntry")
		if p.Placeholder != "" {
			c.str("placeholder_text", p.Placeholder)
		}
		e.widget(c.
			color("fg_color", p.BgColor).
			color("text_color", p.TextColor).
			color("border_color", p.BorderColor).
			num("border_width", p.BorderWidth).
			num("corner_radius", p.CornerRadius).
			raw("font", p.Font.Descriptor()))
	} else {
		e.widget(e.newWidget("tk.Entry").
			color("bg", e.tkColor(p.BgColor)).
			color("fg", e.tkColor(p.TextColor)).
			color("insertbackground", e.tkColor(p.TextColor)).
			raw("font", p.Font.Descriptor()).
			num("bd", 0).
			str("relief", "flat").
			num("highlightthickness", p.BorderWidth).
			color("highlightbackground", e.tkColor(p.BorderColor)).
			color("highlightcolor", e.tkColor(p.AccentColor)))
		if p.Placeholder != "" && p.Text == "" {
			e.linef("# placeholder: %s", pyStr(p.Placeholder))
		}
	}
	if p.Text != "" {
		e.linef("%s.insert(0, %s)", e.ref(), pyStr(p.Text))
	}
}

func emitTextbox(e *emitCtx) {
	p := e.p
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkTextbox").
			color("fg_color", p.BgColor).
			color("text_color", p.TextColor).
			color("border_color", p.BorderColor).
			num("border_width", p.BorderWidth).
			num("corner_radius", p.CornerRadius).
			raw("font", p.Font.Descriptor()).
			str("wrap", "word"))
	} else {
		e.widget(e.newWidget("tk.Text").
			color("bg", e.tkColor(p.BgColor)).
			color("fg", e.tkColor(p.TextColor)).
			color("insertbackground", e.tkColor(p.TextColor)).
			raw("font", p.Font.Descriptor()).
			num("bd", 0).
			str("relief", "flat").
			num("highlightthickness", p.BorderWidth).
			color("highlightbackground", e.tkColor(p.BorderColor)).
			str("wrap", "word"))
	}
	e.linef("%s.insert(\"1.0\", %s)", e.ref(), pyStr(p.Text))
}

func emitSlider(e *emitCtx) {
	p := e.p
	if e.target.modern() {
		c := e.newWidget("ctk.CTkSlider").
			float("from_", p.Min).
			float("to", p.Max)
		if p.Steps > 0 {
			c.num("number_of_steps", p.Steps)
		}
		e.widget(c.
			color("fg_color", p.BgColor).
			color("progress_color", p.AccentColor).
			color("button_color", p.AccentColor).
			color("button_hover_color", p.HoverColor).
			str("orientation", p.Orientation))
	} else {
		resolution := 1.0
		if p.Steps > 0 {
			resolution = (p.Max - p.Min) / float64(p.Steps)
		}
		e.widget(e.newWidget("tk.Scale").
			float("from_", p.Min).
			float("to", p.Max).
			str("orient", p.Orientation).
			float("resolution", resolution).
			color("bg", e.tkColor(p.BgColor)).
			color("fg", e.tkColor(p.TextColor)).
			color("troughcolor", e.tkColor(p.BorderColor)).
			color("activebackground", e.tkColor(p.AccentColor)).
			num("highlightthickness", 0).
			num("showvalue", 0))
	}
	e.linef("%s.set(%s)", e.ref(), pyNum(p.Value))
}

// emitToggleState writes the explicit initial state for check-style widgets.
func emitToggleState(e *emitCtx) {
	if e.p.Checked {
		e.linef("%s.select()", e.ref())
		return
	}
	e.linef("%s.deselect()", e.ref())
}

func emitCheckbox(e *emitCtx) {
	p := e.p
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkCheckBox").
			str("text", p.Text).
			color("fg_color", p.AccentColor).
			color("hover_color", p.HoverColor).
			color("border_color", p.BorderColor).
			num("border_width", max(p.BorderWidth, 1)).
			num("corner_radius", min(p.CornerRadius, 12)).
			color("text_color", p.TextColor).
			raw("font", p.Font.Descriptor()))
	} else {
		e.widget(tkCheck(e))
	}
	emitToggleState(e)
}

func emitSwitch(e *emitCtx) {
	p := e.p
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkSwitch").
			str("text", p.Text).
			color("fg_color", p.BorderColor).
			color("progress_color", p.AccentColor).
			color("button_hover_color", p.HoverColor).
			color("text_color", p.TextColor).
			raw("font", p.Font.Descriptor()))
	} else {
		e.widget(tkCheck(e))
	}
	emitToggleState(e)
}

func tkCheck(e *emitCtx) *call {
	p := e.p
	bg := e.tkColor(p.BgColor)
	return e.newWidget("tk.Checkbutton").
		str("text", p.Text).
		color("bg", bg).
		color("fg", e.tkColor(p.TextColor)).
		color("activebackground", bg).
		color("activeforeground", e.tkColor(p.TextColor)).
		raw("font", p.Font.Descriptor()).
		str("anchor", "w").
		num("highlightthickness", 0)
}

func emitRadio(e *emitCtx) {
	p := e.p
	group := "self.radio_group_" + Sanitize(p.Group)
	e.linef("%s = getattr(self, %s, None) or tk.StringVar(master=self, value=\"\")",
		group, pyStr("radio_group_"+Sanitize(p.Group)))
	value := p.Text
	if value == "" {
		value = e.id
	}
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkRadioButton").
			str("text", p.Text).
			raw("variable", group).
			str("value", value).
			color("fg_color", p.AccentColor).
			color("hover_color", p.HoverColor).
			color("border_color", p.BorderColor).
			color("text_color", p.TextColor).
			raw("font", p.Font.Descriptor()))
		if p.Checked {
			e.linef("%s.select()", e.ref())
		} else {
			// deselect() clears the shared variable, so only touch an unset group
			e.linef("if not %s.get():", group)
			e.nested(1, e.ref()+".deselect()")
		}
		return
	}
	bg := e.tkColor(p.BgColor)
	e.widget(e.newWidget("tk.Radiobutton").
		str("text", p.Text).
		raw("variable", group).
		str("value", value).
		color("bg", bg).
		color("fg", e.tkColor(p.TextColor)).
		color("activebackground", bg).
		raw("font", p.Font.Descriptor()).
		str("anchor", "w").
		num("highlightthickness", 0))
	emitToggleState(e)
}

func emitProgress(e *emitCtx) {
	p := e.p
	if e.target.modern() {
		frac := (p.Value - p.Min) / (p.Max - p.Min)
		frac = math.Round(math.Min(math.Max(frac, 0), 1)*1000) / 1000
		e.widget(e.newWidget("ctk.CTkProgressBar").
			color("fg_color", p.BgColor).
			color("progress_color", p.AccentColor).
			color("border_color", p.BorderColor).
			num("border_width", p.BorderWidth).
			num("corner_radius", p.CornerRadius).
			str("orientation", p.Orientation).
			str("mode", "determinate"))
		e.linef("%s.set(%s)", e.ref(), pyNum(frac))
		return
	}
	e.widget(e.newWidget("ttk.Progressbar").
		str("orient", p.Orientation).
		str("mode", "determinate").
		float("maximum", p.Max-p.Min).
		float("value", p.Value-p.Min))
}

func emitDropdown(e *emitCtx) {
	p := e.p
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkOptionMenu").
			raw("values", pyList(p.Options)).
			color("fg_color", p.BgColor).
			color("button_color", p.AccentColor).
			color("button_hover_color", p.HoverColor).
			color("text_color", p.TextColor).
			color("dropdown_fg_color", p.BgColor).
			color("dropdown_text_color", p.TextColor).
			num("corner_radius", p.CornerRadius).
			raw("font", p.Font.Descriptor()))
	} else {
		e.widget(e.newWidget("ttk.Combobox").
			raw("values", pyList(p.Options)).
			str("state", "readonly").
			raw("font", p.Font.Descriptor()))
	}
	e.linef("%s.set(%s)", e.ref(), pyStr(p.Selected))
}

func emitCombobox(e *emitCtx) {
	p := e.p
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkComboBox").
			raw("values", pyList(p.Options)).
			color("fg_color", p.BgColor).
			color("border_color", p.BorderColor).
			num("border_width", p.BorderWidth).
			color("button_color", p.AccentColor).
			color("button_hover_color", p.HoverColor).
			color("text_color", p.TextColor).
			color("dropdown_fg_color", p.BgColor).
			color("dropdown_text_color", p.TextColor).
			num("corner_radius", p.CornerRadius).
			raw("font", p.Font.Descriptor()))
	} else {
		e.widget(e.newWidget("ttk.Combobox").
			raw("values", pyList(p.Options)).
			raw("font", p.Font.Descriptor()))
	}
	e.linef("%s.set(%s)", e.ref(), pyStr(p.Selected))
}

func emitFrame(e *emitCtx) {
	p := e.p
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkFrame").
			color("fg_color", p.BgColor).
			num("corner_radius", p.CornerRadius).
			num("border_width", p.BorderWidth).
			color("border_color", p.BorderColor))
		return
	}
	e.widget(e.newWidget("tk.Frame").
		color("bg", e.tkColor(p.BgColor)).
		num("bd", 0).
		num("highlightthickness", p.BorderWidth).
		color("highlightbackground", e.tkColor(p.BorderColor)))
}
