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
	"strings"
)

// emitImage loads the picture through the shared helper, shows it on a label and
// appends the handle to the keep-alive list. Without that reference Tk drops the
// image and the label renders blank.
func emitImage(e *emitCtx) {
	p := e.p
	handle := e.sub("image")
	e.linef("%s = self.load_image(%s, (%d, %d))", handle, pyStr(p.ImagePath), p.Width, p.Height)
	var c *call
	if e.target.modern() {
		c = e.newWidget("ctk.CTkLabel").
			raw("image", handle).
			str("text", "").
			color("fg_color", "transparent")
	} else {
		c = e.newWidget("tk.Label").
			raw("image", handle).
			color("bg", e.tkColor(p.BgColor))
	}
	e.assign(e.ref(), c)
	e.linef("self._image_refs.append(%s)", handle)
	e.place(e.ref(), c)
}

// emitListbox builds a scrollable list. CustomTkinter has no list widget, so the
// modern target stacks one label per item inside a scrollable frame.
func emitListbox(e *emitCtx) {
	p := e.p
	selected := -1
	for i, it := range p.Options {
		if p.Selected != "" && it == p.Selected {
			selected = i
			break
		}
	}
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkScrollableFrame").
			color("fg_color", p.BgColor).
			num("corner_radius", p.CornerRadius).
			num("border_width", p.BorderWidth).
			color("border_color", p.BorderColor))
		items := e.sub("items")
		e.linef("%s = []", items)
		e.linef("for index, item in enumerate(%s):", pyList(p.Options))
		row := newCall("ctk.CTkLabel", e.ref()).
			raw("text", "item").
			str("anchor", "w").
			color("text_color", p.TextColor).
			raw("font", p.Font.Descriptor()).
			num("corner_radius", 4)
		if selected >= 0 && !isTransparent(p.AccentColor) {
			row.raw("fg_color", fmt.Sprintf("%s if index == %d else \"transparent\"", pyStr(p.AccentColor), selected))
		}
		e.nested(1, "row = "+row.String())
		e.nested(1, "row.pack(fill=\"x\", padx=4, pady=1)")
		e.nested(1, items+".append(row)")
		return
	}
	c := e.newWidget("tk.Listbox").
		color("bg", e.tkColor(p.BgColor)).
		color("fg", e.tkColor(p.TextColor)).
		raw("font", p.Font.Descriptor()).
		num("bd", 0).
		num("highlightthickness", p.BorderWidth).
		color("highlightbackground", e.tkColor(p.BorderColor)).
		color("selectbackground", e.tkColor(p.AccentColor)).
		str("selectforeground", "#ffffff").
		str("activestyle", "none").
		raw("exportselection", boolPy(false))
	e.assign(e.ref(), c)
	e.linef("for item in %s:", pyList(p.Options))
	e.nested(1, e.ref()+".insert(\"end\", item)")
	if selected >= 0 {
		e.linef("%s.selection_set(%d)", e.ref(), selected)
	}
	e.place(e.ref(), c)
}

// emitTabs builds a tab view. The modern target composes a row of buttons and one
// page frame per tab; a local function swaps the visible page.
func emitTabs(e *emitCtx) {
	p := e.p
	pages := e.sub("pages")
	if !e.target.modern() {
		c := e.newWidget("ttk.Notebook")
		e.assign(e.ref(), c)
		e.linef("%s = {}", pages)
		e.linef("for name in %s:", pyList(p.Options))
		page := newCall("tk.Frame", e.ref()).color("bg", e.tkColor(p.BgColor))
		e.nested(1, "page = "+page.String())
		e.nested(1, e.ref()+".add(page, text=name)")
		e.nested(1, pages+"[name] = page")
		if p.Selected != "" {
			e.linef("%s.select(%s[%s])", e.ref(), pages, pyStr(p.Selected))
		}
		e.place(e.ref(), c)
		return
	}
	c := e.newWidget("ctk.CTkFrame").
		color("fg_color", p.BgColor).
		num("corner_radius", p.CornerRadius).
		num("border_width", p.BorderWidth).
		color("border_color", p.BorderColor)
	e.widget(c)
	e.linef("%s.pack_propagate(False)", e.ref())

	bar := e.sub("tab_bar")
	buttons := e.sub("tab_buttons")
	show := "_show_" + e.id
	active := p.AccentColor
	idle := AdjustBrightness(p.AccentColor, 45)
	if isTransparent(active) {
		active, idle = DefaultAccentColor, AdjustBrightness(DefaultAccentColor, 45)
	}
	e.assign(bar, newCall("ctk.CTkFrame", e.ref()).color("fg_color", "transparent").num("height", 32))
	e.linef("%s.pack(side=\"top\", fill=\"x\", padx=4, pady=(4, 0))", bar)
	e.linef("%s = {}", pages)
	e.linef("%s = {}", buttons)
	e.line("")
	e.linef("def %s(name):", show)
	e.nested(1, "for tab_name, page in "+pages+".items():")
	e.nested(2, "if tab_name == name:")
	e.nested(3, "page.pack(side=\"top\", fill=\"both\", expand=True, padx=4, pady=4)")
	e.nested(2, "else:")
	e.nested(3, "page.pack_forget()")
	e.nested(1, "for tab_name, button in "+buttons+".items():")
	e.nested(2, fmt.Sprintf("button.configure(fg_color=%s if tab_name == name else %s)", pyStr(active), pyStr(idle)))
	e.line("")
	e.linef("for name in %s:", pyList(p.Options))
	page := newCall("ctk.CTkFrame", e.ref()).color("fg_color", "transparent")
	e.nested(1, pages+"[name] = "+page.String())
	btn := newCall("ctk.CTkButton", bar).
		raw("text", "name").
		num("width", 80).
		num("height", 28).
		num("corner_radius", 6).
		color("fg_color", idle).
		color("hover_color", AdjustBrightness(active, -15)).
		color("text_color", "#ffffff").
		raw("font", p.Font.Descriptor()).
		raw("command", "lambda n=name: "+show+"(n)")
	e.nested(1, "button = "+btn.String())
	e.nested(1, "button.pack(side=\"left\", padx=2)")
	e.nested(1, buttons+"[name] = button")
	if p.Selected != "" {
		e.linef("%s(%s)", show, pyStr(p.Selected))
	}
}

// emitDatePicker pairs an entry with a button that fills in today's date.
func emitDatePicker(e *emitCtx) {
	p := e.p
	entry := e.sub("entry")
	button := e.sub("button")
	fill := fmt.Sprintf("lambda: (%s.delete(0, \"end\"), %s.insert(0, datetime.date.today().strftime(%s)))",
		entry, entry, pyStr(p.DateFormat))
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkFrame").color("fg_color", "transparent"))
		e.linef("%s.pack_propagate(False)", e.ref())
		e.assign(entry, newCall("ctk.CTkEntry", e.ref()).
			str("placeholder_text", dateHint(p.DateFormat)).
			color("fg_color", p.BgColor).
			color("text_color", p.TextColor).
			color("border_color", p.BorderColor).
			num("border_width", p.BorderWidth).
			num("corner_radius", p.CornerRadius).
			raw("font", p.Font.Descriptor()))
		e.assign(button, newCall("ctk.CTkButton", e.ref()).
			str("text", "Today").
			num("width", 64).
			color("fg_color", p.AccentColor).
			color("hover_color", AdjustBrightness(p.AccentColor, -15)).
			num("corner_radius", p.CornerRadius).
			raw("font", p.Font.Descriptor()).
			raw("command", fill))
	} else {
		e.widget(e.newWidget("tk.Frame").color("bg", e.tkColor(p.BgColor)))
		e.linef("%s.pack_propagate(False)", e.ref())
		e.assign(entry, newCall("tk.Entry", e.ref()).
			color("bg", e.tkColor(p.BgColor)).
			color("fg", e.tkColor(p.TextColor)).
			raw("font", p.Font.Descriptor()).
			num("highlightthickness", p.BorderWidth).
			color("highlightbackground", e.tkColor(p.BorderColor)))
		e.assign(button, newCall("tk.Button", e.ref()).
			str("text", "Today").
			raw("font", p.Font.Descriptor()).
			raw("command", fill))
	}
	e.linef("%s.pack(side=\"left\", fill=\"both\", expand=True)", entry)
	e.linef("%s.pack(side=\"left\", fill=\"y\", padx=(4, 0))", button)
	if p.Text != "" {
		e.linef("%s.insert(0, %s)", entry, pyStr(p.Text))
	}
}

func dateHint(format string) string {
	return strings.NewReplacer("%Y", "YYYY", "%y", "YY", "%m", "MM", "%d", "DD").Replace(format)
}

// emitCanvas uses the plain Tk canvas on both targets and replays the stored shapes.
func emitCanvas(e *emitCtx) {
	p := e.p
	c := e.newWidget("tk.Canvas").
		color("bg", e.tkColor(p.BgColor)).
		num("bd", 0).
		num("highlightthickness", p.BorderWidth).
		color("highlightbackground", e.tkColor(p.BorderColor))
	e.assign(e.ref(), c)
	for _, s := range p.Shapes {
		fill := e.tkColor(s.Fill)
		outline := e.tkColor(s.Outline)
		switch s.Kind {
		case "rect", "oval":
			fn := "create_rectangle"
			if s.Kind == "oval" {
				fn = "create_oval"
			}
			e.linef("%s.%s(%d, %d, %d, %d, fill=%s, outline=%s, width=%d)",
				e.ref(), fn, s.X1, s.Y1, s.X2, s.Y2, pyStr(fill), pyStr(outline), s.Width)
		case "line":
			e.linef("%s.create_line(%d, %d, %d, %d, fill=%s, width=%d)",
				e.ref(), s.X1, s.Y1, s.X2, s.Y2, pyStr(outline), s.Width)
		case "text":
			color := fill
			if color == "" {
				color = outline
			}
			e.linef("%s.create_text(%d, %d, text=%s, fill=%s, font=%s, anchor=\"nw\")",
				e.ref(), s.X1, s.Y1, pyStr(s.Text), pyStr(color), p.Font.Descriptor())
		}
	}
	e.place(e.ref(), c)
}

// emitUnknown keeps unrecognised widgets visible as a marked stand-in.
func emitUnknown(e *emitCtx) {
	p := e.p
	e.linef("# Unsupported widget type: %s (id: %s)", pyStr(e.rawType), pyStr(e.id))
	text := "Unsupported: " + strings.TrimSpace(e.rawType)
	if e.target.modern() {
		e.widget(e.newWidget("ctk.CTkLabel").
			str("text", text).
			color("fg_color", "#fff3cd").
			color("text_color", "#856404").
			num("corner_radius", 4).
			raw("font", p.Font.Descriptor()))
		return
	}
	e.widget(e.newWidget("tk.Label").
		str("text", text).
		color("bg", "#fff3cd").
		color("fg", "#856404").
		raw("font", p.Font.Descriptor()).
		str("relief", "solid").
		num("bd", 1))
}
