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
	"log/slog"
	"strings"

	applog "github.com/droppybuilder/Buildify2.0-sub000/internal/log"
)

type emitFunc func(e *emitCtx)

// emitters maps canonical type names to their emitter.
var emitters = map[string]emitFunc{
	"button":      emitButton,
	"label":       emitLabel,
	"entry":       emitEntry,
	"textbox":     emitTextbox,
	"image":       emitImage,
	"slider":      emitSlider,
	"checkbox":    emitCheckbox,
	"frame":       emitFrame,
	"progressbar": emitProgress,
	"tabs":        emitTabs,
	"listbox":     emitListbox,
	"datepicker":  emitDatePicker,
	"dropdown":    emitDropdown,
	"combobox":    emitCombobox,
	"radio":       emitRadio,
	"canvas":      emitCanvas,
	"switch":      emitSwitch,
}

// synonyms resolves editor type tags to canonical names. Keys are lower case with
// separators removed.
var synonyms = map[string]string{
	"button": "button", "btn": "button", "pushbutton": "button",
	"label": "label", "heading": "label", "title": "label", "statictext": "label",
	"entry": "entry", "textfield": "entry", "input": "entry", "textinput": "entry", "lineedit": "entry",
	"textbox": "textbox", "paragraph": "textbox", "textarea": "textbox", "multiline": "textbox",
	"image": "image", "img": "image", "picture": "image", "photo": "image",
	"slider": "slider", "scale": "slider", "range": "slider",
	"checkbox": "checkbox", "check": "checkbox", "checkbutton": "checkbox",
	"frame": "frame", "container": "frame", "panel": "frame", "group": "frame",
	"progressbar": "progressbar", "progress": "progressbar",
	"notebook": "tabs", "tabs": "tabs", "tabview": "tabs", "tabcontrol": "tabs",
	"listbox": "listbox", "list": "listbox", "listview": "listbox",
	"datepicker": "datepicker", "date": "datepicker", "calendar": "datepicker", "dateentry": "datepicker",
	"dropdown": "dropdown", "optionmenu": "dropdown", "select": "dropdown",
	"combobox": "combobox", "combo": "combobox",
	"radio": "radio", "radiobutton": "radio",
	"canvas": "canvas", "drawing": "canvas",
	"switch": "switch", "toggle": "switch",
}

// Canonical resolves a widget type tag case-insensitively through the synonym table.
func Canonical(typ string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(typ))
	if c, ok := synonyms[k]; ok {
		return c, true
	}
	k = strings.NewReplacer("-", "", "_", "", " ", "").Replace(k)
	c, ok := synonyms[k]
	return c, ok
}

// Dispatch emits the block for one widget with the default target.
func Dispatch(typ, id string, p Props, indent string) string {
	return New(Options{}).Dispatch(typ, id, p, indent)
}

// Dispatch routes typ to its emitter and returns the statement block. Unknown
// types get a marked stand-in. A failing emitter is logged and replaced by a
// single comment line so the rest of the program is still produced.
func (g *Generator) Dispatch(typ, id string, p Props, indent string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			applog.WithWidget(g.log, id, typ).Warn("widget emission failed", slog.String("panic", fmt.Sprint(r)))
			out = fmt.Sprintf("%s# Widget %s (type %s) could not be generated: %s\n",
				indent, pyStr(id), pyStr(typ), oneLine(fmt.Sprint(r)))
		}
	}()
	e := &emitCtx{target: g.target, id: id, rawType: typ, p: p, indent: indent}
	fn := emitUnknown
	if c, ok := Canonical(typ); ok {
		if f, ok := emitters[c]; ok {
			fn = f
		}
	}
	fn(e)
	return e.b.String()
}
