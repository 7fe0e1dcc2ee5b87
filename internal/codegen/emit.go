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

// emitCtx carries one widget through its emitter.
type emitCtx struct {
	target  Target
	id      string // attribute name, without "self."
	rawType string
	p       Props
	indent  string
	b       strings.Builder
}

func (e *emitCtx) ref() string { return "self." + e.id }

// sub names a helper attribute belonging to this widget.
func (e *emitCtx) sub(suffix string) string { return "self." + e.id + "_" + suffix }

func (e *emitCtx) line(s string) {
	if s == "" {
		e.b.WriteByte('\n')
		return
	}
	e.b.WriteString(e.indent)
	e.b.WriteString(s)
	e.b.WriteByte('\n')
}

func (e *emitCtx) linef(format string, args ...any) { e.line(fmt.Sprintf(format, args...)) }

// nested writes a line one level deeper than the block indent.
func (e *emitCtx) nested(depth int, s string) {
	e.line(strings.Repeat("    ", depth) + s)
}

// newWidget starts a constructor call on the window, sized when the class takes
// pixel sizes in its constructor.
func (e *emitCtx) newWidget(class string) *call {
	c := newCall(class, "self")
	if c.sized() {
		c.num("width", e.p.Width).num("height", e.p.Height)
	}
	return c
}

func (e *emitCtx) assign(name string, c *call) { e.line(name + " = " + c.String()) }

// widget assigns the main widget and places it.
func (e *emitCtx) widget(c *call) {
	e.assign(e.ref(), c)
	e.place(e.ref(), c)
}

// place emits the geometry call chosen during normalisation. CustomTkinter widgets
// reject width/height in place(), so their size stays in the constructor.
func (e *emitCtx) place(name string, c *call) {
	p := e.p
	if p.Layout.Grid {
		l := p.Layout
		args := fmt.Sprintf("row=%d, column=%d, rowspan=%d, columnspan=%d, padx=%d, pady=%d",
			l.Row, l.Column, l.RowSpan, l.ColumnSpan, l.PadX, l.PadY)
		if l.Sticky != "" {
			args += ", sticky=" + pyStr(l.Sticky)
		}
		e.linef("%s.grid(%s)", name, args)
		return
	}
	if strings.HasPrefix(c.class, "ctk.") {
		e.linef("%s.place(x=%d, y=%d)", name, p.X, p.Y)
		return
	}
	e.linef("%s.place(x=%d, y=%d, width=%d, height=%d)", name, p.X, p.Y, p.Width, p.Height)
}

// tkColor maps colours the classic target cannot display to "".
func (e *emitCtx) tkColor(c string) string {
	if isTransparent(c) {
		return ""
	}
	return c
}

func relief(borderWidth int, raised string) string {
	if borderWidth > 0 {
		return raised
	}
	return "flat"
}

func boolPy(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
