package pager

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/kk-code-lab/rpager/internal/search"
	"github.com/kk-code-lab/rpager/internal/styled"
	"github.com/kk-code-lab/rpager/internal/textutil"
	"github.com/kk-code-lab/rpager/internal/ui/render"
)

// Update runs whichever pipeline stages are dirty: layout, full frame, or
// just the prompt row.
func (v *Viewport) Update(ctx context.Context) error {
	v.reflow(ctx)
	switch {
	case v.needRedraw:
		return v.redraw()
	case v.promptOutdated:
		return v.redrawPrompt()
	}
	return nil
}

// Invalidate forces the next Update to repaint everything.
func (v *Viewport) Invalidate() {
	v.needRedraw = true
	v.promptOutdated = true
}

func (v *Viewport) redraw() error {
	v.buf.Reset()
	v.writer.Reset(v.size.Columns())

	count, margin := v.size.RealSize(v.layout.widths[v.scroll:])
	v.buf.WriteString(render.CursorHome)
	for i := 0; i < margin; i++ {
		v.buf.WriteString(render.ClearLine)
		v.buf.WriteString(render.NextLine)
	}

	highlight := !v.needle.Empty() && len(v.flowMatches) == v.layout.len()
	carry := 0
	if highlight && count > 0 {
		carry = v.carryInto(v.scroll)
	}
	used := margin
	for i := v.scroll; i < v.scroll+count; i++ {
		rows := v.size.RowsFor(v.layout.widths[i])
		if used+rows > v.size.Lines() {
			break
		}
		used += rows

		row := v.layout.row(v.lines, i)
		v.buf.WriteString(render.ClearLine)
		if highlight {
			if i > v.scroll && v.layout.spans[i].start == 0 {
				carry = 0
			}
			carry = v.writeHighlighted(row, v.flowMatches[i], carry)
		} else {
			v.writer.WriteLine(&v.buf, row)
		}
		v.writer.EndLine()
		v.buf.WriteString(render.NextLine)
	}
	v.writer.ResetStyle(&v.buf)
	v.prevWrap = v.writer.Wraps()
	v.needRedraw = false

	if v.promptOutdated {
		v.updatePrompt()
	}
	v.writePrompt()
	return v.flush()
}

// writeHighlighted paints row with every match in reverse video. carry is
// the part of a match from the previous row that continues on this one; the
// returned value is what continues on the next row.
func (v *Viewport) writeHighlighted(row styled.Line, marks search.Positions, carry int) int {
	prev := 0
	if carry > 0 {
		prev = min(carry, len(row))
		v.writer.WriteReverse(&v.buf, row[:prev])
		carry -= prev
	}
	n := v.needle.Len()
	for _, m := range marks {
		end := min(m+n, len(row))
		if m < prev || m > end {
			panic(fmt.Sprintf("pager: highlight span [%d,%d) invalid after offset %d in row of %d", m, end, prev, len(row)))
		}
		v.writer.WriteLine(&v.buf, row[prev:m])
		v.writer.WriteReverse(&v.buf, row[m:end])
		carry = m + n - end
		prev = end
	}
	v.writer.WriteLine(&v.buf, row[prev:])
	return carry
}

// carryInto measures how much of a match that started on an earlier row of
// the same line spills into row.
func (v *Viewport) carryInto(row int) int {
	sp := v.layout.spans[row]
	if sp.start == 0 || sp.line >= len(v.matches) {
		return 0
	}
	n := v.needle.Len()
	for _, s := range v.matches[sp.line] {
		if s >= sp.start {
			break
		}
		if s+n > sp.start {
			return s + n - sp.start
		}
	}
	return 0
}

func (v *Viewport) redrawPrompt() error {
	v.buf.Reset()
	v.updatePrompt()
	v.writePrompt()
	return v.flush()
}

// updatePrompt rebuilds the status text for the current mode.
func (v *Viewport) updatePrompt() {
	var text string
	reverse := true
	switch v.prompt.Mode() {
	case ModeNumber:
		text = ":" + strconv.Itoa(v.prompt.Number())
		reverse = false
	case ModeSearch:
		text = "/" + textutil.PromptText(v.prompt.Input(), textutil.DefaultTabWidth)
	default:
		total := v.layout.len()
		first := min(v.scroll+1, total)
		last := max(min(v.scroll+v.size.Lines()-v.prevWrap, total), first)
		text = fmt.Sprintf("lines %d-%d/%d", first, last, total)
		if v.scroll == v.MaxScroll() {
			text += " (END)"
		}
	}
	if ansi.StringWidth(text) > v.size.Columns() {
		text = ansi.Truncate(text, v.size.Columns(), "")
	}

	var b strings.Builder
	if reverse {
		b.WriteString("\x1b[7m")
	}
	b.WriteString(text)
	b.WriteString(render.ResetStyle)
	v.status = b.String()
	v.promptOutdated = false
}

func (v *Viewport) writePrompt() {
	render.MoveTo(&v.buf, 0, v.size.PromptRow())
	v.buf.WriteString(render.ClearLine)
	v.buf.WriteString(v.status)
}

func (v *Viewport) flush() error {
	if _, err := v.out.Write(v.buf.Bytes()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if f, ok := v.out.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush frame: %w", err)
		}
	}
	return nil
}
