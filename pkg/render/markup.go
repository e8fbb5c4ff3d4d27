package render

import (
	"fmt"
	"html"
	"strings"
)

// Markup converts rendered rows and lines into the text format
// understood by a particular surface.
type Markup interface {
	// Break is the line break marker.
	Break() string
	// Screen joins rows, ending each with a line break.
	Screen(rows []string) string
	// Line formats a single line, without a trailing break.
	Line(l Line) string
}

var (
	// HTML is used by the web host page.
	HTML Markup = htmlMarkup{}
	// ANSI is used by terminals supporting 24-bit colour.
	ANSI Markup = ansiMarkup{}
	// Plain drops all styling.
	Plain Markup = plainMarkup{}
)

func joinRows(rows []string, br string, escape func(string) string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(escape(row))
		b.WriteString(br)
	}
	return b.String()
}

func identity(s string) string { return s }

type htmlMarkup struct{}

func (htmlMarkup) Break() string { return "<br>" }

func (m htmlMarkup) Screen(rows []string) string {
	return joinRows(rows, m.Break(), html.EscapeString)
}

func (htmlMarkup) Line(l Line) string {
	var b strings.Builder
	for _, s := range l {
		if !s.Accent {
			b.WriteString(html.EscapeString(s.Text))
			continue
		}
		fmt.Fprintf(&b, `<b style="color:rgb(%d,%d,%d)">%s</b>`, s.Colour.R, s.Colour.G, s.Colour.B, html.EscapeString(s.Text))
	}
	return b.String()
}

type ansiMarkup struct{}

func (ansiMarkup) Break() string { return "\r\n" }

func (m ansiMarkup) Screen(rows []string) string {
	return joinRows(rows, m.Break(), identity)
}

func (ansiMarkup) Line(l Line) string {
	var b strings.Builder
	for _, s := range l {
		if !s.Accent {
			b.WriteString(s.Text)
			continue
		}
		fmt.Fprintf(&b, "\x1b[1;38;2;%d;%d;%dm%s\x1b[0m", s.Colour.R, s.Colour.G, s.Colour.B, s.Text)
	}
	return b.String()
}

type plainMarkup struct{}

func (plainMarkup) Break() string { return "\n" }

func (m plainMarkup) Screen(rows []string) string {
	return joinRows(rows, m.Break(), identity)
}

func (plainMarkup) Line(l Line) string { return l.String() }
