// Package format splits chat text into plain, link and bold runs and renders
// them for the browser transcript or the terminal.
package format

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Kind is the type of a text run.
type Kind int

const (
	Plain Kind = iota
	Link
	Bold
)

// Segment is one run of message text.
type Segment struct {
	Kind Kind
	Text string
}

// tokenRe matches **bold** runs and http(s) URLs.
var tokenRe = regexp.MustCompile(`\*\*([^*]+)\*\*|https?://[^\s<>"]+`)

// trailingPunct is never treated as part of a URL.
const trailingPunct = ".,;:!?'"

// Split breaks text into segments. Concatenating the segments' text gives back
// the input minus the bold markers.
func Split(text string) []Segment {
	var segs []Segment
	last := 0
	for _, m := range tokenRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if m[2] >= 0 {
			segs = appendPlain(segs, text[last:start])
			segs = append(segs, Segment{Kind: Bold, Text: text[m[2]:m[3]]})
			last = end
			continue
		}

		url := trimURL(text[start:end])
		if url == "http://" || url == "https://" {
			// Nothing left after the scheme; keep it as text.
			continue
		}
		segs = appendPlain(segs, text[last:start])
		segs = append(segs, Segment{Kind: Link, Text: url})
		last = start + len(url)
	}
	return appendPlain(segs, text[last:])
}

func trimURL(url string) string {
	url = strings.TrimRight(url, trailingPunct)
	// A closing paren only belongs to the URL when it also opens one.
	for strings.HasSuffix(url, ")") && strings.Count(url, "(") < strings.Count(url, ")") {
		url = strings.TrimRight(strings.TrimSuffix(url, ")"), trailingPunct)
	}
	return url
}

func appendPlain(segs []Segment, text string) []Segment {
	if text == "" {
		return segs
	}
	if n := len(segs); n > 0 && segs[n-1].Kind == Plain {
		segs[n-1].Text += text
		return segs
	}
	return append(segs, Segment{Kind: Plain, Text: text})
}

// HTML renders text for the browser. Plain runs are escaped, links open in a
// new tab and bold runs become <strong>.
func HTML(text string) template.HTML {
	var sb strings.Builder
	for _, seg := range Split(text) {
		escaped := template.HTMLEscapeString(seg.Text)
		switch seg.Kind {
		case Link:
			sb.WriteString(`<a href="` + escaped + `" target="_blank" rel="noopener noreferrer">` + escaped + `</a>`)
		case Bold:
			sb.WriteString("<strong>" + escaped + "</strong>")
		default:
			sb.WriteString(escaped)
		}
	}
	return template.HTML(sb.String())
}

// Styles are the terminal styles for each kind of run.
type Styles struct {
	Link lipgloss.Style
	Bold lipgloss.Style
}

// DefaultStyles underlines links and bolds bold runs.
func DefaultStyles() Styles {
	return Styles{
		Link: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// Terminal renders text for a terminal. Plain runs are written unchanged.
func Terminal(text string, st Styles) string {
	var sb strings.Builder
	for _, seg := range Split(text) {
		switch seg.Kind {
		case Link:
			sb.WriteString(st.Link.Render(seg.Text))
		case Bold:
			sb.WriteString(st.Bold.Render(seg.Text))
		default:
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}
