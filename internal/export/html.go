// ABOUTME: HTML exporter for mood sessions using Go html/template
// ABOUTME: Renders one row per turn with an activation strip over every catalog emotion

package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
	"github.com/mauromedda/pi-mood-go/internal/render"
)

type htmlDoc struct {
	Title    string
	Emotions []string
	Current  htmlTurn
	Turns    []htmlTurn
}

type htmlTurn struct {
	Turn     int
	Source   string
	Context  string
	Dominant string
	Band     string
	Value    float64
	Tone     string
	Derived  []string
	Cells    []htmlCell
}

type htmlCell struct {
	ID    string
	Value float64
}

// ExportHTML renders history as a styled HTML document to w, newest state
// first in the header and turns oldest first below. Emotions appear in
// catalog declaration order.
func ExportHTML(cat *catalog.Catalog, title string, current emotion.Snapshot, history []emotion.Snapshot, w io.Writer) error {
	if title == "" {
		title = "Mood session"
	}
	doc := htmlDoc{
		Title:    title,
		Emotions: cat.IDs(),
		Current:  turnOf(cat, current),
		Turns:    make([]htmlTurn, 0, len(history)),
	}
	for _, s := range history {
		doc.Turns = append(doc.Turns, turnOf(cat, s))
	}
	return htmlTmpl.Execute(w, doc)
}

func turnOf(cat *catalog.Catalog, s emotion.Snapshot) htmlTurn {
	t := htmlTurn{
		Turn:     s.Turn,
		Source:   s.Source,
		Context:  s.Context,
		Dominant: s.Dominant,
		Band:     s.Intensity.Band,
		Value:    s.Intensity.Value,
		Tone:     render.Tone(s.Affect),
		Derived:  s.Derived,
	}
	for _, id := range cat.IDs() {
		t.Cells = append(t.Cells, htmlCell{ID: id, Value: s.Activation(id)})
	}
	return t
}

// barStyle sizes an intensity bar.
func barStyle(v float64) template.CSS {
	return template.CSS(fmt.Sprintf("width: %.0f%%", clampPct(v)))
}

// cellStyle shades an activation cell.
func cellStyle(v float64) template.CSS {
	return template.CSS(fmt.Sprintf("opacity: %.2f", 0.08+0.92*clampPct(v)/100))
}

func clampPct(v float64) float64 {
	return min(max(v, 0), 1) * 100
}

// abbrev shortens a column heading to two runes.
func abbrev(id string) string {
	r := []rune(id)
	return string(r[:min(len(r), 2)])
}

func fixed(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

var funcMap = template.FuncMap{
	"abbrev":    abbrev,
	"barStyle":  barStyle,
	"cellStyle": cellStyle,
	"fixed":     fixed,
}

var htmlTmpl = template.Must(template.New("session").Funcs(funcMap).Parse(htmlTemplate))

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{ .Title }}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    background: #1e1e2e;
    color: #cdd6f4;
    font-family: 'SF Mono', 'Cascadia Code', 'Fira Code', monospace;
    font-size: 14px;
    line-height: 1.6;
    padding: 24px;
    max-width: 1000px;
    margin: 0 auto;
  }
  h1 { font-size: 18px; margin-bottom: 12px; }
  .current {
    padding: 12px 16px;
    border-radius: 8px;
    border-left: 4px solid;
    margin-bottom: 24px;
    background: #181825;
  }
  .positive { border-left-color: #a6e3a1; }
  .negative { border-left-color: #f38ba8; }
  .mixed { border-left-color: #f9e2af; }
  .badge {
    display: inline-block;
    font-size: 11px;
    font-weight: 600;
    text-transform: uppercase;
    letter-spacing: 0.5px;
    padding: 2px 8px;
    border-radius: 4px;
  }
  .positive .badge { background: #a6e3a122; color: #a6e3a1; }
  .negative .badge { background: #f38ba822; color: #f38ba8; }
  .mixed .badge { background: #f9e2af22; color: #f9e2af; }
  .derived { color: #cba6f7; margin-left: 8px; }
  .dim { color: #9399b2; font-size: 12px; }
  table { border-collapse: collapse; width: 100%; }
  th, td { padding: 4px 6px; text-align: left; vertical-align: middle; }
  th { color: #9399b2; font-size: 11px; font-weight: 600; }
  tr.turn { border-left: 4px solid; }
  .bar { background: #313244; border-radius: 3px; height: 8px; width: 120px; }
  .bar div { background: #89b4fa; border-radius: 3px; height: 8px; }
  td.cell { width: 28px; }
  td.cell div { background: #89b4fa; border-radius: 3px; height: 16px; }
  .empty { color: #9399b2; font-style: italic; }
</style>
</head>
<body>
<h1>{{ .Title }}</h1>
{{- with .Current }}
<div class="current {{ .Tone }}">
  <span class="badge">{{ .Dominant }}</span>
  <span>{{ .Band }} ({{ fixed .Value }})</span>
  {{- range .Derived }}<span class="derived">+{{ . }}</span>{{ end }}
  <div class="dim">turn {{ .Turn }}{{ if .Context }} · {{ .Context }}{{ end }}</div>
</div>
{{- end }}
{{- if .Turns }}
<table>
  <tr>
    <th>turn</th><th>source</th><th>context</th><th>dominant</th><th>intensity</th>
    {{- range .Emotions }}<th title="{{ . }}">{{ abbrev . }}</th>{{ end }}
    <th>derived</th>
  </tr>
  {{- range .Turns }}
  <tr class="turn {{ .Tone }}">
    <td>{{ .Turn }}</td>
    <td class="dim">{{ .Source }}</td>
    <td class="dim">{{ if .Context }}{{ .Context }}{{ else }}-{{ end }}</td>
    <td><span class="badge">{{ .Dominant }}</span></td>
    <td><div class="bar" title="{{ .Band }} {{ fixed .Value }}"><div style="{{ barStyle .Value }}"></div></div></td>
    {{- range .Cells }}
    <td class="cell" title="{{ .ID }} {{ fixed .Value }}"><div style="{{ cellStyle .Value }}"></div></td>
    {{- end }}
    <td>{{ range .Derived }}<span class="derived">{{ . }}</span>{{ end }}</td>
  </tr>
  {{- end }}
</table>
{{- else }}
<p class="empty">No turns recorded.</p>
{{- end }}
</body>
</html>
`
