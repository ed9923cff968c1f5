// Package summary renders a tally as text for the terminal or clipboard.
package summary

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/f3rmion/livevote/internal/vote"
)

// Row is one option line in a summary.
type Row struct {
	ID      vote.OptionID
	Label   string
	Count   int
	Percent int
	Leader  bool
}

// Data holds everything a summary template can reference.
type Data struct {
	Title    string
	Subtitle string
	Rows     []Row
	Total    int
	Leader   *Row
	At       time.Time
}

// Built-in templates.
const (
	LineTemplate = `{{range $i, $r := .Rows}}{{if $i}} | {{end}}{{$r.Label}}: {{$r.Count}} ({{$r.Percent}}%){{end}}`

	BlockTemplate = `{{with .Title}}{{.}}
{{end}}{{with .Subtitle}}{{.}}
{{end}}{{range .Rows}}{{if .Leader}}*{{else}} {{end}} {{printf "%-12s" .Label}} {{printf "%6d" .Count}}  {{printf "%3d" .Percent}}%
{{end}}  total {{.Total}}{{with .Leader}}, leading: {{.Label}}{{end}}`
)

// Renderer formats tallies with a text/template.
type Renderer struct {
	options  []vote.Option
	template *template.Template
	title    string
	subtitle string
}

// NewRenderer creates a renderer for the options using BlockTemplate.
func NewRenderer(options []vote.Option, title, subtitle string) *Renderer {
	return &Renderer{
		options:  options,
		template: template.Must(template.New("summary").Parse(BlockTemplate)),
		title:    title,
		subtitle: subtitle,
	}
}

// SetTemplate sets a custom summary template.
func (r *Renderer) SetTemplate(tmpl string) error {
	t, err := template.New("summary").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	r.template = t
	return nil
}

// Build resolves the template data for a tally.
func (r *Renderer) Build(t vote.Tally, at time.Time) Data {
	pct := t.Percentages(r.options)
	leader, hasLeader := t.Leader(r.options)

	d := Data{
		Title:    r.title,
		Subtitle: r.subtitle,
		Rows:     make([]Row, len(r.options)),
		At:       at,
	}
	for i, o := range r.options {
		d.Rows[i] = Row{
			ID:      o.ID,
			Label:   o.Label,
			Count:   t[o.ID],
			Percent: pct[o.ID],
			Leader:  hasLeader && o.ID == leader,
		}
		d.Total += t[o.ID]
		if d.Rows[i].Leader {
			d.Leader = &d.Rows[i]
		}
	}
	return d
}

// Render formats a tally.
func (r *Renderer) Render(t vote.Tally, at time.Time) (string, error) {
	var buf bytes.Buffer
	if err := r.template.Execute(&buf, r.Build(t, at)); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}
