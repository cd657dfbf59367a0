// Package renderer renders tracker reports and transaction logs as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/date"
)

//go:embed *.md
var templates embed.FS

// Report gathers every report of a ledger at one point in time.
type Report struct {
	Date       date.Date            `json:"date"`
	Rate       tracker.ExchangeRate `json:"rate"`
	Valuation  tracker.Valuation    `json:"valuation"`
	Returns    tracker.Returns      `json:"returns"`
	Allocation tracker.Allocation   `json:"allocation"`
}

// NewReport computes the reports of l.
func NewReport(l *tracker.Ledger, on date.Date) *Report {
	return &Report{
		Date:       on,
		Rate:       l.ExchangeRate(),
		Valuation:  l.Valuation(),
		Returns:    l.Returns(),
		Allocation: l.Allocate(),
	}
}

// NamedReturn is an AccountReturn with a display name.
type NamedReturn struct {
	Name string
	tracker.AccountReturn
}

// ReturnRows lists the returns in table order.
func (r *Report) ReturnRows() []NamedReturn {
	return []NamedReturn{
		{tracker.ISA.String(), r.Returns.ISA},
		{tracker.Foreign.String(), r.Returns.Foreign},
		{"Total", r.Returns.Total},
	}
}

// RenderReport renders the Report struct to a markdown string.
func RenderReport(r *Report) string {
	partials := map[string]string{
		"report_title":      "report_title.md",
		"report_valuation":  "report_valuation.md",
		"report_returns":    "report_returns.md",
		"report_allocation": "report_allocation.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
