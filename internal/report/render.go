package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Meta identifies one generated document.
type Meta struct {
	ReportID    string    `json:"report_id"`
	GeneratedAt time.Time `json:"generated_at"`
}

type accountingPage struct {
	Meta
	Report AccountingReport
}

type receiptPage struct {
	Meta
	Receipt CustomerReceipt
}

type periodPage struct {
	Meta
	Period Period
}

// Renderer turns projected models into HTML. Templates are parsed once and
// the Renderer is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"date": func(t time.Time) string { return t.Format("2006-01-02") },
		"timestamp": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04:05 MST")
		},
	}

	tmpl, err := template.New("report").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse report templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Accounting(meta Meta, report AccountingReport) ([]byte, error) {
	return r.execute("accounting.html", accountingPage{Meta: meta, Report: report})
}

func (r *Renderer) Receipt(meta Meta, receipt CustomerReceipt) ([]byte, error) {
	return r.execute("receipt.html", receiptPage{Meta: meta, Receipt: receipt})
}

func (r *Renderer) Period(meta Meta, period Period) ([]byte, error) {
	return r.execute("period.html", periodPage{Meta: meta, Period: period})
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
