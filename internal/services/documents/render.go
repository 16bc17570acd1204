package documents

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"lawbix/internal/domain"
)

// Report is everything a rendered document shows.
type Report struct {
	Template        domain.Template
	CompanyName     string
	ComplianceScore int
	RiskLevel       domain.RiskLevel
	CategoryScores  map[string]domain.CategoryScore
	Risks           []domain.Risk
	Roadmap         []domain.RoadmapItem
	GeneratedAt     time.Time
}

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func longDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}

func levelLabel(l domain.RiskLevel) string {
	switch l {
	case domain.RiskHigh:
		return "Alto"
	case domain.RiskLow:
		return "Bajo"
	default:
		return "Medio"
	}
}

func statusLabel(s string) string {
	switch s {
	case string(domain.RoadmapInProgress):
		return "En progreso"
	case string(domain.RoadmapCompleted):
		return "Completado"
	case string(domain.RiskMitigated):
		return "Mitigado"
	case string(domain.RiskClosed):
		return "Cerrado"
	case string(domain.RiskOpen):
		return "Abierto"
	default:
		return "Pendiente"
	}
}

var (
	brandDark  = [3]int{30, 64, 175}
	brandLight = [3]int{240, 249, 255}
	muted      = [3]int{107, 114, 128}
	levelFill  = map[domain.RiskLevel][3]int{
		domain.RiskHigh:   {254, 226, 226},
		domain.RiskMedium: {254, 243, 199},
		domain.RiskLow:    {209, 250, 229},
	}
)

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// Render writes r as an A4 PDF.
func Render(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pw := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetTitle(r.Template.Name, true)
	pdf.SetAuthor("LAWBiX", false)
	pdf.SetCreator("lawbix", false)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pw.color(muted)
		pdf.CellFormat(0, 10, pw.tr(fmt.Sprintf("LAWBiX - Sistema de Gestión Legal Empresarial    %d/{nb}", pdf.PageNo())),
			"", 0, "C", false, 0, "")
	})

	pw.cover(r)

	pdf.AddPage()
	pw.heading("Análisis Integral de Cumplimiento Legal")
	pw.summary(r)
	switch r.Template.ID {
	case TemplateRiskMatrix:
		pw.matrix(r.Risks)
		pw.riskTable(r.Risks, true)
	case TemplateCompliance:
		pw.categories(r.CategoryScores)
		pw.roadmapTable(r.Roadmap)
	default:
		pw.categories(r.CategoryScores)
		pw.riskTable(r.Risks, false)
		pw.roadmapTable(r.Roadmap)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pw.color(muted)
	pdf.MultiCell(0, 5, pw.tr("Reporte generado automáticamente el "+longDate(r.GeneratedAt)), "", "C", false)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func (w *writer) color(c [3]int) { w.pdf.SetTextColor(c[0], c[1], c[2]) }

func (w *writer) fill(c [3]int) { w.pdf.SetFillColor(c[0], c[1], c[2]) }

func (w *writer) cover(r Report) {
	pdf := w.pdf
	pdf.AddPage()
	width, height := pdf.GetPageSize()
	w.fill(brandDark)
	pdf.Rect(0, 0, width, height, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetY(95)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.MultiCell(0, 12, w.tr(strings.ToUpper(r.Template.Name)), "", "C", false)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 18)
	pdf.MultiCell(0, 10, w.tr(r.CompanyName), "", "C", false)
	pdf.SetY(200)
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, w.tr(longDate(r.GeneratedAt)), "", 1, "C", false, 0, "")
}

func (w *writer) heading(text string) {
	w.pdf.SetFont("Helvetica", "B", 16)
	w.color(brandDark)
	w.pdf.CellFormat(0, 10, w.tr(text), "B", 1, "L", false, 0, "")
	w.pdf.Ln(4)
}

func (w *writer) section(text string) {
	w.pdf.Ln(4)
	w.pdf.SetFont("Helvetica", "B", 13)
	w.color(brandDark)
	w.pdf.CellFormat(0, 8, w.tr(text), "", 1, "L", false, 0, "")
	w.pdf.Ln(1)
}

func (w *writer) summary(r Report) {
	w.section("Resumen Ejecutivo")
	rows := [][2]string{
		{"Empresa", r.CompanyName},
		{"Nivel de Riesgo Global", levelLabel(r.RiskLevel)},
		{"Puntuación de Cumplimiento", fmt.Sprintf("%d%%", r.ComplianceScore)},
	}
	w.fill(brandLight)
	for _, row := range rows {
		w.pdf.SetFont("Helvetica", "B", 10)
		w.color(brandDark)
		w.pdf.CellFormat(70, 8, w.tr(row[0]+":"), "", 0, "L", true, 0, "")
		w.pdf.SetFont("Helvetica", "", 10)
		w.pdf.SetTextColor(55, 65, 81)
		w.pdf.CellFormat(0, 8, w.tr(row[1]), "", 1, "L", true, 0, "")
	}
}

func (w *writer) tableHeader(widths []float64, cols ...string) {
	w.pdf.SetFont("Helvetica", "B", 9)
	w.fill(brandDark)
	w.pdf.SetTextColor(255, 255, 255)
	for i, c := range cols {
		w.pdf.CellFormat(widths[i], 8, w.tr(c), "1", 0, "L", true, 0, "")
	}
	w.pdf.Ln(-1)
	w.pdf.SetFont("Helvetica", "", 9)
	w.pdf.SetTextColor(51, 51, 51)
}

// cell writes text clipped to width.
func (w *writer) cell(width float64, text string, fill bool) {
	s := w.tr(text)
	if w.pdf.GetStringWidth(s) > width-2 {
		for len(s) > 0 && w.pdf.GetStringWidth(s+"...") > width-2 {
			s = s[:len(s)-1]
		}
		s += "..."
	}
	w.pdf.CellFormat(width, 7, s, "1", 0, "L", fill, 0, "")
}

func (w *writer) noData(text string) {
	w.pdf.SetFont("Helvetica", "I", 10)
	w.color(muted)
	w.pdf.MultiCell(0, 8, w.tr(text), "", "C", false)
}

func (w *writer) categories(scores map[string]domain.CategoryScore) {
	w.section("Cumplimiento por Área")
	if len(scores) == 0 {
		w.noData("No hay diagnóstico registrado para esta empresa.")
		return
	}
	names := make([]string, 0, len(scores))
	for n := range scores {
		names = append(names, n)
	}
	sort.Strings(names)

	widths := []float64{90, 30, 30, 30}
	w.tableHeader(widths, "Área", "Obtenido", "Máximo", "%")
	for _, n := range names {
		cs := scores[n]
		pct := 0
		if cs.Max > 0 {
			pct = cs.Earned * 100 / cs.Max
		}
		w.cell(widths[0], n, false)
		w.cell(widths[1], fmt.Sprint(cs.Earned), false)
		w.cell(widths[2], fmt.Sprint(cs.Max), false)
		w.cell(widths[3], fmt.Sprintf("%d%%", pct), false)
		w.pdf.Ln(-1)
	}
}

func (w *writer) riskTable(risks []domain.Risk, detailed bool) {
	w.section("Riesgos Identificados")
	if len(risks) == 0 {
		w.noData("No se han identificado riesgos en este momento.")
		return
	}
	if detailed {
		widths := []float64{60, 35, 22, 22, 22, 19}
		w.tableHeader(widths, "Riesgo", "Categoría", "Nivel", "Prob.", "Impacto", "Estado")
		for _, r := range risks {
			w.cell(widths[0], r.Title, false)
			w.cell(widths[1], r.Category, false)
			w.levelCell(widths[2], r.Severity)
			w.cell(widths[3], levelLabel(domain.RiskLevel(r.Probability)), false)
			w.cell(widths[4], levelLabel(domain.RiskLevel(r.Impact)), false)
			w.cell(widths[5], statusLabel(string(r.Status)), false)
			w.pdf.Ln(-1)
		}
		return
	}
	widths := []float64{45, 105, 30}
	w.tableHeader(widths, "Categoría", "Descripción", "Nivel")
	for _, r := range risks {
		desc := r.Description
		if desc == "" {
			desc = r.Title
		}
		w.cell(widths[0], r.Category, false)
		w.cell(widths[1], desc, false)
		w.levelCell(widths[2], r.Severity)
		w.pdf.Ln(-1)
	}
}

func (w *writer) levelCell(width float64, l domain.RiskLevel) {
	c, ok := levelFill[l]
	if !ok {
		c = levelFill[domain.RiskMedium]
	}
	w.fill(c)
	w.cell(width, levelLabel(l), true)
}

// matrix counts risks by severity and status.
func (w *writer) matrix(risks []domain.Risk) {
	w.section("Matriz de Riesgos")
	statuses := []domain.RiskStatus{domain.RiskOpen, domain.RiskMitigated, domain.RiskClosed}
	counts := map[domain.RiskLevel]map[domain.RiskStatus]int{}
	for _, r := range risks {
		if counts[r.Severity] == nil {
			counts[r.Severity] = map[domain.RiskStatus]int{}
		}
		counts[r.Severity][r.Status]++
	}
	widths := []float64{45, 45, 45, 45}
	w.tableHeader(widths, "Nivel", "Abierto", "Mitigado", "Cerrado")
	for _, l := range []domain.RiskLevel{domain.RiskHigh, domain.RiskMedium, domain.RiskLow} {
		w.levelCell(widths[0], l)
		for i, st := range statuses {
			w.cell(widths[i+1], fmt.Sprint(counts[l][st]), false)
		}
		w.pdf.Ln(-1)
	}
}

func (w *writer) roadmapTable(items []domain.RoadmapItem) {
	w.section("Plan de Acción (Roadmap)")
	if len(items) == 0 {
		w.noData("No hay tareas en el roadmap actualmente.")
		return
	}
	widths := []float64{80, 35, 25, 20, 20}
	w.tableHeader(widths, "Tarea", "Categoría", "Prioridad", "Fecha", "Estado")
	for _, it := range items {
		due := "-"
		if it.DueDate != nil {
			due = it.DueDate.Format("02/01/06")
		}
		w.cell(widths[0], it.Title, false)
		w.cell(widths[1], it.Category, false)
		w.levelCell(widths[2], it.Priority)
		w.cell(widths[3], due, false)
		w.cell(widths[4], statusLabel(string(it.Status)), false)
		w.pdf.Ln(-1)
	}
}
