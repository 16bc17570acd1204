package documents

import "lawbix/internal/domain"

const (
	TemplateDiagnosis  = "diagnosis_report"
	TemplateCompliance = "compliance_report"
	TemplateRiskMatrix = "risk_matrix"
)

var templates = []domain.Template{
	{
		ID:          TemplateDiagnosis,
		Name:        "Diagnóstico Legal Profesional",
		Description: "Reporte completo del diagnóstico legal de la empresa",
		Type:        "pdf",
	},
	{
		ID:          TemplateCompliance,
		Name:        "Reporte de Cumplimiento",
		Description: "Análisis de cumplimiento normativo",
		Type:        "pdf",
	},
	{
		ID:          TemplateRiskMatrix,
		Name:        "Matriz de Riesgos",
		Description: "Matriz detallada de riesgos identificados",
		Type:        "pdf",
	},
}

// Templates lists the report kinds that can be generated.
func Templates() []domain.Template {
	return append([]domain.Template(nil), templates...)
}

// Lookup finds a template by id. An empty id selects the diagnosis report.
func Lookup(id string) (domain.Template, bool) {
	if id == "" {
		id = TemplateDiagnosis
	}
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Template{}, false
}
