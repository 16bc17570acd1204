package risks

import "lawbix/internal/domain"

// Sources reported when sample risks are returned instead of stored ones.
const (
	SourceTable         = "risks"
	SourceMockNoCompany = "mock_no_company"
	SourceMockError     = "mock_error"
	SourceMockData      = "mock_data"
)

const (
	MsgRegisterCompany = "No company found. Please register your company first."
	MsgCompanyError    = "Error finding company. Showing sample risks."
	MsgSamples         = "Mostrando riesgos de ejemplo. Complete el diagnóstico para análisis personalizado."
)

// Samples returns the example risks shown before a company has real data.
func Samples() []domain.Risk {
	return []domain.Risk{
		{
			ID:          1,
			Title:       "Contratos laborales sin formalizar",
			Description: "Algunos empleados no cuentan con contrato escrito, lo que genera riesgo de sanciones laborales y demandas.",
			Category:    "Laboral",
			Severity:    domain.RiskHigh,
			Probability: "high",
			Impact:      "high",
			Status:      domain.RiskOpen,
			Mitigation:  "Formalizar contratos inmediatamente y revisar cumplimiento de seguridad social",
			Source:      SourceMockData,
		},
		{
			ID:          2,
			Title:       "Marca comercial sin registro",
			Description: "La marca no está registrada, existe riesgo de uso no autorizado por terceros.",
			Category:    "Propiedad Intelectual",
			Severity:    domain.RiskMedium,
			Probability: "medium",
			Impact:      "medium",
			Status:      domain.RiskOpen,
			Mitigation:  "Iniciar trámite de registro de marca ante la autoridad competente",
			Source:      SourceMockData,
		},
		{
			ID:          3,
			Title:       "Política de datos personales pendiente",
			Description: "No se cuenta con política de tratamiento de datos personales conforme a normativa.",
			Category:    "Protección de Datos",
			Severity:    domain.RiskMedium,
			Probability: "high",
			Impact:      "high",
			Status:      domain.RiskOpen,
			Mitigation:  "Elaborar e implementar política de privacidad y registro ante autoridad",
			Source:      SourceMockData,
		},
	}
}
