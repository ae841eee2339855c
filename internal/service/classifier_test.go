package service

import (
	"testing"

	"github.com/EglimarRamirez/Implementacion-rag/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	classifier := NewClassifier(testKeywords())

	tests := []struct {
		name      string
		title     string
		docType   models.DocumentType
		procedure models.ProcedureType
	}{
		{
			name:      "codigo tributario is normativa",
			title:     "Codigo Tributario Municipal 2024",
			docType:   models.DocumentTypeNormativa,
			procedure: models.ProcedureTypeGeneral,
		},
		{
			name:      "uppercase title matches the same rule",
			title:     "CODIGO TRIBUTARIO MUNICIPAL",
			docType:   models.DocumentTypeNormativa,
			procedure: models.ProcedureTypeGeneral,
		},
		{
			name:      "guia is procedimiento",
			title:     "Guia para el pago de tasas",
			docType:   models.DocumentTypeProcedimiento,
			procedure: models.ProcedureTypeGeneral,
		},
		{
			name:      "art plus 25 is protocolo de reclamo",
			title:     "Protocolo de reclamo Art. 25",
			docType:   models.DocumentTypeProtocoloReclamo,
			procedure: models.ProcedureTypeReclamo,
		},
		{
			name:      "art without 25 is not protocolo",
			title:     "Informe sobre articulos varios",
			docType:   models.DocumentTypeDesconocido,
			procedure: models.ProcedureTypeGeneral,
		},
		{
			name:      "autoridad is autoridad operativa",
			title:     "Autoridad de aplicacion y contacto",
			docType:   models.DocumentTypeAutoridadOperativa,
			procedure: models.ProcedureTypeGeneral,
		},
		{
			name:      "plan is regularizacion",
			title:     "Plan de pagos para deudas",
			docType:   models.DocumentTypeRegularizacion,
			procedure: models.ProcedureTypeGeneral,
		},
		{
			name:      "unknown title falls through",
			title:     "Memoria anual del municipio",
			docType:   models.DocumentTypeDesconocido,
			procedure: models.ProcedureTypeGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.title)
			assert.Equal(t, tt.docType, got.DocumentType)
			assert.Equal(t, tt.procedure, got.ProcedureType)
		})
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	classifier := NewClassifier(testKeywords())

	// Matches normativa, protocolo and regularizacion keywords at once; the
	// first rule wins.
	got := classifier.Classify("Codigo tributario art 25 plan")
	assert.Equal(t, models.DocumentTypeNormativa, got.DocumentType)
}

func TestClassifyDeterministic(t *testing.T) {
	classifier := NewClassifier(testKeywords())

	first := classifier.Classify("Guia de reclamos art 25")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, classifier.Classify("Guia de reclamos art 25"))
	}
}
