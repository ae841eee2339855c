package service

import (
	"strings"

	"github.com/EglimarRamirez/Implementacion-rag/internal/models"
	"github.com/EglimarRamirez/Implementacion-rag/pkg/config"
)

// Classifier infers a document's coarse category from its title using ordered
// keyword rules. The first matching rule wins, so a title matching several
// keyword sets always resolves the same way.
type Classifier struct {
	keywords config.KeywordSets
}

func NewClassifier(keywords config.KeywordSets) *Classifier {
	return &Classifier{keywords: keywords}
}

// Classify is total and deterministic: every title maps to exactly one
// classification, unknown titles to desconocido/general.
func (c *Classifier) Classify(title string) models.Classification {
	t := strings.ToLower(title)

	switch {
	case containsAny(t, c.keywords.Normativa):
		return models.Classification{
			DocumentType:  models.DocumentTypeNormativa,
			ProcedureType: models.ProcedureTypeGeneral,
		}
	case containsAny(t, c.keywords.Procedimiento):
		return models.Classification{
			DocumentType:  models.DocumentTypeProcedimiento,
			ProcedureType: models.ProcedureTypeGeneral,
		}
	case containsAll(t, c.keywords.ProtocoloReclamo):
		return models.Classification{
			DocumentType:  models.DocumentTypeProtocoloReclamo,
			ProcedureType: models.ProcedureTypeReclamo,
		}
	case containsAny(t, c.keywords.Autoridad):
		return models.Classification{
			DocumentType:  models.DocumentTypeAutoridadOperativa,
			ProcedureType: models.ProcedureTypeGeneral,
		}
	case containsAny(t, c.keywords.Regularizacion):
		return models.Classification{
			DocumentType:  models.DocumentTypeRegularizacion,
			ProcedureType: models.ProcedureTypeGeneral,
		}
	default:
		return models.Classification{
			DocumentType:  models.DocumentTypeDesconocido,
			ProcedureType: models.ProcedureTypeGeneral,
		}
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func containsAll(s string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	for _, kw := range keywords {
		if !strings.Contains(s, kw) {
			return false
		}
	}
	return true
}
