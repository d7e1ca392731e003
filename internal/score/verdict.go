package score

import "github.com/ppiankov/verinex/internal/model"

// Bucket upper bounds (exclusive)
const (
	lowBelow       = 30
	mediumLowBelow = 50
	mediumBelow    = 70
	highBelow      = 85

	confidenceBoost = 15
)

var verdicts = map[model.VeracityLevel]model.Verdict{
	model.LevelLow: {
		Level:       model.LevelLow,
		Label:       "PROVAVELMENTE FALSA",
		Badge:       "badge-danger",
		Progress:    "veracity-low",
		Description: "Esta notícia apresenta várias características comuns em desinformação. Recomendamos verificar em fontes oficiais antes de compartilhar.",
	},
	model.LevelMediumLow: {
		Level:       model.LevelMediumLow,
		Label:       "SUSPEITA",
		Badge:       "badge-warning",
		Progress:    "veracity-medium-low",
		Description: "Há indícios de informações incorretas ou fora de contexto. Consulte outras fontes confiáveis para confirmar.",
	},
	model.LevelMedium: {
		Level:       model.LevelMedium,
		Label:       "POSSIVELMENTE VERDADEIRA",
		Badge:       "badge-info",
		Progress:    "veracity-medium",
		Description: "A notícia parece ter fundamento, mas alguns pontos podem precisar de confirmação adicional.",
	},
	model.LevelHigh: {
		Level:       model.LevelHigh,
		Label:       "PROVAVELMENTE VERDADEIRA",
		Badge:       "badge-success",
		Progress:    "veracity-high",
		Description: "As informações parecem consistentes e bem fundamentadas. A notícia tem alta probabilidade de ser verdadeira.",
	},
	model.LevelVeryHigh: {
		Level:       model.LevelVeryHigh,
		Label:       "ALTAMENTE CONFIÁVEL",
		Badge:       "badge-success",
		Progress:    "veracity-very-high",
		Description: "Esta notícia apresenta todas as características de informações verificadas e confiáveis.",
	},
}

var (
	cautiousRecommendations = []string{
		"Verifique em sites oficiais do governo",
		"Consulte agências de fact-checking",
		"Evite compartilhar até confirmar",
	}
	confidentRecommendations = []string{
		"A notícia parece confiável",
		"Consulte sempre múltiplas fontes",
		"Desenvolva senso crítico sobre fontes",
	}
)

// Level returns the bucket a percentage falls into
func Level(percentage int) model.VeracityLevel {
	switch {
	case percentage < lowBelow:
		return model.LevelLow
	case percentage < mediumLowBelow:
		return model.LevelMediumLow
	case percentage < mediumBelow:
		return model.LevelMedium
	case percentage < highBelow:
		return model.LevelHigh
	default:
		return model.LevelVeryHigh
	}
}

// Classify maps a percentage to its fixed verdict
func Classify(percentage int) model.Verdict {
	return verdicts[Level(percentage)]
}

// ModelConfidence is the displayed "model confidence" bar: percentage + 15, capped at 100
func ModelConfidence(percentage int) int {
	return clamp(percentage+confidenceBoost, 0, 100)
}

// Recommendations returns the advice list shown under the result
func Recommendations(percentage int) []string {
	if percentage < mediumLowBelow {
		return append([]string(nil), cautiousRecommendations...)
	}
	return append([]string(nil), confidentRecommendations...)
}
