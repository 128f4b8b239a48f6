package insights

// Mensagens de recomendação. O texto e a ordem fazem parte do contrato da API.
const (
	MsgNeedMoreEntries   = "Add more entries to generate meaningful recommendations."
	MsgUnderestimation   = "You consistently underestimate task durations. Consider adding a 20–30% time buffer."
	MsgOverestimation    = "You tend to overestimate task durations. You may be allocating more time than necessary."
	MsgDifficultyBuffer  = "Higher difficulty strongly increases underestimation. Add extra buffer for difficulty ≥ 4."
	MsgDistractionFocus  = "Distractions significantly increase estimation error. Schedule focused sessions."
	MsgStableEstimations = "Your time estimation is relatively stable. Continue tracking to refine insights."
)

const (
	minRecommendationEntries = 3
	biasThreshold            = 0.15
	difficultyCorrThreshold  = 0.4
	distractionCorrThreshold = 0.3
)

// GenerateRecommendations aplica regras fixas sobre o viés médio e as correlações
func GenerateRecommendations[R Record](records []R) []string {
	if len(records) < minRecommendationEntries {
		return []string{MsgNeedMoreEntries}
	}

	avgError := mean(percentErrors(records))
	corr := ComputeCorrelations(records)

	recommendations := []string{}

	// Viés geral
	if avgError > biasThreshold {
		recommendations = append(recommendations, MsgUnderestimation)
	} else if avgError < -biasThreshold {
		recommendations = append(recommendations, MsgOverestimation)
	}

	// Efeito da dificuldade
	if corr.DifficultyVsError > difficultyCorrThreshold {
		recommendations = append(recommendations, MsgDifficultyBuffer)
	}

	// Efeito das distrações
	if corr.DistractionsVsError > distractionCorrThreshold {
		recommendations = append(recommendations, MsgDistractionFocus)
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, MsgStableEstimations)
	}

	return recommendations
}
