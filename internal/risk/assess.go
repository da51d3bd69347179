package risk

// #region assess
// Assess scores the disagreement between two responses and evaluates every
// rule. It is total over all inputs and safe for concurrent use.
func Assess(prompt, responseA, responseB string) Assessment {
	return AssessInput(Input{Prompt: prompt, ResponseA: responseA, ResponseB: responseB})
}

// AssessInput is Assess over a bundled Input.
func AssessInput(in Input) Assessment {
	score := Disagreement(in.ResponseA, in.ResponseB)
	flags := make([]Flag, 0, len(rules))
	for _, r := range rules {
		if r.fires(in, score) {
			flags = append(flags, r.flag)
		}
	}
	return Assessment{DisagreementScore: score, Flags: flags}
}

// #endregion assess
