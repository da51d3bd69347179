package risk

import (
	"regexp"
	"strings"
)

// #region thresholds
// DisagreementThreshold is the rounded score above which the two models are
// considered to disagree.
const DisagreementThreshold = 0.55

// #endregion thresholds

// #region keyword-tables
// certaintyPhrases are matched as raw substrings, so "never" also fires
// inside "whenever".
var certaintyPhrases = []string{
	"definitely", "certainly", "guaranteed", "always", "never",
	"100%", "no doubt", "proven", "undeniable",
}

// highStakesHints are matched as raw substrings of the prompt.
var highStakesHints = []string{
	"diagnose", "treatment", "medication", "legal", "lawsuit", "attorney",
	"invest", "stock", "tax", "loan", "credit", "bank",
}

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(pregnan|pregnancy)\b`),
	regexp.MustCompile(`\b(depress|suicid|self-harm)\b`),
	regexp.MustCompile(`\b(religion|muslim|christian|hindu|jewish)\b`),
	regexp.MustCompile(`\b(credit score|bank account)\b`),
}

// #endregion keyword-tables

// #region rule
// Input is the text under assessment.
type Input struct {
	Prompt    string
	ResponseA string
	ResponseB string
}

// rule pairs a predicate with the flag it raises.
type rule struct {
	flag  Flag
	fires func(in Input, score float64) bool
}

// rules is evaluated in order and every match is emitted.
var rules = []rule{
	{
		flag: Flag{
			Type:     FlagModelDisagreement,
			Severity: SeverityHigh,
			Reason:   "The two models produced meaningfully different answers for the same prompt.",
		},
		fires: func(_ Input, score float64) bool {
			return score > DisagreementThreshold
		},
	},
	{
		flag: Flag{
			Type:     FlagOverconfidenceLanguage,
			Severity: SeverityMedium,
			Reason:   "Strong certainty words can mislead when the answer is uncertain.",
		},
		fires: func(in Input, _ float64) bool {
			return containsAny(in.ResponseA, certaintyPhrases) || containsAny(in.ResponseB, certaintyPhrases)
		},
	},
	{
		flag: Flag{
			Type:     FlagHighStakesAdvice,
			Severity: SeverityHigh,
			Reason:   "High-stakes topic. Incorrect advice can cause real harm.",
		},
		fires: func(in Input, _ float64) bool {
			return containsAny(in.Prompt, highStakesHints)
		},
	},
	{
		flag: Flag{
			Type:     FlagSensitiveInference,
			Severity: SeverityHigh,
			Reason:   "The response appears to discuss or infer sensitive personal attributes.",
		},
		fires: func(in Input, _ float64) bool {
			return matchesAny(in.ResponseA, sensitivePatterns) || matchesAny(in.ResponseB, sensitivePatterns)
		},
	},
}

// RuleTypes lists the flag types in evaluation order.
func RuleTypes() []FlagType {
	out := make([]FlagType, len(rules))
	for i, r := range rules {
		out[i] = r.flag.Type
	}
	return out
}

// FlagFor returns the flag a rule of type t raises.
func FlagFor(t FlagType) (Flag, bool) {
	for _, r := range rules {
		if r.flag.Type == t {
			return r.flag, true
		}
	}
	return Flag{}, false
}

// #endregion rule

// #region matchers
func containsAny(text string, words []string) bool {
	t := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	t := strings.ToLower(text)
	for _, p := range patterns {
		if p.MatchString(t) {
			return true
		}
	}
	return false
}

// #endregion matchers
