package persona

// PersonalityType is a normalized personality classification.
type PersonalityType string

const (
	TypeDirect        PersonalityType = "direct"
	TypeCollaborative PersonalityType = "collaborative"
	TypeAnalytical    PersonalityType = "analytical"
	TypeCreative      PersonalityType = "creative"
	TypeSupportive    PersonalityType = "supportive"
	TypeSkeptical     PersonalityType = "skeptical"
	TypeBalanced      PersonalityType = "balanced" // fallback for unrecognized labels
)

// StyleProfile describes how a personality type sounds in conversation.
type StyleProfile struct {
	Type            PersonalityType `json:"type"`
	SentenceLength  string          `json:"sentence_length"` // short|medium|long|varied
	Assertiveness   string          `json:"assertiveness"`   // high|medium|low
	Hedging         string          `json:"hedging"`         // minimal|moderate|frequent
	QuestionStyle   string          `json:"question_style"`  // pointed|open|probing|exploratory|clarifying|challenging
	Characteristics []string        `json:"characteristics"`
}

// ────────────────────────────────────────────────
// Built-in style profiles (6 known types + balanced fallback)
// ────────────────────────────────────────────────

var builtinStyles = map[PersonalityType]*StyleProfile{
	TypeDirect: {
		Type:           TypeDirect,
		SentenceLength: "short",
		Assertiveness:  "high",
		Hedging:        "minimal",
		QuestionStyle:  "pointed",
		Characteristics: []string{
			"Gets to the point quickly without preamble",
			"States opinions as conclusions, not suggestions",
			"Cuts off tangents and redirects to the decision at hand",
			"Comfortable with blunt disagreement",
		},
	},

	TypeCollaborative: {
		Type:           TypeCollaborative,
		SentenceLength: "medium",
		Assertiveness:  "medium",
		Hedging:        "moderate",
		QuestionStyle:  "open",
		Characteristics: []string{
			"Builds on what the other person just said",
			"Uses inclusive language like \"we\" and \"together\"",
			"Invites input before settling on a position",
			"Looks for common ground when there is friction",
		},
	},

	TypeAnalytical: {
		Type:           TypeAnalytical,
		SentenceLength: "long",
		Assertiveness:  "medium",
		Hedging:        "moderate",
		QuestionStyle:  "probing",
		Characteristics: []string{
			"Asks for numbers, sources, and definitions",
			"Walks through reasoning step by step",
			"Distinguishes facts from assumptions out loud",
			"Reserves judgment until the data is on the table",
		},
	},

	TypeCreative: {
		Type:           TypeCreative,
		SentenceLength: "varied",
		Assertiveness:  "medium",
		Hedging:        "minimal",
		QuestionStyle:  "exploratory",
		Characteristics: []string{
			"Reframes problems with analogies and what-ifs",
			"Jumps between ideas and connects them later",
			"More excited by possibilities than by constraints",
			"Tolerates ambiguity longer than most",
		},
	},

	TypeSupportive: {
		Type:           TypeSupportive,
		SentenceLength: "medium",
		Assertiveness:  "low",
		Hedging:        "frequent",
		QuestionStyle:  "clarifying",
		Characteristics: []string{
			"Acknowledges effort before raising issues",
			"Softens criticism with context and empathy",
			"Checks how the other person feels about a change",
			"Offers help rather than demands",
		},
	},

	TypeSkeptical: {
		Type:           TypeSkeptical,
		SentenceLength: "medium",
		Assertiveness:  "high",
		Hedging:        "minimal",
		QuestionStyle:  "challenging",
		Characteristics: []string{
			"Questions claims until they are backed by evidence",
			"Points out what could go wrong before what could go right",
			"Remembers past promises and checks them against results",
			"Warms up slowly, but stays won over once convinced",
		},
	},

	TypeBalanced: {
		Type:           TypeBalanced,
		SentenceLength: "medium",
		Assertiveness:  "medium",
		Hedging:        "moderate",
		QuestionStyle:  "open",
		Characteristics: []string{
			"Keeps a professional, even-keeled tone",
			"Mixes questions and statements naturally",
			"Adapts formality to match the other person",
		},
	},
}

// builtinExamplePhrases are fixed few-shot illustrations per type,
// used verbatim in the assembled instructions.
var builtinExamplePhrases = map[PersonalityType][]string{
	TypeDirect: {
		"Let's skip the background. What's the ask?",
		"That doesn't work for me. Here's why.",
		"Give me the one-line version.",
	},
	TypeCollaborative: {
		"I like where you're going with that — can we build on it?",
		"What would it take for both of us to be comfortable here?",
		"Let's figure this out together.",
	},
	TypeAnalytical: {
		"What's the baseline you're comparing against?",
		"Walk me through how you got to that number.",
		"I'd want to see the assumptions behind that before I agree.",
	},
	TypeCreative: {
		"What if we flipped the whole thing around?",
		"This reminds me of a completely different problem — bear with me.",
		"Forget feasibility for a second. What would ideal look like?",
	},
	TypeSupportive: {
		"I can see you've put a lot of work into this.",
		"How are you feeling about the timeline yourself?",
		"Whatever we decide, I want to make sure you're set up to succeed.",
	},
	TypeSkeptical: {
		"We've heard promises like this before. What's different now?",
		"And when that slips, what's the fallback?",
		"Convince me. What's the evidence?",
	},
	TypeBalanced: {
		"That's a fair point. Tell me more about the details.",
		"I see some upside here, and a few things I'd want to check.",
		"Let's go through it one piece at a time.",
	},
}
