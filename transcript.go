// Package roleplaysdk implements the response-instruction engine for a
// text-based stakeholder role-play simulator. Given a persona, a scenario
// and the conversation transcript, it derives a stable speaking style,
// tracks the persona's emotional state, mines the transcript for
// referenceable context, and assembles the instruction payload for the
// external inference call.
package roleplaysdk

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerUser    Speaker = "user"
	SpeakerPersona Speaker = "persona"
)

// TranscriptEntry is one turn of the conversation. The transcript is an
// append-only ordered sequence; the engine only ever reads it.
type TranscriptEntry struct {
	Speaker Speaker `json:"speaker"`
	Content string  `json:"content"`
}

// userIndices returns the indices of all user turns in order.
func userIndices(transcript []TranscriptEntry) []int {
	var out []int
	for i, entry := range transcript {
		if entry.Speaker == SpeakerUser {
			out = append(out, i)
		}
	}
	return out
}
