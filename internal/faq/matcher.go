package faq

// Entry pairs a trigger phrase with its canned answer. The trigger is used
// only for scoring and is never shown to the user.
type Entry struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Matcher decides whether a canned answer applies to a user message.
type Matcher interface {
	// Match returns the best canned answer for the message, or ok=false when
	// no entry scores high enough.
	Match(message string) (answer string, ok bool)
	// Len reports the number of loaded entries.
	Len() int
}

// MatchThreshold is the minimum similarity a trigger must strictly exceed
// for its answer to be returned. Biases toward precision: a wrong canned
// answer is worse than falling through to the model.
const MatchThreshold = 0.6

// OverlapMatcher scans every entry with word-overlap scoring. The table is
// small and static, so a linear scan per call is fine. Entries keep their
// load order: when two triggers tie at the maximum score, the first one wins.
type OverlapMatcher struct {
	entries []Entry
}

func NewOverlapMatcher(entries []Entry) *OverlapMatcher {
	return &OverlapMatcher{entries: entries}
}

func (m *OverlapMatcher) Match(message string) (string, bool) {
	best := 0.0
	answer := ""
	found := false

	for _, e := range m.entries {
		score := Similarity(message, e.Question)
		if score > best {
			best = score
			answer = e.Answer
			found = true
		}
	}

	if !found || best <= MatchThreshold {
		return "", false
	}
	return answer, true
}

func (m *OverlapMatcher) Len() int {
	return len(m.entries)
}
