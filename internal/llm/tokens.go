package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// EstimateTokens counts tokens for text with the model's tokenizer. When the
// encoding can't be loaded (it may fetch vocabularies on first use), a
// ~4-characters-per-token heuristic stands in; estimates only feed logging
// and the debug endpoint, so precision is not critical.
func EstimateTokens(text string) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel(Model)
		if err == nil {
			encoding = enc
		}
	})

	if encoding != nil {
		return len(encoding.Encode(text, nil, nil))
	}
	return (len(text) + 3) / 4
}
