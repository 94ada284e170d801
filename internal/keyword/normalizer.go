// Package keyword turns raw whitespace-delimited tokens into canonical
// index keywords. A keyword is the lowercased token with trailing
// punctuation removed, consisting only of letters, that is not a noise
// word and is longer than one character.
package keyword

import "strings"

// Normalizer holds the noise-word set applied during normalization. The
// set is fixed at construction; Normalize is a pure function of its input
// and that set.
type Normalizer struct {
	noiseWords map[string]struct{}
}

// NewNormalizer builds a Normalizer from a list of noise words. The words
// are lowercased so lookups match normalized tokens.
func NewNormalizer(noiseWords []string) *Normalizer {
	set := make(map[string]struct{}, len(noiseWords))
	for _, w := range noiseWords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Normalizer{noiseWords: set}
}

// NoiseWordCount reports the size of the noise-word set.
func (n *Normalizer) NoiseWordCount() int {
	return len(n.noiseWords)
}

// Normalize converts a raw token into a keyword. The boolean is false when
// the token does not qualify: single characters, noise words, tokens with a
// trailing non-letter that is not one of . , ? : ; !, and tokens containing
// any non-letter after stripping are all rejected.
func (n *Normalizer) Normalize(token string) (string, bool) {
	word := strings.ToLower(token)
	if len(word) <= 1 {
		return "", false
	}
	if _, isNoise := n.noiseWords[word]; isNoise {
		return "", false
	}

	// Strip trailing punctuation one character at a time. Anything else
	// trailing (digits, symbols) disqualifies the whole token.
	for len(word) > 0 && !isLetter(word[len(word)-1]) {
		if !isPunctuation(word[len(word)-1]) {
			return "", false
		}
		word = word[:len(word)-1]
	}
	if len(word) <= 1 {
		return "", false
	}
	for i := 0; i < len(word); i++ {
		if !isLetter(word[i]) {
			return "", false
		}
	}
	return word, true
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isPunctuation(c byte) bool {
	switch c {
	case '.', ',', '?', ':', ';', '!':
		return true
	}
	return false
}
