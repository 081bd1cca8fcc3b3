package search

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

// ErrEmptyVocabulary signals that fitting produced no usable terms
// (for example, an all-stop-word corpus). Callers degrade to the
// rule-based fallback instead of propagating this.
var ErrEmptyVocabulary = errors.New("empty vocabulary")

// Vectorizer builds TF-IDF term-weight vectors in a shared space for
// candidate documents and queries. A fresh vectorizer is fitted per request
// over the candidate set; it is not shared between requests.
type Vectorizer struct {
	ngramMax   int
	vocabLimit int

	vocab map[string]int
	idf   []float64
}

// NewVectorizer creates a vectorizer producing word n-grams up to ngramMax
// with the vocabulary capped at vocabLimit terms.
func NewVectorizer(ngramMax, vocabLimit int) *Vectorizer {
	if ngramMax < 1 {
		ngramMax = 1
	}
	return &Vectorizer{ngramMax: ngramMax, vocabLimit: vocabLimit}
}

// Fit learns the vocabulary and IDF weights from the document corpus.
func (v *Vectorizer) Fit(docs []string) error {
	docCount := float64(len(docs))
	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)

	for _, doc := range docs {
		terms := v.terms(doc)
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			corpusFreq[t]++
			if _, ok := seen[t]; !ok {
				docFreq[t]++
				seen[t] = struct{}{}
			}
		}
	}

	if len(corpusFreq) == 0 {
		return ErrEmptyVocabulary
	}

	kept := make([]string, 0, len(corpusFreq))
	for t := range corpusFreq {
		kept = append(kept, t)
	}
	// Cap the vocabulary at the most frequent terms; ties break
	// lexicographically so the vocabulary is deterministic.
	if v.vocabLimit > 0 && len(kept) > v.vocabLimit {
		sort.Slice(kept, func(i, j int) bool {
			if corpusFreq[kept[i]] != corpusFreq[kept[j]] {
				return corpusFreq[kept[i]] > corpusFreq[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:v.vocabLimit]
	}
	sort.Strings(kept)

	v.vocab = make(map[string]int, len(kept))
	v.idf = make([]float64, len(kept))
	for i, t := range kept {
		v.vocab[t] = i
		v.idf[i] = math.Log(docCount/(float64(docFreq[t])+1)) + 1
	}

	return nil
}

// Transform converts text into a vector in the fitted term space.
// Terms outside the vocabulary contribute nothing; an all-stop-word text
// yields an all-zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	vector := make([]float64, len(v.vocab))
	terms := v.terms(text)
	if len(terms) == 0 {
		return vector
	}

	tf := make(map[string]float64, len(terms))
	for _, t := range terms {
		tf[t]++
	}

	total := float64(len(terms))
	for t, count := range tf {
		if idx, ok := v.vocab[t]; ok {
			vector[idx] = (count / total) * v.idf[idx]
		}
	}

	return vector
}

// terms tokenizes text and expands word n-grams up to ngramMax.
func (v *Vectorizer) terms(text string) []string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	terms := make([]string, 0, len(tokens)*v.ngramMax)
	terms = append(terms, tokens...)
	for n := 2; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// tokenize splits text into lowercase alphanumeric tokens with stop words
// and single-character fragments removed.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// cosineSimilarity is the normalized dot product of two weight vectors.
// With non-negative weights the result lies in [0,1]; a zero vector on
// either side scores 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
