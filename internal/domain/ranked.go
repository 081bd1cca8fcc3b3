package domain

// RankedTile pairs a product with its relevance score.
// Scores are cosine similarities over non-negative term weights, so they
// always lie in [0,1].
type RankedTile struct {
	Product Product
	Score   float64
}
