package domain

// Document is one indexed text chunk. Owned by the vector store once added
// and never mutated after insertion.
type Document struct {
	Text string `json:"text"`
	// Source identifies the originating file or corpus entry.
	Source string `json:"source"`
	// Chunk is the chunk index within the source document.
	Chunk int `json:"chunk"`
	// IngestedAt is the unix ingestion timestamp in seconds.
	// Zero for the bundled sample corpus.
	IngestedAt int64 `json:"ingested_at"`
	// Sample marks documents from the bundled seed corpus, as opposed to
	// genuine user uploads.
	Sample bool `json:"sample"`
}

// ScoredCandidate pairs a raw cosine similarity with a document.
// Produced per search call; the base score is never mutated.
type ScoredCandidate struct {
	Score    float64
	Document Document
}

// RankedResult is a ScoredCandidate after provenance/recency adjustment.
// The ordering of a RankedResult slice is the ranker's output contract.
type RankedResult struct {
	Score    float64
	Document Document
}
