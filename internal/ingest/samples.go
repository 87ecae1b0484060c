package ingest

// SampleDoc is one bundled seed-corpus document.
type SampleDoc struct {
	Source string
	Text   string
}

// SampleCorpus returns the bundled NebulaByte dialog corpus indexed at
// startup so retrieval answers queries before any upload happens. Seed
// documents carry a zero ingestion timestamp and the sample flag, so the
// ranker never grants them provenance or recency bonuses.
func SampleCorpus() []SampleDoc {
	return []SampleDoc{
		{
			Source: "dialog1.pdf",
			Text: "NebulaByte Dialog — RAG benefits\n\n" +
				"A: What are the benefits of RAG?\n" +
				"B: It grounds LLMs with retrieval, improving factuality.\n" +
				"A: How about performance?\n" +
				"B: With a compact vector index and small embeddings, it's fast and lightweight.",
		},
		{
			Source: "dialog2.pdf",
			Text: "NebulaByte Dialog — Multi-agent routing\n\n" +
				"A: How to route queries in a multi-agent setup?\n" +
				"B: Combine rule-based hints with an LLM controller.",
		},
		{
			Source: "dialog3.pdf",
			Text: "NebulaByte Dialog — Controller design\n\n" +
				"A: What rules should the controller have?\n" +
				"B: Document summarize -> retrieval; recent papers -> arXiv; latest news -> web.",
		},
		{
			Source: "dialog4.pdf",
			Text: "NebulaByte Dialog — ArXiv scanning strategies\n\n" +
				"A: How to find recent papers efficiently?\n" +
				"B: Use the arXiv API with query filters and summarize abstracts.",
		},
		{
			Source: "dialog5.pdf",
			Text: "NebulaByte Dialog — Web search vs. curated corpora\n\n" +
				"A: When to use web search?\n" +
				"B: For latest developments; curated corpora for depth and reliability.",
		},
	}
}
