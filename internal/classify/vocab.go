package classify

// #region vocab-entry

// vocabEntry binds a tag to the keyword phrases that imply it. Entries are
// ordered slices, not maps, so classification order is deterministic.
type vocabEntry struct {
	tag      string
	keywords []string
}

// #endregion vocab-entry

// #region themes

var themeVocab = []vocabEntry{
	{"open_source", []string{"open source", "github", "apache", "mit license", "open-source", "open weights"}},
	{"reasoning", []string{"reasoning", "o1", "r1", "chain of thought", "thinking", "cot"}},
	{"benchmarks", []string{"benchmark", "sota", "performance", "evaluation", "leaderboard"}},
	{"product_launch", []string{"launch", "announce", "available now", "release", "introducing"}},
	{"funding", []string{"funding", "raised", "series a", "series b", "investment", "valuation"}},
	{"safety", []string{"safety", "alignment", "harmful", "responsible ai", "guardrails"}},
	{"multimodal", []string{"vision", "image", "video", "audio", "multimodal"}},
	{"agents", []string{"agent", "autonomous", "tool use", "function calling", "agentic"}},
	{"training", []string{"training", "fine-tuning", "rlhf", "pre-training", "distillation"}},
	{"efficiency", []string{"efficient", "faster", "cheaper", "optimization", "quantization"}},
	{"enterprise", []string{"enterprise", "business", "b2b", "api", "production"}},
	{"research", []string{"paper", "arxiv", "study", "research", "novel"}},
}

// #endregion themes

// #region types

var typeVocab = []vocabEntry{
	{"research_paper", []string{"arxiv", "paper", "we propose", "we present", "study shows"}},
	{"technical_deep_dive", []string{"architecture", "implementation", "how it works", "under the hood", "technical"}},
	{"opinion_piece", []string{"opinion", "why i", "thoughts on", "my take", "reflection"}},
	{"press_release", []string{"announces", "proud to", "excited to", "thrilled to", "pleased to"}},
	{"tutorial", []string{"how to", "guide", "tutorial", "step by step", "walkthrough"}},
	{"news", []string{"breaking", "reportedly", "according to", "sources say"}},
}

// DefaultType is assigned when neither keywords nor the fallback match.
const DefaultType = "news"

// #endregion types

// #region insights

var insightVocab = []vocabEntry{
	{"technical_details", []string{"architecture", "parameters", "training", "inference", "model size"}},
	{"practical_takeaways", []string{"you can", "try this", "use case", "application", "how to use"}},
	{"industry_analysis", []string{"market", "competition", "landscape", "trend", "industry"}},
	{"hot_take", []string{"controversial", "unpopular opinion", "i believe", "actually", "hot take"}},
}

// #endregion insights

// #region tag-lists

func vocabTags(entries []vocabEntry) []string {
	tags := make([]string, len(entries))
	for i, e := range entries {
		tags[i] = e.tag
	}
	return tags
}

// ThemeTags, TypeTags, and InsightTags expose the fixed vocabularies.
func ThemeTags() []string   { return vocabTags(themeVocab) }
func TypeTags() []string    { return vocabTags(typeVocab) }
func InsightTags() []string { return vocabTags(insightVocab) }

// #endregion tag-lists
