package builtin

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/notefold/aimesh/workflow"
)

// stopwords excluded from tag extraction. Intentionally small; the builtin
// trades recall for zero dependencies.
var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "also": {}, "been": {}, "before": {}, "being": {},
	"between": {}, "both": {}, "could": {}, "does": {}, "doing": {}, "down": {},
	"each": {}, "from": {}, "have": {}, "having": {}, "here": {}, "into": {},
	"just": {}, "more": {}, "most": {}, "only": {}, "other": {}, "over": {},
	"same": {}, "should": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "under": {}, "very": {}, "were": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "while": {}, "will": {},
	"with": {}, "would": {}, "your": {},
}

const (
	defaultMaxTags   = 5
	maxTitleLength   = 80
	maxSummaryLength = 240
	minTagWordLength = 4
)

// Metadata is the always-available metadata implementation. It derives a
// title, tags and summary from note text with plain heuristics: first line
// for the title, word frequency for tags, leading sentences for the summary.
type Metadata struct{}

// NewMetadata creates the builtin metadata workflow.
func NewMetadata() *Metadata { return &Metadata{} }

// Info implements workflow.Workflow.
func (m *Metadata) Info() workflow.Info {
	return workflow.Info{
		Type:        workflow.TypeMetadata,
		ID:          "builtin",
		Name:        "Builtin Metadata",
		Description: "Derives titles, tags and summaries heuristically without external services",
	}
}

// Available implements workflow.Workflow.
func (m *Metadata) Available() bool { return true }

// Generate implements workflow.Metadata.
func (m *Metadata) Generate(_ context.Context, req workflow.MetadataRequest) (*workflow.MetadataResult, error) {
	maxTags := req.MaxTags
	if maxTags <= 0 {
		maxTags = defaultMaxTags
	}

	title := req.Title
	if title == "" {
		title = deriveTitle(req.Body)
	}

	return &workflow.MetadataResult{
		Title:   title,
		Tags:    deriveTags(req.Body, maxTags),
		Summary: deriveSummary(req.Body),
	}, nil
}

// deriveTitle takes the first non-empty line, strips markdown heading
// markers and truncates on a word boundary.
func deriveTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line == "" {
			continue
		}
		return truncateWords(line, maxTitleLength)
	}
	return "Untitled"
}

// deriveTags ranks words by frequency, filtering short words and stopwords.
// Ties break alphabetically so results are deterministic.
func deriveTags(body string, maxTags int) []string {
	counts := map[string]int{}
	for _, word := range splitWords(body) {
		word = strings.ToLower(word)
		if len(word) < minTagWordLength {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		counts[word]++
	}

	tags := make([]string, 0, len(counts))
	for w := range counts {
		tags = append(tags, w)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// deriveSummary keeps the first two sentences, bounded by maxSummaryLength.
func deriveSummary(body string) string {
	text := strings.Join(strings.Fields(body), " ")
	if text == "" {
		return ""
	}

	var end, sentences int
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
			end = i + 1
			if sentences == 2 {
				break
			}
		}
	}
	if sentences == 0 {
		end = len(text)
	}
	return truncateWords(text[:end], maxSummaryLength)
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// truncateWords cuts s to at most limit bytes without splitting a word.
func truncateWords(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := strings.LastIndex(s[:limit], " ")
	if cut <= 0 {
		cut = limit
	}
	return strings.TrimRight(s[:cut], " ,;:")
}
