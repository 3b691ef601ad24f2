package router

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"mcprouter/internal/config"

	"github.com/mark3labs/mcp-go/mcp"
)

// Weights for combining the upstream-level and tool-level overlap scores.
// Tool text is the stronger signal, but the upstream's name and tags still
// matter for vague queries.
const (
	upstreamWeight = 0.4
	toolWeight     = 0.6
)

const maxReasonTokens = 3

// Rank scores every tool against a free-text query and returns the best
// candidates, at most limit (limit <= 0 means no limit). Upstream ids missing
// from the definitions map are skipped. Rank is pure and deterministic: no
// I/O, no shared state, and the reason string makes each score auditable.
func Rank(query string, toolsByUpstream map[string][]mcp.Tool, defsByUpstream map[string]config.UpstreamDefinition, limit int) []RankedTool {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	var candidates []RankedTool
	for id, tools := range toolsByUpstream {
		def, ok := defsByUpstream[id]
		if !ok {
			continue
		}

		upstreamText := strings.Join(append([]string{def.Label(), def.Description}, def.Tags...), " ")
		upstreamScore, upstreamMatches := overlap(queryTokens, tokenize(upstreamText))

		for _, tool := range tools {
			toolText := strings.Join([]string{tool.Name, tool.Annotations.Title, tool.Description}, " ")
			toolScore, toolMatches := overlap(queryTokens, tokenize(toolText))

			combined := upstreamWeight*upstreamScore + toolWeight*toolScore
			if combined <= 0 {
				continue
			}

			candidates = append(candidates, RankedTool{
				UpstreamID:   id,
				UpstreamName: def.Label(),
				Tool:         tool.Name,
				Description:  tool.Description,
				Score:        math.Round(combined*100) / 100,
				Reason:       matchReason(upstreamMatches, toolMatches),
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Tool != candidates[j].Tool {
			return candidates[i].Tool < candidates[j].Tool
		}
		return candidates[i].UpstreamID < candidates[j].UpstreamID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// tokenize lower-cases the text and splits it on any non-alphanumeric rune.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// overlap computes the normalized lexical match strength between the query
// tokens and the target tokens, in [0,1]. Each query token earns 1.0 for an
// exact match in the target, or 0.5 for the first substring hit in either
// direction; the sum is divided by the query token count. The second return
// value records the target token matched per query token, in query order.
func overlap(queryTokens, targetTokens []string) (float64, []string) {
	if len(targetTokens) == 0 {
		return 0, nil
	}

	targetSet := make(map[string]struct{}, len(targetTokens))
	for _, t := range targetTokens {
		targetSet[t] = struct{}{}
	}

	var sum float64
	var matched []string
	for _, qt := range queryTokens {
		if _, ok := targetSet[qt]; ok {
			sum += 1.0
			matched = append(matched, qt)
			continue
		}
		for _, tt := range targetTokens {
			if strings.Contains(tt, qt) || strings.Contains(qt, tt) {
				sum += 0.5
				matched = append(matched, tt)
				break
			}
		}
	}

	return sum / float64(len(queryTokens)), matched
}

// matchReason renders the matched tokens into a short human-auditable
// explanation of the score.
func matchReason(upstreamMatches, toolMatches []string) string {
	server := dedupeHead(upstreamMatches, maxReasonTokens)
	tool := dedupeHead(toolMatches, maxReasonTokens)

	var clauses []string
	if len(server) > 0 {
		clauses = append(clauses, "server matches: "+strings.Join(server, ", "))
	}
	if len(tool) > 0 {
		clauses = append(clauses, "tool matches: "+strings.Join(tool, ", "))
	}
	if len(clauses) == 0 {
		return "low relevance match"
	}
	return strings.Join(clauses, "; ")
}

// dedupeHead keeps the first occurrence of each token, up to max entries.
func dedupeHead(tokens []string, max int) []string {
	seen := make(map[string]struct{}, len(tokens))
	var out []string
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == max {
			break
		}
	}
	return out
}
