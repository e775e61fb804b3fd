// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

// Normalization rules applied uniformly at every tier. Each rule is
// toggled only by field presence, never by a version number, so future
// schema revisions degrade gracefully instead of requiring an
// enumerated version table (prd004 R2.1-R2.4).

// Canonical document field names.
const (
	fieldCitations    = "citations"
	fieldSources      = "sources"
	fieldDomainDist   = "domain_distribution"
	fieldQualityScore = "quality_scores"
)

// Normalize projects a parsed artifact document onto the canonical
// logical shape. Normalization is additive: missing canonical fields
// are simply not populated, never an error. The input map is not
// mutated.
func Normalize(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc)+3)
	for k, v := range doc {
		out[k] = v
	}

	mirrorCitationsSources(out)
	deriveDomainDistribution(out)
	synthesizeQualityScores(out)

	return out
}

// mirrorCitationsSources fills whichever of citations/sources is absent
// from the other. Older revisions populated only one of the two names
// for the same list.
func mirrorCitationsSources(doc map[string]any) {
	citations, hasCitations := nonEmptyList(doc[fieldCitations])
	sources, hasSources := nonEmptyList(doc[fieldSources])

	switch {
	case hasCitations && !hasSources:
		doc[fieldSources] = citations
	case hasSources && !hasCitations:
		doc[fieldCitations] = sources
	}
}

// deriveDomainDistribution computes the evidence-diversity summary from
// the citation set when the document does not already carry one.
func deriveDomainDistribution(doc map[string]any) {
	if _, present := doc[fieldDomainDist]; present {
		return
	}
	citations, ok := nonEmptyList(doc[fieldCitations])
	if !ok {
		return
	}

	dist := make(map[string]any)
	for _, entry := range citations {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		domain, _ := m["domain"].(string)
		if domain == "" {
			continue
		}
		if n, ok := dist[domain].(float64); ok {
			dist[domain] = n + 1
		} else {
			dist[domain] = float64(1)
		}
	}

	if len(dist) > 0 {
		doc[fieldDomainDist] = dist
	}
}

// scoreProbe tests one known score-bearing shape and projects it into
// the canonical quality_scores container.
type scoreProbe struct {
	name    string
	extract func(doc map[string]any) (map[string]any, bool)
}

// scoreProbes is the fixed probe order: dedicated score map, then the
// generic metrics map, then a single top-level scalar wrapped as
// {overall: scalar}. First match wins.
var scoreProbes = []scoreProbe{
	{
		name: "score_map",
		extract: func(doc map[string]any) (map[string]any, bool) {
			m, ok := doc["scores"].(map[string]any)
			return m, ok && len(m) > 0
		},
	},
	{
		name: "metrics_map",
		extract: func(doc map[string]any) (map[string]any, bool) {
			m, ok := doc["metrics"].(map[string]any)
			return m, ok && len(m) > 0
		},
	},
	{
		name: "scalar_score",
		extract: func(doc map[string]any) (map[string]any, bool) {
			for _, key := range []string{"score", "overall_score"} {
				if v, ok := doc[key].(float64); ok {
					return map[string]any{"overall": v}, true
				}
			}
			return nil, false
		},
	},
}

// synthesizeQualityScores builds the canonical nested score container
// from whichever score-bearing field is present. A document already
// carrying a quality_scores map is left as-is.
func synthesizeQualityScores(doc map[string]any) {
	if m, ok := doc[fieldQualityScore].(map[string]any); ok && len(m) > 0 {
		return
	}

	for _, probe := range scoreProbes {
		if scores, ok := probe.extract(doc); ok {
			doc[fieldQualityScore] = scores
			return
		}
	}
}

// nonEmptyList returns v as a non-empty []any, if it is one.
func nonEmptyList(v any) ([]any, bool) {
	list, ok := v.([]any)
	return list, ok && len(list) > 0
}
