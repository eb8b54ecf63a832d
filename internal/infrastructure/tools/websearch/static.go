package websearch

import (
	"context"
	"strings"

	"github.com/droitbot/droitbot-server/internal/core/domain"
)

// Static serves canned Tunisian reference sources keyed on topic keywords.
// It stands in for a real search backend behind the WebSearcher contract and
// exists so the debunking flow has deterministic material to reason over.
type Static struct{}

func New() *Static {
	return &Static{}
}

func (s *Static) Search(_ context.Context, query string) ([]domain.SearchResult, error) {
	q := strings.ToLower(query)

	results := []domain.SearchResult{
		{
			Title:   "Official Tunisian News Agency - Report on Recent Developments",
			Link:    "https://www.tap.info.tn/latest-news",
			Snippet: "TAP provides official updates and reports on various national topics, cross-referenced with governmental sources.",
		},
		{
			Title:   "Independent Fact-Checking Initiative Tunisia - Analysis of Online Claims",
			Link:    "https://www.tunisia-factcheck.org/claims-review",
			Snippet: "Our latest investigation reviews several trending online claims, providing evidence-based analysis.",
		},
	}

	if containsAny(q, "health", "صحة", "covid") {
		results = append(results, domain.SearchResult{
			Title:   "Ministry of Health Tunisia - Public Health Advisory",
			Link:    "https://www.santetunisie.tn/advisories",
			Snippet: "The Ministry of Health issues guidelines and clarifications regarding current public health concerns and information.",
		})
	}
	if containsAny(q, "election", "انتخابات", "political") {
		results = append(results, domain.SearchResult{
			Title:   "ISIE (Independent High Authority for Elections) - Official Statements",
			Link:    "https://www.isie.tn/official-statements",
			Snippet: "ISIE provides official information and updates concerning electoral processes and regulations in Tunisia.",
		})
	}
	if containsAny(q, "finance", "economy", "مالية") {
		results = append(results, domain.SearchResult{
			Title:   "Central Bank of Tunisia - Economic Outlook",
			Link:    "https://www.bct.gov.tn/economic-outlook",
			Snippet: "The Central Bank of Tunisia offers insights and data on the national economic situation.",
		})
	}

	const maxResults = 4
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
