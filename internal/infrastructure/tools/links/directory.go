package links

import (
	"context"
	"sort"
	"strings"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/core/ports"
)

const maxLinks = 3

// Directory is a static official-links lookup for common Tunisian
// procedures. It stands in for a real search/indexing backend behind the
// same LinkDirectory contract.
type Directory struct {
	localizer ports.Localizer
	table     map[string][]string
}

func NewDirectory(localizer ports.Localizer) *Directory {
	return &Directory{
		localizer: localizer,
		table: map[string][]string{
			"passport renewal": {
				"https://www.interieur.gov.tn/procedures/passeports",
				"https://consulat.gov.tn/passeports",
			},
			"car import": {
				"https://www.douane.gov.tn/reglementation/vehicules/",
				"https://www.attt.com.tn/fr/pro_service/immatveh/",
			},
			"birth certificate": {
				"https://www.commune-tunis.gov.tn/publish/content/article.asp?id=361",
				"https://www.e-justice.tn/web/guest/services-en-ligne",
			},
			"driving license": {
				"https://www.attt.com.tn/fr/pro_service/permiscon/",
				"https://www.interieur.gov.tn/procedures/permis-de-conduire",
			},
			"national id card": {
				"https://www.interieur.gov.tn/procedures/cin",
			},
			"business registration": {
				"https://www.registre-commerce.tn/",
				"https://www.apii.tn/constitution-entreprise",
			},
			"visa application": {
				"https://diplomatie.gov.tn/index.php?id=80",
			},
			"tax declaration": {
				"https://www.impots.finances.gov.tn/",
			},
		},
	}
}

// FindLinks matches the normalized procedure against known entries and
// returns up to three unique official links. No matches yields a localized
// no-results message instead of an error.
func (d *Directory) FindLinks(_ context.Context, procedure, language string) (domain.ProcedureLinks, error) {
	normalized := strings.ToLower(strings.TrimSpace(procedure))

	seen := make(map[string]struct{})
	var found []string
	keys := make([]string, 0, len(d.table))
	for key := range d.table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !strings.Contains(normalized, key) {
			continue
		}
		for _, link := range d.table[key] {
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}
			found = append(found, link)
		}
	}
	if len(found) > maxLinks {
		found = found[:maxLinks]
	}

	result := domain.ProcedureLinks{Links: found}
	if len(found) == 0 {
		result.Message = d.localizer.Resolve("customs.no_links", domain.NormalizeLanguage(language), nil)
	}
	return result, nil
}
