// Package enrich turns web-search results into typed executive and company
// contact records and merges them into a dataset.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/extract"
	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/pkg/google"
	"github.com/sells-group/contact-cli/pkg/serpapi"
)

// Lookup answers "who holds title T at company C, and how do I reach them"
// by composing web search, named-entity recognition, and pattern extraction.
type Lookup struct {
	search    serpapi.Client
	extractor *extract.Extractor
}

// NewLookup creates a Lookup over the given search client and extractor.
func NewLookup(search serpapi.Client, extractor *extract.Extractor) *Lookup {
	return &Lookup{search: search, extractor: extractor}
}

// LinkedIn searches for a profile URL matching the name, title, and company.
// Returns the first result's link, or the sentinel when nothing is found.
func (l *Lookup) LinkedIn(ctx context.Context, name, company string, title model.Role) (string, error) {
	query := fmt.Sprintf("%s %s %s site:linkedin.com", name, title, company)
	resp, err := l.search.Search(ctx, query)
	if err != nil {
		return "", eris.Wrap(err, "enrich: linkedin search")
	}

	for _, r := range resp.OrganicResults {
		if r.Link != "" {
			return r.Link, nil
		}
	}
	return model.Sentinel, nil
}

// ExecutiveInfo searches "{title} {company}" and extracts contact fields
// from the first result whose snippet or title mentions the target title.
//
// Only that first qualifying result is evaluated: when its combined
// snippet+title text yields no person name, the whole record stays at
// sentinel and no further results are scanned. Location and email come
// from the qualifying snippet; the LinkedIn URL from a nested search.
func (l *Lookup) ExecutiveInfo(ctx context.Context, company string, title model.Role) (model.ExecutiveRecord, error) {
	rec := model.NewExecutiveRecord(title)

	resp, err := l.search.Search(ctx, fmt.Sprintf("%s %s", title, company))
	if err != nil {
		return rec, eris.Wrapf(err, "enrich: executive search %s", title)
	}

	result, ok := selectResult(resp.OrganicResults, title)
	if !ok {
		return rec, nil
	}

	name, err := l.extractor.FullName(ctx, result.Snippet+" "+result.Title)
	if err != nil {
		return rec, eris.Wrapf(err, "enrich: extract name for %s", title)
	}
	if model.IsSentinel(name) {
		return rec, nil
	}
	rec.Name = name

	location, err := l.extractor.Entity(ctx, result.Snippet, google.EntityLocation)
	if err != nil {
		return rec, eris.Wrapf(err, "enrich: extract location for %s", title)
	}
	rec.Location = location

	rec.Email = extract.Email(result.Snippet)

	linkedin, err := l.LinkedIn(ctx, name, company, title)
	if err != nil {
		return rec, eris.Wrapf(err, "enrich: linkedin lookup for %s", title)
	}
	rec.LinkedIn = linkedin

	zap.L().Debug("enrich: executive resolved",
		zap.String("company", company),
		zap.String("title", string(title)),
		zap.String("name", rec.Name),
	)
	return rec, nil
}

// selectResult returns the first result whose snippet or title contains the
// target title, case-insensitively. Results are assumed ranked by relevance.
func selectResult(results []serpapi.Result, title model.Role) (serpapi.Result, bool) {
	needle := strings.ToLower(string(title))
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Snippet), needle) ||
			strings.Contains(strings.ToLower(r.Title), needle) {
			return r, true
		}
	}
	return serpapi.Result{}, false
}
