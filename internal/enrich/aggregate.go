package enrich

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/extract"
	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/pkg/serpapi"
)

// Aggregator builds a full CompanyRecord: one executive lookup per role in
// the vocabulary, plus a company-level phone number.
type Aggregator struct {
	search serpapi.Client
	lookup *Lookup
	roles  []model.Role
}

// NewAggregator creates an Aggregator using the given role vocabulary.
func NewAggregator(search serpapi.Client, lookup *Lookup, roles []model.Role) *Aggregator {
	return &Aggregator{search: search, lookup: lookup, roles: roles}
}

// Roles returns the vocabulary the aggregator iterates.
func (a *Aggregator) Roles() []model.Role {
	return a.roles
}

// CompanyInfo resolves every role for the company in vocabulary order and
// then the company phone number. Titles are processed strictly
// sequentially; the first error aborts the company.
func (a *Aggregator) CompanyInfo(ctx context.Context, company string) (model.CompanyRecord, error) {
	rec := model.CompanyRecord{
		Company: company,
		Phone:   model.Sentinel,
	}

	for _, role := range a.roles {
		exec, err := a.lookup.ExecutiveInfo(ctx, company, role)
		if err != nil {
			return rec, err
		}
		rec.Executives = append(rec.Executives, exec)
	}

	phone, err := a.companyPhone(ctx, company)
	if err != nil {
		return rec, err
	}
	rec.Phone = phone

	zap.L().Debug("enrich: company aggregated",
		zap.String("company", company),
		zap.Int("roles", len(rec.Executives)),
	)
	return rec, nil
}

// companyPhone scans every result of a phone-number search and keeps the
// first non-sentinel extraction. Unlike the executive path this does not
// stop at the first relevant-looking result: snippets without a
// phone-shaped substring are skipped and scanning continues.
func (a *Aggregator) companyPhone(ctx context.Context, company string) (string, error) {
	resp, err := a.search.Search(ctx, fmt.Sprintf("%s contact phone number", company))
	if err != nil {
		return model.Sentinel, eris.Wrap(err, "enrich: phone search")
	}

	for _, r := range resp.OrganicResults {
		if phone := extract.Phone(r.Snippet); !model.IsSentinel(phone) {
			return phone, nil
		}
	}
	return model.Sentinel, nil
}
