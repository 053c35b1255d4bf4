package extract

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/pkg/google"
)

// Extractor resolves named entities in snippet text through the NER service.
type Extractor struct {
	nlp google.Client
}

// NewExtractor creates an Extractor backed by the given NER client.
func NewExtractor(nlp google.Client) *Extractor {
	return &Extractor{nlp: nlp}
}

// Entity returns the first entity of the given category found in text, or
// the sentinel when the service recognizes none. A failed service call is
// returned as an error so callers can decide whether to skip or abort.
func (e *Extractor) Entity(ctx context.Context, text, category string) (string, error) {
	resp, err := e.nlp.AnalyzeEntities(ctx, text)
	if err != nil {
		return "", eris.Wrap(err, "extract: analyze entities")
	}

	for _, entity := range resp.Entities {
		if entity.Type == category {
			return entity.Name, nil
		}
	}
	return model.Sentinel, nil
}

// FullName returns the longest PERSON entity found in text, or the sentinel.
// Longest wins to favor full names over first-name-only mentions; ties keep
// the earlier entity.
func (e *Extractor) FullName(ctx context.Context, text string) (string, error) {
	resp, err := e.nlp.AnalyzeEntities(ctx, text)
	if err != nil {
		return "", eris.Wrap(err, "extract: analyze entities")
	}

	longest := model.Sentinel
	found := false
	for _, entity := range resp.Entities {
		if entity.Type != google.EntityPerson {
			continue
		}
		if !found || len(entity.Name) > len(longest) {
			longest = entity.Name
			found = true
		}
	}
	return longest, nil
}
