// Package override loads the contextual override payload for a batch of
// base configuration names.
//
// For each name the loader walks the candidate names produced by the
// naming.Mapper, most specific first and excluding the base name itself,
// and takes the first payload found. Sources are consulted in the order
// they were given at every level, so an earlier source wins at the same
// specificity while a more specific level always beats a less specific one.
// Payloads are never merged across levels.
package override

import (
	"context"
	"fmt"

	"github.com/bft-labs/domaincfg/pkg/log"
	"github.com/bft-labs/domaincfg/pkg/naming"
	"github.com/bft-labs/domaincfg/pkg/scope"
	"github.com/bft-labs/domaincfg/pkg/storage"
)

// Loader resolves override payloads.
type Loader struct {
	mapper  *naming.Mapper
	sources []Source
	logger  log.Logger
}

// NewLoader creates a Loader. sources are consulted in order.
func NewLoader(mapper *naming.Mapper, logger log.Logger, sources ...Source) *Loader {
	return &Loader{
		mapper:  mapper,
		sources: sources,
		logger:  log.OrNoop(logger),
	}
}

// Hit is a resolved override: the payload, the candidate name it was found
// under and the name of the source that supplied it.
type Hit struct {
	Payload storage.Payload
	Name    string
	Source  string
}

// Stored reports whether the payload was read from storage. Payloads from
// other sources must never be written back.
func (h Hit) Stored() bool {
	return h.Source == SourceStorage
}

// LoadOverrides returns the override payload for each base name under c.
// Names without an override are absent from the result. Missing entries are
// never an error; only a failing source is.
func (l *Loader) LoadOverrides(ctx context.Context, baseKeys []string, c scope.Context) (map[string]storage.Payload, error) {
	hits, err := l.Resolve(ctx, baseKeys, c)
	if err != nil {
		return nil, err
	}
	overrides := make(map[string]storage.Payload, len(hits))
	for base, hit := range hits {
		overrides[base] = hit.Payload
	}
	return overrides, nil
}

// Resolve is LoadOverrides reporting where each payload was found.
func (l *Loader) Resolve(ctx context.Context, baseKeys []string, c scope.Context) (map[string]Hit, error) {
	overrides := make(map[string]Hit)
	if c.Normalize().IsGlobal() {
		return overrides, nil
	}

	candidates := make(map[string][]string, len(baseKeys))
	var lookup []string
	for _, base := range baseKeys {
		if naming.IsRecordNamespace(base) {
			continue
		}
		names := l.mapper.CandidateNames(base, c)
		names = names[:len(names)-1]
		if len(names) == 0 {
			continue
		}
		candidates[base] = names
		lookup = append(lookup, names...)
	}
	if len(lookup) == 0 {
		return overrides, nil
	}

	found := make([]map[string]storage.Payload, len(l.sources))
	for i, src := range l.sources {
		data, err := src.Lookup(ctx, lookup)
		if err != nil {
			return nil, fmt.Errorf("load overrides from %s: %w", src.Name(), err)
		}
		found[i] = data
	}

	for base, names := range candidates {
	walk:
		for _, name := range names {
			for i, data := range found {
				if p, ok := data[name]; ok {
					overrides[base] = Hit{Payload: p, Name: name, Source: l.sources[i].Name()}
					l.logger.Debug("override resolved",
						log.Name(base), log.String("candidate", name), log.String("source", l.sources[i].Name()))
					break walk
				}
			}
		}
	}
	return overrides, nil
}
