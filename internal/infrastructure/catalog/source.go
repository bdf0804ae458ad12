package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// Source reads catalog documents from a local path or an http(s) URL
type Source struct {
	remote *RemoteSource
}

// NewSource creates a source. A nil remote gets a default RemoteSource.
func NewSource(remote *RemoteSource) *Source {
	if remote == nil {
		remote = NewRemoteSource(nil)
	}
	return &Source{remote: remote}
}

// Catalog loads the catalog at location
func (s *Source) Catalog(ctx context.Context, location string) (*Catalog, error) {
	if IsRemote(location) {
		return s.remote.FetchCatalog(ctx, location)
	}
	return LoadFile(location)
}

// Synonyms loads the synonym table at location
func (s *Source) Synonyms(ctx context.Context, location string) (domain.SynonymTable, error) {
	if IsRemote(location) {
		return s.remote.FetchSynonyms(ctx, location)
	}
	return LoadSynonymFile(location)
}

// Reloader re-reads one catalog location into a store
type Reloader struct {
	source   *Source
	location string
	store    *Store
	log      *zap.Logger
}

// NewReloader creates a reloader for location
func NewReloader(source *Source, location string, store *Store, log *zap.Logger) *Reloader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reloader{source: source, location: location, store: store, log: log}
}

// Reload replaces the store contents. On error the store keeps its snapshot.
func (r *Reloader) Reload(ctx context.Context) (recipes, ingredients int, err error) {
	next, err := r.source.Catalog(ctx, r.location)
	if err != nil {
		r.log.Error("catalog reload failed", zap.String("location", r.location), zap.Error(err))
		return 0, 0, fmt.Errorf("failed to reload catalog: %w", err)
	}
	r.store.Replace(next)
	return len(next.Recipes), len(next.Ingredients), nil
}
