package service

import (
	"context"
	"strings"

	"github.com/Baaaki/backyard-marquee/internal/catalog"
	"github.com/Baaaki/backyard-marquee/internal/metrics"
	"github.com/Baaaki/backyard-marquee/pkg/logger"
	"go.uber.org/zap"
)

const msgSearchFailed = "Search failed"

// ArtistCatalog is the upstream artist search.
type ArtistCatalog interface {
	Configured() bool
	Search(ctx context.Context, query string) ([]catalog.Artist, error)
}

// ArtistService proxies artist lookups to the catalog, with an optional cache in front.
type ArtistService struct {
	catalog ArtistCatalog
	cache   *catalog.Cache
}

// NewArtistService accepts a nil cache, which disables caching.
func NewArtistService(c ArtistCatalog, cache *catalog.Cache) *ArtistService {
	return &ArtistService{catalog: c, cache: cache}
}

func (s *ArtistService) Search(ctx context.Context, query string) ([]catalog.Artist, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []catalog.Artist{}, nil
	}

	if !s.catalog.Configured() {
		metrics.RecordCatalogLookup(metrics.LookupPlaceholder)
		return catalog.Placeholder(query), nil
	}

	if s.cache != nil {
		artists, ok, err := s.cache.Get(ctx, query)
		if err != nil {
			logger.Log.Warn("Artist cache read failed",
				zap.String("query", query),
				zap.Error(err),
			)
		}
		if ok {
			metrics.RecordCatalogLookup(metrics.LookupHit)
			return artists, nil
		}
	}

	artists, err := s.catalog.Search(ctx, query)
	if err != nil {
		metrics.RecordCatalogLookup(metrics.LookupError)
		logger.Log.Error("Artist search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, newError(ErrUpstream, msgSearchFailed)
	}
	metrics.RecordCatalogLookup(metrics.LookupMiss)

	if s.cache != nil {
		if err := s.cache.Set(ctx, query, artists); err != nil {
			logger.Log.Warn("Artist cache write failed",
				zap.String("query", query),
				zap.Error(err),
			)
		}
	}
	return artists, nil
}
