package checker

import (
	"context"
	"log/slog"

	"github.com/emiller/permitwatch/internal/availability"
	"github.com/emiller/permitwatch/internal/recreation"
)

// MetadataCache stores permit display metadata between runs. A nil
// result with a nil error means a miss.
type MetadataCache interface {
	Get(ctx context.Context, permitID int) (*availability.PermitInfo, error)
	Put(ctx context.Context, info *availability.PermitInfo) error
}

// cachingService wraps the recreation service and answers metadata
// requests from the cache when it can. Cache failures degrade to a
// direct fetch; the cache is never a correctness dependency.
type cachingService struct {
	availability.Service
	cache MetadataCache
	log   *slog.Logger
}

func (s *cachingService) GetPermitInfo(ctx context.Context, permitID int) (*recreation.PermitContent, error) {
	cached, err := s.cache.Get(ctx, permitID)
	if err != nil {
		s.log.Warn("metadata cache read failed", "permit", permitID, "error", err)
	} else if cached != nil {
		s.log.Debug("metadata cache hit", "permit", permitID)
		return contentFromInfo(cached), nil
	}

	content, err := s.Service.GetPermitInfo(ctx, permitID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, infoFromContent(permitID, content)); err != nil {
		s.log.Warn("metadata cache write failed", "permit", permitID, "error", err)
	}
	return content, nil
}

func contentFromInfo(info *availability.PermitInfo) *recreation.PermitContent {
	var content recreation.PermitContent
	content.Payload.Name = info.Name
	content.Payload.Divisions = make(map[string]recreation.DivisionInfo, len(info.Divisions))
	for id, name := range info.Divisions {
		content.Payload.Divisions[id] = recreation.DivisionInfo{Name: name}
	}
	return &content
}

func infoFromContent(permitID int, content *recreation.PermitContent) *availability.PermitInfo {
	info := &availability.PermitInfo{
		ID:        permitID,
		Name:      content.Payload.Name,
		Divisions: make(map[string]string, len(content.Payload.Divisions)),
	}
	for id, div := range content.Payload.Divisions {
		info.Divisions[id] = div.Name
	}
	return info
}
