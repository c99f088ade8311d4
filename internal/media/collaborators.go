package media

import (
	"context"
	"log/slog"
	"strings"
)

// Ingestor turns a raw media file into a content reference and duration.
// Ingestion is asynchronous from the engine's point of view: the pool
// updates the asset when the call resolves and never blocks timeline
// operations on it.
type Ingestor interface {
	Ingest(ctx context.Context, filename string) (contentRef string, durationSeconds float64, err error)
}

// Captioner produces an ordered word-level caption list for an asset's
// content reference.
type Captioner interface {
	Transcribe(ctx context.Context, contentRef string) ([]Caption, error)
}

// SearchHit is one ranked range from the semantic search collaborator.
type SearchHit struct {
	AssetID      string  `json:"asset_id"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Score        float64 `json:"score"`
}

// Searcher ranks ranges of indexed assets against a natural-language
// query. The engine's only obligation is to map a hit's range into the
// drag-insert flow.
type Searcher interface {
	Search(ctx context.Context, query string, assets []Asset) ([]SearchHit, error)
}

// StubIngestor resolves every file locally with a fixed duration. It
// stands in for the real upload collaborator in tests and offline runs.
type StubIngestor struct {
	logger *slog.Logger
}

func NewStubIngestor(logger *slog.Logger) *StubIngestor {
	return &StubIngestor{logger: logger}
}

func (s *StubIngestor) Ingest(ctx context.Context, filename string) (string, float64, error) {
	if s.logger != nil {
		s.logger.Info("ingest stub: resolving locally", "filename", filename)
	}
	return "local://" + filename, 0, nil
}

// StubCaptioner returns an empty caption list.
type StubCaptioner struct {
	logger *slog.Logger
}

func NewStubCaptioner(logger *slog.Logger) *StubCaptioner {
	return &StubCaptioner{logger: logger}
}

func (s *StubCaptioner) Transcribe(ctx context.Context, contentRef string) ([]Caption, error) {
	if s.logger != nil {
		s.logger.Info("caption stub: transcription requested", "content_ref", contentRef)
	}
	return nil, nil
}

// StubSearcher matches captions by plain substring so the search flow is
// exercisable without the indexing collaborator. Each matching word yields
// a two-second hit centered on the word.
type StubSearcher struct {
	logger *slog.Logger
}

func NewStubSearcher(logger *slog.Logger) *StubSearcher {
	return &StubSearcher{logger: logger}
}

func (s *StubSearcher) Search(ctx context.Context, query string, assets []Asset) ([]SearchHit, error) {
	if s.logger != nil {
		s.logger.Info("search stub: substring match", "query", query)
	}
	var hits []SearchHit
	for _, a := range assets {
		for _, c := range a.Captions {
			if query != "" && strings.Contains(strings.ToLower(c.Word), strings.ToLower(query)) {
				start := c.Start - 1
				if start < 0 {
					start = 0
				}
				end := c.End + 1
				if a.DurationSeconds > 0 && end > a.DurationSeconds {
					end = a.DurationSeconds
				}
				hits = append(hits, SearchHit{
					AssetID:      a.ID,
					StartSeconds: start,
					EndSeconds:   end,
					Score:        1,
				})
			}
		}
	}
	return hits, nil
}
