package media

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cutroom/cutroom-engine/internal/timeline"
)

// Pool owns the media assets available to the timeline. Unlike the engine
// it is guarded by a mutex: ingestion and captioning resolve on background
// goroutines and write status fields back without blocking editing.
type Pool struct {
	mu        sync.Mutex
	assets    []Asset
	dirty     bool
	ingestor  Ingestor
	captioner Captioner
	searcher  Searcher
	onRemove  func(assetID string)
	logger    *slog.Logger
}

func NewPool(ingestor Ingestor, captioner Captioner, searcher Searcher, logger *slog.Logger) *Pool {
	return &Pool{
		ingestor:  ingestor,
		captioner: captioner,
		searcher:  searcher,
		logger:    logger,
	}
}

// OnRemove registers the cascade hook invoked when an asset leaves the
// pool; the engine uses it to drop dependent clips.
func (p *Pool) OnRemove(fn func(assetID string)) {
	p.onRemove = fn
}

// Add registers a media item whose duration is already known (the browser
// probes it at drop time). The asset is immediately usable.
func (p *Pool) Add(displayName string, typ timeline.TrackType, durationSeconds float64) Asset {
	a := Asset{
		ID:              NewID(),
		DisplayName:     displayName,
		Type:            typ,
		DurationSeconds: durationSeconds,
		Status:          StatusReady,
		CreatedAt:       time.Now(),
	}
	p.mu.Lock()
	p.assets = append(p.assets, a)
	p.dirty = true
	p.mu.Unlock()

	if p.logger != nil {
		p.logger.Info("asset added", "asset_id", a.ID, "name", displayName, "duration_s", durationSeconds)
	}
	return a.Clone()
}

// AddUpload registers an asset and resolves its content reference through
// the ingestion collaborator on a background goroutine. A failed ingest
// marks the asset failed; it never surfaces as an error to the editor.
func (p *Pool) AddUpload(ctx context.Context, filename, displayName string, typ timeline.TrackType) Asset {
	a := Asset{
		ID:          NewID(),
		DisplayName: displayName,
		Type:        typ,
		Status:      StatusUploading,
		CreatedAt:   time.Now(),
	}
	p.mu.Lock()
	p.assets = append(p.assets, a)
	p.dirty = true
	p.mu.Unlock()

	// The caller's context is typically request-scoped and dies when the
	// HTTP handler returns; ingestion must outlive it.
	ctx = context.WithoutCancel(ctx)
	go func() {
		ref, duration, err := p.ingestor.Ingest(ctx, filename)
		p.mu.Lock()
		defer p.mu.Unlock()
		i := p.indexLocked(a.ID)
		if i < 0 {
			return
		}
		if err != nil {
			p.assets[i].Status = StatusFailed
			p.assets[i].Error = err.Error()
			if p.logger != nil {
				p.logger.Warn("ingest failed", "asset_id", a.ID, "error", err)
			}
		} else {
			p.assets[i].ContentRef = ref
			if duration > 0 {
				p.assets[i].DurationSeconds = duration
			}
			p.assets[i].Status = StatusReady
			p.assets[i].Error = ""
		}
		p.dirty = true
	}()

	return a.Clone()
}

// RequestCaptions asks the captioning collaborator for the asset's word
// list on a background goroutine and stores the result verbatim.
func (p *Pool) RequestCaptions(ctx context.Context, assetID string) bool {
	p.mu.Lock()
	i := p.indexLocked(assetID)
	if i < 0 {
		p.mu.Unlock()
		return false
	}
	ref := p.assets[i].ContentRef
	p.mu.Unlock()

	// Same lifetime rule as AddUpload: transcription outlives the request
	// that asked for it.
	ctx = context.WithoutCancel(ctx)
	go func() {
		captions, err := p.captioner.Transcribe(ctx, ref)
		p.mu.Lock()
		defer p.mu.Unlock()
		j := p.indexLocked(assetID)
		if j < 0 {
			return
		}
		if err != nil {
			p.assets[j].Error = err.Error()
			if p.logger != nil {
				p.logger.Warn("captioning failed", "asset_id", assetID, "error", err)
			}
			return
		}
		p.assets[j].Captions = captions
		p.dirty = true
	}()
	return true
}

// SetCaptions installs a caption list directly, as when the browser client
// relays a collaborator result itself.
func (p *Pool) SetCaptions(assetID string, captions []Caption) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.indexLocked(assetID)
	if i < 0 {
		return false
	}
	p.assets[i].Captions = slices.Clone(captions)
	p.dirty = true
	return true
}

// Remove deletes an asset and cascades to its timeline clips. Unknown ids
// are no-ops.
func (p *Pool) Remove(assetID string) bool {
	p.mu.Lock()
	i := p.indexLocked(assetID)
	if i < 0 {
		p.mu.Unlock()
		return false
	}
	p.assets = slices.Delete(p.assets, i, i+1)
	p.dirty = true
	p.mu.Unlock()

	if p.onRemove != nil {
		p.onRemove(assetID)
	}
	if p.logger != nil {
		p.logger.Info("asset removed", "asset_id", assetID)
	}
	return true
}

// Get returns a copy of an asset by id.
func (p *Pool) Get(assetID string) (Asset, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.indexLocked(assetID)
	if i < 0 {
		return Asset{}, false
	}
	return p.assets[i].Clone(), true
}

// List returns copies of all assets in insertion order.
func (p *Pool) List() []Asset {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Asset, len(p.assets))
	for i, a := range p.assets {
		out[i] = a.Clone()
	}
	return out
}

// Search ranks asset ranges against a query via the search collaborator.
func (p *Pool) Search(ctx context.Context, query string) ([]SearchHit, error) {
	return p.searcher.Search(ctx, query, p.List())
}

// Dirty reports whether the pool changed since the last save.
func (p *Pool) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// MarkClean resets the dirty flag after a successful save.
func (p *Pool) MarkClean() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirty = false
}

// Snapshot returns a deep copy of the pool for persistence.
func (p *Pool) Snapshot() []Asset {
	return p.List()
}

// Restore replaces the pool with a loaded snapshot.
func (p *Pool) Restore(assets []Asset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assets = make([]Asset, len(assets))
	for i, a := range assets {
		p.assets[i] = a.Clone()
	}
	p.dirty = false
}

func (p *Pool) indexLocked(assetID string) int {
	for i := range p.assets {
		if p.assets[i].ID == assetID {
			return i
		}
	}
	return -1
}
