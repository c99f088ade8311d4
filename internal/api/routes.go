package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cutroom/cutroom-engine/internal/config"
	"github.com/cutroom/cutroom-engine/internal/export"
	"github.com/cutroom/cutroom-engine/internal/timeline"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))

		r.Get("/timeline", getTimelineHandler(cfg))
		r.Post("/timeline/clips", insertClipHandler(cfg))
		r.Patch("/timeline/clips/{id}", updateClipHandler(cfg))
		r.Delete("/timeline/clips/{id}", deleteClipHandler(cfg))
		r.Post("/timeline/clips/{id}/split", splitClipHandler(cfg))
		r.Post("/timeline/clips/{id}/copy", copyClipHandler(cfg))
		r.Post("/timeline/paste", pasteHandler(cfg))
		r.Post("/timeline/undo", undoHandler(cfg))
		r.Post("/timeline/redo", redoHandler(cfg))
		r.Get("/timeline/resolve", resolveHandler(cfg))
		r.Post("/timeline/zoom", zoomHandler(cfg))

		r.Get("/media", listMediaHandler(cfg))
		r.Post("/media", addMediaHandler(cfg))
		r.Delete("/media/{id}", deleteMediaHandler(cfg))
		r.Post("/media/{id}/captions", setCaptionsHandler(cfg))
		r.Post("/media/{id}/transcribe", transcribeHandler(cfg))

		r.Post("/search", searchHandler(cfg))
		r.Get("/export/edl", exportEDLHandler(cfg))

		r.Get("/project", getProjectHandler(cfg))
		r.Post("/project/save", saveProjectHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: config.Version,
			UptimeS: uptime,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{
			MediaCount: len(cfg.Session.Pool().List()),
			Dirty:      cfg.Session.Dirty(),
		}
		if p := cfg.Session.Project(); p != nil {
			resp.ProjectID = p.ID
			resp.ProjectName = p.Name
		}
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			resp.ClipCount = len(e.Clips())
			resp.ZoomPercent = e.ZoomPercent()
			resp.EndSeconds = e.EndTime()
			resp.CanUndo = e.CanUndo()
			resp.CanRedo = e.CanRedo()
		})
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getTimelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp TimelineResponse
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			resp = TimelineResponse{
				Tracks:      e.Tracks(),
				Clips:       e.Clips(),
				ZoomPercent: e.ZoomPercent(),
				EndSeconds:  e.EndTime(),
			}
		})
		WriteJSON(w, http.StatusOK, resp)
	}
}

func insertClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InsertClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.AssetID == "" || req.TrackID == "" {
			WriteError(w, http.StatusBadRequest, "asset_id and track_id are required", "BAD_REQUEST")
			return
		}

		asset, ok := cfg.Session.Pool().Get(req.AssetID)
		if !ok {
			WriteError(w, http.StatusNotFound, "asset not found", "NOT_FOUND")
			return
		}

		var rng *timeline.MediaRange
		if req.StartSeconds != nil && req.EndSeconds != nil {
			rng = &timeline.MediaRange{StartSeconds: *req.StartSeconds, EndSeconds: *req.EndSeconds}
		}

		var clip timeline.Clip
		var inserted bool
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			clip, inserted = e.InsertFromAsset(asset.ID, asset.Type, asset.DurationSeconds, req.TrackID, rng)
		})
		if !inserted {
			WriteError(w, http.StatusBadRequest, "track unknown or type mismatch", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusCreated, clip)
	}
}

func updateClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req UpdateClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applied := false
		var clip timeline.Clip
		var found bool
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			if req.StartSeconds != nil || req.TrackID != "" {
				start := req.StartSeconds
				if start == nil {
					if c, ok := e.FindClip(id); ok {
						s := timeline.BaseToSeconds(c.StartTime)
						start = &s
					}
				}
				if start != nil && e.MoveClip(id, req.TrackID, *start) {
					applied = true
				}
			}
			if req.DurationSeconds != nil && e.TrimClip(id, *req.DurationSeconds) {
				applied = true
			}
			if req.Transform != nil && e.SetTransform(id, *req.Transform) {
				applied = true
			}
			if req.Effects != nil && e.SetEffects(id, *req.Effects) {
				applied = true
			}
			clip, found = e.FindClip(id)
		})

		if !found {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}
		if !applied {
			WriteError(w, http.StatusBadRequest, "no applicable changes", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, clip)
	}
}

func deleteClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		deleted := false
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			deleted = e.DeleteClip(id)
		})
		if !deleted {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func splitClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req SplitClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		var right timeline.Clip
		var ok bool
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			right, ok = e.SplitClip(id, req.AtSeconds)
		})
		if !ok {
			WriteError(w, http.StatusBadRequest, "split point outside clip", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusCreated, right)
	}
}

func copyClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		copied := false
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			copied = e.CopyClip(id)
		})
		if !copied {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func pasteHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		var clip timeline.Clip
		var ok bool
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			clip, ok = e.PasteAt(req.AtSeconds)
		})
		if !ok {
			WriteError(w, http.StatusBadRequest, "clipboard is empty", "EMPTY_CLIPBOARD")
			return
		}
		WriteJSON(w, http.StatusCreated, clip)
	}
}

func undoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp HistoryResponse
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			resp.Applied = e.Undo()
			resp.CanUndo = e.CanUndo()
			resp.CanRedo = e.CanRedo()
		})
		WriteJSON(w, http.StatusOK, resp)
	}
}

func redoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp HistoryResponse
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			resp.Applied = e.Redo()
			resp.CanUndo = e.CanUndo()
			resp.CanRedo = e.CanRedo()
		})
		WriteJSON(w, http.StatusOK, resp)
	}
}

func resolveHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
		if err != nil || t < 0 {
			WriteError(w, http.StatusBadRequest, "t must be a non-negative number of seconds", "BAD_REQUEST")
			return
		}

		var res timeline.Resolution
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			res = e.ResolveAt(t)
		})
		WriteJSON(w, http.StatusOK, resolutionToResponse(res))
	}
}

func zoomHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ZoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		var percent int
		badAction := false
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			switch req.Action {
			case "in":
				percent = e.ZoomIn()
			case "out":
				percent = e.ZoomOut()
			case "set":
				percent = e.SetZoom(req.Percent)
			case "fit":
				percent = e.ZoomToFit()
			default:
				badAction = true
			}
		})
		if badAction {
			WriteError(w, http.StatusBadRequest, "action must be in, out, set or fit", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, ZoomResponse{
			ZoomPercent:           percent,
			VisualPixelsPerSecond: timeline.VisualPixelsPerSecond(percent),
		})
	}
}

func listMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, MediaListResponse{Media: cfg.Session.Pool().List()})
	}
}

func addMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddMediaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.DisplayName == "" {
			WriteError(w, http.StatusBadRequest, "display_name is required", "BAD_REQUEST")
			return
		}
		typ := timeline.TrackType(req.Type)
		if typ != timeline.TrackVideo && typ != timeline.TrackAudio {
			WriteError(w, http.StatusBadRequest, "type must be video or audio", "BAD_REQUEST")
			return
		}

		pool := cfg.Session.Pool()
		if req.UploadFilename != "" {
			asset := pool.AddUpload(r.Context(), req.UploadFilename, req.DisplayName, typ)
			WriteJSON(w, http.StatusAccepted, asset)
			return
		}
		asset := pool.Add(req.DisplayName, typ, req.DurationSeconds)
		WriteJSON(w, http.StatusCreated, asset)
	}
}

func deleteMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !cfg.Session.Pool().Remove(id) {
			WriteError(w, http.StatusNotFound, "asset not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func setCaptionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req SetCaptionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if !cfg.Session.Pool().SetCaptions(id, req.Captions) {
			WriteError(w, http.StatusNotFound, "asset not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func transcribeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !cfg.Session.Pool().RequestCaptions(r.Context(), id) {
			WriteError(w, http.StatusNotFound, "asset not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func searchHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Query == "" {
			WriteError(w, http.StatusBadRequest, "query is required", "BAD_REQUEST")
			return
		}

		hits, err := cfg.Session.Pool().Search(r.Context(), req.Query)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "search failed", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, SearchResponse{Hits: hits})
	}
}

func exportEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frameRate := 30.0
		if fr := r.URL.Query().Get("frame_rate"); fr != "" {
			parsed, err := strconv.ParseFloat(fr, 64)
			if err != nil || parsed <= 0 {
				WriteError(w, http.StatusBadRequest, "frame_rate must be a positive number", "BAD_REQUEST")
				return
			}
			frameRate = parsed
		}

		names := make(map[string]string)
		for _, a := range cfg.Session.Pool().List() {
			names[a.ID] = a.DisplayName
		}

		title := "Timeline"
		if p := cfg.Session.Project(); p != nil {
			title = p.Name
		}

		var edl string
		cfg.Session.WithEngine(func(e *timeline.Engine) {
			events := export.FromTimeline(e.Clips(), names)
			edl = export.GenerateEDL(events, title, frameRate)
		})

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(edl))
	}
}

func getProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := cfg.Session.Project()
		if p == nil {
			WriteError(w, http.StatusNotFound, "no open project", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, ProjectResponse{
			ID:          p.ID,
			Name:        p.Name,
			ZoomPercent: p.ZoomPercent,
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
		})
	}
}

func saveProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Session.Save(r.Context()); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "SAVE_FAILED")
			return
		}
		WriteJSON(w, http.StatusOK, SaveResponse{Saved: true})
	}
}
