package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kvnsw/photosieve/internal/catalog"
	"github.com/kvnsw/photosieve/internal/engine"
)

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Size     int    `json:"size"`
		Mode     string `json:"mode"`
		AnchorID string `json:"anchor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	if req.Mode == "" {
		req.Mode = s.cfg.Batch.DefaultMode
	}
	mode, err := engine.ParseMode(req.Mode)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	photos := s.snapshotCatalog()

	var anchor *catalog.Photo
	if req.AnchorID != "" {
		for i := range photos {
			if photos[i].ID == req.AnchorID {
				anchor = &photos[i]
				break
			}
		}
		if anchor == nil {
			http.Error(w, `{"error":"anchor_id not in catalog"}`, http.StatusBadRequest)
			return
		}
	}

	size := s.cfg.ClampBatchSize(req.Size)
	batch := s.engine.GetBatch(photos, size, mode, anchor)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"batch_id": uuid.NewString(),
		"mode":     string(mode),
		"photos":   batch,
		"count":    len(batch),
	})
}

func (s *Server) handlePhotos(w http.ResponseWriter, r *http.Request) {
	s.catalogMu.RLock()
	photos := s.catalog
	scannedAt := s.scannedAt
	s.catalogMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"photos":     photos,
		"count":      len(photos),
		"scanned_at": scannedAt.UnixMilli(),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	n, err := s.RefreshCatalog()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"photos": n,
	})
}

func (s *Server) handleCooldownStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	count, err := s.cooldowns.CountActive(now)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"active":       count,
		"window_hours": s.cooldowns.Window.Hours(),
	}
	if oldest, ok, err := s.cooldowns.OldestActive(now); err == nil && ok {
		resp["next_expiry"] = oldest + s.cooldowns.Window.Milliseconds()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleClearCooldowns(w http.ResponseWriter, r *http.Request) {
	if err := s.cooldowns.ClearCooldowns(); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
