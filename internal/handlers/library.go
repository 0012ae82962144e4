package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/golfcloud/backend/internal/library"
	"github.com/golfcloud/backend/internal/logging"
	"github.com/golfcloud/backend/internal/storage"
)

// LibraryHandler assembles the browsable video library: bucket listing
// joined with metadata rows and signed playback URLs.
type LibraryHandler struct {
	Objects ObjectStore
	Signer  ReadURLSigner
	Videos  VideoStore

	VideoPrefix    string
	VideoReadTTL   time.Duration
	SidecarReadTTL time.Duration
}

type libraryResponse struct {
	Items []library.Item `json:"items"`
}

// List handles GET /api/v1/library. Optional query parameters: minRating
// (absent ratings count as zero) and sort (newest, oldest, rating_desc,
// rating_asc).
func (h LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, span := logging.StartSpan(r.Context(), "library.list")
	defer span.End()
	logger := logging.FromContext(ctx)

	objects, err := h.Objects.List(ctx, h.VideoPrefix)
	if err != nil {
		logger.Error("list bucket failed", "prefix", h.VideoPrefix, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to list videos"))
		return
	}

	// Sidecars share the listing with playable objects and are separated
	// purely by suffix convention.
	thumbs := make(map[string]struct{})
	var videoKeys []string
	var videoObjects []storageObject
	for _, obj := range objects {
		if storage.IsSidecarKey(obj.Key) {
			if base, ok := strings.CutSuffix(obj.Key, storage.ThumbSuffix); ok {
				thumbs[base] = struct{}{}
			}
			continue
		}
		videoKeys = append(videoKeys, obj.Key)
		videoObjects = append(videoObjects, storageObject{key: obj.Key, size: obj.Size, lastModified: obj.LastModified})
	}

	rows, err := h.Videos.FindByKeys(ctx, videoKeys)
	if err != nil {
		logger.Error("load metadata rows failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to list videos"))
		return
	}

	metaByKey := make(map[string]int, len(rows))
	for i := range rows {
		metaByKey[rows[i].Key] = i
	}

	items := make([]library.Item, len(videoObjects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, obj := range videoObjects {
		g.Go(func() error {
			url, err := h.Signer.SignedReadURL(gctx, obj.key, h.VideoReadTTL)
			if err != nil {
				return err
			}

			item := library.Item{
				Key:          obj.key,
				URL:          url,
				Size:         obj.size,
				LastModified: obj.lastModified,
				Tags:         []string{},
			}

			if idx, ok := metaByKey[obj.key]; ok {
				row := rows[idx]
				item.Name = row.Name
				item.Rating = row.Rating
				item.Club = row.Club
				item.ShotType = row.ShotType
				item.Notes = row.Notes
				item.Favorite = row.Favorite
				if len(row.Tags) > 0 {
					item.Tags = row.Tags
				}
			}

			if _, ok := thumbs[obj.key]; ok {
				thumbURL, err := h.Signer.SignedReadURL(gctx, storage.ThumbKey(obj.key), h.SidecarReadTTL)
				if err != nil {
					return err
				}
				item.ThumbURL = thumbURL
			}

			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("sign read urls failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to list videos"))
		return
	}

	if raw := r.URL.Query().Get("minRating"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil {
			respondJSON(ctx, w, http.StatusBadRequest, errorBody("minRating must be a number"))
			return
		}
		items = library.FilterMinRating(items, threshold)
	}

	library.Sort(items, r.URL.Query().Get("sort"))

	respondJSON(ctx, w, http.StatusOK, libraryResponse{Items: items})
}

type storageObject struct {
	key          string
	size         int64
	lastModified time.Time
}
