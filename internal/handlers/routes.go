package handlers

import (
	"net/http"
	"time"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Uploads  UploadCredentialIssuer
	Objects  ObjectStore
	Signer   ReadURLSigner
	Videos   VideoStore
	Grants   GrantStore
	Sessions SessionReader
	Limiter  RateLimiter

	VideoPrefix    string
	MaxUploadSize  int64
	UploadPutTTL   time.Duration
	UploadFormTTL  time.Duration
	VideoReadTTL   time.Duration
	SidecarReadTTL time.Duration
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	uploads := UploadHandler{
		Storage:       deps.Uploads,
		Limiter:       deps.Limiter,
		VideoPrefix:   deps.VideoPrefix,
		MaxUploadSize: deps.MaxUploadSize,
		PutTTL:        deps.UploadPutTTL,
		FormTTL:       deps.UploadFormTTL,
	}
	objects := ObjectHandler{Objects: deps.Objects}
	libraryView := LibraryHandler{
		Objects:        deps.Objects,
		Signer:         deps.Signer,
		Videos:         deps.Videos,
		VideoPrefix:    deps.VideoPrefix,
		VideoReadTTL:   deps.VideoReadTTL,
		SidecarReadTTL: deps.SidecarReadTTL,
	}
	metadata := MetadataHandler{Videos: deps.Videos, Sessions: deps.Sessions}
	thumbnails := ThumbnailHandler{Objects: deps.Objects}
	coach := CoachHandler{Grants: deps.Grants, VideoStore: deps.Videos, Sessions: deps.Sessions}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/uploads/presign", uploads.Presign)
	mux.HandleFunc("/api/v1/uploads/form", uploads.PresignForm)
	mux.HandleFunc("/api/v1/objects/delete", objects.Delete)
	mux.HandleFunc("/api/v1/library", libraryView.List)
	mux.HandleFunc("/api/v1/videos/metadata", metadata.Handle)
	mux.HandleFunc("/api/v1/videos/rate", metadata.Rate)
	mux.HandleFunc("/api/v1/videos/club", metadata.SetClub)
	mux.HandleFunc("/api/v1/thumbnails", thumbnails.Upload)
	mux.HandleFunc("/api/v1/coach/share", coach.Share)
	mux.HandleFunc("/api/v1/coach/list", coach.List)
	mux.HandleFunc("/api/v1/coach/revoke", coach.Revoke)
	mux.HandleFunc("/api/v1/coach/videos", coach.Videos)
}
