package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golfcloud/backend/internal/models"
	"github.com/golfcloud/backend/internal/repositories"
)

type sessionReaderStub struct {
	session models.Session
	err     error
}

func (s sessionReaderStub) SessionFromRequest(*http.Request) (models.Session, error) {
	if s.err != nil {
		return models.Session{}, s.err
	}
	return s.session, nil
}

type issuerStub struct {
	cred      models.UploadCredential
	err       error
	gotKey    string
	gotType   string
	gotTTL    time.Duration
	gotMax    int64
	formCalls int
	putCalls  int
}

func (s *issuerStub) PresignUpload(_ context.Context, key, contentType string, ttl time.Duration) (models.UploadCredential, error) {
	s.putCalls++
	s.gotKey, s.gotType, s.gotTTL = key, contentType, ttl
	if s.err != nil {
		return models.UploadCredential{}, s.err
	}
	cred := s.cred
	if cred.Key == "" {
		cred.Key = key
	}
	return cred, nil
}

func (s *issuerStub) PresignFormUpload(_ context.Context, key, contentType string, maxSize int64, ttl time.Duration) (models.UploadCredential, error) {
	s.formCalls++
	s.gotKey, s.gotType, s.gotTTL, s.gotMax = key, contentType, ttl, maxSize
	if s.err != nil {
		return models.UploadCredential{}, s.err
	}
	cred := s.cred
	if cred.Key == "" {
		cred.Key = key
	}
	return cred, nil
}

type objectStoreStub struct {
	objects    []models.ObjectInfo
	listErr    error
	deleteErr  error
	putErr     error
	deletedKey string
	putKey     string
	putType    string
	putBody    []byte
}

func (s *objectStoreStub) List(context.Context, string) ([]models.ObjectInfo, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.objects, nil
}

func (s *objectStoreStub) Delete(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedKey = key
	return nil
}

func (s *objectStoreStub) Put(_ context.Context, key, contentType string, r io.Reader) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	s.putKey, s.putType = key, contentType
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return "", err
	}
	s.putBody = buf.Bytes()
	return "https://cdn.example.com/" + key, nil
}

type signerStub struct {
	err error
}

func (s signerStub) SignedReadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("https://signed.example.com/%s", key), nil
}

type videoStoreStub struct {
	videos map[string]models.Video

	upsertErr error
	findErr   error
	updateErr error
	deleteErr error
	listErr   error

	listUserID string
	listEmail  string
}

func newVideoStoreStub() *videoStoreStub {
	return &videoStoreStub{videos: make(map[string]models.Video)}
}

func (s *videoStoreStub) Upsert(_ context.Context, video models.Video) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	if existing, ok := s.videos[video.Key]; ok {
		video.ID = existing.ID
		video.CreatedAt = existing.CreatedAt
	}
	s.videos[video.Key] = video
	return nil
}

func (s *videoStoreStub) FindByKey(_ context.Context, key string) (models.Video, error) {
	if s.findErr != nil {
		return models.Video{}, s.findErr
	}
	video, ok := s.videos[key]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *videoStoreStub) FindByKeys(_ context.Context, keys []string) ([]models.Video, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Video
	for _, key := range keys {
		if video, ok := s.videos[key]; ok {
			out = append(out, video)
		}
	}
	return out, nil
}

func (s *videoStoreStub) UpdateRating(_ context.Context, key string, rating int) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	video, ok := s.videos[key]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Rating = &rating
	s.videos[key] = video
	return nil
}

func (s *videoStoreStub) UpdateClub(_ context.Context, key, club string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	video, ok := s.videos[key]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Club = club
	s.videos[key] = video
	return nil
}

func (s *videoStoreStub) DeleteByKey(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.videos, key)
	return nil
}

func (s *videoStoreStub) ListVisibleTo(_ context.Context, userID, email string) ([]models.Video, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.listUserID, s.listEmail = userID, email
	var out []models.Video
	for _, video := range s.videos {
		out = append(out, video)
	}
	return out, nil
}

type grantStoreStub struct {
	grants map[string]models.AccessGrant

	grantErr  error
	revokeErr error
	listErr   error

	revokedPlayer string
	revokedEmail  string
}

func newGrantStoreStub() *grantStoreStub {
	return &grantStoreStub{grants: make(map[string]models.AccessGrant)}
}

func pairKey(playerID, email string) string {
	return playerID + "|" + email
}

func (s *grantStoreStub) Grant(_ context.Context, grant models.AccessGrant) error {
	if s.grantErr != nil {
		return s.grantErr
	}
	key := pairKey(grant.PlayerID, grant.CoachEmail)
	if _, ok := s.grants[key]; ok {
		return nil
	}
	s.grants[key] = grant
	return nil
}

func (s *grantStoreStub) Revoke(_ context.Context, playerID, coachEmail string) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}
	s.revokedPlayer, s.revokedEmail = playerID, coachEmail
	delete(s.grants, pairKey(playerID, coachEmail))
	return nil
}

func (s *grantStoreStub) ListForPlayer(_ context.Context, playerID string) ([]models.AccessGrant, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.AccessGrant
	for _, grant := range s.grants {
		if grant.PlayerID == playerID {
			out = append(out, grant)
		}
	}
	return out, nil
}
