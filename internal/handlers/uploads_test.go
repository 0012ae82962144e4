package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"
)

func TestUploadHandlerPresignUserNamespaced(t *testing.T) {
	issuer := &issuerStub{}
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	handler := UploadHandler{
		Storage:     issuer,
		VideoPrefix: "videos/",
		PutTTL:      10 * time.Minute,
		NowFunc:     func() time.Time { return now },
	}

	body, _ := json.Marshal(map[string]string{
		"filename":    "drive.mp4",
		"contentType": "video/mp4",
		"userId":      "user-1",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/presign", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Presign(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if issuer.putCalls != 1 {
		t.Fatalf("expected one presign call, got %d", issuer.putCalls)
	}
	if issuer.gotTTL != 10*time.Minute {
		t.Fatalf("expected 10m ttl, got %s", issuer.gotTTL)
	}

	pattern := regexp.MustCompile(`^users/user-1/1717243200000-[0-9a-f]{8}\.mp4$`)
	if !pattern.MatchString(issuer.gotKey) {
		t.Fatalf("unexpected key %q", issuer.gotKey)
	}
}

func TestUploadHandlerPresignFlatVariant(t *testing.T) {
	issuer := &issuerStub{}
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	handler := UploadHandler{
		Storage:     issuer,
		VideoPrefix: "videos/",
		PutTTL:      10 * time.Minute,
		NowFunc:     func() time.Time { return now },
	}

	// Flat variant: name/type aliases, no userId.
	body := []byte(`{"name":"my swing (1).mp4","type":"video/mp4"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/presign", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Presign(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if issuer.gotKey != "videos/1717243200000-my_swing_1_.mp4" {
		t.Fatalf("unexpected key %q", issuer.gotKey)
	}
}

func TestUploadHandlerPresignKeysAreUniquePerCall(t *testing.T) {
	issuer := &issuerStub{}
	handler := UploadHandler{Storage: issuer, VideoPrefix: "videos/", PutTTL: 10 * time.Minute}

	body := []byte(`{"filename":"swing.mp4","contentType":"video/mp4","userId":"user-1"}`)

	keys := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/presign", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.Presign(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		keys[issuer.gotKey] = struct{}{}
	}

	if len(keys) != 5 {
		t.Fatalf("expected 5 distinct keys, got %d", len(keys))
	}
}

func TestUploadHandlerPresignValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "missing filename", body: `{"contentType":"video/mp4"}`},
		{name: "missing content type", body: `{"filename":"a.mp4"}`},
		{name: "malformed json", body: `{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := UploadHandler{Storage: &issuerStub{}, VideoPrefix: "videos/"}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/presign", bytes.NewReader([]byte(tc.body)))
			rec := httptest.NewRecorder()

			handler.Presign(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", rec.Code)
			}
		})
	}
}

func TestUploadHandlerPresignDownstreamFailure(t *testing.T) {
	issuer := &issuerStub{err: errors.New("s3 unavailable")}
	handler := UploadHandler{Storage: issuer, VideoPrefix: "videos/"}

	body := []byte(`{"filename":"swing.mp4","contentType":"video/mp4"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/presign", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Presign(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "failed to create upload URL" {
		t.Fatalf("expected generic error message, got %q", resp["error"])
	}
}

func TestUploadHandlerPresignRateLimited(t *testing.T) {
	handler := UploadHandler{Storage: &issuerStub{}, VideoPrefix: "videos/", Limiter: denyAllLimiter{}}

	body := []byte(`{"filename":"swing.mp4","contentType":"video/mp4"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/presign", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Presign(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
}

func TestUploadHandlerPresignFormRequiresUserID(t *testing.T) {
	handler := UploadHandler{Storage: &issuerStub{}, VideoPrefix: "videos/"}

	body := []byte(`{"filename":"swing.mp4","contentType":"video/mp4"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/form", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.PresignForm(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUploadHandlerPresignFormSuccess(t *testing.T) {
	issuer := &issuerStub{}
	issuer.cred.Fields = map[string]string{"Content-Type": "video/mp4", "key": "ignored"}
	handler := UploadHandler{
		Storage:       issuer,
		VideoPrefix:   "videos/",
		MaxUploadSize: 500 * 1024 * 1024,
		FormTTL:       time.Minute,
	}

	body := []byte(`{"filename":"swing.mov","contentType":"video/quicktime","userId":"user-9"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/form", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.PresignForm(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if issuer.formCalls != 1 {
		t.Fatalf("expected one form presign call, got %d", issuer.formCalls)
	}
	if issuer.gotTTL != time.Minute {
		t.Fatalf("expected 60s ttl, got %s", issuer.gotTTL)
	}
	if issuer.gotMax != 500*1024*1024 {
		t.Fatalf("expected max size forwarded, got %d", issuer.gotMax)
	}

	var resp presignResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Fields) == 0 {
		t.Fatal("expected form fields in response")
	}
}

func TestUploadHandlerMethodNotAllowed(t *testing.T) {
	handler := UploadHandler{Storage: &issuerStub{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/uploads/presign", nil)
	rec := httptest.NewRecorder()

	handler.Presign(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rec.Code)
	}
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }
