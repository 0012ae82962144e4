package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestObjectHandlerDelete(t *testing.T) {
	store := &objectStoreStub{}
	handler := ObjectHandler{Objects: store}

	body := []byte(`{"key":"videos/123-swing.mp4"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/objects/delete", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if store.deletedKey != "videos/123-swing.mp4" {
		t.Fatalf("unexpected deleted key %q", store.deletedKey)
	}
}

func TestObjectHandlerDeleteDoesNotCascadeSidecars(t *testing.T) {
	store := &objectStoreStub{}
	handler := ObjectHandler{Objects: store}

	body := []byte(`{"key":"videos/123-swing.mp4"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/objects/delete", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	// Exactly one delete was issued; the .meta.json and .thumb.jpg
	// siblings remain whatever they were.
	if store.deletedKey != "videos/123-swing.mp4" {
		t.Fatalf("expected only the video key deleted, got %q", store.deletedKey)
	}
}

func TestObjectHandlerDeleteMissingKey(t *testing.T) {
	handler := ObjectHandler{Objects: &objectStoreStub{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/objects/delete", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestObjectHandlerDeleteDownstreamFailure(t *testing.T) {
	handler := ObjectHandler{Objects: &objectStoreStub{deleteErr: errors.New("boom")}}

	body := []byte(`{"key":"videos/123-swing.mp4"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/objects/delete", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}
