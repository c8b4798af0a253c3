package ner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewHTTPRecognizer(t *testing.T) {
	t.Parallel()

	if _, err := NewHTTPRecognizer("  "); !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("expected ErrNoEndpoint, got %v", err)
	}

	r, err := NewHTTPRecognizer("http://localhost:8000/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.endpoint != "http://localhost:8000/detect" {
		t.Errorf("unexpected endpoint %q", r.endpoint)
	}
	if r.Name() != "http" {
		t.Errorf("unexpected name %q", r.Name())
	}
}

func TestHTTPRecognizerRecognize(t *testing.T) {
	t.Parallel()

	t.Run("sends text and decodes entities envelope", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method != http.MethodPost || req.URL.Path != "/detect" {
				http.Error(w, "bad route", http.StatusNotFound)
				return
			}
			if req.Header.Get("Authorization") != "Bearer k3y" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			var body struct {
				Text string `json:"text"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Text != "John at Acme" {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"entities": [
				{"text": "John", "label": "PER", "start_pos": 0, "end_pos": 4, "confidence": 0.99},
				{"text": "Acme", "label": "ORG", "start_pos": 8, "end_pos": 12, "confidence": 0.95}
			]}`))
		}))
		defer srv.Close()

		r, err := NewHTTPRecognizer(srv.URL, WithAPIKey("k3y"), WithTimeout(5*time.Second))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := r.Recognize(context.Background(), "John at Acme")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 entities, got %+v", got)
		}
		if got[0].Text != "John" || got[0].Label != "PER" || got[0].End != 4 {
			t.Errorf("unexpected first entity %+v", got[0])
		}
		if got[1].Label != "ORG" || got[1].Confidence != 0.95 {
			t.Errorf("unexpected second entity %+v", got[1])
		}
	})

	t.Run("accepts pipeline-style array", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"entity_group": "EDU", "word": "University of Leeds", "score": 0.9, "start": 5, "end": 24}]`))
		}))
		defer srv.Close()

		r, err := NewHTTPRecognizer(srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := r.Recognize(context.Background(), "MSc, University of Leeds")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Label != "EDU" || got[0].Text != "University of Leeds" || got[0].Start != 5 {
			t.Errorf("unexpected entities %+v", got)
		}
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		r, err := NewHTTPRecognizer(srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := r.Recognize(context.Background(), "text"); !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("expected ErrUnexpectedStatus, got %v", err)
		}
	})

	t.Run("invalid body is an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		r, err := NewHTTPRecognizer(srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := r.Recognize(context.Background(), "text"); err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("rate limiter honours cancelled context", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"entities": []}`))
		}))
		defer srv.Close()

		r, err := NewHTTPRecognizer(srv.URL, WithRateLimit(0.001, 1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := r.Recognize(context.Background(), "first"); err != nil {
			t.Fatalf("expected burst to allow first request: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := r.Recognize(ctx, "second"); err == nil {
			t.Error("expected rate limiter to fail on cancelled context")
		}
	})
}
