package locale

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDetectorTestKey(t *testing.T) {
	d := NewDetector("http://unused", TestKey, time.Second)
	tag, err := d.Detect(context.Background(), "Qu'est-ce que le courage ?")
	require.NoError(t, err)
	assert.Equal(t, "en", tag)
}

func TestHTTPDetector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer k1", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Qu'est-ce que le courage ?", r.PostForm.Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"detections":[{"language":"fr","isReliable":true,"confidence":9.1}]}}`))
	}))
	defer srv.Close()

	d := NewHTTPDetector(srv.URL, "k1", srv.Client())
	tag, err := d.Detect(context.Background(), "Qu'est-ce que le courage ?")
	require.NoError(t, err)
	assert.Equal(t, "fr", tag)
}

func TestHTTPDetectorFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"api error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":1,"message":"invalid api key"}}`))
		},
		"no detections": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"detections":[]}}`))
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := NewHTTPDetector(srv.URL, "k", srv.Client()).Detect(context.Background(), "hello")
			assert.ErrorIs(t, err, ErrDetection)
		})
	}
}

func TestHTTPDetectorUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPDetector(url, "k", nil).Detect(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrDetection)
}
