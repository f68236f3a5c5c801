package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cssinliner/internal/config"
	"cssinliner/pkg/inliner"
)

func newTestServer(t *testing.T, defaults config.ConversionConfig) *httptest.Server {
	t.Helper()
	cfg := config.Default().Server
	cfg.MaxBodyBytes = 2048
	srv := httptest.NewServer(New(inliner.New(), cfg, defaults, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, config.ConversionConfig{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestConvert(t *testing.T) {
	srv := newTestServer(t, config.ConversionConfig{})

	resp := post(t, srv.URL+"/api/v1/convert", `{"html":"<div class=\"a\">hi</div>","css":".a { color: red }","bodyOnly":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body convertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.HTML, "color: rgb(255, 0, 0); ")
	assert.Equal(t, 2, body.Elements, "body and div")
	assert.Positive(t, body.Declarations)
}

func TestConvertDefaults(t *testing.T) {
	srv := newTestServer(t, config.ConversionConfig{RemoveWhitespace: true})

	resp := post(t, srv.URL+"/api/v1/convert", `{"html":"<div>\n <p>x</p>\n</div>"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body convertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body.HTML, "\n")

	resp = post(t, srv.URL+"/api/v1/convert", `{"html":"<div>\n <p>x</p>\n</div>","removeWhitespace":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.HTML, "\n")
}

func TestConvertRejects(t *testing.T) {
	srv := newTestServer(t, config.ConversionConfig{})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"blank html", `{"html":"  ","css":"p{}"}`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"bad json", `{"html":`, http.StatusBadRequest},
		{"too large", `{"html":"` + strings.Repeat("x", 4096) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/api/v1/convert", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}

	resp, err := http.Get(srv.URL + "/api/v1/convert")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestPreview(t *testing.T) {
	srv := newTestServer(t, config.ConversionConfig{})

	resp := post(t, srv.URL+"/api/v1/preview", `{"html":"<p>x</p>","css":"p{color:red}"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, inliner.Preview("<p>x</p>", "p{color:red}"), string(body))
}

func TestTemplate(t *testing.T) {
	srv := newTestServer(t, config.ConversionConfig{})

	resp, err := http.Get(srv.URL + "/api/v1/template.css")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/css; charset=utf-8", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, inliner.TemplateCSS, string(body))
}

func TestRunShutdown(t *testing.T) {
	cfg := config.Default().Server
	cfg.Listen = "127.0.0.1:0"
	s := New(inliner.New(), cfg, config.ConversionConfig{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
