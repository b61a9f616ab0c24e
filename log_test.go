package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, log.DebugLevel, newLogger(&buf, "debug").GetLevel())
	assert.Equal(t, log.InfoLevel, newLogger(&buf, "loud").GetLevel())
	assert.Equal(t, log.InfoLevel, newLogger(&buf, "").GetLevel())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(requestLogger(newLogger(&buf, "info")))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Empty(t, buf.String())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Contains(t, buf.String(), "ERRO")
	assert.Contains(t, buf.String(), "path=/boom")
	assert.Contains(t, buf.String(), "status=500")
}

func TestOpenDB(t *testing.T) {
	_, err := openDB("  ")
	assert.Error(t, err)

	db, err := openDB(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}
