package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetyo/sentra/internal/agent"
	"github.com/prasetyo/sentra/pkg/config"
	"github.com/prasetyo/sentra/pkg/logger"
)

type fakeNotifier struct {
	broadcasts int
}

func (n *fakeNotifier) Broadcast() { n.broadcasts++ }

func importFixture(t *testing.T, existing string) (*ImportHandler, *config.Config, *fakeNotifier) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		Data: config.DataConfig{
			Path:            filepath.Join(dir, "daily_sales.csv"),
			BackupPath:      filepath.Join(dir, "daily_sales_backup.csv"),
			UploadMaxBytes:  1 << 20,
			ImportPerMinute: 60,
		},
	}

	if existing != "" {
		require.NoError(t, os.WriteFile(cfg.Data.Path, []byte(existing), 0644))
	}

	log := logger.NewWriter(io.Discard)
	notifier := &fakeNotifier{}
	h := NewImportHandler(agent.New(cfg, log), cfg, notifier, log)
	return h, cfg, notifier
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func redirectQuery(t *testing.T, rec *httptest.ResponseRecorder) url.Values {
	t.Helper()

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return loc.Query()
}

func TestUploadReplacesDataset(t *testing.T) {
	h, cfg, notifier := importFixture(t, "")

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "sales.csv", sampleCSV))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "2026-08-25", redirectQuery(t, rec).Get("imported"))
	assert.Equal(t, 1, notifier.broadcasts)

	saved, err := os.ReadFile(cfg.Data.Path)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(saved))
}

func TestUploadRejectsNonCSV(t *testing.T) {
	h, cfg, notifier := importFixture(t, "")

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "sales.xlsx", "not a csv"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, redirectQuery(t, rec).Get("error"), ".csv")
	assert.Zero(t, notifier.broadcasts)

	_, err := os.Stat(cfg.Data.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestUploadRestoresBackupOnInvalidData(t *testing.T) {
	h, cfg, notifier := importFixture(t, sampleCSV)

	bad := "date,region,product,total_sales\n2026-08-25,Jakarta,Beverages,not-a-number\n"
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "bad.csv", bad))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NotEmpty(t, redirectQuery(t, rec).Get("error"))
	assert.Zero(t, notifier.broadcasts)

	// Previous dataset is back in place
	saved, err := os.ReadFile(cfg.Data.Path)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(saved))
}

func TestUploadRemovesFileWhenNoPrevious(t *testing.T) {
	h, cfg, _ := importFixture(t, "")

	bad := "date,region,product,total_sales\n2026-08-25,Jakarta,Beverages,not-a-number\n"
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "bad.csv", bad))

	require.Equal(t, http.StatusSeeOther, rec.Code)

	// No dataset existed before, so the bad upload is removed entirely
	_, err := os.Stat(cfg.Data.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestUploadRateLimited(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Data: config.DataConfig{
			Path:            filepath.Join(dir, "daily_sales.csv"),
			BackupPath:      filepath.Join(dir, "daily_sales_backup.csv"),
			UploadMaxBytes:  1 << 20,
			ImportPerMinute: 1,
		},
	}
	log := logger.NewWriter(io.Discard)
	h := NewImportHandler(agent.New(cfg, log), cfg, nil, log)

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "sales.csv", sampleCSV))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// Burst of one: the second immediate upload is rejected
	rec = httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "sales.csv", sampleCSV))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
