package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/prasetyo/sentra/internal/agent"
	"github.com/prasetyo/sentra/pkg/config"
	"github.com/prasetyo/sentra/pkg/logger"
)

// Notifier is told when the dataset has changed.
type Notifier interface {
	Broadcast()
}

// ImportHandler replaces the daily sales dataset from an uploaded CSV.
// The previous file is backed up first and restored when the new data
// fails validation, so a bad upload never leaves the dashboard broken.
type ImportHandler struct {
	agent    *agent.Agent
	cfg      *config.Config
	limiter  *rate.Limiter
	notifier Notifier
	logger   *logger.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(a *agent.Agent, cfg *config.Config, notifier Notifier, log *logger.Logger) *ImportHandler {
	perMinute := cfg.Data.ImportPerMinute
	if perMinute <= 0 {
		perMinute = 1
	}

	return &ImportHandler{
		agent:    a,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		notifier: notifier,
		logger:   log,
	}
}

// Upload handles the CSV upload.
// POST /import
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		respondError(w, http.StatusTooManyRequests, "Too many imports, try again shortly")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Data.UploadMaxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.redirectWithError(w, r, "Tidak ada file yang dipilih")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		h.redirectWithError(w, r, "File harus berformat .csv")
		return
	}

	dataPath := h.cfg.Data.Path
	backupPath := h.cfg.Data.BackupPath

	// Backup the current dataset before replacing it
	hadPrevious := false
	if _, err := os.Stat(dataPath); err == nil {
		if err := copyFile(dataPath, backupPath); err != nil {
			h.logger.WithError(err).Error("Failed to back up dataset")
			respondError(w, http.StatusInternalServerError, "Failed to back up current dataset")
			return
		}
		hadPrevious = true
	}

	if err := h.saveUpload(file, dataPath); err != nil {
		h.logger.WithError(err).Error("Failed to save uploaded dataset")
		h.restore(hadPrevious)
		h.redirectWithError(w, r, "Gagal menyimpan file")
		return
	}

	// Validate the new data by running a full analysis against it
	result, err := h.agent.Run()
	if err != nil {
		h.logger.WithError(err).Warn("Uploaded dataset failed validation, restoring backup")
		h.restore(hadPrevious)
		h.redirectWithError(w, r, fmt.Sprintf("Error: %v. File harus berformat CSV yang valid.", err))
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"date": result.Summary.Date,
		"rows": result.Summary.TotalRows,
	}).Info("Dataset imported")

	if h.notifier != nil {
		h.notifier.Broadcast()
	}

	http.Redirect(w, r, "/import?imported="+url.QueryEscape(result.Summary.Date), http.StatusSeeOther)
}

func (h *ImportHandler) saveUpload(file io.Reader, dataPath string) error {
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	out, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return fmt.Errorf("write dataset file: %w", err)
	}
	return nil
}

// restore puts the backed-up dataset back in place after a failed import.
func (h *ImportHandler) restore(hadPrevious bool) {
	if !hadPrevious {
		os.Remove(h.cfg.Data.Path)
		return
	}

	if err := copyFile(h.cfg.Data.BackupPath, h.cfg.Data.Path); err != nil {
		h.logger.WithError(err).Error("Failed to restore dataset backup")
	}
}

func (h *ImportHandler) redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/import?error="+url.QueryEscape(message), http.StatusSeeOther)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
