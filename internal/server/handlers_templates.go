package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	ppt "github.com/VantageDataChat/GoPPT"
	"github.com/google/uuid"

	"github.com/jonathan/ppt-architect/internal/types"
)

const (
	maxUploadSize   = 50 << 20
	multipartMemory = 32 << 20
)

// handleUploadTemplate stores an uploaded .pptx as <uuid>.pptx in the
// templates directory.
func (s *Server) handleUploadTemplate(w http.ResponseWriter, r *http.Request) {
	file, filename, err := s.formFile(w, r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	if !strings.EqualFold(filepath.Ext(filename), ".pptx") {
		s.errorResponse(w, http.StatusBadRequest, "只支持 .pptx 格式的模板文件")
		return
	}

	id := uuid.New().String()
	path := filepath.Join(s.settings.TemplatesDir, id+".pptx")
	if err := saveUpload(file, path); err != nil {
		s.logger.Printf("[template] upload failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "模板上传失败: "+err.Error())
		return
	}

	// the renderer opens templates with the same reader
	if _, err := ppt.Open(path); err != nil {
		_ = os.Remove(path)
		s.errorResponse(w, http.StatusBadRequest, "无法读取模板文件: "+err.Error())
		return
	}

	info := &types.TemplateInfo{
		ID:       id,
		Filename: filename,
		Path:     path,
		Created:  time.Now().UTC(),
	}
	if err := s.templates.SaveTemplate(r.Context(), info); err != nil {
		_ = os.Remove(path)
		s.writeError(w, fmt.Errorf("failed to record template: %w", err))
		return
	}

	s.logger.Printf("[template] uploaded %s -> %s", filename, id)
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"template_id": id,
		"filename":    filename,
		"message":     "模板上传成功",
	})
}

// formFile reads the multipart "file" field of r.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (io.ReadCloser, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, "", fmt.Errorf("invalid multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("file is required")
	}
	return file, filepath.Base(header.Filename), nil
}

func saveUpload(src io.Reader, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return err
	}
	return out.Close()
}
