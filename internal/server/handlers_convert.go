package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/ppt-architect/internal/convert"
)

var conversionMediaTypes = map[convert.Format]string{
	convert.FormatPDF:  MediaTypePDF,
	convert.FormatDOCX: MediaTypeDOCX,
	convert.FormatPPTX: MediaTypePPTX,
}

// handleConvert converts an uploaded document to ?target_format (pdf by
// default) and returns the converted file. Both the uploaded input and the
// output are removed once the response is written.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	target := convert.ParseFormat(r.URL.Query().Get("target_format"))
	if target == "" {
		target = convert.FormatPDF
	}

	file, filename, err := s.formFile(w, r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	from := convert.FormatOf(filename)
	if !convert.Supported(from, target) {
		s.writeError(w, fmt.Errorf("%w: %s to %s", convert.ErrUnsupportedConversion, from, target))
		return
	}

	id := uuid.New().String()
	input := filepath.Join(s.settings.OutputDir, "temp", id+"_in."+string(from))
	if err := saveUpload(file, input); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to store upload: "+err.Error())
		return
	}
	defer func() { _ = os.Remove(input) }()

	outDir := filepath.Join(s.settings.OutputDir, "converted", id)
	defer func() { _ = os.RemoveAll(outDir) }()

	s.logger.Printf("[convert] %s: %s -> %s", id, filename, target)
	out, err := s.converter.Convert(r.Context(), input, target, outDir)
	if err != nil {
		s.logger.Printf("[convert] %s failed: %v", id, err)
		s.writeError(w, err)
		return
	}

	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + "." + string(target)
	f, err := os.Open(out)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "converted file missing")
		return
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", conversionMediaTypes[target])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}
