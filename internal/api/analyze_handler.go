package api

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"gohrm/adapters/eds"
	"gohrm/adapters/export"
	"gohrm/adapters/report"
	"gohrm/adapters/tabular"
	"gohrm/app"
	"gohrm/domain/core"
	"gohrm/domain/melt"
)

// handleAnalyze accepts one uploaded input file (csv, xlsx or eds), runs the
// pipeline with settings taken from form fields, and responds with the
// result as JSON (default), the flattened table as CSV, or an HTML report.
//
// Form fields: file (required), smoothing_window, reference_sample, mode,
// pre_start/pre_end/post_start/post_end (manual mode only).
// Query: format = json | csv | html.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadBytes); err != nil {
		http.Error(w, "invalid multipart request: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	reading, err := decodeUpload(file, header.Filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	settings, err := settingsFromForm(r, s.cfg.Analysis.Settings())
	if err != nil {
		s.writeError(w, err)
		return
	}

	service := app.NewAnalysisService()
	result, err := service.Analyze(reading, settings)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="melt_export.csv"`)
		if err := export.WriteCSV(w, service.ExportTable()); err != nil {
			s.logger.Error("csv export failed: %v", err)
		}
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(report.RenderHTML(report.BuildMarkdown(result)))
	default:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			s.logger.Error("json encode failed: %v", err)
		}
	}
}

// decodeUpload picks the decoder from the uploaded file's extension
func decodeUpload(file io.Reader, filename string) (melt.TabularReading, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".eds", ".zip":
		data, err := io.ReadAll(file)
		if err != nil {
			return melt.TabularReading{}, core.NewArchiveDecodeError(err)
		}
		return eds.ParseArchive(data)
	case ".xlsx", ".xls":
		return tabular.FromXLSX(file)
	default:
		return tabular.FromCSV(file)
	}
}

// settingsFromForm overlays request fields onto the configured defaults
func settingsFromForm(r *http.Request, defaults melt.AnalysisSettings) (melt.AnalysisSettings, error) {
	settings := defaults

	if v := r.FormValue("smoothing_window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return settings, core.NewSettingsError("smoothing_window", "not an integer")
		}
		settings.SmoothingWindow = n
	}
	if v := r.FormValue("reference_sample"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return settings, core.NewSettingsError("reference_sample", "not an integer")
		}
		settings.ReferenceSample = &n
	}
	if v := r.FormValue("mode"); v != "" {
		settings.Mode = melt.NormalizationMode(v)
	}
	if settings.Mode == melt.ModeManual {
		regions, err := regionsFromForm(r)
		if err != nil {
			return settings, err
		}
		settings.ManualRegions = regions
	}
	return settings, nil
}

func regionsFromForm(r *http.Request) (*melt.Regions, error) {
	fields := []string{"pre_start", "pre_end", "post_start", "post_end"}
	values := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(r.FormValue(f))
		if err != nil {
			return nil, core.NewSettingsError(f, "required integer in manual mode")
		}
		values[i] = n
	}
	return &melt.Regions{
		PreStart:  values[0],
		PreEnd:    values[1],
		PostStart: values[2],
		PostEnd:   values[3],
	}, nil
}

// writeError maps engine errors onto HTTP status codes
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsSettingsError(err):
		status = http.StatusBadRequest
	case core.IsExtractionError(err), core.IsArchiveError(err):
		status = http.StatusUnprocessableEntity
	}
	s.logger.Warn("request failed: %v", err)
	http.Error(w, err.Error(), status)
}
