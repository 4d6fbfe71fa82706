package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/mbti-climate-service/internal/adapter/csvfile"
	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/couchcryptid/mbti-climate-service/internal/pipeline"
)

const (
	fieldData     = "data"
	fieldCapitals = "capitals"
	defaultSource = "upload"
)

type resultHandler func(w http.ResponseWriter, r *http.Request, res *domain.Result)

// withResult answers 404 until a dataset has been processed.
func (s *Server) withResult(h resultHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := s.svc.Latest()
		if !ok {
			writeError(w, http.StatusNotFound, "no dataset loaded")
			return
		}
		h(w, r, res)
	}
}

// handleUpload accepts a CSV as the raw request body or as a multipart form
// with a "data" file and an optional "capitals" file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	in, err := readUpload(r)
	if err != nil {
		s.writeRunError(w, err)
		return
	}

	res, err := s.svc.Run(r.Context(), in)
	if err != nil {
		s.writeRunError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Summary())
}

func readUpload(r *http.Request) (pipeline.RunInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return pipeline.RunInput{}, err
		}
		source := r.URL.Query().Get("name")
		if source == "" {
			source = defaultSource
		}
		return decodeInput(source, data)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return pipeline.RunInput{}, err
	}

	var (
		dataSource  string
		data        []byte
		capitals    *domain.RawTable
		capitalsErr error
	)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return pipeline.RunInput{}, err
		}

		name := part.FormName()
		if name != fieldData && name != fieldCapitals {
			part.Close()
			continue
		}
		body, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return pipeline.RunInput{}, err
		}

		source := part.FileName()
		if source == "" {
			source = name
		}
		if name == fieldData {
			dataSource, data = source, body
			continue
		}
		// An unreadable capitals file degrades the run instead of rejecting it.
		if tbl, _, err := csvfile.Decode(source, body); err != nil {
			capitals, capitalsErr = nil, err
		} else {
			capitals, capitalsErr = &tbl, nil
		}
	}
	if data == nil {
		return pipeline.RunInput{}, &domain.IOError{Source: fieldData, Err: errors.New("missing multipart field")}
	}

	in, err := decodeInput(dataSource, data)
	in.Capitals = capitals
	in.CapitalsErr = capitalsErr
	return in, err
}

func decodeInput(source string, data []byte) (pipeline.RunInput, error) {
	tbl, enc, err := csvfile.Decode(source, data)
	if err != nil {
		return pipeline.RunInput{}, err
	}
	return pipeline.RunInput{Source: source, Encoding: enc, Data: tbl}, nil
}

func (s *Server) writeRunError(w http.ResponseWriter, err error) {
	var (
		maxErr    *http.MaxBytesError
		schemaErr *domain.SchemaError
		shapeErr  *domain.ShapeError
		ioErr     *domain.IOError
	)
	switch {
	case errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", maxErr.Limit))
	case errors.As(err, &schemaErr), errors.As(err, &shapeErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &ioErr):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Warn("dataset upload rejected", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func handleSummary(w http.ResponseWriter, _ *http.Request, res *domain.Result) {
	writeJSON(w, http.StatusOK, res.Summary())
}

func handleCanonical(w http.ResponseWriter, _ *http.Request, res *domain.Result) {
	writeJSON(w, http.StatusOK, res.Canonical)
}

func handleNormalized(w http.ResponseWriter, r *http.Request, res *domain.Result) {
	switch format := r.URL.Query().Get("format"); format {
	case "", "wide":
		writeJSON(w, http.StatusOK, res.Normalized)
	case "long":
		writeJSON(w, http.StatusOK, domain.Melt(res.Normalized))
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
	}
}

func handleGeo(w http.ResponseWriter, _ *http.Request, res *domain.Result) {
	writeJSON(w, http.StatusOK, res.Geo)
}

func handleGroups(w http.ResponseWriter, r *http.Request, res *domain.Result) {
	by := r.URL.Query().Get("by")
	if by == "" {
		by = string(domain.GroupContinent)
	}
	field, ok := domain.ParseGroupField(by)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown group field %q", by))
		return
	}
	if field == domain.GroupClimate {
		writeJSON(w, http.StatusOK, res.ClimateMeans)
		return
	}
	writeJSON(w, http.StatusOK, res.ContinentMeans)
}

func handleCorrelations(w http.ResponseWriter, _ *http.Request, res *domain.Result) {
	writeJSON(w, http.StatusOK, res.Correlations)
}

func handleView(w http.ResponseWriter, r *http.Request, res *domain.Result) {
	cfg, err := parseViewConfig(r)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, domain.BuildView(res.Geo, cfg))
}

// parseViewConfig reads view settings from the query string on top of the
// defaults. Continent and climate accept repeated or comma-separated values.
func parseViewConfig(r *http.Request) (domain.ViewConfig, error) {
	q := r.URL.Query()
	cfg := domain.DefaultViewConfig()

	if v := q.Get("type"); v != "" {
		typ, ok := domain.ParseType(v)
		if !ok {
			return cfg, fmt.Errorf("unknown mbti type %q", v)
		}
		cfg.Type = typ
	}
	cfg.Continents = splitValues(q["continent"])
	for _, z := range splitValues(q["climate"]) {
		zone, ok := domain.ParseClimateZone(z)
		if !ok {
			return cfg, fmt.Errorf("unknown climate zone %q", z)
		}
		cfg.Climates = append(cfg.Climates, zone)
	}

	var err error
	if cfg.TopN, err = intParam(q.Get("top"), cfg.TopN, "top"); err != nil {
		return cfg, err
	}
	if cfg.BubbleScale, err = intParam(q.Get("bubble"), cfg.BubbleScale, "bubble"); err != nil {
		return cfg, err
	}
	if v := q.Get("opacity"); v != "" {
		if cfg.FillOpacity, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, fmt.Errorf("invalid opacity %q", v)
		}
	}
	return cfg, nil
}

func intParam(v string, def int, name string) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	if s.world == nil {
		writeError(w, http.StatusBadGateway, "world geometry unavailable")
		return
	}
	doc, err := s.world.World(r.Context(), s.opts.WorldSrc)
	if err != nil {
		s.logger.Warn("world geometry unavailable", "error", err)
		writeError(w, http.StatusBadGateway, "world geometry unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
