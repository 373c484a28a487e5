package api

import (
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorstack/pkg/buildinfo"
	"github.com/matzehuels/floorstack/pkg/errors"
	"github.com/matzehuels/floorstack/pkg/observability"
	"github.com/matzehuels/floorstack/pkg/pipeline"
	"github.com/matzehuels/floorstack/pkg/resolve"
)

// ResolveResponse is the body of a successful /v1/resolve call.
type ResolveResponse struct {
	RunID     string            `json:"run_id"`
	Building  *resolve.Building `json:"building"`
	Counts    Counts            `json:"counts"`
	Cache     CacheInfo         `json:"cache"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

// Counts summarises the resolved building.
type Counts struct {
	Floors      int `json:"floors"`
	Rooms       int `json:"rooms"`
	Walls       int `json:"walls"`
	Openings    int `json:"openings"`
	Doors       int `json:"doors"`
	Windows     int `json:"windows"`
	Diagnostics int `json:"diagnostics"`
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	Parse   bool `json:"parse"`
	Resolve bool `json:"resolve"`
	Render  bool `json:"render"`
}

// ErrorResponse is the body of every failed call.
type ErrorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	opts, err := s.requestOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body := r.Body
	if s.opts.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "survey exceeds upload limit"})
			return
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	opts.Input = data
	opts.Logger = logger

	result, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := ResolveResponse{
		RunID:    result.RunID,
		Building: result.Building,
		Counts: Counts{
			Floors:      result.Stats.Floors,
			Rooms:       result.Stats.Rooms,
			Walls:       result.Stats.Walls,
			Openings:    result.Stats.Openings,
			Doors:       result.Stats.Doors,
			Windows:     result.Stats.Windows,
			Diagnostics: result.Stats.Diagnostics,
		},
		Cache: CacheInfo{
			Parse:   result.CacheInfo.ParseHit,
			Resolve: result.CacheInfo.ResolveHit,
			Render:  result.CacheInfo.RenderHit,
		},
	}
	for format, artifact := range result.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		resp.Artifacts[format] = string(artifact)
	}
	writeJSON(w, http.StatusOK, resp)
}

// requestOptions builds pipeline options from the server defaults, the
// Content-Type header and the query string.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.opts.Defaults
	opts.Formats = []string{pipeline.FormatJSON}
	q := r.URL.Query()

	if v := q.Get("strict"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidOption, "invalid strict: %q", v)
		}
		opts.Strict = b
	}
	if v := q.Get("detailed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidOption, "invalid detailed: %q", v)
		}
		opts.Detailed = b
	}
	if v := q.Get("unknown_fixtures"); v != "" {
		opts.UnknownFixtures = v
	}
	if v := q.Get("formats"); v != "" {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" && f != pipeline.FormatJSON {
				opts.Formats = append(opts.Formats, f)
			}
		}
	}

	opts.Format = q.Get("format")
	if opts.Format == "" {
		opts.Format = formatFromContentType(r.Header.Get("Content-Type"))
	}
	if opts.Format == "" {
		return opts, errors.New(errors.ErrCodeInvalidFormat, "cannot infer survey format: set Content-Type or ?format=")
	}
	return opts, nil
}

func formatFromContentType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	switch mt {
	case "application/json":
		return errors.FormatJSON
	case "application/xml", "text/xml":
		return errors.FormatRoomScan
	default:
		return ""
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).Error("request failed", "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}
