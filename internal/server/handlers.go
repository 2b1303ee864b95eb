package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/objectgraph/pkg/buildinfo"
	"github.com/matzehuels/objectgraph/pkg/errors"
	"github.com/matzehuels/objectgraph/pkg/model"
	"github.com/matzehuels/objectgraph/pkg/objgraph"
	"github.com/matzehuels/objectgraph/pkg/objgraph/transform"
	"github.com/matzehuels/objectgraph/pkg/pipeline"
)

// Response headers set on pipeline responses.
const (
	headerRunID = "X-Objectgraph-Run-Id"
	headerCache = "X-Objectgraph-Cache"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}

	f, err := bodyFactory(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), f, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set(headerRunID, res.RunID)
	w.Header().Set(headerCache, cacheStatus(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// inspectResponse is the body of /v1/inspect.
type inspectResponse struct {
	RunID    string           `json:"run_id"`
	Hash     string           `json:"hash"`
	Stats    inspectStats     `json:"stats"`
	Report   inspectReport    `json:"report"`
	Packages []inspectPackage `json:"packages"`
}

type inspectStats struct {
	Objects         int            `json:"objects"`
	Packages        int            `json:"packages"`
	RelationsBefore int            `json:"relations_before"`
	RelationsAfter  int            `json:"relations_after"`
	ByType          map[string]int `json:"by_type"`
}

type inspectReport struct {
	SameDirectionMerged int              `json:"same_direction_merged"`
	BidirectionalMerged int              `json:"bidirectional_merged"`
	Unpaired            []inspectUnpaired `json:"unpaired,omitempty"`
}

type inspectUnpaired struct {
	A         string `json:"a"`
	B         string `json:"b"`
	Relations int    `json:"relations"`
}

type inspectPackage struct {
	Name    string   `json:"name"`
	Objects []string `json:"objects"`
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	f, err := bodyFactory(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), f, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set(headerRunID, res.RunID)
	w.Header().Set(headerCache, cacheStatus(res.CacheInfo.TransformHit))
	writeJSON(w, http.StatusOK, newInspectResponse(res))
}

func newInspectResponse(res *pipeline.Result) inspectResponse {
	st := res.Graph.Stats()
	out := inspectResponse{
		RunID: res.RunID,
		Hash:  res.GraphHash,
		Stats: inspectStats{
			Objects:         res.Stats.Objects,
			Packages:        res.Stats.Packages,
			RelationsBefore: res.Stats.RelationsBefore,
			RelationsAfter:  res.Stats.RelationsAfter,
			ByType:          make(map[string]int, len(st.ByType)),
		},
		Report:   newInspectReport(res.Report),
		Packages: []inspectPackage{},
	}
	for typ, n := range st.ByType {
		out.Stats.ByType[typ.String()] = n
	}
	for _, grp := range res.Graph.ObjectsGroupedByPackage() {
		p := inspectPackage{Name: grp.Name, Objects: make([]string, len(grp.Objects))}
		for i, o := range grp.Objects {
			p.Objects[i] = o.ID
		}
		out.Packages = append(out.Packages, p)
	}
	return out
}

func newInspectReport(r transform.Report) inspectReport {
	out := inspectReport{
		SameDirectionMerged: r.SameDirectionMerged,
		BidirectionalMerged: r.BidirectionalMerged,
	}
	for _, u := range r.Unpaired {
		out.Unpaired = append(out.Unpaired, inspectUnpaired{A: u.A, B: u.B, Relations: u.Relations})
	}
	return out
}

// options merges query parameters over the server defaults.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Merge:      s.defaults.Merge,
		Humanize:   s.defaults.Humanize,
		Include:    s.defaults.Include,
		Exclude:    s.defaults.Exclude,
		Title:      q.Get("title"),
		HideFields: s.defaults.HideFields,
		Logger:     s.logger,
	}
	for name, dst := range map[string]*bool{
		"merge":       &opts.Merge,
		"humanize":    &opts.Humanize,
		"hide_fields": &opts.HideFields,
		"refresh":     &opts.Refresh,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, v)
		}
		*dst = b
	}
	if v := q.Get("include"); v != "" {
		opts.Include = splitList(v)
	}
	if v := q.Get("exclude"); v != "" {
		opts.Exclude = splitList(v)
	}
	return opts, nil
}

// bodyFactory reads the request body and returns a factory decoding it.
// The body is read eagerly so that size limits surface before the pipeline
// runs.
func bodyFactory(r *http.Request) (objgraph.Factory, error) {
	ct := r.Header.Get("Content-Type")
	format, ok := model.FormatFromContentType(ct)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported content type %q", ct)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return objgraph.FactoryFunc(func(context.Context) (*objgraph.ObjectGraph, error) {
		return model.Decode(bytes.NewReader(data), format)
	}), nil
}

// errorBody is the JSON body of error responses.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code, err)

	var body errorBody
	body.Error.Code = string(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		body.Error.Message = "internal error"
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "error", err)
		body.Error.Message = errors.UserMessage(err)
		if cause := stderrors.Unwrap(err); cause != nil && errors.GetCode(cause) == "" {
			body.Error.Message += ": " + cause.Error()
		}
	}
	writeJSON(w, status, body)
}

func statusFor(code errors.Code, err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case code == errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeContractViolation, code == errors.ErrCodeInvalidModel:
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.IsClientError(code):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
