package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/objectgraph/pkg/cache"
	"github.com/matzehuels/objectgraph/pkg/observability"
	"github.com/matzehuels/objectgraph/pkg/pipeline"
)

const petclinicJSON = `{
  "objects": [
    {"id": "Pet", "package": "petclinic"},
    {"id": "Person", "package": "petclinic"},
    {"id": "Visit", "package": "petclinic.visits"}
  ],
  "relations": [
    {"type": "ONE_TO_ONE", "from": "Pet", "to": "Person", "label": "owner"},
    {"type": "ONE_TO_MANY", "from": "Person", "to": "Pet", "label": "pets"},
    {"type": "ONE_TO_MANY", "from": "Pet", "to": "Visit", "label": "visits"}
  ]
}`

const petclinicYAML = `objects:
  - id: Pet
  - id: Person
relations:
  - type: ONE_TO_ONE
    from: Pet
    to: Person
    label: owner
`

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	if opts.Logger == nil {
		opts.Logger = logger
	}
	ts := httptest.NewServer(New(runner, opts))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		wantType    string
		wantSubstr  string
	}{
		{"plantuml from json", "format=puml&merge=true", "application/json", petclinicJSON, "text/plain; charset=utf-8", "@startuml"},
		{"dot from yaml", "format=DOT", "application/x-yaml", petclinicYAML, "text/vnd.graphviz; charset=utf-8", "digraph"},
		{"json with charset", "format=json&merge=1", "application/json; charset=utf-8", petclinicJSON, "application/json", "BIDIR_ASSOCIATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/render?"+tt.query, tt.contentType, tt.body)
			body := readBody(t, resp)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if resp.Header.Get(headerRunID) == "" {
				t.Error("missing run id header")
			}
			if got := resp.Header.Get(headerCache); got != "miss" {
				t.Errorf("cache header = %q, want miss", got)
			}
			if !strings.Contains(body, tt.wantSubstr) {
				t.Errorf("body does not contain %q:\n%s", tt.wantSubstr, body)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	ts := newTestServer(t, Options{MaxBodyBytes: 64})

	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		wantStatus  int
		wantCode    string
	}{
		{"unsupported content type", "format=puml", "text/plain", "hello", http.StatusUnsupportedMediaType, "UNSUPPORTED"},
		{"unknown format", "format=gif", "application/json", `{"objects":[]}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad boolean", "merge=maybe", "application/json", `{"objects":[]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"body too large", "format=puml", "application/json",
			`{"objects":[{"id":"A"}],"relations":[{"type":"ONE_TO_ONE","from":"A","to":"B"}]}`,
			http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
		{"malformed json", "format=puml", "application/json", `{"objects":`, http.StatusUnprocessableEntity, "INVALID_MODEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/render?"+tt.query, tt.contentType, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if body := decodeError(t, resp); body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q (%s)", body.Error.Code, tt.wantCode, body.Error.Message)
			}
		})
	}
}

func TestRender_UnknownEndpoint(t *testing.T) {
	ts := newTestServer(t, Options{})
	body := `{"objects":[{"id":"A"}],"relations":[{"type":"ONE_TO_ONE","from":"A","to":"B"}]}`
	resp := post(t, ts.URL+"/v1/render?format=puml", "application/json", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	if got := decodeError(t, resp).Error.Code; got != "INVALID_MODEL" {
		t.Errorf("code = %q, want INVALID_MODEL", got)
	}
}

func TestRender_DefaultsApply(t *testing.T) {
	ts := newTestServer(t, Options{Defaults: pipeline.Options{Merge: true}})

	resp := post(t, ts.URL+"/v1/render?format=json", "application/json", petclinicJSON)
	if body := readBody(t, resp); !strings.Contains(body, "BIDIR_ASSOCIATION") {
		t.Errorf("default merge not applied:\n%s", body)
	}

	resp = post(t, ts.URL+"/v1/render?format=json&merge=false", "application/json", petclinicJSON)
	if body := readBody(t, resp); strings.Contains(body, "BIDIR_ASSOCIATION") {
		t.Errorf("query merge=false did not override default:\n%s", body)
	}
}

func TestInspect(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp := post(t, ts.URL+"/v1/inspect?merge=true&exclude=petclinic.visits", "application/json", petclinicJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, readBody(t, resp))
	}

	var body inspectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.RunID == "" || body.Hash == "" {
		t.Errorf("run id / hash missing: %+v", body)
	}
	if body.Stats.Objects != 2 || body.Stats.RelationsBefore != 3 || body.Stats.RelationsAfter != 1 {
		t.Errorf("stats = %+v", body.Stats)
	}
	if body.Stats.ByType["BIDIR_ASSOCIATION"] != 1 {
		t.Errorf("by_type = %v", body.Stats.ByType)
	}
	if body.Report.BidirectionalMerged != 1 {
		t.Errorf("report = %+v", body.Report)
	}
	if len(body.Packages) != 1 || body.Packages[0].Name != "petclinic" || len(body.Packages[0].Objects) != 2 {
		t.Errorf("packages = %+v", body.Packages)
	}
}

func TestInspect_MsgpackBody(t *testing.T) {
	ts := newTestServer(t, Options{})
	// A msgpack map with an empty objects array: {"objects": []}.
	body := []byte{0x81, 0xa7, 'o', 'b', 'j', 'e', 'c', 't', 's', 0x90}
	resp, err := http.Post(ts.URL+"/v1/inspect", "application/msgpack", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, err := http.Get(ts.URL + "/v1/render")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/render status = %d, want 405", resp.StatusCode)
	}
}

type recordingHooks struct {
	observability.NoopServerHooks
	routes   []string
	statuses []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.routes = append(h.routes, route)
	h.statuses = append(h.statuses, status)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, Options{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if len(hooks.routes) != 1 || hooks.routes[0] != "/healthz" || hooks.statuses[0] != http.StatusOK {
		t.Errorf("hooks recorded routes=%v statuses=%v", hooks.routes, hooks.statuses)
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), Options{Logger: logger})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
