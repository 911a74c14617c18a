package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"kwintel/internal/analysis"
	"kwintel/internal/config"
	"kwintel/internal/models"
	"kwintel/internal/state"
)

const (
	organicCSV = "page,query,clicks,impressions,ctr,position\n" +
		"/shoes,running shoes,20,1000,0.02,4\n" +
		"/socks,wool socks,5,400,0.0125,6\n"
	paidCSV = "campaign,ad_group,keyword,clicks,cost,cpc,conversions\n" +
		"brand,core,running shoes,30,90,3.0,2\n" +
		"brand,core,red hats,10,8,0.8,0\n"
)

func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()
	cfg := &config.Config{FuzzyEnabled: true, FuzzyThreshold: 90}
	h := NewHandler(analysis.NewPipeline(nil, nil), state.New(), cfg, nil)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, h
}

func uploadCSV(t *testing.T, srv *httptest.Server, fileIndex string, csv string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "data.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(csv)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/upload?fileIndex="+fileIndex, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestUpload(t *testing.T) {
	srv, h := newTestServer(t)

	resp := uploadCSV(t, srv, "1", organicCSV)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Rows != 2 {
		t.Errorf("rows = %d, want 2", body.Rows)
	}
	if len(body.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", body.Warnings)
	}
	if ds := h.State.GetDataset(state.OrganicIndex); ds == nil || ds.Table.Len() != 2 {
		t.Error("organic dataset not stored")
	}
}

func TestUploadBadFileIndex(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, idx := range []string{"", "0", "3", "abc"} {
		resp := uploadCSV(t, srv, idx, organicCSV)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("fileIndex %q: status = %d, want 400", idx, resp.StatusCode)
		}
	}
}

func TestAnalyzeRequiresBothDatasets(t *testing.T) {
	srv, _ := newTestServer(t)
	uploadCSV(t, srv, "1", organicCSV)

	resp, err := srv.Client().Post(srv.URL+"/api/analyze", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestAnalyzeAndSegments(t *testing.T) {
	srv, _ := newTestServer(t)
	uploadCSV(t, srv, "1", organicCSV)
	uploadCSV(t, srv, "2", paidCSV)

	resp, err := srv.Client().Post(srv.URL+"/api/analyze", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze status = %d, want 200", resp.StatusCode)
	}
	var summary models.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatal(err)
	}
	if summary.OverlapRows != 1 || summary.OrganicRows != 1 || summary.PaidRows != 1 {
		t.Errorf("segment counts = %d/%d/%d, want 1/1/1",
			summary.OverlapRows, summary.OrganicRows, summary.PaidRows)
	}

	segResp, err := srv.Client().Get(srv.URL + "/api/segments/overlap")
	if err != nil {
		t.Fatal(err)
	}
	defer segResp.Body.Close()
	if segResp.StatusCode != http.StatusOK {
		t.Fatalf("segment status = %d, want 200", segResp.StatusCode)
	}
	var seg models.TableResponse
	if err := json.NewDecoder(segResp.Body).Decode(&seg); err != nil {
		t.Fatal(err)
	}
	if len(seg.Rows) != 1 {
		t.Fatalf("overlap rows = %d, want 1", len(seg.Rows))
	}
	row := seg.Rows[0]
	if row["kw_norm"] != "running shoes" {
		t.Errorf("kw_norm = %q", row["kw_norm"])
	}
	if row["organic_potential"] != "80" {
		t.Errorf("organic_potential = %q, want 80", row["organic_potential"])
	}
}

func TestAnalyzeParamValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	uploadCSV(t, srv, "1", organicCSV)
	uploadCSV(t, srv, "2", paidCSV)

	for _, q := range []string{"?fuzzy=maybe", "?threshold=high"} {
		resp, err := srv.Client().Post(srv.URL+"/api/analyze"+q, "", nil)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestSegmentBeforeAnalyze(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/api/segments/overlap")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestUnknownSegment(t *testing.T) {
	srv, _ := newTestServer(t)
	uploadCSV(t, srv, "1", organicCSV)
	uploadCSV(t, srv, "2", paidCSV)
	if resp, err := srv.Client().Post(srv.URL+"/api/analyze", "", nil); err == nil {
		resp.Body.Close()
	}

	resp, err := srv.Client().Get(srv.URL + "/api/segments/everything")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetReport(t *testing.T) {
	srv, _ := newTestServer(t)
	uploadCSV(t, srv, "1", organicCSV)
	uploadCSV(t, srv, "2", paidCSV)
	if resp, err := srv.Client().Post(srv.URL+"/api/analyze", "", nil); err == nil {
		resp.Body.Close()
	}

	resp, err := srv.Client().Get(srv.URL + "/api/report")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body.String(), "**Top 5 wasted spend**") {
		t.Errorf("report body:\n%s", body.String())
	}
}

func TestStatusTracksUploads(t *testing.T) {
	srv, _ := newTestServer(t)

	getStatus := func() models.StatusResponse {
		resp, err := srv.Client().Get(srv.URL + "/api/status")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var st models.StatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			t.Fatal(err)
		}
		return st
	}

	st := getStatus()
	if st.OrganicLoaded || st.PaidLoaded || st.HasResult {
		t.Errorf("fresh status = %+v, want all false", st)
	}

	uploadCSV(t, srv, "1", organicCSV)
	st = getStatus()
	if !st.OrganicLoaded || st.PaidLoaded {
		t.Errorf("after organic upload: %+v", st)
	}
	if st.Organic.Rows != 2 {
		t.Errorf("organic rows = %d, want 2", st.Organic.Rows)
	}
}

func TestDBEndpointsRequireConnection(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/db/tables")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("tables status = %d, want 409", resp.StatusCode)
	}

	resp, err = srv.Client().Post(srv.URL+"/api/db/load?fileIndex=1&table=gsc", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("load status = %d, want 409", resp.StatusCode)
	}
}

func TestConnectDBRejectsUnsupportedType(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := srv.Client().Post(srv.URL+"/api/db/connect", "application/json",
		strings.NewReader(`{"type":"mysql"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
