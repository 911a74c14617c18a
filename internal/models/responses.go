package models

// UploadResponse is returned after a successful dataset upload.
type UploadResponse struct {
	Message     string   `json:"message"`
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	ColumnNames []string `json:"column_names"`
	Warnings    []string `json:"warnings,omitempty"`
}

// FileStatus reports one loaded dataset.
type FileStatus struct {
	Loaded   bool   `json:"loaded"`
	Rows     int    `json:"rows"`
	Columns  int    `json:"columns"`
	Filename string `json:"filename,omitempty"`
}

// StatusResponse is returned by /api/status.
type StatusResponse struct {
	OrganicLoaded bool       `json:"organic_loaded"`
	PaidLoaded    bool       `json:"paid_loaded"`
	Organic       FileStatus `json:"organic"`
	Paid          FileStatus `json:"paid"`
	HasResult     bool       `json:"has_result"`
}

// AnalyzeResponse summarizes a pipeline run.
type AnalyzeResponse struct {
	Message     string   `json:"message"`
	Fuzzy       bool     `json:"fuzzy"`
	Threshold   int      `json:"threshold"`
	OverlapRows int      `json:"overlap_rows"`
	OrganicRows int      `json:"organic_only_rows"`
	PaidRows    int      `json:"paid_only_rows"`
	Warnings    []string `json:"warnings,omitempty"`
}

// TableResponse renders a segment as an ordered JSON table.
type TableResponse struct {
	Segment string              `json:"segment"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}
