package handlers

// ScanRequest is the POST /api/scan body.
type ScanRequest struct {
	Target     string   `json:"target" binding:"required"`
	ScanKind   string   `json:"scan_type"`
	TargetKind string   `json:"target_type"`
	Modules    []string `json:"modules"`
	State      string   `json:"state"`
	DOB        string   `json:"dob"`
}

type HealthResponse struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Features  []string `json:"features"`
	Timestamp string   `json:"timestamp"`
}
