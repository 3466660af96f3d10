package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
)

const (
	ScanKindFull   = "full"
	ScanKindQuick  = "quick"
	ScanKindCustom = "custom"
)

const (
	TargetKindDomain = "domain"
	TargetKindPerson = "person"
)

// JSON stores an opaque structured blob. The store treats it as schema-free
// text; callers marshal and unmarshal the concrete shapes.
type JSON json.RawMessage

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSON(append([]byte(nil), v...))
	case string:
		*j = JSON(v)
	default:
		return errors.New("unsupported type for JSON column")
	}
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	*j = JSON(append([]byte(nil), data...))
	return nil
}

// Scan is one reconnaissance run against a single target. Results and
// Analysis stay empty until the run reaches its terminal write.
type Scan struct {
	ScanID      string     `gorm:"primaryKey;column:scan_id;type:varchar(36)" json:"scan_id"`
	Target      string     `gorm:"not null" json:"target"`
	TargetKind  string     `json:"target_type"`
	ScanKind    string     `gorm:"column:scan_type" json:"scan_type"`
	Status      string     `gorm:"not null" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Results     JSON       `gorm:"type:text" json:"results,omitempty"`
	Analysis    JSON       `gorm:"type:text" json:"analysis,omitempty"`
}

// Finding is a single extracted observation tied to a scan. The table is
// part of the schema and feeds the stats counters; rows are written by a
// future extraction step, not by the scan pipeline itself.
type Finding struct {
	FindingID   string    `gorm:"primaryKey;column:finding_id;type:varchar(36)" json:"finding_id"`
	ScanID      string    `gorm:"index;not null" json:"scan_id"`
	Module      string    `gorm:"not null" json:"module"`
	Severity    string    `gorm:"not null" json:"severity"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScanSummary is the listing view of a scan, without the result blobs.
type ScanSummary struct {
	ScanID      string     `json:"scan_id"`
	Target      string     `json:"target"`
	ScanKind    string     `json:"scan_type"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type Stats struct {
	TotalScans     int64     `json:"total_scans"`
	CompletedScans int64     `json:"completed_scans"`
	TotalFindings  int64     `json:"total_findings"`
	LastUpdated    time.Time `json:"last_updated"`
}
