package domain

import "time"

// ScanProject is a static-analysis project.
type ScanProject struct {
	ID           string
	Name         string
	Language     string
	LastScanID   string
	LastScanTime time.Time
	Critical     int
	High         int
	Medium       int
	Low          int
	Note         int
}

// ScanProjectFilter is passed through to the scan project page source.
type ScanProjectFilter struct {
	Name string
}

// ScanFinding is one result instance of a static scan.
type ScanFinding struct {
	ID       string
	RuleID   string
	Severity Severity
	Message  string
	File     string
	Line     int
	Status   string
}

// ScanFindingFilter selects findings of one scan.
type ScanFindingFilter struct {
	ProjectID string
	ScanID    string
}
