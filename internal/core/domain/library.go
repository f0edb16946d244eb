package domain

import "time"

// Library is a third-party library observed in an application.
type Library struct {
	Hash            string
	FileName        string
	Version         string
	LatestVersion   string
	Grade           string
	ClassCount      int
	ClassesUsed     int
	ReleaseDate     time.Time
	Vulnerabilities []LibraryVulnerability
}

// IsVulnerable returns true if any known CVE affects the library.
func (l Library) IsVulnerable() bool {
	return len(l.Vulnerabilities) > 0
}

// LibraryVulnerability is a CVE affecting a library.
type LibraryVulnerability struct {
	Name     string
	Severity string
	Score    float64
}

// LibraryFilter is passed through to the library page source.
type LibraryFilter struct {
	AppID string
}
