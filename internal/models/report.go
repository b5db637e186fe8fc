package models

import "time"

// ReportFile is one generated report on disk, addressable by its path
// relative to the output directory.
type ReportFile struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	RelPath string    `json:"relpath"`
	Date    string    `json:"date,omitempty"`
	ModTime time.Time `json:"mtime"`
	Size    int64     `json:"size"`
}
