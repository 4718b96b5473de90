package dto

// AuditReport compares stored capture files with the location log.
type AuditReport struct {
	Files      int      `json:"files"`
	LogEntries int      `json:"logEntries"`
	TotalBytes int64    `json:"totalBytes"`
	Orphans    []string `json:"orphans"`  // files with no log line
	Dangling   []string `json:"dangling"` // log lines whose file is gone
}

// Consistent reports whether every file has a log line and vice versa.
func (r AuditReport) Consistent() bool {
	return len(r.Orphans) == 0 && len(r.Dangling) == 0
}
