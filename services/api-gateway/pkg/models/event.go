package models

import (
	"fmt"
	"time"
)

// IngestEvent asks the indexer to fetch a repository at a ref, extract its
// snippets and publish a fresh snapshot.
type IngestEvent struct {
	JobID       string `json:"job_id"`
	RepoURL     string `json:"repo_url"`
	Ref         string `json:"ref"`
	RequestedAt string `json:"requested_at"`
}

func GetJobIdentifier(event *IngestEvent) string {
	return fmt.Sprintf("%s@%s/%s", event.RepoURL, event.Ref, event.JobID)
}

func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
