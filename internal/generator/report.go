package generator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type ReportSignal struct {
	Code     string `json:"code"`
	Stage    string `json:"stage"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
}

type StageMetric struct {
	Name       string             `json:"name"`
	Status     string             `json:"status"`
	StartedAt  string             `json:"started_at"`
	FinishedAt string             `json:"finished_at"`
	DurationMS int64              `json:"duration_ms"`
	Counters   map[string]float64 `json:"counters,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// FileMetric summarizes the page of one header.
type FileMetric struct {
	Header   string `json:"header"`
	Page     string `json:"page"`
	Entities int    `json:"entities"`
	// Documented counts the entries on the page.
	Documented int `json:"documented"`
	// Undocumented counts the declarations without a comment.
	Undocumented int `json:"undocumented"`
}

type ReportSummary struct {
	FileCount         int            `json:"file_count"`
	EntityCount       int            `json:"entity_count"`
	DocumentedCount   int            `json:"documented_count"`
	Coverage          float64        `json:"coverage"`
	FailedStages      int            `json:"failed_stages"`
	SignalsBySeverity map[string]int `json:"signals_by_severity"`
}

// Report is written to generation_report.json next to the pages.
type Report struct {
	Version     string         `json:"version"`
	Mode        string         `json:"mode"`
	Format      string         `json:"format"`
	GeneratedAt string         `json:"generated_at"`
	OutputDir   string         `json:"output_dir"`
	Stages      []StageMetric  `json:"stages"`
	Files       []FileMetric   `json:"files"`
	Signals     []ReportSignal `json:"signals,omitempty"`
	Summary     ReportSummary  `json:"summary"`
}

const ReportFile = "generation_report.json"

type StageHandle struct {
	name    string
	started time.Time
}

func NewReport(mode, format, outputDir string) *Report {
	return &Report{
		Version:     "v1",
		Mode:        mode,
		Format:      format,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		OutputDir:   outputDir,
		Stages:      []StageMetric{},
		Files:       []FileMetric{},
		Signals:     []ReportSignal{},
	}
}

func (r *Report) BeginStage(name string) StageHandle {
	return StageHandle{name: strings.TrimSpace(name), started: time.Now().UTC()}
}

func (r *Report) EndStage(h StageHandle, counters map[string]float64, err error) {
	if r == nil || h.name == "" {
		return
	}
	finished := time.Now().UTC()
	m := StageMetric{
		Name:       h.name,
		Status:     "ok",
		StartedAt:  h.started.Format(time.RFC3339Nano),
		FinishedAt: finished.Format(time.RFC3339Nano),
		DurationMS: finished.Sub(h.started).Milliseconds(),
		Counters:   counters,
	}
	if err != nil {
		m.Status = "error"
		m.Error = err.Error()
	}
	r.Stages = append(r.Stages, m)
}

func (r *Report) AddSignal(code, stage, severity, file, message string) {
	if r == nil {
		return
	}
	r.Signals = append(r.Signals, ReportSignal{
		Code:     code,
		Stage:    stage,
		Severity: strings.ToLower(severity),
		Message:  message,
		File:     file,
	})
}

func (r *Report) AddFile(m FileMetric) {
	if r == nil {
		return
	}
	r.Files = append(r.Files, m)
}

func (r *Report) Finalize() {
	if r == nil {
		return
	}
	r.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	sort.Slice(r.Files, func(i, j int) bool { return r.Files[i].Header < r.Files[j].Header })
	sort.SliceStable(r.Signals, func(i, j int) bool {
		pi, pj := signalPriority(r.Signals[i].Severity), signalPriority(r.Signals[j].Severity)
		if pi == pj {
			return r.Signals[i].File < r.Signals[j].File
		}
		return pi > pj
	})

	severityCount := map[string]int{"critical": 0, "warning": 0, "info": 0}
	for _, s := range r.Signals {
		severityCount[s.Severity]++
	}
	failed := 0
	for _, st := range r.Stages {
		if st.Status != "ok" {
			failed++
		}
	}
	entities, documented := 0, 0
	for _, f := range r.Files {
		entities += f.Entities
		documented += f.Documented
	}
	coverage := 0.0
	if entities > 0 {
		coverage = float64(documented) / float64(entities)
	}

	r.Summary = ReportSummary{
		FileCount:         len(r.Files),
		EntityCount:       entities,
		DocumentedCount:   documented,
		Coverage:          coverage,
		FailedStages:      failed,
		SignalsBySeverity: severityCount,
	}
}

func (r *Report) Save(path string) error {
	if r == nil {
		return nil
	}
	r.Finalize()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func signalPriority(severity string) int {
	switch severity {
	case "critical":
		return 3
	case "warning":
		return 2
	case "info":
		return 1
	}
	return 0
}
