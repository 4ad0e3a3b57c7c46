package shader

import "path/filepath"

// BuildReport is the machine-readable form of a BuildSummary, used for
// --json output and by the MCP server.
type BuildReport struct {
	Total      int             `json:"total" jsonschema:"Number of shaders discovered"`
	Succeeded  int             `json:"succeeded" jsonschema:"Number of shaders compiled successfully"`
	Failed     []FailureReport `json:"failed" jsonschema:"Shaders that failed to compile"`
	Artifacts  []string        `json:"artifacts" jsonschema:"Paths of the produced artifacts"`
	Copied     int             `json:"copied" jsonschema:"Number of artifacts copied to the copy directory"`
	CopyErrors []string        `json:"copy_errors,omitempty" jsonschema:"Artifacts that could not be copied"`
	DurationMS int64           `json:"duration_ms" jsonschema:"Wall time of the build in milliseconds"`
	DryRun     bool            `json:"dry_run,omitempty" jsonschema:"Whether the compiler was skipped"`
}

// FailureReport describes one failed shader.
type FailureReport struct {
	Shader   string `json:"shader" jsonschema:"Source path of the shader"`
	Stage    string `json:"stage" jsonschema:"Shader stage"`
	Language string `json:"language" jsonschema:"Source language"`
	Error    string `json:"error" jsonschema:"Error text"`
}

// Report converts the summary into a BuildReport. Slices are never nil so
// the JSON always carries arrays.
func (s *BuildSummary) Report() BuildReport {
	report := BuildReport{
		Total:      s.Total,
		Succeeded:  s.Succeeded,
		Failed:     make([]FailureReport, 0, len(s.Failed)),
		Artifacts:  make([]string, 0, len(s.Artifacts)),
		Copied:     s.Copied,
		DurationMS: s.Duration.Milliseconds(),
		DryRun:     s.DryRun,
	}
	for _, f := range s.Failed {
		report.Failed = append(report.Failed, FailureReport{
			Shader:   f.Shader.String(),
			Stage:    f.Shader.Stage.String(),
			Language: f.Shader.Language.String(),
			Error:    f.Err.Error(),
		})
	}
	for _, a := range s.Artifacts {
		report.Artifacts = append(report.Artifacts, filepath.ToSlash(a))
	}
	for _, e := range s.CopyErrors {
		report.CopyErrors = append(report.CopyErrors, e.Error())
	}
	return report
}
