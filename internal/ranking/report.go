package ranking

import (
	"encoding/json"
	"os"

	"github.com/talentpipe/cv-ranker/internal/evaluation"
)

// report is the serializable shape of a batch result. Failure errors are
// flattened to strings so the file round-trips as plain JSON.
type report struct {
	JobID       string                       `json:"job_id,omitempty"`
	Evaluations []*evaluation.CVJDEvaluation `json:"evaluations"`
	Failures    []failureReport              `json:"failures,omitempty"`
}

type failureReport struct {
	CandidateID string `json:"candidate_id"`
	Error       string `json:"error"`
}

// DumpToTmpFile writes the batch result to a temporary JSON file and returns
// its name.
func DumpToTmpFile(result *BatchEvaluationResult) (string, error) {
	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	out := report{
		JobID:       result.JobID,
		Evaluations: result.Evaluations,
	}
	for _, failure := range result.Failures {
		out.Failures = append(out.Failures, failureReport{
			CandidateID: failure.CandidateID,
			Error:       failure.Err.Error(),
		})
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return "", err
	}
	return file.Name(), nil
}
