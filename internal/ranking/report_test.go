package ranking

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/talentpipe/cv-ranker/internal/evaluation"
)

func TestDumpToTmpFile(t *testing.T) {
	t.Parallel()

	result := &BatchEvaluationResult{
		JobID: "job-1",
		Evaluations: []*evaluation.CVJDEvaluation{
			{CandidateID: "c1", OverallScore: 78.0},
		},
		Failures: []Failure{
			{CandidateID: "c2", Err: errors.New("sub-score out of range")},
		},
	}

	filename, err := DumpToTmpFile(result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}

	var out report
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("parsing dump: %v", err)
	}

	if out.JobID != "job-1" {
		t.Fatalf("expected job id job-1, got %s", out.JobID)
	}
	if len(out.Evaluations) != 1 || out.Evaluations[0].CandidateID != "c1" {
		t.Fatalf("unexpected evaluations: %+v", out.Evaluations)
	}
	if len(out.Failures) != 1 || out.Failures[0].Error != "sub-score out of range" {
		t.Fatalf("unexpected failures: %+v", out.Failures)
	}
}
