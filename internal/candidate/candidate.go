package candidate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"

	"github.com/talentpipe/cv-ranker/internal/evaluation"
)

// Document is the on-disk candidates file: the requirement set the
// candidates apply to, and the candidate entries themselves.
type Document struct {
	Job        *evaluation.RequirementSet   `json:"job,omitempty"`
	Candidates []*evaluation.CandidateInput `json:"candidates"`
}

// Candidates is an in-memory collection of candidate inputs.
type Candidates struct {
	Job   *evaluation.RequirementSet
	Items []*evaluation.CandidateInput
}

// FromFile loads a candidates document. The file is decoded leniently so
// hand-authored documents with scores written as floats or quoted numbers
// still load.
func FromFile(path string) (*Candidates, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw map[string]any
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing candidates file %q: %w", path, err)
	}

	var doc Document
	cfg := &mapstructure.DecoderConfig{
		Result:           &doc,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding candidates file %q: %w", path, err)
	}

	for i, item := range doc.Candidates {
		if item == nil || item.ID == "" {
			return nil, fmt.Errorf("candidate entry %d in %q has no id", i, path)
		}
	}

	return &Candidates{Job: doc.Job, Items: doc.Candidates}, nil
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

// IDs returns the candidate identifiers in document order.
func (c *Candidates) IDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (c *Candidates) FindByID(id string) *evaluation.CandidateInput {
	for _, item := range c.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// NeedingExtraction returns candidates that carry raw resume text but no
// sub-scores yet.
func (c *Candidates) NeedingExtraction() []*evaluation.CandidateInput {
	pending := make([]*evaluation.CandidateInput, 0)
	for _, item := range c.Items {
		if len(item.Scores) == 0 && item.Resume != "" {
			pending = append(pending, item)
		}
	}
	return pending
}

// Exclude removes candidates with the given IDs and returns the IDs that
// were actually removed.
func (c *Candidates) Exclude(ids []string) []string {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	removed := make([]string, 0)
	kept := make([]*evaluation.CandidateInput, 0, len(c.Items))
	for _, item := range c.Items {
		if _, ok := drop[item.ID]; ok {
			removed = append(removed, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
	return removed
}

// DumpToTmpFile writes the collection to a temporary JSON file and returns
// its name.
func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Job: c.Job, Candidates: c.Items}); err != nil {
		return "", err
	}
	return file.Name(), nil
}
