// Package dataset loads commit datasets from JSON files and merges them.
// It is the only place malformed input is reported; everything downstream
// works on already-decoded commits.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"sync"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// ErrMalformedDataset is returned for invalid JSON or a missing commits array.
var ErrMalformedDataset = errors.New("malformed dataset")

// rawDataset distinguishes a missing commits array from an empty one.
type rawDataset struct {
	Commits  *[]schema.Commit `json:"commits"`
	Metadata json.RawMessage  `json:"metadata"`
}

// Parse decodes a single dataset document. Trailing data after it is an error.
// Metadata that is not an object is dropped with a warning.
func Parse(r io.Reader) (schema.Dataset, error) {
	dec := json.NewDecoder(r)
	var raw rawDataset
	if err := dec.Decode(&raw); err != nil {
		return schema.Dataset{}, fmt.Errorf("%w: %v", ErrMalformedDataset, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return schema.Dataset{}, fmt.Errorf("%w: unexpected data after the dataset object", ErrMalformedDataset)
	}
	if raw.Commits == nil {
		return schema.Dataset{}, fmt.Errorf("%w: missing commits array", ErrMalformedDataset)
	}

	ds := schema.Dataset{Commits: *raw.Commits, Metadata: schema.Metadata{}}
	if len(raw.Metadata) > 0 {
		var meta schema.Metadata
		if err := json.Unmarshal(raw.Metadata, &meta); err != nil {
			contract.LogWarn("ignoring dataset metadata", err)
		} else if meta != nil {
			ds.Metadata = meta
		}
	}
	return ds, nil
}

// LoadFile reads and parses one dataset file.
func LoadFile(path string) (schema.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.Dataset{}, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Parse(f)
	if err != nil {
		return schema.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	contract.Logger().WithField("file", path).WithField("commits", len(ds.Commits)).Debug("loaded dataset")
	return ds, nil
}

// LoadFiles parses every file concurrently and merges them in argument order.
// Any failure aborts the whole load; nothing partial is returned.
func LoadFiles(paths ...string) (schema.Dataset, error) {
	if len(paths) == 0 {
		return schema.Dataset{}, errors.New("no dataset files given")
	}

	results := make([]schema.Dataset, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Go(func() {
			results[i], errs[i] = LoadFile(path)
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return schema.Dataset{}, err
	}
	return Merge(results...), nil
}

// Merge concatenates commits in order. Metadata keys are last-write-wins,
// except repo_name, which becomes the de-duplicated union (a plain string
// when exactly one name remains), and total_commits, which is recomputed.
func Merge(datasets ...schema.Dataset) schema.Dataset {
	merged := schema.Dataset{Commits: []schema.Commit{}, Metadata: schema.Metadata{}}
	var names []string
	seen := make(map[string]struct{})

	for _, ds := range datasets {
		merged.Commits = append(merged.Commits, ds.Commits...)
		maps.Copy(merged.Metadata, ds.Metadata)
		for _, name := range ds.Metadata.RepoNames() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	switch len(names) {
	case 0:
		delete(merged.Metadata, schema.MetaRepoName)
	case 1:
		merged.Metadata[schema.MetaRepoName] = names[0]
	default:
		merged.Metadata[schema.MetaRepoName] = names
	}
	merged.Metadata[schema.MetaTotalCommits] = len(merged.Commits)
	return merged
}
