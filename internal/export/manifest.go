// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/jdyun/sermon-engine/pkg/types"
)

// Manifest describes one run's inputs and produced files. Written beside
// the document so a run directory is self-describing.
type Manifest struct {
	Tag          string             `yaml:"tag"`
	PassageRange string             `yaml:"passage_range"`
	SermonDate   string             `yaml:"sermon_date"`
	Tone         string             `yaml:"tone"`
	Duration     string             `yaml:"duration"`
	Document     string             `yaml:"document"`
	Artifacts    []ManifestArtifact `yaml:"artifacts"`
}

// ManifestArtifact is one phase artifact entry.
type ManifestArtifact struct {
	Phase int    `yaml:"phase"`
	Name  string `yaml:"name"`
	Path  string `yaml:"path"`
	Chars int    `yaml:"chars"`
}

// writeManifest writes <tag>_run.yaml into the run directory.
func writeManifest(run *types.Run, documentPath string) error {
	m := Manifest{
		Tag:          run.Tag,
		PassageRange: run.Input.PassageRange,
		SermonDate:   run.Input.SermonDate,
		Tone:         string(run.Input.Tone),
		Duration:     run.Input.Duration,
		Document:     documentPath,
	}
	for _, res := range run.Results {
		m.Artifacts = append(m.Artifacts, ManifestArtifact{
			Phase: int(res.Phase),
			Name:  res.Phase.Name(),
			Path:  res.Path,
			Chars: len([]rune(res.Text)),
		})
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling run manifest: %w", err)
	}

	path := filepath.Join(run.Dir, run.Tag+"_run.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run manifest: %w", err)
	}
	return nil
}
