package policy

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromFS loads policy documents from an embed.FS or any fs.FS.
func LoadFromFS(fsys fs.FS) ([]RawPolicy, error) {
	var all []RawPolicy
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		policies, err := parseMultiDocYAML(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		all = append(all, policies...)
		return nil
	})
	return all, err
}

// LoadFromDir loads policy documents from a directory on disk.
func LoadFromDir(dir string) ([]RawPolicy, error) {
	var all []RawPolicy
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isYAML(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		policies, err := parseMultiDocYAML(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		all = append(all, policies...)
		return nil
	})
	return all, err
}

func parseMultiDocYAML(data []byte) ([]RawPolicy, error) {
	var policies []RawPolicy
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var raw RawPolicy
		err := decoder.Decode(&raw)
		if err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, err
		}
		if raw.ID != "" {
			policies = append(policies, raw)
		}
	}
	return policies, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
