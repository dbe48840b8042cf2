package pages

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formtoggle/pkg/controller"
)

type documentFile struct {
	Pages map[string]controller.Config `json:"pages" yaml:"pages"`
}

// LoadFS walks fsys and registers every page declared in JSON or YAML files
// into r. A file looks like:
//
//	pages:
//	  nrl:
//	    trigger: paysSA
//	    baseline: {hide: ["#submit"]}
//	    rules:
//	      "true":  {show: ["#submit"], hide: ["#continue"]}
//	      "false": {show: ["#continue"], hide: ["#submit"]}
//
// The map key becomes the page name when the entry does not set one.
func LoadFS(fsys fs.FS, r *Registry) error {
	if fsys == nil || r == nil {
		return nil
	}
	return fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("pages: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for key, cfg := range doc.Pages {
			name := strings.TrimSpace(key)
			if name == "" {
				return fmt.Errorf("pages: file %s declares an empty page name", path)
			}
			if strings.TrimSpace(cfg.Name) == "" {
				cfg.Name = name
			}
			if err := r.Register(cfg); err != nil {
				return fmt.Errorf("pages: file %s: %w", path, err)
			}
		}
		return nil
	})
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("pages: file %s is empty", source)
	}
	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("pages: parse %s: %w", source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("pages: parse %s: %w", source, err)
	}
	return doc, nil
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
