package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/pavelanni/mocktest/internal/model"
)

// DocumentInfo summarizes one question document by its first problem.
type DocumentInfo struct {
	Path     string
	Problems int
	Label    string
	Source   string
}

// Inspect reads every .json document under fsys root and reports its size
// and origin. Unreadable documents are returned as errors next to the rest.
func Inspect(fsys fs.FS) ([]DocumentInfo, map[string]error, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(names)

	var infos []DocumentInfo
	failed := make(map[string]error)
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			failed[name] = err
			continue
		}
		var doc model.QuestionDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			failed[name] = fmt.Errorf("parse: %w", err)
			continue
		}
		info := DocumentInfo{Path: name, Problems: len(doc.Problems)}
		if len(doc.Problems) > 0 {
			p0 := doc.Problems[0]
			info.Label = p0.Label()
			info.Source = p0.Source
		}
		infos = append(infos, info)
	}
	return infos, failed, nil
}

// WriteReport prints one "count<SP>label<TAB>source" line per document.
func WriteReport(w io.Writer, infos []DocumentInfo) error {
	for _, info := range infos {
		if _, err := fmt.Fprintf(w, "%d %s\t%s\n", info.Problems, info.Label, info.Source); err != nil {
			return err
		}
	}
	return nil
}
