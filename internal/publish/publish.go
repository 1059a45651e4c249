package publish

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"callsheet-cli/internal/schema"
	"callsheet-cli/internal/tree"
)

type WriteOptions struct {
	Overwrite bool
	Render    RenderOptions
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteNode renders one subtree to <toDir>/nodes/<node-id>.md.
func WriteNode(m *tree.Model, bp *schema.Blueprint, nodeID, toDir string, opt WriteOptions) (WriteResult, error) {
	nodeID = strings.TrimSpace(nodeID)
	if nodeID == "" {
		return WriteResult{}, errors.New("missing node id")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md, err := RenderNodeMarkdown(m, bp, nodeID, opt.Render)
	if err != nil {
		return WriteResult{}, err
	}

	outDir := filepath.Join(toDir, "nodes")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, nodeID+".md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

// WriteAll renders every root subtree.
func WriteAll(m *tree.Model, bp *schema.Blueprint, toDir string, opt WriteOptions) (WriteResult, error) {
	var all WriteResult
	for _, rootID := range m.Roots() {
		res, err := WriteNode(m, bp, rootID, toDir, opt)
		if err != nil {
			return all, err
		}
		all.Written = append(all.Written, res.Written...)
	}
	return all, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite %s (use --overwrite)", path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
