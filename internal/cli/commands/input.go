package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/metastack-labs/metasql/pkg/ast"
)

// loadStatements reads JSON statement files. Directory arguments are
// expanded to their *.json files, sorted so runs are reproducible. A
// statement without an id gets the file's base name.
func loadStatements(args []string) ([]*ast.Statement, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.json"))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no statement files found")
	}

	stmts := make([]*ast.Statement, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		stmt, err := ast.DecodeStatement(data)
		if err != nil {
			return nil, fmt.Errorf("cannot decode %s: %w", path, err)
		}
		if stmt.ID == "" {
			stmt.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
