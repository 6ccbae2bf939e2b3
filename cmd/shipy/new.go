package main

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
)

//go:embed all:scaffold
var scaffold embed.FS

const scaffoldRoot = "scaffold"

// scaffoldData is passed to every scaffold template.
type scaffoldData struct {
	Name   string
	Module string
	Secret string
}

func newCmd() *cobra.Command {
	var (
		force  bool
		module string
	)

	cmd := &cobra.Command{
		Use:   "new <dir>",
		Short: "Create a new application skeleton",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			secret, err := newSecret()
			if err != nil {
				return err
			}
			name := filepath.Base(filepath.Clean(dir))
			if module == "" {
				module = name
			}
			data := scaffoldData{Name: name, Module: module, Secret: secret}
			if err := writeScaffold(cmd.OutOrStdout(), dir, data, force); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nNext steps:\n")
			fmt.Fprintf(out, "  cd %s\n", dir)
			fmt.Fprintf(out, "  go get github.com/dmitrymomot/shipy && go mod tidy\n")
			fmt.Fprintf(out, "  go run .\n")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	cmd.Flags().StringVar(&module, "module", "", "Go module path (default: directory name)")
	return cmd
}

// writeScaffold renders every scaffold template into dir.
// Existing files are skipped unless force is set.
func writeScaffold(out io.Writer, dir string, data scaffoldData, force bool) error {
	return fs.WalkDir(scaffold, scaffoldRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel := strings.TrimSuffix(strings.TrimPrefix(p, scaffoldRoot+"/"), ".tmpl")
		dst := filepath.Join(dir, filepath.FromSlash(rel))

		if !force {
			if _, err := os.Stat(dst); err == nil {
				fmt.Fprintf(out, "skip  %s (exists)\n", dst)
				return nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}

		content, err := renderScaffold(p, data)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, content, fileMode(rel)); err != nil {
			return err
		}
		fmt.Fprintf(out, "write %s\n", dst)
		return nil
	})
}

// renderScaffold executes one template. Templates use [[ ]] delimiters so
// the html/template actions in generated views pass through untouched.
func renderScaffold(p string, data scaffoldData) ([]byte, error) {
	src, err := scaffold.ReadFile(p)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(p, ".tmpl") {
		return src, nil
	}
	tmpl, err := template.New(path.Base(p)).Delims("[[", "]]").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("scaffold %s: %w", p, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("scaffold %s: %w", p, err)
	}
	return buf.Bytes(), nil
}

// fileMode keeps the generated .env private.
func fileMode(rel string) fs.FileMode {
	if path.Base(rel) == ".env" {
		return 0o600
	}
	return 0o644
}
