package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/yoanbernabeu/sshrun/internal/cmd"
)

func main() {
	var (
		outputDir string
		format    string
	)

	genCmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Generate the sshrun command reference",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return generate(outputDir, format)
		},
	}
	genCmd.Flags().StringVarP(&outputDir, "output", "o", "./docs/commands", "Output directory")
	genCmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown or man")

	if err := genCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generate(outputDir, format string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cmd.GetRootCmd()
	rootCmd.DisableAutoGenTag = true

	switch format {
	case "markdown":
		if err := doc.GenMarkdownTreeCustom(rootCmd, outputDir, frontmatter, linkHandler); err != nil {
			return fmt.Errorf("failed to generate markdown: %w", err)
		}
	case "man":
		header := &doc.GenManHeader{Title: "SSHRUN", Section: "1", Source: "sshrun " + cmd.Version}
		if err := doc.GenManTree(rootCmd, header, outputDir); err != nil {
			return fmt.Errorf("failed to generate man pages: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q, use markdown or man", format)
	}

	log.Printf("Documentation generated in %s", outputDir)
	return nil
}

func frontmatter(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	title := strings.ReplaceAll(name, "_", " ")
	return `---
title: "` + title + `"
---

`
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/sshrun/commands/" + strings.ToLower(base) + "/"
}
