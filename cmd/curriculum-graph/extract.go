// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curriculum-graph/internal/syllabus"
	"github.com/pdiddy/curriculum-graph/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract weekly topics from a scheme-of-work document",
	Long: `Extract reads a .docx or plain-text scheme of work, finds the "WEEK n"
markers (digits or ONE through TEN), and writes a syllabus YAML file that
load accepts. Subject, term, and class are not in the document and must be
given as flags.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	subject, _ := flags.GetString("subject")
	term, _ := flags.GetString("term")
	class, _ := flags.GetString("class")
	title, _ := flags.GetString("title")
	out, _ := flags.GetString("out")

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"--subject", subject}, {"--term", term}, {"--class", class},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required flags not set: %s", strings.Join(missing, ", "))
	}
	if title == "" {
		title = fmt.Sprintf("%s %s %s", subject, class, term)
	}

	lines, err := syllabus.ReadDocument(args[0])
	if err != nil {
		return err
	}
	s := types.Syllabus{
		Title:   title,
		Subject: subject,
		Term:    term,
		Class:   class,
		Weeks:   syllabus.ExtractWeekTopics(lines),
	}
	log.Info("topics extracted", "file", args[0], "weeks", len(s.Weeks))
	if len(s.Weeks) == 0 {
		log.Warn("no week markers found", "file", args[0])
	}

	if out == "" {
		data, err := yaml.Marshal(&s)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := syllabus.WriteFile(out, s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d weeks)\n", out, len(s.Weeks))
	return nil
}

func init() {
	extractCmd.Flags().String("subject", "", "subject, e.g. Mathematics")
	extractCmd.Flags().String("term", "", "term, e.g. First Term")
	extractCmd.Flags().String("class", "", "class, e.g. JSS1")
	extractCmd.Flags().String("title", "", "resource title (default: subject class term)")
	extractCmd.Flags().String("out", "", "output YAML path (default stdout)")

	rootCmd.AddCommand(extractCmd)
}
