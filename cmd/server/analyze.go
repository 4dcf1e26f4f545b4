package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artem13815/skillverge/pkg/analysis"
	"github.com/artem13815/skillverge/pkg/nlp"
	"github.com/artem13815/skillverge/pkg/resume"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyse a resume file offline and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var analyzeMimeType string

func init() {
	analyzeCmd.Flags().StringVar(&analyzeMimeType, "mime", "", "MIME type of the file (detected from the extension when empty)")
	rootCmd.AddCommand(analyzeCmd)
}

type analyzeResult struct {
	File            string                    `json:"file"`
	MimeType        string                    `json:"mimeType"`
	Skills          []string                  `json:"skills"`
	Categories      map[string][]string       `json:"categories"`
	Experience      []analysis.ExperienceItem `json:"experience"`
	Education       []analysis.EducationItem  `json:"education"`
	Contact         analysis.Contact          `json:"contact"`
	ExperienceYears int                       `json:"experienceYears"`
	Score           float64                   `json:"score"`
	Band            string                    `json:"band"`
}

func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return resume.MimePDF
	case ".doc":
		return resume.MimeDoc
	case ".docx":
		return resume.MimeDocx
	case ".txt":
		return "text/plain"
	default:
		return ""
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	mimeType := analyzeMimeType
	if mimeType == "" {
		mimeType = mimeFromExt(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var text string
	// Plain text skips extraction; handy for checking the extractors alone.
	if resume.NormalizeMimeType(mimeType) == "text/plain" {
		text = string(data)
	} else {
		if err := resume.ValidateUpload(mimeType, int64(len(data)), 0); err != nil {
			return err
		}
		if text, err = resume.ExtractText(mimeType, data); err != nil {
			return fmt.Errorf("failed to extract text: %w", err)
		}
	}

	ex, err := analysis.Extract(cmd.Context(), nlp.Normalize(text))
	if err != nil {
		return err
	}
	categories := map[string][]string{}
	for _, skill := range ex.Skills {
		if name, ok := nlp.CategoryOf(skill); ok {
			categories[name] = append(categories[name], skill)
		}
	}
	out := analyzeResult{
		File:            path,
		MimeType:        mimeType,
		Skills:          ex.Skills,
		Categories:      categories,
		Experience:      ex.Experience,
		Education:       ex.Education,
		Contact:         ex.Contact,
		ExperienceYears: analysis.ExperienceYears(ex.Experience),
		Score:           ex.Score,
		Band:            analysis.Band(ex.Score),
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
