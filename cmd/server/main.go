// @title         SkillVerge Resume Analysis API
// @version       1.0
// @description   Сервис анализа резюме кандидатов: извлечение навыков, опыта, образования и контактов, расчёт оценки и ведение истории анализов.
// @BasePath      /api/v1
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Токен авторизации. Поддерживаются форматы: "Bearer <JWT>" или "<JWT>".
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "skillverge",
	Short:         "SkillVerge resume analysis service",
	Long:          "SkillVerge extracts skills, experience, education and contacts from resumes, scores them and keeps each candidate's analysis history.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
