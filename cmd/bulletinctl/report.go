package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/noah-isme/bulletin-api/internal/repository"
	"github.com/noah-isme/bulletin-api/internal/service"
)

const annualPeriod = "annual"

type reportOptions struct {
	studentID string
	period    string
	format    string
	out       string
}

func newReportCommand() *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a student bulletin to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.Close()
			return runReport(cmd, rt, opts)
		},
	}
	cmd.Flags().StringVar(&opts.studentID, "student", "", "student id")
	cmd.Flags().StringVar(&opts.period, "period", "semester1", "semester1, semester2, final or annual")
	cmd.Flags().StringVar(&opts.format, "format", "pdf", "pdf, csv or xlsx")
	cmd.Flags().StringVar(&opts.out, "out", "", "output file or directory (defaults to the generated filename)")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func runReport(cmd *cobra.Command, rt *app, opts *reportOptions) error {
	format, err := service.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	validate := validator.New()
	settings := service.NewSettingsService(
		repository.NewSettingsRepository(rt.db),
		service.DefaultSettings(rt.cfg.Institute),
		nil, validate, rt.log,
	)
	bulletins := service.NewBulletinService(service.BulletinSources{
		Students: repository.NewStudentRepository(rt.db),
		Teachers: repository.NewTeacherRepository(rt.db),
		Courses:  repository.NewCourseRepository(rt.db),
		Grades:   repository.NewGradeRepository(rt.db),
		Settings: settings,
	}, nil, nil, rt.log)
	renderer := service.NewExportService(bulletins, nil, nil, service.ExportConfig{}, rt.log)

	ctx := cmd.Context()
	var file *service.RenderedFile
	if strings.EqualFold(strings.TrimSpace(opts.period), annualPeriod) {
		report, err := bulletins.AnnualReport(ctx, opts.studentID)
		if err != nil {
			return err
		}
		file, err = renderer.RenderAnnualReport(report, format)
		if err != nil {
			return err
		}
	} else {
		card, err := bulletins.ReportCard(ctx, opts.studentID, opts.period)
		if err != nil {
			return err
		}
		file, err = renderer.RenderReportCard(card, format)
		if err != nil {
			return err
		}
	}

	target := outputPath(opts.out, file.Filename)
	if err := os.WriteFile(target, file.Payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", target, len(file.Payload))
	return nil
}

func outputPath(out, filename string) string {
	if out == "" {
		return filename
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, filename)
	}
	return out
}
