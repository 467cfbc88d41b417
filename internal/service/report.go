package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/templui/balancewheel/internal/markdown"
	"github.com/templui/balancewheel/internal/model"
	"github.com/templui/balancewheel/internal/period"
)

// Report is a progress summary ready to send.
type Report struct {
	Subject  string `json:"subject"`
	Markdown string `json:"markdown"`
	HTML     string `json:"-"`
}

type reportMeta struct {
	Subject string `yaml:"subject"`
}

type ReportService struct {
	progressService *ProgressService
	emailService    *EmailService
	renderer        *markdown.Renderer
	appName         string
}

func NewReportService(progressService *ProgressService, emailService *EmailService, appName string) *ReportService {
	return &ReportService{
		progressService: progressService,
		emailService:    emailService,
		renderer:        markdown.NewRenderer(),
		appName:         appName,
	}
}

// Build summarizes every period as of now.
func (s *ReportService) Build(ctx context.Context, userID string, now time.Time) (*Report, error) {
	overview, err := s.progressService.Overview(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	source := s.render(overview)

	var meta reportMeta
	html, err := s.renderer.Render([]byte(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &Report{
		Subject:  meta.Subject,
		Markdown: source,
		HTML:     html,
	}, nil
}

// Send builds the report and emails it to user.
func (s *ReportService) Send(ctx context.Context, user *model.User, now time.Time) (*Report, error) {
	report, err := s.Build(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}

	err = s.emailService.SendProgressReport(ctx, user.Email, report)
	if err != nil {
		return nil, fmt.Errorf("failed to send report: %w", err)
	}

	return report, nil
}

func (s *ReportService) render(o *Overview) string {
	var b strings.Builder

	fmt.Fprintf(&b, "---\nsubject: %q\n---\n\n", fmt.Sprintf("%s progress for %s", s.appName, o.Date))
	fmt.Fprintf(&b, "# Progress on %s\n\n", o.Date)

	b.WriteString("| Period | Score |\n|---|---:|\n")
	for _, p := range period.All {
		fmt.Fprintf(&b, "| %s | %d%% |\n", p, o.Periods[p].OverallPercent)
	}

	b.WriteString("\n## This week by category\n\n")
	b.WriteString("| Category | Done | Goals |\n|---|---:|---:|\n")
	for _, slice := range o.Periods[period.Week].Legend() {
		fmt.Fprintf(&b, "| %s | %d | %d |\n", slice.Label, slice.Completed, slice.Total)
	}

	return b.String()
}
