package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
)

const exportSheet = "Posts"

var exportHeaders = []interface{}{"ID", "Judul", "Penulis", "Likes", "Dislikes", "Rekomendasi", "Dibuat"}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportPosts writes one row per post, newest first, for lecturers reviewing
// forum activity.
func (s *exportService) ExportPosts(ctx context.Context, caller auth.Identity) (*bytes.Buffer, error) {
	if caller.ID == 0 {
		return nil, NewUnauthorizedError("Autentikasi diperlukan.")
	}
	if caller.Role != models.RoleDosen {
		return nil, NewForbiddenError("Hanya dosen yang dapat mengekspor laporan.")
	}

	s.logger.Info("Exporting post report", "user_id", caller.ID)

	posts, _, err := s.repo.Post().List(ctx, repositories.PostFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts for export: %w", err)
	}

	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	recommendations, err := s.repo.Recommendation().CountByPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count recommendations for export: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close export workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "G1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style export header: %w", err)
	}

	for i, p := range posts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			p.ID,
			p.Title,
			p.Author.Name,
			p.Likes,
			p.Dislikes,
			recommendations[p.ID],
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write export row for post %d: %w", p.ID, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render export workbook: %w", err)
	}

	s.logger.Info("Post report exported", "user_id", caller.ID, "rows", len(posts))
	return buf, nil
}
