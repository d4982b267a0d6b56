package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/terra-do-sol/checkin-api/internal/models"
	appErrors "github.com/terra-do-sol/checkin-api/pkg/errors"
	"github.com/terra-do-sol/checkin-api/pkg/export"
)

// ExportFormat names a supported roster download format.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered roster ready to stream to the client.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

type rosterSource interface {
	List(ctx context.Context) ([]models.Household, error)
}

// ExportService renders the registered-families roster as CSV or PDF.
type ExportService struct {
	source rosterSource
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

func NewExportService(source rosterSource, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{source: source, csv: csv, pdf: pdf, logger: logger}
}

var rosterHeaders = []string{"ID", "Pai", "Mãe", "Telefone", "Bairro", "Tipo de Moradia", "Filhos", "Cadastro"}

// Roster renders the full family listing, newest first, in the requested format.
func (s *ExportService) Roster(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	records, err := s.source.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load families for export")
	}

	dataset := export.Dataset{Headers: rosterHeaders, Rows: make([]map[string]string, 0, len(records))}
	for _, rec := range records {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":              strconv.FormatInt(rec.ID, 10),
			"Pai":             rec.FatherName,
			"Mãe":             rec.MotherName,
			"Telefone":        rec.FatherPhone,
			"Bairro":          rec.Neighborhood,
			"Tipo de Moradia": rec.HousingType,
			"Filhos":          strconv.Itoa(len(rec.Children)),
			"Cadastro":        rec.CreatedAt.Format("02/01/2006"),
		})
	}

	stamp := time.Now().Format("2006-01-02")
	switch format {
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("familias-%s.csv", stamp),
		}, nil
	case FormatPDF:
		content, err := s.pdf.Render(dataset, "Famílias Cadastradas - Terra do Sol")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("familias-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format: %s", format))
	}
}
