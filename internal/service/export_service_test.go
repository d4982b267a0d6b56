package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-do-sol/checkin-api/internal/models"
	appErrors "github.com/terra-do-sol/checkin-api/pkg/errors"
	"github.com/terra-do-sol/checkin-api/pkg/export"
)

type fakeRosterSource struct {
	records []models.Household
	err     error
}

func (f *fakeRosterSource) List(ctx context.Context) ([]models.Household, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func rosterRecords() []models.Household {
	return []models.Household{
		{
			ID: 2, CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			FatherName: "Carlos", MotherName: "Ana Lúcia", FatherPhone: "(88) 99999-0002",
			Neighborhood: "Centro", HousingType: models.HousingRented,
		},
		{
			ID: 1, CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			FatherName: "João", MotherName: "Maria", FatherPhone: "(88) 99999-0001",
			Neighborhood: "São José", HousingType: models.HousingOwned,
			Children: models.ChildList{{Name: "Ana"}, {Name: "Bruno"}},
		},
	}
}

func newTestExportService(source rosterSource) *ExportService {
	return NewExportService(source, export.NewCSVExporter(), export.NewPDFExporter(), nil)
}

func TestRosterCSV(t *testing.T) {
	svc := newTestExportService(&fakeRosterSource{records: rosterRecords()})

	file, err := svc.Roster(context.Background(), FormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "familias-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	content := string(file.Content)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Pai")
	assert.Contains(t, lines[0], "Tipo de Moradia")
	assert.Contains(t, lines[1], "Carlos")
	assert.Contains(t, lines[2], "João")
	assert.Contains(t, lines[2], "2") // child count
	assert.Contains(t, lines[2], "01/03/2026")
}

func TestRosterPDF(t *testing.T) {
	svc := newTestExportService(&fakeRosterSource{records: rosterRecords()})

	file, err := svc.Roster(context.Background(), FormatPDF)

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestRosterEmptyListStillRenders(t *testing.T) {
	svc := newTestExportService(&fakeRosterSource{})

	file, err := svc.Roster(context.Background(), FormatCSV)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
	assert.Len(t, lines, 1)
}

func TestRosterUnsupportedFormat(t *testing.T) {
	svc := newTestExportService(&fakeRosterSource{})

	file, err := svc.Roster(context.Background(), ExportFormat("xlsx"))

	assert.Nil(t, file)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRosterSourceFailure(t *testing.T) {
	svc := newTestExportService(&fakeRosterSource{err: errors.New("db down")})

	_, err := svc.Roster(context.Background(), FormatCSV)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
