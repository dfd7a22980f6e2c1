package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/netfield-io/sitesurvey/internal/config"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newExportFixture(t *testing.T) (ExportService, *mockSurveyRepo,
	*mockFormRepo[model.SiteAccess, *model.SiteAccess],
	*mockIndexedRepo[model.RadioUnit, *model.RadioUnit],
) {
	t.Helper()

	surveys := &mockSurveyRepo{}
	siteAccess := &mockFormRepo[model.SiteAccess, *model.SiteAccess]{}
	healthSafety := &mockFormRepo[model.HealthSafetySiteAccess, *model.HealthSafetySiteAccess]{}
	cabinets := &mockFormRepo[model.OutdoorCabinets, *model.OutdoorCabinets]{}
	acPower := &mockFormRepo[model.ACConnectionInfo, *model.ACConnectionInfo]{}
	dcPower := &mockFormRepo[model.DCPowerSystem, *model.DCPowerSystem]{}
	ran := &mockFormRepo[model.RANEquipment, *model.RANEquipment]{}
	antennas := &mockFormRepo[model.AntennaConfiguration, *model.AntennaConfiguration]{}
	radioUnits := &mockIndexedRepo[model.RadioUnit, *model.RadioUnit]{}
	newAntennas := &mockIndexedRepo[model.NewAntenna, *model.NewAntenna]{}
	fpfhs := &mockIndexedRepo[model.FPFH, *model.FPFH]{}

	// Modules without data read as not found; the export leaves their sheets
	// empty instead of failing.
	healthSafety.On("Get", mock.Anything, "S1").Return(nil, repo.ErrNotFound)
	cabinets.On("Get", mock.Anything, "S1").Return(nil, repo.ErrNotFound)
	acPower.On("Get", mock.Anything, "S1").Return(nil, repo.ErrNotFound)
	dcPower.On("Get", mock.Anything, "S1").Return(nil, repo.ErrNotFound)
	ran.On("Get", mock.Anything, "S1").Return(nil, repo.ErrNotFound)
	antennas.On("Get", mock.Anything, "S1").Return(nil, repo.ErrNotFound)
	newAntennas.On("List", mock.Anything, "S1").Return([]model.NewAntenna{}, nil)
	fpfhs.On("List", mock.Anything, "S1").Return([]model.FPFH{}, nil)

	svc := NewExportService(surveys, siteAccess, healthSafety, cabinets, acPower,
		dcPower, ran, antennas, radioUnits, newAntennas, fpfhs,
		&config.Config{}, zap.NewNop())
	return svc, surveys, siteAccess, radioUnits
}

func TestExportMissingSurvey(t *testing.T) {
	ctx := context.Background()
	svc, surveys, _, _ := newExportFixture(t)
	surveys.On("Get", mock.Anything, "S1").Return(nil, repo.ErrNotFound)

	_, _, err := svc.Export(ctx, "S1")

	require.Error(t, err)
	assert.Equal(t, ErrKindNotFound, KindOf(err))
}

func TestExportWritesWorkbook(t *testing.T) {
	ctx := context.Background()
	svc, surveys, siteAccess, radioUnits := newExportFixture(t)

	surveys.On("Get", mock.Anything, "S1").Return(&model.Survey{
		SessionID: "S1", SiteID: "SITE-42", SiteName: "Rooftop Alpha",
	}, nil)
	siteAccess.On("Get", mock.Anything, "S1").Return(&model.SiteAccess{
		SessionID:    "S1",
		KeysRequired: strPtr("Yes"),
	}, nil)
	radioUnits.On("List", mock.Anything, "S1").Return([]model.RadioUnit{
		{SessionID: "S1", EntityIndex: 0, Vendor: strPtr("Ericsson"), Technology: strPtr("5G")},
		{SessionID: "S1", EntityIndex: 1, Vendor: strPtr("Nokia"), Technology: strPtr("4G")},
	}, nil)

	filename, content, err := svc.Export(ctx, "S1")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "site_survey_S1_"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	wb, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer wb.Close()

	// All sheets exist even for unfilled modules.
	assert.ElementsMatch(t, exportSheets, wb.GetSheetList())

	got, err := wb.GetCellValue("Survey", "B1")
	require.NoError(t, err)
	assert.Equal(t, "S1", got)
	got, err = wb.GetCellValue("Survey", "B2")
	require.NoError(t, err)
	assert.Equal(t, "SITE-42", got)

	got, err = wb.GetCellValue("Site Access", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Yes", got)

	// Radio unit table: header row then one row per entry.
	got, err = wb.GetCellValue("Radio Units", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Index", got)
	got, err = wb.GetCellValue("Radio Units", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Nokia", got)
}
