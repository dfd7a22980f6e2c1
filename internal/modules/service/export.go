package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/netfield-io/sitesurvey/internal/config"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Workbook sheet names. A configured template must carry the same sheets;
// without a template the workbook is generated from scratch.
const (
	sheetSurvey       = "Survey"
	sheetSiteAccess   = "Site Access"
	sheetHealthSafety = "Health & Safety"
	sheetCabinets     = "Outdoor Cabinets"
	sheetACPower      = "AC Connection"
	sheetDCPower      = "DC Power"
	sheetRAN          = "RAN Equipment"
	sheetAntennas     = "Antennas"
	sheetRadioUnits   = "Radio Units"
	sheetNewAntennas  = "New Antennas"
	sheetFPFHs        = "FPFHs"
)

var exportSheets = []string{
	sheetSurvey, sheetSiteAccess, sheetHealthSafety, sheetCabinets,
	sheetACPower, sheetDCPower, sheetRAN, sheetAntennas,
	sheetRadioUnits, sheetNewAntennas, sheetFPFHs,
}

// ExportService renders one survey session into an .xlsx workbook.
type ExportService interface {
	Export(ctx context.Context, sessionID string) (filename string, content []byte, err error)
}

type exportService struct {
	surveys      repo.SurveyRepo
	siteAccess   repo.FormRepo[model.SiteAccess, *model.SiteAccess]
	healthSafety repo.FormRepo[model.HealthSafetySiteAccess, *model.HealthSafetySiteAccess]
	cabinets     repo.FormRepo[model.OutdoorCabinets, *model.OutdoorCabinets]
	acPower      repo.FormRepo[model.ACConnectionInfo, *model.ACConnectionInfo]
	dcPower      repo.FormRepo[model.DCPowerSystem, *model.DCPowerSystem]
	ran          repo.FormRepo[model.RANEquipment, *model.RANEquipment]
	antennas     repo.FormRepo[model.AntennaConfiguration, *model.AntennaConfiguration]
	radioUnits   repo.IndexedFormRepo[model.RadioUnit, *model.RadioUnit]
	newAntennas  repo.IndexedFormRepo[model.NewAntenna, *model.NewAntenna]
	fpfhs        repo.IndexedFormRepo[model.FPFH, *model.FPFH]
	cfg          *config.Config
	log          *zap.Logger
}

func NewExportService(
	surveys repo.SurveyRepo,
	siteAccess repo.FormRepo[model.SiteAccess, *model.SiteAccess],
	healthSafety repo.FormRepo[model.HealthSafetySiteAccess, *model.HealthSafetySiteAccess],
	cabinets repo.FormRepo[model.OutdoorCabinets, *model.OutdoorCabinets],
	acPower repo.FormRepo[model.ACConnectionInfo, *model.ACConnectionInfo],
	dcPower repo.FormRepo[model.DCPowerSystem, *model.DCPowerSystem],
	ran repo.FormRepo[model.RANEquipment, *model.RANEquipment],
	antennas repo.FormRepo[model.AntennaConfiguration, *model.AntennaConfiguration],
	radioUnits repo.IndexedFormRepo[model.RadioUnit, *model.RadioUnit],
	newAntennas repo.IndexedFormRepo[model.NewAntenna, *model.NewAntenna],
	fpfhs repo.IndexedFormRepo[model.FPFH, *model.FPFH],
	cfg *config.Config,
	log *zap.Logger,
) ExportService {
	return &exportService{
		surveys: surveys, siteAccess: siteAccess, healthSafety: healthSafety,
		cabinets: cabinets, acPower: acPower, dcPower: dcPower, ran: ran,
		antennas: antennas, radioUnits: radioUnits, newAntennas: newAntennas,
		fpfhs: fpfhs, cfg: cfg, log: log,
	}
}

// exportData is one session's full snapshot. Form pointers are nil when the
// module has never been filled in.
type exportData struct {
	survey       *model.Survey
	siteAccess   *model.SiteAccess
	healthSafety *model.HealthSafetySiteAccess
	cabinets     *model.OutdoorCabinets
	acPower      *model.ACConnectionInfo
	dcPower      *model.DCPowerSystem
	ran          *model.RANEquipment
	antennas     *model.AntennaConfiguration
	radioUnits   []model.RadioUnit
	newAntennas  []model.NewAntenna
	fpfhs        []model.FPFH
}

func (s *exportService) Export(ctx context.Context, sessionID string) (string, []byte, error) {
	survey, err := s.surveys.Get(ctx, sessionID)
	if repo.IsNotFound(err) {
		return "", nil, NewNotFound("Survey with session_id '%s' not found", sessionID)
	}
	if err != nil {
		return "", nil, NewInternal(err, "load survey")
	}

	data, err := s.collect(ctx, sessionID)
	if err != nil {
		return "", nil, NewInternal(err, "collect survey data")
	}
	data.survey = survey

	wb, err := s.openWorkbook()
	if err != nil {
		return "", nil, NewInternal(err, "open export workbook")
	}
	defer wb.Close()

	if err := writeWorkbook(wb, data); err != nil {
		return "", nil, NewInternal(err, "render export workbook")
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return "", nil, NewInternal(err, "serialize export workbook")
	}
	filename := fmt.Sprintf("site_survey_%s_%s.xlsx", sessionID, time.Now().Format("20060102"))
	return filename, buf.Bytes(), nil
}

// collect fans out over every module table with an errgroup; the tables are
// independent so the reads run concurrently.
func (s *exportService) collect(ctx context.Context, sessionID string) (*exportData, error) {
	data := &exportData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rec, err := s.siteAccess.Get(gctx, sessionID)
		if repo.IsNotFound(err) {
			return nil
		}
		data.siteAccess = rec
		return err
	})
	g.Go(func() error {
		rec, err := s.healthSafety.Get(gctx, sessionID)
		if repo.IsNotFound(err) {
			return nil
		}
		data.healthSafety = rec
		return err
	})
	g.Go(func() error {
		rec, err := s.cabinets.Get(gctx, sessionID)
		if repo.IsNotFound(err) {
			return nil
		}
		data.cabinets = rec
		return err
	})
	g.Go(func() error {
		rec, err := s.acPower.Get(gctx, sessionID)
		if repo.IsNotFound(err) {
			return nil
		}
		data.acPower = rec
		return err
	})
	g.Go(func() error {
		rec, err := s.dcPower.Get(gctx, sessionID)
		if repo.IsNotFound(err) {
			return nil
		}
		data.dcPower = rec
		return err
	})
	g.Go(func() error {
		rec, err := s.ran.Get(gctx, sessionID)
		if repo.IsNotFound(err) {
			return nil
		}
		data.ran = rec
		return err
	})
	g.Go(func() error {
		rec, err := s.antennas.Get(gctx, sessionID)
		if repo.IsNotFound(err) {
			return nil
		}
		data.antennas = rec
		return err
	})
	g.Go(func() error {
		items, err := s.radioUnits.List(gctx, sessionID)
		data.radioUnits = items
		return err
	})
	g.Go(func() error {
		items, err := s.newAntennas.List(gctx, sessionID)
		data.newAntennas = items
		return err
	})
	g.Go(func() error {
		items, err := s.fpfhs.List(gctx, sessionID)
		data.fpfhs = items
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *exportService) openWorkbook() (*excelize.File, error) {
	if path := s.cfg.Export.TemplatePath; path != "" {
		if _, err := os.Stat(path); err == nil {
			return excelize.OpenFile(path)
		}
		s.log.Warn("export template missing, generating a blank workbook",
			zap.String("template_path", s.cfg.Export.TemplatePath))
	}
	wb := excelize.NewFile()
	for i, name := range exportSheets {
		if i == 0 {
			if err := wb.SetSheetName(wb.GetSheetName(0), name); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := wb.NewSheet(name); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

func writeWorkbook(wb *excelize.File, data *exportData) error {
	set := func(sheet, cell string, v any) error {
		return wb.SetCellValue(sheet, cell, v)
	}

	sv := data.survey
	if err := firstErr(
		set(sheetSurvey, "A1", "Session ID"), set(sheetSurvey, "B1", sv.SessionID),
		set(sheetSurvey, "A2", "Site ID"), set(sheetSurvey, "B2", sv.SiteID),
		set(sheetSurvey, "A3", "Site Name"), set(sheetSurvey, "B3", sv.SiteName),
		set(sheetSurvey, "A4", "Region"), set(sheetSurvey, "B4", sv.Region),
		set(sheetSurvey, "A5", "Surveyor"), set(sheetSurvey, "B5", sv.SurveyorName),
		set(sheetSurvey, "A6", "Survey Date"), set(sheetSurvey, "B6", timeStr(sv.SurveyDate)),
	); err != nil {
		return err
	}

	if f := data.siteAccess; f != nil {
		if err := writePairs(wb, sheetSiteAccess, [][2]any{
			{"Access Permission Required", str(f.AccessPermissionRequired)},
			{"Keys Required", str(f.KeysRequired)},
			{"Security Escort Required", str(f.SecurityEscortRequired)},
			{"Accessible By Truck", str(f.SiteAccessibleByTruck)},
			{"Roof Access Available", str(f.RoofAccessAvailable)},
			{"Ladder Required", str(f.LadderRequired)},
			{"Gate Width (m)", f64(f.GateWidthMeters)},
			{"Preferred Access Time", str(f.PreferredAccessTime)},
			{"Notes", str(f.AccessNotes)},
		}); err != nil {
			return err
		}
	}

	if f := data.healthSafety; f != nil {
		if err := writePairs(wb, sheetHealthSafety, [][2]any{
			{"Access Road Safe", str(f.AccessRoadSafeCondition)},
			{"Site Safe For Work", str(f.SiteSafeForWork)},
			{"Walkway Safe", str(f.WalkwaySafe)},
			{"Fall Protection Required", str(f.FallProtectionRequired)},
			{"Guard Rails Present", str(f.GuardRailsPresent)},
			{"Electrical Hazards Present", str(f.ElectricalHazardsPresent)},
			{"Emergency Exits Marked", str(f.EmergencyExitsMarked)},
			{"First Aid Kit Available", str(f.FirstAidKitAvailable)},
			{"Notes", str(f.HealthSafetyNotes)},
		}); err != nil {
			return err
		}
	}

	if f := data.cabinets; f != nil {
		if err := writePairs(wb, sheetCabinets, [][2]any{
			{"Number Of Cabinets", f.NumberOfCabinets},
		}); err != nil {
			return err
		}
		if err := writeTable(wb, sheetCabinets, 3,
			[]string{"Type", "Vendor", "Model", "Height (cm)", "Width (cm)", "Depth (cm)", "Free Slots", "Power (kW)"},
			f.Cabinets.Data(), func(e model.CabinetEntry) []any {
				return []any{e.CabinetType, e.Vendor, e.Model, e.HeightCm, e.WidthCm, e.DepthCm, e.FreeSlots, e.PowerRatingKW}
			}); err != nil {
			return err
		}
	}

	if f := data.acPower; f != nil {
		if err := writePairs(wb, sheetACPower, [][2]any{
			{"AC Power Source", str(f.ACPowerSource)},
			{"Three Phase Available", str(f.ThreePhaseAvailable)},
			{"Backup Generator Present", str(f.BackupGeneratorPresent)},
			{"Main Breaker Rating (A)", i(f.MainBreakerRatingAmp)},
			{"Cable Size (mm2)", f64(f.CableSizeMM2)},
			{"Notes", str(f.ConnectionNotes)},
		}); err != nil {
			return err
		}
	}

	if f := data.dcPower; f != nil {
		if err := writePairs(wb, sheetDCPower, [][2]any{
			{"Number Of Cabinets", f.NumberOfCabinets},
			{"DC System Vendor", str(f.DCSystemVendor)},
			{"Total Rectifiers", i(f.TotalRectifiers)},
			{"Free Rectifier Slots", i(f.FreeRectifierSlots)},
			{"Battery Autonomy (h)", f64(f.BatteryAutonomyHours)},
		}); err != nil {
			return err
		}
		if err := writeTable(wb, sheetDCPower, 7,
			[]string{"PDU Model", "Rating (A)", "Free Breakers", "Battery Backed"},
			f.DCPDUs.Data(), func(e model.DCPDUEntry) []any {
				return []any{e.Model, e.RatingAmp, e.FreeBreakers, e.BatteryBack}
			}); err != nil {
			return err
		}
	}

	if f := data.ran; f != nil {
		if err := writePairs(wb, sheetRAN, [][2]any{
			{"Number Of Cabinets", f.NumberOfCabinets},
			{"Existing Vendor", str(f.ExistingVendor)},
			{"Notes", str(f.EquipmentNotes)},
		}); err != nil {
			return err
		}
		if err := writeTable(wb, sheetRAN, 5,
			[]string{"Vendor", "Technology", "Rack Location"},
			f.RANRacks.Data(), func(e model.RANRackEntry) []any {
				return []any{e.Vendor, e.Technology, e.RackLocation}
			}); err != nil {
			return err
		}
	}

	if f := data.antennas; f != nil {
		if err := writePairs(wb, sheetAntennas, [][2]any{
			{"Antenna Count", f.AntennaCount},
		}); err != nil {
			return err
		}
		if err := writeTable(wb, sheetAntennas, 3,
			[]string{"Sector", "Model", "Height (m)", "Azimuth", "Mech Tilt", "Elec Tilt"},
			f.Antennas.Data(), func(e model.AntennaEntry) []any {
				return []any{e.Sector, e.AntennaModel, e.HeightM, e.AzimuthDeg, e.MechanicalTiltDeg, e.ElectricalTiltDeg}
			}); err != nil {
			return err
		}
	}

	if err := writeTable(wb, sheetRadioUnits, 1,
		[]string{"Index", "Vendor", "Model", "Technology", "Ports In Use", "DC Power Source", "Notes"},
		data.radioUnits, func(e model.RadioUnit) []any {
			return []any{e.EntityIndex, str(e.Vendor), str(e.Model), str(e.Technology), i(e.PortsInUse), str(e.DCPowerSource), str(e.Notes)}
		}); err != nil {
		return err
	}

	if err := writeTable(wb, sheetNewAntennas, 1,
		[]string{"Index", "Model", "Sector", "Height (m)", "Azimuth", "Tilt Type"},
		data.newAntennas, func(e model.NewAntenna) []any {
			return []any{e.EntityIndex, str(e.AntennaModel), i(e.Sector), f64(e.HeightM), i(e.AzimuthDeg), str(e.TiltType)}
		}); err != nil {
		return err
	}

	return writeTable(wb, sheetFPFHs, 1,
		[]string{"Index", "Model", "Install Location", "DC Distribution", "Ports Used"},
		data.fpfhs, func(e model.FPFH) []any {
			return []any{e.EntityIndex, str(e.Model), str(e.InstallLocation), str(e.DCDistribution), i(e.PortsUsed)}
		})
}

// writePairs fills a label/value column pair starting at row 1.
func writePairs(wb *excelize.File, sheet string, pairs [][2]any) error {
	for idx, p := range pairs {
		row := idx + 1
		if err := wb.SetCellValue(sheet, fmt.Sprintf("A%d", row), p[0]); err != nil {
			return err
		}
		if err := wb.SetCellValue(sheet, fmt.Sprintf("B%d", row), p[1]); err != nil {
			return err
		}
	}
	return nil
}

// writeTable writes a header row followed by one row per entry.
func writeTable[E any](wb *excelize.File, sheet string, startRow int, headers []string, entries []E, cells func(E) []any) error {
	for col, h := range headers {
		name, err := excelize.CoordinatesToCellName(col+1, startRow)
		if err != nil {
			return err
		}
		if err := wb.SetCellValue(sheet, name, h); err != nil {
			return err
		}
	}
	for rowIdx, e := range entries {
		for col, v := range cells(e) {
			name, err := excelize.CoordinatesToCellName(col+1, startRow+1+rowIdx)
			if err != nil {
				return err
			}
			if err := wb.SetCellValue(sheet, name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func i(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func f64(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func timeStr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
