package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/xuri/excelize/v2"

	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	registrydb "github.com/trustvector/scorer/app/modules/registry/infrastructure/repositories"
)

const (
	sheetScores    = "Scores"
	sheetHistogram = "Histogram"
	pageSize       = 1000
	histogramBins  = 20
)

// Exporter writes a community's scores to an XLSX workbook with a score
// distribution histogram on a second sheet.
type Exporter struct {
	scoreRepo     registrydb.ScoreRepository
	communityRepo accountdb.CommunityRepository
	logger        *slog.Logger
}

// NewExporter creates a new Exporter.
func NewExporter(scoreRepo registrydb.ScoreRepository, communityRepo accountdb.CommunityRepository, logger *slog.Logger) *Exporter {
	return &Exporter{
		scoreRepo:     scoreRepo,
		communityRepo: communityRepo,
		logger:        logger,
	}
}

// WriteCommunityScores exports every score of the community to path.
func (e *Exporter) WriteCommunityScores(ctx context.Context, communityID int64, path string) error {
	community, err := e.communityRepo.Get(ctx, communityID)
	if err != nil {
		return fmt.Errorf("failed to load community %d: %w", communityID, err)
	}

	scores, err := e.collectScores(ctx, communityID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetScores)
	if err := e.writeScoreSheet(f, scores); err != nil {
		return err
	}

	if values := doneScoreValues(scores); len(values) > 0 {
		if err := e.writeHistogramSheet(f, community.Name, values); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.InfoContext(ctx, "exported community scores",
		slog.Int64("community_id", communityID),
		slog.Int("rows", len(scores)),
		slog.String("path", path),
	)

	return nil
}

func (e *Exporter) collectScores(ctx context.Context, communityID int64) ([]*registrydb.Score, error) {
	var all []*registrydb.Score
	for offset := 0; ; offset += pageSize {
		page, err := e.scoreRepo.ListByCommunity(ctx, communityID, "", pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list scores at offset %d: %w", offset, err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

func (e *Exporter) writeScoreSheet(f *excelize.File, scores []*registrydb.Score) error {
	headers := []string{"Address", "Score", "Status", "Last Scored", "Error"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetScores, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, score := range scores {
		address := ""
		if score.Passport != nil {
			address = score.Passport.Address
		}

		values := []any{address, nil, score.Status, nil, ""}
		if score.Score.Valid {
			values[1] = score.Score.Decimal.String()
		}
		if score.LastScoreTimestamp != nil {
			values[3] = score.LastScoreTimestamp.UTC().Format("2006-01-02 15:04:05")
		}
		if score.Error != nil {
			values[4] = *score.Error
		}

		for col, value := range values {
			if value == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetScores, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	return nil
}

// writeHistogramSheet renders the score distribution as a PNG bar chart and
// embeds it on its own sheet.
func (e *Exporter) writeHistogramSheet(f *excelize.File, title string, values []float64) error {
	if _, err := f.NewSheet(sheetHistogram); err != nil {
		return fmt.Errorf("failed to create histogram sheet: %w", err)
	}

	bars := histogramBars(values)

	graph := chart.BarChart{
		Title:    fmt.Sprintf("%s score distribution", title),
		Height:   512,
		BarWidth: 24,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("failed to render histogram: %w", err)
	}

	if err := f.AddPictureFromBytes(sheetHistogram, "A1", &excelize.Picture{
		Extension: ".png",
		File:      buf.Bytes(),
		Format:    &excelize.GraphicOptions{},
	}); err != nil {
		return fmt.Errorf("failed to embed histogram: %w", err)
	}

	return nil
}

func doneScoreValues(scores []*registrydb.Score) []float64 {
	var values []float64
	for _, score := range scores {
		if score.Score.Valid {
			value, _ := score.Score.Decimal.Float64()
			values = append(values, value)
		}
	}
	return values
}

// histogramBars buckets values into fixed-width bins over their range. A
// degenerate single-value distribution collapses to one bar.
func histogramBars(values []float64) []chart.Value {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	min, max := sorted[0], sorted[len(sorted)-1]
	if min == max {
		return []chart.Value{{
			Label: strconv.FormatFloat(min, 'g', 4, 64),
			Value: float64(len(sorted)),
		}}
	}

	width := (max - min) / histogramBins
	counts := make([]int, histogramBins)
	for _, v := range sorted {
		bin := int((v - min) / width)
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		counts[bin]++
	}

	bars := make([]chart.Value, histogramBins)
	for i, count := range counts {
		low := min + float64(i)*width
		bars[i] = chart.Value{
			Label: strconv.FormatFloat(low, 'g', 3, 64),
			Value: float64(count),
		}
	}
	return bars
}
