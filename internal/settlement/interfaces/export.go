package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"travelorder-cloud/internal/settlement/application"
	trips "travelorder-cloud/internal/trips/domain"
)

// BuildSettlementXLSX renders a settlement report as a workbook with a
// summary sheet and one row per trip.
func BuildSettlementXLSX(report *application.Report) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	tripsSheet := "trips"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(tripsSheet)

	batch := report.Settlement
	_ = f.SetCellValue(summarySheet, "A1", "Travel Order Settlement")
	_ = f.SetCellValue(summarySheet, "A3", "Name")
	_ = f.SetCellValue(summarySheet, "B3", batch.Name)
	_ = f.SetCellValue(summarySheet, "A4", "Status")
	_ = f.SetCellValue(summarySheet, "B4", batch.Status)
	_ = f.SetCellValue(summarySheet, "A5", "Trips")
	_ = f.SetCellValue(summarySheet, "B5", len(batch.TripIDs))
	_ = f.SetCellValue(summarySheet, "A6", "Total Amount")
	_ = f.SetCellValue(summarySheet, "B6", batch.TotalAmount)
	_ = f.SetCellValue(summarySheet, "A7", "Created")
	_ = f.SetCellValue(summarySheet, "B7", batch.CreatedAt.Format(time.RFC3339))

	byTrip := make(map[string]trips.Calculation, len(report.Breakdowns))
	for _, breakdown := range report.Breakdowns {
		byTrip[breakdown.TripID] = breakdown.Calculation
	}

	headers := []string{"Start", "End", "Route", "Distance (km)", "Meal Allowance", "Fuel", "Amortization", "Other Expenses", "Total"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(tripsSheet, cell, header)
	}
	for i, trip := range report.Trips {
		row := i + 2
		calc := byTrip[trip.ID]
		_ = f.SetCellValue(tripsSheet, fmt.Sprintf("A%d", row), trip.DateStart.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(tripsSheet, fmt.Sprintf("B%d", row), trip.DateEnd.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(tripsSheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%s - %s", trip.Origin, trip.Destination))
		_ = f.SetCellValue(tripsSheet, fmt.Sprintf("D%d", row), trip.DistanceKm)
		_ = f.SetCellValue(tripsSheet, fmt.Sprintf("E%d", row), calc.MealAllowance)
		_ = f.SetCellValue(tripsSheet, fmt.Sprintf("F%d", row), calc.FuelCost)
		_ = f.SetCellValue(tripsSheet, fmt.Sprintf("G%d", row), calc.AmortizationCost)
		_ = f.SetCellValue(tripsSheet, fmt.Sprintf("H%d", row), calc.OtherExpensesCost)
		_ = f.SetCellValue(tripsSheet, fmt.Sprintf("I%d", row), calc.TotalCost)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
