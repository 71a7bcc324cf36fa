package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"p9e.in/fieldops/config"
	"p9e.in/fieldops/models"
)

// exportTable is the intermediate shape both writers share: a header row and
// string cells. Handlers build one from whatever they queried.
type exportTable struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// ExportStockRequests godoc
// @Summary Download stock requests as XLSX or CSV
// @Tags exports
// @Router /api/v1/exports/stock-requests [get]
func ExportStockRequests(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.StockRequest{}).Preload("Dispatch")
	if jobID := r.URL.Query().Get("job_id"); jobID != "" {
		q = q.Where("job_id = ?", jobID)
	}
	if status := r.URL.Query().Get("approval_status"); status != "" {
		q = q.Where("approval_status = ?", status)
	}

	var requests []models.StockRequest
	if err := q.Order("created_at DESC").Find(&requests).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load stock requests")
		return
	}

	table := exportTable{
		Name: "Stock_Requests",
		Headers: []string{
			"ID", "Job ID", "Site Worker", "Item Code", "Item Name", "Quantity",
			"Urgency", "Approval Status", "State", "Decision By", "Requested At",
		},
	}
	for _, req := range requests {
		decisionBy := ""
		if req.DecisionBy != nil {
			decisionBy = *req.DecisionBy
		}
		table.Rows = append(table.Rows, []string{
			req.ID.String(),
			req.JobID,
			req.SiteWorker,
			req.ItemCode,
			req.ItemName,
			fmt.Sprintf("%d", req.Quantity),
			req.Urgency,
			req.ApprovalStatus,
			models.LifecycleState(&req, req.Dispatch),
			decisionBy,
			time.Time(req.RequestDate).Format("2006-01-02 15:04:05"),
		})
	}

	serveExport(w, r, table)
}

// ExportProjects godoc
// @Summary Download the project list as XLSX or CSV
// @Tags exports
// @Router /api/v1/exports/projects [get]
func ExportProjects(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.Project{}).Preload("Company").Preload("Manager")
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var projects []models.Project
	if err := q.Order("job_id ASC").Find(&projects).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load projects")
		return
	}

	table := exportTable{
		Name: "Projects",
		Headers: []string{
			"Job ID", "Address", "Status", "Company", "Manager",
			"Hours Required", "Start Date", "Planned End Date",
		},
	}
	for _, p := range projects {
		company := ""
		if p.Company != nil {
			company = p.Company.Name
		}
		manager := ""
		if p.Manager != nil {
			manager = p.Manager.Name
		}
		start := ""
		if p.StartDate != nil {
			start = p.StartDate.Format("2006-01-02")
		}
		end := ""
		if p.PlannedEndDate != nil {
			end = p.PlannedEndDate.Format("2006-01-02")
		}
		table.Rows = append(table.Rows, []string{
			p.JobID,
			p.Address,
			p.Status,
			company,
			manager,
			fmt.Sprintf("%g", p.HoursRequired),
			start,
			end,
		})
	}

	serveExport(w, r, table)
}

// ExportInventory godoc
// @Summary Download the inventory ledger as XLSX or CSV
// @Tags exports
// @Router /api/v1/exports/inventory [get]
func ExportInventory(w http.ResponseWriter, r *http.Request) {
	var items []models.InventoryItem
	if err := config.DB.Order("item_code ASC").Find(&items).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}

	table := exportTable{
		Name:    "Inventory",
		Headers: []string{"Item Code", "Item Name", "Quantity", "Description", "Last Stock Entry"},
	}
	for _, item := range items {
		table.Rows = append(table.Rows, []string{
			item.ItemCode,
			item.ItemName,
			fmt.Sprintf("%d", item.Quantity),
			item.Description,
			item.StockEntryTime.Format("2006-01-02 15:04:05"),
		})
	}

	serveExport(w, r, table)
}

func serveExport(w http.ResponseWriter, r *http.Request, table exportTable) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}

	stamp := time.Now().Format("20060102_150405")
	switch format {
	case "xlsx":
		f, err := createExcelFile(table)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate Excel file")
			return
		}
		buffer, err := f.WriteToBuffer()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to write Excel file")
			return
		}
		filename := fmt.Sprintf("%s_%s.xlsx", sanitizeFilename(table.Name), stamp)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
		w.WriteHeader(http.StatusOK)
		w.Write(buffer.Bytes())
	case "csv":
		data, err := createCSVFile(table)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate CSV file")
			return
		}
		filename := fmt.Sprintf("%s_%s.csv", sanitizeFilename(table.Name), stamp)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "format must be xlsx or csv")
	}
}

func createExcelFile(table exportTable) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Export"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	f.SetCellValue(sheetName, "A1", table.Name)
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)

	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	for i, header := range table.Headers {
		cell := fmt.Sprintf("%s4", columnIndexToLetter(i+1))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range table.Rows {
		for colIdx, value := range row {
			cell := fmt.Sprintf("%s%d", columnIndexToLetter(colIdx+1), rowIdx+5)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Widen columns to something readable
	if len(table.Headers) > 0 {
		f.SetColWidth(sheetName, "A", columnIndexToLetter(len(table.Headers)), 20)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func createCSVFile(table exportTable) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	writer.Write(table.Headers)
	for _, row := range table.Rows {
		writer.Write(row)
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func sanitizeFilename(filename string) string {
	replacements := map[rune]rune{
		'/':  '_',
		'\\': '_',
		':':  '_',
		'*':  '_',
		'?':  '_',
		'"':  '_',
		'<':  '_',
		'>':  '_',
		'|':  '_',
		' ':  '_',
	}

	result := []rune{}
	for _, char := range filename {
		if replacement, exists := replacements[char]; exists {
			result = append(result, replacement)
		} else {
			result = append(result, char)
		}
	}

	return string(result)
}

func columnIndexToLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+(col%26))) + result
		col /= 26
	}
	return result
}
