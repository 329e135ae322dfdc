// Package report renders the ledger's current contents into a PDF
// investment report. It is a pure consumer of the ledger: generation
// failures never feed back into the write path.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/aurelian-labs/goldvest-backend/internal/models"
)

// ErrNoData is returned when the ledger holds no records with the full
// set of numeric fields.
var ErrNoData = errors.New("no valid investment data found")

type Generator struct {
	dir string
}

func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

type summary struct {
	valid       int
	totalAmount float64
	totalGold   float64
	avgPrice    float64
	minPrice    float64
	maxPrice    float64
	largest     float64
	smallest    float64
	first       string
	last        string
}

// summarize aggregates the records that carry all three numeric fields;
// partially-filled records are skipped, matching the front end's
// tolerance for older ledger entries.
func summarize(investments []models.Investment) (*summary, error) {
	s := &summary{}
	var priceSum float64

	for _, inv := range investments {
		price, okP := inv.Price()
		amount, okA := inv.Amount()
		gold, okG := inv.GoldSold()
		if !okP || !okA || !okG {
			continue
		}

		if s.valid == 0 {
			s.minPrice, s.maxPrice = price, price
			s.largest, s.smallest = amount, amount
		} else {
			s.minPrice = min(s.minPrice, price)
			s.maxPrice = max(s.maxPrice, price)
			s.largest = max(s.largest, amount)
			s.smallest = min(s.smallest, amount)
		}

		s.valid++
		s.totalAmount += amount
		s.totalGold += gold
		priceSum += price
	}

	if s.valid == 0 {
		return nil, ErrNoData
	}
	s.avgPrice = priceSum / float64(s.valid)
	s.first = investments[0].Timestamp()
	s.last = investments[len(investments)-1].Timestamp()
	return s, nil
}

// Generate writes a PDF report for the given ledger snapshot and returns
// the output path.
func (g *Generator) Generate(investments []models.Investment) (string, error) {
	sum, err := summarize(investments)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	stamp := strings.NewReplacer(":", "-", ".", "-").
		Replace(time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	outPath := filepath.Join(g.dir, fmt.Sprintf("investment-report-%s.pdf", stamp))

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("Gold Investment Report", false)
	pdf.SetAuthor("Investment Tracker", false)
	pdf.SetSubject("Investment Summary and Analysis", false)
	pdf.SetMargins(50, 50, 45)
	pdf.AddPage()

	writeHeader(pdf)
	writeSummary(pdf, sum, len(investments))
	writeTransactions(pdf, investments)
	writeInsights(pdf, sum, len(investments))
	writeFooter(pdf)

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	fmt.Printf("[REPORT] Investment report generated: %s\n", outPath)
	return outPath, nil
}

func writeHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(44, 62, 80)
	pdf.SetXY(50, 50)
	pdf.CellFormat(0, 26, "GOLD INVESTMENT REPORT", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(127, 140, 141)
	pdf.SetXY(50, 85)
	generated := time.Now().UTC().Format("January 2, 2006 15:04")
	pdf.CellFormat(0, 14, "Generated on "+generated, "", 1, "L", false, 0, "")
}

func writeSummary(pdf *gofpdf.Fpdf, s *summary, total int) {
	const top = 120.0

	pdf.SetFillColor(236, 240, 241)
	pdf.SetDrawColor(189, 195, 199)
	pdf.Rect(40, top-10, 515, 140, "FD")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(44, 62, 80)
	pdf.SetXY(50, top)
	pdf.CellFormat(0, 18, "INVESTMENT SUMMARY", "", 1, "L", false, 0, "")

	type stat struct {
		label, value string
	}
	left := []stat{
		{"Total Invested:", fmt.Sprintf("%.2f", s.totalAmount)},
		{"Total Gold Acquired:", fmt.Sprintf("%.4f oz", s.totalGold)},
		{"Number of Transactions:", fmt.Sprintf("%d", total)},
		{"Investment Period:", s.first + " - " + s.last},
	}
	right := []stat{
		{"Average Gold Price:", fmt.Sprintf("%.2f", s.avgPrice)},
		{"Average per Transaction:", fmt.Sprintf("%.2f", s.totalAmount/float64(total))},
		{"Price Range:", fmt.Sprintf("%.2f - %.2f", s.minPrice, s.maxPrice)},
	}

	y := top + 30
	for i, st := range left {
		writeStat(pdf, 50, y+float64(i)*20, st.label, st.value)
	}
	for i, st := range right {
		writeStat(pdf, 300, y+float64(i)*20, st.label, st.value)
	}
}

func writeStat(pdf *gofpdf.Fpdf, x, y float64, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(52, 73, 94)
	pdf.SetXY(x, y)
	pdf.CellFormat(130, 14, label, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(115, 14, value, "", 0, "L", false, 0, "")
}

func writeTransactions(pdf *gofpdf.Fpdf, investments []models.Investment) {
	y := 300.0

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(44, 62, 80)
	pdf.SetXY(50, y)
	pdf.CellFormat(0, 18, "DETAILED TRANSACTIONS", "", 1, "L", false, 0, "")
	y += 30

	headers := []string{"Timestamp", "Price/oz", "Amount", "Gold (oz)"}
	widths := []float64{190, 90, 95, 90}

	drawHeaderRow := func(rowY float64) {
		pdf.SetFillColor(52, 73, 94)
		pdf.SetDrawColor(44, 62, 80)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(45, rowY)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 25, h, "1", 0, "C", true, 0, "")
		}
	}

	drawHeaderRow(y)
	y += 25

	pdf.SetFont("Helvetica", "", 9)
	for i, inv := range investments {
		if y > 720 {
			pdf.AddPage()
			y = 50
			drawHeaderRow(y)
			y += 25
			pdf.SetFont("Helvetica", "", 9)
		}

		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(248, 249, 250)
		}
		pdf.SetDrawColor(236, 240, 241)
		pdf.SetTextColor(44, 62, 80)

		cells := []string{
			inv.Timestamp(),
			numberCell(inv.Price, "%.2f"),
			numberCell(inv.Amount, "%.2f"),
			numberCell(inv.GoldSold, "%.4f"),
		}

		pdf.SetXY(45, y)
		for c, text := range cells {
			pdf.CellFormat(widths[c], 22, text, "1", 0, "C", true, 0, "")
		}
		y += 22
	}
}

func numberCell(get func() (float64, bool), format string) string {
	v, ok := get()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf(format, v)
}

func writeInsights(pdf *gofpdf.Fpdf, s *summary, total int) {
	y := pdf.GetY() + 40
	if y > 600 {
		pdf.AddPage()
		y = 50
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(44, 62, 80)
	pdf.SetXY(50, y)
	pdf.CellFormat(0, 18, "PERFORMANCE INSIGHTS", "", 1, "L", false, 0, "")
	y += 25

	variation := 0.0
	if s.minPrice > 0 {
		variation = (s.maxPrice - s.minPrice) / s.minPrice * 100
	}

	insights := []string{
		fmt.Sprintf("Price volatility during investment period: %.1f%%", variation),
		fmt.Sprintf("Largest single investment: %.2f", s.largest),
		fmt.Sprintf("Smallest single investment: %.2f", s.smallest),
		fmt.Sprintf("Average transaction size: %.2f", s.totalAmount/float64(total)),
		fmt.Sprintf("Total portfolio value at average price: %.2f", s.totalGold*s.avgPrice),
	}

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range insights {
		pdf.SetXY(60, y)
		pdf.CellFormat(0, 14, "- "+line, "", 1, "L", false, 0, "")
		y += 18
	}
}

func writeFooter(pdf *gofpdf.Fpdf) {
	_, pageH := pdf.GetPageSize()
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(149, 165, 166)
	pdf.SetXY(50, pageH-60)
	pdf.MultiCell(495, 10,
		"This report is generated for informational purposes only. "+
			"Past performance does not guarantee future results.",
		"", "C", false)
}
