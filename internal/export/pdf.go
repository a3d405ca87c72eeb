package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
)

// PDFOptions configures the document rendering. BrandingLink is injected by
// the caller from configuration; when empty the footer is omitted entirely.
// FontPath points at a TTF asset; when set and unreadable the export aborts
// rather than degrading. LogoPath is optional: a missing logo is skipped.
type PDFOptions struct {
	Title        string
	BrandingLink string
	FontPath     string
	LogoPath     string
}

const defaultTitle = "Shopping list"

// PDF renders the shopping list as a paginated document with a title band
// header and a branded footer.
func PDF(items []Item, opts PDFOptions) ([]byte, error) {
	title := opts.Title
	if title == "" {
		title = defaultTitle
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)

	family := "Helvetica"
	if opts.FontPath != "" {
		if _, err := os.Stat(opts.FontPath); err != nil {
			return nil, fmt.Errorf("font asset not readable: %w", err)
		}
		family = "Export"
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8Font(family, style, opts.FontPath)
		}
		if pdf.Err() {
			return nil, fmt.Errorf("failed to register font %s: %w", opts.FontPath, pdf.Error())
		}
	}

	pageWidth, _ := pdf.GetPageSize()

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(family, "B", 22)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFillColor(0, 0, 0)
		pdf.Rect(0, 0, pageWidth, 25, "F")
		if opts.LogoPath != "" {
			if _, err := os.Stat(opts.LogoPath); err == nil {
				pdf.ImageOptions(opts.LogoPath, 4, 4, 17, 17, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
			}
		}
		pdf.CellFormat(0, 7, title, "", 0, "C", false, 0, "")
		pdf.Ln(20)
	})

	pdf.SetFooterFunc(func() {
		if opts.BrandingLink == "" {
			return
		}
		pdf.SetY(-15)
		pdf.SetFont(family, "", 10)
		pdf.SetTextColor(128, 128, 128)
		text := opts.BrandingLink
		if _, rest, ok := strings.Cut(text, "://"); ok {
			text = rest
		}
		pdf.CellFormat(0, 10, text, "", 0, "R", false, 0, opts.BrandingLink)
	})

	pdf.AddPage()

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(family, "B", 12)
	pdf.CellFormat(0, 10, "Ingredients:", "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 12)
	for _, item := range items {
		pdf.CellFormat(0, 6, Line(item), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
