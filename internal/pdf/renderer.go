// Package pdf renders certificates as single page PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
)

type CertificateData struct {
	UserName      string
	UserEmail     string
	Score         string
	IssuedDate    string
	CertificateID string
}

type Renderer interface {
	Render(ctx context.Context, data CertificateData) ([]byte, error)
}

// FPDFRenderer lays out an A4 landscape page. The seal image is drawn once
// and reused for every document.
type FPDFRenderer struct {
	seal []byte
}

func NewRenderer() (*FPDFRenderer, error) {
	seal, err := drawSeal()
	if err != nil {
		return nil, err
	}
	return &FPDFRenderer{seal: seal}, nil
}

// NewRendererWithSeal uses a caller supplied PNG for the seal.
func NewRendererWithSeal(seal []byte) *FPDFRenderer {
	return &FPDFRenderer{seal: seal}
}

func (r *FPDFRenderer) Render(ctx context.Context, data CertificateData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetTitle("Certificate of Completion", true)
	doc.SetAuthor("CyberAware", true)
	doc.SetAutoPageBreak(false, 0)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	width, height := doc.GetPageSize()
	doc.SetDrawColor(0, 0, 139)
	doc.SetLineWidth(1.5)
	doc.Rect(10, 10, width-20, height-20, "D")

	doc.SetY(35)
	doc.SetTextColor(0, 0, 139)
	doc.SetFont("Helvetica", "B", 30)
	doc.CellFormat(0, 16, "Certificate of Completion", "", 1, "C", false, 0, "")

	doc.Ln(6)
	doc.SetFont("Helvetica", "", 16)
	doc.CellFormat(0, 10, "This is to certify that", "", 1, "C", false, 0, "")

	doc.Ln(6)
	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "B", 24)
	doc.CellFormat(0, 14, tr(data.UserName), "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 8, tr(data.UserEmail), "", 1, "C", false, 0, "")

	doc.Ln(8)
	doc.SetFont("Helvetica", "", 14)
	doc.CellFormat(0, 10, tr("has successfully completed the course with a score of "+data.Score+"%"), "", 1, "C", false, 0, "")

	doc.Ln(10)
	doc.CellFormat(0, 10, tr("Issued on: "+data.IssuedDate), "", 1, "C", false, 0, "")

	doc.SetY(height - 35)
	doc.SetTextColor(128, 128, 128)
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 8, tr("Certificate ID: "+data.CertificateID), "", 1, "C", false, 0, "")

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("seal", opts, bytes.NewReader(r.seal))
	doc.ImageOptions("seal", width-60, height-65, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate %s: %w", data.CertificateID, err)
	}
	return buf.Bytes(), nil
}
