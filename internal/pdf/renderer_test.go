package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/saulo-duarte/cyberaware-lambda/internal/pdf"
)

var sample = pdf.CertificateData{
	UserName:      "Ana Lima",
	UserEmail:     "ana@example.com",
	Score:         "90.00",
	IssuedDate:    "March 4, 2026",
	CertificateID: "CERT-20260304-000007",
}

func TestRender(t *testing.T) {
	t.Run("ProducesPDF", func(t *testing.T) {
		r, err := pdf.NewRenderer()
		if err != nil {
			t.Fatalf("NewRenderer failed: %v", err)
		}

		out, err := r.Render(context.Background(), sample)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !bytes.HasPrefix(out, []byte("%PDF")) {
			t.Fatalf("output is not a PDF stream: %q", out[:8])
		}
	})

	t.Run("NonLatinName", func(t *testing.T) {
		r, _ := pdf.NewRenderer()
		data := sample
		data.UserName = "José Conceição"
		if _, err := r.Render(context.Background(), data); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
	})

	t.Run("BrokenSeal", func(t *testing.T) {
		r := pdf.NewRendererWithSeal([]byte("not a png"))
		if _, err := r.Render(context.Background(), sample); err == nil {
			t.Fatal("expected an error for an invalid seal image")
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		r, _ := pdf.NewRenderer()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := r.Render(ctx, sample); err == nil {
			t.Fatal("expected context error")
		}
	})
}
