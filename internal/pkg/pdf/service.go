// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service renders order receipts
type Service struct {
	config *config.Config
	tmpl   *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		tmpl: template.Must(template.New("receipt").Funcs(template.FuncMap{
			"money": func(cents int64) string {
				return fmt.Sprintf("%.2f", float64(cents)/100)
			},
		}).Parse(receiptTemplate)),
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string       `json:"receipt_number"`
	ReceiptDate   string       `json:"receipt_date"`
	Order         *order.Order `json:"order"`
	Shop          ShopInfo     `json:"shop"`
}

// ShopInfo is printed in the receipt header
type ShopInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// GenerateReceipt generates a PDF receipt for a confirmed order.
// It needs the wkhtmltopdf binary on PATH.
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(o, time.Now())
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA5)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the receipt page that GenerateReceipt converts
func (s *Service) RenderHTML(o *order.Order, now time.Time) ([]byte, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCP-%s", o.OrderNumber),
		ReceiptDate:   now.Format("January 2, 2006"),
		Order:         o,
		Shop: ShopInfo{
			Name:    s.config.Receipt.ShopName,
			Address: s.config.Receipt.ShopAddress,
			Phone:   s.config.Receipt.ShopPhone,
			Email:   s.config.Receipt.ShopEmail,
		},
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { margin-bottom: 24px; border-bottom: 2px solid #eee; padding-bottom: 16px; }
        .title { font-size: 24px; font-weight: bold; color: #28a745; }
        .section-title { font-size: 15px; font-weight: bold; margin: 16px 0 8px; color: #374151; }
        .items-table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
        .items-table th, .items-table td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        .items-table th { background-color: #f8f9fa; }
        .num { text-align: right; width: 80px; }
        .total-row { font-size: 17px; font-weight: bold; text-align: right; }
        .footer { margin-top: 32px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Shop.Name}}</h1>
        {{if .Shop.Address}}<p>{{.Shop.Address}}</p>{{end}}
        {{if .Shop.Phone}}<p>Phone: {{.Shop.Phone}}</p>{{end}}
        <div class="title">RECEIPT</div>
        <p><strong>Receipt #:</strong> {{.ReceiptNumber}}</p>
        <p><strong>Date:</strong> {{.ReceiptDate}}</p>
        <p><strong>Order #:</strong> {{.Order.OrderNumber}}</p>
    </div>

    <div class="section-title">Deliver To:</div>
    <p><strong>{{.Order.CustomerName}}</strong></p>
    <p>{{.Order.CustomerAddress}}</p>
    <p>Phone: {{.Order.CustomerPhone}}</p>
    <p>Payment: {{.Order.PaymentMethod}}</p>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="num">Qty</th>
                <th class="num">Price</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>{{.Title}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .Price}}</td>
                <td class="num">{{money .TotalPrice}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <p class="total-row">Total: {{printf "%.2f" .Order.GetFormattedTotal}} {{.Order.Currency}}</p>

    <div class="footer">
        <p>Thank you for your order!</p>
        <p>Questions? Contact us at {{.Shop.Email}}</p>
    </div>
</body>
</html>
`
