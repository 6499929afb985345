package pdfexport

import (
	"bytes"
	"fmt"
	"html"
	"html/template"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	offerapimodels "hr-pipeline/models/api/offer"
)

const fontFamily = "Helvetica"

// DefaultOfferTemplate текст письма-оффера по умолчанию, html подмножество fpdf
const DefaultOfferTemplate = `<b>Offer of Employment</b><br><br>
Dear {{.ApplicantName}},<br><br>
We are pleased to offer you the position of <b>{{.Role}}</b>{{if .Location}} in {{.Location}}{{end}} at {{.CompanyName}}.<br><br>
The details of compensation, start date and benefits will be shared by our recruiting team.
Please confirm your acceptance by replying to {{.CompanyEmail}}.<br><br>
We look forward to working with you.<br><br>
Sincerely,<br>
{{.CompanyName}} Recruiting Team`

func newDocument() (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	pdf.SetFont(fontFamily, "", 12)
	// встроенные шрифты в cp1252, символы вне кодировки заменяются
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func GenerateOffer(offerTemplate string, tplData offerapimodels.OfferLetterData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateOffer panic recover: %v", r)
		}
	}()
	if offerTemplate == "" {
		offerTemplate = DefaultOfferTemplate
	}
	tpl, err := template.New("offer_body").Parse(offerTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка разбора шаблона оффера")
	}
	body := new(bytes.Buffer)
	if err = tpl.Execute(body, tplData); err != nil {
		return nil, errors.Wrap(err, "ошибка заполнения шаблона оффера")
	}

	pdf, tr := newDocument()
	pdf.SetTitle(tr("Offer of Employment"), false)

	// шапка с организацией
	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 8, tr(tplData.CompanyName), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(0, 6, tr(tplData.CompanyEmail), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(tplData.Date), "", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont(fontFamily, "", 12)
	_, lineHt := pdf.GetFontSize()
	writeHTML(pdf, tr, lineHt*1.5, body.String())
	return output(pdf)
}

// writeHTML выводит тело шаблона: теги b, i, u, br. Данные экранированы шаблоном,
// поэтому сущности в тексте декодируются только после разбора тегов
func writeHTML(pdf *fpdf.Fpdf, tr func(string) string, lineHt float64, body string) {
	var bold, italic, underline int
	setStyle := func() {
		style := ""
		if bold > 0 {
			style += "B"
		}
		if italic > 0 {
			style += "I"
		}
		if underline > 0 {
			style += "U"
		}
		pdf.SetFont("", style, 0)
	}
	for _, el := range fpdf.HTMLBasicTokenize(body) {
		switch el.Cat {
		case 'T':
			pdf.Write(lineHt, tr(html.UnescapeString(el.Str)))
		case 'O':
			switch el.Str {
			case "b":
				bold++
			case "i":
				italic++
			case "u":
				underline++
			case "br":
				pdf.Ln(lineHt)
			}
			setStyle()
		case 'C':
			switch el.Str {
			case "b":
				bold--
			case "i":
				italic--
			case "u":
				underline--
			}
			setStyle()
		}
	}
}

// TranscriptLine строка транскрипта для выгрузки
type TranscriptLine struct {
	Timestamp string
	Speaker   string
	Text      string
}

// GenerateTranscript транскрипт AI интервью с оценкой
func GenerateTranscript(title string, lines []TranscriptLine, score *int, suggestion string) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateTranscript panic recover: %v", r)
		}
	}()
	pdf, tr := newDocument()
	pdf.SetTitle(tr(title), false)

	pdf.SetFont(fontFamily, "B", 14)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.Ln(4)

	if score != nil {
		pdf.SetFont(fontFamily, "B", 11)
		pdf.CellFormat(0, 6, fmt.Sprintf("Score: %d/100", *score), "", 1, "L", false, 0, "")
		if suggestion != "" {
			pdf.SetFont(fontFamily, "", 11)
			pdf.MultiCell(0, 6, tr(suggestion), "", "L", false)
		}
		pdf.Ln(4)
	}

	for _, line := range lines {
		pdf.SetFont(fontFamily, "B", 10)
		header := line.Speaker
		if line.Timestamp != "" {
			header = fmt.Sprintf("[%s] %s", line.Timestamp, line.Speaker)
		}
		pdf.CellFormat(0, 5, tr(header), "", 1, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		pdf.MultiCell(0, 5, tr(line.Text), "", "L", false)
		pdf.Ln(2)
	}
	return output(pdf)
}
