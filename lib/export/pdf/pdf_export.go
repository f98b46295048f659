package pdfexport

import (
	"bytes"
	applicationapimodels "careers-backend/models/api/application"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	fontFamily = "Helvetica"
	lineHt     = 6.0
	labelWidth = 55.0
)

// GenerateApplicationCard карточка заявки для печати и пересылки
func GenerateApplicationCard(view applicationapimodels.ApplicationView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateApplicationCard panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Application "+view.ID, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontFamily, "B", 16)
	title := view.FirstName + " " + view.LastName
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	subtitle := view.JobTitle
	if subtitle == "" {
		subtitle = "Job " + view.JobID
	}
	pdf.CellFormat(0, lineHt, tr(subtitle), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Candidate")
	field(pdf, tr, "Email", view.Email)
	field(pdf, tr, "Phone", view.Phone)
	field(pdf, tr, "Can travel to Navi Mumbai", string(view.CanTravel))
	field(pdf, tr, "Current salary", view.CurrentSalary)
	field(pdf, tr, "Expected salary", view.ExpectedSalary)
	field(pdf, tr, "CV", view.CVFileName)
	field(pdf, tr, "Submitted", view.CreatedAt.UTC().Format("02 Jan 2006 15:04 MST"))
	field(pdf, tr, "Status", view.StatusName)

	section(pdf, "Why Motor Octane")
	pdf.MultiCell(0, lineHt, tr(view.Motivation), "", "L", false)

	if len(view.JobSpecificAnswers) != 0 {
		section(pdf, "Job specific answers")
		keys := make([]string, 0, len(view.JobSpecificAnswers))
		for key := range view.JobSpecificAnswers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			pdf.SetFont(fontFamily, "B", 11)
			pdf.MultiCell(0, lineHt, tr(key), "", "L", false)
			pdf.SetFont(fontFamily, "", 11)
			pdf.MultiCell(0, lineHt, tr(view.JobSpecificAnswers[key]), "", "L", false)
			pdf.Ln(1)
		}
	}

	if view.Notes != "" {
		section(pdf, "Notes")
		pdf.MultiCell(0, lineHt, tr(view.Notes), "", "L", false)
	}

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, name string) {
	pdf.Ln(3)
	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(0, 8, name, "B", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.Ln(1)
}

func field(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	if value == "" {
		value = "-"
	}
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(labelWidth, lineHt, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(0, lineHt, tr(value), "", "L", false)
}
