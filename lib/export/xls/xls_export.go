package xlsexport

import (
	"bytes"
	dbmodels "careers-backend/models/db"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Applications"

type Provider interface {
	ExportApplicationList(list []dbmodels.ApplicationWithJob) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

type column struct {
	title string
	wide  bool
	value func(item dbmodels.ApplicationWithJob) interface{}
}

var applicationColumns = []column{
	{title: "Submitted", value: func(item dbmodels.ApplicationWithJob) interface{} {
		return item.CreatedAt.UTC().Format("2006-01-02 15:04")
	}},
	{title: "Job", value: func(item dbmodels.ApplicationWithJob) interface{} {
		if item.Job == nil {
			return item.JobID
		}
		return item.Job.Title
	}},
	{title: "Department", value: func(item dbmodels.ApplicationWithJob) interface{} {
		if item.Job == nil {
			return ""
		}
		return item.Job.Department
	}},
	{title: "Name", value: func(item dbmodels.ApplicationWithJob) interface{} { return item.GetFIO() }},
	{title: "Email", value: func(item dbmodels.ApplicationWithJob) interface{} { return item.Email }},
	{title: "Phone", value: func(item dbmodels.ApplicationWithJob) interface{} { return item.Phone }},
	{title: "Can travel to Navi Mumbai", value: func(item dbmodels.ApplicationWithJob) interface{} { return string(item.CanTravel) }},
	{title: "Current salary", value: func(item dbmodels.ApplicationWithJob) interface{} { return item.CurrentSalary }},
	{title: "Expected salary", value: func(item dbmodels.ApplicationWithJob) interface{} { return item.ExpectedSalary }},
	{title: "Why Motor Octane", wide: true, value: func(item dbmodels.ApplicationWithJob) interface{} { return item.Motivation }},
	{title: "Job specific answers", wide: true, value: func(item dbmodels.ApplicationWithJob) interface{} {
		return FormatAnswers(item.JobSpecificAnswers)
	}},
	{title: "CV", value: func(item dbmodels.ApplicationWithJob) interface{} { return item.CVFileName }},
	{title: "Status", value: func(item dbmodels.ApplicationWithJob) interface{} { return item.Status.ToHuman() }},
	{title: "Notes", wide: true, value: func(item dbmodels.ApplicationWithJob) interface{} { return item.Notes }},
}

func (i impl) ExportApplicationList(list []dbmodels.ApplicationWithJob) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа в xlsx")
	}
	if err := writeHeader(f, SheetName, applicationColumns); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	for idx, item := range list {
		row := idx + 2
		for col, c := range applicationColumns {
			if err := writeCell(f, SheetName, col+1, row, c.value(item)); err != nil {
				return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
			}
		}
	}
	if err := applyDataStyle(f, SheetName, len(applicationColumns), len(list)+1); err != nil {
		return nil, errors.Wrap(err, "ошибка оформления таблицы в xlsx")
	}
	return f.WriteToBuffer()
}

// FormatAnswers "вопрос: ответ" построчно, вопросы по алфавиту
func FormatAnswers(answers map[string]string) string {
	keys := make([]string, 0, len(answers))
	for key := range answers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+": "+answers[key])
	}
	return strings.Join(lines, "\n")
}
