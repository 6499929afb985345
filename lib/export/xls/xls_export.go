package xlsexport

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	applicantapimodels "hr-pipeline/models/api/applicant"
)

type Provider interface {
	// ExportPipeline выгрузка воронки: лист на каждую вкладку, порядок кандидатов сохраняется
	ExportPipeline(view applicantapimodels.PipelineView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

func NewInstance() Provider {
	return impl{}
}

type impl struct{}

var applicantHeaders = []string{"Name", "Email", "Status", "Applied at", "Resume", "Ongoing rounds", "Previous rounds", "Average score"}

func (i impl) ExportPipeline(view applicantapimodels.PipelineView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	defaultSheet := f.GetSheetName(0)
	for idx, bucket := range view.Buckets {
		sheet := bucket.Title
		if idx == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return nil, errors.Wrap(err, "ошибка переименования листа в xlsx")
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, errors.Wrapf(err, "ошибка создания листа %s в xlsx", sheet)
		}
		row, err := writeHeader(f, sheet, 0, applicantHeaders)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
		}
		if len(bucket.Applicants) == 0 {
			continue
		}
		if _, err = writeApplicantData(f, sheet, bucket.Applicants, row); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	return f.WriteToBuffer()
}

func writeApplicantData(f *excelize.File, sheet string, list []applicantapimodels.ApplicantView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(applicantHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		values := []interface{}{
			item.GetName(),
			item.Email,
			item.StatusLabel,
			item.AppliedAt,
			item.GetResumeUrl(),
			roundNames(item.OngoingRounds),
			roundNames(item.PreviousRounds),
			lastScore(item.PreviousRounds),
		}
		for idx, value := range values {
			if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func roundNames(rounds []applicantapimodels.Round) string {
	var buf bytes.Buffer
	for idx, round := range rounds {
		if idx > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(round.Round)
	}
	return buf.String()
}

// lastScore средняя оценка последнего завершенного этапа
func lastScore(rounds []applicantapimodels.Round) string {
	if len(rounds) == 0 {
		return "-"
	}
	return rounds[len(rounds)-1].AverageScoreText()
}
