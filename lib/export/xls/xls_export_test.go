package xlsexport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
)

func TestExportPipeline(t *testing.T) {
	view := applicantapimodels.PipelineView{JobID: "job-1"}
	for _, bucket := range models.PipelineBuckets {
		view.Buckets = append(view.Buckets, applicantapimodels.BucketView{Bucket: bucket, Title: bucket.ToHuman()})
	}
	view.Buckets[0].Applicants = []applicantapimodels.ApplicantView{
		{
			Applicant: applicantapimodels.Applicant{
				Name:  "Bob",
				Email: "b@x.com",
				PreviousRounds: []applicantapimodels.Round{
					{Round: "Technical Round 1", Scores: map[string]int{"go": 4, "sql": 3, "design": 5}},
				},
			},
			StatusLabel: "Decision pending",
		},
		{Applicant: applicantapimodels.Applicant{Name: "Ann", Email: "a@x.com"}},
	}

	buf, err := NewInstance().ExportPipeline(view)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	require.Len(t, f.GetSheetList(), len(models.PipelineBuckets))
	rows, err := f.GetRows(models.BucketPending.ToHuman())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, applicantHeaders, rows[0])
	require.Equal(t, "Bob", rows[1][0])
	require.Equal(t, "Technical Round 1", rows[1][6])
	require.Equal(t, "4.0", rows[1][7])
	require.Equal(t, "Ann", rows[2][0])

	rows, err = f.GetRows(models.BucketRejected.ToHuman())
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
