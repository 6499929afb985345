package interviewapimodels

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
	jobapimodels "hr-pipeline/models/api/job"
)

func checkRoundInvariant(t *testing.T, draft ScheduleDraft) {
	if draft.Round != models.RoundInitialScreening {
		require.False(t, draft.IsAIInterview, "AI интервью на этапе %q", draft.Round)
	}
	if draft.IsAIInterview {
		require.Equal(t, models.RoundInitialScreening, draft.Round)
		require.Empty(t, draft.Team)
		require.Empty(t, draft.LocationType)
	}
}

func TestScheduleDraftInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	teams := []string{"", "core", "platform"}
	locations := []models.LocationType{"", models.LocationTypeOnline, models.LocationTypeOffline}
	for n := 0; n < 500; n++ {
		draft := NewScheduleDraft("a@x.com")
		for step := 0; step < 10; step++ {
			patch := ScheduleDraftPatch{}
			switch rnd.Intn(4) {
			case 0:
				round := models.InterviewRounds[rnd.Intn(len(models.InterviewRounds))]
				patch.Round = &round
			case 1:
				enabled := rnd.Intn(2) == 0
				patch.IsAIInterview = &enabled
			case 2:
				team := teams[rnd.Intn(len(teams))]
				patch.Team = &team
			case 3:
				location := locations[rnd.Intn(len(locations))]
				patch.LocationType = &location
			}
			_ = draft.Apply(patch)
			checkRoundInvariant(t, draft)
		}
	}
}

func TestScheduleDraft(t *testing.T) {
	t.Run("смена этапа выключает AI интервью", func(t *testing.T) {
		draft := NewScheduleDraft("a@x.com")
		require.NoError(t, draft.SetRound(models.RoundInitialScreening))
		require.NoError(t, draft.SetAIInterview(true))
		require.NoError(t, draft.SetRound(models.RoundTechnical1))
		require.False(t, draft.IsAIInterview)
	})
	t.Run("AI интервью только на первичном скрининге", func(t *testing.T) {
		draft := NewScheduleDraft("a@x.com")
		require.NoError(t, draft.SetRound(models.RoundManagerial))
		err := draft.SetAIInterview(true)
		require.True(t, models.IsValidationError(err))
		require.EqualError(t, err, ErrMsgAIRound)
		require.False(t, draft.IsAIInterview)
	})
	t.Run("AI интервью очищает команду и локацию", func(t *testing.T) {
		draft := NewScheduleDraft("a@x.com")
		team, location := "core", models.LocationTypeOnline
		require.NoError(t, draft.Apply(ScheduleDraftPatch{Team: &team, LocationType: &location}))
		round, ai := models.RoundInitialScreening, true
		require.NoError(t, draft.Apply(ScheduleDraftPatch{Round: &round, IsAIInterview: &ai}))
		require.Empty(t, draft.Team)
		require.Empty(t, draft.LocationType)
		require.NoError(t, draft.Validate())
	})
	t.Run("проверка перед отправкой", func(t *testing.T) {
		draft := ScheduleDraft{Round: models.RoundTechnical1}
		require.EqualError(t, draft.Validate(), "Please select interview location type (Online or Offline)")

		draft.LocationType = models.LocationTypeOffline
		require.EqualError(t, draft.Validate(), ErrMsgTeam)

		draft.Team = "core"
		require.NoError(t, draft.Validate())

		require.EqualError(t, ScheduleDraft{}.Validate(), ErrMsgRound)
	})
	t.Run("недопустимая локация", func(t *testing.T) {
		draft := NewScheduleDraft("a@x.com")
		location := models.LocationTypeAIOnline
		require.Error(t, draft.Apply(ScheduleDraftPatch{LocationType: &location}))
	})
}

func TestToForm(t *testing.T) {
	applicant := applicantapimodels.Applicant{Name: "Bob", Email: "b@x.com"}
	org := jobapimodels.Company{Name: "Acme", Email: "hr@acme.io"}

	draft := ScheduleDraft{Round: models.RoundInitialScreening, IsAIInterview: true}
	form := draft.ToForm(applicant, org, "job-1")
	require.Equal(t, InterviewForm{
		ApplicantName:  "Bob",
		ApplicantEmail: "b@x.com",
		Round:          "Initial Screening Round",
		OrgName:        "Acme",
		OrgEmail:       "hr@acme.io",
		JobID:          "job-1",
		LocationType:   models.LocationTypeAIOnline,
		IsAIInterview:  true,
	}, form)

	draft = ScheduleDraft{Round: models.RoundTechnical2, Team: "core", LocationType: models.LocationTypeOnline}
	form = draft.ToForm(applicant, org, "job-1")
	require.Equal(t, models.LocationTypeOnline, form.LocationType)
	require.Equal(t, "core", form.Team)
	require.False(t, form.IsAIInterview)
}
