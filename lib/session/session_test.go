package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	connectionhub "hr-pipeline/lib/ws/connection-hub"
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
	interviewapimodels "hr-pipeline/models/api/interview"
	jobapimodels "hr-pipeline/models/api/job"
	offerapimodels "hr-pipeline/models/api/offer"
	sessionapimodels "hr-pipeline/models/api/session"
	wsmodels "hr-pipeline/models/ws"
)

func newTestSession() *Session {
	return New("s1", "Anna", jobapimodels.Company{Name: "Acme", Email: "hr@acme.io"}, "access", "refresh")
}

func TestActiveDraftUnion(t *testing.T) {
	sess := newTestSession()
	require.Equal(t, DraftNone, sess.ActiveDraft().Kind)

	sess.OpenDraft(DraftSchedule, "a@x.com")
	_, err := sess.UpdateSchedule(func(d *interviewapimodels.ScheduleDraft) error {
		d.Team = "core"
		return nil
	})
	require.NoError(t, err)

	sess.OpenDraft(DraftOffer, "b@x.com")
	require.Equal(t, ActiveDraft{Kind: DraftOffer, ApplicantEmail: "b@x.com"}, sess.ActiveDraft())
	_, ok := sess.ScheduleDraft()
	require.False(t, ok, "черновик приглашения должен закрыться")

	_, err = sess.UpdateSchedule(func(d *interviewapimodels.ScheduleDraft) error { return nil })
	require.ErrorIs(t, err, models.ErrDraftNotOpen)

	sess.OpenDraft(DraftSchedule, "a@x.com")
	draft, ok := sess.ScheduleDraft()
	require.True(t, ok)
	require.Empty(t, draft.Team, "повторное открытие сбрасывает поля")

	require.False(t, sess.CloseDraft(DraftReview))
	require.False(t, sess.CloseDraftFor(DraftSchedule, "other@x.com"))
	require.True(t, sess.CloseDraftFor(DraftSchedule, "A@x.com"))
	require.Equal(t, DraftNone, sess.ActiveDraft().Kind)
}

func TestUpdateOfferKeepsDraftOnError(t *testing.T) {
	sess := newTestSession()
	sess.OpenDraft(DraftOffer, "a@x.com")
	_, err := sess.UpdateOffer(func(d *offerapimodels.OfferDraft) error {
		d.SetFile("offer.pdf", "application/pdf", []byte("pdf"))
		return nil
	})
	require.NoError(t, err)

	_, err = sess.UpdateOffer(func(d *offerapimodels.OfferDraft) error {
		d.ClearFile()
		return models.NewValidationError("boom")
	})
	require.Error(t, err)
	draft, ok := sess.OfferDraft()
	require.True(t, ok)
	require.True(t, draft.HasFile())
}

func TestFetchTags(t *testing.T) {
	list1 := []applicantapimodels.Applicant{{Email: "a@x.com"}}
	list2 := []applicantapimodels.Applicant{{Email: "b@x.com"}}

	t.Run("ответ для прошлой вакансии отбрасывается", func(t *testing.T) {
		sess := newTestSession()
		tag1 := sess.SelectJob("job-1")
		tag2 := sess.SelectJob("job-2")
		require.True(t, sess.ApplyApplicants(tag2, list2))
		require.False(t, sess.ApplyApplicants(tag1, list1))
		list, errMsg := sess.Applicants()
		require.Empty(t, errMsg)
		require.Equal(t, list2, list)
	})
	t.Run("смена вакансии очищает список и формы", func(t *testing.T) {
		sess := newTestSession()
		tag := sess.SelectJob("job-1")
		require.True(t, sess.ApplyApplicants(tag, list1))
		sess.OpenDraft(DraftReview, "a@x.com")
		sess.SelectJob("job-2")
		list, _ := sess.Applicants()
		require.Empty(t, list)
		require.Equal(t, DraftNone, sess.ActiveDraft().Kind)
	})
	t.Run("в пределах вакансии побеждает последний ответ", func(t *testing.T) {
		sess := newTestSession()
		sess.SelectJob("job-1")
		first := sess.BeginFetch("job-1")
		second := sess.BeginFetch("job-1")
		require.True(t, sess.ApplyApplicants(second, list2))
		require.True(t, sess.ApplyApplicants(first, list1))
		list, _ := sess.Applicants()
		require.Equal(t, list1, list)
	})
	t.Run("ошибка загрузки оставляет пустой список", func(t *testing.T) {
		sess := newTestSession()
		tag := sess.SelectJob("job-1")
		require.True(t, sess.ApplyApplicants(tag, list1))
		require.True(t, sess.FailApplicants(sess.BeginFetch("job-1"), "boom"))
		list, errMsg := sess.Applicants()
		require.Empty(t, list)
		require.Equal(t, "boom", errMsg)
	})
}

func TestRevoke(t *testing.T) {
	sess := newTestSession()
	calls := 0
	sess.OnExpire(func(s *Session) {
		calls++
		require.True(t, s.IsExpired())
	})
	tag := sess.SelectJob("job-1")
	sess.OpenDraft(DraftOffer, "a@x.com")

	sess.Revoke()
	sess.Revoke()
	require.Equal(t, 1, calls)
	require.Empty(t, sess.AccessToken())
	require.Empty(t, sess.SelectedJobID())
	require.Equal(t, DraftNone, sess.ActiveDraft().Kind)
	require.False(t, sess.ApplyApplicants(tag, nil))

	sess.SetTokens("new", "new")
	require.Empty(t, sess.AccessToken(), "после выхода токены не восстанавливаются")
}

func TestRegistry(t *testing.T) {
	var expired, released []string
	registry := NewRegistry(func(sess *Session) {
		expired = append(expired, sess.ID())
	}, func(sessionID string) {
		released = append(released, sessionID)
	})
	sess := registry.Create(sessionapimodels.LoginRequest{
		UserName:     "Anna",
		OrgName:      "Acme",
		OrgEmail:     "hr@acme.io",
		AccessToken:  "access",
		RefreshToken: "refresh",
	})
	require.NotEmpty(t, sess.ID())
	require.Equal(t, "hr@acme.io", sess.Org().Email)

	got, ok := registry.Get(sess.ID())
	require.True(t, ok)
	require.Same(t, sess, got)

	sess.Revoke()
	_, ok = registry.Get(sess.ID())
	require.False(t, ok)
	require.Equal(t, []string{sess.ID()}, expired)
	require.Empty(t, released, "при принудительном выходе ресурсы освобождает onExpire")

	idle := registry.Create(sessionapimodels.LoginRequest{OrgEmail: "hr@acme.io", AccessToken: "a"})
	require.Equal(t, 0, registry.CleanupIdle(time.Hour))
	require.Equal(t, 1, registry.CleanupIdle(-time.Second))
	_, ok = registry.Get(idle.ID())
	require.False(t, ok)
	require.Equal(t, []string{idle.ID()}, released)

	other := registry.Create(sessionapimodels.LoginRequest{OrgEmail: "hr@acme.io", AccessToken: "a"})
	registry.Delete(other.ID())
	require.Equal(t, []string{idle.ID(), other.ID()}, released)
}

func TestCleanupIdleReleasesHub(t *testing.T) {
	hub := connectionhub.NewHub()
	registry := NewRegistry(nil, hub.SendClose)
	sess := registry.Create(sessionapimodels.LoginRequest{OrgEmail: "hr@acme.io", AccessToken: "a"})
	for n := 0; n < 60; n++ {
		hub.SendMessage(wsmodels.ServerMessage{ToSessionID: sess.ID(), Code: string(wsmodels.CodeInfo), Msg: "info"})
	}
	require.NotEmpty(t, hub.Pending(sess.ID()))

	require.Equal(t, 1, registry.CleanupIdle(-time.Second))
	require.Empty(t, hub.Pending(sess.ID()))
}

func TestFindApplicantByEmail(t *testing.T) {
	sess := newTestSession()
	tag := sess.SelectJob("job-1")
	require.True(t, sess.ApplyApplicants(tag, []applicantapimodels.Applicant{{Name: "Bob", Email: "Bob@X.com"}}))

	item, ok := sess.FindApplicant("  bob@x.COM ")
	require.True(t, ok)
	require.Equal(t, "Bob", item.Name)

	sess.OpenDraft(DraftOffer, item.Email)
	require.True(t, sess.ActiveDraft().IsOpen(DraftOffer, " bob@x.com"))
}
