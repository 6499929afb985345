package session

import (
	"sync"
	"time"

	"hr-pipeline/lib/utils/helpers"
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
	interviewapimodels "hr-pipeline/models/api/interview"
	jobapimodels "hr-pipeline/models/api/job"
	offerapimodels "hr-pipeline/models/api/offer"
	reviewapimodels "hr-pipeline/models/api/review"
)

type DraftKind string

const (
	DraftNone     DraftKind = ""
	DraftSchedule DraftKind = "schedule"
	DraftOffer    DraftKind = "offer"
	DraftReview   DraftKind = "review"
)

// ActiveDraft открытая форма сессии. Одновременно открыта не больше одной
type ActiveDraft struct {
	Kind           DraftKind `json:"kind"`            // schedule/offer/review, пусто - ничего не открыто
	ApplicantEmail string    `json:"applicant_email"` // Кандидат
}

func (d ActiveDraft) IsOpen(kind DraftKind, email string) bool {
	return d.Kind == kind && d.Kind != DraftNone && helpers.NormalizeEmail(d.ApplicantEmail) == helpers.NormalizeEmail(email)
}

// FetchTag метка запроса списка кандидатов, ответ с чужой меткой отбрасывается
type FetchTag struct {
	JobID      string
	Generation uint64
}

// Session состояние рабочего места рекрутера, живет до выхода или истечения токена
type Session struct {
	mu sync.RWMutex

	id        string
	userName  string
	org       jobapimodels.Company
	createdAt time.Time
	lastSeen  time.Time

	accessToken  string
	refreshToken string
	expired      bool
	onExpire     func(sess *Session)

	jobs          []jobapimodels.Job
	selectedJobID string
	generation    uint64
	applicants    []applicantapimodels.Applicant
	applicantsErr string

	active       ActiveDraft
	schedule     interviewapimodels.ScheduleDraft
	teams        []interviewapimodels.Team
	teamsLoading bool
	offer        offerapimodels.OfferDraft
	review       reviewapimodels.ReviewDraft
}

func New(id, userName string, org jobapimodels.Company, accessToken, refreshToken string) *Session {
	now := time.Now()
	return &Session{
		id:           id,
		userName:     userName,
		org:          org,
		createdAt:    now,
		lastSeen:     now,
		accessToken:  accessToken,
		refreshToken: refreshToken,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) UserName() string {
	return s.userName
}

func (s *Session) Org() jobapimodels.Company {
	return s.org
}

func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// OnExpire обработчик принудительного выхода, вызывается один раз
func (s *Session) OnExpire(handler func(sess *Session)) {
	s.mu.Lock()
	s.onExpire = handler
	s.mu.Unlock()
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

func (s *Session) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired {
		return
	}
	s.accessToken = accessToken
	if refreshToken != "" {
		s.refreshToken = refreshToken
	}
}

func (s *Session) IsExpired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expired
}

// Revoke принудительный выход: токены и все локальное состояние очищаются
func (s *Session) Revoke() {
	s.mu.Lock()
	if s.expired {
		s.mu.Unlock()
		return
	}
	s.expired = true
	s.accessToken = ""
	s.refreshToken = ""
	s.jobs = nil
	s.selectedJobID = ""
	s.generation++
	s.applicants = nil
	s.applicantsErr = ""
	s.resetDrafts()
	handler := s.onExpire
	s.mu.Unlock()

	if handler != nil {
		handler(s)
	}
}

func (s *Session) SetJobs(jobs []jobapimodels.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = jobs
}

func (s *Session) Jobs() []jobapimodels.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]jobapimodels.Job(nil), s.jobs...)
}

func (s *Session) FindJob(jobID string) (jobapimodels.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		if job.JobID == jobID {
			return job, true
		}
	}
	return jobapimodels.Job{}, false
}

// SelectJob смена вакансии: данные прошлой вакансии и открытые формы сбрасываются,
// запросы, отправленные до смены, становятся устаревшими
func (s *Session) SelectJob(jobID string) FetchTag {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedJobID != jobID {
		s.applicants = nil
		s.applicantsErr = ""
		s.resetDrafts()
	}
	s.selectedJobID = jobID
	s.generation++
	return FetchTag{JobID: jobID, Generation: s.generation}
}

func (s *Session) SelectedJobID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedJobID
}

// BeginFetch метка для повторной загрузки. Для невыбранной вакансии метка заведомо устаревшая
func (s *Session) BeginFetch(jobID string) FetchTag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FetchTag{JobID: jobID, Generation: s.generation}
}

func (s *Session) isCurrent(tag FetchTag) bool {
	return tag.JobID == s.selectedJobID && tag.Generation == s.generation && !s.expired
}

// ApplyApplicants полная замена списка кандидатов. false - ответ устарел и отброшен
func (s *Session) ApplyApplicants(tag FetchTag, applicants []applicantapimodels.Applicant) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isCurrent(tag) {
		return false
	}
	if applicants == nil {
		applicants = []applicantapimodels.Applicant{}
	}
	s.applicants = applicants
	s.applicantsErr = ""
	return true
}

// FailApplicants ошибка загрузки: список пуст, текст ошибки показывается пользователю
func (s *Session) FailApplicants(tag FetchTag, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isCurrent(tag) {
		return false
	}
	s.applicants = []applicantapimodels.Applicant{}
	s.applicantsErr = errMsg
	return true
}

func (s *Session) Applicants() (list []applicantapimodels.Applicant, errMsg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]applicantapimodels.Applicant(nil), s.applicants...), s.applicantsErr
}

func (s *Session) FindApplicant(email string) (applicantapimodels.Applicant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := helpers.NormalizeEmail(email)
	for _, item := range s.applicants {
		if helpers.NormalizeEmail(item.Email) == key {
			return item, true
		}
	}
	return applicantapimodels.Applicant{}, false
}

func (s *Session) ActiveDraft() ActiveDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// OpenDraft открывает форму, предыдущая открытая форма любого вида закрывается
func (s *Session) OpenDraft(kind DraftKind, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetDrafts()
	s.active = ActiveDraft{Kind: kind, ApplicantEmail: email}
	switch kind {
	case DraftSchedule:
		s.schedule = interviewapimodels.NewScheduleDraft(email)
		s.teamsLoading = true
	case DraftOffer:
		s.offer = offerapimodels.NewOfferDraft(email)
	case DraftReview:
		s.review = reviewapimodels.NewReviewDraft(email)
	}
}

// CloseDraft закрывает форму, если открыта форма именно этого вида
func (s *Session) CloseDraft(kind DraftKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active.Kind != kind || kind == DraftNone {
		return false
	}
	s.resetDrafts()
	return true
}

// CloseDraftFor закрывает форму, только если она все еще открыта для этого кандидата
func (s *Session) CloseDraftFor(kind DraftKind, email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active.IsOpen(kind, email) {
		return false
	}
	s.resetDrafts()
	return true
}

func (s *Session) resetDrafts() {
	s.active = ActiveDraft{}
	s.schedule = interviewapimodels.ScheduleDraft{}
	s.teams = nil
	s.teamsLoading = false
	s.offer = offerapimodels.OfferDraft{}
	s.review = reviewapimodels.ReviewDraft{}
}

// ScheduleDraft копия черновика приглашения, ok=false если форма не открыта
func (s *Session) ScheduleDraft() (interviewapimodels.ScheduleDraft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active.Kind != DraftSchedule {
		return interviewapimodels.ScheduleDraft{}, false
	}
	return s.schedule, true
}

// UpdateSchedule изменение черновика под блокировкой сессии
func (s *Session) UpdateSchedule(update func(draft *interviewapimodels.ScheduleDraft) error) (interviewapimodels.ScheduleDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active.Kind != DraftSchedule {
		return interviewapimodels.ScheduleDraft{}, models.ErrDraftNotOpen
	}
	draft := s.schedule
	if err := update(&draft); err != nil {
		return s.schedule, err
	}
	s.schedule = draft
	return draft, nil
}

// SetTeams результат асинхронной загрузки команд, применяется только к той же открытой форме
func (s *Session) SetTeams(email string, teams []interviewapimodels.Team) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active.IsOpen(DraftSchedule, email) {
		return false
	}
	if teams == nil {
		teams = []interviewapimodels.Team{}
	}
	s.teams = teams
	s.teamsLoading = false
	return true
}

func (s *Session) Teams() (teams []interviewapimodels.Team, loading bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]interviewapimodels.Team(nil), s.teams...), s.teamsLoading
}

func (s *Session) OfferDraft() (offerapimodels.OfferDraft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active.Kind != DraftOffer {
		return offerapimodels.OfferDraft{}, false
	}
	return s.offer, true
}

func (s *Session) UpdateOffer(update func(draft *offerapimodels.OfferDraft) error) (offerapimodels.OfferDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active.Kind != DraftOffer {
		return offerapimodels.OfferDraft{}, models.ErrDraftNotOpen
	}
	draft := s.offer
	if err := update(&draft); err != nil {
		return s.offer, err
	}
	s.offer = draft
	return draft, nil
}

func (s *Session) ReviewDraft() (reviewapimodels.ReviewDraft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active.Kind != DraftReview {
		return reviewapimodels.ReviewDraft{}, false
	}
	return s.review, true
}

func (s *Session) UpdateReview(update func(draft *reviewapimodels.ReviewDraft) error) (reviewapimodels.ReviewDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active.Kind != DraftReview {
		return reviewapimodels.ReviewDraft{}, models.ErrDraftNotOpen
	}
	draft := s.review
	if err := update(&draft); err != nil {
		return s.review, err
	}
	s.review = draft
	return draft, nil
}
