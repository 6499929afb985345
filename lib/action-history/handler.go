package actionhistoryhandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	actionhistorystore "hr-pipeline/lib/action-history/store"
	applicantapimodels "hr-pipeline/models/api/applicant"
	jobapimodels "hr-pipeline/models/api/job"
	dbmodels "hr-pipeline/models/db"
)

// Actor сессия рекрутера, выполнившего действие
type Actor interface {
	ID() string
	UserName() string
	Org() jobapimodels.Company
}

type Provider interface {
	Save(actor Actor, jobID, applicantEmail string, action dbmodels.ActionType, outcome dbmodels.ActionOutcome, changes dbmodels.ActionChanges)
	List(actor Actor, applicantEmail string) ([]applicantapimodels.ActionHistoryView, error)
}

var Instance Provider

const listLimit = 100

func NewHandler(store actionhistorystore.Provider) {
	Instance = NewInstance(store)
}

func NewInstance(store actionhistorystore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store actionhistorystore.Provider
}

func (i impl) Save(actor Actor, jobID, applicantEmail string, action dbmodels.ActionType, outcome dbmodels.ActionOutcome, changes dbmodels.ActionChanges) {
	logger := log.WithField("session_id", actor.ID()).
		WithField("job_id", jobID).
		WithField("applicant_email", applicantEmail).
		WithField("action", action).
		WithField("outcome", outcome)
	rec := dbmodels.ActionHistory{
		BaseSessionModel: dbmodels.BaseSessionModel{
			SessionID: actor.ID(),
			OrgEmail:  actor.Org().Email,
		},
		JobID:          jobID,
		ApplicantEmail: applicantEmail,
		UserName:       actor.UserName(),
		ActionType:     action,
		Outcome:        outcome,
		Changes:        changes,
	}
	_, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения истории действий по кандидату")
		return
	}
	logger.Debug("действие сохранено в историю")
}

func (i impl) List(actor Actor, applicantEmail string) ([]applicantapimodels.ActionHistoryView, error) {
	list, err := i.store.List(actor.Org().Email, applicantEmail, listLimit)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения истории")
	}
	result := make([]applicantapimodels.ActionHistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, applicantapimodels.Convert(rec))
	}
	return result, nil
}

// Outcome результат действия по ошибке
func Outcome(err error) dbmodels.ActionOutcome {
	if err != nil {
		return dbmodels.ActionOutcomeFail
	}
	return dbmodels.ActionOutcomeSuccess
}
