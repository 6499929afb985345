package applicantapimodels

import (
	dbmodels "hr-pipeline/models/db"
)

type ActionHistoryView struct {
	CreatedAt  string                 `json:"created_at"`  // Дата действия ДД.ММ.ГГГГ ЧЧ:ММ:СС
	JobID      string                 `json:"job_id"`      // Идентификатор вакансии
	UserName   string                 `json:"user_name"`   // Имя рекрутера
	ActionType dbmodels.ActionType    `json:"action_type"` // Тип действия
	Outcome    dbmodels.ActionOutcome `json:"outcome"`     // Результат
	Changes    dbmodels.ActionChanges `json:"changes"`     // Изменения
}

func Convert(rec dbmodels.ActionHistory) ActionHistoryView {
	return ActionHistoryView{
		CreatedAt:  rec.CreatedAt.Format("02.01.2006 15:04:05"),
		JobID:      rec.JobID,
		UserName:   rec.UserName,
		ActionType: rec.ActionType,
		Outcome:    rec.Outcome,
		Changes:    rec.Changes,
	}
}
