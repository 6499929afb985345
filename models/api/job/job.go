package jobapimodels

import (
	"hr-pipeline/models"
)

type Company struct {
	Name  string `json:"name"`  // Название организации
	Email string `json:"email"` // Почта организации
}

type Job struct {
	JobID     string           `json:"job_id"`    // Идентификатор вакансии
	Role      string           `json:"role"`      // Должность
	Location  string           `json:"location"`  // Место работы
	Company   Company          `json:"company"`   // Организация
	JobStatus models.JobStatus `json:"jobStatus"` // Источник списка (open/ongoing), проставляется при объединении
}

func (j Job) Title() string {
	if j.Location == "" {
		return j.Role
	}
	return j.Role + " (" + j.Location + ")"
}
