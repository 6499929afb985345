package sessionapimodels

import (
	interviewapimodels "hr-pipeline/models/api/interview"
	offerapimodels "hr-pipeline/models/api/offer"
	reviewapimodels "hr-pipeline/models/api/review"
)

// DraftView открытая форма сессии, заполнено не больше одного из schedule/offer/review
type DraftView struct {
	Kind           string                               `json:"kind"`               // schedule/offer/review, пусто - форм нет
	ApplicantEmail string                               `json:"applicant_email"`    // Кандидат
	Schedule       *interviewapimodels.ScheduleFormView `json:"schedule,omitempty"` // Приглашение на интервью
	Offer          *offerapimodels.OfferDraft           `json:"offer,omitempty"`    // Оффер
	Review         *reviewapimodels.ReviewDraft         `json:"review,omitempty"`   // Запрос на ревью
}
