package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hr-pipeline/controllers"
	"hr-pipeline/lib/interview"
	"hr-pipeline/lib/session"
	sessionapimodels "hr-pipeline/models/api/session"
)

type draftApiController struct {
	controllers.BaseAPIController
}

func InitDraftRouters(app fiber.Router) {
	controller := draftApiController{}
	app.Get("draft", controller.get)
}

// @Summary Открытая форма
// @Tags Формы
// @Description Текущая открытая форма сессии, не больше одной
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=sessionapimodels.DraftView}
// @Failure 401 {object} apimodels.Response
// @router /api/v1/draft [get]
func (c *draftApiController) get(ctx *fiber.Ctx) error {
	sess := c.GetSession(ctx)
	active := sess.ActiveDraft()
	result := sessionapimodels.DraftView{
		Kind:           string(active.Kind),
		ApplicantEmail: active.ApplicantEmail,
	}
	switch active.Kind {
	case session.DraftSchedule:
		if view, err := interview.Instance.Form(sess); err == nil {
			result.Schedule = &view
		}
	case session.DraftOffer:
		if draft, ok := sess.OfferDraft(); ok {
			result.Offer = &draft
		}
	case session.DraftReview:
		if draft, ok := sess.ReviewDraft(); ok {
			result.Review = &draft
		}
	}
	return c.SendOK(ctx, result)
}
