package transcriptapimodels

type Turn struct {
	Role      string `json:"role"`      // assistant/candidate
	Text      string `json:"text"`      // Реплика
	Timestamp string `json:"timestamp"` // Время реплики
}

type Evaluation struct {
	Score      int    `json:"score"`      // Оценка 0-100
	Suggestion string `json:"suggestion"` // Рекомендация
}

type TranscriptRecord struct {
	FeedbackID string      `json:"feedback_id"`
	Transcript []Turn      `json:"transcript"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

func (r TranscriptRecord) HasEvaluation() bool {
	return r.Evaluation != nil
}
