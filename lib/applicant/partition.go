package applicant

import (
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
)

// Pipeline кандидаты по вкладкам воронки, порядок внутри вкладки - порядок получения
type Pipeline map[models.PipelineBucket][]applicantapimodels.Applicant

// Partition раскладывает кандидатов по вкладкам. Каждый кандидат попадает ровно в одну вкладку
func Partition(list []applicantapimodels.Applicant) Pipeline {
	result := make(Pipeline, len(models.PipelineBuckets))
	for _, bucket := range models.PipelineBuckets {
		result[bucket] = []applicantapimodels.Applicant{}
	}
	for _, item := range list {
		bucket := item.Status.Bucket()
		result[bucket] = append(result[bucket], item)
	}
	return result
}

func (p Pipeline) Total() int {
	total := 0
	for _, list := range p {
		total += len(list)
	}
	return total
}
