package offerapimodels

import (
	"path/filepath"
	"strings"
)

const (
	ErrMsgFile = "Please select an offer letter file"
)

// AcceptedExtensions подсказка для выбора файла, на сервере не проверяется
var AcceptedExtensions = []string{".pdf", ".doc", ".docx"}

type OfferDraft struct {
	ApplicantEmail string `json:"applicant_email"`        // Кандидат, для которого открыта форма
	FileName       string `json:"file_name,omitempty"`    // Имя выбранного файла
	ContentType    string `json:"content_type,omitempty"` // Тип файла
	FileSize       int    `json:"file_size"`              // Размер файла
	Sending        bool   `json:"sending"`                // Идет отправка
	Error          string `json:"error,omitempty"`        // Ошибка формы
	FileBody       []byte `json:"-"`
}

func NewOfferDraft(email string) OfferDraft {
	return OfferDraft{ApplicantEmail: email}
}

func (d OfferDraft) HasFile() bool {
	return len(d.FileBody) != 0
}

func (d *OfferDraft) SetFile(fileName, contentType string, body []byte) {
	d.FileName = fileName
	d.ContentType = contentType
	d.FileBody = body
	d.FileSize = len(body)
	d.Error = ""
}

func (d *OfferDraft) ClearFile() {
	d.SetFile("", "", nil)
}

func IsAcceptedFile(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, item := range AcceptedExtensions {
		if item == ext {
			return true
		}
	}
	return false
}

// OfferLetterRequest поля multipart запроса отправки оффера
type OfferLetterRequest struct {
	ApplicantEmail string
	ApplicantName  string
	OrgEmail       string
	OrgName        string
	JobID          string
	FileName       string
	ContentType    string
	FileBody       []byte
}

// OfferLetterData данные шаблона письма-оффера
type OfferLetterData struct {
	CompanyName   string
	CompanyEmail  string
	ApplicantName string
	Role          string
	Location      string
	Date          string
}
