package certificate

import (
	"fmt"

	util "github.com/saulo-duarte/cyberaware-lambda/internal/utils"
)

type Response struct {
	CertificateID  string             `json:"certificate_id"`
	UserName       string             `json:"user_name"`
	UserEmail      string             `json:"user_email"`
	IssuedDate     util.LocalDateTime `json:"issued_date"`
	Score          string             `json:"score"`
	IsValid        bool               `json:"is_valid"`
	CertificateURL string             `json:"certificate_url"`
}

func DownloadURL(certificateID string) string {
	return fmt.Sprintf("/api/certificate/%s/download", certificateID)
}

func ToResponse(c *Certificate) *Response {
	if c == nil {
		return nil
	}
	resp := &Response{
		CertificateID:  c.CertificateID,
		IssuedDate:     util.NewLocalDateTime(c.IssuedDate),
		Score:          c.Score.StringFixed(2),
		IsValid:        c.Valid,
		CertificateURL: DownloadURL(c.CertificateID),
	}
	if c.User != nil {
		resp.UserName = c.User.FullName()
		resp.UserEmail = c.User.Email
	}
	return resp
}
