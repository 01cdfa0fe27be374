package certificate

import (
	"fmt"
	"time"

	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
	util "github.com/saulo-duarte/cyberaware-lambda/internal/utils"
	"github.com/shopspring/decimal"
)

// ValidPerUserIndexSQL keeps at most one valid certificate per user.
// Invalidated rows stay in the table.
const ValidPerUserIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_certificates_user_valid ON certificates (user_id) WHERE valid`

type Certificate struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	CertificateID string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"certificate_id"`
	UserID        uint            `gorm:"not null;index" json:"-"`
	User          *user.User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	QuizSessionID uint            `gorm:"index" json:"-"`
	IssuedDate    time.Time       `gorm:"not null" json:"issued_date"`
	Score         decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"score"`
	Valid         bool            `gorm:"not null;default:true" json:"is_valid"`
	InvalidatedAt *time.Time      `json:"invalidated_at,omitempty"`
}

func (Certificate) TableName() string { return "certificates" }

// FormatID builds CERT-<YYYYMMDD>-<user id padded to 6 digits>, using the
// application timezone for the date.
func FormatID(now time.Time, userID uint) string {
	return fmt.Sprintf("CERT-%s-%06d", now.In(util.Location()).Format("20060102"), userID)
}
