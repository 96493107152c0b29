package models

import "time"

// Master levels, assigned by moderation.
const (
	LevelCandidate = "candidate"
	LevelChecked   = "checked"
	LevelVerified  = "verified"
)

// Skill tiers, derived from completed order count.
const (
	SkillTierNovice       = "novice"
	SkillTierMaster       = "master"
	SkillTierProfessional = "professional"
)

// Master represents a registered service master.
type Master struct {
	ID              int64      `bson:"id" json:"id"`                             // Sequential display identifier
	TelegramID      int64      `bson:"telegram_id" json:"telegram_id"`           // Telegram user the profile belongs to
	FullName        string     `bson:"full_name" json:"full_name"`
	Phone           string     `bson:"phone" json:"phone"`                       // Canonical +7XXXXXXXXXX
	TaxID           string     `bson:"tax_id" json:"tax_id"`                     // 10 or 12 digits
	SelfEmployed    bool       `bson:"self_employed" json:"self_employed"`       // Declared self-employed / sole proprietor status
	ExpBucket       string     `bson:"exp_bucket" json:"exp_bucket"`
	Portfolio       string     `bson:"portfolio" json:"portfolio"`
	Categories      []string   `bson:"categories" json:"categories"`             // 1..2 picks at registration
	Level           string     `bson:"level" json:"level"`                       // candidate / checked / verified
	Verified        bool       `bson:"verified" json:"verified"`
	IsActive        bool       `bson:"is_active" json:"is_active"`               // Inactive masters never receive offers
	SubUntil        *time.Time `bson:"sub_until,omitempty" json:"sub_until,omitempty"`
	PriorityUntil   *time.Time `bson:"priority_until,omitempty" json:"priority_until,omitempty"`
	PinUntil        *time.Time `bson:"pin_until,omitempty" json:"pin_until,omitempty"`
	FreeOrdersLeft  int        `bson:"free_orders_left" json:"free_orders_left"` // Trial claims remaining
	OrdersCompleted int        `bson:"orders_completed" json:"orders_completed"`
	SkillTier       string     `bson:"skill_tier" json:"skill_tier"`
	AvgRating       float64    `bson:"avg_rating" json:"avg_rating"`             // Mean of review ratings, 1 decimal
	ReviewsCount    int        `bson:"reviews_count" json:"reviews_count"`

	// Sensitive document references, purged by the reconciliation sweep.
	PassportScanFileID string `bson:"passport_scan_file_id,omitempty" json:"passport_scan_file_id,omitempty"`
	FacePhotoFileID    string `bson:"face_photo_file_id,omitempty" json:"face_photo_file_id,omitempty"`
	TaxDocFileID       string `bson:"tax_doc_file_id,omitempty" json:"tax_doc_file_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SubActive reports whether the subscription entitlement is active:
// the timestamp must be present and strictly in the future.
func (m *Master) SubActive(now time.Time) bool {
	return m.SubUntil != nil && m.SubUntil.After(now)
}

// PriorityActive reports whether the priority entitlement is active.
func (m *Master) PriorityActive(now time.Time) bool {
	return m.PriorityUntil != nil && m.PriorityUntil.After(now)
}

// PinActive reports whether the pin entitlement is active.
func (m *Master) PinActive(now time.Time) bool {
	return m.PinUntil != nil && m.PinUntil.After(now)
}

// LevelRank orders levels for broadcast ranking: verified > checked > candidate.
func (m *Master) LevelRank() int {
	switch m.Level {
	case LevelVerified:
		return 2
	case LevelChecked:
		return 1
	default:
		return 0
	}
}

// HasDocuments reports whether any sensitive document reference is still stored.
func (m *Master) HasDocuments() bool {
	return m.PassportScanFileID != "" || m.FacePhotoFileID != "" || m.TaxDocFileID != ""
}

// SkillTierFor derives the skill tier from a completed order count.
func SkillTierFor(ordersCompleted int) string {
	switch {
	case ordersCompleted < 20:
		return SkillTierNovice
	case ordersCompleted < 50:
		return SkillTierMaster
	default:
		return SkillTierProfessional
	}
}
