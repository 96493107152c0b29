package models

// Service categories offered to clients when posting a request.
var ClientCategories = []string{
	"Ремонт",
	"Уборка",
	"Переезд",
	"Красота",
	"Персонал",
}

// MasterCategories is the registration pick list (clients' set plus a
// catch-all). A master picks one or two.
var MasterCategories = []string{
	"Ремонт",
	"Уборка",
	"Переезд",
	"Красота",
	"Персонал",
	"Другое",
}

// ExperienceBuckets for master registration.
var ExperienceBuckets = []string{
	"до 1 года",
	"1–3 года",
	"3–5 лет",
	"5–10 лет",
	"более 10 лет",
}

// MaxMasterCategories caps the registration picks.
const MaxMasterCategories = 2

// IsMasterCategory reports whether s is one of the registration picks.
func IsMasterCategory(s string) bool {
	for _, c := range MasterCategories {
		if c == s {
			return true
		}
	}
	return false
}

// IsClientCategory reports whether s is a client-facing category.
func IsClientCategory(s string) bool {
	for _, c := range ClientCategories {
		if c == s {
			return true
		}
	}
	return false
}

// IsExperienceBucket reports whether s is a known experience bucket.
func IsExperienceBucket(s string) bool {
	for _, b := range ExperienceBuckets {
		if b == s {
			return true
		}
	}
	return false
}
