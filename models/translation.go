package models

import "time"

type Translation struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Key           string    `json:"key" gorm:"unique"`
	Russian       string    `json:"ru"`
	English       string    `json:"en"`
	Kazakh        string    `json:"kz"`
	LastUpdatedAt time.Time `json:"last_updated_at" gorm:"autoUpdateTime"`
}

// Text returns the translation for lang, falling back to English.
func (t Translation) Text(lang string) string {
	switch lang {
	case "ru":
		if t.Russian != "" {
			return t.Russian
		}
	case "kz":
		if t.Kazakh != "" {
			return t.Kazakh
		}
	}
	return t.English
}
