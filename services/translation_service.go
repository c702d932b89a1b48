package services

import (
	"SafeTube/models"
	"SafeTube/repositories"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
)

type TranslationService struct {
	Repo             repositories.TranslationRepository
	translationCache map[string]map[string]string
	mutex            sync.RWMutex
}

func NewTranslationService(repo repositories.TranslationRepository) *TranslationService {
	return &TranslationService{
		Repo:             repo,
		translationCache: make(map[string]map[string]string),
	}
}

// GetAllTranslations returns key to text for lang. Results are cached per language until
// Invalidate is called.
func (s *TranslationService) GetAllTranslations(lang string) map[string]string {
	s.mutex.RLock()
	if cached, exists := s.translationCache[lang]; exists {
		s.mutex.RUnlock()
		return cached
	}
	s.mutex.RUnlock()

	translations, err := s.Repo.FindAll()
	if err != nil {
		log.Printf("[TRANSLATION] Failed to load translations: %v", err)
		return map[string]string{}
	}

	result := make(map[string]string, len(translations))
	for _, t := range translations {
		result[t.Key] = t.Text(lang)
	}

	s.mutex.Lock()
	s.translationCache[lang] = result
	s.mutex.Unlock()

	return result
}

// Translate returns the translation of key, or key itself when none exists.
func (s *TranslationService) Translate(key, lang string) string {
	if lang == "" || key == "" {
		return key
	}
	if text, ok := s.GetAllTranslations(lang)[key]; ok && text != "" {
		return text
	}
	return key
}

// Import upserts translations and drops the cache. It returns how many rows were written.
func (s *TranslationService) Import(translations []models.Translation) (int, error) {
	written := 0
	for i := range translations {
		translations[i].Key = strings.TrimSpace(translations[i].Key)
		if translations[i].Key == "" {
			continue
		}
		if err := s.Repo.Upsert(&translations[i]); err != nil {
			s.Invalidate()
			return written, Internal("import translation "+translations[i].Key, err)
		}
		written++
	}
	s.Invalidate()
	return written, nil
}

func (s *TranslationService) Invalidate() {
	s.mutex.Lock()
	s.translationCache = make(map[string]map[string]string)
	s.mutex.Unlock()
}

// ParseTranslationsCSV reads rows of key,ru,en,kz after a header line. A numeric key n is
// stored as key_n.
func ParseTranslationsCSV(r io.Reader) ([]models.Translation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var translations []models.Translation
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) < 4 {
			log.Printf("[TRANSLATION] Skipping line %d: expected 4 columns, got %d", line, len(record))
			continue
		}

		key := strings.TrimSpace(record[0])
		if key == "" {
			continue
		}
		if _, err := strconv.ParseUint(key, 10, 32); err == nil {
			key = "key_" + key
		}
		translations = append(translations, models.Translation{
			Key:     key,
			Russian: strings.TrimSpace(record[1]),
			English: strings.TrimSpace(record[2]),
			Kazakh:  strings.TrimSpace(record[3]),
		})
	}
	return translations, nil
}
