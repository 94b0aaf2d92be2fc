package specification

import (
	"strings"

	"gorm.io/gorm"
)

// ByPatientNameExact matches the full name, ignoring case.
type ByPatientNameExact struct {
	Name string
}

func (s ByPatientNameExact) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(patient_name) = LOWER(?)", strings.TrimSpace(s.Name))
}

// ByPatientNameContains matches any patient whose name contains Name, ignoring case.
type ByPatientNameContains struct {
	Name string
}

func (s ByPatientNameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("patient_name ILIKE ?", "%"+escapeLike(strings.TrimSpace(s.Name))+"%")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
