package specification

import "gorm.io/gorm"

// Specification narrows a repository query. Specs are applied in the order
// they are passed, so OrderBy and Pagination go last.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
