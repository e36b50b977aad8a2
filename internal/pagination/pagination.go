// Package pagination bounds list queries by a caller-supplied limit.
package pagination

import "gorm.io/gorm"

// MaxLimit caps any single list response.
const MaxLimit = 500

// LimitRequest holds the limit query parameter.
type LimitRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// Defaults fills in def when no limit was provided and clamps to MaxLimit.
func (r *LimitRequest) Defaults(def int) {
	if r.Limit <= 0 {
		r.Limit = def
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
}

// Limit returns a GORM scope that applies the request's LIMIT.
func Limit(req LimitRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(req.Limit)
	}
}

// Newest orders by creation time, most recent first, with the time-ordered id
// as tiebreak so results are stable within a response.
func Newest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}
