package config

import (
	"fmt"
	"time"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// WorksheetDocumentKey returns the cache key for a rendered document of a
// user's worksheet record, e.g. user:<id>:worksheet:<record>:answer_key:pdf.
func (r *CacheKeyStruct) WorksheetDocumentKey(userID int, recordID, kind, format string) string {
	return fmt.Sprintf("user:%d:worksheet:%s:%s:%s", userID, recordID, kind, format)
}

// WorksheetSequenceKey returns the per-user, per-day worksheet counter key.
func (r *CacheKeyStruct) WorksheetSequenceKey(userID int, day time.Time) string {
	return fmt.Sprintf("user:%d:worksheets:%s:seq", userID, day.Format(time.DateOnly))
}

// RevokedTokenKey returns the key marking a logged-out token ID.
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("revoked_token:%s", jti)
}

var CacheKey = NewCacheKeyStruct()
