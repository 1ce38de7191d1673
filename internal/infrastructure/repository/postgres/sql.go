package postgres

import (
	"database/sql"
	"errors"
	"strings"
)

// upsertChunkSize keeps multi-row inserts well below the bind parameter limit.
const upsertChunkSize = 500

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func nullIntToPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func ptrToNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullBoolToPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	out := v.Bool
	return &out
}

func ptrToNullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func chunkRange(total, size int, fn func(start, end int) error) error {
	for start := 0; start < total; start += size {
		end := min(start+size, total)
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}
