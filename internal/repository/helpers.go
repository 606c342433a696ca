package repository

import (
	"strings"

	"gorm.io/gorm"
)

// exists reports whether a row with the given primary key is present.
func exists(tx *gorm.DB, model any, id uint64) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// allExist reports whether every id in ids names a row of model.
// ids must not contain duplicates.
func allExist(tx *gorm.DB, model any, ids []uint64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var count int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return false, err
	}
	return int(count) == len(ids), nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike lowercases s and escapes LIKE wildcards for an ESCAPE '!' clause.
func escapeLike(s string) string {
	return likeEscaper.Replace(strings.ToLower(s))
}
