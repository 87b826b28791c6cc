package mysql

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/Guyuepp/market-front/domain"
)

// parseID turns a path id into a row id, an id that can't exist is not found
func parseID(id domain.ID) (int64, error) {
	n, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.ErrNotFound
	}
	return n, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
