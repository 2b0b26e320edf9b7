package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres hata kodu: unique_violation
const uniqueViolationCode = "23505"

// IsUniqueViolation: Hata bir unique constraint ihlali mi?
// Handler'lar bunu 409'a çevirir.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return false
}
