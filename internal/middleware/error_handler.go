package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/commission-allocation-engine/internal/commission"
	"github.com/anyulbade/commission-allocation-engine/internal/rates"
	"github.com/anyulbade/commission-allocation-engine/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MapError maps repository, engine and service errors to an HTTP status and body.
func MapError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound, ErrorResponse{Error: "resource not found"}
	case errors.Is(err, service.ErrTransactionNotPaid):
		return http.StatusConflict, ErrorResponse{Error: "transaction is not paid", Details: err.Error()}
	case errors.Is(err, commission.ErrReconciliation):
		// already logged with the full breakdown by the service
		return http.StatusInternalServerError, ErrorResponse{Error: "breakdown failed reconciliation"}
	case errors.Is(err, commission.ErrInvalidAmount),
		errors.Is(err, commission.ErrInvalidRate),
		errors.Is(err, commission.ErrUnsupportedCurrency),
		errors.Is(err, rates.ErrNoVersion):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: "transaction cannot be decomposed", Details: err.Error()}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "57014": // query_canceled
			return http.StatusServiceUnavailable, ErrorResponse{Error: "query timed out"}
		case "53300": // too_many_connections
			return http.StatusServiceUnavailable, ErrorResponse{Error: "database busy"}
		case "42P01": // undefined_table
			log.Error().Err(err).Msg("schema missing, run migrations")
			return http.StatusServiceUnavailable, ErrorResponse{Error: "database not initialised"}
		}
	}

	log.Error().Err(err).Msg("unhandled error")
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			status, resp := MapError(c.Errors.Last().Err)
			c.JSON(status, resp)
		}
	}
}
