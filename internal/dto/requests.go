package dto

// PeriodQuery is the query string of the accounting period endpoint. Dates
// are YYYY-MM-DD; date_to is exclusive.
type PeriodQuery struct {
	DateFrom string `form:"date_from" binding:"required"`
	DateTo   string `form:"date_to" binding:"required"`
}
