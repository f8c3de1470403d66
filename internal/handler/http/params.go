package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/validator"
)

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

// getDateQueryParam parses a required YYYY-MM-DD query parameter
func getDateQueryParam(r *http.Request, key string) (time.Time, error) {
	val := r.URL.Query().Get(key)
	date, ok := validator.IsValidDate(val)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{Field: key, Message: key + " must be YYYY-MM-DD"}}
	}
	return date, nil
}

var errInvalidBody = errors.New("invalid request body")

const forbiddenOtherEmployee = "Access to another employee's records is not allowed"
