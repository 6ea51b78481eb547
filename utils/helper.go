package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ttacon/libphonenumber"
)

var CountryCode = "MM"

func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err // Phone number is invalid
	}

	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}

	return nil // Phone number is valid for the specified country code
}

func GenerateUniqueFilename(original string) string {
	ext := ""
	if idx := strings.LastIndex(original, "."); idx >= 0 {
		ext = strings.ToLower(original[idx:])
	}
	return uuid.NewString() + ext
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

// dateFormats covers the formats the legacy data carries; inputs and stored
// strings are parsed with the first matching layout.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
}

func ParseFlexibleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ItemLock serializes writers on one item via Redis.
// Best-effort optimization only: correctness does not depend on Redis, the
// ledger also takes a row lock on the item inside its DB transaction. Returns
// a release func; both the lock and the release are no-ops when Redis is not
// configured.
func ItemLock(ctx context.Context, itemId int, moduleName string, functionName string) (func(), error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return func() {}, nil
	}
	logger := config.GetLogger()
	lockKey := fmt.Sprintf("itemLock:%d", itemId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 50),
	})
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "could not obtain item lock", itemId, err)
		return func() {}, nil
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "error obtaining item lock", itemId, err)
		return func() {}, nil
	}
	return func() { _ = lock.Release(ctx) }, nil
}
