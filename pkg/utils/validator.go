package utils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// ValidatePositiveAmount validates a money amount is a positive finite number
func ValidatePositiveAmount(field string, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%s must be a finite number", field)
	}
	if amount <= 0 {
		return fmt.Errorf("%s must be positive: %.2f", field, amount)
	}
	return nil
}

// ValidateSquareFeet validates a driveway area
func ValidateSquareFeet(squareFeet float64) error {
	if math.IsNaN(squareFeet) || math.IsInf(squareFeet, 0) {
		return fmt.Errorf("square feet must be a finite number")
	}
	if squareFeet <= 0 {
		return fmt.Errorf("square feet must be positive: %.1f", squareFeet)
	}
	return nil
}

// ValidateWorkWindow validates that a work window ends on or after it starts
func ValidateWorkWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("work window start and end are required")
	}
	if end.Before(start) {
		return fmt.Errorf("work end %s is before work start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}

// ValidateAddress validates a property address is present
func ValidateAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("property address is required")
	}
	return nil
}

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}
