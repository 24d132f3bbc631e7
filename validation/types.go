package validation

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TypeChecker returns true if the given value is valid for a field kind.
type TypeChecker func(value string) bool

var (
	emailRegex = regexp.MustCompile(`^[^@\r\n\t]{1,64}@[^\s]+$`)
	alphaRegex = regexp.MustCompile(`^[\pL\pM]+$`)
	digitRegex = regexp.MustCompile(`^[0-9]+$`)
	intRegex   = regexp.MustCompile(`^[+-]?[0-9]+$`)
)

// DateFormats the layouts accepted by the date type check, tried in order.
var DateFormats = []string{
	time.DateOnly,
	"02/01/2006",
	time.RFC3339,
	time.DateTime,
}

var typeCheckers = map[Kind]TypeChecker{
	KindInt:   checkInt,
	KindFloat: checkFloat,
	KindEmail: emailRegex.MatchString,
	KindURL:   checkURL,
	KindUUID:  checkUUID,
	KindIP:    checkIP,
	KindDate:  checkDate,
	KindAlpha: alphaRegex.MatchString,
	KindDigit: digitRegex.MatchString,
}

// RegisterTypeChecker sets the type check of the given kind.
// Not safe for concurrent use: register checkers at startup.
func RegisterTypeChecker(kind Kind, checker TypeChecker) {
	typeCheckers[kind] = checker
}

func checkInt(value string) bool {
	if !intRegex.MatchString(value) {
		return false
	}
	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}

func checkFloat(value string) bool {
	_, ok := ParseNumber(value)
	return ok
}

func checkURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	return err == nil && u.Scheme != ""
}

func checkUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func checkIP(value string) bool {
	return net.ParseIP(value) != nil
}

func checkDate(value string) bool {
	for _, layout := range DateFormats {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
