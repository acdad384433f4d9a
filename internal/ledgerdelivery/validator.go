package ledgerdelivery

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountcode"
	"github.com/go-petr/pet-ledger/internal/domain"
)

// plainDecimal matches decimals written without an exponent.
var plainDecimal = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

const maxDecimalLen = 64

// parseBoundedDecimal parses s when it is a plain decimal that fits the stored
// amount precision.
func parseBoundedDecimal(s string) (decimal.Decimal, bool) {
	if len(s) > maxDecimalLen || !plainDecimal.MatchString(s) {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !domain.AmountInRange(d) {
		return decimal.Decimal{}, false
	}

	return d, true
}

// ValidDecimal validates whether the field is a plain decimal number within the
// stored amount precision.
var ValidDecimal validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	_, ok = parseBoundedDecimal(s)

	return ok
}

// ValidAmount validates whether the field is a non-negative ValidDecimal.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	d, ok := parseBoundedDecimal(s)

	return ok && !d.IsNegative()
}

// ValidAccountCode validates whether the field is a hierarchical account code.
var ValidAccountCode validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := accountcode.Parse(s)

	return err == nil
}

// RegisterValidators registers the ledger validation tags and reports fields by
// their request names.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}

			if name != "" {
				return name
			}
		}

		return f.Name
	})

	validators := map[string]validator.Func{
		"decimal":     ValidDecimal,
		"amount":      ValidAmount,
		"accountcode": ValidAccountCode,
	}

	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}

	return nil
}
