// Package validation проверки внешних идентификаторов
package validation

import (
	"fmt"
	"regexp"
)

// IdentifierPattern определяет допустимый формат user/device/attachment id.
// Латинские буквы, цифры и . _ : -, без пробелов и слэшей, так как id попадает в URL.
var IdentifierPattern = regexp.MustCompile(`^[a-zA-Z0-9._:-]+$`)

// MaxIdentifierLen максимальная длина идентификатора
const MaxIdentifierLen = 128

// ValidateIdentifier проверяет id; kind используется в тексте ошибки ("user id", "device id")
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}

	if len(id) > MaxIdentifierLen {
		return fmt.Errorf("%s must not exceed %d characters", kind, MaxIdentifierLen)
	}

	if !IdentifierPattern.MatchString(id) {
		return fmt.Errorf("%s can only contain letters, numbers and . _ : -", kind)
	}

	return nil
}
