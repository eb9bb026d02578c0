package registration

import (
	"regexp"
	"strings"

	"github.com/asaskevich/govalidator"
)

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	symbolRe  = regexp.MustCompile(`\W`)
	nonDigits = regexp.MustCompile(`\D`)
)

const pinCodeLength = 6

// NormalizePinCode strips non-digit characters and truncates to six digits,
// applied on every pin-code update.
func NormalizePinCode(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) > pinCodeLength {
		digits = digits[:pinCodeLength]
	}
	return digits
}

// ValidatePassword returns the empty string when the password satisfies the
// complexity battery: length ≥ 8 with at least one uppercase letter, one
// lowercase letter, one digit, and one special character.
func ValidatePassword(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long."
	}
	if !(upperRe.MatchString(password) && lowerRe.MatchString(password) &&
		digitRe.MatchString(password) && symbolRe.MatchString(password)) {
		return "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character."
	}
	return ""
}

// requiredMessages maps field names to their "is required" messages.
var requiredMessages = map[string]string{
	FieldFirstName: "First name is required",
	FieldLastName:  "Last name is required",
	FieldFirmName:  "Firm name is required",
	FieldAddress:   "Address is required",
	FieldState:     "State is required",
	FieldCity:      "City is required",
	FieldPinCode:   "Pin code is required",
	FieldAbout:     "About is required",
	FieldPassword:  "Password is required",
	FieldEmail:     "Email is required",
	FieldMobile:    "Mobile number is required",
}

// Validate runs the client-side battery for one draft against its role
// configuration and returns the field→message map. An empty map means the
// draft may proceed to the OTP gate.
func Validate(d *Draft, rc RoleConfig) map[string]string {
	errs := make(map[string]string)

	for _, field := range rc.Required {
		if strings.TrimSpace(d.Fields[field]) == "" {
			msg, ok := requiredMessages[field]
			if !ok {
				msg = "This field is required"
			}
			errs[field] = msg
		}
	}

	if email := d.Fields[FieldEmail]; email != "" && !govalidator.IsEmail(email) {
		errs[FieldEmail] = "Enter a valid email address"
	}

	if password := d.Fields[FieldPassword]; password != "" {
		if msg := ValidatePassword(password); msg != "" {
			errs[FieldPassword] = msg
		}
		if d.Fields[FieldConfirmPassword] != password {
			errs[FieldConfirmPassword] = "Passwords do not match"
		}
	}

	if pin := d.Fields[FieldPinCode]; pin != "" && len(pin) != pinCodeLength {
		errs[FieldPinCode] = "Pin code must be 6 digits"
	}

	if rc.Practice && d.PrimaryArea == 0 {
		errs[FieldPrimaryArea] = "Primary area of practice is required"
	}

	if rc.Courts && strings.TrimSpace(d.Fields[FieldCourt]) == "" {
		errs[FieldCourt] = "Please select a court"
	}

	if rc.Experience &&
		strings.TrimSpace(d.Fields[FieldYearsOfPractice]) == "" &&
		strings.TrimSpace(d.Fields[FieldMonthsOfPractic]) == "" {
		errs[FieldYearsOfPractice] = "Years or months of practice is required"
	}

	return errs
}
