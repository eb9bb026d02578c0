package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePinCode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"digits pass through", "500081", "500081"},
		{"letters stripped", "50ab0081", "500081"},
		{"truncated to six", "5000811234", "500081"},
		{"spaces and dashes stripped", " 500-081 ", "500081"},
		{"short input kept", "500", "500"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePinCode(tt.raw))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"all classes present", "Abcdefg1!", false},
		{"lowercase only", "abcdefgh", true},
		{"too short", "Short1!", true},
		{"missing symbol", "Abcdefg1", true},
		{"missing digit", "Abcdefgh!", true},
		{"missing uppercase", "abcdefg1!", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func validDraft(role string) *Draft {
	d := NewDraft("draft-1", role, 4, time.Now())
	d.Fields[FieldFirstName] = "Asha"
	d.Fields[FieldLastName] = "Rao"
	d.Fields[FieldFirmName] = "Rao Associates"
	d.Fields[FieldAddress] = "12 MG Road"
	d.Fields[FieldState] = "5"
	d.Fields[FieldCity] = "12"
	d.Fields[FieldPinCode] = "500081"
	d.Fields[FieldAbout] = "Practicing since 2010"
	d.Fields[FieldEmail] = "asha@example.com"
	d.Fields[FieldMobile] = "9876543210"
	d.Fields[FieldPassword] = "Abcdefg1!"
	d.Fields[FieldConfirmPassword] = "Abcdefg1!"
	d.Fields[FieldCourt] = "3"
	d.Fields[FieldYearsOfPractice] = "10"
	d.PrimaryArea = 1
	return d
}

func TestValidateLawyerComplete(t *testing.T) {
	d := validDraft("lawyer")
	errs := Validate(d, RoleConfigs["lawyer"])
	assert.Empty(t, errs)
}

func TestValidateRequiredFields(t *testing.T) {
	d := NewDraft("draft-1", "lawyer", 4, time.Now())
	errs := Validate(d, RoleConfigs["lawyer"])

	assert.Equal(t, "First name is required", errs[FieldFirstName])
	assert.Equal(t, "State is required", errs[FieldState])
	assert.Equal(t, "Primary area of practice is required", errs[FieldPrimaryArea])
	assert.Equal(t, "Please select a court", errs[FieldCourt])
	assert.Equal(t, "Years or months of practice is required", errs[FieldYearsOfPractice])
}

func TestValidateEmailFormat(t *testing.T) {
	d := validDraft("lawyer")
	d.Fields[FieldEmail] = "not-an-email"
	errs := Validate(d, RoleConfigs["lawyer"])
	assert.Equal(t, "Enter a valid email address", errs[FieldEmail])
}

func TestValidateConfirmMismatch(t *testing.T) {
	d := validDraft("lawyer")
	d.Fields[FieldConfirmPassword] = "Different1!"
	errs := Validate(d, RoleConfigs["lawyer"])
	assert.Equal(t, "Passwords do not match", errs[FieldConfirmPassword])
}

func TestValidatePinLength(t *testing.T) {
	d := validDraft("lawyer")
	d.Fields[FieldPinCode] = "500"
	errs := Validate(d, RoleConfigs["lawyer"])
	assert.Equal(t, "Pin code must be 6 digits", errs[FieldPinCode])
}

func TestValidateExperienceEitherFieldSuffices(t *testing.T) {
	d := validDraft("lawyer")
	d.Fields[FieldYearsOfPractice] = ""
	d.Fields[FieldMonthsOfPractic] = "18"
	errs := Validate(d, RoleConfigs["lawyer"])
	assert.NotContains(t, errs, FieldYearsOfPractice)
}

func TestValidateFirmSkipsPersonNames(t *testing.T) {
	d := validDraft("firm")
	delete(d.Fields, FieldFirstName)
	delete(d.Fields, FieldLastName)
	errs := Validate(d, RoleConfigs["firm"])
	assert.Empty(t, errs)
}

func TestValidateVisitorSkipsPracticeAndCourts(t *testing.T) {
	d := NewDraft("draft-1", "visitor", 4, time.Now())
	d.Fields[FieldFirstName] = "Asha"
	d.Fields[FieldLastName] = "Rao"
	d.Fields[FieldState] = "5"
	d.Fields[FieldCity] = "12"
	d.Fields[FieldPinCode] = "500081"
	d.Fields[FieldEmail] = "asha@example.com"
	d.Fields[FieldMobile] = "9876543210"
	d.Fields[FieldPassword] = "Abcdefg1!"
	d.Fields[FieldConfirmPassword] = "Abcdefg1!"

	errs := Validate(d, RoleConfigs["visitor"])
	assert.Empty(t, errs)
}
