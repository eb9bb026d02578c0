// Package registration implements the multi-variant registration workflow:
// draft field state, validation, practice-area selection, the OTP
// verification sub-flow, and the submission pipeline against the upstream
// registration endpoint.
package registration

import (
	"time"

	"legalbooks/internal/otp"
)

// Field names, matching the upstream form vocabulary.
const (
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldFirmName        = "firm_name"
	FieldAddress         = "address_line1"
	FieldState           = "state"
	FieldCity            = "city"
	FieldPinCode         = "pin_code"
	FieldGender          = "gender"
	FieldEmail           = "email"
	FieldMobile          = "mobile_number"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldYearsOfPractice = "years_of_practice"
	FieldMonthsOfPractic = "months_of_practice"
	FieldAbout           = "about"
	FieldPrimaryArea     = "primary_area_of_practice"
	FieldCourt           = "court"
)

// Draft is the transient state of one registration attempt. It is created
// with defaults on form mount, mutated on every input change, and reset to
// defaults on successful submission. Nothing in it survives except through
// the upstream API.
type Draft struct {
	ID   string `json:"id"`
	Role string `json:"role"`

	// Scalar form fields by name. Typed accessors cover the special cases.
	Fields map[string]string `json:"fields"`

	// PrimaryArea and SecondaryAreas carry the practice selection. The
	// secondary set always contains the primary at the front once chosen.
	PrimaryArea    int    `json:"primary_area"`
	SecondaryAreas []int  `json:"secondary_areas"`
	AreaSummary    string `json:"area_summary"`

	// PendingAreas is the in-progress selector state while the modal is
	// open; Commit copies it into SecondaryAreas, Discard drops it.
	PendingAreas  []int `json:"pending_areas,omitempty"`
	SelectorOpen  bool  `json:"selector_open"`
	EmailEditable bool  `json:"email_editable"`

	Email  *otp.Channel `json:"email_otp"`
	Mobile *otp.Channel `json:"mobile_otp"`

	PhotoName string `json:"photo_name,omitempty"`
	Photo     []byte `json:"photo,omitempty"`

	// Errors maps field name to the current validation message. SetField
	// clears the entry for the field it touches.
	Errors map[string]string `json:"errors"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDraft creates an empty draft for one role with the given OTP digit
// count.
func NewDraft(id, role string, otpDigits int, now time.Time) *Draft {
	return &Draft{
		ID:            id,
		Role:          role,
		Fields:        make(map[string]string),
		Errors:        make(map[string]string),
		EmailEditable: true,
		Email:         otp.NewChannel(otp.ChannelEmail, otpDigits),
		Mobile:        otp.NewChannel(otp.ChannelMobile, otpDigits),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Verified reports whether both OTP channels completed verification.
func (d *Draft) Verified() bool {
	return d.Email.Verified() && d.Mobile.Verified()
}

// Channel returns the OTP channel of the given type.
func (d *Draft) Channel(t otp.ChannelType) *otp.Channel {
	if t == otp.ChannelMobile {
		return d.Mobile
	}
	return d.Email
}

// Reset returns the draft to its mount defaults, keeping ID and role.
func (d *Draft) Reset(otpDigits int, now time.Time) {
	fresh := NewDraft(d.ID, d.Role, otpDigits, now)
	fresh.CreatedAt = d.CreatedAt
	*d = *fresh
}

// RoleConfig declares which fields and sub-flows apply to one registrant
// variant. The four variants share one workflow; only the configuration
// differs.
type RoleConfig struct {
	Role     string
	Required []string
	// PersonName selects first/last name fields; otherwise the variant
	// registers under a firm name.
	PersonName bool
	// Practice enables the practice-area selector and primary-area field.
	Practice bool
	// Courts enables court selection.
	Courts bool
	// Experience enables the years/months-of-practice pair, validated as
	// "at least one of the two".
	Experience bool
}

// RoleConfigs is the registry of supported registrant variants.
var RoleConfigs = map[string]RoleConfig{
	"lawyer": {
		Role: "lawyer",
		Required: []string{
			FieldFirstName, FieldLastName, FieldAddress, FieldState, FieldCity,
			FieldPinCode, FieldAbout, FieldPassword, FieldEmail, FieldMobile,
		},
		PersonName: true,
		Practice:   true,
		Courts:     true,
		Experience: true,
	},
	"firm": {
		Role: "firm",
		Required: []string{
			FieldFirmName, FieldAddress, FieldState, FieldCity,
			FieldPinCode, FieldAbout, FieldPassword, FieldEmail, FieldMobile,
		},
		Practice:   true,
		Courts:     true,
		Experience: true,
	},
	"intern": {
		Role: "intern",
		Required: []string{
			FieldFirstName, FieldLastName, FieldAddress, FieldState, FieldCity,
			FieldPinCode, FieldPassword, FieldEmail, FieldMobile,
		},
		PersonName: true,
		Practice:   true,
	},
	"visitor": {
		Role: "visitor",
		Required: []string{
			FieldFirstName, FieldLastName, FieldState, FieldCity,
			FieldPinCode, FieldPassword, FieldEmail, FieldMobile,
		},
		PersonName: true,
	},
}
