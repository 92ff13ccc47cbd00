package validators

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmailValidator(t *testing.T) {
	assert.NoError(t, EmailValidator("john@example.com"))
	assert.ErrorIs(t, EmailValidator(""), ErrEmailEmpty)
	assert.ErrorIs(t, EmailValidator("john"), ErrEmailInvalid)
	assert.ErrorIs(t, EmailValidator("John <john@example.com>"), ErrEmailInvalid)
	assert.ErrorIs(t, EmailValidator(strings.Repeat("a", 250)+"@x.io"), ErrEmailTooLong)
}

func TestPasswordValidator(t *testing.T) {
	assert.NoError(t, PasswordValidator("s3cure-pass"))
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, PasswordValidator(strings.Repeat("a", 256)), ErrPasswordTooLong)
	assert.ErrorIs(t, PasswordValidator("12345678"), ErrPasswordNumeric)
	assert.ErrorIs(t, PasswordValidator("abc\x00defgh"), ErrPasswordInvalid)
}

func TestUsernameValidator(t *testing.T) {
	assert.NoError(t, UsernameValidator("john.doe+cars@home_1"))
	assert.NoError(t, UsernameValidator("Иван"))
	assert.ErrorIs(t, UsernameValidator(""), ErrUsernameEmpty)
	assert.ErrorIs(t, UsernameValidator("john doe"), ErrUsernameInvalid)
	assert.ErrorIs(t, UsernameValidator(strings.Repeat("a", 151)), ErrUsernameTooLong)
}

func TestPhoneValidator(t *testing.T) {
	assert.NoError(t, PhoneValidator(""))
	assert.NoError(t, PhoneValidator("+7 (701) 123-45-67"))
	assert.ErrorIs(t, PhoneValidator("call me"), ErrPhoneInvalid)
	assert.ErrorIs(t, PhoneValidator(strings.Repeat("1", 21)), ErrPhoneTooLong)
}

type testImage struct {
	URL string `json:"image_url" validate:"required,url"`
}

type testInsurance struct {
	Start time.Time `json:"insurance_start_date" validate:"required"`
	End   time.Time `json:"insurance_end_date" validate:"required,gtefield=Start"`
	Count int       `json:"owner_count" validate:"gte=0"`
}

type testInput struct {
	Title     string         `json:"title" validate:"required,max=5"`
	Username  string         `json:"username" validate:"omitempty,username"`
	Phone     *string        `json:"phone_number" validate:"omitnil,phone"`
	Insurance *testInsurance `json:"insurance_information" validate:"required"`
	Images    []testImage    `json:"images" validate:"max=2,dive"`
}

func TestStruct(t *testing.T) {
	now := time.Now()
	valid := testInput{
		Title:     "Camry",
		Insurance: &testInsurance{Start: now, End: now.Add(time.Hour)},
		Images:    []testImage{{URL: "https://example.com/1.jpg"}},
	}

	assert.Nil(t, Struct(valid))

	bad := "nope!"
	invalid := testInput{
		Title:     "Too long title",
		Username:  "has space",
		Phone:     &bad,
		Insurance: &testInsurance{Start: now, End: now.Add(-time.Hour), Count: -1},
		Images:    []testImage{{URL: "not a url"}},
	}

	fields := Struct(invalid)
	assert.Equal(t, "Ensure this field has no more than 5 characters.", fields["title"])
	assert.Equal(t, ErrUsernameInvalid.Error(), fields["username"])
	assert.Equal(t, ErrPhoneInvalid.Error(), fields["phone_number"])
	assert.Equal(t, "Must not be before start.", fields["insurance_information.insurance_end_date"])
	assert.Equal(t, "Ensure this value is greater than or equal to 0.", fields["insurance_information.owner_count"])
	assert.Equal(t, "Enter a valid URL.", fields["images[0].image_url"])

	fields = Struct(testInput{})
	assert.Equal(t, "This field is required.", fields["title"])
	assert.Equal(t, "This field is required.", fields["insurance_information"])
}
