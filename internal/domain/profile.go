package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Age bounds accepted by the capture form, both inclusive.
const (
	MinAge = 13
	MaxAge = 100
)

// Style vibe and body type options. Values are forwarded to the analysis backend unmodified.
var (
	Vibes     = []string{"classic", "minimalist", "bohemian", "streetwear", "romantic", "edgy"}
	BodyTypes = []string{"hourglass", "pear", "apple", "rectangle", "inverted-triangle"}
)

// validatorInstance is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var validatorInstance = validator.New()

func init() {
	_ = validatorInstance.RegisterValidation("vibe", oneOfValidator(Vibes))
	_ = validatorInstance.RegisterValidation("bodytype", oneOfValidator(BodyTypes))
}

func oneOfValidator(options []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, o := range options {
			if v == o {
				return true
			}
		}
		return false
	}
}

// Profile is the transient set of fields a user fills in before requesting a report.
type Profile struct {
	Name     string `form:"name" validate:"required,max=100"`
	Age      int    `form:"age" validate:"gte=13,lte=100"`
	Vibe     string `form:"vibe" validate:"omitempty,vibe"`
	BodyType string `form:"body_type" validate:"omitempty,bodytype"`
}

// ProfileInput carries the raw form values before parsing.
type ProfileInput struct {
	Name     string
	Age      string
	Vibe     string
	BodyType string
}

// FieldErrors maps a form field name to a single user-facing message.
type FieldErrors map[string]string

// Field names used for FieldErrors and for the outbound multipart parts.
const (
	FieldName     = "name"
	FieldAge      = "age"
	FieldVibe     = "vibe"
	FieldBodyType = "body_type"
	FieldImage    = "image"
)

// Messages shown next to invalid fields.
const (
	MsgNameRequired = "Please enter your name."
	MsgNameTooLong  = "Name must be 100 characters or fewer."
	MsgAgeRange     = "Age must be a whole number between 13 and 100."
	MsgVibeInvalid  = "Please choose a style vibe from the list."
	MsgBodyInvalid  = "Please choose a body type from the list."
	MsgImageMissing = "Please upload or capture a photo first."
)

// Has reports whether field has an error.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Error implements error so FieldErrors can travel through error returns.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range []string{FieldName, FieldAge, FieldVibe, FieldBodyType, FieldImage} {
		if msg, ok := fe[f]; ok {
			parts = append(parts, f+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

// ParseProfile trims and parses the raw input and validates it together with the
// presence of an image. It returns one message per invalid field, or nil.
func ParseProfile(in ProfileInput, hasImage bool) (Profile, FieldErrors) {
	p := Profile{
		Name:     strings.TrimSpace(in.Name),
		Vibe:     strings.TrimSpace(in.Vibe),
		BodyType: strings.TrimSpace(in.BodyType),
	}
	errs := FieldErrors{}

	age, err := strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil {
		errs[FieldAge] = MsgAgeRange
	} else {
		p.Age = age
	}

	if err := p.Validate(); err != nil {
		var fe FieldErrors
		if errors.As(err, &fe) {
			for k, v := range fe {
				errs[k] = v
			}
		}
	}
	if !hasImage {
		errs[FieldImage] = MsgImageMissing
	}

	if len(errs) == 0 {
		return p, nil
	}
	return p, errs
}

// Validate runs the struct tag checks and converts failures to FieldErrors.
func (p Profile) Validate() error {
	err := validatorInstance.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := FieldErrors{}
	for _, v := range verrs {
		switch v.Field() {
		case "Name":
			if v.Tag() == "max" {
				fe[FieldName] = MsgNameTooLong
			} else {
				fe[FieldName] = MsgNameRequired
			}
		case "Age":
			fe[FieldAge] = MsgAgeRange
		case "Vibe":
			fe[FieldVibe] = MsgVibeInvalid
		case "BodyType":
			fe[FieldBodyType] = MsgBodyInvalid
		}
	}
	return fe
}

// Fields returns the profile as ordered multipart field pairs.
func (p Profile) Fields() [][2]string {
	return [][2]string{
		{FieldName, p.Name},
		{FieldAge, strconv.Itoa(p.Age)},
		{FieldVibe, p.Vibe},
		{FieldBodyType, p.BodyType},
	}
}
