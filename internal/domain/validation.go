package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// NewCandidateProfile normaliza espacios y valida los campos obligatorios (nombre y CV).
func NewCandidateProfile(name, cvText, jobTitle, jobDescription, companyName string) (CandidateProfile, error) {
	p := CandidateProfile{
		Name:           strings.TrimSpace(name),
		CVText:         strings.TrimSpace(cvText),
		JobTitle:       strings.TrimSpace(jobTitle),
		JobDescription: strings.TrimSpace(jobDescription),
		CompanyName:    strings.TrimSpace(companyName),
	}
	if err := p.Validate(); err != nil {
		return CandidateProfile{}, err
	}
	return p, nil
}

func (p CandidateProfile) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}
