// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidPayload is returned by ParseUpdate for malformed editor input.
var ErrInvalidPayload = errors.New("invalid design payload")

// fontFamilyRe allows the characters that appear in web font family names.
var fontFamilyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("fontfamily", func(fl validator.FieldLevel) bool {
		return fontFamilyRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("design: register fontfamily validation: %v", err))
	}
	return v
}

// ParseUpdate strictly decodes a configuration sent by the design editor
// and validates its shape. The returned value is what Resolve would see
// once the raw payload is stored; the raw bytes themselves are what gets
// persisted.
func ParseUpdate(raw []byte) (*PartialConfiguration, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidPayload)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var p PartialConfiguration
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidPayload)
	}

	if err := validate.Struct(&p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, describe(verrs))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &p, nil
}

// describe flattens validation errors into a stable, readable message.
func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "PartialConfiguration.")
		msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
