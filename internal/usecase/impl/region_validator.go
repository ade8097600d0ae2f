package impl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"regionmap/internal/domain/entity"
	domainerrors "regionmap/internal/domain/errors"
	"regionmap/internal/errors"

	"github.com/go-playground/validator/v10"
)

// regionPayload is the wire shape of one region declaration
type regionPayload struct {
	Title          string               `json:"title" validate:"required"`
	RegionIDs      []string             `json:"regionIds" validate:"required,min=1,dive,required"`
	PrimaryColor   string               `json:"primaryColor" validate:"required"`
	SecondaryColor string               `json:"secondaryColor" validate:"required"`
	ScoutingHome   *scoutingHomePayload `json:"-" validate:"-"`
}

type scoutingHomePayload struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Address   string   `json:"address" validate:"required"`
}

// regionField ties a payload key to its error code and decode target
type regionField struct {
	name   string
	code   string
	decode func(p *regionPayload, raw json.RawMessage) error
}

// regionFields lists the declaration fields in the order they are checked
var regionFields = []regionField{
	{
		name:   "title",
		code:   domainerrors.CodeTitleInvalid,
		decode: func(p *regionPayload, raw json.RawMessage) error { return json.Unmarshal(raw, &p.Title) },
	},
	{
		name:   "regionIds",
		code:   domainerrors.CodeRegionIDsInvalid,
		decode: func(p *regionPayload, raw json.RawMessage) error { return json.Unmarshal(raw, &p.RegionIDs) },
	},
	{
		name:   "primaryColor",
		code:   domainerrors.CodePrimaryColorInvalid,
		decode: func(p *regionPayload, raw json.RawMessage) error { return json.Unmarshal(raw, &p.PrimaryColor) },
	},
	{
		name:   "secondaryColor",
		code:   domainerrors.CodeSecondaryColorInvalid,
		decode: func(p *regionPayload, raw json.RawMessage) error { return json.Unmarshal(raw, &p.SecondaryColor) },
	},
}

// typeErrorCode picks the code for a field whose JSON type is wrong. An array of
// sub-region ids with a non-string element blames the element.
func typeErrorCode(field regionField, raw json.RawMessage) string {
	if field.name != "regionIds" {
		return field.code
	}

	var elements []json.RawMessage
	if json.Unmarshal(raw, &elements) == nil {
		return domainerrors.CodeRegionIDInvalid
	}

	return field.code
}

func fieldPosition(name string) int {
	for i, field := range regionFields {
		if field.name == name {
			return i
		}
	}

	return len(regionFields)
}

// RegionValidator turns an untrusted regions payload into declarations
type RegionValidator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewRegionValidator creates a validator reporting fields by their JSON names
func NewRegionValidator(logger *slog.Logger) *RegionValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return &RegionValidator{validate: validate, logger: logger}
}

// ValidateRegions accepts the whole payload or nothing. The first failure in
// declaration order, then field order, is returned as a *ValidationError.
func (v *RegionValidator) ValidateRegions(payload []byte) ([]entity.RegionDeclaration, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil, domainerrors.NewValidationError(domainerrors.CodeRegionsMalformed, -1, "", "regions must be valid JSON")
	}
	if trimmed[0] != '[' {
		return nil, domainerrors.NewValidationError(domainerrors.CodeRegionsNotArray, -1, "", "regions must be an array")
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, domainerrors.NewValidationError(domainerrors.CodeRegionsMalformed, -1, "", err.Error())
	}

	declarations := make([]entity.RegionDeclaration, 0, len(elements))
	for index, raw := range elements {
		declaration, err := v.validateRegion(index, raw)
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, *declaration)
	}

	return declarations, nil
}

func (v *RegionValidator) validateRegion(index int, raw json.RawMessage) (*entity.RegionDeclaration, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, domainerrors.NewValidationError(domainerrors.CodeRegionNotObject, index, "", "region must be an object")
	}

	payload := &regionPayload{}

	var typeErr *domainerrors.ValidationError
	typePosition := len(regionFields)
	for position, field := range regionFields {
		value, ok := fields[field.name]
		if !ok || string(value) == "null" {
			continue
		}
		if err := field.decode(payload, value); err != nil {
			typeErr = domainerrors.NewValidationError(typeErrorCode(field, value), index, field.name, fmt.Sprintf("%s has the wrong type: %s", field.name, err.Error()))
			typePosition = position

			break
		}
	}

	ruleErr, rulePosition := v.firstRuleViolation(index, payload)

	switch {
	case typeErr != nil && typePosition <= rulePosition:
		return nil, typeErr
	case ruleErr != nil:
		return nil, ruleErr
	}

	payload.ScoutingHome = v.scoutingHome(index, fields["scoutingHome"])

	return payload.toDeclaration(), nil
}

// scoutingHome is optional metadata: a malformed one is dropped, never rejected
func (v *RegionValidator) scoutingHome(index int, raw json.RawMessage) *scoutingHomePayload {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	home := &scoutingHomePayload{}
	err := json.Unmarshal(raw, home)
	if err == nil {
		err = v.validate.Struct(home)
	}
	if err != nil {
		v.logger.Warn("Dropping malformed scouting home",
			slog.Int("index", index),
			slog.Any("error", err),
		)

		return nil
	}

	return home
}

// firstRuleViolation runs the struct rules and maps the earliest failing field to its code
func (v *RegionValidator) firstRuleViolation(index int, payload *regionPayload) (*domainerrors.ValidationError, int) {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil, len(regionFields)
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) || len(violations) == 0 {
		return domainerrors.NewValidationError(domainerrors.CodeRegionNotObject, index, "", err.Error()), 0
	}

	var first *domainerrors.ValidationError
	firstPosition := len(regionFields)
	for _, violation := range violations {
		// namespace is regionPayload.<field> or regionPayload.regionIds[i]
		path := strings.SplitN(violation.Namespace(), ".", 2)[1]
		top := path
		if i := strings.IndexAny(top, ".["); i >= 0 {
			top = top[:i]
		}

		position := fieldPosition(top)
		if position >= firstPosition {
			continue
		}

		code := regionFields[position].code
		if top == "regionIds" && strings.Contains(path, "[") {
			code = domainerrors.CodeRegionIDInvalid
		}

		first = domainerrors.NewValidationError(code, index, path, describeViolation(path, violation))
		firstPosition = position
	}

	return first, firstPosition
}

func describeViolation(path string, violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return path + " must not be empty"
	case "min":
		return path + " must contain at least " + violation.Param() + " element"
	case "gte":
		return path + " must be at least " + violation.Param()
	case "lte":
		return path + " must be at most " + violation.Param()
	default:
		return path + " failed " + violation.Tag()
	}
}

func (p *regionPayload) toDeclaration() *entity.RegionDeclaration {
	declaration := &entity.RegionDeclaration{
		Title:          p.Title,
		SubRegionIDs:   append([]string(nil), p.RegionIDs...),
		PrimaryColor:   p.PrimaryColor,
		SecondaryColor: p.SecondaryColor,
	}
	if p.ScoutingHome != nil {
		declaration.ScoutingHome = &entity.ScoutingHome{
			Latitude:  *p.ScoutingHome.Latitude,
			Longitude: *p.ScoutingHome.Longitude,
			Address:   p.ScoutingHome.Address,
		}
	}

	return declaration
}
