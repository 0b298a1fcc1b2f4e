package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"domainverse/internal/domain"
)

// validate is a singleton validator instance
var validate = validator.New()

// record mirrors domain.Domain with the constraints a catalog entry must meet
type record struct {
	ID       string         `validate:"required,max=128,excludesall=/?#"`
	Color    string         `validate:"omitempty,hexcolor"`
	Size     float64        `validate:"gte=0"`
	ParentID string         `validate:"omitempty,max=128"`
	Links    []recordLink   `validate:"dive"`
	Details  []recordDetail `validate:"dive"`
}

type recordLink struct {
	TargetID string `validate:"required,max=128"`
}

type recordDetail struct {
	Title string `validate:"required"`
}

// Validate checks every catalog entry and reports the first problem found.
// Unique ids are enforced by domain.NewGraph.
func Validate(domains []domain.Domain) error {
	for i, d := range domains {
		r := record{
			ID:       d.ID,
			Color:    d.Color,
			Size:     d.Size,
			ParentID: d.ParentID,
			Links:    make([]recordLink, 0, len(d.Links)),
			Details:  make([]recordDetail, 0, len(d.Details)),
		}
		for _, l := range d.Links {
			r.Links = append(r.Links, recordLink{TargetID: l.TargetID})
		}
		for _, det := range d.Details {
			r.Details = append(r.Details, recordDetail{Title: det.Title})
		}

		if err := validate.Struct(r); err != nil {
			name := d.ID
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return fmt.Errorf("domain %s: %w", name, formatValidationError(err))
		}
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	e := validationErrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "max":
		return fmt.Errorf("%s: must not exceed %s characters", field, e.Param())
	case "excludesall":
		return fmt.Errorf("%s: must not contain any of %q", field, e.Param())
	case "hexcolor":
		return fmt.Errorf("%s: %q is not a hex color", field, e.Value())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}
