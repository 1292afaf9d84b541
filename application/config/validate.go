package config

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/gloss-dev/glossbridge/domain/errors"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = validator.New()

// Validate checks every field against its constraints and the cross-field
// rules the tags cannot express. The first failure is returned as a
// *errors.ConfigError naming the field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &errors.ConfigError{
				Field: fe.Field(),
				Err:   fmt.Errorf("failed %q constraint (value %v)", fe.Tag()+paramSuffix(fe.Param()), fe.Value()),
			}
		}
		return &errors.ConfigError{Err: err}
	}
	if c.MemoryLimitPages > 0 {
		ceiling := uint64(c.MemoryLimitPages) * 65536
		if uint64(c.SafeZoneStart)+uint64(c.TailReserve) >= ceiling {
			return &errors.ConfigError{
				Field: "MemoryLimitPages",
				Err:   fmt.Errorf("ceiling of %d bytes leaves no safe zone", ceiling),
			}
		}
	}
	return nil
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}
