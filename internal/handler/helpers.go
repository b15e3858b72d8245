package handler

import (
	"errors"
	"net/http"
	"reflect"

	"poultrycore/internal/apierror"
	"poultrycore/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain errors to HTTP statuses. Anything unrecognized is
// pushed onto the context for the ErrorHandler middleware (500, logged).
func respondError(c *gin.Context, err error) {
	var (
		validationErr    *domain.ValidationError
		invalidStateErr  *domain.InvalidStateError
		insufficientErr  *domain.InsufficientStockError
		conflictErr      *domain.ConflictError
		configurationErr *domain.ConfigurationError
		notFoundErr      *domain.NotFoundError
	)
	switch {
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.As(err, &invalidStateErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &insufficientErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &configurationErr):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
