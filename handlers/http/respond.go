package httpHandler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"reflect"
	"strings"

	"lifeops-server/apperr"
	"lifeops-server/entities"
	"lifeops-server/schedule"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// respondError writes {"error": message} with the status for the error's
// kind. Internal failures are logged and reported with a generic message.
func respondError(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(apperr.StatusCode(err), gin.H{"error": apperr.Message(err)})
}

// bindJSON decodes and validates the request body, answering 400 with the
// first problem found. It returns false when a response was written.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.Validation(validationMessage(err)))
		return false
	}
	return true
}

func validationMessage(err error) string {
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "monthday":
		return field + " must be formatted as MM-DD"
	case "category":
		return field + " is not a known category"
	case "scheduletype":
		return field + " must be FIXED_DATE, EVERY_N_MONTHS or YEARLY"
	case "datetime":
		return field + " must be a date formatted as YYYY-MM-DD"
	}
	return field + " is invalid"
}

// RegisterValidators installs the request validators used by the DTOs and
// reports fields by their JSON names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("monthday", func(fl validator.FieldLevel) bool {
		_, _, err := schedule.DecodeMonthDay(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return entities.Category(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("scheduletype", func(fl validator.FieldLevel) bool {
		return schedule.Type(fl.Field().String()).Valid()
	})
}

const userKey = "user"

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *gin.Context) *entities.User {
	if u, ok := c.Get(userKey); ok {
		if user, ok := u.(*entities.User); ok {
			return user
		}
	}
	return nil
}

func respondOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}
