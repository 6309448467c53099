package service

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
)

// createRequest is the JSON body of a POST request.
type createRequest struct {
	FirstName    string      `json:"first_name"   binding:"required,min=2,max=50"`
	LastName     string      `json:"last_name"    binding:"required,min=2,max=50"`
	Email        string      `json:"email"        binding:"required,email,max=100"`
	Phone        string      `json:"phone"        binding:"required,min=7,max=20"`
	BirthDate    *model.Date `json:"birth_date"`
	Additionally *string     `json:"additionally" binding:"omitnil,max=250"`
}

func (r createRequest) toNewContact() model.NewContact {
	email := r.Email
	return model.NewContact{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        &email,
		Phone:        r.Phone,
		BirthDate:    r.BirthDate,
		Additionally: r.Additionally,
	}
}

// updateRequest is the JSON body of a PUT or PATCH request. Fields that are missing in the JSON
// keep their stored values. The optional fields birth_date and additionally are cleared by null.
type updateRequest struct {
	FirstName    *string                    `json:"first_name"   binding:"omitnil,min=2,max=50"`
	LastName     *string                    `json:"last_name"    binding:"omitnil,min=2,max=50"`
	Email        *string                    `json:"email"        binding:"omitnil,email,max=100"`
	Phone        *string                    `json:"phone"        binding:"omitnil,min=7,max=20"`
	BirthDate    model.Nullable[model.Date] `json:"birth_date"`
	Additionally model.Nullable[string]     `json:"additionally" binding:"omitempty,max=250"`
}

func (r updateRequest) toContactUpdate() model.ContactUpdate {
	return model.ContactUpdate{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Phone:        r.Phone,
		BirthDate:    r.BirthDate,
		Additionally: r.Additionally,
	}
}

// nullableValue hands the value of a Nullable to the validator. Null and missing values are
// validated as nil.
func nullableValue(field reflect.Value) interface{} {
	switch n := field.Interface().(type) {
	case model.Nullable[string]:
		return n.Interface()
	case model.Nullable[model.Date]:
		return n.Interface()
	}
	return nil
}

// abortWithBindingError answers a request whose body could not be bound with 400. Validation
// failures are listed per field with the rule that failed.
func abortWithBindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	fields := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields[fieldError.Field()] = fieldError.Tag()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid contact", "errors": fields})
}
