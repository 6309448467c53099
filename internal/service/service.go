// Package service implements the REST API of the contacts service on top of the contact store.
package service

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
	"gitlab.com/dirk.krummacker/contacts-api/internal/logging"
	"gitlab.com/dirk.krummacker/contacts-api/internal/metrics"
	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
	"gitlab.com/dirk.krummacker/contacts-api/internal/store"
	"go.uber.org/zap"
)

// ContactStore is the persistence the handlers work on. *store.Store implements it.
type ContactStore interface {
	Create(ctx context.Context, nc model.NewContact) (model.Contact, error)
	GetByID(ctx context.Context, id int64) (model.Contact, error)
	Update(ctx context.Context, id int64, update model.ContactUpdate) (model.Contact, error)
	Delete(ctx context.Context, id int64) (model.Contact, error)
	ListFiltered(ctx context.Context, criteria model.Criteria, order store.Order, page store.Page) ([]model.Contact, error)
	ListUpcomingBirthdays(ctx context.Context, page store.Page) ([]model.Contact, error)
	Ping(ctx context.Context) error
}

// Service holds the dependencies of the HTTP handlers.
type Service struct {
	store   ContactStore
	logger  *zap.Logger
	metrics *metrics.Metrics
	paging  config.Paging
}

// New creates the service.
func New(contacts ContactStore, logger *zap.Logger, m *metrics.Metrics, paging config.Paging) *Service {
	return &Service{store: contacts, logger: logger, metrics: m, paging: paging}
}

// allowedAscending are the allowed values for the 'ascending' URL parameter.
var allowedAscending = []string{"true", "false"}

var configureValidator sync.Once

// SetupHttpRouter initializes the REST API router and registers all endpoints. Request logging
// can be switched off, e.g. for load tests.
func (s *Service) SetupHttpRouter(requestLogging bool) *gin.Engine {
	configureValidator.Do(useJSONFieldNames)

	router := gin.New()
	router.Use(gin.CustomRecovery(s.recoverPanic))
	router.Use(s.metrics.Middleware())
	if requestLogging {
		router.Use(logging.Middleware(s.logger))
	} else {
		s.logger.Info("Turning off HTTP request logging.")
	}
	router.GET("/contacts", s.findContacts)
	router.GET("/contacts/birthdays", s.findUpcomingBirthdays)
	router.POST("/contacts", s.createContact)
	router.GET("/contacts/:id", s.findContactByID)
	router.PUT("/contacts/:id", s.updateContactByID)
	router.PATCH("/contacts/:id", s.updateContactByID)
	router.DELETE("/contacts/:id", s.deleteContactByID)
	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	return router
}

// useJSONFieldNames makes validation errors report the JSON names of the offending fields. It
// also lets the validator see through the Nullable fields of an update.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterCustomTypeFunc(nullableValue, model.Nullable[string]{}, model.Nullable[model.Date]{})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// findContacts responds with a list of contacts as JSON.
//
// The URL parameters 'first_name', 'last_name' and 'email' must be contained in the respective
// field of the contact, ignoring case. All supplied parameters must match.
//
// The URL parameter 'limit' specifies how many contacts matching the search criteria are returned.
// The URL parameter 'offset' specifies how many items from the sorted list of results are skipped
// in the beginning. Together with the 'limit' parameter, one can implement search result paging.
//
// The URL parameter 'orderby' specifies the contact property by which the results shall be sorted.
// If this URL parameter is not specified, the contacts will be sorted by id. If the URL parameter
// 'ascending' is set to 'false' then the sort order is reversed.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts"
//	> curl "http://localhost:8080/contacts?first_name=ju"
//	> curl "http://localhost:8080/contacts?last_name=smi&email=example.com"
//	> curl "http://localhost:8080/contacts?limit=20&offset=60"
//	> curl "http://localhost:8080/contacts?orderby=birth_date&ascending=false"
func (s *Service) findContacts(c *gin.Context) {
	page, ok := s.parseLimitAndOffset(c)
	if !ok {
		return
	}
	order, ok := parseOrderbyAndAscending(c)
	if !ok {
		return
	}
	criteria := model.Criteria{
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Email:     c.Query("email"),
	}
	contacts, err := s.store.ListFiltered(c.Request.Context(), criteria, order, page)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// findUpcomingBirthdays responds with the contacts whose birthday is today or within the next
// days, sorted by birth date. It supports the 'limit' and 'offset' URL parameters.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/contacts/birthdays"
func (s *Service) findUpcomingBirthdays(c *gin.Context) {
	page, ok := s.parseLimitAndOffset(c)
	if !ok {
		return
	}
	contacts, err := s.store.ListUpcomingBirthdays(c.Request.Context(), page)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// parseLimitAndOffset inspects the URL parameters and determines values for limit and offset of
// the result set.
func (s *Service) parseLimitAndOffset(c *gin.Context) (store.Page, bool) {
	page := store.Page{Limit: s.paging.DefaultLimit}
	if limit := c.Query("limit"); limit != "" {
		limitAsInt, errConv := strconv.Atoi(limit)
		if errConv != nil || limitAsInt < s.paging.MinLimit || limitAsInt > s.paging.MaxLimit {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid limit parameter"})
			return store.Page{}, false
		}
		page.Limit = limitAsInt
	}
	if offset := c.Query("offset"); offset != "" {
		offsetAsInt, errConv := strconv.Atoi(offset)
		if errConv != nil || offsetAsInt < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid offset parameter"})
			return store.Page{}, false
		}
		page.Offset = offsetAsInt
	}
	return page, true
}

// parseOrderbyAndAscending inspects the URL parameters and determines the sort order of the
// result set.
func parseOrderbyAndAscending(c *gin.Context) (store.Order, bool) {
	orderby := c.DefaultQuery("orderby", "id")
	if !store.IsOrderColumn(orderby) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid orderby parameter"})
		return store.Order{}, false
	}
	ascending := c.DefaultQuery("ascending", "true")
	if !contains(allowedAscending, ascending) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid ascending parameter"})
		return store.Order{}, false
	}
	return store.Order{Column: orderby, Descending: ascending == "false"}, true
}

// contains returns true if a string is present in a slice.
func contains(slice []string, str string) bool {
	for _, v := range slice {
		if v == str {
			return true
		}
	}
	return false
}

// createContact inserts the contact specified in the request's JSON into the database. It responds
// with the full contact data including the newly assigned id and timestamps.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"first_name": "Hans", "last_name": "Wurst", "email": "hans@example.com", "phone": "+49 0815 4711", "birth_date": "1969-03-02"}'
func (s *Service) createContact(c *gin.Context) {
	var request createRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithBindingError(c, err)
		return
	}
	contact, err := s.store.Create(c.Request.Context(), request.toNewContact())
	if errors.Is(err, store.ErrConstraintViolation) {
		s.metrics.Observe("create", "conflict")
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "email or phone already in use"})
		return
	}
	if err != nil {
		s.metrics.Observe("create", "error")
		s.internalError(c, err)
		return
	}
	s.metrics.Observe("create", "ok")
	c.IndentedJSON(http.StatusCreated, contact)
}

// findContactByID locates the contact whose ID value matches the id parameter of the request URL,
// then returns that contact as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56
func (s *Service) findContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := s.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// updateContactByID updates the contact whose ID value matches the id parameter of the request
// URL, updates the values specified in the JSON (and only those), and finally responds with the
// new version of the contact.
//
// Example REST API calls:
//
//	> curl http://localhost:8080/contacts/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"phone": "+49 81970 123"}'
//	> curl http://localhost:8080/contacts/56 --request "PATCH" --include --header "Content-Type: application/json" --data '{"birth_date": "1972-06-06"}'
func (s *Service) updateContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var request updateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithBindingError(c, err)
		return
	}
	update := request.toContactUpdate()

	// It only makes sense to continue if we have at least one value to update.
	if update.IsEmpty() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "no values to be updated"})
		return
	}

	contact, err := s.store.Update(c.Request.Context(), id, update)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.metrics.Observe("update", "not_found")
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
	case errors.Is(err, store.ErrConstraintViolation):
		s.metrics.Observe("update", "conflict")
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "email or phone already in use"})
	case err != nil:
		s.metrics.Observe("update", "error")
		s.internalError(c, err)
	default:
		s.metrics.Observe("update", "ok")
		c.IndentedJSON(http.StatusOK, contact)
	}
}

// deleteContactByID deletes the contact whose ID value matches the id parameter of the request
// URL. Deleting a contact that does not exist is not an error.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56 --request "DELETE"
func (s *Service) deleteContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	removed, err := s.store.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.metrics.Observe("delete", "not_found")
	case err != nil:
		s.metrics.Observe("delete", "error")
		s.internalError(c, err)
		return
	default:
		s.metrics.Observe("delete", "ok")
		s.logger.Debug("contact deleted", zap.Int64("id", removed.Id))
	}
	c.Status(http.StatusNoContent)
}

// health responds with 200 if the database can be reached, and with 503 otherwise.
func (s *Service) health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.logger.Warn("database not reachable", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID reads the id parameter of the request URL. Ids that are not positive numbers cannot
// belong to any contact, so the request is answered with 404.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// internalError logs an unexpected error and answers with 500.
func (s *Service) internalError(c *gin.Context, err error) {
	s.logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

// recoverPanic answers with 500 after a handler panicked.
func (s *Service) recoverPanic(c *gin.Context, recovered any) {
	s.logger.Error("panic while handling request",
		zap.String("path", c.Request.URL.Path),
		zap.Any("panic", recovered))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}
