package apperr

import "github.com/tuanvumaihuynh/bizdesk/pkg/zerror"

const (
	ValidationErrorCode    = "VALIDATION_FAILED"
	InvalidBodyCode        = "INVALID_BODY"
	InvalidUploadCode      = "INVALID_UPLOAD"
	ImportFailedCode       = "IMPORT_FAILED"
	ClientNotFoundCode     = "CLIENT_NOT_FOUND"
	ClientConflictCode     = "CLIENT_CONFLICT"
	ProductNotFoundCode    = "PRODUCT_NOT_FOUND"
	ProductConflictCode    = "PRODUCT_CONFLICT"
	OrderNotFoundCode      = "ORDER_NOT_FOUND"
	OrderConflictCode      = "ORDER_CONFLICT"
	UserNotFoundCode       = "USER_NOT_FOUND"
	UsernameTakenCode      = "USERNAME_TAKEN"
	LastAdminCode          = "LAST_ADMIN"
	InvalidCredentialsCode = "INVALID_CREDENTIALS"
	TooManyRequestsCode    = "TOO_MANY_REQUESTS"
	RouteNotFoundCode      = "ROUTE_NOT_FOUND"
)

var (
	ValidationErr  = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	InvalidBodyErr = zerror.NewBadRequest(InvalidBodyCode, "request body is not valid JSON")

	InvalidUploadErr = zerror.NewBadRequest(InvalidUploadCode, "invalid upload")
	ImportFailedErr  = zerror.NewInternalServerError(ImportFailedCode, "import failed")

	ClientNotFoundErr  = zerror.NewNotFound(ClientNotFoundCode, "client not found")
	ClientConflictErr  = zerror.NewConflict(ClientConflictCode, "a client with this name already exists")
	ProductNotFoundErr = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	ProductConflictErr = zerror.NewConflict(ProductConflictCode, "a product with this name or SKU already exists")
	OrderNotFoundErr   = zerror.NewNotFound(OrderNotFoundCode, "order not found")
	OrderConflictErr   = zerror.NewConflict(OrderConflictCode, "an order with this number already exists")

	UserNotFoundErr       = zerror.NewNotFound(UserNotFoundCode, "user not found")
	UsernameTakenErr      = zerror.NewConflict(UsernameTakenCode, "username already exists")
	LastAdminErr          = zerror.NewForbidden(LastAdminCode, "cannot delete the last admin user")
	InvalidCredentialsErr = zerror.NewUnauthorized(InvalidCredentialsCode, "invalid credentials")
	TooManyRequestsErr    = zerror.NewTooManyRequests(TooManyRequestsCode, "too many requests, try again later")

	RouteNotFoundErr    = zerror.NewNotFound(RouteNotFoundCode, "route not found")
)
