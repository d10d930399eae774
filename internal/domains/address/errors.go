package address

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AddressError định nghĩa base error cho address domain
type AddressError struct {
	Code    string
	Message string
	Err     error
}

// Error implements error interface
func (e *AddressError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows error wrapping compatibility
func (e *AddressError) Unwrap() error {
	return e.Err
}

// Is matches on Code so sentinel values below work with errors.Is.
func (e *AddressError) Is(target error) bool {
	var t *AddressError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

const (
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeAddressNotFound    = "ADDRESS_NOT_FOUND"
	CodeWriteFailed        = "WRITE_FAILED"
	CodeReadFailed         = "READ_FAILED"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeConflict           = "CONFLICT"
	CodeNoCurrentUser      = "NO_CURRENT_USER"
	CodeCannotUnsetDefault = "CANNOT_UNSET_DEFAULT"
)

// ============================================
// ADDRESS-SPECIFIC ERROR DEFINITIONS
// ============================================

// ErrUserNotFound - không có user document nào khớp với user id
var ErrUserNotFound = &AddressError{
	Code:    CodeUserNotFound,
	Message: "User not found",
}

// ErrAddressNotFound - Address không tìm thấy trong danh sách của user
var ErrAddressNotFound = &AddressError{
	Code:    CodeAddressNotFound,
	Message: "Address not found",
}

// ErrWriteFailed - ghi đè mảng addresses không thành công
var ErrWriteFailed = &AddressError{
	Code:    CodeWriteFailed,
	Message: "Failed to write addresses",
}

// ErrReadFailed - đọc user document không thành công (lỗi kết nối, decode...)
var ErrReadFailed = &AddressError{
	Code:    CodeReadFailed,
	Message: "Failed to read addresses",
}

// ErrValidationFailed - thiếu recipient name / phone
var ErrValidationFailed = &AddressError{
	Code:    CodeValidationFailed,
	Message: "Address validation failed",
}

// ErrConflict - revision đã thay đổi giữa lúc đọc và lúc ghi
var ErrConflict = &AddressError{
	Code:    CodeConflict,
	Message: "Addresses were modified concurrently, reload and retry",
}

// ErrNoCurrentUser - không có user id trong session
var ErrNoCurrentUser = &AddressError{
	Code:    CodeNoCurrentUser,
	Message: "No current user",
}

// ErrCannotUnsetDefault - không thể bỏ default khi danh sách còn address
var ErrCannotUnsetDefault = &AddressError{
	Code:    CodeCannotUnsetDefault,
	Message: "Cannot unset the default address, set another address as default instead",
}

// ============================================
// ERROR FACTORY FUNCTIONS
// ============================================

// NewUserNotFound tạo error "user not found"
func NewUserNotFound(userID string) *AddressError {
	return &AddressError{
		Code:    CodeUserNotFound,
		Message: fmt.Sprintf("User %s not found", userID),
	}
}

// NewAddressNotFound tạo error "address not found"
func NewAddressNotFound(addressID string) *AddressError {
	return &AddressError{
		Code:    CodeAddressNotFound,
		Message: fmt.Sprintf("Address %s not found", addressID),
	}
}

// NewWriteFailed tạo error "write failed"
func NewWriteFailed(err error) *AddressError {
	return &AddressError{
		Code:    CodeWriteFailed,
		Message: "Failed to write addresses",
		Err:     err,
	}
}

// NewReadFailed tạo error "read failed"
func NewReadFailed(err error) *AddressError {
	return &AddressError{
		Code:    CodeReadFailed,
		Message: "Failed to read addresses",
		Err:     err,
	}
}

// NewValidationFailed wraps field errors from the request validator
func NewValidationFailed(err error) *AddressError {
	return &AddressError{
		Code:    CodeValidationFailed,
		Message: "Address validation failed",
		Err:     err,
	}
}

// NewConflict tạo error "conflict" kèm revision đã đọc
func NewConflict(userID string, expected int64) *AddressError {
	return &AddressError{
		Code:    CodeConflict,
		Message: fmt.Sprintf("Addresses of user %s changed since revision %d", userID, expected),
	}
}

// NewNoCurrentUser tạo error "no current user"
func NewNoCurrentUser() *AddressError {
	return &AddressError{
		Code:    CodeNoCurrentUser,
		Message: "No current user",
	}
}

// NewCannotUnsetDefault tạo error "cannot unset default"
func NewCannotUnsetDefault(addressID string) *AddressError {
	return &AddressError{
		Code:    CodeCannotUnsetDefault,
		Message: fmt.Sprintf("Address %s is the default; set another address as default instead", addressID),
	}
}

// ============================================
// ERROR CHECKING FUNCTIONS
// ============================================

func IsUserNotFound(err error) bool     { return hasCode(err, CodeUserNotFound) }
func IsAddressNotFound(err error) bool  { return hasCode(err, CodeAddressNotFound) }
func IsWriteFailed(err error) bool      { return hasCode(err, CodeWriteFailed) }
func IsValidationFailed(err error) bool { return hasCode(err, CodeValidationFailed) }
func IsConflict(err error) bool         { return hasCode(err, CodeConflict) }
func IsNoCurrentUser(err error) bool    { return hasCode(err, CodeNoCurrentUser) }

// IsDomainError kiểm tra có phải AddressError
func IsDomainError(err error) bool {
	var addrErr *AddressError
	return errors.As(err, &addrErr)
}

// GetErrorCode lấy error code từ error
func GetErrorCode(err error) string {
	var addrErr *AddressError
	if errors.As(err, &addrErr) {
		return addrErr.Code
	}
	return "UNKNOWN_ERROR"
}

// GetErrorMessage lấy error message từ error
func GetErrorMessage(err error) string {
	var addrErr *AddressError
	if errors.As(err, &addrErr) {
		return addrErr.Message
	}
	return err.Error()
}

// GetErrorDetails returns per-field validation messages, if any.
func GetErrorDetails(err error) interface{} {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return nil
}

// MapErrorToHTTP trả về status code, message và error code cho HTTP response
func MapErrorToHTTP(err error) (int, string, string) {
	if err == nil {
		return http.StatusOK, "Success", ""
	}

	if !IsDomainError(err) {
		return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
	}

	switch GetErrorCode(err) {
	case CodeUserNotFound, CodeAddressNotFound:
		return http.StatusNotFound, GetErrorMessage(err), GetErrorCode(err)
	case CodeValidationFailed:
		return http.StatusBadRequest, GetErrorMessage(err), GetErrorCode(err)
	case CodeNoCurrentUser:
		return http.StatusUnauthorized, GetErrorMessage(err), GetErrorCode(err)
	case CodeConflict, CodeCannotUnsetDefault:
		return http.StatusConflict, GetErrorMessage(err), GetErrorCode(err)
	case CodeWriteFailed, CodeReadFailed:
		return http.StatusBadGateway, GetErrorMessage(err), GetErrorCode(err)
	default:
		return http.StatusInternalServerError, GetErrorMessage(err), GetErrorCode(err)
	}
}

func hasCode(err error, code string) bool {
	var addrErr *AddressError
	return errors.As(err, &addrErr) && addrErr.Code == code
}
