package response

import "errors"

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

//Error Codes
type ErrCode string

var (
	FAILED_REQUEST ErrCode = "REQUEST_FAILED"
	BAD_REQUEST    ErrCode = "FAILED_TO_DECODE"
	INVALID_RANGE  ErrCode = "INVALID_RANGE"
	NOT_FOUND      ErrCode = "NOT_FOUND"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrInvalidId  = errors.New("invalid id")
	ErrNotFound   = errors.New("resource not found")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}
