package service

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// Code identifies an application error. Client errors are 11xx, contract errors 12xx.
type Code int

const (
	CodeClientNotFound     Code = 1100
	CodeClientList         Code = 1101
	CodeClientRead         Code = 1102
	CodeClientCreate       Code = 1103
	CodeClientUpdate       Code = 1104
	CodeClientDelete       Code = 1105
	CodeClientValidation   Code = 1106
	CodeClientContractList Code = 1107

	CodeContractNotFound   Code = 1200
	CodeContractList       Code = 1201
	CodeContractRead       Code = 1202
	CodeContractCreate     Code = 1203
	CodeContractUpdate     Code = 1204
	CodeContractDelete     Code = 1205
	CodeContractValidation Code = 1206
)

var codeInfos = map[Code]struct{ name, description string }{
	CodeClientNotFound:     {"CLIENT_NOT_FOUND", "Client not found"},
	CodeClientList:         {"CLIENT_LIST", "Cannot list clients"},
	CodeClientRead:         {"CLIENT_READ", "Cannot read the client"},
	CodeClientCreate:       {"CLIENT_CREATE", "Cannot create the client"},
	CodeClientUpdate:       {"CLIENT_UPDATE", "Cannot update the client"},
	CodeClientDelete:       {"CLIENT_DELETE", "Cannot delete the client"},
	CodeClientValidation:   {"CLIENT_VALIDATION", "Client parameters are not valid"},
	CodeClientContractList: {"CLIENT_CONTRACT_LIST", "Cannot list contracts for the client"},

	CodeContractNotFound:   {"CONTRACT_NOT_FOUND", "Contract not found"},
	CodeContractList:       {"CONTRACT_LIST", "Cannot list contracts"},
	CodeContractRead:       {"CONTRACT_READ", "Cannot read the contract"},
	CodeContractCreate:     {"CONTRACT_CREATE", "Cannot create the contract"},
	CodeContractUpdate:     {"CONTRACT_UPDATE", "Cannot update the contract"},
	CodeContractDelete:     {"CONTRACT_DELETE", "Cannot delete the contract"},
	CodeContractValidation: {"CONTRACT_VALIDATION", "Contract parameters are not valid"},
}

func (c Code) String() string {
	if info, ok := codeInfos[c]; ok {
		return info.name
	}
	return "UNKNOWN_" + strconv.Itoa(int(c))
}

func (c Code) Description() string {
	if info, ok := codeInfos[c]; ok {
		return info.description
	}
	return "Unknown error"
}

// Error is an application error with the HTTP status it maps to.
// Its message is the description of its code; the cause is kept for logging.
type Error struct {
	Code   Code
	Status int
	cause  error
}

func (e *Error) Error() string {
	return e.Code.Description()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("code", int(e.Code))
	enc.AddString("name", e.Code.String())
	enc.AddInt("status", e.Status)
	if e.cause != nil {
		enc.AddString("cause", e.cause.Error())
	}
	return nil
}

func NewError(code Code, status int, cause error) *Error {
	return &Error{Code: code, Status: status, cause: cause}
}

// Unknown records are reported as bad requests.
func notFound(code Code, cause error) *Error {
	return NewError(code, http.StatusBadRequest, cause)
}

func invalid(code Code, cause error) *Error {
	return NewError(code, http.StatusBadRequest, cause)
}

// wrap turns err into an internal error with code, unless it already is an *Error.
func wrap(err error, code Code) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return NewError(code, http.StatusInternalServerError, err)
}

// AsError extracts the *Error carried by err.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
