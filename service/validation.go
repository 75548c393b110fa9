package service

import (
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/vaudoise/backoffice/insurance"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// ValidateClient checks req and returns every problem found, or nil.
func ValidateClient(req *insurance.ClientRequest, updating bool, today insurance.Date) error {
	if req == nil {
		return errors.New("request is empty")
	}
	var result *multierror.Error
	if strings.TrimSpace(req.Name) == "" {
		result = multierror.Append(result, errors.New("name is required"))
	}
	if strings.TrimSpace(req.Email) == "" {
		result = multierror.Append(result, errors.New("email is required"))
	} else if !emailPattern.MatchString(req.Email) {
		result = multierror.Append(result, errors.Errorf("email %q is not valid", req.Email))
	}
	if strings.TrimSpace(req.Phone) == "" {
		result = multierror.Append(result, errors.New("phone is required"))
	} else if !phonePattern.MatchString(req.Phone) {
		result = multierror.Append(result, errors.Errorf("phone %q is not valid", req.Phone))
	}

	if !req.Type.Valid() {
		result = multierror.Append(result, errors.Errorf("type %q is not valid", req.Type))
	}
	switch req.Type {
	case insurance.ClientTypePerson:
		if req.BirthDate == nil {
			result = multierror.Append(result, errors.New("birthDate is required for a person"))
		} else if req.BirthDate.After(today) {
			result = multierror.Append(result, errors.New("birthDate is in the future"))
		}
	case insurance.ClientTypeCompany:
		if req.CompanyID == nil || strings.TrimSpace(*req.CompanyID) == "" {
			result = multierror.Append(result, errors.New("companyId is required for a company"))
		}
	}

	if updating && req.UUID == nil {
		result = multierror.Append(result, errors.New("uuid is required"))
	}
	return result.ErrorOrNil()
}

// ValidateContract checks req against the start date the contract will have.
// start is nil when neither the request nor the stored contract carries one.
func ValidateContract(req *insurance.ContractRequest, updating bool, start *insurance.Date) error {
	if req == nil {
		return errors.New("request is empty")
	}
	var result *multierror.Error
	if start == nil {
		result = multierror.Append(result, errors.New("startDate is required"))
	} else if req.EndDate != nil && req.EndDate.Before(*start) {
		result = multierror.Append(result, errors.New("endDate is before startDate"))
	}
	if req.Cost == nil {
		result = multierror.Append(result, errors.New("cost is required"))
	} else if req.Cost.IsNegative() {
		result = multierror.Append(result, errors.New("cost is negative"))
	}
	if req.ClientID == nil {
		result = multierror.Append(result, errors.New("clientId is required"))
	}
	if updating && req.UUID == nil {
		result = multierror.Append(result, errors.New("uuid is required"))
	}
	return result.ErrorOrNil()
}
