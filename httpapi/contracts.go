package httpapi

import (
	"net/http"

	"github.com/vaudoise/backoffice/insurance"
	"github.com/vaudoise/backoffice/service"
)

func contractInput(err error) error {
	return service.NewError(service.CodeContractValidation, http.StatusBadRequest, err)
}

func (s *Server) browseContracts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	clientID, err := queryInt(q, "clientId")
	if err != nil {
		s.writeError(w, r, contractInput(err))
		return
	}
	req, err := pageRequest(q)
	if err != nil {
		s.writeError(w, r, contractInput(err))
		return
	}
	ctx, err := withSkipCount(r.Context(), q)
	if err != nil {
		s.writeError(w, r, contractInput(err))
		return
	}
	page, err := s.contracts.Browse(ctx, clientID, q.Get("query"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) readContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, contractInput(err))
		return
	}
	contract, err := s.contracts.Read(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (s *Server) addContract(w http.ResponseWriter, r *http.Request) {
	req := &insurance.ContractRequest{}
	if err := decodeBody(r, req); err != nil {
		s.writeError(w, r, contractInput(err))
		return
	}
	contract, err := s.contracts.Add(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract)
}

func (s *Server) updateContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, contractInput(err))
		return
	}
	req := &insurance.ContractRequest{}
	if err := decodeBody(r, req); err != nil {
		s.writeError(w, r, contractInput(err))
		return
	}
	contract, err := s.contracts.Update(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (s *Server) deleteContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, contractInput(err))
		return
	}
	contract, err := s.contracts.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}
