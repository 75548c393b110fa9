package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vaudoise/backoffice/insurance"
	"github.com/vaudoise/backoffice/service"
)

// Malformed client requests are reported as client validation errors.
func clientInput(err error) error {
	return service.NewError(service.CodeClientValidation, http.StatusBadRequest, err)
}

func (s *Server) browseClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := pageRequest(q)
	if err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	ctx, err := withSkipCount(r.Context(), q)
	if err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	page, err := s.clients.Browse(ctx, q.Get("query"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) readClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	client, err := s.clients.Read(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) addClient(w http.ResponseWriter, r *http.Request) {
	req := &insurance.ClientRequest{}
	if err := decodeBody(r, req); err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	client, err := s.clients.Add(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	req := &insurance.ClientRequest{}
	if err := decodeBody(r, req); err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	client, err := s.clients.Update(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	client, err := s.clients.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) activeContracts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	q := r.URL.Query()
	filter, err := activityFilter(q)
	if err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	req, err := pageRequest(q)
	if err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	ctx, err := withSkipCount(r.Context(), q)
	if err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	page, err := s.clients.ActiveContracts(ctx, id, filter, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type sumResponse struct {
	ClientID int64           `json:"clientId"`
	Sum      decimal.Decimal `json:"sum"`
}

func (s *Server) sumOfActiveContracts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, clientInput(err))
		return
	}
	sum, err := s.clients.SumOfActiveContracts(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sumResponse{ClientID: id, Sum: sum})
}
