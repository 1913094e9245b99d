package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

type clientRequest struct {
	Name       string `json:"name"`
	ClientType string `json:"client_type"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
}

type clientResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ClientType    string `json:"client_type"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	LoyaltyPoints int64  `json:"loyalty_points"`
}

func toClientResponse(c model.Client) clientResponse {
	return clientResponse{
		ID: c.ID, Name: c.Name, ClientType: c.ClientType,
		Address: c.Address, Phone: c.Phone, LoyaltyPoints: c.LoyaltyPoints,
	}
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if req.Name == "" || req.ClientType == "" {
		badRequest(w, "name and client_type are required")
		return
	}
	c := &model.Client{Name: req.Name, ClientType: req.ClientType, Address: req.Address, Phone: req.Phone}
	if err := s.clients.Create(r.Context(), c); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientResponse(*c))
}

// handleListClients supports optional ?type= and ?min_points= filters.
// When both are present, type wins; combined filtering is not offered.
func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	var (
		list []model.Client
		err  error
	)
	switch {
	case r.URL.Query().Get("type") != "":
		list, err = s.clients.ListByType(r.Context(), r.URL.Query().Get("type"))
	case r.URL.Query().Get("min_points") != "":
		var min int64
		min, err = strconv.ParseInt(r.URL.Query().Get("min_points"), 10, 64)
		if err != nil || min < 0 {
			badRequest(w, "min_points must be a non-negative integer")
			return
		}
		list, err = s.clients.ListByMinPoints(r.Context(), min)
	default:
		list, err = s.clients.List(r.Context())
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]clientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid client id")
		return
	}
	c, err := s.clients.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(*c))
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid client id")
		return
	}
	n, err := s.clients.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *Server) handleAddPoints(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid client id")
		return
	}
	delta, ok := parseDelta(w, r)
	if !ok {
		return
	}
	n, err := s.clients.AddPoints(r.Context(), id, delta)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

func (s *Server) handleRedeemPoints(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid client id")
		return
	}
	delta, ok := parseDelta(w, r)
	if !ok {
		return
	}
	n, err := s.clients.RedeemPoints(r.Context(), id, delta)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

type loyaltyEntryRequest struct {
	PointsDelta int64  `json:"points_delta"`
	Description string `json:"description"`
}

type loyaltyEntryResponse struct {
	ID          int64     `json:"id"`
	ClientID    int64     `json:"client_id"`
	RecordedAt  time.Time `json:"recorded_at"`
	PointsDelta int64     `json:"points_delta"`
	Description string    `json:"description"`
}

func toLoyaltyEntryResponse(e model.LoyaltyEntry) loyaltyEntryResponse {
	return loyaltyEntryResponse{
		ID: e.ID, ClientID: e.ClientID, RecordedAt: e.RecordedAt,
		PointsDelta: e.PointsDelta, Description: e.Description,
	}
}

func (s *Server) handleAddLoyaltyEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid client id")
		return
	}
	var req loyaltyEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if req.PointsDelta == 0 {
		badRequest(w, "points_delta must not be zero")
		return
	}
	e := &model.LoyaltyEntry{
		ClientID:    id,
		RecordedAt:  time.Now().UTC(),
		PointsDelta: req.PointsDelta,
		Description: req.Description,
	}
	if err := s.clients.AddLoyaltyEntry(r.Context(), e); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLoyaltyEntryResponse(*e))
}

func (s *Server) handleListLoyaltyEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid client id")
		return
	}
	list, err := s.clients.ListLoyaltyEntries(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]loyaltyEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toLoyaltyEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}
