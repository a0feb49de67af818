package handler

import (
	"errors"
	"fmt"
	"net/http"

	"fraddriso20022/internal/address"
	"fraddriso20022/internal/logger"
	"fraddriso20022/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddressHandler serves the address book and the stateless converters.
type AddressHandler struct {
	svc address.Service
}

func NewAddressHandler(svc address.Service) *AddressHandler {
	return &AddressHandler{svc: svc}
}

// --- Request DTOs ---

// FrenchAddressRequest carries a kind and the seven envelope lines.
type FrenchAddressRequest struct {
	Kind  string  `json:"kind" validate:"required,kind"`
	Line1 *string `json:"line1"`
	Line2 *string `json:"line2"`
	Line3 *string `json:"line3"`
	Line4 *string `json:"line4"`
	Line5 *string `json:"line5"`
	Line6 *string `json:"line6"`
	Line7 *string `json:"line7"`
}

func (req FrenchAddressRequest) lines() address.FrenchAddress {
	return address.FrenchAddress{
		Line1: req.Line1, Line2: req.Line2, Line3: req.Line3, Line4: req.Line4,
		Line5: req.Line5, Line6: req.Line6, Line7: req.Line7,
	}
}

// kind is only called after validation, so the parse cannot fail.
func (req FrenchAddressRequest) kind() address.Kind {
	k, _ := address.ParseKind(req.Kind)
	return k
}

type createAddressResponse struct {
	ID      string              `json:"id"`
	Address *address.ISOAddress `json:"address"`
}

type validateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
	Field string `json:"field,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Field  string            `json:"field,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// --- Handlers ---

// List handles GET /addresses
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// Get handles GET /addresses/{id}
func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	addr, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, addr)
}

// ConvertStored handles GET /addresses/{id}/convert
func (h *AddressHandler) ConvertStored(w http.ResponseWriter, r *http.Request) {
	fr, err := h.svc.ConvertStored(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, fr)
}

// Create handles POST /addresses
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req FrenchAddressRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	addr, err := h.svc.Create(r.Context(), address.CreateAddressInput{
		Kind:  req.kind(),
		Lines: req.lines(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, createAddressResponse{ID: addr.ID, Address: addr})
}

// CreateISO handles POST /addresses/iso
func (h *AddressHandler) CreateISO(w http.ResponseWriter, r *http.Request) {
	var req address.ISOAddress
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	addr, err := h.svc.CreateISO(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, createAddressResponse{ID: addr.ID, Address: addr})
}

// Update handles PUT /addresses/{id}
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req FrenchAddressRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	addr, err := h.svc.Update(r.Context(), address.UpdateAddressInput{
		AddressID: chi.URLParam(r, "id"),
		Kind:      req.kind(),
		Lines:     req.lines(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, addr)
}

// Delete handles DELETE /addresses/{id}
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Address %s deleted successfully", id),
	})
}

// ConvertToISO handles POST /convert/iso
func (h *AddressHandler) ConvertToISO(w http.ResponseWriter, r *http.Request) {
	var req FrenchAddressRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.svc.ToISO(req.lines(), req.kind()))
}

// ConvertToFrench handles POST /convert/french
func (h *AddressHandler) ConvertToFrench(w http.ResponseWriter, r *http.Request) {
	var req address.ISOAddress
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.svc.ToFrench(req))
}

// ValidateFrench handles POST /validate/french
func (h *AddressHandler) ValidateFrench(w http.ResponseWriter, r *http.Request) {
	var req FrenchAddressRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	writeValidation(w, address.ValidateFrench(req.lines()))
}

// ValidateISO handles POST /validate/iso
func (h *AddressHandler) ValidateISO(w http.ResponseWriter, r *http.Request) {
	var req address.ISOAddress
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	writeValidation(w, address.ValidateISO(req))
}

func writeValidation(w http.ResponseWriter, err error) {
	if err == nil {
		utils.WriteJSON(w, http.StatusOK, validateResponse{Valid: true})
		return
	}
	utils.WriteJSON(w, http.StatusBadRequest, validateResponse{
		Error: err.Error(),
		Field: address.FieldOf(err),
	})
}

// writeError maps domain and request errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *RequestError

	switch {
	case errors.As(err, &reqErr):
		utils.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: reqErr.Message, Fields: reqErr.Fields})
	case errors.Is(err, address.ErrInvalidAddress):
		utils.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: address.FieldOf(err)})
	case errors.Is(err, address.ErrInvalidKind):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, address.ErrAddressNotFound):
		utils.WriteJSONError(w, fmt.Sprintf("Address with ID %s not found", chi.URLParam(r, "id")), http.StatusNotFound)
	case errors.Is(err, address.ErrAddressExists):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
	default:
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}
