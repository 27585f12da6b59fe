package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/addressbook/internal/domain"
	"github.com/utafrali/addressbook/internal/field"
	"github.com/utafrali/addressbook/internal/service"
	apperrors "github.com/utafrali/addressbook/pkg/errors"
	"github.com/utafrali/addressbook/pkg/middleware"
	"github.com/utafrali/addressbook/pkg/validator"
)

// AddressHandler serves the address book endpoints.
type AddressHandler struct {
	svc    *service.AddressService
	logger *slog.Logger
}

// NewAddressHandler creates the address handler.
func NewAddressHandler(svc *service.AddressService, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{svc: svc, logger: logger}
}

type addressRequest struct {
	Nickname        string         `json:"address_name" validate:"max=64"`
	FirstName       string         `json:"first_name" validate:"required,max=255"`
	LastName        string         `json:"last_name" validate:"required,max=255"`
	Company         string         `json:"company" validate:"max=255"`
	Street1         string         `json:"street1" validate:"required,max=255"`
	Street2         string         `json:"street2" validate:"max=255"`
	City            string         `json:"city" validate:"required,max=255"`
	Zone            string         `json:"zone" validate:"max=32"`
	Postcode        string         `json:"postcode" validate:"required,max=10"`
	Country         string         `json:"country" validate:"required,len=2"`
	Phone           string         `json:"phone" validate:"max=32"`
	DefaultShipping bool           `json:"default_shipping"`
	DefaultBilling  bool           `json:"default_billing"`
	Extra           map[string]any `json:"extra,omitempty"`
}

// fields flattens the request into raw field values keyed by registered
// field names. Extension fields ride along under their own names.
func (r addressRequest) fields() map[string]any {
	out := map[string]any{
		field.Nickname:        r.Nickname,
		field.FirstName:       r.FirstName,
		field.LastName:        r.LastName,
		field.Company:         r.Company,
		field.Street1:         r.Street1,
		field.Street2:         r.Street2,
		field.City:            r.City,
		field.Zone:            r.Zone,
		field.Postcode:        r.Postcode,
		field.CountryField:    r.Country,
		field.Phone:           r.Phone,
		field.DefaultShipping: r.DefaultShipping,
		field.DefaultBilling:  r.DefaultBilling,
	}
	for name, value := range r.Extra {
		out[name] = value
	}
	return out
}

type addressResponse struct {
	AID             int64  `json:"aid"`
	UID             int64  `json:"uid"`
	Nickname        string `json:"address_name,omitempty"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Company         string `json:"company,omitempty"`
	Street1         string `json:"street1"`
	Street2         string `json:"street2,omitempty"`
	City            string `json:"city"`
	Zone            string `json:"zone,omitempty"`
	Postcode        string `json:"postcode"`
	Country         string `json:"country"`
	Phone           string `json:"phone,omitempty"`
	DefaultShipping bool   `json:"default_shipping"`
	DefaultBilling  bool   `json:"default_billing"`
	Created         int64  `json:"created"`
	Modified        int64  `json:"modified"`
}

func newAddressResponse(a *domain.Address) addressResponse {
	rec := a.RawRecord()
	return addressResponse{
		AID:             a.ID(),
		UID:             a.Owner(),
		Nickname:        rec.String(field.Nickname),
		FirstName:       rec.String(field.FirstName),
		LastName:        rec.String(field.LastName),
		Company:         rec.String(field.Company),
		Street1:         rec.String(field.Street1),
		Street2:         rec.String(field.Street2),
		City:            rec.String(field.City),
		Zone:            rec.String(field.Zone),
		Postcode:        rec.String(field.Postcode),
		Country:         rec.String(field.CountryField),
		Phone:           rec.String(field.Phone),
		DefaultShipping: a.IsDefault(domain.KindShipping),
		DefaultBilling:  a.IsDefault(domain.KindBilling),
		Created:         a.Created(),
		Modified:        a.Modified(),
	}
}

func actorFrom(r *http.Request) service.Actor {
	return service.Actor{
		UserID: middleware.UserIDFromContext(r.Context()),
		Role:   middleware.RoleFromContext(r.Context()),
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.InvalidInput("invalid " + name + " in path")
	}
	return id, nil
}

// List handles GET /users/{uid}/addresses.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	addresses, err := h.svc.ListAddresses(r.Context(), actorFrom(r), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	out := make([]addressResponse, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, newAddressResponse(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"addresses": out})
}

// Create handles POST /users/{uid}/addresses.
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, apperrors.InvalidInput("invalid request body"))
		return
	}
	if err := validator.Validate(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	a, err := h.svc.CreateAddress(r.Context(), actorFrom(r), uid, req.fields())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAddressResponse(a))
}

// Get handles GET /users/{uid}/addresses/{aid}.
func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	aid, err := pathID(r, "aid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	a, err := h.svc.GetAddress(r.Context(), actorFrom(r), uid, aid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newAddressResponse(a))
}

// Update handles PUT /users/{uid}/addresses/{aid}. The request is a full
// representation of the address.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	aid, err := pathID(r, "aid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, apperrors.InvalidInput("invalid request body"))
		return
	}
	if err := validator.Validate(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	a, err := h.svc.UpdateAddress(r.Context(), actorFrom(r), uid, aid, req.fields())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newAddressResponse(a))
}

// Delete handles DELETE /users/{uid}/addresses/{aid}.
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	aid, err := pathID(r, "aid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.svc.DeleteAddress(r.Context(), actorFrom(r), uid, aid); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDefault handles PUT /users/{uid}/addresses/{aid}/default/{kind}.
func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	aid, err := pathID(r, "aid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	kind := chi.URLParam(r, "kind")

	a, err := h.svc.SetDefaultAddress(r.Context(), actorFrom(r), uid, aid, kind)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newAddressResponse(a))
}

// Render handles GET /users/{uid}/addresses/{aid}/rendered. The optional
// "context" query parameter selects the display context, defaulting to the
// address view.
func (h *AddressHandler) Render(w http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	aid, err := pathID(r, "aid")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	displayContext := r.URL.Query().Get("context")
	if displayContext == "" {
		displayContext = field.ContextAddressView
	}

	views, err := h.svc.RenderAddress(r.Context(), actorFrom(r), uid, aid, displayContext)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"context": displayContext, "fields": views})
}
