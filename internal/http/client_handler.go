package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/bizdesk/internal/service"
)

type createClientRequest struct {
	Name          string  `json:"name" validate:"required,notblank,max=255"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Email         *string `json:"email" validate:"omitempty,email,max=255"`
	Address       *string `json:"address"`
	CNPJ          *string `json:"cnpj" validate:"omitempty,digitspunct,max=30"`
	Observations  *string `json:"observations"`
}

type updateClientRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=255"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Email         *string `json:"email" validate:"omitempty,email,max=255"`
	Address       *string `json:"address"`
	CNPJ          *string `json:"cnpj" validate:"omitempty,digitspunct,max=30"`
	Observations  *string `json:"observations"`
}

type clientHandler struct {
	*Service
	clientSvc service.ClientService
}

func (h *clientHandler) ListClients(w http.ResponseWriter, r *http.Request) error {
	clients, err := h.clientSvc.ListClients(r.Context())
	if err != nil {
		return fmt.Errorf("client service list clients: %w", err)
	}

	return writeJSON(w, http.StatusOK, clients)
}

func (h *clientHandler) GetClient(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	client, err := h.clientSvc.GetClient(r.Context(), id)
	if err != nil {
		return fmt.Errorf("client service get client: %w", err)
	}

	return writeJSON(w, http.StatusOK, client)
}

func (h *clientHandler) CreateClient(w http.ResponseWriter, r *http.Request) error {
	var req createClientRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return err
	}

	client, err := h.clientSvc.CreateClient(r.Context(), service.CreateClientParams{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		CNPJ:          req.CNPJ,
		Observations:  req.Observations,
	})
	if err != nil {
		return fmt.Errorf("client service create client: %w", err)
	}

	return writeJSON(w, http.StatusCreated, client)
}

func (h *clientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	var req updateClientRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return err
	}
	if err := requireNonBlank("name", req.Name); err != nil {
		return err
	}

	client, err := h.clientSvc.UpdateClient(r.Context(), id, service.UpdateClientParams(req))
	if err != nil {
		return fmt.Errorf("client service update client: %w", err)
	}

	return writeJSON(w, http.StatusOK, client)
}

func (h *clientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.clientSvc.DeleteClient(r.Context(), id); err != nil {
		return fmt.Errorf("client service delete client: %w", err)
	}

	return writeJSON(w, http.StatusOK, messageResponse{Message: "client deleted"})
}

func (h *clientHandler) ExportClients(w http.ResponseWriter, r *http.Request) error {
	format, err := service.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		return err
	}

	exp, err := h.clientSvc.ExportClients(r.Context(), format)
	if err != nil {
		return fmt.Errorf("client service export clients: %w", err)
	}

	return writeFile(w, exp)
}

func (h *clientHandler) ImportClients(w http.ResponseWriter, r *http.Request) error {
	file, fileName, err := h.readUpload(w, r)
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := h.clientSvc.ImportClients(r.Context(), service.ImportParams{FileName: fileName, File: file})
	if err != nil {
		return fmt.Errorf("client service import clients: %w", err)
	}

	return h.writeImportResult(w, res)
}
