package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dejobratic/ordenes/internal/orders/app"
	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/ports"
)

const (
	msgOrderCreated  = "Orden registrada exitosamente"
	msgOrderDeleted  = "Orden eliminada correctamente."
	msgStatusUpdated = "Estado actualizado a %q"

	idempotencyKeyHeader = "Idempotency-Key"
)

// Handler exposes HTTP endpoints for purchase order operations.
type Handler struct {
	service *app.Service
	logger  *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "orders-http"),
	}
}

// Register binds the order routes to the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/ordenes", h.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/ordenes/{numero}", h.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/ordenes/{numero}/estado", h.updateStatus).Methods(http.MethodPut)
	r.HandleFunc("/ordenes/{numero}", h.deleteOrder).Methods(http.MethodDelete)
}

type createOrderResponse struct {
	Message string `json:"mensaje"`
	OrderID int64  `json:"orden_id"`
}

type updateStatusRequest struct {
	Status string `json:"nuevoEstado"`
}

type messageResponse struct {
	Message string `json:"mensaje"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	idemKey := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
	if idemKey != "" {
		stored, err := h.service.GetIdempotentResponse(ctx, idemKey)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to read idempotency key", "error", err)
			writeError(w, http.StatusInternalServerError, domain.MsgPersistenceError)
			return
		}
		if stored != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}
	}

	var payload app.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, domain.MsgMissingFields)
		return
	}

	orderID, err := h.service.CreateOrder(ctx, payload)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	body, err := json.Marshal(createOrderResponse{Message: msgOrderCreated, OrderID: orderID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, domain.MsgPersistenceError)
		return
	}

	if idemKey != "" {
		stored := ports.StoredResponse{
			StatusCode: http.StatusCreated,
			Body:       body,
			OrderID:    orderID,
		}
		if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
			h.logger.WarnContext(ctx, "order created but idempotency key was not saved",
				"order_id", orderID,
				"error", err,
			)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), mux.Vars(r)["numero"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var payload updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, domain.MsgInvalidStatus)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), mux.Vars(r)["numero"], payload.Status); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf(msgStatusUpdated, payload.Status)})
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrder(r.Context(), mux.Vars(r)["numero"]); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: msgOrderDeleted})
}

// writeServiceError maps domain errors onto status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr  *domain.ValidationError
		notFoundErr    *domain.NotFoundError
		persistenceErr *domain.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, domain.MsgOrderNotFound)
	case errors.As(err, &persistenceErr):
		writeError(w, http.StatusInternalServerError, persistenceErr.Message())
	default:
		h.logger.ErrorContext(r.Context(), "unclassified service error", "error", err)
		writeError(w, http.StatusInternalServerError, domain.MsgPersistenceError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
