package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nikolayk812/rocketcart/internal/domain"
	"github.com/nikolayk812/rocketcart/internal/notify"
	"github.com/shopspring/decimal"
)

type CartStore interface {
	Cart() []domain.Product
	Totals() domain.Totals
	AddProduct(ctx context.Context, productID int64)
	RemoveProduct(ctx context.Context, productID int64)
	UpdateProductAmount(ctx context.Context, update domain.AmountUpdate)
}

type API struct {
	store     CartStore
	validator *validator.Validate
	logger    *slog.Logger
}

func NewAPI(store CartStore, logger *slog.Logger) *API {
	return &API{
		store:     store,
		validator: validator.New(),
		logger:    logger,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", a.handleGetCart)

		r.Group(func(r chi.Router) {
			r.Use(inboxMiddleware)
			r.Post("/items", a.handleAddItem)
			r.Put("/items/{productID}", a.handleUpdateItem)
			r.Delete("/items/{productID}", a.handleRemoveItem)
		})
	})

	return r
}

func inboxMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := notify.WithInbox(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		a.logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type updateItemRequest struct {
	Amount *int64 `json:"amount" validate:"required"`
}

type productResponse struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Price    json.Number `json:"price"`
	Image    string      `json:"image"`
	Amount   int64       `json:"amount"`
	Subtotal json.Number `json:"subtotal"`
}

type totalsResponse struct {
	Distinct int         `json:"distinct"`
	Items    int64       `json:"items"`
	Subtotal json.Number `json:"subtotal"`
	Currency string      `json:"currency"`
}

type notificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type cartResponse struct {
	Items         []productResponse      `json:"items"`
	Totals        totalsResponse         `json:"totals"`
	Notifications []notificationResponse `json:"notifications,omitempty"`
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.cartResponse(r.Context()))
}

func (a *API) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	a.store.AddProduct(r.Context(), req.ProductID)

	writeJSON(w, http.StatusOK, a.cartResponse(r.Context()))
}

func (a *API) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req updateItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	a.store.UpdateProductAmount(r.Context(), domain.AmountUpdate{
		ProductID: productID,
		Amount:    *req.Amount,
	})

	writeJSON(w, http.StatusOK, a.cartResponse(r.Context()))
}

func (a *API) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	a.store.RemoveProduct(r.Context(), productID)

	writeJSON(w, http.StatusOK, a.cartResponse(r.Context()))
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	if err := a.validator.Struct(dst); err != nil {
		return err
	}
	return nil
}

func (a *API) cartResponse(ctx context.Context) cartResponse {
	items := a.store.Cart()
	totals := a.store.Totals()

	resp := cartResponse{
		Items: make([]productResponse, 0, len(items)),
		Totals: totalsResponse{
			Distinct: totals.Distinct,
			Items:    totals.Items,
			Subtotal: json.Number(totals.Subtotal.Amount.StringFixed(2)),
			Currency: totals.Subtotal.Currency.String(),
		},
	}

	for _, item := range items {
		resp.Items = append(resp.Items, mapProduct(item))
	}

	if inbox, ok := notify.InboxFrom(ctx); ok {
		for _, n := range inbox.Items() {
			resp.Notifications = append(resp.Notifications, notificationResponse{
				ID:        n.ID,
				Severity:  string(n.Severity),
				Message:   n.Message,
				CreatedAt: n.CreatedAt,
			})
		}
	}

	return resp
}

func mapProduct(p domain.Product) productResponse {
	return productResponse{
		ID:       p.ID,
		Title:    p.Title,
		Price:    json.Number(p.Price.String()),
		Image:    p.Image,
		Amount:   p.Amount,
		Subtotal: json.Number(p.Price.Mul(decimal.NewFromInt(p.Amount)).StringFixed(2)),
	}
}

func parseProductID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid product id")
	}
	return id, nil
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
