package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Shifts           *ShiftHandler
	Employees        *EmployeeHandler
	CoverageRequests *CoverageRequestHandler
	TradeOffers      *TradeOfferHandler
	PickupOffers     *PickupOfferHandler
	Health           *HealthHandler
	Middleware       []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Health != nil {
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Health.Check(w, r)
		})
	}

	if cfg.Shifts != nil {
		mux.HandleFunc("/shifts", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Shifts.List(w, r)
			case http.MethodPost:
				cfg.Shifts.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/shifts/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/shifts/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithResourceID(r.Context(), id)
			r = r.WithContext(ctx)
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Shifts.Get(w, r)
		})
		mux.HandleFunc("/open-shifts", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Shifts.ListOpen(w, r)
		})
	}

	if cfg.Employees != nil {
		mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Employees.Create(w, r)
		})
	}

	if cfg.CoverageRequests != nil {
		mux.HandleFunc("/coverage-requests", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.CoverageRequests.Create(w, r)
		})
	}

	if cfg.TradeOffers != nil {
		mux.HandleFunc("/trade-offers", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.TradeOffers.Create(w, r)
		})
		mux.HandleFunc("/trade-offers/", func(w http.ResponseWriter, r *http.Request) {
			id, action, ok := splitOfferPath(r.URL.Path, "/trade-offers/")
			if !ok {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			ctx := ContextWithResourceID(r.Context(), id)
			r = r.WithContext(ctx)
			switch action {
			case "approve":
				cfg.TradeOffers.Approve(w, r)
			case "deny":
				cfg.TradeOffers.Deny(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.PickupOffers != nil {
		mux.HandleFunc("/pickup-offers", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.PickupOffers.Create(w, r)
		})
		mux.HandleFunc("/pickup-offers/", func(w http.ResponseWriter, r *http.Request) {
			id, action, ok := splitOfferPath(r.URL.Path, "/pickup-offers/")
			if !ok {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			ctx := ContextWithResourceID(r.Context(), id)
			r = r.WithContext(ctx)
			switch action {
			case "approve":
				cfg.PickupOffers.Approve(w, r)
			case "deny":
				cfg.PickupOffers.Deny(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// splitOfferPath extracts the offer id and trailing action from paths shaped
// like /trade-offers/{id}/approve.
func splitOfferPath(path, prefix string) (id, action string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
