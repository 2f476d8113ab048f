package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth         *AuthHandler
	Services     *ServiceHandler
	Employees    *EmployeeHandler
	Housekeeping *HousekeepingHandler
	Leave        *LeaveHandler
	Planning     *PlanningHandler
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Logout(w, r)
		})
	}

	if cfg.Services != nil {
		mux.HandleFunc("/services", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Services.List(w, r)
			case http.MethodPost:
				cfg.Services.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/services/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/services/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithServiceID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Services.Update(w, r)
			case http.MethodDelete:
				cfg.Services.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Employees != nil {
		mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Employees.List(w, r)
			case http.MethodPost:
				cfg.Employees.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/employees/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/employees/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithEmployeeID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodGet:
				cfg.Employees.Get(w, r)
			case http.MethodPut:
				cfg.Employees.Update(w, r)
			case http.MethodDelete:
				cfg.Employees.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Housekeeping != nil {
		mux.HandleFunc("/housekeeping/rooms", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Housekeeping.ListRooms(w, r)
			case http.MethodPut:
				cfg.Housekeeping.ReplaceRooms(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}
		})
		mux.HandleFunc("/housekeeping/config", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Housekeeping.GetConfig(w, r)
			case http.MethodPut:
				cfg.Housekeeping.SaveConfig(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}
		})
		mux.HandleFunc("/housekeeping/capacity", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Housekeeping.Capacity(w, r)
		})
	}

	if cfg.Leave != nil {
		mux.HandleFunc("/leave", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Leave.List(w, r)
			case http.MethodPost:
				cfg.Leave.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/leave/summary", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Leave.Summary(w, r)
		})
		mux.HandleFunc("/leave/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/leave/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithLeaveID(r.Context(), id)
			r = r.WithContext(ctx)
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Leave.Delete(w, r)
		})
	}

	if cfg.Planning != nil {
		mux.HandleFunc("/planning/schedules", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Planning.Snapshot(w, r)
		})
		mux.HandleFunc("/planning/annual", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Planning.Annual(w, r)
		})
		mux.HandleFunc("/planning/alerts", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Planning.Alerts(w, r)
		})
		mux.HandleFunc("/planning/applied", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Planning.Applied(w, r)
		})
		mux.HandleFunc("/planning/editor", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Planning.StartEditor(w, r)
		})
		mux.HandleFunc("/planning/editor/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/planning/editor/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			if id, ok := strings.CutSuffix(rest, "/apply"); ok {
				if id == "" {
					http.NotFound(w, r)
					return
				}
				ctx := ContextWithEditorSessionID(r.Context(), id)
				r = r.WithContext(ctx)
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Planning.ApplyEditor(w, r)
				return
			}

			if strings.Contains(rest, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithEditorSessionID(r.Context(), rest)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodGet:
				cfg.Planning.GetEditor(w, r)
			case http.MethodPatch:
				cfg.Planning.UpdateEditor(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPatch)
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

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
