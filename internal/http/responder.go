package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/workforce-planner/internal/application"
)

var (
	errBadRequestBody      = errors.New("Le format de la requête est invalide.")
	errInvalidEmployeeID   = errors.New("L'identifiant de l'employé est invalide.")
	errInvalidServiceID    = errors.New("L'identifiant du service est invalide.")
	errInvalidLeaveID      = errors.New("L'identifiant du congé est invalide.")
	errInvalidEditorID     = errors.New("L'identifiant de la session d'édition est invalide.")
	errMissingSessionToken = errors.New("Veuillez fournir un jeton d'authentification.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "Vous n'avez pas les droits nécessaires pour cette opération.",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "La ressource demandée est introuvable."})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "Une ressource identique existe déjà."})
	case errors.Is(err, application.ErrEditorConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "La session d'édition n'est pas dans l'état attendu."})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "Les données saisies sont invalides.",
				Errors:  localizeValidationErrors(vErr),
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "Une erreur interne est survenue."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "La requête est incorrecte."
	case http.StatusUnauthorized:
		return "Une authentification est requise."
	case http.StatusForbidden:
		return "Vous n'avez pas les droits nécessaires pour cette opération."
	case http.StatusNotFound:
		return "La ressource demandée est introuvable."
	case http.StatusConflict:
		return "La requête entre en conflit avec l'état actuel de la ressource."
	case http.StatusUnprocessableEntity:
		return "Les données saisies sont invalides."
	default:
		return "Une erreur interne est survenue."
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "name is required":
		return "Le nom est obligatoire."
	case "kind is required":
		return "Le type de service est obligatoire."
	case "contract type is required":
		return "Le type de contrat est obligatoire."
	case "weekly hours must be one of H35, H39, H35_MODULABLE, H39_MODULABLE":
		return "Les heures hebdomadaires doivent être H35, H39, H35_MODULABLE ou H39_MODULABLE."
	case "at least one working day is required":
		return "Au moins un jour travaillé est obligatoire."
	case "working days must be ISO weekday numbers between 1 and 7":
		return "Les jours travaillés doivent être des numéros ISO entre 1 et 7."
	case "working days must not repeat":
		return "Les jours travaillés ne doivent pas se répéter."
	case "day start must be an HH:MM clock time":
		return "L'heure de prise de poste doit être au format HH:MM."
	case "main service is required":
		return "Le service principal est obligatoire."
	case "main service does not exist":
		return "Le service principal indiqué n'existe pas."
	case "employee is required":
		return "L'employé est obligatoire."
	case "employee does not exist":
		return "L'employé indiqué n'existe pas."
	case "start date is required":
		return "La date de début est obligatoire."
	case "end date is required":
		return "La date de fin est obligatoire."
	case "end date must not precede start date":
		return "La date de fin doit être postérieure ou égale à la date de début."
	case "leave overlaps an existing record":
		return "Le congé chevauche un congé déjà enregistré."
	case "label is required":
		return "Le libellé est obligatoire."
	case "label must be unique":
		return "Le libellé doit être unique."
	case "count must not be negative":
		return "Le nombre de chambres ne peut pas être négatif."
	case "cleaning minutes must be positive":
		return "Le temps de ménage doit être strictement positif."
	case "working hours per day must be between 0 and 24":
		return "Les heures travaillées par jour doivent être comprises entre 0 et 24."
	case "safety margin must be a fraction between 0 and 1":
		return "La marge de sécurité doit être une fraction entre 0 et 1."
	case "weekly hours per staff must be positive":
		return "Les heures hebdomadaires par employé doivent être positives."
	case "rest days per week must be between 0 and 6":
		return "Les jours de repos hebdomadaires doivent être compris entre 0 et 6."
	case "annual leave days must not be negative":
		return "Les jours de congés annuels ne peuvent pas être négatifs."
	case "break minutes must not be negative":
		return "La durée de pause ne peut pas être négative."
	case "referenced resource does not exist or is still in use":
		return "La ressource référencée n'existe pas ou est encore utilisée."
	default:
		if strings.HasPrefix(message, "unknown service:") {
			return "Service polyvalent inconnu : " + strings.TrimSpace(strings.TrimPrefix(message, "unknown service:"))
		}
		if strings.HasSuffix(message, ".label") || strings.Contains(message, "rooms[") {
			return message
		}
		return message
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
