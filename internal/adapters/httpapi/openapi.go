package httpapi

import (
	"net/http"

	"github.com/Guilhem-Bonnet/study-schedule/internal/app"
	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
	"github.com/Guilhem-Bonnet/study-schedule/internal/httpjson"
)

// handleOpenAPI renvoie une description OpenAPI minimale de l'API.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	jsonOK := func(schemaRef string) map[string]any {
		return map[string]any{
			"description": "OK",
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": schemaRef},
				},
			},
		}
	}

	jsonErr := map[string]any{
		"description": "Error",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Error"},
			},
		},
	}

	sessionID := map[string]any{
		"name": "id", "in": "path", "required": true,
		"schema": map[string]any{"type": "string"},
	}
	localeParam := map[string]any{
		"name": "locale", "in": "query", "required": false,
		"schema": map[string]any{"type": "string", "enum": toAny(app.SupportedLocales())},
	}

	categories := make([]any, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		categories = append(categories, string(c))
	}

	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "Study schedule widget API",
			"version": "v1",
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Error": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error": map[string]any{"type": "string"},
						"code":  map[string]any{"type": "string", "enum": []any{app.CodeInvalidDay, app.CodeSessionLimit, app.CodeInvalidSettings, app.CodeClockUnavailable, "not_found"}},
					},
					"required": []any{"error"},
				},
				"SubjectCategory": map[string]any{"type": "string", "enum": categories},
				"Week": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"locale": map[string]any{"type": "string"},
						"days": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"dayIndex": map[string]any{"type": "integer", "minimum": 0, "maximum": 6},
									"label":    map[string]any{"type": "string"},
									"subjects": map[string]any{
										"type": "array",
										"items": map[string]any{
											"type": "object",
											"properties": map[string]any{
												"name":     map[string]any{"type": "string"},
												"category": map[string]any{"$ref": "#/components/schemas/SubjectCategory"},
											},
										},
									},
								},
							},
						},
					},
				},
				"State": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"sessionId":        map[string]any{"type": "string"},
						"activeDayIndex":   map[string]any{"type": "integer", "nullable": true, "minimum": 0, "maximum": 6},
						"displayTimestamp": map[string]any{"type": "string"},
						"ready":            map[string]any{"type": "boolean"},
						"selectedByUser":   map[string]any{"type": "boolean"},
						"ticks":            map[string]any{"type": "integer"},
						"revision":         map[string]any{"type": "integer", "description": "Croît à chaque mutation; un client ignore une révision plus ancienne."},
						"lastTickAt":       map[string]any{"type": "string", "format": "date-time"},
					},
					"required": []any{"activeDayIndex", "displayTimestamp", "ready"},
				},
				"WidgetView": map[string]any{
					"type":                 "object",
					"description":          "Modèle de rendu: cartes (vides tant que ready=false), squelette, légende.",
					"additionalProperties": true,
				},
				"SelectRequest": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"dayIndex": map[string]any{"type": "integer", "minimum": 0, "maximum": 6},
						"label":    map[string]any{"type": "string"},
					},
				},
				"Settings": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"locale":             map[string]any{"type": "string"},
						"selectionMode":      map[string]any{"type": "string", "enum": []any{string(domain.SelectionFollowClock), string(domain.SelectionHoldUntilDayChange)}},
						"tickIntervalMillis": map[string]any{"type": "integer", "minimum": domain.MinTickIntervalMs},
						"title":              map[string]any{"type": "string"},
						"maxSessions":        map[string]any{"type": "integer", "minimum": 1},
						"idleTimeoutSeconds": map[string]any{"type": "integer", "minimum": 1},
					},
				},
			},
		},
		"paths": map[string]any{
			"/api/v1/health":  map[string]any{"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "OK"}}}},
			"/api/v1/version": map[string]any{"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "OK"}}}},
			"/api/v1/schedule": map[string]any{"get": map[string]any{
				"parameters": []any{localeParam},
				"responses":  map[string]any{"200": jsonOK("#/components/schemas/Week")},
			}},
			"/api/v1/legend": map[string]any{"get": map[string]any{
				"parameters": []any{localeParam},
				"responses":  map[string]any{"200": map[string]any{"description": "OK"}},
			}},
			"/api/v1/today": map[string]any{"get": map[string]any{
				"parameters": []any{localeParam},
				"responses":  map[string]any{"200": map[string]any{"description": "OK"}, "503": jsonErr},
			}},
			"/api/v1/view": map[string]any{"get": map[string]any{
				"parameters": []any{localeParam},
				"responses":  map[string]any{"200": jsonOK("#/components/schemas/WidgetView")},
			}},
			"/api/v1/sessions": map[string]any{"post": map[string]any{
				"summary":   "Monte un widget (démarre son horloge).",
				"responses": map[string]any{"201": jsonOK("#/components/schemas/WidgetView"), "429": jsonErr},
			}},
			"/api/v1/sessions/{id}": map[string]any{
				"parameters": []any{sessionID},
				"get":        map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/State"), "404": jsonErr}},
				"delete":     map[string]any{"summary": "Démonte le widget.", "responses": map[string]any{"204": map[string]any{"description": "Unmounted"}, "404": jsonErr}},
			},
			"/api/v1/sessions/{id}/select": map[string]any{
				"parameters": []any{sessionID},
				"post": map[string]any{
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{"schema": map[string]any{"$ref": "#/components/schemas/SelectRequest"}},
						},
					},
					"responses": map[string]any{"200": jsonOK("#/components/schemas/State"), "400": jsonErr, "404": jsonErr},
				},
			},
			"/api/v1/sessions/{id}/view":   map[string]any{"parameters": []any{sessionID}, "get": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/WidgetView"), "404": jsonErr}}},
			"/api/v1/sessions/{id}/events": map[string]any{"parameters": []any{sessionID}, "get": map[string]any{"summary": "Flux SSE (widget.tick, widget.selected, widget.unmounted).", "responses": map[string]any{"200": map[string]any{"description": "text/event-stream"}}}},
			"/api/v1/sessions/{id}/ws":     map[string]any{"parameters": []any{sessionID}, "get": map[string]any{"summary": "WebSocket: état poussé, sélection entrante.", "responses": map[string]any{"101": map[string]any{"description": "Switching Protocols"}}}},
			"/api/v1/settings": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/Settings")}},
				"put": map[string]any{
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{"schema": map[string]any{"$ref": "#/components/schemas/Settings"}},
						},
					},
					"responses": map[string]any{"200": jsonOK("#/components/schemas/Settings"), "400": jsonErr},
				},
			},
		},
	}

	httpjson.Write(w, http.StatusOK, spec)
}

func toAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}
